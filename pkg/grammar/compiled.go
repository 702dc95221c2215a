package grammar

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// ArchiveVersion is the compiled grammar archive format version. Decoders
// reject other versions.
const ArchiveVersion = 1

// Compiled is the immutable product of [Assemble]: both whole-utterance
// transducers, the symbol table they share, and the per-class order
// policies the verbalization stage needs. Safe for unlocked concurrent
// use once returned.
type Compiled struct {
	Language    string
	Direction   Direction
	Version     string
	Tagger      *fst.Fst
	Verbalizer  *fst.Fst
	Symbols     *fst.SymbolTable
	Policies    map[string]semiotic.OrderPolicy
	Fingerprint uint64
}

// archive is the gob wire form. The symbol list is stored once; decoding
// rebinds both transducers to a single rebuilt table, which keeps them
// composable against each other and against request chains.
type archive struct {
	Version     int
	Language    string
	Direction   string
	Grammar     string
	Fingerprint uint64
	Symbols     []string
	Policies    map[string]semiotic.OrderPolicy
	Tagger      fst.Wire
	Verbalizer  fst.Wire
}

// MarshalBinary encodes the compiled grammar for the archive store.
func (c *Compiled) MarshalBinary() ([]byte, error) {
	a := archive{
		Version:     ArchiveVersion,
		Language:    c.Language,
		Direction:   string(c.Direction),
		Grammar:     c.Version,
		Fingerprint: c.Fingerprint,
		Policies:    c.Policies,
		Tagger:      c.Tagger.Wire(),
		Verbalizer:  c.Verbalizer.Wire(),
	}
	if c.Symbols != nil {
		a.Symbols = c.Symbols.Symbols()
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return nil, fmt.Errorf("grammar: encode archive: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalCompiled decodes an archive produced by
// [Compiled.MarshalBinary].
func UnmarshalCompiled(data []byte) (*Compiled, error) {
	var a archive
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&a); err != nil {
		return nil, fmt.Errorf("grammar: decode archive: %w", err)
	}
	if a.Version != ArchiveVersion {
		return nil, fmt.Errorf("grammar: unsupported archive version %d", a.Version)
	}
	dir := Direction(a.Direction)
	if !dir.IsValid() {
		return nil, fmt.Errorf("grammar: archive has invalid direction %q", a.Direction)
	}
	syms, err := fst.NewSymbolTableFrom(a.Symbols)
	if err != nil {
		return nil, fmt.Errorf("grammar: decode archive: %w", err)
	}
	tagger, err := fst.FromWire(a.Tagger, syms)
	if err != nil {
		return nil, fmt.Errorf("grammar: decode archive tagger: %w", err)
	}
	verbalizer, err := fst.FromWire(a.Verbalizer, syms)
	if err != nil {
		return nil, fmt.Errorf("grammar: decode archive verbalizer: %w", err)
	}
	return &Compiled{
		Language:    a.Language,
		Direction:   dir,
		Version:     a.Grammar,
		Tagger:      tagger,
		Verbalizer:  verbalizer,
		Symbols:     syms,
		Policies:    a.Policies,
		Fingerprint: a.Fingerprint,
	}, nil
}
