package fst

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/fnv"
)

// WireVersion is the current binary encoding version. Decoders reject
// other versions instead of guessing.
const WireVersion = 1

// WireArc is the serialized form of an [Arc].
type WireArc struct {
	In, Out int32
	Weight  float64
	Next    int32
}

// Wire is the table-free serialized form of an [Fst]. Archives that bundle
// several transducers over one symbol table (a compiled grammar's tagger
// and verbalizer) store one symbol list plus one Wire per transducer, then
// rebind them to a single decoded table.
type Wire struct {
	Version int
	Start   int32
	Finals  []float64
	Arcs    [][]WireArc
}

// Wire returns the serialized form of f.
func (f *Fst) Wire() Wire {
	w := Wire{
		Version: WireVersion,
		Start:   int32(f.start),
		Finals:  make([]float64, len(f.finals)),
		Arcs:    make([][]WireArc, len(f.arcs)),
	}
	copy(w.Finals, f.finals)
	for s, as := range f.arcs {
		if len(as) == 0 {
			continue
		}
		w.Arcs[s] = make([]WireArc, len(as))
		for i, a := range as {
			w.Arcs[s][i] = WireArc{int32(a.In), int32(a.Out), a.Weight, int32(a.Next)}
		}
	}
	return w
}

// FromWire rebuilds a transducer from its serialized form, bound to syms.
// Labels and state references are bounds-checked so a corrupt archive fails
// decoding instead of producing an out-of-range transducer.
func FromWire(w Wire, syms *SymbolTable) (*Fst, error) {
	if w.Version != WireVersion {
		return nil, fmt.Errorf("fst: unsupported wire version %d", w.Version)
	}
	if len(w.Finals) != len(w.Arcs) {
		return nil, fmt.Errorf("fst: wire state count mismatch (%d finals, %d arc lists)", len(w.Finals), len(w.Arcs))
	}
	n := int32(len(w.Arcs))
	if w.Start != int32(NoState) && (w.Start < 0 || w.Start >= n) {
		return nil, fmt.Errorf("fst: wire start state %d out of range", w.Start)
	}
	maxLabel := int32(0)
	if syms != nil {
		maxLabel = int32(syms.Len())
	}
	f := New(syms)
	for i := int32(0); i < n; i++ {
		f.AddState()
	}
	copy(f.finals, w.Finals)
	f.start = StateID(w.Start)
	for s, as := range w.Arcs {
		for _, a := range as {
			if a.Next < 0 || a.Next >= n {
				return nil, fmt.Errorf("fst: wire arc from state %d targets state %d out of range", s, a.Next)
			}
			if a.In < 0 || a.Out < 0 || (syms != nil && (a.In >= maxLabel || a.Out >= maxLabel)) {
				return nil, fmt.Errorf("fst: wire arc from state %d has label outside symbol table", s)
			}
			f.AddArc(StateID(s), Arc{Label(a.In), Label(a.Out), a.Weight, StateID(a.Next)})
		}
	}
	return f, nil
}

// wireFile is the standalone single-transducer archive format.
type wireFile struct {
	Symbols []string
	Fst     Wire
}

// Marshal encodes f together with its symbol table.
func Marshal(f *Fst) ([]byte, error) {
	file := wireFile{Fst: f.Wire()}
	if f.syms != nil {
		file.Symbols = f.syms.Symbols()
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(file); err != nil {
		return nil, fmt.Errorf("fst: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a transducer encoded by [Marshal].
func Unmarshal(data []byte) (*Fst, error) {
	var file wireFile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&file); err != nil {
		return nil, fmt.Errorf("fst: decode: %w", err)
	}
	var syms *SymbolTable
	if len(file.Symbols) > 0 {
		var err error
		syms, err = NewSymbolTableFrom(file.Symbols)
		if err != nil {
			return nil, err
		}
	}
	return FromWire(file.Fst, syms)
}

// Fingerprint returns the FNV-64a hash of data. Archive stores use it as a
// cheap integrity check on stored grammar blobs.
func Fingerprint(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
