package grammar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// Step is one attributable unit of a build plan: a single class and the
// declaration data that shapes its compilation.
type Step struct {
	Class  string
	Weight float64
	Order  semiotic.OrderPolicy
}

// Plan is the validated, ordered build plan derived from a source for one
// direction. Assembly follows the plan step by step so that every failure
// and log line can name the class it belongs to, and the plan fingerprint
// keys archive cache entries.
type Plan struct {
	Language  string
	Version   string
	Direction Direction
	Steps     []Step
}

// PlanOf validates the source's declarations for one direction and returns
// the build plan. All declaration problems are reported together.
func PlanOf(src Source, dir Direction) (*Plan, error) {
	if !dir.IsValid() {
		return nil, fmt.Errorf("grammar: invalid direction %q", string(dir))
	}
	if src.Language() == "" {
		return nil, errors.New("grammar: source has no language tag")
	}
	classes := src.Classes(dir)
	if len(classes) == 0 {
		return nil, fmt.Errorf("grammar: source %q declares no classes for %s", src.Language(), dir)
	}

	var errs []error
	seen := make(map[string]bool, len(classes))
	steps := make([]Step, 0, len(classes))
	for i, c := range classes {
		switch {
		case c.Name == "":
			errs = append(errs, fmt.Errorf("class %d has no name", i))
		case seen[c.Name]:
			errs = append(errs, fmt.Errorf("class %q declared twice", c.Name))
		default:
			seen[c.Name] = true
		}
		if c.Weight < 0 || math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
			errs = append(errs, fmt.Errorf("class %q has invalid weight %v", c.Name, c.Weight))
		}
		if c.Tagger == nil {
			errs = append(errs, fmt.Errorf("class %q has no tagger builder", c.Name))
		}
		if c.Verbalizer == nil {
			errs = append(errs, fmt.Errorf("class %q has no verbalizer builder", c.Name))
		}
		steps = append(steps, Step{Class: c.Name, Weight: c.Weight, Order: c.Order})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("grammar: source %q, direction %s: %w", src.Language(), dir, err)
	}
	return &Plan{
		Language:  src.Language(),
		Version:   src.Version(),
		Direction: dir,
		Steps:     steps,
	}, nil
}

// Fingerprint returns a stable hash of the plan's declaration data. It
// covers language, version, direction and every step's name, weight and
// order policy, so an archive compiled from the same declarations can be
// reused. Builder code is not inspected; sources signal logic changes by
// bumping their version.
func (p *Plan) Fingerprint() uint64 {
	var b strings.Builder
	b.WriteString(p.Language)
	b.WriteByte('\n')
	b.WriteString(p.Version)
	b.WriteByte('\n')
	b.WriteString(string(p.Direction))
	for _, s := range p.Steps {
		b.WriteByte('\n')
		b.WriteString(s.Class)
		b.WriteByte('\x1f')
		b.WriteString(strconv.FormatFloat(s.Weight, 'b', -1, 64))
		b.WriteByte('\x1f')
		b.WriteString(strconv.Itoa(int(s.Order)))
	}
	return fst.Fingerprint([]byte(b.String()))
}
