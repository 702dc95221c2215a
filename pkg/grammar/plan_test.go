package grammar

import (
	"strings"
	"testing"

	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

var _ Source = miniSource{}

func TestPlanOf_Valid(t *testing.T) {
	t.Parallel()

	p, err := PlanOf(miniSource{}, TextToSpoken)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if p.Language != "zz" || p.Version != "fixture-1" || p.Direction != TextToSpoken {
		t.Errorf("plan header = %q %q %q", p.Language, p.Version, p.Direction)
	}
	if len(p.Steps) != 2 || p.Steps[0].Class != "number" || p.Steps[1].Class != "word" {
		t.Errorf("steps = %+v", p.Steps)
	}
}

func TestPlanOf_InvalidDeclarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func([]Class) []Class
		wantSub string
	}{
		{
			"duplicate class",
			func(cs []Class) []Class {
				cs[1].Name = "number"
				return cs
			},
			"declared twice",
		},
		{
			"negative weight",
			func(cs []Class) []Class {
				cs[0].Weight = -1
				return cs
			},
			"invalid weight",
		},
		{
			"missing tagger",
			func(cs []Class) []Class {
				cs[0].Tagger = nil
				return cs
			},
			"no tagger",
		},
		{
			"missing verbalizer",
			func(cs []Class) []Class {
				cs[0].Verbalizer = nil
				return cs
			},
			"no verbalizer",
		},
		{
			"unnamed class",
			func(cs []Class) []Class {
				cs[0].Name = ""
				return cs
			},
			"no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := PlanOf(miniSource{mutate: tt.mutate}, TextToSpoken)
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantSub)
			}
		})
	}
}

func TestPlanOf_InvalidDirection(t *testing.T) {
	t.Parallel()

	if _, err := PlanOf(miniSource{}, Direction("sideways")); err == nil {
		t.Error("want error for unknown direction")
	}
}

func TestPlan_FingerprintSensitivity(t *testing.T) {
	t.Parallel()

	base, err := PlanOf(miniSource{}, TextToSpoken)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	same, err := PlanOf(miniSource{}, TextToSpoken)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if base.Fingerprint() != same.Fingerprint() {
		t.Error("identical declarations must fingerprint identically")
	}

	weight, _ := PlanOf(miniSource{mutate: func(cs []Class) []Class {
		cs[0].Weight = 2
		return cs
	}}, TextToSpoken)
	if base.Fingerprint() == weight.Fingerprint() {
		t.Error("weight change must change the fingerprint")
	}

	order, _ := PlanOf(miniSource{mutate: func(cs []Class) []Class {
		cs[0].Order = semiotic.OrderFixed
		return cs
	}}, TextToSpoken)
	if base.Fingerprint() == order.Fingerprint() {
		t.Error("policy change must change the fingerprint")
	}

	version, _ := PlanOf(miniSource{version: "fixture-2"}, TextToSpoken)
	if base.Fingerprint() == version.Fingerprint() {
		t.Error("version bump must change the fingerprint")
	}
}

func TestDirection_IsValid(t *testing.T) {
	t.Parallel()

	for _, d := range Directions() {
		if !d.IsValid() {
			t.Errorf("%q should be valid", d)
		}
	}
	if Direction("").IsValid() || Direction("both").IsValid() {
		t.Error("unknown directions must be invalid")
	}
}
