package similarity

import (
	"context"
	"testing"

	"github.com/sicoreai/NeMo-text-processing/pkg/rerank"
)

func outputs(cands []rerank.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Output
	}
	return out
}

func TestReranker_PrefersInputSimilarCandidate(t *testing.T) {
	t.Parallel()

	got, err := New().Rerank(context.Background(), "one hundred", []rerank.Candidate{
		{Output: "100", Weight: 1},
		{Output: "one hundred", Weight: 2},
	})
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if want := []string{"one hundred", "100"}; len(got) != 2 || got[0].Output != want[0] || got[1].Output != want[1] {
		t.Errorf("order = %v, want %v", outputs(got), want)
	}
	if got[0].Weight >= got[1].Weight {
		t.Errorf("weights not ascending: %v then %v", got[0].Weight, got[1].Weight)
	}
}

func TestReranker_FloorDropsDistantCandidates(t *testing.T) {
	t.Parallel()

	got, err := New(WithMinSimilarity(0.9)).Rerank(context.Background(), "ten euros", []rerank.Candidate{
		{Output: "ten euros"},
		{Output: "completely unrelated"},
	})
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if len(got) != 1 || got[0].Output != "ten euros" {
		t.Errorf("kept = %v, want only the exact match", outputs(got))
	}
}

func TestReranker_TiesKeepPipelineOrder(t *testing.T) {
	t.Parallel()

	// Identical outputs score identically, so the incoming order decides.
	got, err := New().Rerank(context.Background(), "x", []rerank.Candidate{
		{Output: "same", Tagged: "first"},
		{Output: "same", Tagged: "second"},
	})
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if len(got) != 2 || got[0].Tagged != "first" || got[1].Tagged != "second" {
		t.Errorf("tie order changed: %+v", got)
	}
}

func TestReranker_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Rerank(ctx, "x", nil); err == nil {
		t.Fatal("Rerank on canceled context succeeded")
	}
}
