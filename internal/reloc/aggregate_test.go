package reloc

import (
	"math"
	"testing"
)

// seqResult fabricates a SequenceResult with the same pass count for all
// three stages.
func seqResult(poses, valid int) *SequenceResult {
	return &SequenceResult{
		PoseCount:  poses,
		ValidReloc: valid,
		ValidICP:   valid,
		ValidFinal: valid,
	}
}

func TestAggregateAverages(t *testing.T) {
	results := map[string]*SequenceResult{
		"a": seqResult(10, 8),
		"b": seqResult(5, 5),
	}
	report := Aggregate(results, []string{"a", "b"})

	if report.SequenceCount != 2 || report.PoseCount != 15 {
		t.Errorf("counts = %d sequences / %d poses, want 2 / 15", report.SequenceCount, report.PoseCount)
	}
	if math.Abs(report.ICP.Unweighted-90) > 1e-9 {
		t.Errorf("unweighted = %v, want 90", report.ICP.Unweighted)
	}
	if math.Abs(report.ICP.Weighted-100.0*13/15) > 1e-9 {
		t.Errorf("weighted = %v, want %v", report.ICP.Weighted, 100.0*13/15)
	}
	// All three stages carry the same numbers in this fixture.
	if report.Reloc != report.ICP || report.Final != report.ICP {
		t.Errorf("stage averages diverge: %+v", report)
	}
}

func TestAggregateSkipsUnevaluatedSequences(t *testing.T) {
	results := map[string]*SequenceResult{
		"a": seqResult(10, 8),
	}
	// "b" was discovered but failed evaluation: listed by name, absent from
	// the results. It must contribute to neither average.
	report := Aggregate(results, []string{"a", "b"})

	if report.SequenceCount != 1 || report.PoseCount != 10 {
		t.Errorf("counts = %d / %d, want 1 / 10", report.SequenceCount, report.PoseCount)
	}
	if math.Abs(report.Reloc.Unweighted-80) > 1e-9 {
		t.Errorf("unweighted = %v, want 80", report.Reloc.Unweighted)
	}
	if math.Abs(report.Reloc.Weighted-80) > 1e-9 {
		t.Errorf("weighted = %v, want 80", report.Reloc.Weighted)
	}
}

func TestAggregateDegenerateInputs(t *testing.T) {
	t.Run("no sequences", func(t *testing.T) {
		report := Aggregate(nil, nil)
		if report != (AggregateReport{}) {
			t.Errorf("empty aggregate = %+v, want zero report", report)
		}
	})

	t.Run("zero-frame result never divides", func(t *testing.T) {
		results := map[string]*SequenceResult{
			"empty": seqResult(0, 0),
			"a":     seqResult(4, 2),
		}
		report := Aggregate(results, []string{"a", "empty"})
		if report.SequenceCount != 1 {
			t.Errorf("SequenceCount = %d, want 1", report.SequenceCount)
		}
		if math.IsNaN(report.Reloc.Unweighted) || math.Abs(report.Reloc.Unweighted-50) > 1e-9 {
			t.Errorf("unweighted = %v, want 50", report.Reloc.Unweighted)
		}
	})
}
