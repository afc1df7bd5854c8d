package reloc

// StageAverages holds the two dataset-wide accuracy figures for one
// relocalization stage, both as percentages.
type StageAverages struct {
	// Unweighted is the arithmetic mean of the per-sequence pass rates:
	// every sequence gets an equal voice regardless of its length.
	Unweighted float64

	// Weighted is total passes over total poses: the true per-frame
	// accuracy across the dataset.
	Weighted float64
}

// AggregateReport summarizes relocalization accuracy across a dataset.
type AggregateReport struct {
	// SequenceCount is the number of sequences contributing to the
	// averages. Sequences whose evaluation failed are not counted.
	SequenceCount int

	// PoseCount is the total number of poses across those sequences.
	PoseCount int

	Reloc StageAverages
	ICP   StageAverages
	Final StageAverages
}

// Aggregate folds per-sequence results into dataset-wide averages. names is
// the full ordered list of discovered sequences; names with no entry in
// results (failed evaluations) are skipped and contribute to neither average,
// as are degenerate zero-frame results. With nothing to aggregate the report
// is all zeros.
func Aggregate(results map[string]*SequenceResult, names []string) AggregateReport {
	var report AggregateReport
	var relocFrac, icpFrac, finalFrac float64
	var relocValid, icpValid, finalValid int

	for _, name := range names {
		res, ok := results[name]
		if !ok || res.PoseCount == 0 {
			continue
		}

		n := float64(res.PoseCount)
		relocFrac += float64(res.ValidReloc) / n
		icpFrac += float64(res.ValidICP) / n
		finalFrac += float64(res.ValidFinal) / n

		relocValid += res.ValidReloc
		icpValid += res.ValidICP
		finalValid += res.ValidFinal

		report.SequenceCount++
		report.PoseCount += res.PoseCount
	}

	if report.SequenceCount == 0 {
		return report
	}

	sequences := float64(report.SequenceCount)
	poses := float64(report.PoseCount)
	report.Reloc = StageAverages{
		Unweighted: relocFrac / sequences * 100,
		Weighted:   float64(relocValid) / poses * 100,
	}
	report.ICP = StageAverages{
		Unweighted: icpFrac / sequences * 100,
		Weighted:   float64(icpValid) / poses * 100,
	}
	report.Final = StageAverages{
		Unweighted: finalFrac / sequences * 100,
		Weighted:   float64(finalValid) / poses * 100,
	}
	return report
}
