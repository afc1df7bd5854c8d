package reloc

// TraceRow is one step of the cumulative running-accuracy trace used for
// online evaluation.
type TraceRow struct {
	// Frame is the zero-based frame index.
	Frame int

	// FrameFrac is Frame divided by the sequence length.
	FrameFrac float64

	// Reloc is the raw relocalization outcome at this frame; RelocSum the
	// running pass count including this frame; RelocRate the cumulative
	// rate RelocSum/Frame.
	Reloc     bool
	RelocSum  int
	RelocRate float64

	// ICP carries the same triple for the post-ICP stage.
	ICP     bool
	ICPSum  int
	ICPRate float64

	// RateDefined is false at frame 0, where the cumulative rates divide
	// by zero and evaluate to NaN or +Inf. The division is kept as-is for
	// compatibility with traces produced by earlier experiments; this flag
	// makes the boundary explicit instead of leaving it buried in the
	// arithmetic.
	RateDefined bool
}

// BuildTrace expands a sequence result into its cumulative running-accuracy
// trace, one row per frame in frame order.
func BuildTrace(res *SequenceResult) []TraceRow {
	rows := make([]TraceRow, 0, res.PoseCount)

	relocSum, icpSum := 0, 0
	for frame := 0; frame < res.PoseCount; frame++ {
		reloc := res.RelocOutcomes[frame]
		icp := res.ICPOutcomes[frame]
		if reloc {
			relocSum++
		}
		if icp {
			icpSum++
		}

		rows = append(rows, TraceRow{
			Frame:       frame,
			FrameFrac:   float64(frame) / float64(res.PoseCount),
			Reloc:       reloc,
			RelocSum:    relocSum,
			RelocRate:   float64(relocSum) / float64(frame),
			ICP:         icp,
			ICPSum:      icpSum,
			ICPRate:     float64(icpSum) / float64(frame),
			RateDefined: frame > 0,
		})
	}
	return rows
}
