package reloc

import (
	"errors"
	"fmt"

	"github.com/banshee-data/relocperf/internal/fsutil"
)

// ErrNoGroundTruth indicates a sequence with no ground truth pose at frame 0.
// The sequence cannot be evaluated; the caller skips it and carries on.
var ErrNoGroundTruth = errors.New("no ground truth pose at frame 0")

// ErrFrameLimit indicates the sequential frame probe ran past the configured
// bound, which points at a corrupt or absurdly large ground truth directory.
var ErrFrameLimit = errors.New("frame probe limit exceeded")

// DefaultMaxFrames bounds the sequential ground-truth probe. Real sequences
// are a few thousand frames at most.
const DefaultMaxFrames = 1_000_000

// SequenceResult accumulates the evaluation of one sequence. The outcome
// slices hold one entry per frame, in frame order, and are not mutated after
// EvaluateSequence returns.
type SequenceResult struct {
	// PoseCount is the number of ground truth poses in the sequence.
	PoseCount int

	// Pass counters for the three candidate stages.
	ValidReloc int
	ValidICP   int
	ValidFinal int

	// Per-frame pass/fail outcomes for the three candidate stages.
	RelocOutcomes []bool
	ICPOutcomes   []bool
	FinalOutcomes []bool
}

// Evaluator scores relocalizer output against ground truth poses.
type Evaluator struct {
	// FS is the filesystem the pose files are read from.
	FS fsutil.FileSystem

	// MaxFrames bounds the sequential frame probe. Zero means
	// DefaultMaxFrames.
	MaxFrames int

	// Strict rejects ground truth poses whose rotation block is not a
	// proper rotation instead of silently producing meaningless angles.
	Strict bool
}

// NewEvaluator creates an Evaluator with default bounds.
func NewEvaluator(fsys fsutil.FileSystem) *Evaluator {
	return &Evaluator{FS: fsys}
}

// EvaluateSequence walks a sequence frame by frame, comparing the three
// candidate poses of each frame against the ground truth pose. The sequence
// length is defined by ground truth file existence: the walk stops at the
// first missing frame-%06d.pose.txt. Missing or unreadable candidate files
// are recorded as failed relocalizations, never as errors; a malformed ground
// truth file aborts the sequence.
func (e *Evaluator) EvaluateSequence(gtDir, relocDir string) (*SequenceResult, error) {
	maxFrames := e.MaxFrames
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}

	if !e.FS.Exists(GroundTruthPath(gtDir, 0)) {
		return nil, fmt.Errorf("%w in %s", ErrNoGroundTruth, gtDir)
	}

	res := &SequenceResult{}
	for frame := 0; e.FS.Exists(GroundTruthPath(gtDir, frame)); frame++ {
		if frame >= maxFrames {
			return nil, fmt.Errorf("%w: %d frames under %s", ErrFrameLimit, frame, gtDir)
		}

		gtPose, err := ReadPoseFile(e.FS, GroundTruthPath(gtDir, frame))
		if err != nil {
			return nil, err
		}
		if e.Strict {
			if err := gtPose.Validate(); err != nil {
				return nil, fmt.Errorf("ground truth frame %d: %w", frame, err)
			}
		}

		validReloc := e.candidateMatches(gtPose, CandidatePath(relocDir, frame, StageReloc))
		validICP := e.candidateMatches(gtPose, CandidatePath(relocDir, frame, StageICP))
		validFinal := e.candidateMatches(gtPose, CandidatePath(relocDir, frame, StageFinal))

		if validReloc {
			res.ValidReloc++
		}
		if validICP {
			res.ValidICP++
		}
		if validFinal {
			res.ValidFinal++
		}

		res.RelocOutcomes = append(res.RelocOutcomes, validReloc)
		res.ICPOutcomes = append(res.ICPOutcomes, validICP)
		res.FinalOutcomes = append(res.FinalOutcomes, validFinal)
		res.PoseCount++
	}

	return res, nil
}

// candidateMatches compares the pose stored at path against the ground truth.
// A missing or unreadable candidate is a failed relocalization.
func (e *Evaluator) candidateMatches(groundTruth Pose, path string) bool {
	candidate, err := ReadPoseFile(e.FS, path)
	if err != nil {
		return false
	}
	return Matches(groundTruth, candidate)
}
