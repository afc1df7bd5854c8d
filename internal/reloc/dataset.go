package reloc

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/banshee-data/relocperf/internal/fsutil"
)

// Per-sequence subfolder names in a 7-scenes style dataset.
const (
	TrainFolder      = "train"
	TestFolder       = "test"
	ValidationFolder = "validation"
)

// Pose file naming conventions. Frames are zero-based, sequential and
// zero-padded; a gap in the ground truth files marks the end of a sequence.
const (
	groundTruthPattern = "frame-%06d.pose.txt"
	relocPattern       = "pose-%06d.reloc.txt"
	icpPattern         = "pose-%06d.icp.txt"
	finalPattern       = "pose-%06d.final.txt"
)

// Stage identifies one of the three relocalization refinement stages a
// candidate pose can come from.
type Stage int

const (
	// StageReloc is the raw relocalizer output.
	StageReloc Stage = iota
	// StageICP is the pose after a round of ICP refinement.
	StageICP
	// StageFinal is the pose after ICP plus classifier refinement.
	StageFinal
)

func (s Stage) String() string {
	switch s {
	case StageReloc:
		return "reloc"
	case StageICP:
		return "icp"
	case StageFinal:
		return "final"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (s Stage) pattern() string {
	switch s {
	case StageICP:
		return icpPattern
	case StageFinal:
		return finalPattern
	default:
		return relocPattern
	}
}

// GroundTruthPath returns the path of the ground truth pose for a frame.
func GroundTruthPath(dir string, frame int) string {
	return filepath.Join(dir, fmt.Sprintf(groundTruthPattern, frame))
}

// CandidatePath returns the path of a candidate pose for a frame and stage.
func CandidatePath(dir string, frame int, stage Stage) string {
	return filepath.Join(dir, fmt.Sprintf(stage.pattern(), frame))
}

// FindSequenceNames lists the dataset sequences under a root folder. A
// subfolder is a valid sequence when it has both "train" and "test"
// subfolders. Names are sorted because directory iteration order is not
// guaranteed and reporting must be deterministic.
func FindSequenceNames(fsys fsutil.FileSystem, datasetDir string) ([]string, error) {
	entries, err := fsys.ReadDir(datasetDir)
	if err != nil {
		return nil, fmt.Errorf("list dataset folder: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		seqDir := filepath.Join(datasetDir, entry.Name())
		if fsys.IsDir(filepath.Join(seqDir, TrainFolder)) && fsys.IsDir(filepath.Join(seqDir, TestFolder)) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// GroundTruthDir returns the folder holding a sequence's ground truth poses:
// the "test" subfolder, or "validation" when evaluating against the
// validation split.
func GroundTruthDir(datasetDir, sequence string, useValidation bool) string {
	folder := TestFolder
	if useValidation {
		folder = ValidationFolder
	}
	return filepath.Join(datasetDir, sequence, folder)
}

// CandidateDir returns the folder holding the relocalizer output for a
// sequence, named <tag>_<sequence> under the relocalization base folder.
func CandidateDir(relocBaseDir, tag, sequence string) string {
	return filepath.Join(relocBaseDir, tag+"_"+sequence)
}
