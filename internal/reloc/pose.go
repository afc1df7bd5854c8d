// Package reloc implements the 7-scenes camera relocalization accuracy metric:
// per-frame pose comparison against ground truth, per-sequence evaluation, and
// dataset-wide aggregation of the results.
package reloc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/relocperf/internal/fsutil"
)

// 7-scenes acceptance thresholds. Both comparisons are inclusive.
const (
	// TranslationMaxError is the maximum translation error in meters.
	TranslationMaxError = 0.05
	// AngleMaxError is the maximum rotation error in radians (5 degrees).
	AngleMaxError = 5.0 * math.Pi / 180.0
)

// rigidTolerance is the tolerance used when checking that a 3x3 block is a
// proper rotation (orthonormal, det +1).
const rigidTolerance = 0.01

// Pose is a 4x4 rigid transform stored row-major: the top-left 3x3 block is
// the rotation and the top-right 3x1 block is the translation.
type Pose [16]float64

// Rotation returns the 3x3 rotation block.
func (p Pose) Rotation() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		p[0], p[1], p[2],
		p[4], p[5], p[6],
		p[8], p[9], p[10],
	})
}

// Translation returns the translation column as a 3-vector.
func (p Pose) Translation() []float64 {
	return []float64{p[3], p[7], p[11]}
}

// InvalidPoseError reports a matrix that is not a proper rigid transform.
type InvalidPoseError struct {
	Reason string
}

func (e *InvalidPoseError) Error() string {
	return "invalid rigid pose: " + e.Reason
}

// Validate checks that the pose is a proper rigid transform: last row
// [0 0 0 1], orthonormal rotation block, determinant close to +1. The
// comparator itself does not validate its inputs; callers that want to reject
// malformed ground truth opt in via Evaluator.Strict.
func (p Pose) Validate() error {
	if p[12] != 0 || p[13] != 0 || p[14] != 0 || math.Abs(p[15]-1) > 0.001 {
		return &InvalidPoseError{Reason: "last row is not [0 0 0 1]"}
	}

	r := p.Rotation()
	var rrt mat.Dense
	rrt.Mul(r, r.T())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(rrt.At(i, j)-want) > rigidTolerance {
				return &InvalidPoseError{Reason: "rotation block is not orthonormal"}
			}
		}
	}

	if det := mat.Det(r); math.Abs(det-1) > rigidTolerance {
		return &InvalidPoseError{Reason: fmt.Sprintf("rotation determinant %.4f is not +1", det)}
	}
	return nil
}

// AngularSeparation computes the rotation angle, in radians, between two
// rotation matrices. The relative rotation is dR = r2 * r1^T (the transpose is
// the inverse for orthonormal matrices); the angle of its angle-axis form is
// recovered from the trace and is independent of the axis.
func AngularSeparation(r1, r2 mat.Matrix) float64 {
	var dr mat.Dense
	dr.Mul(r2, r1.T())

	// tr(dR) = 1 + 2cos(angle); clamp against rounding before acos.
	c := (mat.Trace(&dr) - 1) / 2
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// Matches reports whether a candidate pose is close enough to the ground
// truth under the 7-scenes metric: translation error <= 5cm and rotation
// error <= 5 degrees.
func Matches(groundTruth, candidate Pose) bool {
	translationError := floats.Distance(groundTruth.Translation(), candidate.Translation(), 2)
	if translationError > TranslationMaxError {
		return false
	}
	angleError := AngularSeparation(groundTruth.Rotation(), candidate.Rotation())
	return angleError <= AngleMaxError
}

// ParsePose reads a pose from its on-disk text form: 16 whitespace-separated
// floats in row-major order.
func ParsePose(data []byte) (Pose, error) {
	var p Pose
	fields := strings.Fields(string(data))
	if len(fields) != len(p) {
		return Pose{}, fmt.Errorf("expected 16 matrix entries, found %d", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Pose{}, fmt.Errorf("matrix entry %d: %w", i, err)
		}
		p[i] = v
	}
	return p, nil
}

// FormatPose renders a pose in the on-disk text form read by ParsePose: four
// rows of four entries. Values round-trip exactly.
func FormatPose(p Pose) []byte {
	var b strings.Builder
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(p[row*4+col], 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// PoseFileError reports a pose file that exists but could not be read or
// parsed.
type PoseFileError struct {
	Path string
	Err  error
}

func (e *PoseFileError) Error() string {
	return fmt.Sprintf("pose file %s: %v", e.Path, e.Err)
}

func (e *PoseFileError) Unwrap() error { return e.Err }

// ReadPoseFile loads a pose from a text file.
func ReadPoseFile(fsys fsutil.FileSystem, path string) (Pose, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return Pose{}, &PoseFileError{Path: path, Err: err}
	}
	p, err := ParsePose(data)
	if err != nil {
		return Pose{}, &PoseFileError{Path: path, Err: err}
	}
	return p, nil
}

// WritePoseFile stores a pose in the text form read by ReadPoseFile.
func WritePoseFile(fsys fsutil.FileSystem, path string, p Pose) error {
	return fsys.WriteFile(path, FormatPose(p), 0644)
}
