package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/relocperf/internal/reloc"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relocperf.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSaveAndListRuns(t *testing.T) {
	s, _ := openTestStore(t)

	results := map[string]*reloc.SequenceResult{
		"chess":  {PoseCount: 10, ValidReloc: 6, ValidICP: 8, ValidFinal: 9},
		"office": {PoseCount: 5, ValidReloc: 2, ValidICP: 4, ValidFinal: 4},
	}
	names := []string{"chess", "fire", "office"} // fire failed evaluation

	run := Run{Tag: "exp1", Dataset: "/data/7scenes"}
	require.NoError(t, s.SaveRun(&run, names, results))
	assert.NotEmpty(t, run.RunID, "SaveRun should assign a run ID")
	assert.NotZero(t, run.CreatedAt)

	runs, err := s.ListRuns("exp1")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.RunID, runs[0].RunID)
	assert.Equal(t, 2, runs[0].SequenceCount)
	assert.Equal(t, 15, runs[0].PoseCount)
	assert.InDelta(t, 80.0, runs[0].WeightedICP, 1e-9) // (8+4)/15*100

	// Other tags are not listed.
	other, err := s.ListRuns("exp2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListSequences(t *testing.T) {
	s, _ := openTestStore(t)

	results := map[string]*reloc.SequenceResult{
		"b": {PoseCount: 3, ValidReloc: 1, ValidICP: 2, ValidFinal: 3},
	}
	run := Run{Tag: "exp1", Dataset: "/data"}
	require.NoError(t, s.SaveRun(&run, []string{"b", "a"}, results))

	seqs, err := s.ListSequences(run.RunID)
	require.NoError(t, err)
	require.Len(t, seqs, 2)

	// Ordered by sequence name; the failed sequence is kept with zeros.
	assert.Equal(t, "a", seqs[0].Sequence)
	assert.False(t, seqs[0].Evaluated)
	assert.Zero(t, seqs[0].PoseCount)

	assert.Equal(t, "b", seqs[1].Sequence)
	assert.True(t, seqs[1].Evaluated)
	assert.Equal(t, 3, seqs[1].PoseCount)
	assert.Equal(t, 2, seqs[1].ValidICP)
}

func TestReopenExistingDatabase(t *testing.T) {
	s, path := openTestStore(t)

	run := Run{Tag: "exp1", Dataset: "/data"}
	require.NoError(t, s.SaveRun(&run, []string{"a"}, map[string]*reloc.SequenceResult{
		"a": {PoseCount: 1, ValidICP: 1},
	}))
	require.NoError(t, s.Close())

	// Reopening must tolerate already-applied migrations and keep the data.
	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()

	runs, err := again.ListRuns("exp1")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
