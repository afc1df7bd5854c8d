package reloc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/relocperf/internal/fsutil"
)

func TestPathNaming(t *testing.T) {
	if got, want := GroundTruthPath("/gt", 123), "/gt/frame-000123.pose.txt"; got != want {
		t.Errorf("GroundTruthPath = %q, want %q", got, want)
	}
	if got, want := CandidatePath("/out", 7, StageReloc), "/out/pose-000007.reloc.txt"; got != want {
		t.Errorf("CandidatePath(reloc) = %q, want %q", got, want)
	}
	if got, want := CandidatePath("/out", 7, StageICP), "/out/pose-000007.icp.txt"; got != want {
		t.Errorf("CandidatePath(icp) = %q, want %q", got, want)
	}
	if got, want := CandidatePath("/out", 7, StageFinal), "/out/pose-000007.final.txt"; got != want {
		t.Errorf("CandidatePath(final) = %q, want %q", got, want)
	}
}

func TestFindSequenceNames(t *testing.T) {
	m := fsutil.NewMemory()
	for _, dir := range []string{
		"/data/office/train", "/data/office/test",
		"/data/chess/train", "/data/chess/test",
		"/data/incomplete/train", // no test subfolder
		"/data/empty",
	} {
		if err := m.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	if err := m.WriteFile("/data/notes.txt", []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	names, err := FindSequenceNames(m, "/data")
	if err != nil {
		t.Fatalf("FindSequenceNames: %v", err)
	}
	if diff := cmp.Diff([]string{"chess", "office"}, names); diff != "" {
		t.Errorf("sequence names mismatch (-want +got):\n%s", diff)
	}
}

func TestFindSequenceNamesMissingRoot(t *testing.T) {
	if _, err := FindSequenceNames(fsutil.NewMemory(), "/nowhere"); err == nil {
		t.Error("FindSequenceNames accepted a missing dataset folder")
	}
}

func TestDirResolution(t *testing.T) {
	if got, want := GroundTruthDir("/data", "chess", false), "/data/chess/test"; got != want {
		t.Errorf("GroundTruthDir = %q, want %q", got, want)
	}
	if got, want := GroundTruthDir("/data", "chess", true), "/data/chess/validation"; got != want {
		t.Errorf("GroundTruthDir(validation) = %q, want %q", got, want)
	}
	if got, want := CandidateDir("/runs", "exp1", "chess"), "/runs/exp1_chess"; got != want {
		t.Errorf("CandidateDir = %q, want %q", got, want)
	}
}
