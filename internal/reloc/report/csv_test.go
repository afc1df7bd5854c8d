package report

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/relocperf/internal/fsutil"
	"github.com/banshee-data/relocperf/internal/reloc"
)

func TestWriteOnlineCSV(t *testing.T) {
	res := &reloc.SequenceResult{
		PoseCount:  3,
		ValidReloc: 2, ValidICP: 2,
		RelocOutcomes: []bool{true, false, true},
		ICPOutcomes:   []bool{false, true, true},
		FinalOutcomes: []bool{false, false, false},
	}

	var b strings.Builder
	if err := WriteOnlineCSV(&b, res); err != nil {
		t.Fatalf("WriteOnlineCSV: %v", err)
	}

	// The frame-0 row keeps the raw divide-by-zero rates (+Inf for a pass,
	// NaN for a fail); later rows are sum/index exactly.
	want := "" +
		"FrameIdx; FramePct; Reloc Success; Reloc Sum; Reloc Pct; ICP Success; ICP Sum; ICP Pct\n" +
		"0; 0; 1; 1; +Inf; 0; 0; NaN\n" +
		"1; 0.3333333333333333; 0; 1; 1; 1; 1; 1\n" +
		"2; 0.6666666666666666; 1; 2; 1; 1; 2; 1\n"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestExportOnlineCSVs(t *testing.T) {
	results, names := fixtureResults()
	m := fsutil.NewMemory()

	if err := ExportOnlineCSVs(m, "/out", "exp1", names, results); err != nil {
		t.Fatalf("ExportOnlineCSVs: %v", err)
	}

	for _, name := range []string{"chess", "office"} {
		data, err := m.ReadFile("/out/exp1_" + name + ".csv")
		if err != nil {
			t.Fatalf("missing CSV for %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "FrameIdx; FramePct;") {
			t.Errorf("%s CSV has wrong header: %q", name, strings.SplitN(string(data), "\n", 2)[0])
		}
	}

	// No file for the sequence that failed evaluation.
	if m.Exists("/out/exp1_fire.csv") {
		t.Error("CSV written for unevaluated sequence")
	}
}
