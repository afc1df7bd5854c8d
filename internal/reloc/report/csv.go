package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/relocperf/internal/fsutil"
	"github.com/banshee-data/relocperf/internal/reloc"
)

// onlineCSVHeader is fixed: downstream analysis notebooks key on these
// column names.
const onlineCSVHeader = "FrameIdx; FramePct; Reloc Success; Reloc Sum; Reloc Pct; ICP Success; ICP Sum; ICP Pct"

// WriteOnlineCSV renders the cumulative running-accuracy trace of one
// sequence as a semicolon-separated CSV. The frame-0 row keeps the raw
// divide-by-zero rate (NaN or +Inf) that historical traces carry.
func WriteOnlineCSV(w io.Writer, res *reloc.SequenceResult) error {
	var b strings.Builder
	b.WriteString(onlineCSVHeader)
	b.WriteByte('\n')

	for _, row := range reloc.BuildTrace(res) {
		fmt.Fprintf(&b, "%d; %s; %d; %d; %s; %d; %d; %s\n",
			row.Frame,
			formatRate(row.FrameFrac),
			boolToInt(row.Reloc), row.RelocSum, formatRate(row.RelocRate),
			boolToInt(row.ICP), row.ICPSum, formatRate(row.ICPRate))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ExportOnlineCSVs writes one <tag>_<sequence>.csv per evaluated sequence
// into dir. Unevaluated sequences are skipped.
func ExportOnlineCSVs(fsys fsutil.FileSystem, dir, tag string, names []string, results map[string]*reloc.SequenceResult) error {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create CSV output dir: %w", err)
	}

	for _, name := range names {
		res, ok := results[name]
		if !ok {
			continue
		}

		var buf bytes.Buffer
		if err := WriteOnlineCSV(&buf, res); err != nil {
			return err
		}
		path := filepath.Join(dir, tag+"_"+name+".csv")
		if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
