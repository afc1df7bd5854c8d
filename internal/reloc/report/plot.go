package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/relocperf/internal/reloc"
)

// SaveTracePlot renders one sequence's running-accuracy trace as a PNG.
// Frame 0 is skipped because its cumulative rate is undefined.
func SaveTracePlot(path, name string, res *reloc.SequenceResult) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - running relocalization accuracy", name)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Cumulative pass rate"
	p.Y.Min, p.Y.Max = 0, 1

	rows := reloc.BuildTrace(res)
	relocPts := make(plotter.XYs, 0, len(rows))
	icpPts := make(plotter.XYs, 0, len(rows))
	for _, row := range rows {
		if !row.RateDefined {
			continue
		}
		relocPts = append(relocPts, plotter.XY{X: float64(row.Frame), Y: row.RelocRate})
		icpPts = append(icpPts, plotter.XY{X: float64(row.Frame), Y: row.ICPRate})
	}

	relocLine, err := plotter.NewLine(relocPts)
	if err != nil {
		return err
	}
	relocLine.Color = color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	relocLine.Width = vg.Points(1)
	p.Add(relocLine)
	p.Legend.Add("Reloc", relocLine)

	icpLine, err := plotter.NewLine(icpPts)
	if err != nil {
		return err
	}
	icpLine.Color = color.RGBA{R: 0x15, G: 0x65, B: 0xc0, A: 0xff}
	icpLine.Width = vg.Points(1)
	p.Add(icpLine)
	p.Legend.Add("ICP", icpLine)

	p.Legend.Top = true
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// ExportTracePlots writes one <tag>_<sequence>.png per evaluated sequence
// into dir.
func ExportTracePlots(dir, tag string, names []string, results map[string]*reloc.SequenceResult) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create plot output dir: %w", err)
	}

	for _, name := range names {
		res, ok := results[name]
		if !ok || res.PoseCount == 0 {
			continue
		}
		path := filepath.Join(dir, tag+"_"+name+".png")
		if err := SaveTracePlot(path, name, res); err != nil {
			return fmt.Errorf("plot %s: %w", name, err)
		}
	}
	return nil
}
