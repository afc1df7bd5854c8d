// relocperf scores the output of a camera relocalization system against
// ground truth poses using the 7-scenes metric (translation error <= 5cm,
// rotation error <= 5 degrees) and reports per-sequence and dataset-wide
// accuracy.
//
// The aggregate table goes to stderr; stdout stays clean so that with
// -validation the only thing printed there is the weighted post-ICP accuracy,
// ready to be consumed by an external parameter search.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/relocperf/internal/fsutil"
	"github.com/banshee-data/relocperf/internal/monitoring"
	"github.com/banshee-data/relocperf/internal/reloc"
	"github.com/banshee-data/relocperf/internal/reloc/report"
	"github.com/banshee-data/relocperf/internal/reloc/storage/sqlite"
	"github.com/banshee-data/relocperf/internal/version"
)

var (
	datasetDir = flag.String("dataset", "", "Path to the dataset folder")
	relocBase  = flag.String("reloc", "", "Path to the folder holding the relocalized poses")
	tag        = flag.String("tag", "", "Tag of the experiment to evaluate")
	validation = flag.Bool("validation", false, "Evaluate against the validation split and print the weighted ICP accuracy on stdout")
	online     = flag.Bool("online", false, "Write per-sequence running-accuracy CSV files")
	csvDir     = flag.String("csv-dir", ".", "Directory for -online CSV files")
	htmlPath   = flag.String("html", "", "Write an HTML chart report to this file")
	plotDir    = flag.String("plot-dir", "", "Write per-sequence accuracy plots (PNG) to this directory")
	dbPath     = flag.String("db", "", "Record the run in this SQLite database")
	strict     = flag.Bool("strict", false, "Reject ground truth poses that are not proper rigid transforms")
	maxFrames  = flag.Int("max-frames", reloc.DefaultMaxFrames, "Upper bound on the per-sequence frame probe")
	showVer    = flag.Bool("version", false, "Print the version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		return
	}

	if *datasetDir == "" || *relocBase == "" || *tag == "" {
		flag.Usage()
		log.Fatal("-dataset, -reloc and -tag are required")
	}

	fsys := fsutil.OS{}
	names, err := reloc.FindSequenceNames(fsys, *datasetDir)
	if err != nil {
		log.Fatalf("failed to find sequences: %v", err)
	}
	if len(names) == 0 {
		log.Fatalf("no sequences found under %s", *datasetDir)
	}

	ev := reloc.NewEvaluator(fsys)
	ev.MaxFrames = *maxFrames
	ev.Strict = *strict

	results := evaluateAll(ev, *datasetDir, *relocBase, *tag, *validation, names)
	agg := reloc.Aggregate(results, names)

	if err := report.WriteTable(os.Stderr, names, results, agg); err != nil {
		log.Fatalf("failed to write table: %v", err)
	}

	// Exactly one number for the parameter search process.
	if *validation {
		fmt.Printf("%g\n", agg.ICP.Weighted)
	}

	if *online {
		if err := report.ExportOnlineCSVs(fsys, *csvDir, *tag, names, results); err != nil {
			log.Fatalf("failed to export CSV files: %v", err)
		}
	}

	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			log.Fatalf("failed to create HTML report: %v", err)
		}
		if err := report.RenderHTML(f, *tag, names, results, agg); err != nil {
			f.Close()
			log.Fatalf("failed to render HTML report: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("failed to write HTML report: %v", err)
		}
	}

	if *plotDir != "" {
		if err := report.ExportTracePlots(*plotDir, *tag, names, results); err != nil {
			log.Fatalf("failed to export plots: %v", err)
		}
	}

	if *dbPath != "" {
		store, err := sqlite.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open run database: %v", err)
		}
		defer store.Close()

		run := sqlite.Run{Tag: *tag, Dataset: *datasetDir, UseValidation: *validation}
		if err := store.SaveRun(&run, names, results); err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
		monitoring.Logf("recorded run %s", run.RunID)
	}
}

// evaluateAll evaluates every discovered sequence. A sequence that fails is
// reported and skipped; the run carries on and the failed name stays out of
// the result map.
func evaluateAll(ev *reloc.Evaluator, datasetDir, relocBase, tag string, useValidation bool, names []string) map[string]*reloc.SequenceResult {
	results := make(map[string]*reloc.SequenceResult, len(names))
	for _, name := range names {
		gtDir := reloc.GroundTruthDir(datasetDir, name, useValidation)
		candidateDir := reloc.CandidateDir(relocBase, tag, name)
		monitoring.Logf("processing sequence %s in: %s - %s", name, gtDir, candidateDir)

		res, err := ev.EvaluateSequence(gtDir, candidateDir)
		if err != nil {
			monitoring.Logf("sequence %s has not been evaluated: %v", name, err)
			continue
		}
		results[name] = res
	}
	return results
}
