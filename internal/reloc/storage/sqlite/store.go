// Package sqlite persists evaluation runs so experiments can be compared
// over time.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/relocperf/internal/reloc"
)

// Store provides persistence for relocalization evaluation runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and migrates the schema to
// the latest version.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Run identifies one recorded evaluation.
type Run struct {
	RunID         string
	Tag           string
	Dataset       string
	UseValidation bool
	CreatedAt     int64
}

// RunSummary pairs a run with its pose-count-weighted ICP accuracy, the
// figure the parameter search optimizes.
type RunSummary struct {
	Run
	SequenceCount int
	PoseCount     int
	WeightedICP   float64
}

// SequenceRow is one persisted per-sequence result. Evaluated is false for
// sequences that were discovered but failed evaluation.
type SequenceRow struct {
	Sequence   string
	Evaluated  bool
	PoseCount  int
	ValidReloc int
	ValidICP   int
	ValidFinal int
}

// SaveRun records a run and its per-sequence results in one transaction.
// A missing RunID is filled in with a fresh UUID.
func (s *Store) SaveRun(run *Run, names []string, results map[string]*reloc.SequenceResult) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO reloc_runs (run_id, tag, dataset, use_validation, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.RunID, run.Tag, run.Dataset, boolToInt(run.UseValidation), run.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, name := range names {
		row := SequenceRow{Sequence: name}
		if res, ok := results[name]; ok {
			row.Evaluated = true
			row.PoseCount = res.PoseCount
			row.ValidReloc = res.ValidReloc
			row.ValidICP = res.ValidICP
			row.ValidFinal = res.ValidFinal
		}
		if _, err := tx.Exec(`
			INSERT INTO reloc_sequence_results (
				run_id, sequence, evaluated, pose_count,
				valid_reloc, valid_icp, valid_final
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, row.Sequence, boolToInt(row.Evaluated), row.PoseCount,
			row.ValidReloc, row.ValidICP, row.ValidFinal,
		); err != nil {
			return fmt.Errorf("insert sequence result %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the recorded runs for a tag, most recent first, each with
// its weighted ICP accuracy recomputed from the stored per-sequence counts.
func (s *Store) ListRuns(tag string) ([]RunSummary, error) {
	rows, err := s.db.Query(`
		SELECT r.run_id, r.tag, r.dataset, r.use_validation, r.created_at,
		       COUNT(CASE WHEN q.evaluated = 1 THEN 1 END),
		       COALESCE(SUM(q.pose_count), 0),
		       COALESCE(SUM(q.valid_icp), 0)
		FROM reloc_runs r
		LEFT JOIN reloc_sequence_results q ON q.run_id = r.run_id
		WHERE r.tag = ?
		GROUP BY r.run_id
		ORDER BY r.created_at DESC`, tag)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var sum RunSummary
		var useValidation int
		var validICP int
		if err := rows.Scan(
			&sum.RunID, &sum.Tag, &sum.Dataset, &useValidation, &sum.CreatedAt,
			&sum.SequenceCount, &sum.PoseCount, &validICP,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.UseValidation = useValidation != 0
		if sum.PoseCount > 0 {
			sum.WeightedICP = float64(validICP) / float64(sum.PoseCount) * 100
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// ListSequences returns the per-sequence rows of a run in sequence order.
func (s *Store) ListSequences(runID string) ([]SequenceRow, error) {
	rows, err := s.db.Query(`
		SELECT sequence, evaluated, pose_count, valid_reloc, valid_icp, valid_final
		FROM reloc_sequence_results
		WHERE run_id = ?
		ORDER BY sequence`, runID)
	if err != nil {
		return nil, fmt.Errorf("query sequence results: %w", err)
	}
	defer rows.Close()

	var out []SequenceRow
	for rows.Next() {
		var row SequenceRow
		var evaluated int
		if err := rows.Scan(&row.Sequence, &evaluated, &row.PoseCount,
			&row.ValidReloc, &row.ValidICP, &row.ValidFinal); err != nil {
			return nil, fmt.Errorf("scan sequence result: %w", err)
		}
		row.Evaluated = evaluated != 0
		out = append(out, row)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
