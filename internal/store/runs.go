package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aimtrain/internal/heatmap"
	"aimtrain/internal/record"
	"aimtrain/internal/scoring"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

const runColumns = `id, mode, setting, target_count, duration_seconds, elapsed_seconds,
	hits, misses, overall_accuracy, in_target_accuracy, avg_distance,
	base_max, base_score, final_score, bonuses, heatmap, rank_letter, coins, seed, created_at`

// WriteRecord inserts a completed run.
func (s *Store) WriteRecord(r record.Record) error {
	bonuses, err := json.Marshal(r.Breakdown.Bonuses)
	if err != nil {
		return fmt.Errorf("encode bonuses: %w", err)
	}
	hm, err := json.Marshal(r.Heatmap)
	if err != nil {
		return fmt.Errorf("encode heatmap: %w", err)
	}
	m := r.Metrics
	query := s.rebind(`INSERT INTO challenge_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = s.db.Exec(query,
		r.ID, string(r.Mode), r.Setting, r.TargetCount, r.DurationSeconds, r.ElapsedSeconds,
		m.Hits, m.Misses, m.OverallAccuracy, m.InTargetAccuracy, m.AvgDistance,
		r.Breakdown.BaseMax, r.Breakdown.BaseScore, r.Breakdown.FinalScore,
		string(bonuses), string(hm), r.Rank, r.Coins, r.Seed, r.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]record.Record, error) {
	if limit <= 0 {
		limit = record.DefaultCapacity
	}
	query := s.rebind(`SELECT ` + runColumns + ` FROM challenge_runs ORDER BY created_at DESC, id LIMIT ?`)
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var out []record.Record
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one run by id.
func (s *Store) Get(id string) (record.Record, error) {
	query := s.rebind(`SELECT ` + runColumns + ` FROM challenge_runs WHERE id = ?`)
	r, err := scanRun(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, ErrNotFound
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (record.Record, error) {
	var (
		r         record.Record
		mode      string
		bonuses   string
		hm        string
		createdAt int64
	)
	m := &r.Metrics
	b := &r.Breakdown
	err := sc.Scan(
		&r.ID, &mode, &r.Setting, &r.TargetCount, &r.DurationSeconds, &r.ElapsedSeconds,
		&m.Hits, &m.Misses, &m.OverallAccuracy, &m.InTargetAccuracy, &m.AvgDistance,
		&b.BaseMax, &b.BaseScore, &b.FinalScore, &bonuses, &hm, &r.Rank, &r.Coins, &r.Seed, &createdAt,
	)
	if err != nil {
		return record.Record{}, err
	}
	r.Mode = scoring.Mode(mode)
	b.Mode = r.Mode
	if err := json.Unmarshal([]byte(bonuses), &b.Bonuses); err != nil {
		return record.Record{}, fmt.Errorf("decode bonuses for %s: %w", r.ID, err)
	}
	var snap heatmap.Snapshot
	if err := json.Unmarshal([]byte(hm), &snap); err != nil {
		return record.Record{}, fmt.Errorf("decode heatmap for %s: %w", r.ID, err)
	}
	r.Heatmap = snap
	r.Timestamp = time.UnixMilli(createdAt).UTC()
	return r, nil
}
