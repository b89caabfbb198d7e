package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"aimtrain/internal/record"
)

// RunRow is the flat parquet layout of a run.
type RunRow struct {
	ID               string    `parquet:"id,snappy"`
	Mode             string    `parquet:"mode,snappy,dict"`
	Setting          string    `parquet:"setting,snappy,dict"`
	TargetCount      int32     `parquet:"target_count,snappy"`
	DurationSeconds  float64   `parquet:"duration_seconds,snappy"`
	ElapsedSeconds   float64   `parquet:"elapsed_seconds,snappy"`
	Hits             int32     `parquet:"hits,snappy"`
	Misses           int32     `parquet:"misses,snappy"`
	OverallAccuracy  float64   `parquet:"overall_accuracy,snappy"`
	InTargetAccuracy float64   `parquet:"in_target_accuracy,snappy"`
	AvgDistance      float64   `parquet:"avg_distance,snappy"`
	BaseMax          int64     `parquet:"base_max,snappy"`
	BaseScore        int64     `parquet:"base_score,snappy"`
	FinalScore       int64     `parquet:"final_score,snappy"`
	Bonuses          string    `parquet:"bonuses,snappy"`
	HeatmapSize      int32     `parquet:"heatmap_size,snappy"`
	HeatmapCounts    []int32   `parquet:"heatmap_counts,snappy"`
	Rank             string    `parquet:"rank,snappy,dict"`
	Coins            int32     `parquet:"coins,snappy"`
	Seed             int64     `parquet:"seed,snappy"`
	Timestamp        time.Time `parquet:"timestamp,snappy"`
}

// ConvertRecords flattens records into parquet rows.
func ConvertRecords(rs []record.Record) ([]RunRow, error) {
	out := make([]RunRow, 0, len(rs))
	for _, r := range rs {
		bonuses, err := json.Marshal(r.Breakdown.Bonuses)
		if err != nil {
			return nil, err
		}
		counts := make([]int32, len(r.Heatmap.Counts))
		for i, c := range r.Heatmap.Counts {
			counts[i] = int32(c)
		}
		m := r.Metrics
		out = append(out, RunRow{
			ID:               r.ID,
			Mode:             string(r.Mode),
			Setting:          r.Setting,
			TargetCount:      int32(r.TargetCount),
			DurationSeconds:  r.DurationSeconds,
			ElapsedSeconds:   r.ElapsedSeconds,
			Hits:             int32(m.Hits),
			Misses:           int32(m.Misses),
			OverallAccuracy:  m.OverallAccuracy,
			InTargetAccuracy: m.InTargetAccuracy,
			AvgDistance:      m.AvgDistance,
			BaseMax:          int64(r.Breakdown.BaseMax),
			BaseScore:        int64(r.Breakdown.BaseScore),
			FinalScore:       int64(r.Breakdown.FinalScore),
			Bonuses:          string(bonuses),
			HeatmapSize:      int32(r.Heatmap.Width),
			HeatmapCounts:    counts,
			Rank:             r.Rank,
			Coins:            int32(r.Coins),
			Seed:             r.Seed,
			Timestamp:        r.Timestamp,
		})
	}
	return out, nil
}

// ExportParquet writes records to a parquet file at outputPath.
func ExportParquet(rs []record.Record, outputPath string) error {
	rows, err := ConvertRecords(rs)
	if err != nil {
		return fmt.Errorf("convert records: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[RunRow](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
