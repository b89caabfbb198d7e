package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"aimtrain/internal/record"
)

// RunTable is the GreptimeDB table completed runs are written to.
const RunTable = "challenge_runs"

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes completed runs to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client   greptimeClient
	runTable string
	timeout  time.Duration
	log      *slog.Logger
}

// NewGreptimeDBWriter connects to endpoint (host or host:port) and database.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, port := endpoint, 0
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("greptime port %q: %w", p, err)
		}
		host, port = h, n
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	return &GreptimeDBWriter{
		client:   client,
		runTable: RunTable,
		timeout:  5 * time.Second,
		log:      slog.Default(),
	}, nil
}

// WriteRecord inserts one row describing the run.
func (w *GreptimeDBWriter) WriteRecord(r record.Record) error {
	tbl, err := w.runRows([]record.Record{r})
	if err != nil {
		return err
	}
	timeout := w.timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		w.logger().Error("greptime write failed", "table", w.runTable, "err", err)
		return err
	}
	w.logger().Debug("greptime wrote run", "table", w.runTable, "id", r.ID)
	return nil
}

func (w *GreptimeDBWriter) runRows(rs []record.Record) (*table.Table, error) {
	tbl, err := table.New(w.runTable)
	if err != nil {
		return nil, err
	}
	cols := []struct {
		name string
		kind types.ColumnType
		tag  bool
	}{
		{"mode", types.STRING, true},
		{"setting", types.STRING, true},
		{"id", types.STRING, false},
		{"final_score", types.INT64, false},
		{"base_score", types.INT64, false},
		{"base_max", types.INT64, false},
		{"hits", types.INT64, false},
		{"misses", types.INT64, false},
		{"overall_accuracy", types.FLOAT64, false},
		{"in_target_accuracy", types.FLOAT64, false},
		{"avg_distance", types.FLOAT64, false},
		{"elapsed_seconds", types.FLOAT64, false},
		{"rank", types.STRING, false},
		{"coins", types.INT64, false},
		{"bonuses", types.JSON, false},
	}
	for _, c := range cols {
		var err error
		if c.tag {
			err = tbl.AddTagColumn(c.name, c.kind)
		} else {
			err = tbl.AddFieldColumn(c.name, c.kind)
		}
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.name, err)
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	for _, r := range rs {
		bonuses, err := json.Marshal(r.Breakdown.Bonuses)
		if err != nil {
			return nil, err
		}
		m := r.Metrics
		if err := tbl.AddRow(
			string(r.Mode), r.Setting, r.ID,
			int64(r.Breakdown.FinalScore), int64(r.Breakdown.BaseScore), int64(r.Breakdown.BaseMax),
			int64(m.Hits), int64(m.Misses),
			m.OverallAccuracy, m.InTargetAccuracy, m.AvgDistance, r.ElapsedSeconds,
			r.Rank, int64(r.Coins), string(bonuses), r.Timestamp,
		); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func (w *GreptimeDBWriter) logger() *slog.Logger {
	if w.log == nil {
		return slog.Default()
	}
	return w.log
}
