package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"aimtrain/internal/arena"
	"aimtrain/internal/record"
	"aimtrain/internal/session"
)

var (
	ErrNoStart    = errors.New("input log does not begin with a start row")
	ErrAborted    = errors.New("logged run was aborted")
	ErrIncomplete = errors.New("logged run did not complete")
)

// ReadInputLog decodes JSONL input rows from r.
func ReadInputLog(r io.Reader) ([]InputRow, error) {
	dec := json.NewDecoder(r)
	var rows []InputRow
	for {
		var row InputRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return rows, nil
			}
			return nil, fmt.Errorf("decode input row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
}

// ReplayLog rebuilds the logged session, re-applies every input and writes the
// resulting record to writer, which may be nil. Identical logs score identically.
func ReplayLog(rows []InputRow, writer RecordWriter, now time.Time) (record.Record, error) {
	if len(rows) == 0 || rows[0].Kind != InputStart || rows[0].Settings == nil {
		return record.Record{}, ErrNoStart
	}
	s, err := session.New(*rows[0].Settings, rows[0].Seed)
	if err != nil {
		return record.Record{}, fmt.Errorf("rebuild session: %w", err)
	}
	if err := s.Start(); err != nil {
		return record.Record{}, err
	}
	for _, row := range rows[1:] {
		switch row.Kind {
		case InputTick:
			s.Tick(row.DT, arena.Point{X: row.X, Y: row.Y}, row.Inside)
		case InputClick:
			s.Click(arena.Point{X: row.X, Y: row.Y})
		case InputAbort:
			s.Abort()
		case InputStart:
			return record.Record{}, fmt.Errorf("unexpected start row at seq %d", row.Seq)
		default:
			return record.Record{}, fmt.Errorf("unknown input kind %q at seq %d", row.Kind, row.Seq)
		}
	}
	switch s.State() {
	case session.Aborted:
		return record.Record{}, ErrAborted
	case session.Completed:
	default:
		return record.Record{}, ErrIncomplete
	}
	rec, err := s.Finish(now)
	if err != nil {
		return record.Record{}, err
	}
	if writer != nil {
		if err := writer.WriteRecord(rec); err != nil {
			return rec, fmt.Errorf("write record: %w", err)
		}
	}
	return rec, nil
}

// ReplayLogFile opens a file and replays its input rows.
func ReplayLogFile(path string, writer RecordWriter) (record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return record.Record{}, err
	}
	defer f.Close()
	rows, err := ReadInputLog(f)
	if err != nil {
		return record.Record{}, err
	}
	return ReplayLog(rows, writer, time.Now())
}
