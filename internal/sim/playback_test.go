package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"aimtrain/internal/scoring"
)

func encodeRows(t *testing.T, rows []InputRow) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	return &buf
}

func TestReplayReproducesScore(t *testing.T) {
	for _, mode := range scoring.Modes {
		t.Run(string(mode), func(t *testing.T) {
			cw := &collectWriter{}
			live, err := newTestRunner(t, mode, 21, cw).RunFast(context.Background())
			if err != nil {
				t.Fatalf("RunFast: %v", err)
			}

			rows, err := ReadInputLog(encodeRows(t, cw.inputs))
			if err != nil {
				t.Fatalf("ReadInputLog: %v", err)
			}
			replayed, err := ReplayLog(rows, nil, time.Unix(0, 0))
			if err != nil {
				t.Fatalf("ReplayLog: %v", err)
			}
			if replayed.Metrics != live.Metrics {
				t.Fatalf("metrics differ: %+v vs %+v", replayed.Metrics, live.Metrics)
			}
			if replayed.Breakdown.FinalScore != live.Breakdown.FinalScore {
				t.Fatalf("score differs: %d vs %d", replayed.Breakdown.FinalScore, live.Breakdown.FinalScore)
			}
			for i := range live.Heatmap.Counts {
				if live.Heatmap.Counts[i] != replayed.Heatmap.Counts[i] {
					t.Fatalf("heatmap cell %d differs", i)
				}
			}
		})
	}
}

func TestReplayLogErrors(t *testing.T) {
	if _, err := ReplayLog(nil, nil, time.Now()); !errors.Is(err, ErrNoStart) {
		t.Fatalf("expected ErrNoStart, got %v", err)
	}
	if _, err := ReplayLog([]InputRow{{Kind: InputTick}}, nil, time.Now()); !errors.Is(err, ErrNoStart) {
		t.Fatalf("expected ErrNoStart, got %v", err)
	}

	st := testSettings(scoring.ModeSpeed)
	start := InputRow{Seq: 1, Kind: InputStart, Seed: 1, Settings: &st}
	if _, err := ReplayLog([]InputRow{start, {Seq: 2, Kind: InputAbort}}, nil, time.Now()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := ReplayLog([]InputRow{start, {Seq: 2, Kind: InputTick, DT: 0.016}}, nil, time.Now()); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if _, err := ReplayLog([]InputRow{start, {Seq: 2, Kind: "teleport"}}, nil, time.Now()); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestReadInputLogBadJSON(t *testing.T) {
	if _, err := ReadInputLog(bytes.NewBufferString("{\"seq\":1}\n{oops")); err == nil {
		t.Fatalf("expected decode error")
	}
}
