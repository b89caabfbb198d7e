package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aimtrain/internal/record"
	"aimtrain/internal/scoring"
	"aimtrain/internal/sim"
)

func sampleRun() record.Record {
	return record.Record{
		ID:        "run-1",
		Mode:      scoring.ModeSpeed,
		Setting:   "30",
		Rank:      "B",
		Coins:     12,
		Timestamp: time.Unix(1700000000, 0).UTC(),
	}
}

func TestNewWritersPrintOnly(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "localhost:4001")
	w, err := newWriters(writerOptions{PrintOnly: true, JSON: true})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer w.Close()
	if w.Len() != 1 {
		t.Fatalf("expected only the stdout writer, got %d writers", w.Len())
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, err := newWriters(writerOptions{JSON: true})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer w.Close()
	if w.Len() != 1 {
		t.Fatalf("expected stdout writer only, got %d", w.Len())
	}
}

func TestOutputWriterJSONWhenForced(t *testing.T) {
	if _, ok := outputWriter(true).(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter")
	}
}

func TestNewWritersLogFile(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "runs.log")
	w, err := newWriters(writerOptions{Quiet: true, LogFile: path})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if err := w.WriteRecord(sampleRun()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.WriteInput(sim.InputRow{Seq: 1, Kind: sim.InputTick, DT: 0.016}); err != nil {
		t.Fatalf("write input failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	for _, p := range []string{path, path + ".inputs"} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", p)
		}
	}
}

func TestNewWritersHistoryAndStore(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	h := record.NewHistory(record.DefaultCapacity)
	dsn := filepath.Join(t.TempDir(), "runs.db")
	w, err := newWriters(writerOptions{Quiet: true, DBBackend: "sqlite", DBDSN: dsn, History: h})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer w.Close()
	if w.Store == nil {
		t.Fatalf("expected store to be opened")
	}
	if err := w.WriteRecord(sampleRun()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if h.Len() != 1 {
		t.Fatalf("expected run in history, got %d", h.Len())
	}
	got, err := w.Store.Get("run-1")
	if err != nil {
		t.Fatalf("get from store: %v", err)
	}
	if got.Rank != "B" {
		t.Fatalf("unexpected stored run %+v", got)
	}
	balance, err := w.Store.Balance()
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 12 {
		t.Fatalf("expected 12 coins, got %d", balance)
	}
}

func TestReadScoreInputRejectsUnknownMode(t *testing.T) {
	if _, err := readScoreInput(strings.NewReader(`{"mode":"flick"}`)); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestPrintBreakdown(t *testing.T) {
	in, err := readScoreInput(strings.NewReader(`{"mode":"speed","target_count":30,"elapsed_seconds":25,
		"metrics":{"hits":30,"misses":2,"overall_accuracy":0.9375,"in_target_accuracy":0.7,"avg_distance":9}}`))
	if err != nil {
		t.Fatalf("readScoreInput: %v", err)
	}
	var buf bytes.Buffer
	if err := printBreakdown(&buf, scoring.Compute(in)); err != nil {
		t.Fatalf("printBreakdown: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"30000", scoring.BonusPace, "final"} {
		if !strings.Contains(strings.ToLower(out), strings.ToLower(want)) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	if err := printRuns(&buf, []record.Record{sampleRun()}); err != nil {
		t.Fatalf("printRuns: %v", err)
	}
	if !strings.Contains(buf.String(), "run-1") {
		t.Fatalf("expected run id in output:\n%s", buf.String())
	}
}
