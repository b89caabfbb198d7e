package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aimtrain/internal/arena"
	"aimtrain/internal/record"
	"aimtrain/internal/scoring"
	"aimtrain/internal/session"
)

type collectWriter struct {
	mu      sync.Mutex
	records []record.Record
	inputs  []InputRow
}

func (c *collectWriter) WriteRecord(r record.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	return nil
}

func (c *collectWriter) WriteInput(row InputRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = append(c.inputs, row)
	return nil
}

func testSettings(mode scoring.Mode) session.Settings {
	s := session.DefaultSettings()
	s.Mode = mode
	s.Setting = "test"
	s.Arena = arena.Bounds{Width: 640, Height: 480}
	s.Diameter = 50
	s.TargetCount = 10
	s.DurationSeconds = 3
	return s
}

func newTestRunner(t *testing.T, mode scoring.Mode, seed int64, w RecordWriter) *Runner {
	t.Helper()
	s, err := session.New(testSettings(mode), seed)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	r := NewRunner(s, NewBot(DefaultBotConfig(), seed+1), w, 0)
	r.SetClock(func() time.Time { return time.Unix(1700000000, 0) })
	return r
}

func TestRunFastSpeedCompletes(t *testing.T) {
	cw := &collectWriter{}
	r := newTestRunner(t, scoring.ModeSpeed, 1, cw)

	rec, err := r.RunFast(context.Background())
	if err != nil {
		t.Fatalf("RunFast: %v", err)
	}
	if len(cw.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(cw.records))
	}
	if rec.Metrics.Hits != 10 {
		t.Fatalf("hits = %d, want 10", rec.Metrics.Hits)
	}
	if rec.Breakdown.FinalScore <= 0 {
		t.Fatalf("expected positive score, got %+v", rec.Breakdown)
	}
	if rec.Heatmap.Max() != rec.Heatmap.Scale {
		t.Fatalf("heatmap not normalized: max %d scale %d", rec.Heatmap.Max(), rec.Heatmap.Scale)
	}
	if len(cw.inputs) == 0 || cw.inputs[0].Kind != InputStart {
		t.Fatalf("input log should begin with a start row")
	}
	for i, in := range cw.inputs {
		if in.Seq != i+1 {
			t.Fatalf("row %d has seq %d", i, in.Seq)
		}
	}
}

func TestRunFastDeterministic(t *testing.T) {
	a, err := newTestRunner(t, scoring.ModeAccuracy, 7, nil).RunFast(context.Background())
	if err != nil {
		t.Fatalf("RunFast: %v", err)
	}
	b, err := newTestRunner(t, scoring.ModeAccuracy, 7, nil).RunFast(context.Background())
	if err != nil {
		t.Fatalf("RunFast: %v", err)
	}
	if a.Breakdown.FinalScore != b.Breakdown.FinalScore || a.Metrics != b.Metrics {
		t.Fatalf("runs differ: %+v vs %+v", a.Breakdown, b.Breakdown)
	}
}

func TestRunFastTrackingEndsOnCountdown(t *testing.T) {
	st := testSettings(scoring.ModeTracking)
	st.TargetCount = 0
	s, err := session.New(st, 3)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	r := NewRunner(s, NewBot(DefaultBotConfig(), 4), nil, 0)
	rec, err := r.RunFast(context.Background())
	if err != nil {
		t.Fatalf("RunFast: %v", err)
	}
	if rec.ElapsedSeconds < 2.999 || rec.ElapsedSeconds > 3.0001 {
		t.Fatalf("elapsed = %v, want 3", rec.ElapsedSeconds)
	}
	if rec.Breakdown.BaseMax != 3000 {
		t.Fatalf("base max = %d, want 3000", rec.Breakdown.BaseMax)
	}
}

func TestRunFastCancelledAborts(t *testing.T) {
	cw := &collectWriter{}
	r := newTestRunner(t, scoring.ModeSpeed, 2, cw)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.RunFast(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if r.Session().State() != session.Aborted {
		t.Fatalf("state = %v, want aborted", r.Session().State())
	}
	if len(cw.records) != 0 {
		t.Fatalf("aborted run must not write a record")
	}
	if last := cw.inputs[len(cw.inputs)-1]; last.Kind != InputAbort {
		t.Fatalf("last input = %s, want abort", last.Kind)
	}
}

func TestRunWithTicker(t *testing.T) {
	st := testSettings(scoring.ModeSpeed)
	st.TargetCount = 3
	s, err := session.New(st, 5)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	bot := NewBot(BotConfig{}, 6)
	cw := &collectWriter{}
	r := NewRunner(s, bot, cw, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.Metrics.Hits != 3 || rec.Metrics.Misses != 0 {
		t.Fatalf("unexpected metrics %+v", rec.Metrics)
	}
}

func TestRunStartTwice(t *testing.T) {
	r := newTestRunner(t, scoring.ModeSpeed, 1, nil)
	if _, err := r.RunFast(context.Background()); err != nil {
		t.Fatalf("RunFast: %v", err)
	}
	if _, err := r.RunFast(context.Background()); !errors.Is(err, session.ErrNotArmed) {
		t.Fatalf("expected ErrNotArmed, got %v", err)
	}
}

type frameWriter struct {
	collectWriter
	frames []Frame
}

func (f *frameWriter) WriteFrame(fr Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}

func TestRunFastEmitsFrames(t *testing.T) {
	fw := &frameWriter{}
	r := newTestRunner(t, scoring.ModeSpeed, 9, NewMultiWriter(fw))
	rec, err := r.RunFast(context.Background())
	if err != nil {
		t.Fatalf("RunFast: %v", err)
	}
	if len(fw.frames) == 0 {
		t.Fatalf("expected frames")
	}
	last := fw.frames[len(fw.frames)-1]
	if last.State != session.Completed.String() || last.Completion() != 1 {
		t.Fatalf("last frame state %s completion %v", last.State, last.Completion())
	}
	if last.Hits != rec.Metrics.Hits {
		t.Fatalf("frame hits %d, record hits %d", last.Hits, rec.Metrics.Hits)
	}
	if len(fw.inputs) == 0 {
		t.Fatalf("multi writer should forward inputs too")
	}
}
