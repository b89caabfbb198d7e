package sim

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"aimtrain/internal/arena"
	"aimtrain/internal/scoring"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	w.sendSignal.Store(true)
	if err := w.WriteFrame(Frame{Mode: scoring.ModeSpeed}); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if _, ok := p.msgs[0].(frameMsg); !ok {
		t.Fatalf("expected frameMsg, got %T", p.msgs[0])
	}
	if err := w.WriteRecord(sampleRecord()); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, ok := p.msgs[1].(recordMsg); !ok {
		t.Fatalf("expected recordMsg, got %T", p.msgs[1])
	}
	if w.sendSignal.Load() {
		t.Fatalf("completed run should not interrupt the process on quit")
	}
}

func TestTUIModelShowsResult(t *testing.T) {
	m := newTUIModel()
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = mi.(tuiModel)
	if !strings.Contains(m.View(), "waiting") {
		t.Fatalf("expected waiting view before the first frame")
	}
	f := Frame{Mode: scoring.ModeSpeed, State: "running", Arena: arena.Bounds{Width: 100, Height: 100}, TargetCount: 10}
	mi, _ = m.Update(frameMsg{f})
	m = mi.(tuiModel)
	f.Hits = 1
	mi, _ = m.Update(frameMsg{f})
	m = mi.(tuiModel)
	if !strings.Contains(m.View(), "+1 hit") {
		t.Fatalf("expected hit in log, got:\n%s", m.View())
	}
	mi, _ = m.Update(recordMsg{sampleRecord()})
	m = mi.(tuiModel)
	view := m.View()
	if !strings.Contains(view, "rank") || !strings.Contains(view, scoring.BonusOverall) {
		t.Fatalf("expected result view, got:\n%s", view)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestRenderArena(t *testing.T) {
	f := Frame{
		Arena:   arena.Bounds{Width: 100, Height: 100},
		Cursor:  arena.Point{X: 95, Y: 95},
		Targets: []FrameTarget{{ID: 1, Center: arena.Point{X: 5, Y: 5}}, {ID: 2, Center: arena.Point{X: 55, Y: 5}, Progress: 0.9}},
	}
	out := renderArena(f, 10, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	if lines[0][0] != 'O' || lines[0][5] != '@' || lines[3][9] != '+' {
		t.Fatalf("unexpected grid:\n%s", out)
	}
	if renderArena(Frame{}, 10, 4) != "" {
		t.Fatalf("expected empty render without arena bounds")
	}
}

func TestFrameCompletion(t *testing.T) {
	if c := (Frame{Mode: scoring.ModeSpeed, TargetCount: 10, Hits: 5}).Completion(); c != 0.5 {
		t.Fatalf("speed completion = %v", c)
	}
	if c := (Frame{Mode: scoring.ModeTracking, DurationSeconds: 30, Elapsed: 45}).Completion(); c != 1 {
		t.Fatalf("tracking completion = %v", c)
	}
}
