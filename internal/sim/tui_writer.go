package sim

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aimtrain/internal/arena"
	"aimtrain/internal/record"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// frameMsg carries a live session frame.
type frameMsg struct{ Frame }

// recordMsg carries the completed run.
type recordMsg struct{ record.Record }

const (
	maxLogLines = 200
	minArenaW   = 20
	minArenaH   = 6
)

var (
	tuiTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	tuiDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	tuiHit    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	tuiMiss   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// TUIWriter renders a running challenge with a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. Quitting
// the TUI interrupts the process so the run is aborted.
func NewTUIWriter() *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteFrame implements FrameWriter.
func (w *TUIWriter) WriteFrame(f Frame) error {
	w.program.Send(frameMsg{f})
	return nil
}

// WriteRecord implements RecordWriter. The TUI keeps the result on screen
// until the user quits.
func (w *TUIWriter) WriteRecord(r record.Record) error {
	w.sendSignal.Store(false)
	w.program.Send(recordMsg{r})
	return nil
}

// Done is closed when the TUI exits.
func (w *TUIWriter) Done() <-chan struct{} { return w.done }

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	width, height int
	frame         Frame
	haveFrame     bool
	run           *record.Record
	bar           progress.Model
	bonuses       table.Model
	vp            viewport.Model
	logs          []string
}

func newTUIModel() tuiModel {
	cols := []table.Column{
		{Title: "Bonus", Width: 20},
		{Title: "Points", Width: 10},
	}
	return tuiModel{
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		bonuses: table.New(table.WithColumns(cols)),
		vp:      viewport.New(0, 4),
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-20, 10)
		m.vp.Width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case frameMsg:
		m.logDelta(msg.Frame)
		m.frame = msg.Frame
		m.haveFrame = true
	case recordMsg:
		r := msg.Record
		m.run = &r
		var rows []table.Row
		for _, b := range r.Breakdown.Bonuses {
			rows = append(rows, table.Row{b.Name, strconv.Itoa(b.Value)})
		}
		m.bonuses.SetRows(rows)
		m.bonuses.SetHeight(len(rows) + 2)
		m.appendLog(fmt.Sprintf("run %s finished: %d points, rank %s", shortRunID(r.ID), r.Breakdown.FinalScore, r.Rank))
	}
	return m, nil
}

// logDelta notes hits and misses between two frames.
func (m *tuiModel) logDelta(f Frame) {
	if !m.haveFrame {
		m.appendLog(fmt.Sprintf("%s run started", f.Mode))
		return
	}
	if d := f.Hits - m.frame.Hits; d > 0 {
		m.appendLog(tuiHit.Render(fmt.Sprintf("%6.2fs  +%d hit", f.Elapsed, d)))
	}
	if d := f.Misses - m.frame.Misses; d > 0 {
		m.appendLog(tuiMiss.Render(fmt.Sprintf("%6.2fs  +%d miss", f.Elapsed, d)))
	}
}

func (m *tuiModel) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
	m.vp.SetContent(strings.Join(m.logs, "\n"))
	m.vp.GotoBottom()
}

func (m tuiModel) View() string {
	if !m.haveFrame {
		return tuiDim.Render("waiting for run...")
	}
	f := m.frame
	var b strings.Builder
	b.WriteString(tuiTitle.Render(fmt.Sprintf("%s challenge", strings.ToUpper(string(f.Mode)))))
	b.WriteString("  ")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(f.Completion()))
	b.WriteString("\n")

	if m.run != nil {
		r := m.run
		b.WriteString(fmt.Sprintf("\nfinal %d / %d   rank %s   coins +%d\n",
			r.Breakdown.FinalScore, r.Breakdown.BaseMax, r.Rank, r.Coins))
		b.WriteString(fmt.Sprintf("base %d\n", r.Breakdown.BaseScore))
		b.WriteString(m.bonuses.View())
		b.WriteString("\n")
	} else {
		cols, rows := m.arenaSize()
		b.WriteString(tuiBorder.Render(renderArena(f, cols, rows)))
		b.WriteString("\n")
	}
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(tuiDim.Render("q: quit"))
	return b.String()
}

func (m tuiModel) status() string {
	f := m.frame
	clock := fmt.Sprintf("%.1fs", f.Elapsed)
	if f.DurationSeconds > 0 {
		clock = fmt.Sprintf("%.1fs left", f.Remaining)
	}
	return tuiDim.Render(fmt.Sprintf("%s  hits %d  misses %d  live %d  [%s]", clock, f.Hits, f.Misses, len(f.Targets), f.State))
}

// arenaSize fits the arena grid into the window, leaving room for the header
// and log.
func (m tuiModel) arenaSize() (int, int) {
	cols := max(m.width-2, minArenaW)
	rows := max(m.height-4-m.vp.Height-3, minArenaH)
	return cols, rows
}

// renderArena draws targets and the cursor on a cols x rows character grid.
func renderArena(f Frame, cols, rows int) string {
	if f.Arena.Width <= 0 || f.Arena.Height <= 0 || cols <= 0 || rows <= 0 {
		return ""
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	cell := func(p arena.Point) (int, int, bool) {
		x := int(math.Floor(p.X / f.Arena.Width * float64(cols)))
		y := int(math.Floor(p.Y / f.Arena.Height * float64(rows)))
		return x, y, x >= 0 && x < cols && y >= 0 && y < rows
	}
	for _, t := range f.Targets {
		if x, y, ok := cell(t.Center); ok {
			grid[y][x] = targetGlyph(t.Progress)
		}
	}
	if x, y, ok := cell(f.Cursor); ok {
		grid[y][x] = '+'
	}
	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

// targetGlyph shades a target by tracking dwell.
func targetGlyph(progress float64) rune {
	switch {
	case progress >= 0.66:
		return '@'
	case progress >= 0.33:
		return 'O'
	case progress > 0:
		return 'o'
	}
	return 'O'
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
