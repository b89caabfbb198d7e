// ReportWriter prints a human-friendly run report to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"aimtrain/internal/heatmap"
	"aimtrain/internal/record"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	zeroStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

var rankColors = map[string]lipgloss.Color{
	"S+": lipgloss.Color("13"),
	"S":  lipgloss.Color("11"),
	"A":  lipgloss.Color("10"),
	"B":  lipgloss.Color("14"),
	"C":  lipgloss.Color("12"),
	"D":  lipgloss.Color("9"),
}

const heatRamp = " .:-=+*#%@"

// ReportWriter renders each record as a boxed report.
type ReportWriter struct {
	out         io.Writer
	width       int
	heatmapCols int
}

// NewReportWriter creates a ReportWriter writing to os.Stdout wrapped at width.
func NewReportWriter(width int) *ReportWriter {
	if width <= 20 {
		width = 80
	}
	return &ReportWriter{out: os.Stdout, width: width, heatmapCols: 32}
}

// WriteRecord prints the report for r.
func (w *ReportWriter) WriteRecord(r record.Record) error {
	_, err := fmt.Fprintln(w.out, w.Render(r))
	return err
}

// Render returns the report text.
func (w *ReportWriter) Render(r record.Record) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s challenge · %s", strings.ToUpper(string(r.Mode)), r.Setting)))
	b.WriteString("\n\n")

	m := r.Metrics
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-20s", label)), value)
	}
	row("hits / misses", fmt.Sprintf("%d / %d", m.Hits, m.Misses))
	row("overall accuracy", fmt.Sprintf("%.1f%%", m.OverallAccuracy*100))
	row("in-target accuracy", fmt.Sprintf("%.1f%%", m.InTargetAccuracy*100))
	row("avg distance", fmt.Sprintf("%.1f px", m.AvgDistance))
	row("elapsed", fmt.Sprintf("%.2f s", r.ElapsedSeconds))
	b.WriteString("\n")

	bd := r.Breakdown
	row("base", fmt.Sprintf("%d / %d", bd.BaseScore, bd.BaseMax))
	for _, x := range bd.Bonuses {
		v := fmt.Sprintf("+%d", x.Value)
		if x.Value == 0 {
			v = zeroStyle.Render(v)
		}
		row("  "+strings.ReplaceAll(x.Name, "_", " "), v)
	}
	rank := lipgloss.NewStyle().Bold(true).Foreground(rankColors[r.Rank]).Render(r.Rank)
	row("final", scoreStyle.Render(fmt.Sprint(bd.FinalScore))+"  "+rank)
	row("coins", fmt.Sprint(r.Coins))

	if !r.Heatmap.Empty() {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("hit heatmap"))
		b.WriteString("\n")
		b.WriteString(indent.String(asciiHeatmap(r.Heatmap, w.heatmapCols), 2))
		b.WriteString("\n")
	}
	summary := fmt.Sprintf("run %s scored %d (rank %s) on seed %d at %s",
		r.ID, bd.FinalScore, r.Rank, r.Seed, r.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(wordwrap.String(summary, w.width-4)))

	return boxStyle.Width(w.width - 2).Render(b.String())
}

// asciiHeatmap downsamples s to cols columns and half as many rows, since
// terminal cells are about twice as tall as wide.
func asciiHeatmap(s heatmap.Snapshot, cols int) string {
	if cols <= 0 || cols > s.Width {
		cols = s.Width
	}
	rows := cols / 2
	if rows == 0 {
		rows = 1
	}
	maxV := s.Max()
	var b strings.Builder
	for ry := 0; ry < rows; ry++ {
		y0, y1 := ry*s.Height/rows, (ry+1)*s.Height/rows
		for cx := 0; cx < cols; cx++ {
			x0, x1 := cx*s.Width/cols, (cx+1)*s.Width/cols
			peak := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					if v := s.At(x, y); v > peak {
						peak = v
					}
				}
			}
			idx := 0
			if maxV > 0 {
				idx = peak * (len(heatRamp) - 1) / maxV
			}
			b.WriteByte(heatRamp[idx])
		}
		if ry < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
