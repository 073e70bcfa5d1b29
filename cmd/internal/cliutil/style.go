package cliutil

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// Painter colors terminal output. Colors are only used when the writer
// is a terminal and NO_COLOR is not set.
type Painter struct {
	out *termenv.Output
}

// NewPainter returns a Painter for w.
func NewPainter(w io.Writer, noColor bool) *Painter {
	if noColor || !isTerminal(w) {
		return &Painter{out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
	}
	out := termenv.NewOutput(w)
	out.Profile = out.EnvColorProfile() // honors NO_COLOR and CLICOLOR_FORCE
	return &Painter{out: out}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Error renders s as an error label.
func (p *Painter) Error(s string) string {
	return p.out.String(s).Foreground(p.out.Color("1")).Bold().String()
}

// Warn renders s as a warning label.
func (p *Painter) Warn(s string) string {
	return p.out.String(s).Foreground(p.out.Color("3")).Bold().String()
}

// Faint renders s dimmed.
func (p *Painter) Faint(s string) string {
	return p.out.String(s).Faint().String()
}

// Bold renders s bold.
func (p *Painter) Bold(s string) string {
	return p.out.String(s).Bold().String()
}

// Columns formats rows as left-aligned columns separated by two spaces.
// Widths are measured in terminal cells.
func Columns(rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
