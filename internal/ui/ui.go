// Package ui holds the terminal look of schemaview: colors for each kind of
// output, the banner and aligned tables.
package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Output roles. Brand also marks the schema root in outlines, Info marks
// classes and Warn marks deprecated nodes.
var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

const Tree = "\U0001F333" // 🌳

// MaxCell caps the width of a table cell; longer text ends in "…".
const MaxCell = 60

// SetColor turns colored output on or off for the whole process.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Styler adapts a color to the func(string) string shape outlines take.
func Styler(c *color.Color) func(string) string {
	return func(s string) string { return c.Sprint(s) }
}

// Banner prints "🌳 schemaview — subtitle" followed by a blank line.
func Banner(subtitle string) {
	fmt.Fprintf(color.Output, "%s %s — %s\n\n", Tree, Brand.Sprint("schemaview"), subtitle)
}

// Table prints rows under a dimmed header to stdout. Nothing is printed for
// an empty table.
func Table(headers []string, rows [][]string) {
	WriteTable(color.Output, headers, rows)
}

// WriteTable is Table for any writer. Cells past the header count are
// dropped.
func WriteTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(headers))
		for i := range headers {
			if i >= len(row) {
				continue
			}
			cells[r][i] = clip(row[i], MaxCell)
			widths[i] = max(widths[i], utf8.RuneCountInString(cells[r][i]))
		}
	}

	rules := make([]string, len(widths))
	for i, n := range widths {
		rules[i] = strings.Repeat("─", n)
	}
	fmt.Fprintln(w, Subtle.Sprint(line(headers, widths)))
	fmt.Fprintln(w, Subtle.Sprint(line(rules, widths)))
	for _, row := range cells {
		fmt.Fprintln(w, line(row, widths))
	}
}

func line(cells []string, widths []int) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, c := range cells {
		b.WriteString(c)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)+2))
		}
	}
	return b.String()
}

func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// StatusIcon is a green check or a red cross.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

func WarnIcon() string {
	return Warn.Sprint("⚠")
}
