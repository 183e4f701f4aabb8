package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
)

func TestWriteTable(t *testing.T) {
	old := color.NoColor
	t.Cleanup(func() { color.NoColor = old })
	SetColor(false)

	var buf bytes.Buffer
	WriteTable(&buf, []string{"NAME", "TITLE"}, [][]string{
		{"sdl-schema-2.6.0", "Scene\nlanguage"},
		{"ü", "x", "dropped"},
		{"short"},
	})

	want := strings.Join([]string{
		"  NAME              TITLE",
		"  ────────────────  ──────────────",
		"  sdl-schema-2.6.0  Scene language",
		"  ü                 x",
		"  short             ",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []string{"NAME"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestClip(t *testing.T) {
	long := strings.Repeat("ab", MaxCell)
	got := clip(long, MaxCell)
	if n := len([]rune(got)); n != MaxCell || !strings.HasSuffix(got, "…") {
		t.Errorf("clip returned %d runes: %q", n, got)
	}
	if got := clip("  spaced   out ", 20); got != "spaced out" {
		t.Errorf("clip should collapse whitespace, got %q", got)
	}
}
