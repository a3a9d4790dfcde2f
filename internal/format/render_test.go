package format

import (
	"strings"
	"testing"

	"github.com/jasontally/semdiff/internal/pipeline"
	"github.com/jasontally/semdiff/internal/regions"
	"github.com/jasontally/semdiff/internal/textdiff"
)

// Colors are disabled in tests: stdout is not a terminal, so the init in
// ansi.go blanks every escape and output compares as plain text.

func sampleEntries() []pipeline.Entry {
	return []pipeline.Entry{
		{Kind: pipeline.KindUnchanged, Value: "context line", OldIndex: 0, NewIndex: 0},
		{Kind: pipeline.KindRemoved, Value: "gone", OldIndex: 1, NewIndex: -1},
		{Kind: pipeline.KindAdded, Value: "fresh", OldIndex: -1, NewIndex: 1},
		{
			Kind: pipeline.KindModified, OldIndex: 2, NewIndex: 2,
			Removed: "total = 1", Added: "total = 2", Similarity: 0.9,
		},
	}
}

func TestSideBySide_ContainsAllLines(t *testing.T) {
	out := SideBySide(sampleEntries(), 0)
	for _, want := range []string{"Before", "After", "context line", "gone", "fresh", "total = 1", "total = 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSideBySide_TruncatesRows(t *testing.T) {
	entries := make([]pipeline.Entry, 50)
	for i := range entries {
		entries[i] = pipeline.Entry{Kind: pipeline.KindUnchanged, Value: "line", OldIndex: i, NewIndex: i}
	}
	out := SideBySide(entries, 10)
	if !strings.Contains(out, "40 more lines not shown") {
		t.Errorf("missing truncation notice:\n%s", out)
	}
}

func TestUnified_MarkersPerKind(t *testing.T) {
	out := Unified(sampleEntries())
	lines := strings.Split(out, "\n")
	var sawMinus, sawPlus bool
	for _, l := range lines {
		if strings.HasPrefix(l, "- ") {
			sawMinus = true
		}
		if strings.HasPrefix(l, "+ ") {
			sawPlus = true
		}
	}
	if !sawMinus || !sawPlus {
		t.Errorf("unified output missing +/- rows:\n%s", out)
	}
}

func TestUnified_MovedTag(t *testing.T) {
	entries := []pipeline.Entry{{
		Kind: pipeline.KindMoved, OldIndex: 0, NewIndex: 3,
		Removed: "same text", Added: "same text", Similarity: 1.0,
		MoveID: "0f9a3c2d-1234-5678-9abc-def012345678",
	}}
	out := Unified(entries)
	if !strings.Contains(out, "moved 0f9a3c2d") {
		t.Errorf("moved tag missing:\n%s", out)
	}
}

func TestRenderSpans_PartialCoverageFallsBack(t *testing.T) {
	spans := []regions.Span{
		{Text: "only part", Op: textdiff.OpEqual, Region: regions.Code, Level: regions.LevelChar},
	}
	got := renderSpans("only part of the line", spans, textdiff.OpDelete, "")
	if got != "only part of the line" {
		t.Errorf("partial spans should fall back to plain text, got %q", got)
	}
}

func TestStatsLine(t *testing.T) {
	result := &pipeline.Result{
		Stats:    pipeline.Stats{Added: 1, Removed: 2, Modified: 3, Moved: 4},
		Language: "go",
	}
	out := StatsLine(result)
	for _, want := range []string{"+1", "-2", "~3", ">4", "(go)"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats line missing %q: %s", want, out)
		}
	}
}
