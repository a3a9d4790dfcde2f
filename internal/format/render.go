package format

import (
	"fmt"
	"strings"

	"github.com/jasontally/semdiff/internal/pipeline"
	"github.com/jasontally/semdiff/internal/regions"
	"github.com/jasontally/semdiff/internal/textdiff"
)

// gutter markers per classification.
func marker(kind pipeline.Kind) string {
	switch kind {
	case pipeline.KindAdded:
		return "+"
	case pipeline.KindRemoved:
		return "-"
	case pipeline.KindModified:
		return "~"
	case pipeline.KindMoved:
		return ">"
	case pipeline.KindMovedModified:
		return "≈"
	}
	return " "
}

// SideBySide renders entries as a two-column view with box-drawing
// borders. Lines are tinted whole; the unified view carries the finer
// span emphasis.
func SideBySide(entries []pipeline.Entry, maxRows int) string {
	termWidth := TermWidth()
	colW := (termWidth - 9) / 2
	if colW < 20 {
		colW = 20
	}

	total := len(entries)
	truncated := maxRows > 0 && total > maxRows
	if truncated {
		entries = entries[:maxRows]
	}

	var output []string
	lblL := "─ Before "
	lblR := "─ After "
	output = append(output, fmt.Sprintf("┌%s%s┬%s%s┐",
		lblL, strings.Repeat("─", colW+4-runeLen(lblL)),
		lblR, strings.Repeat("─", colW+2-runeLen(lblR))))

	blank := strings.Repeat(" ", colW)
	for i := range entries {
		e := &entries[i]
		m := marker(e.Kind)
		switch e.Kind {
		case pipeline.KindUnchanged:
			v := padOrTrunc(expandTabs(e.Value), colW)
			output = append(output, fmt.Sprintf("│ %s%s%s %s │ %s%s%s │",
				Dim, v, Reset, m, Dim, v, Reset))
		case pipeline.KindRemoved:
			v := padOrTrunc(expandTabs(e.Value), colW)
			output = append(output, fmt.Sprintf("│ %s%s%s %s │ %s │",
				Red, v, Reset, m, blank))
		case pipeline.KindAdded:
			v := padOrTrunc(expandTabs(e.Value), colW)
			output = append(output, fmt.Sprintf("│ %s %s │ %s%s%s │",
				blank, m, Green, v, Reset))
		case pipeline.KindMoved:
			l := padOrTrunc(expandTabs(e.Removed), colW)
			r := padOrTrunc(expandTabs(e.Added), colW)
			output = append(output, fmt.Sprintf("│ %s%s%s %s │ %s%s%s │",
				Blue, l, Reset, m, Blue, r, Reset))
		default: // modified, moved-modified
			l := padOrTrunc(expandTabs(e.Removed), colW)
			r := padOrTrunc(expandTabs(e.Added), colW)
			color := Yellow
			if e.Kind == pipeline.KindMovedModified {
				color = Magenta
			}
			output = append(output, fmt.Sprintf("│ %s%s%s %s │ %s%s%s │",
				Red, l, Reset, m, color, r, Reset))
		}
	}

	output = append(output, fmt.Sprintf("└%s┴%s┘",
		strings.Repeat("─", colW+4), strings.Repeat("─", colW+2)))

	if truncated {
		output = append(output, fmt.Sprintf("  %s… %d more lines not shown%s",
			Dim, total-maxRows, Reset))
	}
	return strings.Join(output, "\n")
}

// Unified renders entries as a single column. Modified pairs show the
// removed line then the added line, with changed sub-spans emphasized
// from the nested diff.
func Unified(entries []pipeline.Entry) string {
	var output []string
	for i := range entries {
		e := &entries[i]
		switch e.Kind {
		case pipeline.KindUnchanged:
			output = append(output, fmt.Sprintf("  %s%s%s", Dim, e.Value, Reset))
		case pipeline.KindRemoved:
			output = append(output, fmt.Sprintf("%s- %s%s", Red, e.Value, Reset))
		case pipeline.KindAdded:
			output = append(output, fmt.Sprintf("%s+ %s%s", Green, e.Value, Reset))
		case pipeline.KindMoved:
			output = append(output, fmt.Sprintf("%s> %s%s%s", Blue, e.Added, moveTag(e), Reset))
		default:
			spans := e.CharDiff
			if len(spans) == 0 {
				spans = e.WordDiff
			}
			output = append(output,
				fmt.Sprintf("%s- %s%s", Red, renderSpans(e.Removed, spans, textdiff.OpDelete, Red), Reset),
				fmt.Sprintf("%s+ %s%s%s", Green, renderSpans(e.Added, spans, textdiff.OpInsert, Green), sliderTag(e)+moveTag(e), Reset))
		}
	}
	return strings.Join(output, "\n")
}

// renderSpans rebuilds one side of a modified line from its sub-diff
// spans, inverting the spans that changed. When the spans do not cover
// the whole side (region-aligned lines diff code and string regions at
// different levels) the plain text is used instead.
func renderSpans(fallback string, spans []regions.Span, side textdiff.Op, color string) string {
	if len(spans) == 0 {
		return fallback
	}
	var plain, decorated strings.Builder
	for _, s := range spans {
		switch s.Op {
		case textdiff.OpEqual:
			plain.WriteString(s.Text)
			decorated.WriteString(s.Text)
		case side:
			plain.WriteString(s.Text)
			decorated.WriteString(Invert)
			decorated.WriteString(s.Text)
			decorated.WriteString(Reset)
			decorated.WriteString(color)
		}
	}
	if plain.String() != fallback {
		return fallback
	}
	return decorated.String()
}

func moveTag(e *pipeline.Entry) string {
	if e.MoveID == "" {
		return ""
	}
	id := e.MoveID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf(" %s(moved %s)%s", Dim, id, Reset)
}

func sliderTag(e *pipeline.Entry) string {
	if !e.SliderCorrected {
		return ""
	}
	return fmt.Sprintf(" %s(realigned)%s", Dim, Reset)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func padOrTrunc(s string, w int) string {
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}

func runeLen(s string) int {
	return len([]rune(s))
}
