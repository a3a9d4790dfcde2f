package format

import (
	"fmt"
	"strings"

	"github.com/jasontally/semdiff/internal/history"
	"github.com/jasontally/semdiff/internal/pipeline"
)

// StatsLine renders the one-line run summary printed under a diff.
func StatsLine(result *pipeline.Result) string {
	s := result.Stats
	parts := []string{
		fmt.Sprintf("%s+%d%s", Green, s.Added, Reset),
		fmt.Sprintf("%s-%d%s", Red, s.Removed, Reset),
		fmt.Sprintf("%s~%d%s", Yellow, s.Modified, Reset),
		fmt.Sprintf("%s>%d%s", Blue, s.Moved, Reset),
	}
	line := fmt.Sprintf("%s (%s)", strings.Join(parts, " "), result.Language)
	if s.SliderCorrections > 0 {
		line += fmt.Sprintf(" %s%d realigned%s", Dim, s.SliderCorrections, Reset)
	}
	if result.Limit.FastMode {
		line += fmt.Sprintf(" %s[fast mode: %s]%s", Dim, result.Limit.Reason, Reset)
	}
	if result.Cancelled {
		line += fmt.Sprintf(" %s[cancelled]%s", Dim, Reset)
	}
	return line
}

// HistoryTable renders recent runs, newest first.
func HistoryTable(runs []history.Run) string {
	if len(runs) == 0 {
		return Dim + "no recorded runs" + Reset
	}
	var output []string
	for _, r := range runs {
		line := fmt.Sprintf("%s%s%s  %s → %s  %s+%d -%d ~%d >%d%s  (%s, %dms)",
			Dim, r.Ts, Reset,
			r.OldFile, r.NewFile,
			Bold, r.Stats.Added, r.Stats.Removed, r.Stats.Modified, r.Stats.Moved, Reset,
			r.Language, r.DurationMS)
		if r.FastMode {
			line += fmt.Sprintf(" %s[fast: %s]%s", Dim, r.Reason, Reset)
		}
		output = append(output, line)
	}
	return strings.Join(output, "\n")
}

// SummaryBox renders aggregate history statistics inside a bordered box.
func SummaryBox(s history.Summary) string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("Runs recorded:   %d", s.TotalRuns),
		fmt.Sprintf("Lines changed:   %d", s.TotalChanges),
		fmt.Sprintf("Fast-mode runs:  %d", s.FastRuns))
	if len(s.TopLanguages) > 0 {
		lines = append(lines, "")
		lines = append(lines, "Top languages:")
		for _, lc := range s.TopLanguages {
			lines = append(lines, fmt.Sprintf("  %-14s %d", lc.Language, lc.Count))
		}
	}

	innerW := 0
	for _, l := range lines {
		if runeLen(l) > innerW {
			innerW = runeLen(l)
		}
	}
	if innerW < 30 {
		innerW = 30
	}

	title := "─ History "
	var output []string
	output = append(output, fmt.Sprintf("┌%s%s┐",
		title, strings.Repeat("─", innerW+2-runeLen(title))))
	for _, l := range lines {
		output = append(output, fmt.Sprintf("│ %s │", padOrTrunc(l, innerW)))
	}
	output = append(output, fmt.Sprintf("└%s┘", strings.Repeat("─", innerW+2)))
	return strings.Join(output, "\n")
}
