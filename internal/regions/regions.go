// Package regions classifies spans within a single line as code, string,
// line comment or block comment, and produces the region-aware nested
// sub-diffs attached to modified entries.
package regions

import (
	"strings"

	"github.com/jasontally/semdiff/internal/lang"
)

// Kind labels a contiguous span within one line.
type Kind string

const (
	Code         Kind = "code"
	String       Kind = "string"
	LineComment  Kind = "line_comment"
	BlockComment Kind = "block_comment"
)

// Region is a half-open [Start, End) byte span of a line. Regions returned
// by Detect are non-overlapping and jointly cover the line.
type Region struct {
	Kind  Kind
	Start int
	End   int
}

// Detect scans a line left to right and splits it into regions. String
// literals honor single, double and backtick quoting with backslash
// escapes (except inside backticks). Line comments start at the language's
// comment markers outside any string; block comments use /* */ where the
// language has them. Unterminated strings and comments run to end of line.
func Detect(line, langTag string) []Region {
	if line == "" {
		return nil
	}

	lineMarkers := lang.LineCommentPrefixes(langTag)
	blockComments := lang.HasBlockComments(langTag)

	var regions []Region
	codeStart := 0
	flushCode := func(end int) {
		if end > codeStart {
			regions = append(regions, Region{Kind: Code, Start: codeStart, End: end})
		}
	}

	i := 0
	n := len(line)
	for i < n {
		c := line[i]

		// Line comment?
		if m := matchMarker(line, i, lineMarkers); m > 0 {
			flushCode(i)
			regions = append(regions, Region{Kind: LineComment, Start: i, End: n})
			return regions
		}

		// Block comment?
		if blockComments && c == '/' && i+1 < n && line[i+1] == '*' {
			flushCode(i)
			end := strings.Index(line[i+2:], "*/")
			if end < 0 {
				regions = append(regions, Region{Kind: BlockComment, Start: i, End: n})
				return regions
			}
			stop := i + 2 + end + 2
			regions = append(regions, Region{Kind: BlockComment, Start: i, End: stop})
			i = stop
			codeStart = i
			continue
		}

		// String literal?
		if c == '\'' || c == '"' || c == '`' {
			flushCode(i)
			stop := scanString(line, i)
			regions = append(regions, Region{Kind: String, Start: i, End: stop})
			i = stop
			codeStart = i
			continue
		}

		i++
	}
	flushCode(n)
	return regions
}

// matchMarker reports the length of a line-comment marker at position i,
// or 0 when none matches.
func matchMarker(line string, i int, markers []string) int {
	for _, m := range markers {
		if strings.HasPrefix(line[i:], m) {
			return len(m)
		}
	}
	return 0
}

// scanString returns the index just past the closing quote, or the end of
// the line for an unterminated literal. Backslash escapes are honored for
// single and double quotes; backticks take no escapes.
func scanString(line string, start int) int {
	quote := line[start]
	i := start + 1
	for i < len(line) {
		c := line[i]
		if c == '\\' && quote != '`' && i+1 < len(line) {
			i += 2
			continue
		}
		if c == quote {
			return i + 1
		}
		i++
	}
	return len(line)
}

// kindsEqual reports whether both sides carry the same region-kind
// sequence, which is the precondition for region-by-region diffing.
func kindsEqual(a, b []Region) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind {
			return false
		}
	}
	return true
}
