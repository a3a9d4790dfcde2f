// Package textdiff adapts sergi/go-diff edit scripts to the line, word and
// character granularities the classification pipeline consumes.
package textdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the raw edit-script operation kind.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

// Entry is one element of a line-level edit script. Text holds one or more
// concatenated lines including trailing newlines; Lines is the line count.
type Entry struct {
	Op    Op
	Text  string
	Lines int
}

// Segment is one element of a word- or character-level edit script.
type Segment struct {
	Op   Op
	Text string
}

// Lines computes a Myers-style line-level edit script. Every input line
// appears in exactly one entry, and concatenating the old-side entries
// (deletes plus equals) reproduces old; likewise inserts plus equals for new.
func Lines(old, new string) []Entry {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	entries := make([]Entry, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		entries = append(entries, Entry{
			Op:    opFrom(d.Type),
			Text:  d.Text,
			Lines: countLines(d.Text),
		})
	}
	return entries
}

// Words computes a word-level edit script. Words are runs of non-space
// characters; whitespace runs are their own tokens so spacing changes are
// visible in the output.
func Words(a, b string) []Segment {
	ta := splitWords(a)
	tb := splitWords(b)

	table := make(map[string]rune)
	var inv []string
	ea := encodeTokens(ta, table, &inv)
	eb := encodeTokens(tb, table, &inv)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(ea, eb, false)

	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		var sb strings.Builder
		for _, r := range d.Text {
			sb.WriteString(inv[runeIndex(r)])
		}
		if sb.Len() == 0 {
			continue
		}
		segments = append(segments, Segment{Op: opFrom(d.Type), Text: sb.String()})
	}
	return segments
}

// Chars computes a character-level edit script with semantic cleanup so
// adjacent single-rune edits coalesce into readable spans.
func Chars(a, b string) []Segment {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		segments = append(segments, Segment{Op: opFrom(d.Type), Text: d.Text})
	}
	return segments
}

func opFrom(t diffmatchpatch.Operation) Op {
	switch t {
	case diffmatchpatch.DiffDelete:
		return OpDelete
	case diffmatchpatch.DiffInsert:
		return OpInsert
	}
	return OpEqual
}

// countLines counts newline-terminated lines; a trailing fragment without a
// newline still counts as one line.
func countLines(text string) int {
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// splitWords splits s into alternating non-space and whitespace tokens.
func splitWords(s string) []string {
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := r == ' ' || r == '\t'
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			tokens = append(tokens, s[start:i])
			start = i
			inSpace = space
		}
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// encodeTokens maps each distinct token to a rune so token sequences can be
// diffed with the character-level engine. Token indices are lifted past the
// surrogate range, which cannot round-trip through a UTF-8 string.
func encodeTokens(tokens []string, table map[string]rune, inv *[]string) string {
	var sb strings.Builder
	for _, tok := range tokens {
		r, ok := table[tok]
		if !ok {
			r = indexRune(len(*inv))
			table[tok] = r
			*inv = append(*inv, tok)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func indexRune(i int) rune {
	if i >= 0xD800 {
		i += 0x800
	}
	return rune(i)
}

func runeIndex(r rune) int {
	if r >= 0xE000 {
		return int(r) - 0x800
	}
	return int(r)
}
