package pipeline

import (
	"strings"

	"github.com/jasontally/semdiff/internal/textdiff"
)

// lineRef is one line of a change block with its 0-based row index on its
// side of the document.
type lineRef struct {
	text  string
	index int
}

// changeBlock is a maximal contiguous run of removed and added lines
// bounded by unchanged entries (or the script boundaries).
type changeBlock struct {
	removed     []lineRef
	added       []lineRef
	startOffset int
}

// segment is either an unchanged run or a change block, in script order.
type segment struct {
	unchanged []lineRef // both-side rows; newIndex derived from offset below
	newStart  int       // first new-side row of the unchanged run
	block     *changeBlock
}

// segments walks the raw edit script once, splitting entry values into
// individual lines and grouping removed/added runs into change blocks.
// A trailing empty string from a terminating newline is discarded.
func segments(script []textdiff.Entry) []segment {
	var segs []segment
	var cur *changeBlock
	oldRow, newRow := 0, 0
	offset := 0

	flush := func() {
		if cur != nil {
			segs = append(segs, segment{block: cur})
			cur = nil
		}
	}

	for _, entry := range script {
		lines := splitLines(entry.Text)
		switch entry.Op {
		case textdiff.OpEqual:
			flush()
			seg := segment{newStart: newRow}
			for _, line := range lines {
				seg.unchanged = append(seg.unchanged, lineRef{text: line, index: oldRow})
				oldRow++
				newRow++
				offset++
			}
			segs = append(segs, seg)
		case textdiff.OpDelete:
			if cur == nil {
				cur = &changeBlock{startOffset: offset}
			}
			for _, line := range lines {
				cur.removed = append(cur.removed, lineRef{text: line, index: oldRow})
				oldRow++
				offset++
			}
		case textdiff.OpInsert:
			if cur == nil {
				cur = &changeBlock{startOffset: offset}
			}
			for _, line := range lines {
				cur.added = append(cur.added, lineRef{text: line, index: newRow})
				newRow++
				offset++
			}
		}
	}
	flush()
	return segs
}

// splitLines splits on newlines, dropping the empty tail a terminating
// newline produces. Empty input has no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// unchangedEntries expands an unchanged run into per-line entries.
func unchangedEntries(seg segment) []Entry {
	entries := make([]Entry, 0, len(seg.unchanged))
	for i, ref := range seg.unchanged {
		entries = append(entries, Entry{
			Kind:     KindUnchanged,
			Value:    ref.text,
			OldIndex: ref.index,
			NewIndex: seg.newStart + i,
		})
	}
	return entries
}
