package pipeline

import (
	"testing"
)

// makeMoveEntries builds the classified form of "a block of lines left one
// place and reappeared at another": isolated removed lines, an unchanged
// gap, then the same lines added.
func makeMoveEntries(removedLines, addedLines []string, gap []string) []Entry {
	var entries []Entry
	row := 0
	for _, l := range removedLines {
		entries = append(entries, Entry{Kind: KindRemoved, Value: l, OldIndex: row, NewIndex: -1})
		row++
	}
	newRow := 0
	for _, l := range gap {
		entries = append(entries, Entry{Kind: KindUnchanged, Value: l, OldIndex: row, NewIndex: newRow})
		row++
		newRow++
	}
	for _, l := range addedLines {
		entries = append(entries, Entry{Kind: KindAdded, Value: l, OldIndex: -1, NewIndex: newRow})
		newRow++
	}
	return entries
}

func TestDetectMoves_PureMove(t *testing.T) {
	p := testPipeline(t, func(c *Config) { c.MinLinesForMoveDetection = 2 })
	p.totalLines = 20

	block := []string{"func helper() {", "\treturn compute()", "}"}
	entries := makeMoveEntries(block, block, []string{"unrelated", "lines", "here"})

	out := p.detectMoves(entries)

	var moved []Entry
	for _, e := range out {
		if e.Kind == KindMoved {
			moved = append(moved, e)
		}
		if e.Kind == KindMovedModified {
			t.Errorf("identical block flagged moved-modified: %+v", e)
		}
	}
	if len(moved) != 3 {
		t.Fatalf("moved entries = %d, want 3", len(moved))
	}
	id := moved[0].MoveID
	for _, e := range moved {
		if e.MoveID != id || e.MoveID == "" {
			t.Errorf("move ids differ: %q vs %q", e.MoveID, id)
		}
		if e.Similarity != 1.0 {
			t.Errorf("pure move similarity = %v, want 1.0", e.Similarity)
		}
	}
	// The added partners are merged away.
	for _, e := range out {
		if e.Kind == KindAdded {
			t.Errorf("added partner survived the move merge: %+v", e)
		}
	}
}

func TestDetectMoves_ModifiedMove(t *testing.T) {
	p := testPipeline(t, func(c *Config) { c.MinLinesForMoveDetection = 2 })
	p.totalLines = 20

	removed := []string{"limit = limit + batch", "cursor = advance(cursor)", "flush(cursor)"}
	added := []string{"limit = limit + batch", "cursor = advance(cursor)", "flush(cursor, force)"}
	entries := makeMoveEntries(removed, added, []string{"gap one", "gap two"})

	out := p.detectMoves(entries)

	var group []Entry
	for _, e := range out {
		if e.Kind == KindMovedModified {
			group = append(group, e)
		}
	}
	if len(group) != 3 {
		t.Fatalf("moved-modified entries = %d, want 3", len(group))
	}
	for _, e := range group {
		if e.Similarity <= 0 || e.Similarity > 1 {
			t.Errorf("similarity = %v out of range", e.Similarity)
		}
	}
	// The edited line keeps a nested sub-diff.
	var sawSubDiff bool
	for _, e := range group {
		if e.Removed != e.Added && (len(e.CharDiff) > 0 || len(e.WordDiff) > 0) {
			sawSubDiff = true
		}
	}
	if !sawSubDiff {
		t.Error("edited line in move lost its nested sub-diff")
	}
}

func TestDetectMoves_BelowChangedLineFloor(t *testing.T) {
	p := testPipeline(t, func(c *Config) { c.MinLinesForMoveDetection = 10 })
	p.totalLines = 20

	block := []string{"a", "b", "c"}
	entries := makeMoveEntries(block, block, []string{"gap"})
	out := p.detectMoves(entries)
	for _, e := range out {
		if e.Kind == KindMoved || e.Kind == KindMovedModified {
			t.Errorf("move detected below the changed-line floor: %+v", e)
		}
	}
}

func TestDetectMoves_AboveTotalLineCeiling(t *testing.T) {
	p := testPipeline(t, func(c *Config) {
		c.MinLinesForMoveDetection = 2
		c.MaxLinesForMoveDetection = 5
	})
	p.totalLines = 50

	block := []string{"a", "b", "c"}
	entries := makeMoveEntries(block, block, []string{"gap"})
	out := p.detectMoves(entries)
	for _, e := range out {
		if e.Kind == KindMoved {
			t.Errorf("move detected above the total-line ceiling: %+v", e)
		}
	}
}

func TestDetectMoves_NonContiguousLinesDoNotMerge(t *testing.T) {
	p := testPipeline(t, func(c *Config) { c.MinLinesForMoveDetection = 2 })
	p.totalLines = 20

	// Removed rows 0 and 5 are not contiguous: no window spans them.
	entries := []Entry{
		{Kind: KindRemoved, Value: "shared line one", OldIndex: 0, NewIndex: -1},
		{Kind: KindRemoved, Value: "shared line two", OldIndex: 5, NewIndex: -1},
		{Kind: KindAdded, Value: "shared line one", OldIndex: -1, NewIndex: 0},
		{Kind: KindAdded, Value: "shared line two", OldIndex: -1, NewIndex: 1},
	}
	out := p.detectMoves(entries)
	for _, e := range out {
		if e.Kind == KindMoved || e.Kind == KindMovedModified {
			t.Errorf("non-contiguous removed lines merged into a move: %+v", e)
		}
	}
}

func TestDetectMoves_ExtensionPastDiscoveredCore(t *testing.T) {
	p := testPipeline(t, func(c *Config) { c.MinLinesForMoveDetection = 2 })
	p.totalLines = 60

	// Twelve identical lines: discovery caps windows at ten, extension
	// picks up the remainder into a single group.
	var block []string
	for _, s := range []string{
		"case 0: return zero()", "case 1: return one()", "case 2: return two()",
		"case 3: return three()", "case 4: return four()", "case 5: return five()",
		"case 6: return six()", "case 7: return seven()", "case 8: return eight()",
		"case 9: return nine()", "case 10: return ten()", "case 11: return eleven()",
	} {
		block = append(block, s)
	}
	entries := makeMoveEntries(block, block, []string{"gap line"})
	out := p.detectMoves(entries)

	ids := map[string]int{}
	for _, e := range out {
		if e.Kind == KindMoved {
			ids[e.MoveID]++
		}
	}
	if len(ids) != 1 {
		t.Fatalf("move groups = %d, want 1 (extension should absorb the tail)", len(ids))
	}
	for _, n := range ids {
		if n != 12 {
			t.Errorf("group size = %d, want 12", n)
		}
	}
}
