package pipeline

import (
	"testing"

	"github.com/jasontally/semdiff/internal/textdiff"
)

func testPipeline(t *testing.T, mutate func(*Config)) *Pipeline {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := newPipeline(Primitives{
		Lines: textdiff.Lines,
		Words: textdiff.Words,
		Chars: textdiff.Chars,
	}, Options{Config: &cfg, Modes: ModeToggles{Lines: true, Words: true, Chars: true}})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGreedyPairs_DiagonalPreferenceOnTies(t *testing.T) {
	// All cells equal: the diagonal wins.
	m := &matrix{rows: 2, cols: 2, cells: []float64{0.9, 0.9, 0.9, 0.9}}
	pairs := greedyPairs(m, 0.6)
	if len(pairs) != 2 {
		t.Fatalf("pair count = %d, want 2", len(pairs))
	}
	if pairs[0].i != 0 || pairs[0].j != 0 || pairs[1].i != 1 || pairs[1].j != 1 {
		t.Errorf("pairs = %+v, want diagonal (0,0),(1,1)", pairs)
	}
}

func TestGreedyPairs_LargestCellFirst(t *testing.T) {
	// (1,0) carries the best score and must claim its row and column
	// before the weaker diagonal cells.
	m := &matrix{rows: 2, cols: 2, cells: []float64{
		0.7, 0.65,
		0.95, 0.7,
	}}
	pairs := greedyPairs(m, 0.6)
	if pairs[0].i != 1 || pairs[0].j != 0 {
		t.Fatalf("first pair = %+v, want (1,0)", pairs[0])
	}
	if len(pairs) != 2 || pairs[1].i != 0 || pairs[1].j != 1 {
		t.Errorf("pairs = %+v, want (1,0) then (0,1)", pairs)
	}
}

func TestGreedyPairs_ThresholdExcludes(t *testing.T) {
	m := &matrix{rows: 1, cols: 1, cells: []float64{0.59}}
	if pairs := greedyPairs(m, 0.6); len(pairs) != 0 {
		t.Errorf("below-threshold cell paired: %+v", pairs)
	}
}

func TestGreedyPairs_SmallerRowBreaksRemainingTies(t *testing.T) {
	// Same score, same diagonal distance: the smaller i wins the cell.
	m := &matrix{rows: 2, cols: 2, cells: []float64{
		0.0, 0.8,
		0.8, 0.0,
	}}
	pairs := greedyPairs(m, 0.6)
	if pairs[0].i != 0 || pairs[0].j != 1 {
		t.Errorf("first pair = %+v, want (0,1) by smaller i", pairs[0])
	}
}

func TestPairBlock_EmptySides(t *testing.T) {
	p := testPipeline(t, nil)

	if entries := p.pairBlock(&changeBlock{}); entries != nil {
		t.Errorf("empty block emitted %+v", entries)
	}

	removedOnly := &changeBlock{removed: []lineRef{{text: "gone", index: 0}}}
	entries := p.pairBlock(removedOnly)
	if len(entries) != 1 || entries[0].Kind != KindRemoved {
		t.Errorf("removed-only block = %+v, want one removed entry", entries)
	}

	addedOnly := &changeBlock{added: []lineRef{{text: "fresh", index: 0}}}
	entries = p.pairBlock(addedOnly)
	if len(entries) != 1 || entries[0].Kind != KindAdded {
		t.Errorf("added-only block = %+v, want one added entry", entries)
	}
}

func TestPairBlock_PairsSimilarLines(t *testing.T) {
	p := testPipeline(t, nil)
	block := &changeBlock{
		removed: []lineRef{{text: "count = count + 1", index: 3}},
		added:   []lineRef{{text: "count = count + 2", index: 3}},
	}
	entries := p.pairBlock(block)
	if len(entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Kind != KindModified {
		t.Fatalf("kind = %q, want modified", e.Kind)
	}
	if e.Similarity < p.cfg.ModifiedThreshold {
		t.Errorf("similarity = %v, below threshold", e.Similarity)
	}
	if e.Removed != "count = count + 1" || e.Added != "count = count + 2" {
		t.Errorf("pair texts = %q / %q", e.Removed, e.Added)
	}
	if len(e.CharDiff) == 0 {
		t.Error("modified pair missing char sub-diff")
	}
}

func TestPairBlock_DissimilarLinesStayIsolated(t *testing.T) {
	p := testPipeline(t, nil)
	block := &changeBlock{
		removed: []lineRef{{text: "import collections", index: 0}},
		added:   []lineRef{{text: "while answer > 0: answer -= 7", index: 0}},
	}
	entries := p.pairBlock(block)
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries))
	}
	if entries[0].Kind != KindRemoved || entries[1].Kind != KindAdded {
		t.Errorf("kinds = %q, %q, want removed, added", entries[0].Kind, entries[1].Kind)
	}
}

func TestPairBlock_OrderPreserved(t *testing.T) {
	p := testPipeline(t, nil)
	block := &changeBlock{
		removed: []lineRef{
			{text: "alpha = 1", index: 0},
			{text: "beta = 2", index: 1},
		},
		added: []lineRef{
			{text: "alpha = 9", index: 0},
			{text: "beta = 8", index: 1},
		},
	}
	entries := p.pairBlock(block)
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries))
	}
	if entries[0].OldIndex != 0 || entries[1].OldIndex != 1 {
		t.Errorf("in-block order broken: %d then %d", entries[0].OldIndex, entries[1].OldIndex)
	}
}
