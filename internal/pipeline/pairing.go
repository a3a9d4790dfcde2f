package pipeline

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// matrix is a dense |removed| x |added| similarity matrix for one block.
type matrix struct {
	rows, cols int
	cells      []float64
}

func (m *matrix) at(i, j int) float64 {
	return m.cells[i*m.cols+j]
}

// buildMatrix fills the block's similarity matrix, one goroutine per row
// with at most NumCPU rows in flight. The kernel memoizes hashes and signatures, so rows are warmed
// up front to keep the parallel phase read-only on the caches.
func (p *Pipeline) buildMatrix(block *changeBlock) *matrix {
	m := &matrix{
		rows:  len(block.removed),
		cols:  len(block.added),
		cells: make([]float64, len(block.removed)*len(block.added)),
	}

	for _, ref := range block.removed {
		p.cache.Hash(ref.text)
		p.kernel.Signature(ref.text)
	}
	for _, ref := range block.added {
		p.cache.Hash(ref.text)
		p.kernel.Signature(ref.text)
	}

	workers := runtime.NumCPU()
	if workers > m.rows {
		workers = m.rows
	}
	if workers <= 1 || m.rows*m.cols < 256 {
		for i := 0; i < m.rows; i++ {
			p.fillRow(m, block, i)
		}
		return m
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < m.rows; i++ {
		i := i
		g.Go(func() error {
			p.fillRow(m, block, i)
			return nil
		})
	}
	_ = g.Wait()
	return m
}

func (p *Pipeline) fillRow(m *matrix, block *changeBlock, i int) {
	for j := 0; j < m.cols; j++ {
		m.cells[i*m.cols+j] = p.kernel.Similarity(block.removed[i].text, block.added[j].text)
	}
}

// pairing assigns removed row i to added column j.
type pairing struct {
	i, j int
	sim  float64
}

// pairBlock classifies one change block: a greedy descent over the
// similarity matrix pairs rows and columns at or above the modified
// threshold, ties broken by diagonal preference (smaller |i-j|), then
// smaller i, then smaller j. Unpaired rows and columns emit isolated
// removed/added entries; in-block order is preserved.
func (p *Pipeline) pairBlock(block *changeBlock) []Entry {
	m := len(block.removed)
	n := len(block.added)
	if m == 0 && n == 0 {
		return nil
	}
	if m == 0 || n == 0 {
		return isolatedEntries(block)
	}

	mat := p.buildMatrix(block)
	pairs := greedyPairs(mat, p.cfg.ModifiedThreshold)

	return p.emitBlock(block, pairs)
}

// greedyPairs repeatedly takes the globally largest cell meeting the
// threshold and strikes its row and column.
func greedyPairs(m *matrix, threshold float64) []pairing {
	var candidates []pairing
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if sim := m.at(i, j); sim >= threshold {
				candidates = append(candidates, pairing{i: i, j: j, sim: sim})
			}
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.sim != cb.sim {
			return ca.sim > cb.sim
		}
		da, db := absInt(ca.i-ca.j), absInt(cb.i-cb.j)
		if da != db {
			return da < db
		}
		if ca.i != cb.i {
			return ca.i < cb.i
		}
		return ca.j < cb.j
	})

	usedRow := make([]bool, m.rows)
	usedCol := make([]bool, m.cols)
	var pairs []pairing
	for _, c := range candidates {
		if usedRow[c.i] || usedCol[c.j] {
			continue
		}
		usedRow[c.i] = true
		usedCol[c.j] = true
		pairs = append(pairs, c)
	}
	return pairs
}

// emitBlock renders pairings into entries: removed-side order first for
// paired and isolated removed lines, then any unpaired added lines in
// their own order. A pair whose texts are byte-identical is emitted as
// unchanged; every other pair is modified.
func (p *Pipeline) emitBlock(block *changeBlock, pairs []pairing) []Entry {
	byRow := make(map[int]pairing, len(pairs))
	pairedCol := make(map[int]bool, len(pairs))
	for _, pr := range pairs {
		byRow[pr.i] = pr
		pairedCol[pr.j] = true
	}

	entries := make([]Entry, 0, len(block.removed)+len(block.added))
	for i, ref := range block.removed {
		pr, ok := byRow[i]
		if !ok {
			entries = append(entries, Entry{
				Kind:     KindRemoved,
				Value:    ref.text,
				OldIndex: ref.index,
				NewIndex: -1,
			})
			continue
		}
		added := block.added[pr.j]
		if ref.text == added.text {
			// A byte-identical pair is the same line on both sides; the line
			// differ splits such lines when only one copy ends in a newline.
			entries = append(entries, Entry{
				Kind:     KindUnchanged,
				Value:    ref.text,
				OldIndex: ref.index,
				NewIndex: added.index,
			})
			continue
		}
		entry := Entry{
			Kind:       KindModified,
			OldIndex:   ref.index,
			NewIndex:   added.index,
			Removed:    ref.text,
			Added:      added.text,
			Similarity: pr.sim,
		}
		entry.WordDiff, entry.CharDiff = p.differ.Nested(
			ref.text, added.text, p.language, p.modes.Words, p.modes.Chars)
		entries = append(entries, entry)
	}
	for j, ref := range block.added {
		if pairedCol[j] {
			continue
		}
		entries = append(entries, Entry{
			Kind:     KindAdded,
			Value:    ref.text,
			OldIndex: -1,
			NewIndex: ref.index,
		})
	}
	return entries
}

// isolatedEntries emits a one-sided block: every line stands alone.
func isolatedEntries(block *changeBlock) []Entry {
	entries := make([]Entry, 0, len(block.removed)+len(block.added))
	for _, ref := range block.removed {
		entries = append(entries, Entry{Kind: KindRemoved, Value: ref.text, OldIndex: ref.index, NewIndex: -1})
	}
	for _, ref := range block.added {
		entries = append(entries, Entry{Kind: KindAdded, Value: ref.text, OldIndex: -1, NewIndex: ref.index})
	}
	return entries
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
