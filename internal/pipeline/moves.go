package pipeline

import (
	"math/bits"
	"sort"

	"github.com/google/uuid"

	"github.com/jasontally/semdiff/internal/hashing"
)

// moveLine is one isolated removed or added line eligible for move
// detection, with its position in the entries slice.
type moveLine struct {
	entryIdx int
	text     string
	sideIdx  int
}

// window is a contiguous run of move lines on one side.
type window struct {
	start int // index into the side's moveLine slice
	size  int
	sig   uint32
}

// moveCandidate pairs a removed window with an added window of equal size.
type moveCandidate struct {
	removed window
	added   window
	score   float64
}

const (
	minMoveWindow = 3
	maxMoveWindow = 10
)

// detectMoves finds contiguous runs of isolated removed lines that
// reappear as added lines elsewhere and reclassifies them as moves.
// Candidate discovery is LSH over rolling windows of line signatures;
// committed cores are then extended forward while the next line pair still
// clears the move threshold. Already-paired (modified) entries are left
// alone: the pairing engine claimed those lines first.
func (p *Pipeline) detectMoves(entries []Entry) []Entry {
	removed, added := moveLines(entries)
	if len(removed) == 0 || len(added) == 0 {
		return entries
	}
	if len(removed)+len(added) < p.cfg.MinLinesForMoveDetection {
		return entries
	}
	if p.totalLines > p.cfg.MaxLinesForMoveDetection {
		return entries
	}

	candidates := p.moveCandidates(removed, added)

	// Longest first, then best score, then earliest positions, so the
	// greedy commit below is deterministic.
	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.removed.size != cb.removed.size {
			return ca.removed.size > cb.removed.size
		}
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		if ca.removed.start != cb.removed.start {
			return ca.removed.start < cb.removed.start
		}
		return ca.added.start < cb.added.start
	})

	claimedRemoved := make([]bool, len(removed))
	claimedAdded := make([]bool, len(added))

	for _, cand := range candidates {
		if anyClaimed(claimedRemoved, cand.removed.start, cand.removed.size) ||
			anyClaimed(claimedAdded, cand.added.start, cand.added.size) {
			continue
		}

		ri, ai := cand.removed.start, cand.added.start
		size := cand.removed.size

		// Extend forward from the discovered core while the next pair
		// is contiguous on both sides, unclaimed, and still similar.
		for {
			nr, na := ri+size, ai+size
			if nr >= len(removed) || na >= len(added) {
				break
			}
			if claimedRemoved[nr] || claimedAdded[na] {
				break
			}
			if !contiguous(removed, nr) || !contiguous(added, na) {
				break
			}
			if p.kernel.Enhanced(removed[nr].text, added[na].text) < p.cfg.MoveThreshold {
				break
			}
			size++
		}

		p.commitMove(entries, removed[ri:ri+size], added[ai:ai+size])
		for k := 0; k < size; k++ {
			claimedRemoved[ri+k] = true
			claimedAdded[ai+k] = true
		}
	}

	return compactEntries(entries)
}

// moveLines collects isolated removed and added lines in entry order.
func moveLines(entries []Entry) (removed, added []moveLine) {
	for idx := range entries {
		switch entries[idx].Kind {
		case KindRemoved:
			removed = append(removed, moveLine{entryIdx: idx, text: entries[idx].Value, sideIdx: entries[idx].OldIndex})
		case KindAdded:
			added = append(added, moveLine{entryIdx: idx, text: entries[idx].Value, sideIdx: entries[idx].NewIndex})
		}
	}
	return removed, added
}

// moveCandidates runs LSH banding over every window size and returns the
// scored candidates at or above the move threshold.
func (p *Pipeline) moveCandidates(removed, added []moveLine) []moveCandidate {
	var candidates []moveCandidate
	seen := make(map[[4]int]bool)

	minW := minMoveWindow
	if shorter := minInt(len(removed), len(added)); shorter < minW {
		// Blocks shorter than the usual window still deserve detection;
		// degrade the window floor rather than miss a two-line move.
		minW = maxInt(2, shorter)
	}

	for w := minW; w <= maxMoveWindow; w++ {
		rw := windows(removed, w, p.kernel.Signature)
		aw := windows(added, w, p.kernel.Signature)
		if len(rw) == 0 || len(aw) == 0 {
			continue
		}

		buckets := make(map[uint64][]int)
		bandBits := 32 / p.cfg.LSHBands
		mask := uint32(1)<<bandBits - 1

		for i, win := range rw {
			for band := 0; band < p.cfg.LSHBands; band++ {
				key := bandKey(win.sig, band, bandBits, mask)
				buckets[key] = append(buckets[key], i)
			}
			// Second probe: any member line's signature. A modified move
			// perturbs the mixed window signature, but usually leaves
			// some line untouched to collide on.
			for k := 0; k < w; k++ {
				key := lineKey(p.kernel.Signature(removed[win.start+k].text))
				buckets[key] = append(buckets[key], i)
			}
		}

		for _, awin := range aw {
			probed := make(map[int]bool)
			keys := make([]uint64, 0, p.cfg.LSHBands+w)
			for band := 0; band < p.cfg.LSHBands; band++ {
				keys = append(keys, bandKey(awin.sig, band, bandBits, mask))
			}
			for k := 0; k < w; k++ {
				keys = append(keys, lineKey(p.kernel.Signature(added[awin.start+k].text)))
			}
			for _, key := range keys {
				for _, ri := range buckets[key] {
					if probed[ri] {
						continue
					}
					probed[ri] = true
					rwin := rw[ri]
					dedup := [4]int{rwin.start, awin.start, w, 0}
					if seen[dedup] {
						continue
					}
					seen[dedup] = true
					score := p.windowScore(removed[rwin.start:rwin.start+w], added[awin.start:awin.start+w])
					if score >= p.cfg.MoveThreshold {
						candidates = append(candidates, moveCandidate{removed: rwin, added: awin, score: score})
					}
				}
			}
		}
	}
	return candidates
}

// windows enumerates contiguous runs of size w. The window signature mixes
// member line signatures with a rotate-and-xor so order matters.
func windows(lines []moveLine, w int, sign func(string) hashing.Signature) []window {
	if len(lines) < w {
		return nil
	}
	var out []window
	for start := 0; start+w <= len(lines); start++ {
		run := true
		var sig uint32
		for k := 0; k < w; k++ {
			if k > 0 && !contiguous(lines, start+k) {
				run = false
				break
			}
			sig = bits.RotateLeft32(sig, 5) ^ uint32(sign(lines[start+k].text))
		}
		if run {
			out = append(out, window{start: start, size: w, sig: sig})
		}
	}
	return out
}

// contiguous reports whether lines[i] directly follows lines[i-1] in its
// side of the document.
func contiguous(lines []moveLine, i int) bool {
	return i > 0 && lines[i].sideIdx == lines[i-1].sideIdx+1
}

// windowScore is the mean Tier-2 similarity of the aligned line pairs.
func (p *Pipeline) windowScore(removed, added []moveLine) float64 {
	var sum float64
	for k := range removed {
		sum += p.kernel.Enhanced(removed[k].text, added[k].text)
	}
	return sum / float64(len(removed))
}

// commitMove rewrites the entries of one move group: each removed entry
// becomes the merged pair entry and its added partner is tombstoned. The
// group is pure when every pair is byte-identical.
func (p *Pipeline) commitMove(entries []Entry, removed, added []moveLine) {
	pure := true
	sims := make([]float64, len(removed))
	for k := range removed {
		if removed[k].text == added[k].text {
			sims[k] = 1.0
			continue
		}
		pure = false
		sims[k] = p.kernel.Similarity(removed[k].text, added[k].text)
	}

	kind := KindMoved
	if !pure {
		kind = KindMovedModified
	}
	moveID := uuid.NewString()

	for k := range removed {
		target := &entries[removed[k].entryIdx]
		partner := &entries[added[k].entryIdx]

		*target = Entry{
			Kind:       kind,
			OldIndex:   removed[k].sideIdx,
			NewIndex:   added[k].sideIdx,
			Removed:    removed[k].text,
			Added:      added[k].text,
			Similarity: sims[k],
			MoveID:     moveID,
		}
		if !pure && removed[k].text != added[k].text {
			target.WordDiff, target.CharDiff = p.differ.Nested(
				removed[k].text, added[k].text, p.language, p.modes.Words, p.modes.Chars)
		}
		partner.Kind = "" // tombstone; dropped by compactEntries
	}
}

func compactEntries(entries []Entry) []Entry {
	out := entries[:0]
	for i := range entries {
		if entries[i].Kind != "" {
			out = append(out, entries[i])
		}
	}
	return out
}

func bandKey(sig uint32, band, bandBits int, mask uint32) uint64 {
	return uint64(band)<<32 | uint64((sig>>(band*bandBits))&mask)
}

// lineKey namespaces member-line signature buckets away from band buckets.
func lineKey(sig hashing.Signature) uint64 {
	return 1<<40 | uint64(sig)
}

func anyClaimed(claimed []bool, start, size int) bool {
	for k := start; k < start+size; k++ {
		if claimed[k] {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
