package pipeline

import (
	"strings"
)

// correctSliders realigns ambiguous modified pairs against their unchanged
// neighbors. A pair is a slider candidate when reassigning it one position
// left or right would score nearly as well as the current alignment; the
// winning position is then picked by contextual scoring (indentation,
// brace balance, delimiter alignment) under language-specific weights, and
// applied only above the correction confidence threshold.
//
// Each position is scored against its anchor: the line that would follow
// the edited line in that arrangement (the preceding line at a boundary).
// A correction swaps adjacent entries only, never crosses a changed entry,
// and commits only when the interchanged old-side texts are byte-equal:
// the one case where a slide is observable without disturbing content
// reconstruction. One pass; corrected pairs are not re-scored.
func (p *Pipeline) correctSliders(entries []Entry) []Entry {
	weights := p.cfg.Weights(p.language)

	for k := range entries {
		if entries[k].Kind != KindModified || entries[k].SliderCorrected {
			continue
		}

		left := neighborUnchanged(entries, k, -1)
		right := neighborUnchanged(entries, k, +1)
		if left == nil && right == nil {
			continue
		}

		s0 := entries[k].Similarity
		sLeft, sRight := -1.0, -1.0
		if left != nil {
			sLeft = p.kernel.Similarity(left.Value, entries[k].Added)
		}
		if right != nil {
			sRight = p.kernel.Similarity(right.Value, entries[k].Added)
		}

		best := sLeft
		if sRight > best {
			best = sRight
		}
		if best-s0 >= p.cfg.AmbiguityThreshold || best < p.cfg.ModifiedThreshold {
			continue
		}

		edited := entries[k].Added
		scores := [3]float64{-1, -1, -1}
		scores[1] = contextScore(edited, anchorAt(entries, k, 1), weights)
		if left != nil {
			// After a left swap the displaced neighbor follows the edit.
			scores[0] = contextScore(edited, left.Value, weights)
		}
		if right != nil {
			anchor := right.Value
			if k+2 < len(entries) {
				anchor = anchorText(&entries[k+2])
			}
			scores[2] = contextScore(edited, anchor, weights)
		}

		bestPos, bestScore, secondScore := rankPositions(scores)
		if bestPos == 1 || bestScore <= 0 {
			continue
		}
		confidence := (bestScore - secondScore) / bestScore
		if confidence < p.cfg.CorrectionThreshold {
			continue
		}

		switch bestPos {
		case 0:
			if entries[k].Removed == left.Value {
				swapSlider(entries, k, k-1)
			}
		case 2:
			if entries[k].Removed == right.Value {
				swapSlider(entries, k, k+1)
			}
		}
	}
	return entries
}

// neighborUnchanged returns the adjacent entry in direction d when it is
// unchanged, else nil. A changed neighbor blocks sliding that way.
func neighborUnchanged(entries []Entry, k, d int) *Entry {
	idx := k + d
	if idx < 0 || idx >= len(entries) {
		return nil
	}
	if entries[idx].Kind != KindUnchanged {
		return nil
	}
	return &entries[idx]
}

// anchorAt picks the anchor text for the slot at index k: the following
// entry's line, or the preceding one at the array edge.
func anchorAt(entries []Entry, k, skip int) string {
	if k+skip < len(entries) {
		return anchorText(&entries[k+skip])
	}
	if k-1 >= 0 {
		return anchorText(&entries[k-1])
	}
	return ""
}

func anchorText(e *Entry) string {
	switch e.Kind {
	case KindModified, KindMoved, KindMovedModified:
		return e.Added
	}
	return e.Value
}

// swapSlider exchanges the modified pair at k with the unchanged neighbor
// at n. The two old-side texts are byte-equal, so only the old-side
// assignments and list positions change.
func swapSlider(entries []Entry, k, n int) {
	entries[k].OldIndex, entries[n].OldIndex = entries[n].OldIndex, entries[k].OldIndex
	entries[k].SliderCorrected = true
	entries[k], entries[n] = entries[n], entries[k]
}

// rankPositions returns the index of the best score plus the best and
// second-best values. Ties prefer the current position (index 1).
func rankPositions(scores [3]float64) (bestPos int, best, second float64) {
	order := [3]int{1, 0, 2}
	bestPos, best, second = 1, scores[1], -1
	for _, i := range order {
		if scores[i] > best {
			second = best
			bestPos, best = i, scores[i]
		} else if i != bestPos && scores[i] > second {
			second = scores[i]
		}
	}
	return bestPos, best, second
}

// contextScore rates how well the edited line sits against its anchor,
// weighting indentation agreement, bracket balance and trailing delimiter
// agreement.
func contextScore(edited, anchor string, w SliderWeights) float64 {
	total := w.Indent + w.Brace + w.Delimiter
	if total <= 0 || anchor == "" {
		return 0
	}
	score := w.Indent * indentScore(edited, anchor)
	score += w.Brace * braceScore(edited, anchor)
	score += w.Delimiter * delimiterScore(edited, anchor)
	return score / total
}

func indentScore(a, b string) float64 {
	diff := absInt(indentDepth(a) - indentDepth(b))
	return 1.0 / float64(1+diff)
}

func indentDepth(s string) int {
	depth := 0
	for _, r := range s {
		switch r {
		case ' ':
			depth++
		case '\t':
			depth += 4
		default:
			return depth
		}
	}
	return depth
}

// braceScore rewards bracket deltas that cancel against the anchor, so a
// closing line prefers to sit under the line it closes.
func braceScore(a, b string) float64 {
	diff := absInt(bracketDelta(a) + bracketDelta(b))
	return 1.0 / float64(1+diff)
}

func bracketDelta(s string) int {
	delta := 0
	for _, r := range s {
		switch r {
		case '{', '(', '[':
			delta++
		case '}', ')', ']':
			delta--
		}
	}
	return delta
}

// delimiterScore checks trailing delimiter agreement (comma, colon,
// semicolon, opening bracket).
func delimiterScore(a, b string) float64 {
	if trailingDelimiter(a) == trailingDelimiter(b) {
		return 1
	}
	return 0
}

func trailingDelimiter(s string) byte {
	t := strings.TrimRight(s, " \t")
	if t == "" {
		return 0
	}
	switch c := t[len(t)-1]; c {
	case ',', ':', ';', '{', '(', '[':
		return c
	}
	return 0
}

// sliderCount tallies corrected entries for stats.
func sliderCount(entries []Entry) int {
	n := 0
	for i := range entries {
		if entries[i].SliderCorrected {
			n++
		}
	}
	return n
}
