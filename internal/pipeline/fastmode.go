package pipeline

// classifyFast is the degraded path: removed[i] pairs with added[i] by
// block offset alone, excess lines emit isolated entries, and sub-diffs
// come from a single direct edit-script call. Move detection and slider
// correction never run in fast mode.
func (p *Pipeline) classifyFast(segs []segment) []Entry {
	var entries []Entry
	for _, seg := range segs {
		if seg.block == nil {
			entries = append(entries, unchangedEntries(seg)...)
			continue
		}
		entries = append(entries, p.fastBlock(seg.block)...)
	}
	return entries
}

func (p *Pipeline) fastBlock(block *changeBlock) []Entry {
	m, n := len(block.removed), len(block.added)
	paired := minInt(m, n)

	entries := make([]Entry, 0, m+n-paired)
	for i := 0; i < paired; i++ {
		entry := Entry{
			Kind:     KindModified,
			OldIndex: block.removed[i].index,
			NewIndex: block.added[i].index,
			Removed:  block.removed[i].text,
			Added:    block.added[i].text,
		}
		entry.WordDiff, entry.CharDiff = p.differ.Direct(
			entry.Removed, entry.Added, p.modes.Words, p.modes.Chars)
		entries = append(entries, entry)
	}
	for i := paired; i < m; i++ {
		entries = append(entries, Entry{
			Kind:     KindRemoved,
			Value:    block.removed[i].text,
			OldIndex: block.removed[i].index,
			NewIndex: -1,
		})
	}
	for j := paired; j < n; j++ {
		entries = append(entries, Entry{
			Kind:     KindAdded,
			Value:    block.added[j].text,
			OldIndex: -1,
			NewIndex: block.added[j].index,
		})
	}
	return entries
}

// exceedsGraphLimit reports whether any block's pairing matrix would be
// larger than the configured vertex cap.
func exceedsGraphLimit(segs []segment, maxVertices int) bool {
	for _, seg := range segs {
		if seg.block == nil {
			continue
		}
		if len(seg.block.removed)*len(seg.block.added) > maxVertices {
			return true
		}
	}
	return false
}
