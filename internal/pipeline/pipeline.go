// Package pipeline classifies a raw line-level edit script into a
// semantically rich diff: modified pairs scored by a multi-tier similarity
// kernel, block moves found by LSH over line signatures, slider
// realignment against indentation and delimiter context, and nested
// word/character sub-diffs on every modified pair.
package pipeline

import (
	"fmt"

	"github.com/jasontally/semdiff/internal/hashing"
	"github.com/jasontally/semdiff/internal/regions"
	"github.com/jasontally/semdiff/internal/similarity"
	"github.com/jasontally/semdiff/internal/textdiff"
)

// Primitives are the external edit-script producers the pipeline consumes.
// Lines is required; Words and Chars are required when the corresponding
// mode toggle is on; Parse is optional and enables the structural tier.
type Primitives struct {
	Lines func(old, new string) []textdiff.Entry
	Words func(a, b string) []textdiff.Segment
	Chars func(a, b string) []textdiff.Segment
	Parse similarity.ParseFunc
}

// ModeToggles select which sub-diff levels are produced.
type ModeToggles struct {
	Lines bool
	Words bool
	Chars bool
}

// Options adjust one invocation.
type Options struct {
	Config     *Config
	Modes      ModeToggles
	Language   string
	OnProgress func(stage string)
	Cancel     *CancelFlag
	Trace      func(stage string, data any)
}

// Pipeline is the per-invocation state: configuration, the content-hash
// cache, the similarity kernel and the nested differ. Nothing survives
// Run; the cache is cleared at finalize.
type Pipeline struct {
	cfg      Config
	modes    ModeToggles
	language string

	cache  *hashing.Cache
	kernel *similarity.Kernel
	differ regions.Differ

	prims      Primitives
	onProgress func(stage string)
	cancel     *CancelFlag
	trace      func(stage string, data any)

	totalLines int
}

// Run executes the full pipeline: line diff, change-block classification,
// move detection, slider correction, finalize. It validates inputs up
// front, degrades primitive panics to an all-removed/all-added result, and
// refuses to emit a result that fails content reconstruction. A cancelled
// result is partial and is returned without that check.
func Run(oldText, newText string, prims Primitives, opts Options) (*Result, error) {
	p, err := newPipeline(prims, opts)
	if err != nil {
		return nil, err
	}

	result := p.run(oldText, newText)

	if !result.Cancelled {
		if err := verifyReconstruction(result.Results, oldText, newText); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// newPipeline validates the invocation and assembles per-invocation state.
func newPipeline(prims Primitives, opts Options) (*Pipeline, error) {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if prims.Lines == nil {
		return nil, &InputInvalidError{Field: "primitives.Lines", Reason: "missing"}
	}
	if opts.Modes.Words && prims.Words == nil {
		return nil, &InputInvalidError{Field: "primitives.Words", Reason: "missing"}
	}
	if opts.Modes.Chars && prims.Chars == nil {
		return nil, &InputInvalidError{Field: "primitives.Chars", Reason: "missing"}
	}

	p := &Pipeline{
		cfg:        cfg,
		modes:      opts.Modes,
		language:   opts.Language,
		cache:      hashing.NewCache(cfg.NormalizeDelimiters),
		prims:      prims,
		onProgress: opts.OnProgress,
		cancel:     opts.Cancel,
		trace:      opts.Trace,
	}
	p.kernel = similarity.NewKernel(p.cache, similarity.Options{
		FastThreshold: cfg.FastThreshold,
		EnableAST:     cfg.EnableAST,
		Parse:         prims.Parse,
	})
	p.differ = regions.Differ{Words: prims.Words, Chars: prims.Chars}
	if p.differ.Words == nil {
		p.differ.Words = func(a, b string) []textdiff.Segment { return nil }
	}
	if p.differ.Chars == nil {
		p.differ.Chars = func(a, b string) []textdiff.Segment { return nil }
	}
	return p, nil
}

func (p *Pipeline) run(oldText, newText string) *Result {
	result := &Result{Language: p.language}

	// The cache is scoped to this invocation; drop it before returning so
	// no content outlives the call.
	defer p.cache.Clear()

	// line_diff: the external primitive is the one fatal dependency;
	// a panic degrades to treating every line as removed+added.
	p.progress("line_diff")
	script, primErr := p.safeLines(oldText, newText)
	if primErr {
		result.Limit = LimitInfo{Exceeded: true, FastMode: true, Reason: ReasonPrimitiveFailure}
		result.Results = allChangedEntries(oldText, newText)
		result.Stats = tally(result.Results)
		return result
	}
	p.tracef("line_diff", len(script))

	oldLines := splitLines(oldText)
	newLines := splitLines(newText)
	p.totalLines = len(oldLines) + len(newLines)

	if p.cancel.cancelled() {
		result.Cancelled = true
		return result
	}

	segs := segments(script)

	// classify: full pairing, or index pairing under fast mode.
	fastReason := ReasonNone
	if p.totalLines > p.cfg.MaxLines {
		fastReason = ReasonLineCount
	} else if exceedsGraphLimit(segs, p.cfg.MaxGraphVertices) {
		fastReason = ReasonGraphSize
	}

	if fastReason != ReasonNone {
		result.Limit = LimitInfo{Exceeded: true, FastMode: p.cfg.EnableFastMode, Reason: fastReason}
	}

	p.progress("classify")
	var entries []Entry
	if fastReason != ReasonNone && p.cfg.EnableFastMode {
		entries = p.classifyFast(segs)
		result.Results = entries
		result.Stats = tally(entries)
		return result
	}

	for _, seg := range segs {
		if seg.block == nil {
			entries = append(entries, unchangedEntries(seg)...)
			continue
		}
		entries = append(entries, p.pairBlock(seg.block)...)
		if p.cancel.cancelled() {
			result.Cancelled = true
			result.Results = entries
			result.Stats = tally(entries)
			return result
		}
	}
	p.tracef("classify", len(entries))

	// move_detect
	p.progress("move_detect")
	entries = p.detectMoves(entries)
	if p.cancel.cancelled() {
		result.Cancelled = true
		result.Results = entries
		result.Stats = tally(entries)
		return result
	}

	// slider_correct
	if p.cfg.CorrectSliders {
		p.progress("slider_correct")
		entries = p.correctSliders(entries)
	}

	// finalize
	p.progress("finalize")
	result.Results = entries
	result.Stats = tally(entries)
	result.Stats.SliderCorrections = sliderCount(entries)
	return result
}

// safeLines invokes the line primitive, converting a panic into the
// primitive-failure degradation.
func (p *Pipeline) safeLines(oldText, newText string) (script []textdiff.Entry, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			p.tracef("primitive_failure", fmt.Sprint(r))
			failed = true
		}
	}()
	return p.prims.Lines(oldText, newText), false
}

// allChangedEntries is the primitive-failure fallback: every old line
// removed, every new line added.
func allChangedEntries(oldText, newText string) []Entry {
	var entries []Entry
	for i, line := range splitLines(oldText) {
		entries = append(entries, Entry{Kind: KindRemoved, Value: line, OldIndex: i, NewIndex: -1})
	}
	for j, line := range splitLines(newText) {
		entries = append(entries, Entry{Kind: KindAdded, Value: line, OldIndex: -1, NewIndex: j})
	}
	return entries
}

func tally(entries []Entry) Stats {
	var s Stats
	for i := range entries {
		switch entries[i].Kind {
		case KindAdded:
			s.Added++
		case KindRemoved:
			s.Removed++
		case KindModified:
			s.Modified++
		case KindMoved, KindMovedModified:
			s.Moved++
		case KindUnchanged:
			s.Unchanged++
		}
	}
	return s
}

// verifyReconstruction enforces the content-preservation invariant: the
// old-side lines of all entries, ordered by OldIndex, must equal the old
// input's lines, and likewise for the new side.
func verifyReconstruction(entries []Entry, oldText, newText string) error {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	gotOld := make([]string, len(oldLines))
	gotNew := make([]string, len(newLines))
	seenOld := make([]bool, len(oldLines))
	seenNew := make([]bool, len(newLines))

	for i := range entries {
		if text, ok := entries[i].oldText(); ok {
			idx := entries[i].OldIndex
			if idx < 0 || idx >= len(oldLines) || seenOld[idx] {
				return fmt.Errorf("internal: old-side row %d invalid or duplicated", idx)
			}
			gotOld[idx] = text
			seenOld[idx] = true
		}
		if text, ok := entries[i].newText(); ok {
			idx := entries[i].NewIndex
			if idx < 0 || idx >= len(newLines) || seenNew[idx] {
				return fmt.Errorf("internal: new-side row %d invalid or duplicated", idx)
			}
			gotNew[idx] = text
			seenNew[idx] = true
		}
	}
	for i := range oldLines {
		if !seenOld[i] || gotOld[i] != oldLines[i] {
			return fmt.Errorf("internal: old-side content not preserved at row %d", i)
		}
	}
	for i := range newLines {
		if !seenNew[i] || gotNew[i] != newLines[i] {
			return fmt.Errorf("internal: new-side content not preserved at row %d", i)
		}
	}
	return nil
}

func (p *Pipeline) progress(stage string) {
	if p.onProgress != nil {
		p.onProgress(stage)
	}
}

func (p *Pipeline) tracef(stage string, data any) {
	if p.trace != nil {
		p.trace(stage, data)
	}
}
