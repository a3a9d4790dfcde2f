package pipeline

import (
	"sync/atomic"

	"github.com/jasontally/semdiff/internal/regions"
)

// Kind is the classification of one result entry.
type Kind string

const (
	KindUnchanged     Kind = "unchanged"
	KindAdded         Kind = "added"
	KindRemoved       Kind = "removed"
	KindModified      Kind = "modified"
	KindMoved         Kind = "moved"
	KindMovedModified Kind = "moved-modified"
)

// Entry is one classified line of the final result. Exactly one line per
// entry: unchanged entries carry the shared text in Value with both
// indices set; added/removed carry one side; the pair kinds carry both
// texts plus similarity and optional sub-diffs.
//
// OldIndex and NewIndex are 0-based row indices into the respective input;
// -1 marks an absent side. The concatenation of old-side texts ordered by
// OldIndex reproduces the old input, and likewise for the new side. The
// pipeline refuses to emit a non-cancelled result that violates this.
type Entry struct {
	Kind Kind `json:"kind"`

	Value    string `json:"value,omitempty"`
	OldIndex int    `json:"oldIndex"`
	NewIndex int    `json:"newIndex"`

	Removed    string  `json:"removed,omitempty"`
	Added      string  `json:"added,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`

	WordDiff []regions.Span `json:"wordDiff,omitempty"`
	CharDiff []regions.Span `json:"charDiff,omitempty"`

	MoveID          string `json:"moveId,omitempty"`
	SliderCorrected bool   `json:"sliderCorrected,omitempty"`
}

// oldText returns the line this entry contributes to the old side, with ok
// false when it contributes none.
func (e *Entry) oldText() (string, bool) {
	switch e.Kind {
	case KindUnchanged, KindRemoved:
		return e.Value, true
	case KindModified, KindMoved, KindMovedModified:
		return e.Removed, true
	}
	return "", false
}

// newText is the new-side counterpart of oldText.
func (e *Entry) newText() (string, bool) {
	switch e.Kind {
	case KindUnchanged, KindAdded:
		return e.Value, true
	case KindModified, KindMoved, KindMovedModified:
		return e.Added, true
	}
	return "", false
}

// Stats counts result entries by kind. Moved includes moved-modified.
type Stats struct {
	Added             int `json:"added"`
	Removed           int `json:"removed"`
	Modified          int `json:"modified"`
	Moved             int `json:"moved"`
	Unchanged         int `json:"unchanged"`
	SliderCorrections int `json:"sliderCorrections"`
}

// LimitReason names why a size limit engaged fast mode.
type LimitReason string

const (
	ReasonNone             LimitReason = ""
	ReasonLineCount        LimitReason = "line_count"
	ReasonGraphSize        LimitReason = "graph_size"
	ReasonPrimitiveFailure LimitReason = "primitive_failure"
)

// LimitInfo reports whether limits were exceeded and which degradation ran.
type LimitInfo struct {
	Exceeded bool        `json:"exceeded"`
	FastMode bool        `json:"fastMode"`
	Reason   LimitReason `json:"reason,omitempty"`
}

// Result is the output of one pipeline invocation.
type Result struct {
	Results   []Entry   `json:"results"`
	Stats     Stats     `json:"stats"`
	Limit     LimitInfo `json:"limitInfo"`
	Cancelled bool      `json:"cancelled,omitempty"`
	Language  string    `json:"language"`
}

// CancelFlag is a cooperative cancellation signal. The orchestrator checks
// it between stages; there is no mid-stage preemption.
type CancelFlag struct {
	set atomic.Bool
}

// Cancel requests cancellation.
func (c *CancelFlag) Cancel() {
	c.set.Store(true)
}

func (c *CancelFlag) cancelled() bool {
	return c != nil && c.set.Load()
}
