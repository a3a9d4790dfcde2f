// Package similarity scores pairs of lines on a four-tier pipeline: hash
// equality, signature prefilter, token+word LCS, and optional structural
// comparison. Scores are always in [0, 1].
package similarity

import (
	"math"

	"github.com/jasontally/semdiff/internal/hashing"
)

// ParseFunc produces a structural signature for a line, or reports that no
// parser is available for the pipeline's language.
type ParseFunc func(line string) (*Node, bool)

// Options configures a Kernel.
type Options struct {
	// FastThreshold is the signature prefilter cutoff. Pairs whose
	// signature similarity falls below it short-circuit with that value.
	FastThreshold float64

	// EnableAST turns on the structural tier when Parse is set.
	EnableAST bool

	// ASTWeight scales the structural tier before it competes with the
	// enhanced tier.
	ASTWeight float64

	// Parse supplies structural signatures. Nil disables the tier.
	Parse ParseFunc
}

// Kernel scores line pairs. It owns a per-invocation signature memo and
// shares the orchestrator's content-hash cache; neither survives the
// invocation.
type Kernel struct {
	cache      *hashing.Cache
	signatures map[string]hashing.Signature
	opts       Options
}

// NewKernel creates a kernel bound to the invocation's hash cache.
func NewKernel(cache *hashing.Cache, opts Options) *Kernel {
	if opts.ASTWeight <= 0 {
		opts.ASTWeight = 0.9
	}
	return &Kernel{
		cache:      cache,
		signatures: make(map[string]hashing.Signature),
		opts:       opts,
	}
}

// Similarity returns the four-tier similarity of a and b in [0, 1].
// It is symmetric, returns exactly 1.0 for identical lines, and degrades
// internal errors to 0 rather than panicking.
func (k *Kernel) Similarity(a, b string) (score float64) {
	defer func() {
		if recover() != nil {
			score = 0
		}
	}()

	// Tier 0: hash equality, confirmed byte-for-byte.
	if k.cache.Hash(a) == k.cache.Hash(b) && a == b {
		return 1.0
	}

	// Tier 1: signature prefilter.
	sig := k.Signature(a).Similarity(k.Signature(b))
	if sig < k.opts.FastThreshold {
		return clamp(sig)
	}

	// Tier 2: enhanced token+word similarity.
	score = k.Enhanced(a, b)

	// Tier 3: structural comparison, when a parser is wired.
	if k.opts.EnableAST && k.opts.Parse != nil {
		if na, ok := k.opts.Parse(a); ok {
			if nb, ok := k.opts.Parse(b); ok {
				// Greedy ordered child matching depends on which tree
				// leads; taking the better direction keeps the score
				// symmetric.
				t3 := CompareNodes(na, nb)
				if r := CompareNodes(nb, na); r > t3 {
					t3 = r
				}
				if t3 *= k.opts.ASTWeight; t3 > score {
					score = t3
				}
			}
		}
	}
	return clamp(score)
}

// Enhanced is the Tier-2 score alone: 0.7 token-LCS + 0.3 word-LCS, both
// normalized by the longer side. Move scoring uses it directly.
func (k *Kernel) Enhanced(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	wa, wb := words(a), words(b)

	var tokenSim float64
	if len(ta) == 0 && len(tb) == 0 {
		tokenSim = 1
	} else {
		tokenSim = weightedLCS(ta, tb)
	}

	var wordSim float64
	if len(wa) == 0 && len(wb) == 0 {
		wordSim = 1
	} else if len(wa) > 0 && len(wb) > 0 {
		wordSim = fuzzyLCS(wa, wb) / float64(maxInt(len(wa), len(wb)))
	}

	return clamp(0.7*tokenSim + 0.3*wordSim)
}

// Signature returns the memoized 32-bit signature of a line.
func (k *Kernel) Signature(line string) hashing.Signature {
	if s, ok := k.signatures[line]; ok {
		return s
	}
	s := hashing.Sign(line)
	k.signatures[line] = s
	return s
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
