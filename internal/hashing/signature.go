package hashing

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// Signature is a 32-bit SimHash-style fingerprint of a line's weighted
// tokens. Hamming distance between signatures approximates line similarity
// and serves as the cheap prefilter ahead of the expensive tiers.
type Signature uint32

// Sign computes the signature of a line. Tokens are runs of alphanumerics
// and underscores; each distinct token contributes its 32 folded hash bits
// weighted by occurrence count times token length.
func Sign(line string) Signature {
	counts := tokenCounts(line)
	if len(counts) == 0 {
		return 0
	}

	var acc [32]int
	for tok, n := range counts {
		h := xxhash.Sum64String(tok)
		folded := uint32(h) ^ uint32(h>>32)
		weight := n * len(tok)
		for bit := 0; bit < 32; bit++ {
			if folded&(1<<bit) != 0 {
				acc[bit] += weight
			} else {
				acc[bit] -= weight
			}
		}
	}

	var sig Signature
	for bit := 0; bit < 32; bit++ {
		if acc[bit] > 0 {
			sig |= 1 << bit
		}
	}
	return sig
}

// Similarity is 1 minus the normalized Hamming distance between two
// signatures, in [0, 1].
func (s Signature) Similarity(other Signature) float64 {
	return 1.0 - float64(bits.OnesCount32(uint32(s^other)))/32.0
}

// tokenCounts returns the occurrence count of each word-like atom in line.
func tokenCounts(line string) map[string]int {
	counts := make(map[string]int)
	start := -1
	for i, r := range line {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			counts[line[start:i]]++
			start = -1
		}
	}
	if start >= 0 {
		counts[line[start:]]++
	}
	return counts
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}
