package hashing

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Cache memoizes 64-bit content hashes for the duration of one pipeline
// invocation. It is owned by the orchestrator and cleared at finalize;
// nothing is shared across invocations.
type Cache struct {
	hashes          map[string]uint64
	normalizeDelims bool
}

// NewCache creates an empty hash cache. When normalizeDelims is set,
// insignificant whitespace around delimiter runs is stripped before hashing,
// so "f( a, b )" and "f(a, b)" hash equal.
func NewCache(normalizeDelims bool) *Cache {
	return &Cache{
		hashes:          make(map[string]uint64),
		normalizeDelims: normalizeDelims,
	}
}

// Hash returns the 64-bit content hash of a line, memoized by line content.
// Equal hashes mean "treat as identical", but callers confirm with byte
// equality before committing to pure-move status.
func (c *Cache) Hash(line string) uint64 {
	if h, ok := c.hashes[line]; ok {
		return h
	}
	input := line
	if c.normalizeDelims {
		input = normalizeDelimiters(line)
	}
	h := xxhash.Sum64String(input)
	c.hashes[line] = h
	return h
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return len(c.hashes)
}

// Clear drops every cached hash. Called by the orchestrator at finalize.
func (c *Cache) Clear() {
	c.hashes = make(map[string]uint64)
}

// normalizeDelimiters removes whitespace adjacent to delimiter characters so
// spacing-only differences inside argument lists or index expressions do not
// break hash equality.
func normalizeDelimiters(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	runes := []rune(line)
	for i, r := range runes {
		if r == ' ' || r == '\t' {
			prev := byte(0)
			if i > 0 {
				prev = byteAt(runes, i-1)
			}
			next := byte(0)
			if i+1 < len(runes) {
				next = byteAt(runes, i+1)
			}
			if isDelimiter(prev) || isDelimiter(next) {
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func byteAt(runes []rune, i int) byte {
	r := runes[i]
	if r > 127 {
		return 0
	}
	return byte(r)
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}', ',', ';', ':':
		return true
	}
	return false
}
