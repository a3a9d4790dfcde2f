package hashing

import "testing"

func TestHash_Deterministic(t *testing.T) {
	c := NewCache(false)
	h1 := c.Hash("let x = 1;")
	h2 := c.Hash("let x = 1;")
	if h1 != h2 {
		t.Errorf("same line hashed differently: %x vs %x", h1, h2)
	}
}

func TestHash_DistinctLines(t *testing.T) {
	c := NewCache(false)
	if c.Hash("let x = 1;") == c.Hash("let x = 2;") {
		t.Error("distinct lines produced equal hashes")
	}
}

func TestHash_Memoized(t *testing.T) {
	c := NewCache(false)
	c.Hash("a")
	c.Hash("b")
	c.Hash("a")
	if c.Len() != 2 {
		t.Errorf("cache size = %d, want 2", c.Len())
	}
}

func TestHash_Clear(t *testing.T) {
	c := NewCache(false)
	c.Hash("a")
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("cache size after clear = %d, want 0", c.Len())
	}
}

func TestHash_NormalizeDelimiters(t *testing.T) {
	plain := NewCache(false)
	norm := NewCache(true)

	if plain.Hash("f( a, b )") == plain.Hash("f(a, b)") {
		t.Error("plain cache should distinguish delimiter spacing")
	}
	if norm.Hash("f( a, b )") != norm.Hash("f(a, b)") {
		t.Error("normalizing cache should collapse delimiter spacing")
	}
	// Word-separating whitespace is still significant.
	if norm.Hash("return x") == norm.Hash("returnx") {
		t.Error("normalizing cache must not strip non-delimiter spacing")
	}
}

func TestHash_EmptyLine(t *testing.T) {
	c := NewCache(false)
	h := c.Hash("")
	if h != c.Hash("") {
		t.Error("empty line hash not stable")
	}
}
