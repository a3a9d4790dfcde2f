package similarity

import (
	"testing"

	"github.com/jasontally/semdiff/internal/hashing"
)

func newTestKernel(t *testing.T) *Kernel {
	t.Helper()
	return NewKernel(hashing.NewCache(false), Options{FastThreshold: 0.30})
}

func TestSimilarity_Reflexive(t *testing.T) {
	k := newTestKernel(t)
	for _, line := range []string{"", "x", "def run(self):", "   \t "} {
		if sim := k.Similarity(line, line); sim != 1.0 {
			t.Errorf("Similarity(%q, %q) = %v, want 1.0", line, line, sim)
		}
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	k := newTestKernel(t)
	pairs := [][2]string{
		{"x = 1", "x = 2"},
		{"return foo(bar)", "return foo(baz, qux)"},
		{"", "nonempty"},
	}
	for _, p := range pairs {
		ab := k.Similarity(p[0], p[1])
		ba := k.Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	k := newTestKernel(t)
	pairs := [][2]string{
		{"a", "b"},
		{"", "x"},
		{"one two three", "four five six"},
		{"{{{{", "}}}}"},
	}
	for _, p := range pairs {
		if sim := k.Similarity(p[0], p[1]); sim < 0 || sim > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], sim)
		}
	}
}

func TestSimilarity_SmallEdit(t *testing.T) {
	k := newTestKernel(t)
	if sim := k.Similarity("x=1", "x=5"); sim < 0.60 {
		t.Errorf("Similarity(x=1, x=5) = %v, want >= 0.60", sim)
	}
}

func TestSimilarity_SignatureArgumentAdded(t *testing.T) {
	k := newTestKernel(t)
	sim := k.Similarity("def process_data(data):", "def process_data(data, factor=1.5):")
	if sim < 0.60 {
		t.Errorf("signature change similarity = %v, want >= 0.60", sim)
	}
}

func TestSimilarity_UnrelatedLinesScoreLow(t *testing.T) {
	k := newTestKernel(t)
	sim := k.Similarity("import os", "while queue.pending > threshold:")
	if sim >= 0.60 {
		t.Errorf("unrelated lines similarity = %v, want < 0.60", sim)
	}
}

func TestEnhanced_OrdersBySimilarity(t *testing.T) {
	k := newTestKernel(t)
	base := "result = compute(a, b)"
	nearScore := k.Enhanced(base, "result = compute(a, c)")
	farScore := k.Enhanced(base, "log.Println(err)")
	if nearScore <= farScore {
		t.Errorf("near = %v should beat far = %v", nearScore, farScore)
	}
}

func TestSimilarity_ASTTierCanRaiseScore(t *testing.T) {
	parse := func(line string) (*Node, bool) {
		// Every line parses to the same shape.
		return &Node{Type: "stmt", Children: []*Node{{Type: "expr"}}}, true
	}
	k := NewKernel(hashing.NewCache(false), Options{
		FastThreshold: 0, // disable the prefilter so Tier 3 always runs
		EnableAST:     true,
		ASTWeight:     0.9,
		Parse:         parse,
	})
	// Token-wise these share almost nothing, but the trees match exactly.
	sim := k.Similarity("alpha()", "omega()")
	if sim < 0.85 {
		t.Errorf("structural similarity = %v, want >= 0.85 from the AST tier", sim)
	}
}

func TestWeightedLCS_PrefersLongTokenMatches(t *testing.T) {
	a := tokenize("process_data(x)")
	b := tokenize("process_data(y)")
	c := tokenize("x + y + z")
	if weightedLCS(a, b) <= weightedLCS(a, c) {
		t.Errorf("shared identifier should dominate: %v vs %v",
			weightedLCS(a, b), weightedLCS(a, c))
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("def f(a, b):")
	want := []string{"def", "f", "(", "a", ",", "b", ")", ":"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokenize = %v, want %v", got, want)
		}
	}
}
