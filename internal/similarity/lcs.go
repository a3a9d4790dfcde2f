package similarity

import (
	"strings"

	"github.com/agext/levenshtein"
)

var levParams = levenshtein.NewParams()

// weightedLCS computes a longest-common-subsequence score over two token
// slices where each match contributes the token's length, so matching a
// long identifier counts for more than matching a lone symbol. The result
// is normalized against the larger side's total token length.
func weightedLCS(a, b []string) float64 {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return 0
	}
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + len(a[i-1])
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	longer := totalLen(a)
	if l := totalLen(b); l > longer {
		longer = l
	}
	if longer == 0 {
		return 0
	}
	return float64(dp[m][n]) / float64(longer)
}

func totalLen(tokens []string) int {
	sum := 0
	for _, t := range tokens {
		sum += len(t)
	}
	return sum
}

// fuzzyLCS is a weighted LCS over word slices: exact matches score 1, and
// near-equal words (Levenshtein similarity >= 0.5) contribute their
// similarity, so a renamed identifier still earns partial credit.
func fuzzyLCS(a, b []string) float64 {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return 0
	}
	dp := make([][]float64, m+1)
	for i := range dp {
		dp[i] = make([]float64, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			match := wordMatch(a[i-1], b[j-1])
			best := dp[i-1][j]
			if dp[i][j-1] > best {
				best = dp[i][j-1]
			}
			if match > 0 && dp[i-1][j-1]+match > best {
				best = dp[i-1][j-1] + match
			}
			dp[i][j] = best
		}
	}
	return dp[m][n]
}

func wordMatch(a, b string) float64 {
	if a == b {
		return 1
	}
	if sim := levenshtein.Similarity(a, b, levParams); sim >= 0.5 {
		return sim
	}
	return 0
}

// tokenize splits a line into word-like atoms (runs of alphanumerics and
// underscores) and single-character symbol atoms. Whitespace separates.
func tokenize(line string) []string {
	var tokens []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, line[start:end])
			start = -1
		}
	}
	for i, r := range line {
		switch {
		case isWordChar(r):
			if start < 0 {
				start = i
			}
		case r == ' ' || r == '\t':
			flush(i)
		default:
			flush(i)
			tokens = append(tokens, string(r))
		}
	}
	flush(len(line))
	return tokens
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func words(line string) []string {
	return strings.Fields(line)
}
