// Package textmatch scores how closely short vocabulary entries (brands, categories)
// appear inside free-text queries.
package textmatch

import "github.com/xrash/smetrics"

// MaxScore is the score of a perfect match.
const MaxScore = 100.0

// Ratio returns the normalized InDel similarity of a and b in [0, 100].
// Insertions and deletions cost 1 and substitutions 2, so the distance is
// len(a)+len(b) minus twice their longest common subsequence.
// Strings are compared byte-wise; callers lower-case both sides first.
func Ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return MaxScore
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return MaxScore * float64(total-dist) / float64(total)
}

// PartialRatio returns the best Ratio between the shorter string and every
// alignment of it against the longer one, including windows that hang over
// either end of the longer string. Empty input scores 0.
func PartialRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	m, n := len(short), len(long)

	best := 0.0
	for i := 0; i+m <= n; i++ {
		if s := Ratio(short, long[i:i+m]); s > best {
			best = s
			if best == MaxScore {
				return best
			}
		}
	}
	for i := 1; i < m; i++ {
		if s := Ratio(short, long[:i]); s > best {
			best = s
		}
		if s := Ratio(short, long[n-i:]); s > best {
			best = s
		}
	}
	return best
}

// BestMatch scores query against every candidate with PartialRatio and returns the
// index of the highest-scoring one. On ties the earliest candidate wins.
// Returns -1 when candidates is empty.
func BestMatch(query string, candidates []string) (int, float64) {
	bestIdx, bestScore := -1, -1.0
	for i, c := range candidates {
		if s := PartialRatio(query, c); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	if bestIdx < 0 {
		return -1, 0
	}
	return bestIdx, bestScore
}
