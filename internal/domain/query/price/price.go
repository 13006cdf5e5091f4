// Package price extracts upper and lower price bounds from free-text queries.
package price

import (
	"regexp"
	"strconv"
)

var (
	maxPattern = regexp.MustCompile(`(?i)\b(?:under|below|less than|upto|up to)\s*(?:₹|rs\.?|inr)?\s*(\d+)`)
	minPattern = regexp.MustCompile(`(?i)\b(?:above|over|more than|greater than)\s*(?:₹|rs\.?|inr)?\s*(\d+)`)
)

// Match is an extracted price bound and the byte span of the phrase that produced it.
type Match struct {
	Value float64
	Start int
	End   int
}

// ExtractMax returns the first "under/below/less than/upto/up to N" bound in q.
func ExtractMax(q string) (Match, bool) { return extract(maxPattern, q) }

// ExtractMin returns the first "above/over/more than/greater than N" bound in q.
func ExtractMin(q string) (Match, bool) { return extract(minPattern, q) }

func extract(re *regexp.Regexp, q string) (Match, bool) {
	loc := re.FindStringSubmatchIndex(q)
	if loc == nil {
		return Match{}, false
	}
	v, err := strconv.ParseFloat(q[loc[2]:loc[3]], 64)
	if err != nil {
		return Match{}, false
	}
	return Match{Value: v, Start: loc[0], End: loc[1]}, true
}
