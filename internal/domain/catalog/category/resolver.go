package category

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain/textmatch"
)

// Mode selects how a category is inferred from free-text queries.
type Mode string

// Inference modes.
const (
	ModeDisabled Mode = "disabled"
	ModeExact    Mode = "exact"
	ModeFuzzy    Mode = "fuzzy"
)

// DefaultThreshold is the minimum partial similarity for fuzzy inference.
const DefaultThreshold = 80

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeDisabled, ModeExact, ModeFuzzy:
		return true
	}
	return false
}

type phrase struct {
	text string
	key  string
	re   *regexp.Regexp
}

// Resolver infers a canonical category from a query.
type Resolver struct {
	mode      Mode
	threshold float64
	phrases   []phrase
	texts     []string
}

// NewResolver builds a Resolver over m. Every canonical key (underscores read as
// spaces) and variant becomes a candidate phrase, in map order.
func NewResolver(m *Map, mode Mode, threshold int) (*Resolver, error) {
	if mode == "" {
		mode = ModeDisabled
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid category inference mode: %q", mode)
	}
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("category threshold must be between 0 and 100, got %d", threshold)
	}

	r := &Resolver{mode: mode, threshold: float64(threshold)}
	if mode == ModeDisabled || m == nil {
		return r, nil
	}

	for _, e := range m.Entries() {
		r.add(strings.ReplaceAll(e.Key, "_", " "), e.Key)
		for _, v := range e.Variants {
			r.add(v, e.Key)
		}
	}
	return r, nil
}

func (r *Resolver) add(text, key string) {
	r.phrases = append(r.phrases, phrase{text: text, key: key, re: wholePhrase(text)})
	r.texts = append(r.texts, text)
}

// Resolve returns the inferred canonical key, or false when inference is disabled
// or nothing matches.
func (r *Resolver) Resolve(query string) (string, bool) {
	if r.mode == ModeDisabled {
		return "", false
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}

	for _, p := range r.phrases {
		if p.re.MatchString(q) {
			return p.key, true
		}
	}
	if r.mode != ModeFuzzy {
		return "", false
	}

	idx, score := textmatch.BestMatch(q, r.texts)
	if idx < 0 || score < r.threshold {
		return "", false
	}
	return r.phrases[idx].key, true
}

// wholePhrase matches text only where it is not glued to a neighbouring letter or digit.
func wholePhrase(text string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(text) + `(?:$|[^\p{L}\p{N}])`)
}
