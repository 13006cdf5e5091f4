// Package cleaner strips resolved filter text from a query so that only the
// descriptive part reaches lexical and semantic matching.
package cleaner

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain/query/price"
)

// DefaultAudiencePhrases are removed in order; longer phrases precede their
// sub-phrases so "for men" goes before "men".
var DefaultAudiencePhrases = []string{
	"for men", "for women", "for man", "for woman",
	"men", "man", "women", "woman", "mens", "womens",
	"for me", "me",
	"for boys", "for girls", "for boy", "for girl",
	"boys", "girls", "boy", "girl",
	"for wedding", "for weddings", "wedding",
}

// Cleaner is immutable and safe for concurrent use.
type Cleaner struct {
	audience          []*regexp.Regexp
	brandWordBoundary bool
}

// New compiles the audience phrase list. A nil list selects DefaultAudiencePhrases.
// With brandWordBoundary the resolved brand is only removed as a whole word;
// otherwise every substring occurrence goes.
func New(audience []string, brandWordBoundary bool) (*Cleaner, error) {
	if audience == nil {
		audience = DefaultAudiencePhrases
	}
	c := &Cleaner{brandWordBoundary: brandWordBoundary}
	for i, p := range audience {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			return nil, fmt.Errorf("audience phrase %d is blank", i)
		}
		c.audience = append(c.audience, wordPattern(p))
	}
	return c, nil
}

// Clean removes the price spans, the brand and every audience phrase from the
// lower-cased query, then collapses whitespace. Spans must come from extraction on
// the same string; spans out of range or overlapping an earlier one are ignored.
func (c *Cleaner) Clean(lowered, brand string, spans ...price.Match) string {
	s := removeSpans(lowered, spans)
	if brand != "" {
		s = c.removeBrand(s, brand)
	}

	s = collapse(s)
	for {
		next := s
		for _, re := range c.audience {
			next = re.ReplaceAllString(next, " ")
		}
		next = collapse(next)
		if next == s {
			return s
		}
		s = next
	}
}

func (c *Cleaner) removeBrand(s, brand string) string {
	if c.brandWordBoundary {
		re := wordPattern(brand)
		for re.MatchString(s) {
			s = re.ReplaceAllString(s, " ")
		}
		return s
	}
	for strings.Contains(s, brand) {
		s = strings.ReplaceAll(s, brand, " ")
	}
	return s
}

func removeSpans(s string, spans []price.Match) string {
	if len(spans) == 0 {
		return s
	}
	sorted := append([]price.Match(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	limit := len(s)
	for _, sp := range sorted {
		if sp.Start < 0 || sp.Start >= sp.End || sp.End > limit {
			continue
		}
		s = s[:sp.Start] + " " + s[sp.End:]
		limit = sp.Start
	}
	return s
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func wordPattern(p string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
}
