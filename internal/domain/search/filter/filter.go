// Package filter holds non-scoring structural predicates applied before ranking.
package filter

import (
	"encoding/json"
	"fmt"
)

// Condition is a single structural filter: an exact term match or an inclusive
// numeric range. Conditions gate inclusion and never contribute to the score.
type Condition struct {
	field     string
	term      string
	rangeExpr *Range
}

// NewTerm creates an exact match condition on a keyword field.
func NewTerm(field, value string) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("term value is required for field %q", field)
	}
	return Condition{field: field, term: value}, nil
}

// NewRange creates a numeric range condition.
func NewRange(field string, r Range) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	return Condition{field: field, rangeExpr: &r}, nil
}

// Field returns the filtered field name.
func (c Condition) Field() string { return c.field }

// Term returns the exact match value.
func (c Condition) Term() string { return c.term }

// Range returns the numeric range, or nil for term conditions.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsTerm reports whether this is a term condition.
func (c Condition) IsTerm() bool { return c.term != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// MarshalJSON renders {"term":{field:value}} or {"range":{field:{"gte":..,"lte":..}}}.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c.rangeExpr != nil {
		bounds := map[string]float64{}
		if c.rangeExpr.gte != nil {
			bounds["gte"] = *c.rangeExpr.gte
		}
		if c.rangeExpr.lte != nil {
			bounds["lte"] = *c.rangeExpr.lte
		}
		return json.Marshal(map[string]map[string]map[string]float64{"range": {c.field: bounds}})
	}
	return json.Marshal(map[string]map[string]string{"term": {c.field: c.term}})
}

// Range is an inclusive numeric range. Either bound may be open.
type Range struct {
	gte *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range. At least one bound is required
// and gte must not exceed lte.
func NewRangeFilter(gte, lte *float64) (Range, error) {
	if gte == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gte != nil && lte != nil && *gte > *lte {
		return Range{}, fmt.Errorf("range lower bound %v exceeds upper bound %v", *gte, *lte)
	}
	r := Range{}
	if gte != nil {
		v := *gte
		r.gte = &v
	}
	if lte != nil {
		v := *lte
		r.lte = &v
	}
	return r, nil
}

// GTE returns the inclusive lower bound.
func (r Range) GTE() *float64 { return r.gte }

// LTE returns the inclusive upper bound.
func (r Range) LTE() *float64 { return r.lte }
