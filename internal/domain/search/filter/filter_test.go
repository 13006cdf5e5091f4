package filter

import (
	"encoding/json"
	"strings"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestNewRangeFilter_Valid(t *testing.T) {
	tests := []struct {
		name     string
		gte, lte *float64
	}{
		{"gte only", floatPtr(0), nil},
		{"lte only", nil, floatPtr(100)},
		{"both", floatPtr(10), floatPtr(100)},
		{"equal bounds", floatPtr(10), floatPtr(10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRangeFilter(tt.gte, tt.lte)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (r.GTE() == nil) != (tt.gte == nil) {
				t.Error("GTE() mismatch")
			}
			if (r.LTE() == nil) != (tt.lte == nil) {
				t.Error("LTE() mismatch")
			}
		})
	}
}

func TestNewRangeFilter_NoBoundary(t *testing.T) {
	_, err := NewRangeFilter(nil, nil)
	if err == nil {
		t.Fatal("expected error for no boundary")
	}
	if !strings.Contains(err.Error(), "at least one") {
		t.Errorf("error = %q", err)
	}
}

func TestNewRangeFilter_Inverted(t *testing.T) {
	_, err := NewRangeFilter(floatPtr(500), floatPtr(100))
	if err == nil {
		t.Fatal("expected error for inverted bounds")
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %q", err)
	}
}

func TestNewRangeFilter_CopiesBounds(t *testing.T) {
	lte := 100.0
	r, err := NewRangeFilter(nil, &lte)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lte = 1
	if *r.LTE() != 100 {
		t.Errorf("LTE() = %v, want 100", *r.LTE())
	}
}

func TestNewTerm(t *testing.T) {
	c, err := NewTerm("brand_normalized", "nike")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsTerm() || c.IsRange() {
		t.Error("expected term condition")
	}
	if c.Field() != "brand_normalized" || c.Term() != "nike" {
		t.Errorf("got %s=%s", c.Field(), c.Term())
	}
}

func TestNewTerm_Invalid(t *testing.T) {
	if _, err := NewTerm("", "nike"); err == nil {
		t.Error("expected error for empty field")
	}
	if _, err := NewTerm("brand_normalized", ""); err == nil {
		t.Error("expected error for empty value")
	}
}

func TestNewRange_EmptyField(t *testing.T) {
	r, _ := NewRangeFilter(floatPtr(1), nil)
	if _, err := NewRange("", r); err == nil {
		t.Fatal("expected error")
	}
}

func TestCondition_MarshalJSON(t *testing.T) {
	r, _ := NewRangeFilter(floatPtr(500), floatPtr(2000))
	rng, _ := NewRange("selling_price", r)
	term, _ := NewTerm("brand_normalized", "campus")

	tests := []struct {
		name string
		c    Condition
		want string
	}{
		{"range", rng, `{"range":{"selling_price":{"gte":500,"lte":2000}}}`},
		{"term", term, `{"term":{"brand_normalized":"campus"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.c)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
