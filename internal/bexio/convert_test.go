package bexio

import (
	"math"
	"testing"
)

func TestMapUnitName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"m2", "m2"},
		{"M2", "m2"},
		{"m²", "m2"},
		{"lfm", "m"},
		{"LFM", "m"},
		{"stk", "Stk"},
		{"pauschal", "Stk"},
		{"", "Stk"},
		{"karton", "Stk"},
	}

	for _, tt := range tests {
		if got := MapUnitName(tt.in); got != tt.want {
			t.Errorf("MapUnitName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"string", "12.5", 12.5},
		{"decimal comma", "12,5", 12.5},
		{"whitespace", " 1 234 ", 1234},
		{"whitespace with comma", "1 234,5", 1234.5},
		{"garbage", "abc", 0},
		{"empty", "", 0},
		{"nil", nil, 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToNumber(tt.in); got != tt.want {
				t.Fatalf("ToNumber(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
