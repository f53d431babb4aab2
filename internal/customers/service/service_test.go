package service

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"national format", "079 123 45 67", "+41791234567"},
		{"already e164", "+41791234567", "+41791234567"},
		{"foreign with prefix", "+49 30 901820", "+4930901820"},
		{"invalid kept verbatim", "nicht erreichbar", "nicht erreichbar"},
		{"too short kept verbatim", "123", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
