package service

import (
	"testing"

	"groenportaal_backend/internal/calculatie/transport"
)

func TestFormatUrenAlsDagen(t *testing.T) {
	tests := []struct {
		uren float64
		want string
	}{
		{0, "0 uur"},
		{-2, "0 uur"},
		{3, "3 uur"},
		{8, "1 dag"},
		{10, "1 dag, 2 uur"},
		{16, "2 dagen"},
		{20.5, "2 dagen, 4.5 uur"},
		{7.5, "7.5 uur"},
	}

	for _, tt := range tests {
		if got := FormatUrenAlsDagen(tt.uren); got != tt.want {
			t.Errorf("FormatUrenAlsDagen(%v) = %q, want %q", tt.uren, got, tt.want)
		}
	}
}

func TestFormatAfwijkingPercentage(t *testing.T) {
	tests := []struct {
		percentage int
		want       string
	}{
		{20, "+20%"},
		{-8, "-8%"},
		{0, "0%"},
	}

	for _, tt := range tests {
		if got := FormatAfwijkingPercentage(tt.percentage); got != tt.want {
			t.Errorf("FormatAfwijkingPercentage(%d) = %q, want %q", tt.percentage, got, tt.want)
		}
	}
}

func TestScopeLabel(t *testing.T) {
	if got := ScopeLabel(transport.ScopeWaterElektra); got != "Water/elektra" {
		t.Errorf("expected known label, got %q", got)
	}
	if got := ScopeLabel(transport.Scope("nieuwe_dienst")); got != "Nieuwe dienst" {
		t.Errorf("unknown scope fallback: expected %q, got %q", "Nieuwe dienst", got)
	}
	if got := ScopeLabel(transport.Scope("")); got != "" {
		t.Errorf("empty scope: expected empty label, got %q", got)
	}
}
