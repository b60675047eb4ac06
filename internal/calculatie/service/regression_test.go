package service

import (
	"math"
	"testing"
)

func bijna(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLinearRegressionPerfecteLijn(t *testing.T) {
	punten := []Punt{{1, 3}, {2, 5}, {3, 7}, {4, 9}}

	fit := LinearRegression(punten)

	if !bijna(fit.Slope, 2) {
		t.Errorf("expected slope 2, got %v", fit.Slope)
	}
	if !bijna(fit.Intercept, 1) {
		t.Errorf("expected intercept 1, got %v", fit.Intercept)
	}
}

func TestLinearRegressionZonderPunten(t *testing.T) {
	fit := LinearRegression(nil)
	if fit.Slope != 0 || fit.Intercept != 0 {
		t.Errorf("empty input should fit {0, 0}, got %+v", fit)
	}
}

func TestLinearRegressionGelijkeX(t *testing.T) {
	punten := []Punt{{5, 10}, {5, 20}, {5, 30}}

	fit := LinearRegression(punten)

	if fit.Slope != 0 {
		t.Errorf("identical x should give flat line, got slope %v", fit.Slope)
	}
	if !bijna(fit.Intercept, 20) {
		t.Errorf("expected mean of y (20), got %v", fit.Intercept)
	}
}

func TestLinearRegressionEnkelPunt(t *testing.T) {
	fit := LinearRegression([]Punt{{3, 12}})

	if fit.Slope != 0 {
		t.Errorf("single point should give flat line, got slope %v", fit.Slope)
	}
	if !bijna(fit.Intercept, 12) {
		t.Errorf("expected intercept 12, got %v", fit.Intercept)
	}
}

func TestVoorspelProjecteertVoorbijLaatsteX(t *testing.T) {
	// y = 2x + 1, laatste x = 4: voorspellingen voor x = 5, 6, 7.
	punten := []Punt{{1, 3}, {2, 5}, {3, 7}, {4, 9}}

	got := Voorspel(punten, 3)

	want := []int{11, 13, 15}
	if len(got) != len(want) {
		t.Fatalf("expected %d voorspellingen, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("voorspelling %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestVoorspelVloertOpNul(t *testing.T) {
	// Sterk dalende trend: projecties onder nul worden 0.
	punten := []Punt{{1, 10}, {2, 5}, {3, 0}}

	got := Voorspel(punten, 2)

	for i, v := range got {
		if v < 0 {
			t.Errorf("voorspelling %d is negative: %d", i, v)
		}
	}
	if got[0] != 0 || got[1] != 0 {
		t.Errorf("expected floored forecasts, got %v", got)
	}
}

func TestVoorspelZonderHistorie(t *testing.T) {
	got := Voorspel(nil, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 voorspellingen, got %d", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("voorspelling %d: expected 0 without history, got %d", i, v)
		}
	}
}
