package service

import "math"

// Punt is a single (x, y) observation for regression.
type Punt struct {
	X float64
	Y float64
}

// Regressie is the fitted line y = Slope*x + Intercept.
type Regressie struct {
	Slope     float64
	Intercept float64
}

// LinearRegression fits an ordinary least squares line through the points.
// Degenerate inputs resolve to safe values: no points gives {0, 0}, and
// identical x values give a flat line through the mean of y.
func LinearRegression(points []Punt) Regressie {
	n := float64(len(points))
	if n == 0 {
		return Regressie{}
	}

	var somX, somY, somXY, somXX float64
	for _, p := range points {
		somX += p.X
		somY += p.Y
		somXY += p.X * p.Y
		somXX += p.X * p.X
	}

	noemer := n*somXX - somX*somX
	if noemer == 0 {
		return Regressie{Slope: 0, Intercept: somY / n}
	}

	slope := (n*somXY - somX*somY) / noemer
	intercept := (somY - slope*somX) / n
	return Regressie{Slope: slope, Intercept: intercept}
}

// Voorspel projects aantal future periods beyond the last observed x.
// Forecast values are floored at 0 and rounded to the nearest integer.
func Voorspel(points []Punt, aantal int) []int {
	fit := LinearRegression(points)

	start := 0.0
	if len(points) > 0 {
		start = points[len(points)-1].X
	}

	voorspellingen := make([]int, 0, aantal)
	for i := 1; i <= aantal; i++ {
		waarde := fit.Slope*(start+float64(i)) + fit.Intercept
		if waarde < 0 {
			waarde = 0
		}
		voorspellingen = append(voorspellingen, int(math.Round(waarde)))
	}
	return voorspellingen
}
