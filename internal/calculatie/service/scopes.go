package service

import (
	"math"

	"groenportaal_backend/internal/calculatie/transport"
)

// scopeCalculator computes the raw (uncorrected) hours for one scope from its
// attribute bag and the rate catalog.
type scopeCalculator func(params map[string]any, cat catalogus) float64

// scopeCalculators is the registry of per-scope formulas, keyed by the closed
// scope enum. Unknown scopes are handled by the arbeid-regels fallback in
// BerekenVoorcalculatie.
var scopeCalculators = map[transport.Scope]scopeCalculator{
	transport.ScopeGrondwerk:        berekenGrondwerk,
	transport.ScopeBestrating:       berekenBestrating,
	transport.ScopeBorders:          berekenBorders,
	transport.ScopeGras:             berekenGras,
	transport.ScopeHoutwerk:         berekenHoutwerk,
	transport.ScopeWaterElektra:     berekenWaterElektra,
	transport.ScopeGrasOnderhoud:    berekenGrasOnderhoud,
	transport.ScopeBordersOnderhoud: berekenBordersOnderhoud,
	transport.ScopeHeggen:           berekenHeggen,
	transport.ScopeBomen:            berekenBomen,
}

func berekenScope(scope transport.Scope, params map[string]any, cat catalogus) float64 {
	calc, ok := scopeCalculators[scope]
	if !ok {
		return 0
	}
	return calc(params, cat)
}

// Afvoer volume coefficients in m3 soil per m2, keyed by the same depth
// categories as the diepte correction factors.
var afvoerCoefficient = map[string]float64{
	"licht":     0.15,
	"standaard": 0.25,
	"zwaar":     0.4,
}

func berekenGrondwerk(params map[string]any, cat catalogus) float64 {
	oppervlakte := attrFloat(params, "oppervlakte")
	diepte := attrString(params, "diepte")

	uren := oppervlakte * cat.tarief(transport.ScopeGrondwerk, 0.25, "ontgraven") * cat.factor("diepte", diepte)

	if attrBool(params, "grondAfvoeren") {
		coeff, ok := afvoerCoefficient[diepte]
		if !ok {
			coeff = afvoerCoefficient["standaard"]
		}
		volume := oppervlakte * coeff
		uren += volume * cat.tarief(transport.ScopeGrondwerk, 0.1, "afvoer")
	}

	return uren
}

func berekenBestrating(params map[string]any, cat catalogus) float64 {
	oppervlakte := attrFloat(params, "oppervlakte")
	soort := attrString(params, "bestratingType")
	knipwerk := attrString(params, "knipwerk")

	leggen := oppervlakte * cat.tarief(transport.ScopeBestrating, 0.4, soort, "leggen") * cat.factor("knipwerk", knipwerk)
	zandbed := oppervlakte * cat.tarief(transport.ScopeBestrating, 0.1, "zandbed")

	return leggen + zandbed
}

func berekenBorders(params map[string]any, cat catalogus) float64 {
	oppervlakte := attrFloat(params, "oppervlakte")
	intensiteit := attrString(params, "beplantingsIntensiteit")

	grondbewerking := oppervlakte * cat.tarief(transport.ScopeBorders, 0.2, "grondbewerking")
	planten := oppervlakte * cat.tarief(transport.ScopeBorders, 0.25, intensiteit, "planten") * cat.factor("intensiteit", intensiteit)

	return grondbewerking + planten
}

func berekenGras(params map[string]any, cat catalogus) float64 {
	oppervlakte := attrFloat(params, "oppervlakte")
	soort := attrString(params, "grasType")

	fallback := 0.12 // zoden
	if soort == "inzaaien" {
		fallback = 0.05
	}
	if soort == "" {
		soort = "zoden"
	}

	return oppervlakte * cat.tarief(transport.ScopeGras, fallback, soort)
}

func berekenHoutwerk(params map[string]any, cat catalogus) float64 {
	lengte := attrFloat(params, "lengte")
	soort := attrString(params, "houtwerkType")
	fundering := attrString(params, "funderingType")

	uren := lengte * cat.tarief(transport.ScopeHoutwerk, 0.8, soort)

	// Fence posts every 2 meters; other woodwork gets four foundation points.
	palen := 4.0
	if soort == "schutting" && lengte > 0 {
		palen = math.Ceil(lengte / 2)
	}
	uren += palen * cat.tarief(transport.ScopeHoutwerk, 0.5, fundering+"_fundering", "fundering")

	return uren
}

func berekenWaterElektra(params map[string]any, cat catalogus) float64 {
	armaturen := attrFloat(params, "aantalArmaturen")

	uren := armaturen * cat.tarief(transport.ScopeWaterElektra, 0.5, "armatuur")

	if attrBool(params, "sleufGraven") {
		// Estimated 3 meters of trench per fixture.
		sleufLengte := armaturen * 3
		uren += sleufLengte * cat.tarief(transport.ScopeWaterElektra, 0.3, "sleuf_graven", "sleuf graven")
	}

	return uren
}

func berekenGrasOnderhoud(params map[string]any, cat catalogus) float64 {
	if !attrBool(params, "maaien") {
		return 0
	}
	oppervlakte := attrFloat(params, "oppervlakte")
	return oppervlakte * cat.tarief(transport.ScopeGrasOnderhoud, 0.02, "maaien")
}

func berekenBordersOnderhoud(params map[string]any, cat catalogus) float64 {
	oppervlakte := attrFloat(params, "oppervlakte")
	intensiteit := attrString(params, "intensiteit")

	return oppervlakte * cat.tarief(transport.ScopeBordersOnderhoud, 0.15, intensiteit, "wieden")
}

func berekenHeggen(params map[string]any, cat catalogus) float64 {
	lengte := attrFloat(params, "lengte")
	hoogte := attrFloat(params, "hoogte")
	breedte := attrFloat(params, "breedte")

	volume := lengte * hoogte * breedte
	return volume * cat.tarief(transport.ScopeHeggen, 0.15, "heg_snoeien", "heg snoeien")
}

func berekenBomen(params map[string]any, cat catalogus) float64 {
	aantal := attrFloat(params, "aantalBomen")
	zwaarte := attrString(params, "snoeiZwaarte")

	fallback := 0.5 // licht snoeiwerk
	if zwaarte == "zwaar" {
		fallback = 1.5
	}

	return aantal * cat.tarief(transport.ScopeBomen, fallback, zwaarte, "boom")
}
