// Package transport defines the rapportage module's response types.
package transport

// MaandTotaal is one month's value for a single metric, keyed "YYYY-MM".
type MaandTotaal struct {
	Maand  string  `json:"maand"`
	Waarde float64 `json:"waarde"`
}

// MaandBedrag is one month's money total in cents, keyed "YYYY-MM".
type MaandBedrag struct {
	Maand string `json:"maand"`
	Cents int64  `json:"cents"`
}

// Maandcijfers bundles the aggregates for one month.
type Maandcijfers struct {
	Maand              string  `json:"maand"`
	GelogdeUren        float64 `json:"gelogdeUren"`
	GefactureerdCents  int64   `json:"gefactureerdCents"`
	AfgerondeProjecten int     `json:"afgerondeProjecten"`
}

// Nauwkeurigheid summarizes how close voorcalculaties were to reality, over
// every completed project with a stored nacalculatie.
type Nauwkeurigheid struct {
	AantalProjecten     int            `json:"aantalProjecten"`
	GemiddeldeAfwijking float64        `json:"gemiddeldeAfwijkingPercentage"`
	PerStatus           map[string]int `json:"perStatus"`
}

// Overzicht is the dashboard response: recent months plus estimation accuracy.
type Overzicht struct {
	Maanden        []Maandcijfers `json:"maanden"`
	Nauwkeurigheid Nauwkeurigheid `json:"nauwkeurigheid"`
}

// Prognose extrapolates hours and revenue three months ahead from the
// recent monthly history.
type Prognose struct {
	Maanden            []string  `json:"maanden"`
	UrenHistorie       []float64 `json:"urenHistorie"`
	UrenPrognose       []int     `json:"urenPrognose"`
	OmzetHistorieCents []int64   `json:"omzetHistorieCents"`
	OmzetPrognoseCents []int64   `json:"omzetPrognoseCents"`
}
