package service

import (
	"math"
	"strings"

	"groenportaal_backend/internal/calculatie/transport"
)

// VoorcalculatieInvoer bundles everything the estimation engine needs.
// The catalogs are fetched by the caller; the engine itself does no I/O
// and never mutates its inputs.
type VoorcalculatieInvoer struct {
	Scopes   transport.ScopeParameters
	Globaal  transport.GlobaleParameters
	Normuren []transport.Normuur
	Factoren []transport.Correctiefactor
	Regels   []transport.RegelSnapshot
}

// BerekenVoorcalculatie converts a quote's scope data into estimated labor
// hours per scope and in total. Scope subtotals are multiplied by the
// resolved bereikbaarheids- and achterstalligheidsfactor and rounded to two
// decimals at the boundary. A scope that computes to exactly zero falls back
// to summing the arbeid regels tagged to it: manually entered labor rows are
// treated as ground truth when no structured scope data exists.
func BerekenVoorcalculatie(in VoorcalculatieInvoer) transport.VoorcalculatieResultaat {
	cat := catalogus{normuren: in.Normuren, factoren: in.Factoren}

	bereikbaarheid := cat.factor("bereikbaarheid", in.Globaal.Bereikbaarheid)
	achterstalligheid := 1.0
	if in.Globaal.Achterstalligheid != "" {
		achterstalligheid = cat.factor("achterstalligheid", in.Globaal.Achterstalligheid)
	}

	urenPerScope := make(map[transport.Scope]float64, len(in.Scopes))
	var totaal float64

	for scope, params := range in.Scopes {
		uren := berekenScope(scope, params, cat)
		uren = uren * bereikbaarheid * achterstalligheid
		uren = round2(uren)

		if uren == 0 {
			uren = round2(somArbeidsregels(in.Regels, scope))
		}

		urenPerScope[scope] = uren
		totaal += uren
	}

	return transport.VoorcalculatieResultaat{
		UrenPerScope:             urenPerScope,
		TotaalUren:               round2(totaal),
		BereikbaarheidsFactor:    bereikbaarheid,
		AchterstalligheidsFactor: achterstalligheid,
	}
}

// BerekenProjectDuur derives the estimated project duration from total hours,
// team size and effective hours per person per day.
func BerekenProjectDuur(totaalUren float64, teamGrootte int, urenPerDag float64) transport.ProjectDuur {
	if teamGrootte < 1 {
		teamGrootte = 2
	}
	if urenPerDag <= 0 {
		urenPerDag = 7
	}

	dagen := 0
	if totaalUren > 0 {
		dagen = int(math.Ceil(totaalUren / (float64(teamGrootte) * urenPerDag)))
	}

	return transport.ProjectDuur{
		TeamGrootte:    teamGrootte,
		UrenPerDag:     urenPerDag,
		GeschatteDagen: dagen,
	}
}

// BerekenProjectDuurMetBuffer is the buffered variant: the buffer percentage
// is applied to the hours before ceiling, independent of the unbuffered figure.
func BerekenProjectDuurMetBuffer(totaalUren float64, teamGrootte int, urenPerDag, bufferPercentage float64) transport.ProjectDuur {
	gebufferd := totaalUren * (1 + bufferPercentage/100)
	return BerekenProjectDuur(gebufferd, teamGrootte, urenPerDag)
}

// ── Catalog lookups ───────────────────────────────────────────────────────────

type catalogus struct {
	normuren []transport.Normuur
	factoren []transport.Correctiefactor
}

// tarief resolves the unit rate for a scope. Candidates are tried in order;
// for each, an exact ActiviteitKey match wins, then a case-insensitive
// substring match on the free-text Activiteit (legacy catalogs predate the
// key field). When nothing matches, the documented per-scope fallback applies.
func (c catalogus) tarief(scope transport.Scope, fallback float64, kandidaten ...string) float64 {
	for _, kandidaat := range kandidaten {
		if kandidaat == "" {
			continue
		}
		for _, n := range c.normuren {
			if n.Scope == scope && n.ActiviteitKey == kandidaat {
				return n.NormuurPerEenheid
			}
		}
		zoek := strings.ToLower(kandidaat)
		for _, n := range c.normuren {
			if n.Scope == scope && strings.Contains(strings.ToLower(n.Activiteit), zoek) {
				return n.NormuurPerEenheid
			}
		}
	}
	return fallback
}

// factor resolves a correction factor by (type, waarde); absent entries are
// neutral (1.0), never zero and never an error.
func (c catalogus) factor(soort, waarde string) float64 {
	if waarde == "" {
		return 1.0
	}
	for _, f := range c.factoren {
		if f.Type == soort && f.Waarde == waarde {
			return f.Factor
		}
	}
	return 1.0
}

// ── Defensive attribute readers ───────────────────────────────────────────────

func attrFloat(params map[string]any, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func attrString(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func attrBool(params map[string]any, key string) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return false
}

// somArbeidsregels sums the hoeveelheid of arbeid-type regels tagged to a scope.
func somArbeidsregels(regels []transport.RegelSnapshot, scope transport.Scope) float64 {
	var som float64
	for _, r := range regels {
		if r.Type == transport.RegelTypeArbeid && r.Scope == scope {
			som += r.Hoeveelheid
		}
	}
	return som
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
