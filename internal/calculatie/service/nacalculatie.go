package service

import (
	"fmt"
	"math"
	"sort"

	"groenportaal_backend/internal/calculatie/transport"
	"groenportaal_backend/platform/apperr"
)

// VoorcalculatiePlan is the planned baseline the variance engine compares
// against: the estimation output plus the derived duration.
type VoorcalculatiePlan struct {
	UrenPerScope   map[transport.Scope]float64
	TotaalUren     float64
	GeschatteDagen int
}

// scopeDrempel is the per-scope deviation percentage beyond which a
// scope-tagged insight is generated.
const scopeDrempel = 15

// AfwijkingsStatus classifies a deviation percentage. The classification is
// symmetric around zero: a 20% underrun is as noteworthy as a 20% overrun.
func AfwijkingsStatus(percentage int) transport.AfwijkingsStatus {
	abs := percentage
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= 5:
		return transport.StatusGoed
	case abs <= 15:
		return transport.StatusLetOp
	default:
		return transport.StatusKritiek
	}
}

// BerekenNacalculatie compares the planned estimation against actually logged
// hours and machine usage. It never fails on malformed-but-present data; the
// only error is the caller contract violation of not supplying a plan.
func BerekenNacalculatie(
	plan *VoorcalculatiePlan,
	logs []transport.Urenregistratie,
	machines []transport.Machinegebruik,
	regels []transport.RegelSnapshot,
) (transport.NacalculatieResultaat, error) {
	if plan == nil {
		return transport.NacalculatieResultaat{}, apperr.BadRequest("nacalculatie vereist een voorcalculatie als baseline")
	}

	var werkelijkeUren float64
	dagen := make(map[string]struct{})
	medewerkers := make(map[string]struct{})
	urenPerScope := make(map[transport.Scope]float64)
	scopeVolgorde := make([]transport.Scope, 0)

	for _, log := range logs {
		werkelijkeUren += log.Uren
		dagen[log.Datum.Format("2006-01-02")] = struct{}{}
		if log.Medewerker != "" {
			medewerkers[log.Medewerker] = struct{}{}
		}
		// Unscoped entries count toward the totals but not the per-scope
		// breakdown.
		if log.Scope != "" {
			if _, bekend := urenPerScope[log.Scope]; !bekend {
				scopeVolgorde = append(scopeVolgorde, log.Scope)
			}
			urenPerScope[log.Scope] += log.Uren
		}
	}

	afwijkingUren := werkelijkeUren - plan.TotaalUren
	afwijkingPercentage := 0
	if plan.TotaalUren > 0 {
		afwijkingPercentage = int(math.Round(afwijkingUren / plan.TotaalUren * 100))
	}
	status := AfwijkingsStatus(afwijkingPercentage)

	werkelijkeDagen := len(dagen)
	afwijkingDagen := werkelijkeDagen - plan.GeschatteDagen

	scopeAfwijkingen := berekenScopeAfwijkingen(plan.UrenPerScope, urenPerScope, scopeVolgorde)
	machineKosten := berekenMachineKosten(machines, regels)

	resultaat := transport.NacalculatieResultaat{
		GeplandeUren:        round2(plan.TotaalUren),
		WerkelijkeUren:      round2(werkelijkeUren),
		GeschatteDagen:      plan.GeschatteDagen,
		WerkelijkeDagen:     werkelijkeDagen,
		AantalMedewerkers:   len(medewerkers),
		AantalRegistraties:  len(logs),
		AfwijkingUren:       round2(afwijkingUren),
		AfwijkingPercentage: afwijkingPercentage,
		AfwijkingDagen:      afwijkingDagen,
		Status:              status,
		ScopeAfwijkingen:    scopeAfwijkingen,
		MachineKosten:       machineKosten,
	}
	resultaat.Inzichten = genereerInzichten(resultaat)

	return resultaat, nil
}

// berekenScopeAfwijkingen builds the per-scope comparison for the union of
// scopes present in either the plan or the logs, sorted by descending
// absolute percentage deviation (ties keep input order).
func berekenScopeAfwijkingen(
	gepland map[transport.Scope]float64,
	werkelijk map[transport.Scope]float64,
	logVolgorde []transport.Scope,
) []transport.ScopeAfwijking {
	volgorde := make([]transport.Scope, 0, len(gepland)+len(werkelijk))
	gezien := make(map[transport.Scope]struct{})

	// Plan scopes first, in canonical order, then log-only scopes in the
	// order they were first seen.
	for _, scope := range transport.AlleScopes {
		if _, ok := gepland[scope]; ok {
			volgorde = append(volgorde, scope)
			gezien[scope] = struct{}{}
		}
	}
	for scope := range gepland {
		if _, ok := gezien[scope]; !ok {
			volgorde = append(volgorde, scope)
			gezien[scope] = struct{}{}
		}
	}
	for _, scope := range logVolgorde {
		if _, ok := gezien[scope]; !ok {
			volgorde = append(volgorde, scope)
			gezien[scope] = struct{}{}
		}
	}

	afwijkingen := make([]transport.ScopeAfwijking, 0, len(volgorde))
	for _, scope := range volgorde {
		geplandeUren := gepland[scope]
		werkelijkeUren := werkelijk[scope]
		afwijking := werkelijkeUren - geplandeUren

		percentage := 0
		if geplandeUren > 0 {
			percentage = int(math.Round(afwijking / geplandeUren * 100))
		} else if werkelijkeUren > 0 {
			// Unplanned work: cap at +100 instead of an unbounded value.
			percentage = 100
		}

		afwijkingen = append(afwijkingen, transport.ScopeAfwijking{
			Scope:               scope,
			GeplandeUren:        round2(geplandeUren),
			WerkelijkeUren:      round2(werkelijkeUren),
			AfwijkingUren:       round2(afwijking),
			AfwijkingPercentage: percentage,
			Status:              AfwijkingsStatus(percentage),
		})
	}

	sort.SliceStable(afwijkingen, func(i, j int) bool {
		return abs(afwijkingen[i].AfwijkingPercentage) > abs(afwijkingen[j].AfwijkingPercentage)
	})

	return afwijkingen
}

func berekenMachineKosten(machines []transport.Machinegebruik, regels []transport.RegelSnapshot) transport.MachineKostenAfwijking {
	var werkelijk int64
	for _, m := range machines {
		werkelijk += m.KostenCents
	}

	var gepland int64
	for _, r := range regels {
		if r.Type == transport.RegelTypeMachine {
			gepland += r.TotaalCents
		}
	}

	afwijking := werkelijk - gepland
	percentage := 0
	if gepland > 0 {
		percentage = int(math.Round(float64(afwijking) / float64(gepland) * 100))
	}

	return transport.MachineKostenAfwijking{
		GeplandCents:        gepland,
		WerkelijkCents:      werkelijk,
		AfwijkingCents:      afwijking,
		AfwijkingPercentage: percentage,
		Status:              AfwijkingsStatus(percentage),
	}
}

// genereerInzichten applies the rule set over the computed result. Each rule
// fires independently; all qualifying insights are returned.
func genereerInzichten(r transport.NacalculatieResultaat) []transport.Inzicht {
	inzichten := make([]transport.Inzicht, 0, 4)

	if r.Status == transport.StatusGoed {
		inzichten = append(inzichten, transport.Inzicht{
			Type:    transport.InzichtSucces,
			Titel:   "Planning klopte",
			Bericht: fmt.Sprintf("De werkelijke uren wijken slechts %s af van de voorcalculatie. Goede inschatting.", FormatAfwijkingPercentage(r.AfwijkingPercentage)),
		})
	}

	if r.AfwijkingPercentage > 15 {
		inzichten = append(inzichten, transport.Inzicht{
			Type:    transport.InzichtKritiek,
			Titel:   "Forse overschrijding",
			Bericht: fmt.Sprintf("Er is %.1f uur meer besteed dan gepland (%s). Controleer de normuren of de projectomvang.", r.AfwijkingUren, FormatAfwijkingPercentage(r.AfwijkingPercentage)),
		})
	}

	if r.AfwijkingPercentage < -15 {
		inzichten = append(inzichten, transport.Inzicht{
			Type:    transport.InzichtWaarschuwing,
			Titel:   "Ruim onder begroting",
			Bericht: fmt.Sprintf("Er is %.1f uur minder besteed dan gepland (%s). Mogelijk is de voorcalculatie te ruim.", -r.AfwijkingUren, FormatAfwijkingPercentage(r.AfwijkingPercentage)),
		})
	}

	if r.AfwijkingDagen > 2 {
		inzichten = append(inzichten, transport.Inzicht{
			Type:    transport.InzichtWaarschuwing,
			Titel:   "Meer dagen nodig",
			Bericht: fmt.Sprintf("Het project duurde %d dagen langer dan de geschatte %d dagen.", r.AfwijkingDagen, r.GeschatteDagen),
		})
	}

	for _, sa := range r.ScopeAfwijkingen {
		if abs(sa.AfwijkingPercentage) > scopeDrempel {
			inzichten = append(inzichten, transport.Inzicht{
				Type:    transport.InzichtKritiek,
				Titel:   fmt.Sprintf("Afwijking bij %s", ScopeLabel(sa.Scope)),
				Bericht: fmt.Sprintf("%s wijkt %s af van de planning (%.1f uur gepland, %.1f uur werkelijk).", ScopeLabel(sa.Scope), FormatAfwijkingPercentage(sa.AfwijkingPercentage), sa.GeplandeUren, sa.WerkelijkeUren),
				Scope:   sa.Scope,
			})
		}
	}

	if r.MachineKosten.Status == transport.StatusKritiek {
		inzichten = append(inzichten, transport.Inzicht{
			Type:    transport.InzichtKritiek,
			Titel:   "Machinekosten wijken af",
			Bericht: fmt.Sprintf("De machinekosten wijken %s af van de begroting.", FormatAfwijkingPercentage(r.MachineKosten.AfwijkingPercentage)),
		})
	}

	return inzichten
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
