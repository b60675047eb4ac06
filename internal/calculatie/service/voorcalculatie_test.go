package service

import (
	"testing"

	"groenportaal_backend/internal/calculatie/transport"
)

func testCatalogus() ([]transport.Normuur, []transport.Correctiefactor) {
	normuren := []transport.Normuur{
		{Scope: transport.ScopeGrondwerk, ActiviteitKey: "ontgraven", Activiteit: "Grond ontgraven", NormuurPerEenheid: 0.25},
		{Scope: transport.ScopeGrondwerk, ActiviteitKey: "afvoer", Activiteit: "Grond afvoeren", NormuurPerEenheid: 0.1},
		{Scope: transport.ScopeBestrating, ActiviteitKey: "tegels", Activiteit: "Tegels leggen", NormuurPerEenheid: 0.35},
		{Scope: transport.ScopeBestrating, ActiviteitKey: "zandbed", Activiteit: "Zandbed aanbrengen", NormuurPerEenheid: 0.1},
		{Scope: transport.ScopeGras, ActiviteitKey: "zoden", Activiteit: "Graszoden leggen", NormuurPerEenheid: 0.12},
		{Scope: transport.ScopeGras, ActiviteitKey: "inzaaien", Activiteit: "Gras inzaaien", NormuurPerEenheid: 0.05},
		{Scope: transport.ScopeGrasOnderhoud, ActiviteitKey: "maaien", Activiteit: "Gras maaien", NormuurPerEenheid: 0.02},
	}
	factoren := []transport.Correctiefactor{
		{Type: "bereikbaarheid", Waarde: "goed", Factor: 1.0},
		{Type: "bereikbaarheid", Waarde: "beperkt", Factor: 1.2},
		{Type: "bereikbaarheid", Waarde: "slecht", Factor: 1.5},
		{Type: "achterstalligheid", Waarde: "hoog", Factor: 1.5},
		{Type: "diepte", Waarde: "licht", Factor: 0.8},
		{Type: "diepte", Waarde: "zwaar", Factor: 1.3},
	}
	return normuren, factoren
}

func TestBerekenVoorcalculatieSlechteBereikbaarheid(t *testing.T) {
	normuren, factoren := testCatalogus()

	// 100 m2 ontgraven bij 0.25 normuur = 25 uur, maal 1.5 bereikbaarheid = 37.5.
	res := BerekenVoorcalculatie(VoorcalculatieInvoer{
		Scopes: transport.ScopeParameters{
			transport.ScopeGrondwerk: {"oppervlakte": 100.0},
		},
		Globaal:  transport.GlobaleParameters{Bereikbaarheid: "slecht"},
		Normuren: normuren,
		Factoren: factoren,
	})

	if res.UrenPerScope[transport.ScopeGrondwerk] != 37.5 {
		t.Errorf("expected 37.5 uur grondwerk, got %v", res.UrenPerScope[transport.ScopeGrondwerk])
	}
	if res.TotaalUren != 37.5 {
		t.Errorf("expected 37.5 totaal, got %v", res.TotaalUren)
	}
	if res.BereikbaarheidsFactor != 1.5 {
		t.Errorf("expected factor 1.5, got %v", res.BereikbaarheidsFactor)
	}
	if res.AchterstalligheidsFactor != 1.0 {
		t.Errorf("expected neutral achterstalligheid, got %v", res.AchterstalligheidsFactor)
	}
}

func TestBerekenVoorcalculatieOnbekendeFactorIsNeutraal(t *testing.T) {
	normuren, factoren := testCatalogus()

	res := BerekenVoorcalculatie(VoorcalculatieInvoer{
		Scopes: transport.ScopeParameters{
			transport.ScopeGrondwerk: {"oppervlakte": 100.0},
		},
		Globaal:  transport.GlobaleParameters{Bereikbaarheid: "onzin"},
		Normuren: normuren,
		Factoren: factoren,
	})

	if res.BereikbaarheidsFactor != 1.0 {
		t.Errorf("unknown factor value should default to 1.0, got %v", res.BereikbaarheidsFactor)
	}
	if res.TotaalUren != 25 {
		t.Errorf("expected 25 uur, got %v", res.TotaalUren)
	}
}

func TestBerekenVoorcalculatieGrondwerkMetAfvoer(t *testing.T) {
	normuren, factoren := testCatalogus()

	// De dieptecategorie stuurt zowel de correctiefactor als de
	// afvoercoefficient aan.
	// Zwaar: 100*0.25*1.3 = 32.5 uur ontgraven, 100*0.4 = 40 m3 maal 0.1
	// = 4 uur afvoer. Licht: 100*0.25*0.8 = 20 uur, 100*0.15 = 15 m3 maal
	// 0.1 = 1.5 uur afvoer.
	tests := []struct {
		diepte string
		want   float64
	}{
		{"zwaar", 36.5},
		{"licht", 21.5},
	}
	for _, tt := range tests {
		res := BerekenVoorcalculatie(VoorcalculatieInvoer{
			Scopes: transport.ScopeParameters{
				transport.ScopeGrondwerk: {"oppervlakte": 100.0, "diepte": tt.diepte, "grondAfvoeren": true},
			},
			Globaal:  transport.GlobaleParameters{Bereikbaarheid: "goed"},
			Normuren: normuren,
			Factoren: factoren,
		})

		if res.UrenPerScope[transport.ScopeGrondwerk] != tt.want {
			t.Errorf("diepte %s: expected %v uur, got %v", tt.diepte, tt.want, res.UrenPerScope[transport.ScopeGrondwerk])
		}
	}
}

func TestBerekenVoorcalculatieCombineertScopes(t *testing.T) {
	normuren, factoren := testCatalogus()

	// Bestrating: 50*0.35 + 50*0.1 = 22.5. Gras zoden: 30*0.12 = 3.6.
	res := BerekenVoorcalculatie(VoorcalculatieInvoer{
		Scopes: transport.ScopeParameters{
			transport.ScopeBestrating: {"oppervlakte": 50.0, "bestratingType": "tegels"},
			transport.ScopeGras:       {"oppervlakte": 30.0, "grasType": "zoden"},
		},
		Globaal:  transport.GlobaleParameters{Bereikbaarheid: "goed"},
		Normuren: normuren,
		Factoren: factoren,
	})

	if res.UrenPerScope[transport.ScopeBestrating] != 22.5 {
		t.Errorf("expected 22.5 uur bestrating, got %v", res.UrenPerScope[transport.ScopeBestrating])
	}
	if res.UrenPerScope[transport.ScopeGras] != 3.6 {
		t.Errorf("expected 3.6 uur gras, got %v", res.UrenPerScope[transport.ScopeGras])
	}
	if res.TotaalUren != 26.1 {
		t.Errorf("expected 26.1 totaal, got %v", res.TotaalUren)
	}
}

func TestBerekenVoorcalculatieInzaaienGebruiktEigenTarief(t *testing.T) {
	normuren, factoren := testCatalogus()

	res := BerekenVoorcalculatie(VoorcalculatieInvoer{
		Scopes: transport.ScopeParameters{
			transport.ScopeGras: {"oppervlakte": 100.0, "grasType": "inzaaien"},
		},
		Globaal:  transport.GlobaleParameters{Bereikbaarheid: "goed"},
		Normuren: normuren,
		Factoren: factoren,
	})

	if res.UrenPerScope[transport.ScopeGras] != 5 {
		t.Errorf("inzaaien should use 0.05 per m2, got %v uur", res.UrenPerScope[transport.ScopeGras])
	}
}

func TestBerekenVoorcalculatieNulvalstTerugOpArbeidsregels(t *testing.T) {
	normuren, factoren := testCatalogus()

	// Gras onderhoud zonder maaien rekent naar 0; de arbeidsregels voor die
	// scope zijn dan leidend. Materiaalregels tellen niet mee.
	res := BerekenVoorcalculatie(VoorcalculatieInvoer{
		Scopes: transport.ScopeParameters{
			transport.ScopeGrasOnderhoud: {"oppervlakte": 200.0, "maaien": false},
		},
		Globaal:  transport.GlobaleParameters{Bereikbaarheid: "goed"},
		Normuren: normuren,
		Factoren: factoren,
		Regels: []transport.RegelSnapshot{
			{Type: transport.RegelTypeArbeid, Scope: transport.ScopeGrasOnderhoud, Hoeveelheid: 6},
			{Type: transport.RegelTypeArbeid, Scope: transport.ScopeGrasOnderhoud, Hoeveelheid: 2.5},
			{Type: transport.RegelTypeMateriaal, Scope: transport.ScopeGrasOnderhoud, Hoeveelheid: 40},
		},
	})

	if res.UrenPerScope[transport.ScopeGrasOnderhoud] != 8.5 {
		t.Errorf("expected arbeidsregels fallback of 8.5 uur, got %v", res.UrenPerScope[transport.ScopeGrasOnderhoud])
	}
}

func TestBerekenVoorcalculatieAchterstalligheid(t *testing.T) {
	normuren, factoren := testCatalogus()

	// 500 m2 maaien = 10 uur, maal achterstalligheid hoog 1.5 = 15.
	res := BerekenVoorcalculatie(VoorcalculatieInvoer{
		Scopes: transport.ScopeParameters{
			transport.ScopeGrasOnderhoud: {"oppervlakte": 500.0, "maaien": true},
		},
		Globaal:  transport.GlobaleParameters{Bereikbaarheid: "goed", Achterstalligheid: "hoog"},
		Normuren: normuren,
		Factoren: factoren,
	})

	if res.UrenPerScope[transport.ScopeGrasOnderhoud] != 15 {
		t.Errorf("expected 15 uur, got %v", res.UrenPerScope[transport.ScopeGrasOnderhoud])
	}
	if res.AchterstalligheidsFactor != 1.5 {
		t.Errorf("expected achterstalligheid 1.5, got %v", res.AchterstalligheidsFactor)
	}
}

func TestBerekenVoorcalculatieIsIdempotent(t *testing.T) {
	normuren, factoren := testCatalogus()

	invoer := VoorcalculatieInvoer{
		Scopes: transport.ScopeParameters{
			transport.ScopeGrondwerk:  {"oppervlakte": 73.0, "diepte": "zwaar", "grondAfvoeren": true},
			transport.ScopeBestrating: {"oppervlakte": 41.5, "bestratingType": "tegels"},
		},
		Globaal:  transport.GlobaleParameters{Bereikbaarheid: "beperkt"},
		Normuren: normuren,
		Factoren: factoren,
	}

	eerste := BerekenVoorcalculatie(invoer)
	tweede := BerekenVoorcalculatie(invoer)

	if eerste.TotaalUren != tweede.TotaalUren {
		t.Errorf("same input should give same totaal: %v vs %v", eerste.TotaalUren, tweede.TotaalUren)
	}
	for scope, uren := range eerste.UrenPerScope {
		if tweede.UrenPerScope[scope] != uren {
			t.Errorf("scope %s differs between runs: %v vs %v", scope, uren, tweede.UrenPerScope[scope])
		}
	}
}

func TestBerekenProjectDuur(t *testing.T) {
	tests := []struct {
		naam        string
		uren        float64
		team        int
		urenPerDag  float64
		wantDagen   int
		wantTeam    int
		wantPerDag  float64
	}{
		{"team van twee", 56, 2, 7, 4, 2, 7},
		{"team van vier", 56, 4, 7, 2, 4, 7},
		{"deel van een dag rondt op", 57, 4, 7, 3, 4, 7},
		{"nul uur is nul dagen", 0, 2, 7, 0, 2, 7},
		{"ongeldige team grootte krijgt default", 56, 0, 7, 4, 2, 7},
		{"ongeldige uren per dag krijgt default", 56, 2, 0, 4, 2, 7},
	}

	for _, tt := range tests {
		t.Run(tt.naam, func(t *testing.T) {
			duur := BerekenProjectDuur(tt.uren, tt.team, tt.urenPerDag)
			if duur.GeschatteDagen != tt.wantDagen {
				t.Errorf("expected %d dagen, got %d", tt.wantDagen, duur.GeschatteDagen)
			}
			if duur.TeamGrootte != tt.wantTeam {
				t.Errorf("expected team %d, got %d", tt.wantTeam, duur.TeamGrootte)
			}
			if duur.UrenPerDag != tt.wantPerDag {
				t.Errorf("expected %v uur per dag, got %v", tt.wantPerDag, duur.UrenPerDag)
			}
		})
	}
}

func TestBerekenProjectDuurMetBuffer(t *testing.T) {
	// 56 uur + 25% = 70 uur, team 2 bij 7 uur per dag = 5 dagen.
	duur := BerekenProjectDuurMetBuffer(56, 2, 7, 25)
	if duur.GeschatteDagen != 5 {
		t.Errorf("expected 5 dagen met buffer, got %d", duur.GeschatteDagen)
	}

	// Buffer van 0 gedraagt zich als de ongebufferde variant.
	zonder := BerekenProjectDuurMetBuffer(56, 2, 7, 0)
	if zonder.GeschatteDagen != 4 {
		t.Errorf("expected 4 dagen zonder buffer, got %d", zonder.GeschatteDagen)
	}
}

func TestTariefLookupVolgorde(t *testing.T) {
	cat := catalogus{normuren: []transport.Normuur{
		{Scope: transport.ScopeBestrating, ActiviteitKey: "tegels", Activiteit: "Sierbestrating tegels leggen", NormuurPerEenheid: 0.35},
		{Scope: transport.ScopeBestrating, ActiviteitKey: "", Activiteit: "Klinkers leggen", NormuurPerEenheid: 0.45},
	}}

	// Exacte key wint.
	if got := cat.tarief(transport.ScopeBestrating, 0.4, "tegels"); got != 0.35 {
		t.Errorf("exact key match: expected 0.35, got %v", got)
	}
	// Substring op omschrijving als er geen key match is.
	if got := cat.tarief(transport.ScopeBestrating, 0.4, "klinkers"); got != 0.45 {
		t.Errorf("substring match: expected 0.45, got %v", got)
	}
	// Tweede kandidaat als de eerste niets oplevert.
	if got := cat.tarief(transport.ScopeBestrating, 0.4, "natuursteen", "tegels"); got != 0.35 {
		t.Errorf("second candidate: expected 0.35, got %v", got)
	}
	// Fallback als niets matcht.
	if got := cat.tarief(transport.ScopeBestrating, 0.4, "natuursteen"); got != 0.4 {
		t.Errorf("fallback: expected 0.4, got %v", got)
	}
	// Verkeerde scope matcht nooit.
	if got := cat.tarief(transport.ScopeGras, 0.12, "tegels"); got != 0.12 {
		t.Errorf("wrong scope: expected fallback 0.12, got %v", got)
	}
}

func TestAttrFloatVerdraagtJSONTypes(t *testing.T) {
	params := map[string]any{
		"f64":     42.5,
		"integer": 7,
		"tekst":   "geen getal",
	}

	if got := attrFloat(params, "f64"); got != 42.5 {
		t.Errorf("float64: expected 42.5, got %v", got)
	}
	if got := attrFloat(params, "integer"); got != 7 {
		t.Errorf("int: expected 7, got %v", got)
	}
	if got := attrFloat(params, "tekst"); got != 0 {
		t.Errorf("string: expected 0, got %v", got)
	}
	if got := attrFloat(params, "ontbreekt"); got != 0 {
		t.Errorf("missing: expected 0, got %v", got)
	}
}
