package service

import (
	"testing"

	"groenportaal_backend/internal/offertes/transport"
)

func TestBerekenRegelTotaal(t *testing.T) {
	tests := []struct {
		naam        string
		hoeveelheid float64
		prijs       int64
		want        int64
	}{
		{"hele aantallen", 10, 2500, 25000},
		{"fractionele hoeveelheid", 2.5, 999, 2498},
		{"afronding naar boven", 3.333, 100, 333},
		{"nul hoeveelheid", 0, 5000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.naam, func(t *testing.T) {
			if got := berekenRegelTotaal(tt.hoeveelheid, tt.prijs); got != tt.want {
				t.Errorf("berekenRegelTotaal(%v, %d) = %d, want %d", tt.hoeveelheid, tt.prijs, got, tt.want)
			}
		})
	}
}

func TestBerekenTotalenGemengdeTarieven(t *testing.T) {
	regels := []transport.Regel{
		{TotaalCents: 100000, BTWTarief: 21}, // 21000 btw
		{TotaalCents: 50000, BTWTarief: 9},   // 4500 btw
		{TotaalCents: 10000, BTWTarief: 0},
	}

	totalen := BerekenTotalen(regels)

	if totalen.SubtotaalCents != 160000 {
		t.Errorf("expected subtotaal 160000, got %d", totalen.SubtotaalCents)
	}
	if totalen.BTWCents != 25500 {
		t.Errorf("expected btw 25500, got %d", totalen.BTWCents)
	}
	if totalen.TotaalCents != 185500 {
		t.Errorf("expected totaal 185500, got %d", totalen.TotaalCents)
	}
}

func TestBerekenTotalenLeeg(t *testing.T) {
	totalen := BerekenTotalen(nil)
	if totalen.TotaalCents != 0 || totalen.SubtotaalCents != 0 || totalen.BTWCents != 0 {
		t.Errorf("empty regels should give zero totals, got %+v", totalen)
	}
}

func TestOvergangToegestaan(t *testing.T) {
	toegestaan := []struct {
		van, naar transport.OfferteStatus
	}{
		{transport.StatusConcept, transport.StatusVerzonden},
		{transport.StatusVerzonden, transport.StatusGeaccepteerd},
		{transport.StatusVerzonden, transport.StatusAfgewezen},
		{transport.StatusVerzonden, transport.StatusVerlopen},
	}
	for _, tt := range toegestaan {
		if !overgangToegestaan(tt.van, tt.naar) {
			t.Errorf("%s -> %s should be allowed", tt.van, tt.naar)
		}
	}

	verboden := []struct {
		van, naar transport.OfferteStatus
	}{
		{transport.StatusConcept, transport.StatusGeaccepteerd},
		{transport.StatusGeaccepteerd, transport.StatusConcept},
		{transport.StatusVerlopen, transport.StatusVerzonden},
		{transport.StatusAfgewezen, transport.StatusGeaccepteerd},
	}
	for _, tt := range verboden {
		if overgangToegestaan(tt.van, tt.naar) {
			t.Errorf("%s -> %s should be rejected", tt.van, tt.naar)
		}
	}
}
