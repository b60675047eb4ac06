package service

import (
	"math"

	"groenportaal_backend/internal/facturen/transport"
)

// BerekenTotalen sums the invoice lines. BTW is computed per line and
// rounded per line, so mixed tariffs stay exact. Minderwerk lines carry a
// negative total and reduce both subtotal and BTW.
func BerekenTotalen(regels []transport.Regel) transport.Totalen {
	var t transport.Totalen
	for _, r := range regels {
		t.SubtotaalCents += r.TotaalCents
		t.BTWCents += int64(math.Round(float64(r.TotaalCents) * float64(r.BTWTarief) / 100))
	}
	t.TotaalCents = t.SubtotaalCents + t.BTWCents
	return t
}

// statusOvergangen defines the allowed invoice lifecycle transitions.
var statusOvergangen = map[transport.FactuurStatus][]transport.FactuurStatus{
	transport.StatusConcept:   {transport.StatusVerzonden},
	transport.StatusVerzonden: {transport.StatusBetaald, transport.StatusVervallen},
}

func overgangToegestaan(van, naar transport.FactuurStatus) bool {
	for _, s := range statusOvergangen[van] {
		if s == naar {
			return true
		}
	}
	return false
}
