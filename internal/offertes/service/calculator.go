package service

import (
	"math"

	"groenportaal_backend/internal/offertes/transport"
)

// berekenRegelTotaal computes a line item total in cents. Rounding happens
// once, at the line level.
func berekenRegelTotaal(hoeveelheid float64, prijsPerEenheidCents int64) int64 {
	return int64(math.Round(hoeveelheid * float64(prijsPerEenheidCents)))
}

// BerekenTotalen computes the money summary over the line items. BTW is
// accumulated per line so mixed tariffs (21/9/0) stay exact.
func BerekenTotalen(regels []transport.Regel) transport.Totalen {
	var subtotaal, btw int64
	for _, r := range regels {
		subtotaal += r.TotaalCents
		btw += int64(math.Round(float64(r.TotaalCents) * float64(r.BTWTarief) / 100))
	}
	return transport.Totalen{
		SubtotaalCents: subtotaal,
		BTWCents:       btw,
		TotaalCents:    subtotaal + btw,
	}
}

// statusOvergangen defines the allowed lifecycle transitions.
var statusOvergangen = map[transport.OfferteStatus][]transport.OfferteStatus{
	transport.StatusConcept:   {transport.StatusVerzonden},
	transport.StatusVerzonden: {transport.StatusGeaccepteerd, transport.StatusAfgewezen, transport.StatusVerlopen},
}

// overgangToegestaan reports whether a status transition is allowed.
func overgangToegestaan(van, naar transport.OfferteStatus) bool {
	for _, s := range statusOvergangen[van] {
		if s == naar {
			return true
		}
	}
	return false
}
