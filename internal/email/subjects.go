package email

const (
	subjectOfferteGeaccepteerdFmt = "Bevestiging: offerte %s geaccepteerd"
	subjectFactuurVerzondenFmt    = "Factuur %s"
)
