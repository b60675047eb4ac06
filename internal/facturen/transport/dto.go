// Package transport defines the facturen module's domain and API types.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// FactuurStatus is the lifecycle state of an invoice.
type FactuurStatus string

const (
	StatusConcept   FactuurStatus = "concept"
	StatusVerzonden FactuurStatus = "verzonden"
	StatusBetaald   FactuurStatus = "betaald"
	StatusVervallen FactuurStatus = "vervallen"
)

// RegelSoort marks a line as regular work or as a variance correction.
type RegelSoort string

const (
	SoortRegulier   RegelSoort = "regulier"
	SoortMeerwerk   RegelSoort = "meerwerk"
	SoortMinderwerk RegelSoort = "minderwerk"
)

// Regel is an invoice line item. Correction lines (meerwerk/minderwerk) are
// generated from the nacalculatie; minderwerk carries a negative total.
type Regel struct {
	ID           uuid.UUID  `json:"id"`
	Soort        RegelSoort `json:"soort"`
	Omschrijving string     `json:"omschrijving"`
	Hoeveelheid  float64    `json:"hoeveelheid"`
	Eenheid      string     `json:"eenheid"`
	TotaalCents  int64      `json:"totaalCents"`
	BTWTarief    int        `json:"btwTarief"`
}

// Totalen is the money summary of an invoice.
type Totalen struct {
	SubtotaalCents int64 `json:"subtotaalCents"`
	BTWCents       int64 `json:"btwCents"`
	TotaalCents    int64 `json:"totaalCents"`
}

// Factuur is an invoice for a completed project.
type Factuur struct {
	ID          uuid.UUID     `json:"id"`
	BedrijfID   uuid.UUID     `json:"bedrijfId"`
	ProjectID   uuid.UUID     `json:"projectId"`
	Nummer      string        `json:"nummer"`
	Status      FactuurStatus `json:"status"`
	KlantNaam   string        `json:"klantNaam"`
	KlantEmail  string        `json:"klantEmail"`
	Regels      []Regel       `json:"regels"`
	Totalen     Totalen       `json:"totalen"`
	Vervaldatum *time.Time    `json:"vervaldatum,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// CreateFactuurRequest drafts an invoice from a completed project.
type CreateFactuurRequest struct {
	ProjectID uuid.UUID `json:"projectId" validate:"required"`
	// UurtariefCents prices the correction line derived from the hour
	// deviation. Zero skips the correction even when the deviation is
	// significant.
	UurtariefCents int64 `json:"uurtariefCents" validate:"gte=0"`
	// SignificantieDrempel is the |deviation %| from which a correction
	// line is added. Zero means the default of 5.
	SignificantieDrempel int `json:"significantieDrempel" validate:"gte=0,lte=100"`
}

// ListFilter narrows the invoice list.
type ListFilter struct {
	Status FactuurStatus
	Limit  int
	Offset int
}
