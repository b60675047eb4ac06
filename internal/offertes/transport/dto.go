// Package transport defines the offertes module's domain and API types.
package transport

import (
	"time"

	calctransport "groenportaal_backend/internal/calculatie/transport"

	"github.com/google/uuid"
)

// OfferteStatus is the lifecycle state of a quote.
type OfferteStatus string

const (
	StatusConcept      OfferteStatus = "concept"
	StatusVerzonden    OfferteStatus = "verzonden"
	StatusGeaccepteerd OfferteStatus = "geaccepteerd"
	StatusAfgewezen    OfferteStatus = "afgewezen"
	StatusVerlopen     OfferteStatus = "verlopen"
)

// Regel is a quote line item. Amounts are integer cents; the BTW tarief is a
// percentage (21, 9 or 0).
type Regel struct {
	ID                   uuid.UUID               `json:"id"`
	Type                 calctransport.RegelType `json:"type"`
	Scope                calctransport.Scope     `json:"scope,omitempty"`
	Omschrijving         string                  `json:"omschrijving"`
	Hoeveelheid          float64                 `json:"hoeveelheid"`
	Eenheid              string                  `json:"eenheid"`
	PrijsPerEenheidCents int64                   `json:"prijsPerEenheidCents"`
	BTWTarief            int                     `json:"btwTarief"`
	TotaalCents          int64                   `json:"totaalCents"`
}

// Totalen is the server-computed money summary of a quote.
type Totalen struct {
	SubtotaalCents int64 `json:"subtotaalCents"`
	BTWCents       int64 `json:"btwCents"`
	TotaalCents    int64 `json:"totaalCents"`
}

// VoorcalculatieSnapshot captures the estimation stored on the offerte, so
// the project baseline does not shift when catalogs change later.
type VoorcalculatieSnapshot struct {
	Resultaat     calctransport.VoorcalculatieResultaat `json:"resultaat"`
	Duur          *calctransport.ProjectDuur            `json:"duur,omitempty"`
	DuurMetBuffer *calctransport.ProjectDuur            `json:"duurMetBuffer,omitempty"`
	BerekendOp    time.Time                             `json:"berekendOp"`
}

// Offerte is a quote for a landscaping job.
type Offerte struct {
	ID             uuid.UUID                        `json:"id"`
	BedrijfID      uuid.UUID                        `json:"bedrijfId"`
	Nummer         string                           `json:"nummer"`
	Status         OfferteStatus                    `json:"status"`
	KlantNaam      string                           `json:"klantNaam"`
	KlantEmail     string                           `json:"klantEmail"`
	KlantTelefoon  string                           `json:"klantTelefoon,omitempty"`
	KlantAdres     string                           `json:"klantAdres,omitempty"`
	Omschrijving   string                           `json:"omschrijving,omitempty"`
	Scopes         calctransport.ScopeParameters    `json:"scopes"`
	Globaal        calctransport.GlobaleParameters  `json:"globaal"`
	Regels         []Regel                          `json:"regels"`
	Totalen        Totalen                          `json:"totalen"`
	Voorcalculatie *VoorcalculatieSnapshot          `json:"voorcalculatie,omitempty"`
	GeldigTot      *time.Time                       `json:"geldigTot,omitempty"`
	CreatedAt      time.Time                        `json:"createdAt"`
	UpdatedAt      time.Time                        `json:"updatedAt"`
}

// RegelRequest is a line item in a create or update request.
type RegelRequest struct {
	Type                 calctransport.RegelType `json:"type" validate:"required,oneof=arbeid materiaal machine overig"`
	Scope                calctransport.Scope     `json:"scope,omitempty"`
	Omschrijving         string                  `json:"omschrijving" validate:"required,max=500"`
	Hoeveelheid          float64                 `json:"hoeveelheid" validate:"gte=0"`
	Eenheid              string                  `json:"eenheid" validate:"max=20"`
	PrijsPerEenheidCents int64                   `json:"prijsPerEenheidCents" validate:"gte=0"`
	BTWTarief            int                     `json:"btwTarief" validate:"oneof=0 9 21"`
}

// CreateOfferteRequest creates a new concept quote.
type CreateOfferteRequest struct {
	KlantNaam     string                          `json:"klantNaam" validate:"required,min=2,max=200"`
	KlantEmail    string                          `json:"klantEmail" validate:"required,email"`
	KlantTelefoon string                          `json:"klantTelefoon,omitempty" validate:"omitempty,max=20"`
	KlantAdres    string                          `json:"klantAdres,omitempty" validate:"omitempty,max=500"`
	Omschrijving  string                          `json:"omschrijving,omitempty" validate:"omitempty,max=2000"`
	Scopes        calctransport.ScopeParameters   `json:"scopes"`
	Globaal       calctransport.GlobaleParameters `json:"globaal"`
	Regels        []RegelRequest                  `json:"regels" validate:"dive"`
}

// UpdateOfferteRequest replaces the editable fields of a concept quote.
type UpdateOfferteRequest struct {
	KlantNaam     string                          `json:"klantNaam" validate:"required,min=2,max=200"`
	KlantEmail    string                          `json:"klantEmail" validate:"required,email"`
	KlantTelefoon string                          `json:"klantTelefoon,omitempty" validate:"omitempty,max=20"`
	KlantAdres    string                          `json:"klantAdres,omitempty" validate:"omitempty,max=500"`
	Omschrijving  string                          `json:"omschrijving,omitempty" validate:"omitempty,max=2000"`
	Scopes        calctransport.ScopeParameters   `json:"scopes"`
	Globaal       calctransport.GlobaleParameters `json:"globaal"`
	Regels        []RegelRequest                  `json:"regels" validate:"dive"`
}

// VoorcalculatieRequest computes and stores the estimation snapshot.
type VoorcalculatieRequest struct {
	TeamGrootte      int     `json:"teamGrootte" validate:"gte=0,lte=20"`
	UrenPerDag       float64 `json:"urenPerDag" validate:"gte=0,lte=12"`
	BufferPercentage float64 `json:"bufferPercentage" validate:"gte=0,lte=100"`
}

// AfwijzenRequest rejects a sent quote.
type AfwijzenRequest struct {
	Reden string `json:"reden,omitempty" validate:"omitempty,max=1000"`
}

// ListFilter narrows the offerte list.
type ListFilter struct {
	Status OfferteStatus
	Zoek   string
	Limit  int
	Offset int
}
