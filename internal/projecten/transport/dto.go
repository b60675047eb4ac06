// Package transport defines the projecten module's domain and API types.
package transport

import (
	"time"

	calctransport "groenportaal_backend/internal/calculatie/transport"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusGepland      ProjectStatus = "gepland"
	StatusInUitvoering ProjectStatus = "in_uitvoering"
	StatusAfgerond     ProjectStatus = "afgerond"
)

// Plan is the frozen estimation baseline copied from the accepted offerte.
// The nacalculatie always compares against this, never against live catalogs.
type Plan struct {
	UrenPerScope   map[calctransport.Scope]float64 `json:"urenPerScope"`
	TotaalUren     float64                         `json:"totaalUren"`
	GeschatteDagen int                             `json:"geschatteDagen"`
	TeamGrootte    int                             `json:"teamGrootte"`
}

// Project is a job in execution, created from an accepted offerte.
type Project struct {
	ID           uuid.UUID                            `json:"id"`
	BedrijfID    uuid.UUID                            `json:"bedrijfId"`
	OfferteID    uuid.UUID                            `json:"offerteId"`
	Naam         string                               `json:"naam"`
	Status       ProjectStatus                        `json:"status"`
	KlantNaam    string                               `json:"klantNaam"`
	KlantEmail   string                               `json:"klantEmail"`
	Scopes       calctransport.ScopeParameters        `json:"scopes"`
	Regels       []calctransport.RegelSnapshot        `json:"regels"`
	Plan         *Plan                                `json:"plan,omitempty"`
	Nacalculatie *calctransport.NacalculatieResultaat `json:"nacalculatie,omitempty"`
	StartDatum   *time.Time                           `json:"startDatum,omitempty"`
	EindDatum    *time.Time                           `json:"eindDatum,omitempty"`
	CreatedAt    time.Time                            `json:"createdAt"`
	UpdatedAt    time.Time                            `json:"updatedAt"`
}

// Foto is a photo attachment stored in object storage.
type Foto struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	ObjectKey string    `json:"objectKey"`
	Bestand   string    `json:"bestand"`
	Notitie   string    `json:"notitie,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UrenRequest appends one hour log entry.
type UrenRequest struct {
	Datum      string              `json:"datum" validate:"required,datetime=2006-01-02"`
	Medewerker string              `json:"medewerker" validate:"required,min=1,max=200"`
	Uren       float64             `json:"uren" validate:"gt=0,lte=24"`
	Scope      calctransport.Scope `json:"scope,omitempty"`
	Notitie    string              `json:"notitie,omitempty" validate:"omitempty,max=1000"`
}

// MachineRequest appends one machine usage entry.
type MachineRequest struct {
	Datum       string              `json:"datum" validate:"required,datetime=2006-01-02"`
	Machine     string              `json:"machine" validate:"required,min=1,max=200"`
	Uren        float64             `json:"uren" validate:"gt=0,lte=24"`
	KostenCents int64               `json:"kostenCents" validate:"gte=0"`
	Scope       calctransport.Scope `json:"scope,omitempty"`
}

// FotoRequest registers a photo and requests an upload URL.
type FotoRequest struct {
	Bestand string `json:"bestand" validate:"required,min=1,max=255"`
	Notitie string `json:"notitie,omitempty" validate:"omitempty,max=1000"`
}

// FotoUploadResponse carries the presigned upload URL for a registered photo.
type FotoUploadResponse struct {
	Foto      Foto   `json:"foto"`
	UploadURL string `json:"uploadUrl"`
}

// ListFilter narrows the project list.
type ListFilter struct {
	Status ProjectStatus
	Limit  int
	Offset int
}
