// Package transport defines the data contracts for the calculatie domain:
// the voorcalculatie (estimation) and nacalculatie (variance) engines.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// Scope identifies a category of landscaping work. The set is closed so the
// per-scope calculator registry can be checked for exhaustiveness.
type Scope string

const (
	ScopeGrondwerk        Scope = "grondwerk"
	ScopeBestrating       Scope = "bestrating"
	ScopeBorders          Scope = "borders"
	ScopeGras             Scope = "gras"
	ScopeHoutwerk         Scope = "houtwerk"
	ScopeWaterElektra     Scope = "water_elektra"
	ScopeGrasOnderhoud    Scope = "gras_onderhoud"
	ScopeBordersOnderhoud Scope = "borders_onderhoud"
	ScopeHeggen           Scope = "heggen"
	ScopeBomen            Scope = "bomen"
)

// AlleScopes lists every known scope in canonical order.
var AlleScopes = []Scope{
	ScopeGrondwerk,
	ScopeBestrating,
	ScopeBorders,
	ScopeGras,
	ScopeHoutwerk,
	ScopeWaterElektra,
	ScopeGrasOnderhoud,
	ScopeBordersOnderhoud,
	ScopeHeggen,
	ScopeBomen,
}

// Geldig reports whether the scope is one of the known scopes.
func (s Scope) Geldig() bool {
	for _, known := range AlleScopes {
		if s == known {
			return true
		}
	}
	return false
}

// ScopeParameters maps a scope to its loosely-typed attribute bag
// (oppervlakte, diepte, lengte, aantallen, ...). Attributes are read
// defensively: missing numbers become 0, missing strings become "".
type ScopeParameters map[Scope]map[string]any

// GlobaleParameters are site-wide modifiers that apply to every scope.
type GlobaleParameters struct {
	Bereikbaarheid    string `json:"bereikbaarheid"`              // goed, beperkt, slecht
	Achterstalligheid string `json:"achterstalligheid,omitempty"` // laag, gemiddeld, hoog; empty = n.v.t.
}

// Normuur is a unit rate for one activity within a scope: hours per unit.
// ActiviteitKey is the canonical tag used for lookup; Activiteit is the
// free-text catalog name retained for legacy substring matching.
type Normuur struct {
	ID                uuid.UUID `json:"id"`
	Scope             Scope     `json:"scope"`
	ActiviteitKey     string    `json:"activiteitKey"`
	Activiteit        string    `json:"activiteit"`
	Eenheid           string    `json:"eenheid"`
	NormuurPerEenheid float64   `json:"normuurPerEenheid"`
}

// Correctiefactor is a multiplicative modifier keyed by (type, waarde),
// e.g. ("bereikbaarheid", "slecht") -> 1.5. Missing lookups default to 1.0.
type Correctiefactor struct {
	ID     uuid.UUID `json:"id"`
	Type   string    `json:"type"`
	Waarde string    `json:"waarde"`
	Factor float64   `json:"factor"`
}

// RegelType classifies an offerte line item.
type RegelType string

const (
	RegelTypeArbeid    RegelType = "arbeid"
	RegelTypeMateriaal RegelType = "materiaal"
	RegelTypeMachine   RegelType = "machine"
	RegelTypeOverig    RegelType = "overig"
)

// RegelSnapshot is the engine's view of an offerte line item. The offertes
// module maps its rows into this shape so the calculators stay decoupled
// from quote storage.
type RegelSnapshot struct {
	Type         RegelType `json:"type"`
	Scope        Scope     `json:"scope,omitempty"`
	Omschrijving string    `json:"omschrijving"`
	Hoeveelheid  float64   `json:"hoeveelheid"`
	Eenheid      string    `json:"eenheid,omitempty"`
	TotaalCents  int64     `json:"totaalCents"`
}

// VoorcalculatieResultaat is the output of the estimation engine.
// Hours are rounded to 2 decimals at this boundary.
type VoorcalculatieResultaat struct {
	UrenPerScope             map[Scope]float64 `json:"urenPerScope"`
	TotaalUren               float64           `json:"totaalUren"`
	BereikbaarheidsFactor    float64           `json:"bereikbaarheidsFactor"`
	AchterstalligheidsFactor float64           `json:"achterstalligheidsFactor"`
}

// ProjectDuur is the derived duration estimate for a project.
type ProjectDuur struct {
	TeamGrootte    int     `json:"teamGrootte"`
	UrenPerDag     float64 `json:"urenPerDag"`
	GeschatteDagen int     `json:"geschatteDagen"`
}

// Urenregistratie is a single actual-work record. Entries are append-only;
// the calculators aggregate them and never mutate them.
type Urenregistratie struct {
	ID         uuid.UUID `json:"id"`
	Datum      time.Time `json:"datum"`
	Medewerker string    `json:"medewerker"`
	Uren       float64   `json:"uren"`
	Scope      Scope     `json:"scope,omitempty"` // empty = unscoped work
	Notitie    string    `json:"notitie,omitempty"`
}

// Machinegebruik records machine usage on a project.
type Machinegebruik struct {
	ID          uuid.UUID `json:"id"`
	Datum       time.Time `json:"datum"`
	Uren        float64   `json:"uren"`
	KostenCents int64     `json:"kostenCents"`
	Scope       Scope     `json:"scope,omitempty"`
}

// AfwijkingsStatus classifies a deviation percentage.
type AfwijkingsStatus string

const (
	StatusGoed    AfwijkingsStatus = "good"
	StatusLetOp   AfwijkingsStatus = "warning"
	StatusKritiek AfwijkingsStatus = "critical"
)

// InzichtType is the severity of a generated insight.
type InzichtType string

const (
	InzichtSucces       InzichtType = "success"
	InzichtWaarschuwing InzichtType = "warning"
	InzichtKritiek      InzichtType = "critical"
)

// Inzicht is a qualitative, human-readable finding from the variance engine.
type Inzicht struct {
	Type    InzichtType `json:"type"`
	Titel   string      `json:"titel"`
	Bericht string      `json:"bericht"`
	Scope   Scope       `json:"scope,omitempty"`
}

// ScopeAfwijking is the planned-vs-actual comparison for one scope.
type ScopeAfwijking struct {
	Scope               Scope            `json:"scope"`
	GeplandeUren        float64          `json:"geplandeUren"`
	WerkelijkeUren      float64          `json:"werkelijkeUren"`
	AfwijkingUren       float64          `json:"afwijkingUren"`
	AfwijkingPercentage int              `json:"afwijkingPercentage"`
	Status              AfwijkingsStatus `json:"status"`
}

// MachineKostenAfwijking compares planned machine costs (machine-type offerte
// regels) against logged machine usage.
type MachineKostenAfwijking struct {
	GeplandCents        int64            `json:"geplandCents"`
	WerkelijkCents      int64            `json:"werkelijkCents"`
	AfwijkingCents      int64            `json:"afwijkingCents"`
	AfwijkingPercentage int              `json:"afwijkingPercentage"`
	Status              AfwijkingsStatus `json:"status"`
}

// NacalculatieResultaat is the output of the variance engine.
// Deviations are signed: positive means over budget.
type NacalculatieResultaat struct {
	GeplandeUren        float64                `json:"geplandeUren"`
	WerkelijkeUren      float64                `json:"werkelijkeUren"`
	GeschatteDagen      int                    `json:"geschatteDagen"`
	WerkelijkeDagen     int                    `json:"werkelijkeDagen"`
	AantalMedewerkers   int                    `json:"aantalMedewerkers"`
	AantalRegistraties  int                    `json:"aantalRegistraties"`
	AfwijkingUren       float64                `json:"afwijkingUren"`
	AfwijkingPercentage int                    `json:"afwijkingPercentage"`
	AfwijkingDagen      int                    `json:"afwijkingDagen"`
	Status              AfwijkingsStatus       `json:"status"`
	ScopeAfwijkingen    []ScopeAfwijking       `json:"scopeAfwijkingen"`
	MachineKosten       MachineKostenAfwijking `json:"machineKosten"`
	Inzichten           []Inzicht              `json:"inzichten"`
}

// ── Requests ──────────────────────────────────────────────────────────────────

// VoorcalculatieRequest is the request body for an estimation preview.
type VoorcalculatieRequest struct {
	Scopes           ScopeParameters   `json:"scopes" validate:"required"`
	Globaal          GlobaleParameters `json:"globaal"`
	Regels           []RegelSnapshot   `json:"regels"`
	TeamGrootte      int               `json:"teamGrootte" validate:"omitempty,min=0,max=20"`
	UrenPerDag       float64           `json:"urenPerDag" validate:"omitempty,gt=0,lte=12"`
	BufferPercentage float64           `json:"bufferPercentage" validate:"omitempty,min=0,max=100"`
}

// VoorcalculatieResponse bundles the estimation with its derived duration.
type VoorcalculatieResponse struct {
	Resultaat     VoorcalculatieResultaat `json:"resultaat"`
	Duur          *ProjectDuur            `json:"duur,omitempty"`
	DuurMetBuffer *ProjectDuur            `json:"duurMetBuffer,omitempty"`
}

// NormuurRequest creates or updates a tenant override for a unit rate.
type NormuurRequest struct {
	Scope             Scope   `json:"scope" validate:"required"`
	ActiviteitKey     string  `json:"activiteitKey" validate:"required,min=1,max=100"`
	Activiteit        string  `json:"activiteit" validate:"required,min=1,max=200"`
	Eenheid           string  `json:"eenheid" validate:"required,min=1,max=20"`
	NormuurPerEenheid float64 `json:"normuurPerEenheid" validate:"gt=0"`
}

// CorrectiefactorRequest creates or updates a tenant override for a factor.
type CorrectiefactorRequest struct {
	Type   string  `json:"type" validate:"required,min=1,max=100"`
	Waarde string  `json:"waarde" validate:"required,min=1,max=100"`
	Factor float64 `json:"factor" validate:"gt=0"`
}
