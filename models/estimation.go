package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heimanarii/fenua-estim/pricing"
	"github.com/heimanarii/fenua-estim/utils"
	"gorm.io/gorm"
)

// PropertyCategory represents the category of an estimated property
type PropertyCategory string

const (
	CategoryMaison      PropertyCategory = "Maison"
	CategoryAppartement PropertyCategory = "Appartement"
	CategoryTerrain     PropertyCategory = "Terrain"
)

// String returns the string representation of the category
func (c PropertyCategory) String() string {
	return string(c)
}

// Valid checks if the category is valid
func (c PropertyCategory) Valid() bool {
	switch c {
	case CategoryMaison, CategoryAppartement, CategoryTerrain:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PropertyCategory
func (c *PropertyCategory) Scan(value any) error {
	if value == nil {
		*c = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*c = PropertyCategory(v)
	case []byte:
		*c = PropertyCategory(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PropertyCategory", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for PropertyCategory
func (c PropertyCategory) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid PropertyCategory: %s", c)
	}
	return string(c), nil
}

// Property condition values accepted by the valuation service
const (
	ConditionARenover    = "A rénover"
	ConditionTravaux     = "Travaux à prévoir"
	ConditionBonEtat     = "Bon état"
	ConditionTresBonEtat = "Très bon état"
	ConditionNeuf        = "Neuf"
)

// PropertyConditions lists the accepted etat_bien values, worst to best.
func PropertyConditions() []string {
	return []string{ConditionARenover, ConditionTravaux, ConditionBonEtat, ConditionTresBonEtat, ConditionNeuf}
}

// StringList is a JSONB-backed list of strings (feature tags, extra
// photo URLs).
type StringList []string

// Value implements the driver.Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

// Scan implements the sql.Scanner interface for StringList
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	return json.Unmarshal(bytes, l)
}

// Comparable is one comparable listing attached to an estimate. The
// valuation service owns the shape; beyond the fields displayed on the
// result card the payload is passed through untouched.
type Comparable struct {
	Titre    string  `json:"titre,omitempty"`
	Commune  string  `json:"commune,omitempty"`
	Prix     int64   `json:"prix,omitempty"`
	Surface  float64 `json:"surface,omitempty"`
	PrixM2   float64 `json:"prix_m2,omitempty"`
	URL      string  `json:"url,omitempty"`
	Distance float64 `json:"distance_km,omitempty"`
}

// Comparables is the JSONB-backed comparable listing sequence
type Comparables []Comparable

// Value implements the driver.Valuer interface for Comparables
func (c Comparables) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]Comparable{})
	}
	return json.Marshal([]Comparable(c))
}

// Scan implements the sql.Scanner interface for Comparables
func (c *Comparables) Scan(value any) error {
	if value == nil {
		*c = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Comparables", value)
	}
	return json.Unmarshal(bytes, c)
}

// SectionVisibility holds the per-section display flags of the exported
// report. Nil means every section is shown.
type SectionVisibility map[string]bool

// Value implements the driver.Valuer interface for SectionVisibility
func (s SectionVisibility) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(map[string]bool(s))
}

// Scan implements the sql.Scanner interface for SectionVisibility
func (s *SectionVisibility) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SectionVisibility", value)
	}
	return json.Unmarshal(bytes, s)
}

// Estimation is one persisted estimation session: the originating form
// input, the estimate triple received from the valuation service, and
// the agent's optional adjustments. The triple is immutable after
// receipt; only prix_ajuste, notes, photos and section_visibility are
// ever updated.
type Estimation struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UUID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_estimations_uuid" json:"uuid"`
	AgentID uint      `gorm:"not null;index:idx_estimations_agent_id" json:"agent_id"`

	// Form input
	Commune          string           `gorm:"size:60;not null;index:idx_estimations_commune" json:"commune"`
	Categorie        PropertyCategory `gorm:"type:varchar(20);not null" json:"categorie"`
	TypeBien         *string          `gorm:"size:60" json:"type_bien,omitempty"`
	Surface          *float64         `json:"surface,omitempty"`
	SurfaceTerrain   *float64         `json:"surface_terrain,omitempty"`
	EtatBien         *string          `gorm:"size:40" json:"etat_bien,omitempty"`
	Caracteristiques StringList       `gorm:"type:jsonb" json:"caracteristiques,omitempty"`

	// Estimate triple (immutable after receipt)
	PrixBas     int64   `gorm:"not null" json:"prix_bas"`
	PrixMoyen   int64   `gorm:"not null" json:"prix_moyen"`
	PrixHaut    int64   `gorm:"not null" json:"prix_haut"`
	PrixM2Moyen float64 `json:"prix_m2_moyen"`

	Comparables Comparables `gorm:"type:jsonb" json:"comparables,omitempty"`

	// Agent adjustments
	PrixAjuste        *int64            `json:"prix_ajuste,omitempty"`
	Notes             *string           `gorm:"type:text" json:"notes,omitempty"`
	PhotoURL          *string           `gorm:"size:500" json:"photo_url,omitempty"`
	ExtraPhotoURLs    StringList        `gorm:"type:jsonb" json:"extra_photo_urls,omitempty"`
	SectionVisibility SectionVisibility `gorm:"type:jsonb" json:"section_visibility,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_estimations_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Agent *Agent `gorm:"foreignKey:AgentID;references:ID" json:"agent,omitempty"`
}

// TableName returns the table name for the model
func (Estimation) TableName() string {
	return "estimations"
}

// BeforeCreate is called before creating a new record
func (e *Estimation) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (e *Estimation) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	e.UpdatedAt = &now
	return nil
}

// Adjuster builds the price-adjustment engine for this record, resuming
// from the saved override when one exists.
func (e *Estimation) Adjuster() *pricing.Adjuster {
	return pricing.NewAdjuster(e.PrixBas, e.PrixMoyen, e.PrixHaut, e.PrixAjuste)
}

// FinalPrice is the price shown on the report: the agent's override when
// set, the mid estimate otherwise.
func (e *Estimation) FinalPrice() int64 {
	if e.PrixAjuste != nil {
		return *e.PrixAjuste
	}
	return e.PrixMoyen
}

// HasAdjustment reports whether the agent moved the price away from the
// mid estimate.
func (e *Estimation) HasAdjustment() bool {
	return e.PrixAjuste != nil && *e.PrixAjuste != e.PrixMoyen
}

// EstimationFilter represents filter criteria for estimation queries
type EstimationFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	AgentID       *uint
	Commune       *string
	Categorie     *PropertyCategory
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	MinPrixMoyen  *int64
	MaxPrixMoyen  *int64
}
