package dto

import (
	"time"

	"github.com/heimanarii/fenua-estim/models"
)

// EstimateRequest represents the property description submitted for an
// estimate. Conditional requirements (surface vs surface_terrain,
// type_bien for apartments) are enforced by the business flow so each
// violation maps to its own user-facing message.
type EstimateRequest struct {
	AgentID          *uint    `json:"-"`
	Commune          string   `json:"commune" validate:"required,commune"`
	Categorie        string   `json:"categorie" validate:"required,oneof=Maison Appartement Terrain"`
	TypeBien         string   `json:"type_bien,omitempty" validate:"omitempty,max=60"`
	Surface          *float64 `json:"surface,omitempty" validate:"omitempty,gt=0"`
	SurfaceTerrain   *float64 `json:"surface_terrain,omitempty" validate:"omitempty,gt=0"`
	EtatBien         string   `json:"etat_bien,omitempty" validate:"omitempty,etat_bien"`
	Caracteristiques []string `json:"caracteristiques,omitempty" validate:"omitempty,dive,max=60"`
}

// PriceView is one price rendered for display
type PriceView struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
	Compact   string `json:"compact"`
}

// EstimateView is the estimate triple plus market context
type EstimateView struct {
	PrixBas     PriceView           `json:"prix_bas"`
	PrixMoyen   PriceView           `json:"prix_moyen"`
	PrixHaut    PriceView           `json:"prix_haut"`
	PrixM2Moyen float64             `json:"prix_m2_moyen"`
	Comparables []models.Comparable `json:"comparables"`
}

// AdjustmentView is the adjustment engine state rendered for display:
// bounds, step, slider positions and the market band of the current value.
type AdjustmentView struct {
	Value        PriceView `json:"value"`
	MinBound     PriceView `json:"min_bound"`
	MaxBound     PriceView `json:"max_bound"`
	Step         int64     `json:"step"`
	Position     float64   `json:"position"`
	MidPosition  float64   `json:"mid_position"`
	LowPosition  float64   `json:"low_position"`
	HighPosition float64   `json:"high_position"`
	Band         string    `json:"band"`
	BandLabel    string    `json:"band_label"`
	BandColor    string    `json:"band_color"`
	DeltaPercent float64   `json:"delta_percent"`
}

// EstimateResponse represents the outcome of an estimate submission.
// RecordUUID is set only when a session existed and persistence
// succeeded; SaveFailed signals a best-effort persistence failure that
// did not invalidate the estimate.
type EstimateResponse struct {
	Message    string         `json:"message"`
	RecordUUID *string        `json:"record_uuid,omitempty"`
	Persisted  bool           `json:"persisted"`
	SaveFailed bool           `json:"save_failed,omitempty"`
	PhotoURL   *string        `json:"photo_url,omitempty"`
	Estimate   EstimateView   `json:"estimate"`
	Adjustment AdjustmentView `json:"adjustment"`
}

// EstimationResponse represents one persisted estimation record with its
// derived presentation data recomputed.
type EstimationResponse struct {
	UUID             string                   `json:"uuid"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        *time.Time               `json:"updated_at,omitempty"`
	Commune          string                   `json:"commune"`
	Categorie        string                   `json:"categorie"`
	TypeBien         *string                  `json:"type_bien,omitempty"`
	Surface          *float64                 `json:"surface,omitempty"`
	SurfaceTerrain   *float64                 `json:"surface_terrain,omitempty"`
	EtatBien         *string                  `json:"etat_bien,omitempty"`
	Caracteristiques []string                 `json:"caracteristiques,omitempty"`
	Estimate         EstimateView             `json:"estimate"`
	Adjustment       AdjustmentView           `json:"adjustment"`
	FinalPrice       PriceView                `json:"final_price"`
	Notes            *string                  `json:"notes,omitempty"`
	PhotoURL         *string                  `json:"photo_url,omitempty"`
	ExtraPhotoURLs   []string                 `json:"extra_photo_urls,omitempty"`
	Sections         models.SectionVisibility `json:"section_visibility,omitempty"`
}

// ListEstimationsRequest represents pagination for the history listing
type ListEstimationsRequest struct {
	AgentID uint `json:"-"`
	Page    int  `json:"page" validate:"omitempty,min=1"`
	Limit   int  `json:"limit" validate:"omitempty,min=1,max=100"`
}

// ListEstimationsResponse represents the paginated history listing
type ListEstimationsResponse struct {
	Items []EstimationResponse `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// UpdateEstimationRequest represents a partial record update. Only the
// adjustable fields are accepted; the estimate triple never changes.
type UpdateEstimationRequest struct {
	UUID              string                   `json:"-"`
	AgentID           uint                     `json:"-"`
	PrixAjuste        *int64                   `json:"prix_ajuste,omitempty" validate:"omitempty,gt=0"`
	Notes             *string                  `json:"notes,omitempty" validate:"omitempty,max=4000"`
	SectionVisibility models.SectionVisibility `json:"section_visibility,omitempty"`
}

// UpdateEstimationResponse represents the record state after an update
type UpdateEstimationResponse struct {
	Message    string             `json:"message"`
	Estimation EstimationResponse `json:"estimation"`
}

// UploadPhotoRequest represents a photo attachment. Index is nil for the
// primary photo and set for supplementary ones.
type UploadPhotoRequest struct {
	UUID             string `json:"-"`
	AgentID          uint   `json:"-"`
	OriginalFilename string `json:"-"`
	ContentType      string `json:"-"`
	Size             int64  `json:"-"`
	Data             []byte `json:"-"`
	Index            *int   `json:"-"`
}

// UploadPhotoResponse represents a stored photo reference
type UploadPhotoResponse struct {
	Message  string  `json:"message"`
	PhotoURL string  `json:"photo_url"`
	ThumbURL *string `json:"thumb_url,omitempty"`
}

// DeleteEstimationResponse represents a deletion acknowledgement
type DeleteEstimationResponse struct {
	Message string `json:"message"`
}
