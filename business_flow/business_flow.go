// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/heimanarii/fenua-estim/app/dto"
	"github.com/heimanarii/fenua-estim/models"
	"github.com/heimanarii/fenua-estim/pricing"
)

const RequestIDKey = "X-Request-ID"

// Session identifies the authenticated agent for one request. A nil
// *Session means anonymous: the estimate still runs but nothing is
// persisted. Sessions are issued by the identity collaborator and passed
// explicitly into every flow operation, there is no ambient current-user
// state.
type Session struct {
	AgentID uint   `json:"agent_id"`
	Email   string `json:"email"`
}

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToPriceView renders one amount for display
func ToPriceView(amount int64) dto.PriceView {
	return dto.PriceView{
		Amount:    amount,
		Formatted: pricing.FormatFull(amount),
		Compact:   pricing.FormatCompact(amount),
	}
}

// ToAdjustmentView renders the adjustment engine state for display
func ToAdjustmentView(adj *pricing.Adjuster) dto.AdjustmentView {
	band := adj.Band()
	minBound, maxBound := adj.Bounds()
	return dto.AdjustmentView{
		Value:        ToPriceView(adj.Value()),
		MinBound:     ToPriceView(minBound),
		MaxBound:     ToPriceView(maxBound),
		Step:         pricing.Step,
		Position:     pricing.PositionOf(adj.Value(), minBound, maxBound),
		MidPosition:  pricing.MidPosition(adj.Low(), adj.Mid(), adj.High()),
		LowPosition:  pricing.PositionOf(adj.Low(), minBound, maxBound),
		HighPosition: pricing.PositionOf(adj.High(), minBound, maxBound),
		Band:         band.String(),
		BandLabel:    band.Label(),
		BandColor:    band.Color(),
		DeltaPercent: adj.PercentDelta(),
	}
}

// ToEstimateView renders the estimate triple for display
func ToEstimateView(prixBas, prixMoyen, prixHaut int64, prixM2Moyen float64, comparables models.Comparables) dto.EstimateView {
	if comparables == nil {
		comparables = models.Comparables{}
	}
	return dto.EstimateView{
		PrixBas:     ToPriceView(prixBas),
		PrixMoyen:   ToPriceView(prixMoyen),
		PrixHaut:    ToPriceView(prixHaut),
		PrixM2Moyen: prixM2Moyen,
		Comparables: comparables,
	}
}

// ToEstimationResponse converts a persisted record to its response
// representation, recomputing the derived presentation data from the
// stored triple and override.
func ToEstimationResponse(e *models.Estimation) dto.EstimationResponse {
	adj := e.Adjuster()
	return dto.EstimationResponse{
		UUID:             e.UUID.String(),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		Commune:          e.Commune,
		Categorie:        e.Categorie.String(),
		TypeBien:         e.TypeBien,
		Surface:          e.Surface,
		SurfaceTerrain:   e.SurfaceTerrain,
		EtatBien:         e.EtatBien,
		Caracteristiques: e.Caracteristiques,
		Estimate:         ToEstimateView(e.PrixBas, e.PrixMoyen, e.PrixHaut, e.PrixM2Moyen, e.Comparables),
		Adjustment:       ToAdjustmentView(adj),
		FinalPrice:       ToPriceView(e.FinalPrice()),
		Notes:            e.Notes,
		PhotoURL:         e.PhotoURL,
		ExtraPhotoURLs:   e.ExtraPhotoURLs,
		Sections:         e.SectionVisibility,
	}
}
