package dto

// CommunesResponse lists the communes accepted by the estimate form
type CommunesResponse struct {
	Communes []string `json:"communes"`
}

// TrendPoint is one year of the commune price index
type TrendPoint struct {
	Year         int     `json:"year"`
	PrixM2Moyen  float64 `json:"prix_m2_moyen"`
	DeltaPercent float64 `json:"delta_percent"`
}

// TrendResponse represents the historical price trend of a commune
type TrendResponse struct {
	Commune string       `json:"commune"`
	Points  []TrendPoint `json:"points"`
}
