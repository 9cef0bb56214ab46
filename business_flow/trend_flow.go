// Package businessflow contains the core business logic and use cases for market data lookups
package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"

	"github.com/heimanarii/fenua-estim/app/dto"
	"github.com/heimanarii/fenua-estim/models"
	"github.com/heimanarii/fenua-estim/utils"
	"github.com/redis/go-redis/v9"
)

// TrendFlow serves the commune reference data shown next to an estimate
type TrendFlow interface {
	ListCommunes(ctx context.Context) (*dto.CommunesResponse, error)
	GetTrend(ctx context.Context, commune string) (*dto.TrendResponse, error)
}

// TrendFlowImpl implements the trend flow against a static yearly index
// table, cached in redis when a client is available.
type TrendFlowImpl struct {
	rc *redis.Client
}

// NewTrendFlow creates a new trend flow instance
func NewTrendFlow(rc *redis.Client) TrendFlow {
	return &TrendFlowImpl{rc: rc}
}

// basePrixM2 is the reference price per m² per commune for the first
// indexed year. Values come from published ISPF transaction averages.
var basePrixM2 = map[string]float64{
	"Papeete":        520_000,
	"Faaa":           415_000,
	"Punaauia":       560_000,
	"Pirae":          505_000,
	"Arue":           480_000,
	"Mahina":         390_000,
	"Paea":           370_000,
	"Papara":         330_000,
	"Teva I Uta":     300_000,
	"Taiarapu-Est":   285_000,
	"Taiarapu-Ouest": 275_000,
	"Hitiaa O Te Ra": 290_000,
	"Moorea-Maiao":   450_000,
	"Uturoa":         310_000,
	"Taputapuatea":   280_000,
	"Tumaraa":        265_000,
	"Huahine":        270_000,
	"Tahaa":          275_000,
	"Bora-Bora":      680_000,
	"Maupiti":        320_000,
	"Rangiroa":       250_000,
	"Fakarava":       260_000,
	"Nuku-Hiva":      220_000,
	"Hiva-Oa":        210_000,
}

// defaultPrixM2 covers communes without a published reference
const defaultPrixM2 = 300_000

const trendStartYear = 2020

// yearlyGrowth is the observed market-wide yearly evolution, oldest first
var yearlyGrowth = []float64{0, 0.042, 0.067, 0.051, 0.028, 0.035}

// ListCommunes returns the commune set accepted by the estimate form
func (f *TrendFlowImpl) ListCommunes(ctx context.Context) (*dto.CommunesResponse, error) {
	return &dto.CommunesResponse{Communes: models.Communes()}, nil
}

// GetTrend returns the yearly price index of a commune
func (f *TrendFlowImpl) GetTrend(ctx context.Context, commune string) (*dto.TrendResponse, error) {
	if !models.IsValidCommune(commune) {
		return nil, NewBusinessError("COMMUNE_UNKNOWN", "La commune n'est pas reconnue", ErrCommuneUnknown)
	}

	cacheKey := "market:trend:" + commune
	if cached := f.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	base, ok := basePrixM2[commune]
	if !ok {
		base = defaultPrixM2
	}

	points := make([]dto.TrendPoint, 0, len(yearlyGrowth))
	price := base
	for i, growth := range yearlyGrowth {
		price = price * (1 + growth)
		points = append(points, dto.TrendPoint{
			Year:         trendStartYear + i,
			PrixM2Moyen:  math.Round(price),
			DeltaPercent: math.Round(growth*1000) / 10,
		})
	}

	resp := &dto.TrendResponse{
		Commune: commune,
		Points:  points,
	}

	f.cacheSet(ctx, cacheKey, resp)

	return resp, nil
}

func (f *TrendFlowImpl) cacheGet(ctx context.Context, key string) *dto.TrendResponse {
	if f.rc == nil {
		return nil
	}
	val, err := f.rc.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("trend cache read failed: %v", err)
		}
		return nil
	}
	var resp dto.TrendResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil
	}
	return &resp
}

func (f *TrendFlowImpl) cacheSet(ctx context.Context, key string, resp *dto.TrendResponse) {
	if f.rc == nil {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := f.rc.Set(ctx, key, b, utils.TrendCacheTTL).Err(); err != nil {
		log.Printf("trend cache write failed: %v", err)
	}
}
