package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/heimanarii/fenua-estim/models"
	"github.com/heimanarii/fenua-estim/utils"
	"github.com/redis/go-redis/v9"
)

// ErrValuationProtocol marks responses from the valuation service that
// could not be normalized to a usable estimate. Callers surface these as
// a retry prompt, never as a validation failure.
var ErrValuationProtocol = errors.New("valuation: protocol error")

// ValuationRequest is the wire body sent to the external valuation
// service. Optional fields are omitted entirely when empty, the service
// treats a present-but-empty field differently from an absent one.
type ValuationRequest struct {
	Commune          string   `json:"commune"`
	Categorie        string   `json:"categorie"`
	Surface          float64  `json:"surface"`
	TypeBien         string   `json:"type_bien,omitempty"`
	SurfaceTerrain   *float64 `json:"surface_terrain,omitempty"`
	EtatBien         string   `json:"etat_bien,omitempty"`
	Caracteristiques []string `json:"caracteristiques,omitempty"`
}

// ValuationEstimate is the normalized estimate triple plus market context
type ValuationEstimate struct {
	PrixBas     int64              `json:"prix_bas"`
	PrixMoyen   int64              `json:"prix_moyen"`
	PrixHaut    int64              `json:"prix_haut"`
	PrixM2Moyen float64            `json:"prix_m2_moyen"`
	Comparables models.Comparables `json:"comparables"`
}

// ValuationClient requests price estimates from the external valuation service
type ValuationClient interface {
	Estimate(ctx context.Context, req ValuationRequest) (*ValuationEstimate, error)
}

// ValuationHTTPClient talks to the valuation service over HTTP. When a
// redis client is provided, identical requests within the cache TTL are
// served from cache; caching is best-effort and never fails a request.
type ValuationHTTPClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	Redis      *redis.Client
}

func NewValuationClient(baseURL, apiKey string, timeout time.Duration, redisClient *redis.Client) *ValuationHTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ValuationHTTPClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
		Timeout:    timeout,
		Redis:      redisClient,
	}
}

// wire shape of one estimate; numeric fields are pointers so that an
// absent field is distinguishable from a literal zero
type valuationEstimateJSON struct {
	PrixBas     *float64           `json:"prix_bas"`
	PrixMoyen   *float64           `json:"prix_moyen"`
	PrixHaut    *float64           `json:"prix_haut"`
	PrixM2Moyen *float64           `json:"prix_m2_moyen"`
	Comparables models.Comparables `json:"comparables"`
}

// Estimate posts the property description and normalizes the response.
// The service may answer with a single object or a one-element array
// wrapping one; both yield the same estimate.
func (c *ValuationHTTPClient) Estimate(ctx context.Context, in ValuationRequest) (*ValuationEstimate, error) {
	cacheKey := c.cacheKey(in)
	if cached := c.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/estimate", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValuationProtocol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrValuationProtocol, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: undecodable body: %v", ErrValuationProtocol, err)
	}

	estimate, err := ParseValuationResponse(raw)
	if err != nil {
		return nil, err
	}

	c.cacheSet(ctx, cacheKey, estimate)

	return estimate, nil
}

// ParseValuationResponse normalizes an object-or-array response body to a
// single estimate. An empty array, an array of more than one element, or
// missing/non-positive price fields are protocol errors.
func ParseValuationResponse(raw json.RawMessage) (*ValuationEstimate, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrValuationProtocol)
	}

	var wire valuationEstimateJSON
	if trimmed[0] == '[' {
		var list []valuationEstimateJSON
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValuationProtocol, err)
		}
		if len(list) != 1 {
			return nil, fmt.Errorf("%w: expected one estimate, got %d", ErrValuationProtocol, len(list))
		}
		wire = list[0]
	} else {
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValuationProtocol, err)
		}
	}

	if wire.PrixBas == nil || wire.PrixMoyen == nil || wire.PrixHaut == nil {
		return nil, fmt.Errorf("%w: missing price fields", ErrValuationProtocol)
	}
	if *wire.PrixMoyen <= 0 {
		return nil, fmt.Errorf("%w: non-positive mid price", ErrValuationProtocol)
	}

	estimate := &ValuationEstimate{
		PrixBas:     int64(*wire.PrixBas),
		PrixMoyen:   int64(*wire.PrixMoyen),
		PrixHaut:    int64(*wire.PrixHaut),
		Comparables: wire.Comparables,
	}
	if wire.PrixM2Moyen != nil {
		estimate.PrixM2Moyen = *wire.PrixM2Moyen
	}
	if estimate.Comparables == nil {
		estimate.Comparables = models.Comparables{}
	}

	return estimate, nil
}

func (c *ValuationHTTPClient) cacheKey(in ValuationRequest) string {
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "valuation:estimate:" + hex.EncodeToString(sum[:])
}

func (c *ValuationHTTPClient) cacheGet(ctx context.Context, key string) *ValuationEstimate {
	if c.Redis == nil {
		return nil
	}
	val, err := c.Redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("valuation cache read failed: %v", err)
		}
		return nil
	}
	var estimate ValuationEstimate
	if err := json.Unmarshal([]byte(val), &estimate); err != nil {
		return nil
	}
	return &estimate
}

func (c *ValuationHTTPClient) cacheSet(ctx context.Context, key string, estimate *ValuationEstimate) {
	if c.Redis == nil {
		return
	}
	b, err := json.Marshal(estimate)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, key, b, utils.ValuationCacheTTL).Err(); err != nil {
		log.Printf("valuation cache write failed: %v", err)
	}
}
