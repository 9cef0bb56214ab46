package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValuationResponse(t *testing.T) {
	t.Run("SingleObject", func(t *testing.T) {
		raw := json.RawMessage(`{"prix_bas": 42000000, "prix_moyen": 48000000, "prix_haut": 55000000, "prix_m2_moyen": 400000}`)

		estimate, err := ParseValuationResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, int64(42_000_000), estimate.PrixBas)
		assert.Equal(t, int64(48_000_000), estimate.PrixMoyen)
		assert.Equal(t, int64(55_000_000), estimate.PrixHaut)
		assert.Equal(t, float64(400_000), estimate.PrixM2Moyen)
		assert.NotNil(t, estimate.Comparables)
	})

	t.Run("OneElementArrayEqualsObject", func(t *testing.T) {
		object := json.RawMessage(`{"prix_bas": 10000000, "prix_moyen": 12000000, "prix_haut": 15000000}`)
		array := json.RawMessage(`[{"prix_bas": 10000000, "prix_moyen": 12000000, "prix_haut": 15000000}]`)

		fromObject, err := ParseValuationResponse(object)
		require.NoError(t, err)
		fromArray, err := ParseValuationResponse(array)
		require.NoError(t, err)

		assert.Equal(t, fromObject, fromArray)
	})

	t.Run("EmptyArray", func(t *testing.T) {
		_, err := ParseValuationResponse(json.RawMessage(`[]`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValuationProtocol))
	})

	t.Run("MultiElementArray", func(t *testing.T) {
		raw := json.RawMessage(`[{"prix_bas": 1, "prix_moyen": 2, "prix_haut": 3}, {"prix_bas": 4, "prix_moyen": 5, "prix_haut": 6}]`)

		_, err := ParseValuationResponse(raw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValuationProtocol))
	})

	t.Run("MissingPriceFields", func(t *testing.T) {
		_, err := ParseValuationResponse(json.RawMessage(`{"prix_bas": 10000000, "prix_haut": 15000000}`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValuationProtocol))
	})

	t.Run("NonPositiveMidPrice", func(t *testing.T) {
		_, err := ParseValuationResponse(json.RawMessage(`{"prix_bas": 0, "prix_moyen": 0, "prix_haut": 0}`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValuationProtocol))
	})

	t.Run("ZeroLowAndHighAccepted", func(t *testing.T) {
		// Only the mid price has a positivity guarantee on the wire
		estimate, err := ParseValuationResponse(json.RawMessage(`{"prix_bas": 0, "prix_moyen": 12000000, "prix_haut": 0}`))
		require.NoError(t, err)
		assert.Equal(t, int64(0), estimate.PrixBas)
		assert.Equal(t, int64(12_000_000), estimate.PrixMoyen)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		_, err := ParseValuationResponse(json.RawMessage(``))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValuationProtocol))
	})

	t.Run("ComparablesPassedThrough", func(t *testing.T) {
		raw := json.RawMessage(`{"prix_bas": 1000, "prix_moyen": 2000, "prix_haut": 3000, "comparables": [{"titre": "F3 Punaauia", "prix": 39000000, "commune": "Punaauia"}]}`)

		estimate, err := ParseValuationResponse(raw)
		require.NoError(t, err)
		require.Len(t, estimate.Comparables, 1)
		assert.Equal(t, "F3 Punaauia", estimate.Comparables[0].Titre)
		assert.Equal(t, int64(39_000_000), estimate.Comparables[0].Prix)
	})
}

func TestValuationClientEstimate(t *testing.T) {
	t.Run("SendsAuthAndBody", func(t *testing.T) {
		var gotAuth string
		var gotBody ValuationRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"prix_bas": 42000000, "prix_moyen": 48000000, "prix_haut": 55000000}`))
		}))
		defer server.Close()

		client := NewValuationClient(server.URL, "test-key", 5*time.Second, nil)
		estimate, err := client.Estimate(context.Background(), ValuationRequest{
			Commune:   "Punaauia",
			Categorie: "Maison",
			Surface:   120,
		})
		require.NoError(t, err)
		assert.Equal(t, "Bearer test-key", gotAuth)
		assert.Equal(t, "Punaauia", gotBody.Commune)
		assert.Equal(t, float64(120), gotBody.Surface)
		assert.Equal(t, int64(48_000_000), estimate.PrixMoyen)
	})

	t.Run("Non2xxStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewValuationClient(server.URL, "", 5*time.Second, nil)
		_, err := client.Estimate(context.Background(), ValuationRequest{Commune: "Papeete", Categorie: "Terrain", Surface: 800})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValuationProtocol))
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := NewValuationClient("http://127.0.0.1:1", "", 1*time.Second, nil)
		_, err := client.Estimate(context.Background(), ValuationRequest{Commune: "Papeete", Categorie: "Maison", Surface: 100})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValuationProtocol))
	})
}

func TestValuationRequestSerialization(t *testing.T) {
	t.Run("OptionalFieldsOmitted", func(t *testing.T) {
		b, err := json.Marshal(ValuationRequest{Commune: "Papeete", Categorie: "Terrain", Surface: 800})
		require.NoError(t, err)

		var keys map[string]any
		require.NoError(t, json.Unmarshal(b, &keys))
		assert.NotContains(t, keys, "type_bien")
		assert.NotContains(t, keys, "surface_terrain")
		assert.NotContains(t, keys, "etat_bien")
		assert.NotContains(t, keys, "caracteristiques")
	})

	t.Run("SurfaceAlwaysPresent", func(t *testing.T) {
		b, err := json.Marshal(ValuationRequest{Commune: "Papeete", Categorie: "Maison"})
		require.NoError(t, err)

		var keys map[string]any
		require.NoError(t, json.Unmarshal(b, &keys))
		assert.Contains(t, keys, "surface")
	})
}
