package businessflow

import (
	"context"
	"testing"

	"github.com/heimanarii/fenua-estim/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommunes(t *testing.T) {
	flow := NewTrendFlow(nil)

	resp, err := flow.ListCommunes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Communes(), resp.Communes)
	assert.Contains(t, resp.Communes, "Papeete")
	assert.Contains(t, resp.Communes, "Bora-Bora")
}

func TestGetTrend(t *testing.T) {
	flow := NewTrendFlow(nil)

	t.Run("KnownCommune", func(t *testing.T) {
		resp, err := flow.GetTrend(context.Background(), "Papeete")
		require.NoError(t, err)
		assert.Equal(t, "Papeete", resp.Commune)
		require.Len(t, resp.Points, 6)

		assert.Equal(t, 2020, resp.Points[0].Year)
		assert.Equal(t, float64(520_000), resp.Points[0].PrixM2Moyen)
		assert.Equal(t, float64(0), resp.Points[0].DeltaPercent)

		// Growth compounds year over year
		assert.Equal(t, 2021, resp.Points[1].Year)
		assert.Equal(t, 4.2, resp.Points[1].DeltaPercent)
		assert.Greater(t, resp.Points[5].PrixM2Moyen, resp.Points[0].PrixM2Moyen)
	})

	t.Run("EveryCommuneHasATrend", func(t *testing.T) {
		for _, commune := range models.Communes() {
			resp, err := flow.GetTrend(context.Background(), commune)
			require.NoError(t, err, "commune %s", commune)
			assert.Len(t, resp.Points, 6)
			assert.Positive(t, resp.Points[0].PrixM2Moyen)
		}
	})

	t.Run("UnknownCommune", func(t *testing.T) {
		_, err := flow.GetTrend(context.Background(), "Atlantis")
		require.Error(t, err)
		assert.True(t, IsCommuneUnknown(err))
	})
}
