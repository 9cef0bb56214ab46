package repository

import (
	"context"
	"testing"
	"time"

	"github.com/heimanarii/fenua-estim/models"
	testingutil "github.com/heimanarii/fenua-estim/testing"
	"github.com/heimanarii/fenua-estim/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimationRepository(t *testing.T) {
	if !testingutil.Available() {
		t.Skip("PostgreSQL is not available, skipping repository tests")
	}

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := NewEstimationRepository(testDB.DB)
		ctx := context.Background()

		agent, err := fixtures.CreateTestAgent()
		require.NoError(t, err)

		t.Run("SaveAndLookup", func(t *testing.T) {
			record, err := fixtures.CreateTestEstimation(agent.ID)
			require.NoError(t, err)

			byID, err := repo.ByID(ctx, record.ID)
			require.NoError(t, err)
			require.NotNil(t, byID)
			assert.Equal(t, record.UUID, byID.UUID)
			assert.Equal(t, "Punaauia", byID.Commune)
			assert.Equal(t, int64(48_000_000), byID.PrixMoyen)
			assert.Equal(t, models.StringList{"Piscine", "Vue mer"}, byID.Caracteristiques)

			byUUID, err := repo.ByUUID(ctx, record.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, byUUID)
			assert.Equal(t, record.ID, byUUID.ID)
		})

		t.Run("MissingRecordIsNilNotError", func(t *testing.T) {
			record, err := repo.ByUUID(ctx, "11111111-2222-3333-4444-555555555555")
			require.NoError(t, err)
			assert.Nil(t, record)
		})

		t.Run("ByAgentIDNewestFirst", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			agent, err = fixtures.CreateTestAgent()
			require.NoError(t, err)

			first, err := fixtures.CreateTestEstimation(agent.ID)
			require.NoError(t, err)
			// Push the second record measurably later
			second, err := fixtures.CreateTestEstimation(agent.ID)
			require.NoError(t, err)
			later := first.CreatedAt.Add(1 * time.Hour)
			require.NoError(t, testDB.DB.Model(second).Update("created_at", later).Error)

			records, err := repo.ByAgentID(ctx, agent.ID, 0, 0)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, second.UUID, records[0].UUID)
			assert.Equal(t, first.UUID, records[1].UUID)

			page, err := repo.ByAgentID(ctx, agent.ID, 1, 1)
			require.NoError(t, err)
			require.Len(t, page, 1)
			assert.Equal(t, first.UUID, page[0].UUID)
		})

		t.Run("UpdateFieldsLastWriterWins", func(t *testing.T) {
			record, err := fixtures.CreateTestEstimation(agent.ID)
			require.NoError(t, err)

			require.NoError(t, repo.UpdateFields(ctx, record.ID, map[string]any{
				"prix_ajuste": int64(50_000_000),
				"notes":       "première passe",
			}))
			require.NoError(t, repo.UpdateFields(ctx, record.ID, map[string]any{
				"notes": "seconde passe",
			}))

			updated, err := repo.ByID(ctx, record.ID)
			require.NoError(t, err)
			require.NotNil(t, updated.PrixAjuste)
			assert.Equal(t, int64(50_000_000), *updated.PrixAjuste)
			require.NotNil(t, updated.Notes)
			assert.Equal(t, "seconde passe", *updated.Notes)
			assert.NotNil(t, updated.UpdatedAt)
		})

		t.Run("CountAndFilter", func(t *testing.T) {
			total, err := repo.Count(ctx, models.EstimationFilter{AgentID: &agent.ID})
			require.NoError(t, err)
			assert.Positive(t, total)

			commune := "Punaauia"
			minPrix := int64(40_000_000)
			filtered, err := repo.ByFilter(ctx, models.EstimationFilter{
				AgentID:      &agent.ID,
				Commune:      &commune,
				MinPrixMoyen: &minPrix,
			}, "", 0, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, filtered)

			tooExpensive := int64(1_000_000_000)
			none, err := repo.ByFilter(ctx, models.EstimationFilter{
				AgentID:      &agent.ID,
				MinPrixMoyen: &tooExpensive,
			}, "", 0, 0)
			require.NoError(t, err)
			assert.Empty(t, none)
		})

		t.Run("Delete", func(t *testing.T) {
			record, err := fixtures.CreateTestEstimation(agent.ID)
			require.NoError(t, err)

			require.NoError(t, repo.DeleteByID(ctx, record.ID))

			gone, err := repo.ByID(ctx, record.ID)
			require.NoError(t, err)
			assert.Nil(t, gone)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAuditLogRepository(t *testing.T) {
	if !testingutil.Available() {
		t.Skip("PostgreSQL is not available, skipping repository tests")
	}

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := NewAuditLogRepository(testDB.DB)
		ctx := context.Background()

		agent, err := fixtures.CreateTestAgent()
		require.NoError(t, err)

		_, err = fixtures.CreateTestAuditLog(agent.ID, models.AuditActionEstimateRequested)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAuditLog(agent.ID, models.AuditActionEstimationSaved)
		require.NoError(t, err)

		entries, err := repo.ByAgentID(ctx, agent.ID, 10, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		action := models.AuditActionEstimateRequested
		count, err := repo.Count(ctx, models.AuditLogFilter{AgentID: &agent.ID, Action: &action})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		return nil
	})
	require.NoError(t, err)
}

func TestAgentRepository(t *testing.T) {
	if !testingutil.Available() {
		t.Skip("PostgreSQL is not available, skipping repository tests")
	}

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := NewAgentRepository(testDB.DB)
		ctx := context.Background()

		agent, err := fixtures.CreateTestAgent()
		require.NoError(t, err)

		byEmail, err := repo.ByEmail(ctx, agent.Email)
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, agent.ID, byEmail.ID)
		assert.True(t, utils.IsTrue(byEmail.IsActive))

		byUUID, err := repo.ByUUID(ctx, agent.UUID.String())
		require.NoError(t, err)
		require.NotNil(t, byUUID)
		assert.Equal(t, agent.Email, byUUID.Email)

		missing, err := repo.ByEmail(ctx, "absent@example.pf")
		require.NoError(t, err)
		assert.Nil(t, missing)

		return nil
	})
	require.NoError(t, err)
}
