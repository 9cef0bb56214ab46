// Package testing provides test utilities and database setup for testing the estimation service
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/heimanarii/fenua-estim/models"
	"github.com/heimanarii/fenua-estim/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestAgent creates an active agent account
func (tf *TestFixtures) CreateTestAgent() (*models.Agent, error) {
	// Hash password the way the identity service seeds accounts
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%06d", rand.Intn(900000)+100000)
	agency := "Agence Tiare"

	agent := &models.Agent{
		UUID:         uuid.New(),
		Email:        fmt.Sprintf("teva.%s@example.pf", suffix),
		PasswordHash: string(hashedPassword),
		FirstName:    "Teva",
		LastName:     "Maono",
		AgencyName:   &agency,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(agent).Error; err != nil {
		return nil, fmt.Errorf("failed to create test agent: %w", err)
	}

	return agent, nil
}

// CreateTestEstimation creates an estimation record owned by the agent
func (tf *TestFixtures) CreateTestEstimation(agentID uint) (*models.Estimation, error) {
	surface := 120.0
	etat := models.ConditionBonEtat

	estimation := &models.Estimation{
		UUID:             uuid.New(),
		AgentID:          agentID,
		Commune:          "Punaauia",
		Categorie:        models.CategoryMaison,
		Surface:          &surface,
		EtatBien:         &etat,
		Caracteristiques: models.StringList{"Piscine", "Vue mer"},
		PrixBas:          42_000_000,
		PrixMoyen:        48_000_000,
		PrixHaut:         55_000_000,
		PrixM2Moyen:      400_000,
	}

	if err := tf.DB.DB.Create(estimation).Error; err != nil {
		return nil, fmt.Errorf("failed to create test estimation: %w", err)
	}

	return estimation, nil
}

// CreateTestAuditLog creates one audit entry for the agent
func (tf *TestFixtures) CreateTestAuditLog(agentID uint, action string) (*models.AuditLog, error) {
	ip := "127.0.0.1"

	entry := &models.AuditLog{
		AgentID:   &agentID,
		Action:    action,
		IPAddress: &ip,
		Success:   utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return entry, nil
}
