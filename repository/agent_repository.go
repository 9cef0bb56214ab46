package repository

import (
	"github.com/heimanarii/fenua-estim/models"
	"github.com/heimanarii/fenua-estim/utils"
	"gorm.io/gorm"

	"context"
)

// AgentRepositoryImpl implements the AgentRepository interface
type AgentRepositoryImpl struct {
	*BaseRepository[models.Agent, models.AgentFilter]
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &AgentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Agent, models.AgentFilter](db),
	}
}

// ByEmail retrieves an agent by email
func (r *AgentRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Agent, error) {
	filter := models.AgentFilter{Email: &email}
	agents, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, nil
	}
	return agents[0], nil
}

// ByUUID retrieves an agent by UUID
func (r *AgentRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Agent, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.AgentFilter{UUID: &parsedUUID}
	agents, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, nil
	}
	return agents[0], nil
}

// ByFilter retrieves agents based on filter criteria
func (r *AgentRepositoryImpl) ByFilter(ctx context.Context, filter models.AgentFilter, orderBy string, limit, offset int) ([]*models.Agent, error) {
	db := r.getDB(ctx)

	var agents []*models.Agent
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&agents).Error
	if err != nil {
		return nil, err
	}

	return agents, nil
}

// Count returns the number of agents matching the filter
func (r *AgentRepositoryImpl) Count(ctx context.Context, filter models.AgentFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var agent models.Agent
	query := r.applyFilter(db.Model(&agent), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any agent matching the filter exists
func (r *AgentRepositoryImpl) Exists(ctx context.Context, filter models.AgentFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AgentRepositoryImpl) applyFilter(db *gorm.DB, filter models.AgentFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
