package repository

import (
	"context"
	"errors"

	"github.com/heimanarii/fenua-estim/models"
	"github.com/heimanarii/fenua-estim/utils"
	"gorm.io/gorm"
)

// EstimationRepositoryImpl implements the EstimationRepository interface
type EstimationRepositoryImpl struct {
	*BaseRepository[models.Estimation, models.EstimationFilter]
}

// NewEstimationRepository creates a new estimation repository
func NewEstimationRepository(db *gorm.DB) EstimationRepository {
	return &EstimationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Estimation, models.EstimationFilter](db),
	}
}

// ByID retrieves an estimation by ID
func (r *EstimationRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Estimation, error) {
	db := r.getDB(ctx)

	var estimation models.Estimation
	err := db.Preload("Agent").Last(&estimation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &estimation, nil
}

// ByUUID retrieves an estimation by UUID
func (r *EstimationRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Estimation, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.EstimationFilter{UUID: &parsedUUID}
	estimations, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(estimations) == 0 {
		return nil, nil
	}

	return estimations[0], nil
}

// ByAgentID retrieves an agent's estimations, newest first, with pagination
func (r *EstimationRepositoryImpl) ByAgentID(ctx context.Context, agentID uint, limit, offset int) ([]*models.Estimation, error) {
	filter := models.EstimationFilter{AgentID: &agentID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// UpdateFields applies a partial field update to an estimation. There is
// no revision check: concurrent editors overwrite each other, last
// writer wins.
func (r *EstimationRepositoryImpl) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	fields["updated_at"] = utils.UTCNow()
	err = db.Model(&models.Estimation{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		return err
	}

	return nil
}

// DeleteByID removes an estimation record
func (r *EstimationRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Delete(&models.Estimation{}, id).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves estimations based on filter criteria
func (r *EstimationRepositoryImpl) ByFilter(ctx context.Context, filter models.EstimationFilter, orderBy string, limit, offset int) ([]*models.Estimation, error) {
	db := r.getDB(ctx)

	var estimations []*models.Estimation
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

	err := query.Find(&estimations).Error
	if err != nil {
		return nil, err
	}

	return estimations, nil
}

// Count returns the number of estimations matching the filter
func (r *EstimationRepositoryImpl) Count(ctx context.Context, filter models.EstimationFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var estimation models.Estimation
	query := r.applyFilter(db.Model(&estimation), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any estimation matching the filter exists
func (r *EstimationRepositoryImpl) Exists(ctx context.Context, filter models.EstimationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *EstimationRepositoryImpl) applyFilter(db *gorm.DB, filter models.EstimationFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.AgentID != nil {
		db = db.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.Commune != nil {
		db = db.Where("commune = ?", *filter.Commune)
	}
	if filter.Categorie != nil {
		db = db.Where("categorie = ?", *filter.Categorie)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}
	if filter.MinPrixMoyen != nil {
		db = db.Where("prix_moyen >= ?", *filter.MinPrixMoyen)
	}
	if filter.MaxPrixMoyen != nil {
		db = db.Where("prix_moyen <= ?", *filter.MaxPrixMoyen)
	}

	return db
}
