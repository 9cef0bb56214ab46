// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/heimanarii/fenua-estim/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AgentRepository defines operations for agent accounts
type AgentRepository interface {
	Repository[models.Agent, models.AgentFilter]
	ByEmail(ctx context.Context, email string) (*models.Agent, error)
	ByUUID(ctx context.Context, uuid string) (*models.Agent, error)
}

// EstimationRepository defines operations for estimation records
type EstimationRepository interface {
	Repository[models.Estimation, models.EstimationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Estimation, error)
	ByAgentID(ctx context.Context, agentID uint, limit, offset int) ([]*models.Estimation, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	DeleteByID(ctx context.Context, id uint) error
}

// AuditLogRepository defines operations for audit log entries
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ByAgentID(ctx context.Context, agentID uint, limit, offset int) ([]*models.AuditLog, error)
}
