// Package models contains domain entities and business models for the estimation service
package models

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a real-estate agent account. Accounts and credentials are
// owned by the identity collaborator; this service reads the shared
// table and never drives signup or login itself.
type Agent struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_agents_uuid" json:"uuid"`

	Email        string  `gorm:"size:255;not null;uniqueIndex:idx_agents_email" json:"email"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"` // Never serialize password hash
	FirstName    string  `gorm:"size:255;not null" json:"first_name"`
	LastName     string  `gorm:"size:255;not null" json:"last_name"`
	AgencyName   *string `gorm:"size:120" json:"agency_name,omitempty"`
	Phone        *string `gorm:"size:20" json:"phone,omitempty"`

	IsActive *bool `gorm:"default:true;index:idx_agents_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_agents_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Relations
	Estimations []Estimation `gorm:"foreignKey:AgentID" json:"-"`
	AuditLogs   []AuditLog   `gorm:"foreignKey:AgentID" json:"-"`
}

func (Agent) TableName() string {
	return "agents"
}

// AgentFilter represents filter criteria for agent queries
type AgentFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// FullName returns the display name used on exported reports
func (a *Agent) FullName() string {
	return a.FirstName + " " + a.LastName
}
