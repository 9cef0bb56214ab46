package models

import (
	"encoding/json"
	"time"
)

// AuditLog records what happened to an estimation session, including the
// best-effort persistence steps that are never surfaced to the user.
type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	AgentID      *uint           `gorm:"index:idx_audit_agent_id" json:"agent_id,omitempty"`
	Agent        *Agent          `gorm:"foreignKey:AgentID;references:ID" json:"agent,omitempty"`
	Action       string          `gorm:"size:60;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionEstimateRequested    = "estimate_requested"
	AuditActionEstimateFailed       = "estimate_failed"
	AuditActionEstimationSaved      = "estimation_saved"
	AuditActionEstimationSaveFailed = "estimation_save_failed"
	AuditActionPhotoUploaded        = "photo_uploaded"
	AuditActionPhotoUploadFailed    = "photo_upload_failed"
	AuditActionPhotoLinkFailed      = "photo_link_failed"
	AuditActionPriceAdjusted        = "price_adjusted"
	AuditActionEstimationUpdated    = "estimation_updated"
	AuditActionEstimationDeleted    = "estimation_deleted"
	AuditActionHistoryExported      = "history_exported"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	AgentID       *uint
	Action        *string
	Success       *bool
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
