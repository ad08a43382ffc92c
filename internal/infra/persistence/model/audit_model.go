package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLogModel is the GORM-specific struct for the 'preregistration_audit_log' table.
// Rows are append-only; a trigger rejects every UPDATE except the ledger reference.
type AuditLogModel struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index"`
	ActorRole          string         `gorm:"type:varchar(30)"`
	OrganizationID     *uuid.UUID     `gorm:"type:uuid;index"`
	EntityType         string         `gorm:"type:varchar(40);not null"`
	EntityID           string         `gorm:"type:varchar(100);not null"`
	ExportID           *uuid.UUID     `gorm:"type:uuid;index"`
	Action             string         `gorm:"type:varchar(50);not null;index"`
	OldValue           map[string]any `gorm:"type:jsonb;serializer:json"`
	NewValue           map[string]any `gorm:"type:jsonb;serializer:json"`
	Severity           string         `gorm:"type:varchar(10);not null"`
	ComplianceRelevant bool           `gorm:"not null;default:false"`
	Description        string         `gorm:"type:text"`
	IPAddress          string         `gorm:"column:ip_address;type:varchar(64)"`
	UserAgent          string         `gorm:"type:text"`
	SessionID          string         `gorm:"type:varchar(100)"`
	Status             string         `gorm:"type:varchar(10);not null;default:'PENDING'"`
	LedgerTxID         *string        `gorm:"column:ledger_tx_id;type:varchar(128)"`
	ContentHash        string         `gorm:"type:varchar(64);not null"`
	CreatedAt          time.Time      `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (AuditLogModel) TableName() string {
	return "preregistration_audit_log"
}
