package model

import (
	"time"

	"github.com/google/uuid"
)

// ExportModel is the GORM-specific struct for the 'exports' table.
type ExportModel struct {
	ExportID           uuid.UUID  `gorm:"column:export_id;type:uuid;primary_key;default:uuid_generate_v7()"`
	ExporterID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	LotID              *uuid.UUID `gorm:"type:uuid"`
	CoffeeType         string     `gorm:"type:varchar(100);not null"`
	Quantity           float64    `gorm:"column:quantity;type:numeric(14,2);not null"`
	DestinationCountry string     `gorm:"type:varchar(100);not null"`
	BuyerName          string     `gorm:"type:varchar(255);not null"`
	EstimatedValue     float64    `gorm:"type:numeric(18,2);not null"`
	Status             string     `gorm:"type:varchar(40);not null;index"`
	RejectionReason    string     `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (ExportModel) TableName() string {
	return "exports"
}

// ExportStatusHistoryModel is the GORM-specific struct for the append-only 'export_status_history' table.
type ExportStatusHistoryModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ExportID  uuid.UUID `gorm:"type:uuid;not null;index"`
	OldStatus *string   `gorm:"type:varchar(40)"`
	NewStatus string    `gorm:"type:varchar(40);not null"`
	ChangedBy uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole string    `gorm:"type:varchar(30)"`
	Action    string    `gorm:"type:varchar(40)"`
	Reason    string    `gorm:"type:text"`
	Notes     string    `gorm:"type:text"`
	ChangedAt time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (ExportStatusHistoryModel) TableName() string {
	return "export_status_history"
}

// ExportApprovalModel is the GORM-specific struct for the 'export_approvals' table.
type ExportApprovalModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ExportID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ApprovalType    string    `gorm:"type:varchar(30);not null"`
	Organization    string    `gorm:"type:varchar(50);not null"`
	ApprovedBy      uuid.UUID `gorm:"type:uuid;not null"`
	Status          string    `gorm:"type:varchar(20);not null"`
	ApprovalDate    time.Time `gorm:"not null"`
	RejectionReason string    `gorm:"type:text"`
}

// TableName explicitly sets the table name for GORM.
func (ExportApprovalModel) TableName() string {
	return "export_approvals"
}
