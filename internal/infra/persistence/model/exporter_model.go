// Package model contains the GORM structs mapped to database tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ExporterProfileModel is the GORM-specific struct for the 'exporter_profiles' table.
type ExporterProfileModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	BusinessName       string     `gorm:"type:varchar(255);not null"`
	TIN                string     `gorm:"column:tin;type:varchar(50);not null"`
	RegistrationNumber string     `gorm:"type:varchar(100);not null"`
	BusinessType       string     `gorm:"type:varchar(30);not null"`
	MinimumCapital     float64    `gorm:"type:numeric(18,2);not null;default:0"`
	CapitalVerified    bool       `gorm:"not null;default:false"`
	ContactPerson      string     `gorm:"type:varchar(255)"`
	Email              string     `gorm:"type:varchar(255)"`
	Phone              string     `gorm:"type:varchar(50)"`
	Address            string     `gorm:"type:text"`
	Status             string     `gorm:"type:varchar(30);not null;default:'PENDING_APPROVAL';index"`
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (ExporterProfileModel) TableName() string {
	return "exporter_profiles"
}
