package model

import (
	"time"

	"github.com/google/uuid"
)

// QualificationColumns are the columns shared by the four qualification tables.
type QualificationColumns struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ExporterID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Number     string     `gorm:"type:varchar(100);not null"`
	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	IssueDate  *time.Time `gorm:"type:timestamptz"`
	ExpiryDate *time.Time `gorm:"type:timestamptz"`
	IssuedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CoffeeLaboratoryModel is the GORM-specific struct for the 'coffee_laboratories' table.
type CoffeeLaboratoryModel struct {
	QualificationColumns `gorm:"embedded"`
	LaboratoryName       string `gorm:"type:varchar(255);not null"`
	Address              string `gorm:"type:text"`
}

// TableName explicitly sets the table name for GORM.
func (CoffeeLaboratoryModel) TableName() string {
	return "coffee_laboratories"
}

// CoffeeTasterModel is the GORM-specific struct for the 'coffee_tasters' table.
type CoffeeTasterModel struct {
	QualificationColumns `gorm:"embedded"`
	FullName             string `gorm:"type:varchar(255);not null"`
	IsExclusiveEmployee  bool   `gorm:"not null;default:false"`
}

// TableName explicitly sets the table name for GORM.
func (CoffeeTasterModel) TableName() string {
	return "coffee_tasters"
}

// CompetenceCertificateModel is the GORM-specific struct for the 'competence_certificates' table.
type CompetenceCertificateModel struct {
	QualificationColumns `gorm:"embedded"`
}

// TableName explicitly sets the table name for GORM.
func (CompetenceCertificateModel) TableName() string {
	return "competence_certificates"
}

// ExportLicenseModel is the GORM-specific struct for the 'export_licenses' table.
type ExportLicenseModel struct {
	QualificationColumns `gorm:"embedded"`
	CoffeeTypes          []string `gorm:"type:jsonb;serializer:json"`
}

// TableName explicitly sets the table name for GORM.
func (ExportLicenseModel) TableName() string {
	return "export_licenses"
}
