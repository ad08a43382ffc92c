package model

import (
	"time"

	"github.com/google/uuid"
)

// CoffeeLotModel is the GORM-specific struct for the 'coffee_lots' table.
type CoffeeLotModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	LotNumber        string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	WarehouseReceipt string     `gorm:"type:varchar(100);not null"`
	CoffeeType       string     `gorm:"type:varchar(100);not null"`
	Grade            string     `gorm:"type:varchar(20)"`
	QuantityKg       float64    `gorm:"type:numeric(14,2);not null"`
	PurchasedBy      *uuid.UUID `gorm:"type:uuid;index"`
	Status           string     `gorm:"type:varchar(30);not null;default:'IN_WAREHOUSE'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (CoffeeLotModel) TableName() string {
	return "coffee_lots"
}

// QualityInspectionModel is the GORM-specific struct for the 'quality_inspections' table.
type QualityInspectionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	LotID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ExporterID  uuid.UUID `gorm:"type:uuid;not null;index"`
	InspectorID uuid.UUID `gorm:"type:uuid;not null"`
	Grade       string    `gorm:"type:varchar(20)"`
	CupScore    float64   `gorm:"type:numeric(5,2)"`
	Passed      bool      `gorm:"not null"`
	Remarks     string    `gorm:"type:text"`
	InspectedAt time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (QualityInspectionModel) TableName() string {
	return "quality_inspections"
}

// SalesContractModel is the GORM-specific struct for the 'sales_contracts' table.
type SalesContractModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ExporterID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ContractNumber string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	BuyerName      string    `gorm:"type:varchar(255);not null"`
	BuyerCountry   string    `gorm:"type:varchar(100);not null"`
	QuantityKg     float64   `gorm:"type:numeric(14,2);not null"`
	ValueUSD       float64   `gorm:"column:value_usd;type:numeric(18,2);not null"`
	Status         string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (SalesContractModel) TableName() string {
	return "sales_contracts"
}
