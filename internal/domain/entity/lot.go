package entity

import (
	"time"

	"github.com/google/uuid"
)

// LotStatus is the warehouse status of a coffee lot at the exchange.
type LotStatus string

const (
	LotStatusInWarehouse       LotStatus = "IN_WAREHOUSE"
	LotStatusInspected         LotStatus = "INSPECTED"
	LotStatusReservedForExport LotStatus = "RESERVED_FOR_EXPORT"
	LotStatusExported          LotStatus = "EXPORTED"
)

// CoffeeLot is a warehouse-receipted batch of coffee.
type CoffeeLot struct {
	ID               uuid.UUID  `json:"id"`
	LotNumber        string     `json:"lot_number"`
	WarehouseReceipt string     `json:"warehouse_receipt"`
	CoffeeType       string     `json:"coffee_type"`
	Grade            string     `json:"grade"`
	QuantityKg       float64    `json:"quantity_kg"`
	PurchasedBy      *uuid.UUID `json:"purchased_by,omitempty"`
	Status           LotStatus  `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsOwnedBy reports whether the lot was purchased by the exporter.
func (l *CoffeeLot) IsOwnedBy(exporterID uuid.UUID) bool {
	return l != nil && l.PurchasedBy != nil && *l.PurchasedBy == exporterID
}

// QualityInspection is the regulator's cupping/inspection verdict on a lot.
type QualityInspection struct {
	ID          uuid.UUID `json:"id"`
	LotID       uuid.UUID `json:"lot_id"`
	ExporterID  uuid.UUID `json:"exporter_id"`
	InspectorID uuid.UUID `json:"inspector_id"`
	Grade       string    `json:"grade"`
	CupScore    float64   `json:"cup_score"`
	Passed      bool      `json:"passed"`
	Remarks     string    `json:"remarks,omitempty"`
	InspectedAt time.Time `json:"inspected_at"`
}

// ContractStatus is the registration status of a sales contract.
type ContractStatus string

const (
	ContractStatusPending  ContractStatus = "PENDING"
	ContractStatusApproved ContractStatus = "APPROVED"
	ContractStatusRejected ContractStatus = "REJECTED"
)

// SalesContract is the export sales contract registered with the regulator.
type SalesContract struct {
	ID             uuid.UUID      `json:"id"`
	ExporterID     uuid.UUID      `json:"exporter_id"`
	ContractNumber string         `json:"contract_number"`
	BuyerName      string         `json:"buyer_name"`
	BuyerCountry   string         `json:"buyer_country"`
	QuantityKg     float64        `json:"quantity_kg"`
	ValueUSD       float64        `json:"value_usd"`
	Status         ContractStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
