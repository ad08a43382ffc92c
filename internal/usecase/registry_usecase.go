package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
)

// RegisterExporterInput represents the input for exporter self-registration
type RegisterExporterInput struct {
	BusinessName       string              `json:"business_name" validate:"required,max=255"`
	TIN                string              `json:"tin" validate:"required,max=50"`
	RegistrationNumber string              `json:"registration_number" validate:"required,max=100"`
	BusinessType       entity.BusinessType `json:"business_type" validate:"required,business_type"`
	MinimumCapital     float64             `json:"minimum_capital" validate:"gte=0"`
	ContactPerson      string              `json:"contact_person" validate:"max=255"`
	Email              string              `json:"email" validate:"omitempty,email"`
	Phone              string              `json:"phone" validate:"max=50"`
	Address            string              `json:"address"`
}

// ReviewExporterInput is a regulator decision on an exporter profile
type ReviewExporterInput struct {
	Status          entity.ExporterStatus `json:"status" validate:"required,exporter_status"`
	CapitalVerified *bool                 `json:"capital_verified,omitempty"`
	Reason          string                `json:"reason"`
}

// SubmitQualificationInput is an exporter's application for a qualification artifact
type SubmitQualificationInput struct {
	Kind                entity.ArtifactKind `json:"kind" validate:"required,artifact_kind"`
	Number              string              `json:"number" validate:"required,max=100"`
	LaboratoryName      string              `json:"laboratory_name,omitempty"`
	Address             string              `json:"address,omitempty"`
	FullName            string              `json:"full_name,omitempty"`
	IsExclusiveEmployee bool                `json:"is_exclusive_employee,omitempty"`
	CoffeeTypes         []string            `json:"coffee_types,omitempty"`
}

// QualificationStatusInput is a regulator decision on a qualification artifact
type QualificationStatusInput struct {
	Status     entity.ArtifactStatus `json:"status" validate:"required,artifact_status"`
	ExpiryDate *time.Time            `json:"expiry_date,omitempty"`
	Reason     string                `json:"reason"`
}

// RegisterLotInput represents a warehouse-receipted lot entered by the exchange
type RegisterLotInput struct {
	LotNumber        string     `json:"lot_number" validate:"required,max=100"`
	WarehouseReceipt string     `json:"warehouse_receipt" validate:"required,max=100"`
	CoffeeType       string     `json:"coffee_type" validate:"required,max=100"`
	Grade            string     `json:"grade" validate:"required,max=20"`
	QuantityKg       float64    `json:"quantity_kg" validate:"required,gt=0"`
	PurchasedBy      *uuid.UUID `json:"purchased_by,omitempty"`
}

// RecordInspectionInput is the regulator's verdict on a lot
type RecordInspectionInput struct {
	LotID      uuid.UUID `json:"lot_id" validate:"required"`
	ExporterID uuid.UUID `json:"exporter_id" validate:"required"`
	Grade      string    `json:"grade" validate:"required,max=20"`
	CupScore   float64   `json:"cup_score" validate:"gte=0,lte=100"`
	Passed     bool      `json:"passed"`
	Remarks    string    `json:"remarks"`
}

// RecordContractInput is a sales contract submitted for registration
type RecordContractInput struct {
	ContractNumber string  `json:"contract_number" validate:"required,max=100"`
	BuyerName      string  `json:"buyer_name" validate:"required,max=255"`
	BuyerCountry   string  `json:"buyer_country" validate:"required,max=100"`
	QuantityKg     float64 `json:"quantity_kg" validate:"required,gt=0"`
	ValueUSD       float64 `json:"value_usd" validate:"required,gt=0"`
}

// RegistryUsecase maintains the records the qualification validator reads:
// exporter profiles, qualification artifacts, lots, inspections and contracts.
type RegistryUsecase interface {
	RegisterExporter(ctx context.Context, actor entity.Actor, input *RegisterExporterInput) (*entity.ExporterProfile, error)
	GetExporter(ctx context.Context, actor entity.Actor, exporterID uuid.UUID) (*entity.ExporterProfile, error)
	ListExportersByStatus(ctx context.Context, actor entity.Actor, status entity.ExporterStatus) ([]*entity.ExporterProfile, error)
	ReviewExporterProfile(ctx context.Context, actor entity.Actor, exporterID uuid.UUID, input *ReviewExporterInput) (*entity.ExporterProfile, error)

	SubmitQualification(ctx context.Context, actor entity.Actor, exporterID uuid.UUID, input *SubmitQualificationInput) (*entity.Qualification, error)
	SetQualificationStatus(ctx context.Context, actor entity.Actor, kind entity.ArtifactKind, id uuid.UUID, input *QualificationStatusInput) (*entity.Qualification, error)
	ListExporterQualifications(ctx context.Context, actor entity.Actor, exporterID uuid.UUID) ([]*entity.Qualification, error)

	RegisterLot(ctx context.Context, actor entity.Actor, input *RegisterLotInput) (*entity.CoffeeLot, error)
	RecordInspection(ctx context.Context, actor entity.Actor, input *RecordInspectionInput) (*entity.QualityInspection, error)
	RecordContract(ctx context.Context, actor entity.Actor, exporterID uuid.UUID, input *RecordContractInput) (*entity.SalesContract, error)
	ReviewContract(ctx context.Context, actor entity.Actor, contractID uuid.UUID, approve bool) (*entity.SalesContract, error)
}
