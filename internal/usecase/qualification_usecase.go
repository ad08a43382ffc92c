// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
)

// PermitRequirementsInput identifies the artifacts an export permit is issued against.
type PermitRequirementsInput struct {
	ExporterID   uuid.UUID `json:"exporter_id" validate:"required"`
	LotID        uuid.UUID `json:"lot_id" validate:"required"`
	ContractID   uuid.UUID `json:"contract_id" validate:"required"`
	InspectionID uuid.UUID `json:"inspection_id" validate:"required"`
}

// QualificationUsecase answers whether an exporter is qualified to export.
// Business-rule failures are reported in the returned structures; only
// infrastructure failures are returned as errors.
type QualificationUsecase interface {
	// ValidateExporter runs every qualification check and reports the full gap list.
	ValidateExporter(ctx context.Context, exporterID uuid.UUID) (*entity.ExporterValidation, error)

	// CanCreateExportRequest summarizes ValidateExporter into a yes/no with a joined reason.
	CanCreateExportRequest(ctx context.Context, exporterID uuid.UUID) (*entity.ExportEligibility, error)

	// ValidateExportPermitRequirements checks the exporter, lot, contract and inspection together.
	ValidateExportPermitRequirements(ctx context.Context, input *PermitRequirementsInput) (*entity.PermitRequirementsCheck, error)

	// ValidateEstimatedValue reports whether the declared value meets the minimum price per kilogram.
	ValidateEstimatedValue(quantityKg, estimatedValue float64) bool
}
