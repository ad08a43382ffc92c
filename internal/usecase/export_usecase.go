package usecase

import (
	"context"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
)

// CreateExportInput represents the input for opening a new export request
type CreateExportInput struct {
	ExporterID uuid.UUID            `json:"exporter_id" validate:"required"`
	LotID      *uuid.UUID           `json:"lot_id,omitempty"`
	Details    entity.ExportDetails `json:"details" validate:"required"`
	// AsDraft keeps the request in DRAFT until it is explicitly submitted
	AsDraft bool `json:"as_draft"`
}

// TransitionInput is the optional payload of a status transition
type TransitionInput struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// UpdateRejectedInput carries the corrected business fields of a rejected export
type UpdateRejectedInput struct {
	Details entity.ExportDetails `json:"details" validate:"required"`
	Notes   string               `json:"notes"`
}

// ExportUsecase owns the lifecycle of export requests. Every transition either
// commits its status change, history row and audit entry together or writes nothing.
type ExportUsecase interface {
	CreateExport(ctx context.Context, actor entity.Actor, input *CreateExportInput) (*entity.ExportRequest, error)

	// Transition applies any action from the transition table by name.
	Transition(ctx context.Context, actor entity.Actor, exportID uuid.UUID, action entity.ExportAction, input *TransitionInput) (*entity.ExportRequest, error)

	SubmitDraft(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	SubmitToECX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	VerifyECX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RejectECX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	SubmitToECTA(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ApproveLicense(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RejectLicense(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ApproveQuality(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RejectQuality(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ApproveOrigin(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RejectOrigin(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ApproveContract(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RejectContract(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	VerifyBankDocuments(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RejectBankDocuments(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	SubmitFXApplication(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ApproveFX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RejectFX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ClearCustoms(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RejectCustoms(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RequestShipment(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ScheduleShipment(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	MarkShipped(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ConfirmArrival(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ConfirmDelivery(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	RequestPayment(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ConfirmPayment(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	ConfirmFXRepatriation(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	CompleteExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)
	CancelExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)

	// UpdateRejectedExport applies corrections and returns the export to the pending status of its rejected stage.
	UpdateRejectedExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *UpdateRejectedInput) (*entity.ExportRequest, error)
	// ResubmitRejectedExport returns the export to the pending status of its rejected stage unchanged.
	ResubmitRejectedExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *TransitionInput) (*entity.ExportRequest, error)

	// Reads
	GetExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID) (*entity.ExportRequest, error)
	ListExporterExports(ctx context.Context, actor entity.Actor, exporterID uuid.UUID) ([]*entity.ExportRequest, error)
	GetExportApprovals(ctx context.Context, actor entity.Actor, exportID uuid.UUID) ([]*entity.ExportApproval, error)
	AvailableActions(ctx context.Context, actor entity.Actor, exportID uuid.UUID) ([]entity.ExportAction, error)

	// Clearance QR codes for port-side verification
	GenerateClearanceQR(ctx context.Context, actor entity.Actor, exportID uuid.UUID) ([]byte, error)
	ResolveClearanceQR(ctx context.Context, qrData string) (*entity.ExportRequest, error)
}
