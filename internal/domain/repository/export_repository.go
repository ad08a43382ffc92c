package repository

import (
	"context"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/errors"
)

// Domain-specific errors for export persistence.
var (
	// ErrExportNotFound is returned when an export request is not found.
	ErrExportNotFound = errors.New("export not found")
	// ErrExportStatusConflict is returned when the conditional status update matched no row.
	ErrExportStatusConflict = errors.New("export status changed concurrently")
)

// ExportRepository defines the interface for export requests and their append-only trail.
type ExportRepository interface {
	// CreateExport persists a new export request.
	CreateExport(ctx context.Context, export *entity.ExportRequest) error

	// FindExportByID retrieves an export request by its ID.
	FindExportByID(ctx context.Context, id uuid.UUID) (*entity.ExportRequest, error)

	// ListExportsByExporter lists an exporter's requests, newest first.
	ListExportsByExporter(ctx context.Context, exporterID uuid.UUID) ([]*entity.ExportRequest, error)

	// UpdateExportStatusIfCurrent sets the status only when the row still holds status from.
	// Returns ErrExportStatusConflict when no row matched.
	UpdateExportStatusIfCurrent(ctx context.Context, id uuid.UUID, from, to entity.ExportStatus, rejectionReason string) error

	// UpdateExportDetails overwrites the business fields of an export.
	UpdateExportDetails(ctx context.Context, id uuid.UUID, details entity.ExportDetails) error

	// AppendStatusHistory writes one history row; rows are never updated.
	AppendStatusHistory(ctx context.Context, history *entity.ExportStatusHistory) error

	// ListStatusHistory returns an export's history in insertion order.
	ListStatusHistory(ctx context.Context, exportID uuid.UUID) ([]*entity.ExportStatusHistory, error)

	// CountStatusChanges counts history rows that moved the export from one status to another.
	CountStatusChanges(ctx context.Context, exportID uuid.UUID, from, to entity.ExportStatus) (int64, error)

	// AppendApproval writes one stage decision.
	AppendApproval(ctx context.Context, approval *entity.ExportApproval) error

	// ListApprovals returns an export's stage decisions, oldest first.
	ListApprovals(ctx context.Context, exportID uuid.UUID) ([]*entity.ExportApproval, error)
}
