package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
)

// LogEventInput is the fixed-shape record accepted by the audit log
type LogEventInput struct {
	Actor              entity.Actor
	EntityType         entity.AuditEntityType
	EntityID           string
	ExportID           *uuid.UUID
	Action             entity.AuditAction
	OldValue           map[string]any
	NewValue           map[string]any
	Severity           entity.Severity
	ComplianceRelevant bool
	Description        string
}

// AuditUsecase is the append-only compliance log and its query surface
type AuditUsecase interface {
	// LogEvent appends an entry and returns its generated ID. CRITICAL entries raise an alert.
	LogEvent(ctx context.Context, input *LogEventInput) (uuid.UUID, error)

	GetAuditLog(ctx context.Context, id uuid.UUID) (*entity.AuditLog, error)
	GetExportAuditLogs(ctx context.Context, exportID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error)
	GetUserAuditLogs(ctx context.Context, userID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error)
	GetOrganizationAuditLogs(ctx context.Context, organizationID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error)
	GetAuditLogsByAction(ctx context.Context, action entity.AuditAction, query entity.AuditQuery) ([]*entity.AuditLog, error)

	// GetExportHistory returns the status timeline of an export in insertion order.
	GetExportHistory(ctx context.Context, exportID uuid.UUID) ([]*entity.ExportStatusHistory, error)

	// VerifyAuditLogIntegrity recomputes content hashes and checks ledger status consistency.
	VerifyAuditLogIntegrity(ctx context.Context, query entity.AuditQuery) (*entity.IntegrityResult, error)

	// GenerateAuditReport aggregates entries in [from, to] and archives the result.
	GenerateAuditReport(ctx context.Context, actor entity.Actor, from, to time.Time) (*entity.AuditReport, error)

	// AnchorEntry anchors one ledger-relevant entry to the external ledger.
	AnchorEntry(ctx context.Context, id uuid.UUID) error

	// AnchorPending retries anchoring of ledger-relevant entries still PENDING; returns how many were recorded.
	AnchorPending(ctx context.Context, query entity.AuditQuery) (int, error)
}
