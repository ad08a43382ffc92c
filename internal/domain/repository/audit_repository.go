package repository

import (
	"context"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/errors"
)

// Domain-specific errors for audit persistence.
var (
	// ErrAuditLogNotFound is returned when an audit entry is not found.
	ErrAuditLogNotFound = errors.New("audit log not found")
	// ErrAuditLogAlreadyRecorded is returned when a ledger reference is attached twice.
	ErrAuditLogAlreadyRecorded = errors.New("audit log already recorded on ledger")
)

// AuditRepository is the append-only audit store. AttachLedgerTx is the only mutation.
type AuditRepository interface {
	AppendAuditLog(ctx context.Context, entry *entity.AuditLog) error
	FindAuditLogByID(ctx context.Context, id uuid.UUID) (*entity.AuditLog, error)

	// AttachLedgerTx moves a PENDING entry to RECORDED with the given ledger reference.
	// Returns ErrAuditLogAlreadyRecorded if the entry is not PENDING.
	AttachLedgerTx(ctx context.Context, id uuid.UUID, txID string) error

	// The list queries return entries oldest first.
	ListAuditLogsByExport(ctx context.Context, exportID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error)
	ListAuditLogsByUser(ctx context.Context, userID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error)
	ListAuditLogsByOrganization(ctx context.Context, organizationID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error)
	ListAuditLogsByAction(ctx context.Context, action entity.AuditAction, query entity.AuditQuery) ([]*entity.AuditLog, error)
	ListAuditLogs(ctx context.Context, query entity.AuditQuery) ([]*entity.AuditLog, error)
}
