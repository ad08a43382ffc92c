package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	deliverycontext "coffeexport/internal/delivery/context"
	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/domain/repository"
	"coffeexport/internal/domain/service"
	"coffeexport/internal/errors"
)

// auditRecorder seals audit entries before they are written and runs the
// out-of-band steps (alerting, ledger anchoring) once they are committed.
type auditRecorder struct {
	txManager repository.TransactionManager
	hasher    service.ContentHasher
	alerts    service.AlertNotifier
	ledger    service.LedgerAnchor
	now       func() time.Time
	logger    *slog.Logger
}

func newAuditRecorder(
	txManager repository.TransactionManager,
	hasher service.ContentHasher,
	alerts service.AlertNotifier,
	ledger service.LedgerAnchor,
	logger *slog.Logger,
) *auditRecorder {
	return &auditRecorder{
		txManager: txManager,
		hasher:    hasher,
		alerts:    alerts,
		ledger:    ledger,
		now:       time.Now,
		logger:    logger,
	}
}

// newEntry builds an entry attributed to actor. Severity and compliance flag are set by the caller.
func newEntry(actor entity.Actor, entityType entity.AuditEntityType, entityID string, action entity.AuditAction) *entity.AuditLog {
	entry := &entity.AuditLog{
		UserID:     actor.ID,
		ActorRole:  actor.Role,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Severity:   entity.SeverityLow,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		SessionID:  actor.SessionID,
	}
	if actor.OrganizationID != uuid.Nil {
		orgID := actor.OrganizationID
		entry.OrganizationID = &orgID
	}

	return entry
}

// seal assigns the server-side fields and the content hash.
func (r *auditRecorder) seal(entry *entity.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	// Postgres stores microseconds; the hash must survive the round trip.
	entry.CreatedAt = r.now().UTC().Truncate(time.Microsecond)
	entry.Status = entity.AuditStatusPending
	entry.LedgerTxID = ""
	if !entry.Severity.IsValid() {
		entry.Severity = entity.SeverityLow
	}

	hash, err := r.hasher.Hash(entry)
	if err != nil {
		return errors.Wrap(err, "failed to hash audit entry")
	}
	entry.ContentHash = hash

	return nil
}

// append seals and writes the entry with the given (possibly transactional) repository.
func (r *auditRecorder) append(ctx context.Context, auditRepo repository.AuditRepository, entry *entity.AuditLog) error {
	if err := r.seal(entry); err != nil {
		return err
	}

	if err := auditRepo.AppendAuditLog(ctx, entry); err != nil {
		return errors.Wrap(err, "failed to append audit entry")
	}

	return nil
}

// record writes the entry in its own transaction and runs the post-commit steps.
func (r *auditRecorder) record(ctx context.Context, entry *entity.AuditLog) error {
	err := r.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return r.append(ctx, repoFactory.NewAuditRepository(), entry)
	})
	if err != nil {
		return err
	}

	r.committed(ctx, entry)

	return nil
}

// committed raises alerts for CRITICAL entries and anchors ledger-relevant ones.
// Failures are logged; the entry itself is already durable.
func (r *auditRecorder) committed(ctx context.Context, entries ...*entity.AuditLog) {
	log := deliverycontext.GetLoggerOrDefault(ctx, r.logger)

	for _, entry := range entries {
		if entry.Severity == entity.SeverityCritical && r.alerts != nil {
			if err := r.alerts.NotifyCritical(ctx, entry); err != nil {
				log.Error("Failed to send critical audit alert",
					slog.String("auditID", entry.ID.String()),
					slog.String("action", string(entry.Action)),
					slog.Any("error", err),
				)
			}
		}

		if entry.Action.IsLedgerAnchored() {
			if err := r.anchor(ctx, entry); err != nil {
				log.Warn("Ledger anchoring failed, entry left pending",
					slog.String("auditID", entry.ID.String()),
					slog.Any("error", err),
				)
			}
		}
	}
}

// anchor submits the entry to the ledger and attaches the returned reference.
func (r *auditRecorder) anchor(ctx context.Context, entry *entity.AuditLog) error {
	if r.ledger == nil {
		return nil
	}

	txID, err := r.ledger.Anchor(ctx, entry)
	if err != nil {
		return errors.Wrap(err, "ledger anchor")
	}
	if txID == "" {
		return nil
	}

	err = r.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.NewAuditRepository().AttachLedgerTx(ctx, entry.ID, txID)
	})
	if err != nil {
		return errors.Wrap(err, "failed to attach ledger transaction")
	}

	entry.Status = entity.AuditStatusRecorded
	entry.LedgerTxID = txID

	return nil
}

// deny records a CRITICAL unauthorized-access entry and returns Unauthorized.
// A failure to write the entry is logged; the refusal stands either way.
func (r *auditRecorder) deny(
	ctx context.Context,
	actor entity.Actor,
	entityType entity.AuditEntityType,
	entityID string,
	exportID *uuid.UUID,
	attempted, why string,
) error {
	entry := newEntry(actor, entityType, entityID, entity.AuditActionUnauthorizedAccess)
	entry.ExportID = exportID
	entry.Severity = entity.SeverityCritical
	entry.ComplianceRelevant = true
	entry.NewValue = map[string]any{"attempted": attempted}
	entry.Description = why

	if err := r.record(ctx, entry); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, r.logger).Error("Failed to audit unauthorized access",
			slog.String("actorID", actor.ID.String()),
			slog.String("attempted", attempted),
			slog.Any("error", err),
		)
	}

	return domainerrors.ErrUnauthorized.WithDetails(why)
}
