package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	deliverycontext "coffeexport/internal/delivery/context"
	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/domain/repository"
	"coffeexport/internal/domain/service"
	"coffeexport/internal/errors"
	"coffeexport/internal/usecase"
)

// auditService implements the AuditUsecase interface.
type auditService struct {
	txManager repository.TransactionManager
	recorder  *auditRecorder
	hasher    service.ContentHasher
	archiver  service.ReportArchiver
	logger    *slog.Logger
}

// AuditServiceParams holds dependencies for AuditService, injected by Fx.
type AuditServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Hasher    service.ContentHasher
	Alerts    service.AlertNotifier
	Ledger    service.LedgerAnchor
	Archiver  service.ReportArchiver
	Logger    *slog.Logger
}

// NewAuditService is the constructor for auditService.
func NewAuditService(params AuditServiceParams) usecase.AuditUsecase {
	return &auditService{
		txManager: params.TxManager,
		recorder:  newAuditRecorder(params.TxManager, params.Hasher, params.Alerts, params.Ledger, params.Logger),
		hasher:    params.Hasher,
		archiver:  params.Archiver,
		logger:    params.Logger,
	}
}

func (srv *auditService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// LogEvent appends an entry and returns its generated ID.
func (srv *auditService) LogEvent(ctx context.Context, input *usecase.LogEventInput) (uuid.UUID, error) {
	if input.Action == "" {
		return uuid.Nil, domainerrors.NewMissingRequiredField("action", 0)
	}
	if input.EntityType == "" {
		return uuid.Nil, domainerrors.NewMissingRequiredField("entity_type", 0)
	}

	entry := newEntry(input.Actor, input.EntityType, input.EntityID, input.Action)
	entry.ExportID = input.ExportID
	entry.OldValue = input.OldValue
	entry.NewValue = input.NewValue
	entry.Severity = input.Severity
	entry.ComplianceRelevant = input.ComplianceRelevant
	entry.Description = input.Description

	if err := srv.recorder.record(ctx, entry); err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to log audit event")
	}

	return entry.ID, nil
}

// GetAuditLog retrieves a single entry.
func (srv *auditService) GetAuditLog(ctx context.Context, id uuid.UUID) (*entity.AuditLog, error) {
	var entry *entity.AuditLog

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewAuditRepository().FindAuditLogByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrAuditLogNotFound) {
				return domainerrors.ErrAuditLogNotFound
			}

			return errors.Wrap(err, "failed to find audit log")
		}
		entry = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (srv *auditService) list(ctx context.Context, fetch func(repository.AuditRepository) ([]*entity.AuditLog, error)) ([]*entity.AuditLog, error) {
	var entries []*entity.AuditLog

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := fetch(repoFactory.NewAuditRepository())
		if err != nil {
			return errors.Wrap(err, "failed to list audit logs")
		}
		entries = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// GetExportAuditLogs lists the entries of one export.
func (srv *auditService) GetExportAuditLogs(ctx context.Context, exportID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return srv.list(ctx, func(repo repository.AuditRepository) ([]*entity.AuditLog, error) {
		return repo.ListAuditLogsByExport(ctx, exportID, query)
	})
}

// GetUserAuditLogs lists the entries written by one user.
func (srv *auditService) GetUserAuditLogs(ctx context.Context, userID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return srv.list(ctx, func(repo repository.AuditRepository) ([]*entity.AuditLog, error) {
		return repo.ListAuditLogsByUser(ctx, userID, query)
	})
}

// GetOrganizationAuditLogs lists the entries written on behalf of one organization.
func (srv *auditService) GetOrganizationAuditLogs(ctx context.Context, organizationID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return srv.list(ctx, func(repo repository.AuditRepository) ([]*entity.AuditLog, error) {
		return repo.ListAuditLogsByOrganization(ctx, organizationID, query)
	})
}

// GetAuditLogsByAction lists the entries of one action type.
func (srv *auditService) GetAuditLogsByAction(ctx context.Context, action entity.AuditAction, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return srv.list(ctx, func(repo repository.AuditRepository) ([]*entity.AuditLog, error) {
		return repo.ListAuditLogsByAction(ctx, action, query)
	})
}

// GetExportHistory returns the status timeline of an export in insertion order.
func (srv *auditService) GetExportHistory(ctx context.Context, exportID uuid.UUID) ([]*entity.ExportStatusHistory, error) {
	var history []*entity.ExportStatusHistory

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		exportRepo := repoFactory.NewExportRepository()

		if _, err := exportRepo.FindExportByID(ctx, exportID); err != nil {
			if errors.Is(err, repository.ErrExportNotFound) {
				return domainerrors.ErrExportNotFound
			}

			return errors.Wrap(err, "failed to find export")
		}

		found, err := exportRepo.ListStatusHistory(ctx, exportID)
		if err != nil {
			return errors.Wrap(err, "failed to list export history")
		}
		history = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return history, nil
}

// VerifyAuditLogIntegrity recomputes content hashes and checks ledger status consistency.
func (srv *auditService) VerifyAuditLogIntegrity(ctx context.Context, query entity.AuditQuery) (*entity.IntegrityResult, error) {
	entries, err := srv.list(ctx, func(repo repository.AuditRepository) ([]*entity.AuditLog, error) {
		return repo.ListAuditLogs(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	result := &entity.IntegrityResult{
		Valid:      true,
		Checked:    len(entries),
		Issues:     []string{},
		VerifiedAt: time.Now(),
	}

	for _, entry := range entries {
		issues := srv.checkEntry(entry)
		if len(issues) == 0 {
			continue
		}

		result.Valid = false
		result.InvalidIDs = append(result.InvalidIDs, entry.ID)
		for _, issue := range issues {
			result.Issues = append(result.Issues, fmt.Sprintf("%s: %s", entry.ID, issue))
		}
	}

	if !result.Valid {
		srv.log(ctx).Warn("Audit log integrity check failed",
			slog.Int("checked", result.Checked),
			slog.Int("invalid", len(result.InvalidIDs)),
		)
	}

	return result, nil
}

func (srv *auditService) checkEntry(entry *entity.AuditLog) []string {
	var issues []string

	switch entry.Status {
	case entity.AuditStatusPending:
		if entry.LedgerTxID != "" {
			issues = append(issues, "pending entry carries a ledger transaction")
		}
	case entity.AuditStatusRecorded:
		if entry.LedgerTxID == "" {
			issues = append(issues, "recorded entry has no ledger transaction")
		}
	default:
		issues = append(issues, fmt.Sprintf("unknown status %q", entry.Status))
	}

	if !entry.Severity.IsValid() {
		issues = append(issues, fmt.Sprintf("unknown severity %q", entry.Severity))
	}

	hash, err := srv.hasher.Hash(entry)
	switch {
	case err != nil:
		issues = append(issues, "content hash could not be computed")
	case hash != entry.ContentHash:
		issues = append(issues, "content hash mismatch")
	}

	return issues
}

// GenerateAuditReport aggregates entries in [from, to] and archives the result.
func (srv *auditService) GenerateAuditReport(ctx context.Context, actor entity.Actor, from, to time.Time) (*entity.AuditReport, error) {
	if to.Before(from) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("report window ends before it starts")
	}

	entries, err := srv.list(ctx, func(repo repository.AuditRepository) ([]*entity.AuditLog, error) {
		return repo.ListAuditLogs(ctx, entity.AuditQuery{From: &from, To: &to})
	})
	if err != nil {
		return nil, err
	}

	report := &entity.AuditReport{
		From:         from,
		To:           to,
		TotalEntries: len(entries),
		ByAction:     make(map[entity.AuditAction]int),
		ByEntityType: make(map[entity.AuditEntityType]int),
		BySeverity:   make(map[entity.Severity]int),
		Suspicious:   []*entity.AuditLog{},
		GeneratedAt:  time.Now(),
	}

	for _, entry := range entries {
		report.ByAction[entry.Action]++
		report.ByEntityType[entry.EntityType]++
		report.BySeverity[entry.Severity]++
		if entry.ComplianceRelevant {
			report.ComplianceCount++
		}
		if entry.IsSuspicious() {
			report.Suspicious = append(report.Suspicious, entry)
		}
	}

	if srv.archiver != nil {
		key, err := srv.archiver.Archive(ctx, report)
		switch {
		case err != nil:
			srv.log(ctx).Error("Failed to archive audit report", slog.Any("error", err))
		case key != "":
			report.ArchiveKey = key
		}
	}

	entry := newEntry(actor, entity.AuditEntityReport, report.GeneratedAt.Format(time.RFC3339), entity.AuditActionGenerateReport)
	entry.ComplianceRelevant = true
	entry.NewValue = map[string]any{
		"from":          from.Format(time.RFC3339),
		"to":            to.Format(time.RFC3339),
		"total_entries": report.TotalEntries,
		"suspicious":    len(report.Suspicious),
		"archive_key":   report.ArchiveKey,
	}
	if err := srv.recorder.record(ctx, entry); err != nil {
		srv.log(ctx).Error("Failed to audit report generation", slog.Any("error", err))
	}

	return report, nil
}

// AnchorEntry anchors one ledger-relevant entry to the external ledger.
func (srv *auditService) AnchorEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := srv.GetAuditLog(ctx, id)
	if err != nil {
		return err
	}

	if entry.Status == entity.AuditStatusRecorded {
		return nil
	}
	if !entry.Action.IsLedgerAnchored() {
		return domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("action %s is not anchored to the ledger", entry.Action))
	}

	return srv.recorder.anchor(ctx, entry)
}

// AnchorPending retries anchoring of ledger-relevant entries still PENDING.
func (srv *auditService) AnchorPending(ctx context.Context, query entity.AuditQuery) (int, error) {
	entries, err := srv.list(ctx, func(repo repository.AuditRepository) ([]*entity.AuditLog, error) {
		return repo.ListAuditLogs(ctx, query)
	})
	if err != nil {
		return 0, err
	}

	recorded := 0
	for _, entry := range entries {
		if entry.Status != entity.AuditStatusPending || !entry.Action.IsLedgerAnchored() {
			continue
		}
		if err := srv.recorder.anchor(ctx, entry); err != nil {
			srv.log(ctx).Warn("Ledger anchoring retry failed",
				slog.String("auditID", entry.ID.String()),
				slog.Any("error", err),
			)

			continue
		}
		if entry.Status == entity.AuditStatusRecorded {
			recorded++
		}
	}

	return recorded, nil
}
