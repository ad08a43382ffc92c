package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/domain/repository"
	"coffeexport/internal/errors"
	"coffeexport/internal/infra/persistence/model"
)

// auditRepository implements the repository.AuditRepository interface.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository is the constructor for auditRepository.
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{
		db: db,
	}
}

// AppendAuditLog inserts one entry. The ID, timestamp and content hash are set by the caller.
func (repo *auditRepository) AppendAuditLog(ctx context.Context, entry *entity.AuditLog) error {
	entryM := fromAuditDomain(entry)

	if err := repo.db.WithContext(ctx).Create(entryM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append audit log")
	}

	entry.ID = entryM.ID

	return nil
}

// FindAuditLogByID retrieves one entry.
func (repo *auditRepository) FindAuditLogByID(ctx context.Context, id uuid.UUID) (*entity.AuditLog, error) {
	var entryM model.AuditLogModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entryM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAuditLogNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find audit log")
	}

	return toAuditDomain(&entryM), nil
}

// AttachLedgerTx moves a PENDING entry to RECORDED.
func (repo *auditRepository) AttachLedgerTx(ctx context.Context, id uuid.UUID, txID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AuditLogModel{}).
		Where("id = ? AND status = ?", id, string(entity.AuditStatusPending)).
		Updates(map[string]any{
			"status":       string(entity.AuditStatusRecorded),
			"ledger_tx_id": txID,
		})

	if result.Error != nil {
		if isAppendOnlyViolation(result.Error) {
			return repository.ErrAuditLogAlreadyRecorded
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to attach ledger reference")
	}

	if result.RowsAffected == 0 {
		if _, err := repo.FindAuditLogByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrAuditLogAlreadyRecorded
	}

	return nil
}

// ListAuditLogsByExport lists the entries of one export.
func (repo *auditRepository) ListAuditLogsByExport(ctx context.Context, exportID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return repo.list(ctx, query, "export_id = ?", exportID)
}

// ListAuditLogsByUser lists the entries written by one actor.
func (repo *auditRepository) ListAuditLogsByUser(ctx context.Context, userID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return repo.list(ctx, query, "user_id = ?", userID)
}

// ListAuditLogsByOrganization lists the entries written on behalf of one organization.
func (repo *auditRepository) ListAuditLogsByOrganization(ctx context.Context, organizationID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return repo.list(ctx, query, "organization_id = ?", organizationID)
}

// ListAuditLogsByAction lists the entries of one action.
func (repo *auditRepository) ListAuditLogsByAction(ctx context.Context, action entity.AuditAction, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return repo.list(ctx, query, "action = ?", string(action))
}

// ListAuditLogs lists entries in a window. Report queries are served by a replica when one is configured.
func (repo *auditRepository) ListAuditLogs(ctx context.Context, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return repo.list(ctx, query, "")
}

func (repo *auditRepository) list(ctx context.Context, query entity.AuditQuery, cond string, args ...any) ([]*entity.AuditLog, error) {
	var entryModels []*model.AuditLogModel

	db := repo.db.WithContext(ctx).Clauses(dbresolver.Read).Scopes(auditWindow(query))
	if cond != "" {
		db = db.Where(cond, args...)
	}

	if err := db.Order("created_at ASC, id ASC").Find(&entryModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list audit logs")
	}

	entries := make([]*entity.AuditLog, 0, len(entryModels))
	for _, entryM := range entryModels {
		entries = append(entries, toAuditDomain(entryM))
	}

	return entries, nil
}

func auditWindow(query entity.AuditQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if query.From != nil {
			db = db.Where("created_at >= ?", *query.From)
		}
		if query.To != nil {
			db = db.Where("created_at <= ?", *query.To)
		}
		if query.Limit > 0 {
			db = db.Limit(query.Limit)
		}
		if query.Offset > 0 {
			db = db.Offset(query.Offset)
		}

		return db
	}
}

// --- Mapper Functions ---

func toAuditDomain(data *model.AuditLogModel) *entity.AuditLog {
	entry := &entity.AuditLog{
		ID:                 data.ID,
		UserID:             data.UserID,
		ActorRole:          entity.ActorRole(data.ActorRole),
		OrganizationID:     data.OrganizationID,
		EntityType:         entity.AuditEntityType(data.EntityType),
		EntityID:           data.EntityID,
		ExportID:           data.ExportID,
		Action:             entity.AuditAction(data.Action),
		OldValue:           data.OldValue,
		NewValue:           data.NewValue,
		Severity:           entity.Severity(data.Severity),
		ComplianceRelevant: data.ComplianceRelevant,
		Description:        data.Description,
		IPAddress:          data.IPAddress,
		UserAgent:          data.UserAgent,
		SessionID:          data.SessionID,
		Status:             entity.AuditStatus(data.Status),
		ContentHash:        data.ContentHash,
		CreatedAt:          data.CreatedAt,
	}
	if data.LedgerTxID != nil {
		entry.LedgerTxID = *data.LedgerTxID
	}

	return entry
}

func fromAuditDomain(data *entity.AuditLog) *model.AuditLogModel {
	entryM := &model.AuditLogModel{
		ID:                 data.ID,
		UserID:             data.UserID,
		ActorRole:          string(data.ActorRole),
		OrganizationID:     data.OrganizationID,
		EntityType:         string(data.EntityType),
		EntityID:           data.EntityID,
		ExportID:           data.ExportID,
		Action:             string(data.Action),
		OldValue:           data.OldValue,
		NewValue:           data.NewValue,
		Severity:           string(data.Severity),
		ComplianceRelevant: data.ComplianceRelevant,
		Description:        data.Description,
		IPAddress:          data.IPAddress,
		UserAgent:          data.UserAgent,
		SessionID:          data.SessionID,
		Status:             string(data.Status),
		ContentHash:        data.ContentHash,
		CreatedAt:          data.CreatedAt,
	}
	if data.LedgerTxID != "" {
		txID := data.LedgerTxID
		entryM.LedgerTxID = &txID
	}

	return entryM
}
