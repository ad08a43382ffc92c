package memory

import (
	"context"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/repository"
)

type auditRepository struct {
	conn func() *db
}

func (r *auditRepository) AppendAuditLog(_ context.Context, entry *entity.AuditLog) error {
	return r.conn().write(func(st *state) error {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		st.audits = append(st.audits, *entry)

		return nil
	})
}

func (r *auditRepository) FindAuditLogByID(_ context.Context, id uuid.UUID) (*entity.AuditLog, error) {
	var found *entity.AuditLog
	r.conn().read(func(st *state) {
		for _, a := range st.audits {
			if a.ID == id {
				found = &a

				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrAuditLogNotFound
	}

	return found, nil
}

func (r *auditRepository) AttachLedgerTx(_ context.Context, id uuid.UUID, txID string) error {
	return r.conn().write(func(st *state) error {
		for i := range st.audits {
			if st.audits[i].ID != id {
				continue
			}
			if st.audits[i].Status != entity.AuditStatusPending {
				return repository.ErrAuditLogAlreadyRecorded
			}
			st.audits[i].Status = entity.AuditStatusRecorded
			st.audits[i].LedgerTxID = txID

			return nil
		}

		return repository.ErrAuditLogNotFound
	})
}

func (r *auditRepository) ListAuditLogsByExport(_ context.Context, exportID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return r.list(query, func(a *entity.AuditLog) bool { return a.ExportID != nil && *a.ExportID == exportID }), nil
}

func (r *auditRepository) ListAuditLogsByUser(_ context.Context, userID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return r.list(query, func(a *entity.AuditLog) bool { return a.UserID == userID }), nil
}

func (r *auditRepository) ListAuditLogsByOrganization(_ context.Context, organizationID uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return r.list(query, func(a *entity.AuditLog) bool { return a.OrganizationID != nil && *a.OrganizationID == organizationID }), nil
}

func (r *auditRepository) ListAuditLogsByAction(_ context.Context, action entity.AuditAction, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return r.list(query, func(a *entity.AuditLog) bool { return a.Action == action }), nil
}

func (r *auditRepository) ListAuditLogs(_ context.Context, query entity.AuditQuery) ([]*entity.AuditLog, error) {
	return r.list(query, func(*entity.AuditLog) bool { return true }), nil
}

// list returns matches in insertion order, which is also created_at order.
func (r *auditRepository) list(query entity.AuditQuery, match func(*entity.AuditLog) bool) []*entity.AuditLog {
	entries := make([]*entity.AuditLog, 0)
	r.conn().read(func(st *state) {
		skipped := 0
		for _, a := range st.audits {
			if !match(&a) {
				continue
			}
			if query.From != nil && a.CreatedAt.Before(*query.From) {
				continue
			}
			if query.To != nil && a.CreatedAt.After(*query.To) {
				continue
			}
			if skipped < query.Offset {
				skipped++

				continue
			}
			if query.Limit > 0 && len(entries) >= query.Limit {
				return
			}
			entries = append(entries, &a)
		}
	})

	return entries
}
