package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/repository"
)

type exportRepository struct {
	conn func() *db
	now  func() time.Time
}

func (r *exportRepository) CreateExport(_ context.Context, export *entity.ExportRequest) error {
	return r.conn().write(func(st *state) error {
		if _, ok := st.exporters[export.ExporterID]; !ok {
			return repository.ErrExporterNotFound
		}
		if export.ID == uuid.Nil {
			export.ID = uuid.New()
		}
		now := r.now()
		export.CreatedAt, export.UpdatedAt = now, now
		st.exports[export.ID] = *export

		return nil
	})
}

func (r *exportRepository) FindExportByID(_ context.Context, id uuid.UUID) (*entity.ExportRequest, error) {
	var found *entity.ExportRequest
	r.conn().read(func(st *state) {
		if e, ok := st.exports[id]; ok {
			found = &e
		}
	})
	if found == nil {
		return nil, repository.ErrExportNotFound
	}

	return found, nil
}

func (r *exportRepository) ListExportsByExporter(_ context.Context, exporterID uuid.UUID) ([]*entity.ExportRequest, error) {
	exports := make([]*entity.ExportRequest, 0)
	r.conn().read(func(st *state) {
		for _, e := range st.exports {
			if e.ExporterID == exporterID {
				exports = append(exports, &e)
			}
		}
	})
	sort.Slice(exports, func(i, j int) bool { return exports[i].CreatedAt.After(exports[j].CreatedAt) })

	return exports, nil
}

func (r *exportRepository) UpdateExportStatusIfCurrent(_ context.Context, id uuid.UUID, from, to entity.ExportStatus, rejectionReason string) error {
	return r.conn().write(func(st *state) error {
		e, ok := st.exports[id]
		if !ok || e.Status != from {
			return repository.ErrExportStatusConflict
		}
		e.Status = to
		e.RejectionReason = rejectionReason
		e.UpdatedAt = r.now()
		st.exports[id] = e

		return nil
	})
}

func (r *exportRepository) UpdateExportDetails(_ context.Context, id uuid.UUID, details entity.ExportDetails) error {
	return r.conn().write(func(st *state) error {
		e, ok := st.exports[id]
		if !ok {
			return repository.ErrExportNotFound
		}
		e.Apply(details)
		e.UpdatedAt = r.now()
		st.exports[id] = e

		return nil
	})
}

func (r *exportRepository) AppendStatusHistory(_ context.Context, history *entity.ExportStatusHistory) error {
	return r.conn().write(func(st *state) error {
		if _, ok := st.exports[history.ExportID]; !ok {
			return repository.ErrExportNotFound
		}
		st.historySeq++
		history.ID = st.historySeq
		st.history = append(st.history, *history)

		return nil
	})
}

func (r *exportRepository) ListStatusHistory(_ context.Context, exportID uuid.UUID) ([]*entity.ExportStatusHistory, error) {
	history := make([]*entity.ExportStatusHistory, 0)
	r.conn().read(func(st *state) {
		for _, h := range st.history {
			if h.ExportID == exportID {
				history = append(history, &h)
			}
		}
	})

	return history, nil
}

func (r *exportRepository) CountStatusChanges(_ context.Context, exportID uuid.UUID, from, to entity.ExportStatus) (int64, error) {
	var count int64
	r.conn().read(func(st *state) {
		for _, h := range st.history {
			if h.ExportID == exportID && h.OldStatus == from && h.NewStatus == to {
				count++
			}
		}
	})

	return count, nil
}

func (r *exportRepository) AppendApproval(_ context.Context, approval *entity.ExportApproval) error {
	return r.conn().write(func(st *state) error {
		if approval.ID == uuid.Nil {
			approval.ID = uuid.New()
		}
		st.approvals = append(st.approvals, *approval)

		return nil
	})
}

func (r *exportRepository) ListApprovals(_ context.Context, exportID uuid.UUID) ([]*entity.ExportApproval, error) {
	approvals := make([]*entity.ExportApproval, 0)
	r.conn().read(func(st *state) {
		for _, a := range st.approvals {
			if a.ExportID == exportID {
				approvals = append(approvals, &a)
			}
		}
	})

	return approvals, nil
}
