package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/repository"
)

type exporterRepository struct {
	conn func() *db
	now  func() time.Time
}

func (r *exporterRepository) CreateExporter(_ context.Context, profile *entity.ExporterProfile) error {
	return r.conn().write(func(st *state) error {
		for _, existing := range st.exporters {
			if existing.UserID == profile.UserID {
				return repository.ErrDuplicateExporter
			}
		}
		if profile.ID == uuid.Nil {
			profile.ID = uuid.New()
		}
		now := r.now()
		profile.CreatedAt, profile.UpdatedAt = now, now
		st.exporters[profile.ID] = *profile

		return nil
	})
}

func (r *exporterRepository) FindExporterByID(_ context.Context, id uuid.UUID) (*entity.ExporterProfile, error) {
	var found *entity.ExporterProfile
	r.conn().read(func(st *state) {
		if p, ok := st.exporters[id]; ok {
			found = &p
		}
	})
	if found == nil {
		return nil, repository.ErrExporterNotFound
	}

	return found, nil
}

func (r *exporterRepository) FindExporterByUserID(_ context.Context, userID uuid.UUID) (*entity.ExporterProfile, error) {
	var found *entity.ExporterProfile
	r.conn().read(func(st *state) {
		for _, p := range st.exporters {
			if p.UserID == userID {
				found = &p

				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrExporterNotFound
	}

	return found, nil
}

func (r *exporterRepository) UpdateExporterStatus(_ context.Context, id uuid.UUID, status entity.ExporterStatus, reviewedBy uuid.UUID, reviewedAt time.Time) error {
	return r.conn().write(func(st *state) error {
		p, ok := st.exporters[id]
		if !ok {
			return repository.ErrExporterNotFound
		}
		p.Status = status
		p.UpdatedAt = reviewedAt
		if status == entity.ExporterStatusActive {
			p.ApprovedBy = &reviewedBy
			p.ApprovedAt = &reviewedAt
		}
		st.exporters[id] = p

		return nil
	})
}

func (r *exporterRepository) SetCapitalVerified(_ context.Context, id uuid.UUID, verified bool) error {
	return r.conn().write(func(st *state) error {
		p, ok := st.exporters[id]
		if !ok {
			return repository.ErrExporterNotFound
		}
		p.CapitalVerified = verified
		p.UpdatedAt = r.now()
		st.exporters[id] = p

		return nil
	})
}

func (r *exporterRepository) ListExportersByStatus(_ context.Context, status entity.ExporterStatus) ([]*entity.ExporterProfile, error) {
	profiles := make([]*entity.ExporterProfile, 0)
	r.conn().read(func(st *state) {
		for _, p := range st.exporters {
			if p.Status == status {
				profiles = append(profiles, &p)
			}
		}
	})
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].CreatedAt.Before(profiles[j].CreatedAt) })

	return profiles, nil
}
