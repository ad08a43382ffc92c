package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/repository"
)

type qualificationRepository struct {
	conn func() *db
	now  func() time.Time
}

// pickActive returns the ACTIVE record expiring last, mirroring the SQL ordering.
func pickActive[T any](records map[uuid.UUID]T, exporterID uuid.UUID, base func(*T) *entity.Qualification) *T {
	var best *T
	for _, rec := range records {
		q := base(&rec)
		if q.ExporterID != exporterID || q.Status != entity.ArtifactStatusActive {
			continue
		}
		if best == nil || laterExpiry(q, base(best)) {
			picked := rec
			best = &picked
		}
	}

	return best
}

func laterExpiry(a, b *entity.Qualification) bool {
	switch {
	case a.ExpiryDate == nil:
		return false
	case b.ExpiryDate == nil:
		return true
	default:
		return a.ExpiryDate.After(*b.ExpiryDate)
	}
}

func (r *qualificationRepository) FindActiveLaboratory(_ context.Context, exporterID uuid.UUID) (*entity.CoffeeLaboratory, error) {
	var found *entity.CoffeeLaboratory
	r.conn().read(func(st *state) {
		found = pickActive(st.labs, exporterID, func(l *entity.CoffeeLaboratory) *entity.Qualification { return &l.Qualification })
	})
	if found == nil {
		return nil, repository.ErrQualificationNotFound
	}

	return found, nil
}

func (r *qualificationRepository) FindActiveTaster(_ context.Context, exporterID uuid.UUID) (*entity.CoffeeTaster, error) {
	var found *entity.CoffeeTaster
	r.conn().read(func(st *state) {
		found = pickActive(st.tasters, exporterID, func(t *entity.CoffeeTaster) *entity.Qualification { return &t.Qualification })
	})
	if found == nil {
		return nil, repository.ErrQualificationNotFound
	}

	return found, nil
}

func (r *qualificationRepository) FindActiveCompetenceCertificate(_ context.Context, exporterID uuid.UUID) (*entity.CompetenceCertificate, error) {
	var found *entity.CompetenceCertificate
	r.conn().read(func(st *state) {
		found = pickActive(st.certs, exporterID, func(c *entity.CompetenceCertificate) *entity.Qualification { return &c.Qualification })
	})
	if found == nil {
		return nil, repository.ErrQualificationNotFound
	}

	return found, nil
}

func (r *qualificationRepository) FindActiveExportLicense(_ context.Context, exporterID uuid.UUID) (*entity.ExportLicense, error) {
	var found *entity.ExportLicense
	r.conn().read(func(st *state) {
		found = pickActive(st.licenses, exporterID, func(l *entity.ExportLicense) *entity.Qualification { return &l.Qualification })
	})
	if found == nil {
		return nil, repository.ErrQualificationNotFound
	}

	return found, nil
}

func (r *qualificationRepository) stamp(q *entity.Qualification, kind entity.ArtifactKind) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Status == "" {
		q.Status = entity.ArtifactStatusPending
	}
	q.Kind = kind
	now := r.now()
	q.CreatedAt, q.UpdatedAt = now, now
}

func (r *qualificationRepository) CreateLaboratory(_ context.Context, lab *entity.CoffeeLaboratory) error {
	return r.conn().write(func(st *state) error {
		if _, ok := st.exporters[lab.ExporterID]; !ok {
			return repository.ErrExporterNotFound
		}
		if lab.Status == entity.ArtifactStatusActive && activeOf(st, entity.ArtifactKindLaboratory, lab.ExporterID, uuid.Nil) {
			return repository.ErrActiveQualificationExists
		}
		r.stamp(&lab.Qualification, entity.ArtifactKindLaboratory)
		st.labs[lab.ID] = *lab

		return nil
	})
}

func (r *qualificationRepository) CreateTaster(_ context.Context, taster *entity.CoffeeTaster) error {
	return r.conn().write(func(st *state) error {
		if _, ok := st.exporters[taster.ExporterID]; !ok {
			return repository.ErrExporterNotFound
		}
		if taster.Status == entity.ArtifactStatusActive && activeOf(st, entity.ArtifactKindTaster, taster.ExporterID, uuid.Nil) {
			return repository.ErrActiveQualificationExists
		}
		r.stamp(&taster.Qualification, entity.ArtifactKindTaster)
		st.tasters[taster.ID] = *taster

		return nil
	})
}

func (r *qualificationRepository) CreateCompetenceCertificate(_ context.Context, cert *entity.CompetenceCertificate) error {
	return r.conn().write(func(st *state) error {
		if _, ok := st.exporters[cert.ExporterID]; !ok {
			return repository.ErrExporterNotFound
		}
		if cert.Status == entity.ArtifactStatusActive && activeOf(st, entity.ArtifactKindCompetenceCertificate, cert.ExporterID, uuid.Nil) {
			return repository.ErrActiveQualificationExists
		}
		r.stamp(&cert.Qualification, entity.ArtifactKindCompetenceCertificate)
		st.certs[cert.ID] = *cert

		return nil
	})
}

func (r *qualificationRepository) CreateExportLicense(_ context.Context, license *entity.ExportLicense) error {
	return r.conn().write(func(st *state) error {
		if _, ok := st.exporters[license.ExporterID]; !ok {
			return repository.ErrExporterNotFound
		}
		if license.Status == entity.ArtifactStatusActive && activeOf(st, entity.ArtifactKindExportLicense, license.ExporterID, uuid.Nil) {
			return repository.ErrActiveQualificationExists
		}
		r.stamp(&license.Qualification, entity.ArtifactKindExportLicense)
		st.licenses[license.ID] = *license

		return nil
	})
}

// qualificationsOf returns the common fields of every artifact of a kind.
func qualificationsOf(st *state, kind entity.ArtifactKind) []entity.Qualification {
	out := make([]entity.Qualification, 0)
	switch kind {
	case entity.ArtifactKindLaboratory:
		for _, v := range st.labs {
			out = append(out, v.Qualification)
		}
	case entity.ArtifactKindTaster:
		for _, v := range st.tasters {
			out = append(out, v.Qualification)
		}
	case entity.ArtifactKindCompetenceCertificate:
		for _, v := range st.certs {
			out = append(out, v.Qualification)
		}
	case entity.ArtifactKindExportLicense:
		for _, v := range st.licenses {
			out = append(out, v.Qualification)
		}
	}

	return out
}

func activeOf(st *state, kind entity.ArtifactKind, exporterID, except uuid.UUID) bool {
	for _, q := range qualificationsOf(st, kind) {
		if q.ExporterID == exporterID && q.ID != except && q.Status == entity.ArtifactStatusActive {
			return true
		}
	}

	return false
}

func (r *qualificationRepository) FindQualificationByID(_ context.Context, kind entity.ArtifactKind, id uuid.UUID) (*entity.Qualification, error) {
	var found *entity.Qualification
	r.conn().read(func(st *state) {
		for _, q := range qualificationsOf(st, kind) {
			if q.ID == id {
				found = &q

				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrQualificationNotFound
	}

	return found, nil
}

func (r *qualificationRepository) ListQualificationsByExporter(_ context.Context, exporterID uuid.UUID) ([]*entity.Qualification, error) {
	result := make([]*entity.Qualification, 0)
	r.conn().read(func(st *state) {
		for _, kind := range []entity.ArtifactKind{
			entity.ArtifactKindLaboratory,
			entity.ArtifactKindTaster,
			entity.ArtifactKindCompetenceCertificate,
			entity.ArtifactKindExportLicense,
		} {
			group := make([]*entity.Qualification, 0)
			for _, q := range qualificationsOf(st, kind) {
				if q.ExporterID == exporterID {
					group = append(group, &q)
				}
			}
			sort.Slice(group, func(i, j int) bool { return group[i].CreatedAt.Before(group[j].CreatedAt) })
			result = append(result, group...)
		}
	})

	return result, nil
}

func (r *qualificationRepository) UpdateQualificationStatus(_ context.Context, kind entity.ArtifactKind, id uuid.UUID, update repository.QualificationStatusUpdate) error {
	return r.conn().write(func(st *state) error {
		apply := func(q *entity.Qualification) error {
			if update.Status == entity.ArtifactStatusActive && activeOf(st, kind, q.ExporterID, q.ID) {
				return repository.ErrActiveQualificationExists
			}
			q.Status = update.Status
			if update.IssueDate != nil {
				q.IssueDate = update.IssueDate
			}
			if update.ExpiryDate != nil {
				q.ExpiryDate = update.ExpiryDate
			}
			if update.IssuedBy != nil {
				q.IssuedBy = update.IssuedBy
			}
			q.UpdatedAt = r.now()

			return nil
		}

		switch kind {
		case entity.ArtifactKindLaboratory:
			return updateIn(st.labs, id, func(v *entity.CoffeeLaboratory) error { return apply(&v.Qualification) })
		case entity.ArtifactKindTaster:
			return updateIn(st.tasters, id, func(v *entity.CoffeeTaster) error { return apply(&v.Qualification) })
		case entity.ArtifactKindCompetenceCertificate:
			return updateIn(st.certs, id, func(v *entity.CompetenceCertificate) error { return apply(&v.Qualification) })
		case entity.ArtifactKindExportLicense:
			return updateIn(st.licenses, id, func(v *entity.ExportLicense) error { return apply(&v.Qualification) })
		default:
			return repository.ErrQualificationNotFound
		}
	})
}

func updateIn[T any](records map[uuid.UUID]T, id uuid.UUID, fn func(*T) error) error {
	rec, ok := records[id]
	if !ok {
		return repository.ErrQualificationNotFound
	}
	if err := fn(&rec); err != nil {
		return err
	}
	records[id] = rec

	return nil
}
