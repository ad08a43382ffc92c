package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/domain/repository"
	"coffeexport/internal/errors"
	"coffeexport/internal/infra/persistence/model"
)

//nolint:gochecknoglobals
var qualificationTables = map[entity.ArtifactKind]string{
	entity.ArtifactKindLaboratory:            model.CoffeeLaboratoryModel{}.TableName(),
	entity.ArtifactKindTaster:                model.CoffeeTasterModel{}.TableName(),
	entity.ArtifactKindCompetenceCertificate: model.CompetenceCertificateModel{}.TableName(),
	entity.ArtifactKindExportLicense:         model.ExportLicenseModel{}.TableName(),
}

// qualificationRepository implements the repository.QualificationRepository interface.
type qualificationRepository struct {
	db *gorm.DB
}

// NewQualificationRepository is the constructor for qualificationRepository.
func NewQualificationRepository(db *gorm.DB) repository.QualificationRepository {
	return &qualificationRepository{
		db: db,
	}
}

// findActive loads the ACTIVE record of one kind. If several exist despite the
// partial unique index, the one expiring last wins.
func (repo *qualificationRepository) findActive(ctx context.Context, exporterID uuid.UUID, dest any) error {
	err := repo.db.WithContext(ctx).
		Where("exporter_id = ? AND status = ?", exporterID, string(entity.ArtifactStatusActive)).
		Order("expiry_date DESC NULLS LAST").
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrQualificationNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to find active qualification")
	}

	return nil
}

// FindActiveLaboratory retrieves the exporter's ACTIVE laboratory.
func (repo *qualificationRepository) FindActiveLaboratory(ctx context.Context, exporterID uuid.UUID) (*entity.CoffeeLaboratory, error) {
	var labM model.CoffeeLaboratoryModel
	if err := repo.findActive(ctx, exporterID, &labM); err != nil {
		return nil, err
	}

	return &entity.CoffeeLaboratory{
		Qualification:  toQualificationDomain(entity.ArtifactKindLaboratory, &labM.QualificationColumns),
		LaboratoryName: labM.LaboratoryName,
		Address:        labM.Address,
	}, nil
}

// FindActiveTaster retrieves the exporter's ACTIVE taster.
func (repo *qualificationRepository) FindActiveTaster(ctx context.Context, exporterID uuid.UUID) (*entity.CoffeeTaster, error) {
	var tasterM model.CoffeeTasterModel
	if err := repo.findActive(ctx, exporterID, &tasterM); err != nil {
		return nil, err
	}

	return &entity.CoffeeTaster{
		Qualification:       toQualificationDomain(entity.ArtifactKindTaster, &tasterM.QualificationColumns),
		FullName:            tasterM.FullName,
		IsExclusiveEmployee: tasterM.IsExclusiveEmployee,
	}, nil
}

// FindActiveCompetenceCertificate retrieves the exporter's ACTIVE competence certificate.
func (repo *qualificationRepository) FindActiveCompetenceCertificate(ctx context.Context, exporterID uuid.UUID) (*entity.CompetenceCertificate, error) {
	var certM model.CompetenceCertificateModel
	if err := repo.findActive(ctx, exporterID, &certM); err != nil {
		return nil, err
	}

	return &entity.CompetenceCertificate{
		Qualification: toQualificationDomain(entity.ArtifactKindCompetenceCertificate, &certM.QualificationColumns),
	}, nil
}

// FindActiveExportLicense retrieves the exporter's ACTIVE export license.
func (repo *qualificationRepository) FindActiveExportLicense(ctx context.Context, exporterID uuid.UUID) (*entity.ExportLicense, error) {
	var licenseM model.ExportLicenseModel
	if err := repo.findActive(ctx, exporterID, &licenseM); err != nil {
		return nil, err
	}

	return &entity.ExportLicense{
		Qualification: toQualificationDomain(entity.ArtifactKindExportLicense, &licenseM.QualificationColumns),
		CoffeeTypes:   licenseM.CoffeeTypes,
	}, nil
}

func (repo *qualificationRepository) create(ctx context.Context, q *entity.Qualification, row any, cols *model.QualificationColumns) error {
	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		if isActiveArtifactViolation(err) {
			return repository.ErrActiveQualificationExists
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrExporterNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create qualification")
	}

	q.ID = cols.ID
	q.CreatedAt = cols.CreatedAt
	q.UpdatedAt = cols.UpdatedAt

	return nil
}

// CreateLaboratory persists a laboratory application.
func (repo *qualificationRepository) CreateLaboratory(ctx context.Context, lab *entity.CoffeeLaboratory) error {
	labM := &model.CoffeeLaboratoryModel{
		QualificationColumns: fromQualificationDomain(&lab.Qualification),
		LaboratoryName:       lab.LaboratoryName,
		Address:              lab.Address,
	}

	return repo.create(ctx, &lab.Qualification, labM, &labM.QualificationColumns)
}

// CreateTaster persists a taster application.
func (repo *qualificationRepository) CreateTaster(ctx context.Context, taster *entity.CoffeeTaster) error {
	tasterM := &model.CoffeeTasterModel{
		QualificationColumns: fromQualificationDomain(&taster.Qualification),
		FullName:             taster.FullName,
		IsExclusiveEmployee:  taster.IsExclusiveEmployee,
	}

	return repo.create(ctx, &taster.Qualification, tasterM, &tasterM.QualificationColumns)
}

// CreateCompetenceCertificate persists a competence certificate application.
func (repo *qualificationRepository) CreateCompetenceCertificate(ctx context.Context, cert *entity.CompetenceCertificate) error {
	certM := &model.CompetenceCertificateModel{
		QualificationColumns: fromQualificationDomain(&cert.Qualification),
	}

	return repo.create(ctx, &cert.Qualification, certM, &certM.QualificationColumns)
}

// CreateExportLicense persists an export license application.
func (repo *qualificationRepository) CreateExportLicense(ctx context.Context, license *entity.ExportLicense) error {
	licenseM := &model.ExportLicenseModel{
		QualificationColumns: fromQualificationDomain(&license.Qualification),
		CoffeeTypes:          license.CoffeeTypes,
	}

	return repo.create(ctx, &license.Qualification, licenseM, &licenseM.QualificationColumns)
}

// FindQualificationByID retrieves the common fields of an artifact.
func (repo *qualificationRepository) FindQualificationByID(ctx context.Context, kind entity.ArtifactKind, id uuid.UUID) (*entity.Qualification, error) {
	table, ok := qualificationTables[kind]
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown qualification kind " + string(kind))
	}

	var cols model.QualificationColumns
	if err := repo.db.WithContext(ctx).
		Table(table).
		Where("id = ?", id).
		First(&cols).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrQualificationNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find qualification")
	}

	q := toQualificationDomain(kind, &cols)

	return &q, nil
}

// ListQualificationsByExporter lists every artifact held by an exporter, grouped by kind.
func (repo *qualificationRepository) ListQualificationsByExporter(ctx context.Context, exporterID uuid.UUID) ([]*entity.Qualification, error) {
	kinds := []entity.ArtifactKind{
		entity.ArtifactKindLaboratory,
		entity.ArtifactKindTaster,
		entity.ArtifactKindCompetenceCertificate,
		entity.ArtifactKindExportLicense,
	}

	result := make([]*entity.Qualification, 0)
	for _, kind := range kinds {
		var rows []*model.QualificationColumns
		if err := repo.db.WithContext(ctx).
			Table(qualificationTables[kind]).
			Where("exporter_id = ?", exporterID).
			Order("created_at ASC").
			Find(&rows).Error; err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list qualifications")
		}
		for _, row := range rows {
			q := toQualificationDomain(kind, row)
			result = append(result, &q)
		}
	}

	return result, nil
}

// UpdateQualificationStatus applies a regulator decision.
func (repo *qualificationRepository) UpdateQualificationStatus(ctx context.Context, kind entity.ArtifactKind, id uuid.UUID, update repository.QualificationStatusUpdate) error {
	table, ok := qualificationTables[kind]
	if !ok {
		return domainerrors.ErrValidationFailed.WithDetails("unknown qualification kind " + string(kind))
	}

	db := repo.db.WithContext(ctx)

	if update.Status == entity.ArtifactStatusActive {
		var activeCount int64
		if err := db.Table(table).
			Where("exporter_id = (?)", db.Table(table).Select("exporter_id").Where("id = ?", id)).
			Where("status = ? AND id <> ?", string(entity.ArtifactStatusActive), id).
			Count(&activeCount).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to count active qualifications")
		}
		if activeCount > 0 {
			return repository.ErrActiveQualificationExists
		}
	}

	updates := map[string]any{
		"status":     string(update.Status),
		"updated_at": time.Now(),
	}
	if update.IssueDate != nil {
		updates["issue_date"] = *update.IssueDate
	}
	if update.ExpiryDate != nil {
		updates["expiry_date"] = *update.ExpiryDate
	}
	if update.IssuedBy != nil {
		updates["issued_by"] = *update.IssuedBy
	}

	result := db.Table(table).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if isActiveArtifactViolation(result.Error) {
			return repository.ErrActiveQualificationExists
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update qualification status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrQualificationNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toQualificationDomain(kind entity.ArtifactKind, data *model.QualificationColumns) entity.Qualification {
	return entity.Qualification{
		ID:         data.ID,
		ExporterID: data.ExporterID,
		Kind:       kind,
		Number:     data.Number,
		Status:     entity.ArtifactStatus(data.Status),
		IssueDate:  data.IssueDate,
		ExpiryDate: data.ExpiryDate,
		IssuedBy:   data.IssuedBy,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func fromQualificationDomain(data *entity.Qualification) model.QualificationColumns {
	return model.QualificationColumns{
		ID:         data.ID,
		ExporterID: data.ExporterID,
		Number:     data.Number,
		Status:     string(data.Status),
		IssueDate:  data.IssueDate,
		ExpiryDate: data.ExpiryDate,
		IssuedBy:   data.IssuedBy,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
