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

// exporterRepository implements the repository.ExporterRepository interface.
type exporterRepository struct {
	db *gorm.DB
}

// NewExporterRepository is the constructor for exporterRepository.
func NewExporterRepository(db *gorm.DB) repository.ExporterRepository {
	return &exporterRepository{
		db: db,
	}
}

// CreateExporter persists a new exporter profile.
func (repo *exporterRepository) CreateExporter(ctx context.Context, profile *entity.ExporterProfile) error {
	profileM := fromExporterDomain(profile)

	if err := repo.db.WithContext(ctx).Create(profileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateExporter
		}
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid exporter profile")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create exporter profile")
	}

	profile.ID = profileM.ID
	profile.CreatedAt = profileM.CreatedAt
	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

// FindExporterByID retrieves a profile by its unique ID.
func (repo *exporterRepository) FindExporterByID(ctx context.Context, id uuid.UUID) (*entity.ExporterProfile, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindExporterByUserID retrieves the profile owned by a user.
func (repo *exporterRepository) FindExporterByUserID(ctx context.Context, userID uuid.UUID) (*entity.ExporterProfile, error) {
	return repo.findOne(ctx, "user_id = ?", userID)
}

func (repo *exporterRepository) findOne(ctx context.Context, cond string, arg any) (*entity.ExporterProfile, error) {
	var profileM model.ExporterProfileModel

	if err := repo.db.WithContext(ctx).
		Where(cond, arg).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrExporterNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find exporter profile")
	}

	return toExporterDomain(&profileM), nil
}

// UpdateExporterStatus records a regulator decision on a profile.
func (repo *exporterRepository) UpdateExporterStatus(ctx context.Context, id uuid.UUID, status entity.ExporterStatus, reviewedBy uuid.UUID, reviewedAt time.Time) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": reviewedAt,
	}
	if status == entity.ExporterStatusActive {
		updates["approved_by"] = reviewedBy
		updates["approved_at"] = reviewedAt
	}

	result := repo.db.WithContext(ctx).
		Model(&model.ExporterProfileModel{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update exporter status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrExporterNotFound
	}

	return nil
}

// SetCapitalVerified records whether the regulator has verified the declared capital.
func (repo *exporterRepository) SetCapitalVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ExporterProfileModel{}).
		Where("id = ?", id).
		Update("capital_verified", verified)

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update capital verification")
	}

	if result.RowsAffected == 0 {
		return repository.ErrExporterNotFound
	}

	return nil
}

// ListExportersByStatus lists profiles in the given status, oldest first.
func (repo *exporterRepository) ListExportersByStatus(ctx context.Context, status entity.ExporterStatus) ([]*entity.ExporterProfile, error) {
	var profileModels []*model.ExporterProfileModel

	if err := repo.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&profileModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list exporter profiles")
	}

	profiles := make([]*entity.ExporterProfile, 0, len(profileModels))
	for _, profileM := range profileModels {
		profiles = append(profiles, toExporterDomain(profileM))
	}

	return profiles, nil
}

// --- Mapper Functions ---

func toExporterDomain(data *model.ExporterProfileModel) *entity.ExporterProfile {
	if data == nil {
		return nil
	}

	return &entity.ExporterProfile{
		ID:                 data.ID,
		UserID:             data.UserID,
		BusinessName:       data.BusinessName,
		TIN:                data.TIN,
		RegistrationNumber: data.RegistrationNumber,
		BusinessType:       entity.BusinessType(data.BusinessType),
		MinimumCapital:     data.MinimumCapital,
		CapitalVerified:    data.CapitalVerified,
		ContactPerson:      data.ContactPerson,
		Email:              data.Email,
		Phone:              data.Phone,
		Address:            data.Address,
		Status:             entity.ExporterStatus(data.Status),
		ApprovedBy:         data.ApprovedBy,
		ApprovedAt:         data.ApprovedAt,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

func fromExporterDomain(data *entity.ExporterProfile) *model.ExporterProfileModel {
	if data == nil {
		return nil
	}

	return &model.ExporterProfileModel{
		ID:                 data.ID,
		UserID:             data.UserID,
		BusinessName:       data.BusinessName,
		TIN:                data.TIN,
		RegistrationNumber: data.RegistrationNumber,
		BusinessType:       string(data.BusinessType),
		MinimumCapital:     data.MinimumCapital,
		CapitalVerified:    data.CapitalVerified,
		ContactPerson:      data.ContactPerson,
		Email:              data.Email,
		Phone:              data.Phone,
		Address:            data.Address,
		Status:             string(data.Status),
		ApprovedBy:         data.ApprovedBy,
		ApprovedAt:         data.ApprovedAt,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}
