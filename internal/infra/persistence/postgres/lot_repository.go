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

// lotRepository implements the repository.LotRepository interface.
type lotRepository struct {
	db *gorm.DB
}

// NewLotRepository is the constructor for lotRepository.
func NewLotRepository(db *gorm.DB) repository.LotRepository {
	return &lotRepository{
		db: db,
	}
}

// CreateLot persists a new coffee lot.
func (repo *lotRepository) CreateLot(ctx context.Context, lot *entity.CoffeeLot) error {
	lotM := fromLotDomain(lot)

	if err := repo.db.WithContext(ctx).Create(lotM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateLot
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create coffee lot")
	}

	lot.ID = lotM.ID
	lot.CreatedAt = lotM.CreatedAt
	lot.UpdatedAt = lotM.UpdatedAt

	return nil
}

// FindLotByID retrieves a coffee lot by its ID.
func (repo *lotRepository) FindLotByID(ctx context.Context, id uuid.UUID) (*entity.CoffeeLot, error) {
	var lotM model.CoffeeLotModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&lotM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLotNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find coffee lot")
	}

	return toLotDomain(&lotM), nil
}

// UpdateLotStatusIfCurrent moves a lot from one status to another.
func (repo *lotRepository) UpdateLotStatusIfCurrent(ctx context.Context, id uuid.UUID, from, to entity.LotStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CoffeeLotModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update coffee lot status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrLotStatusConflict
	}

	return nil
}

// CreateInspection persists a quality inspection verdict.
func (repo *lotRepository) CreateInspection(ctx context.Context, inspection *entity.QualityInspection) error {
	inspectionM := &model.QualityInspectionModel{
		ID:          inspection.ID,
		LotID:       inspection.LotID,
		ExporterID:  inspection.ExporterID,
		InspectorID: inspection.InspectorID,
		Grade:       inspection.Grade,
		CupScore:    inspection.CupScore,
		Passed:      inspection.Passed,
		Remarks:     inspection.Remarks,
		InspectedAt: inspection.InspectedAt,
	}

	if err := repo.db.WithContext(ctx).Create(inspectionM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrLotNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create quality inspection")
	}

	inspection.ID = inspectionM.ID

	return nil
}

// FindInspectionByID retrieves a quality inspection by its ID.
func (repo *lotRepository) FindInspectionByID(ctx context.Context, id uuid.UUID) (*entity.QualityInspection, error) {
	var inspectionM model.QualityInspectionModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&inspectionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInspectionNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find quality inspection")
	}

	return &entity.QualityInspection{
		ID:          inspectionM.ID,
		LotID:       inspectionM.LotID,
		ExporterID:  inspectionM.ExporterID,
		InspectorID: inspectionM.InspectorID,
		Grade:       inspectionM.Grade,
		CupScore:    inspectionM.CupScore,
		Passed:      inspectionM.Passed,
		Remarks:     inspectionM.Remarks,
		InspectedAt: inspectionM.InspectedAt,
	}, nil
}

// CreateContract persists a sales contract.
func (repo *lotRepository) CreateContract(ctx context.Context, contract *entity.SalesContract) error {
	contractM := fromContractDomain(contract)

	if err := repo.db.WithContext(ctx).Create(contractM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateContract
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create sales contract")
	}

	contract.ID = contractM.ID
	contract.CreatedAt = contractM.CreatedAt
	contract.UpdatedAt = contractM.UpdatedAt

	return nil
}

// FindContractByID retrieves a sales contract by its ID.
func (repo *lotRepository) FindContractByID(ctx context.Context, id uuid.UUID) (*entity.SalesContract, error) {
	var contractM model.SalesContractModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&contractM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrContractNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find sales contract")
	}

	return toContractDomain(&contractM), nil
}

// UpdateContractStatus records the regulator's decision on a contract.
func (repo *lotRepository) UpdateContractStatus(ctx context.Context, id uuid.UUID, status entity.ContractStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SalesContractModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update sales contract status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrContractNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toLotDomain(data *model.CoffeeLotModel) *entity.CoffeeLot {
	if data == nil {
		return nil
	}

	return &entity.CoffeeLot{
		ID:               data.ID,
		LotNumber:        data.LotNumber,
		WarehouseReceipt: data.WarehouseReceipt,
		CoffeeType:       data.CoffeeType,
		Grade:            data.Grade,
		QuantityKg:       data.QuantityKg,
		PurchasedBy:      data.PurchasedBy,
		Status:           entity.LotStatus(data.Status),
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

func fromLotDomain(data *entity.CoffeeLot) *model.CoffeeLotModel {
	if data == nil {
		return nil
	}

	return &model.CoffeeLotModel{
		ID:               data.ID,
		LotNumber:        data.LotNumber,
		WarehouseReceipt: data.WarehouseReceipt,
		CoffeeType:       data.CoffeeType,
		Grade:            data.Grade,
		QuantityKg:       data.QuantityKg,
		PurchasedBy:      data.PurchasedBy,
		Status:           string(data.Status),
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

func toContractDomain(data *model.SalesContractModel) *entity.SalesContract {
	if data == nil {
		return nil
	}

	return &entity.SalesContract{
		ID:             data.ID,
		ExporterID:     data.ExporterID,
		ContractNumber: data.ContractNumber,
		BuyerName:      data.BuyerName,
		BuyerCountry:   data.BuyerCountry,
		QuantityKg:     data.QuantityKg,
		ValueUSD:       data.ValueUSD,
		Status:         entity.ContractStatus(data.Status),
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromContractDomain(data *entity.SalesContract) *model.SalesContractModel {
	if data == nil {
		return nil
	}

	return &model.SalesContractModel{
		ID:             data.ID,
		ExporterID:     data.ExporterID,
		ContractNumber: data.ContractNumber,
		BuyerName:      data.BuyerName,
		BuyerCountry:   data.BuyerCountry,
		QuantityKg:     data.QuantityKg,
		ValueUSD:       data.ValueUSD,
		Status:         string(data.Status),
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
