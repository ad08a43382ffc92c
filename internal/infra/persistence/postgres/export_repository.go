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

// exportRepository implements the repository.ExportRepository interface.
type exportRepository struct {
	db *gorm.DB
}

// NewExportRepository is the constructor for exportRepository.
func NewExportRepository(db *gorm.DB) repository.ExportRepository {
	return &exportRepository{
		db: db,
	}
}

// CreateExport persists a new export request.
func (repo *exportRepository) CreateExport(ctx context.Context, export *entity.ExportRequest) error {
	exportM := fromExportDomain(export)

	if err := repo.db.WithContext(ctx).Create(exportM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrExporterNotFound
		}
		if isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid export request")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create export")
	}

	export.ID = exportM.ExportID
	export.CreatedAt = exportM.CreatedAt
	export.UpdatedAt = exportM.UpdatedAt

	return nil
}

// FindExportByID retrieves an export request by its ID.
func (repo *exportRepository) FindExportByID(ctx context.Context, id uuid.UUID) (*entity.ExportRequest, error) {
	var exportM model.ExportModel

	if err := repo.db.WithContext(ctx).
		Where("export_id = ?", id).
		First(&exportM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrExportNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find export")
	}

	return toExportDomain(&exportM), nil
}

// ListExportsByExporter lists an exporter's requests, newest first.
func (repo *exportRepository) ListExportsByExporter(ctx context.Context, exporterID uuid.UUID) ([]*entity.ExportRequest, error) {
	var exportModels []*model.ExportModel

	if err := repo.db.WithContext(ctx).
		Where("exporter_id = ?", exporterID).
		Order("created_at DESC").
		Find(&exportModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list exports")
	}

	exports := make([]*entity.ExportRequest, 0, len(exportModels))
	for _, exportM := range exportModels {
		exports = append(exports, toExportDomain(exportM))
	}

	return exports, nil
}

// UpdateExportStatusIfCurrent is the compare-and-set on the status column.
// Under read committed the second of two racing updates re-evaluates the WHERE
// clause against the committed row and matches nothing.
func (repo *exportRepository) UpdateExportStatusIfCurrent(ctx context.Context, id uuid.UUID, from, to entity.ExportStatus, rejectionReason string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ExportModel{}).
		Where("export_id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":           string(to),
			"rejection_reason": rejectionReason,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		if isSerializationFailure(result.Error) {
			return repository.ErrExportStatusConflict
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update export status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrExportStatusConflict
	}

	return nil
}

// UpdateExportDetails overwrites the business fields of an export.
func (repo *exportRepository) UpdateExportDetails(ctx context.Context, id uuid.UUID, details entity.ExportDetails) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ExportModel{}).
		Where("export_id = ?", id).
		Updates(map[string]any{
			"coffee_type":         details.CoffeeType,
			"quantity":            details.QuantityKg,
			"destination_country": details.DestinationCountry,
			"buyer_name":          details.BuyerName,
			"estimated_value":     details.EstimatedValue,
			"updated_at":          time.Now(),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update export details")
	}

	if result.RowsAffected == 0 {
		return repository.ErrExportNotFound
	}

	return nil
}

// AppendStatusHistory writes one history row.
func (repo *exportRepository) AppendStatusHistory(ctx context.Context, history *entity.ExportStatusHistory) error {
	historyM := fromHistoryDomain(history)

	if err := repo.db.WithContext(ctx).Create(historyM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrExportNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to append export status history")
	}

	history.ID = historyM.ID

	return nil
}

// ListStatusHistory returns an export's history in insertion order.
func (repo *exportRepository) ListStatusHistory(ctx context.Context, exportID uuid.UUID) ([]*entity.ExportStatusHistory, error) {
	var historyModels []*model.ExportStatusHistoryModel

	if err := repo.db.WithContext(ctx).
		Where("export_id = ?", exportID).
		Order("id ASC").
		Find(&historyModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list export status history")
	}

	history := make([]*entity.ExportStatusHistory, 0, len(historyModels))
	for _, historyM := range historyModels {
		history = append(history, toHistoryDomain(historyM))
	}

	return history, nil
}

// CountStatusChanges counts history rows that moved the export from one status to another.
func (repo *exportRepository) CountStatusChanges(ctx context.Context, exportID uuid.UUID, from, to entity.ExportStatus) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.ExportStatusHistoryModel{}).
		Where("export_id = ? AND old_status = ? AND new_status = ?", exportID, string(from), string(to)).
		Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count export status changes")
	}

	return count, nil
}

// AppendApproval writes one stage decision.
func (repo *exportRepository) AppendApproval(ctx context.Context, approval *entity.ExportApproval) error {
	approvalM := &model.ExportApprovalModel{
		ID:              approval.ID,
		ExportID:        approval.ExportID,
		ApprovalType:    string(approval.ApprovalType),
		Organization:    approval.Organization,
		ApprovedBy:      approval.ApprovedBy,
		Status:          string(approval.Status),
		ApprovalDate:    approval.ApprovalDate,
		RejectionReason: approval.RejectionReason,
	}

	if err := repo.db.WithContext(ctx).Create(approvalM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append export approval")
	}

	approval.ID = approvalM.ID

	return nil
}

// ListApprovals returns an export's stage decisions, oldest first.
func (repo *exportRepository) ListApprovals(ctx context.Context, exportID uuid.UUID) ([]*entity.ExportApproval, error) {
	var approvalModels []*model.ExportApprovalModel

	if err := repo.db.WithContext(ctx).
		Where("export_id = ?", exportID).
		Order("approval_date ASC").
		Find(&approvalModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list export approvals")
	}

	approvals := make([]*entity.ExportApproval, 0, len(approvalModels))
	for _, approvalM := range approvalModels {
		approvals = append(approvals, &entity.ExportApproval{
			ID:              approvalM.ID,
			ExportID:        approvalM.ExportID,
			ApprovalType:    entity.ApprovalType(approvalM.ApprovalType),
			Organization:    approvalM.Organization,
			ApprovedBy:      approvalM.ApprovedBy,
			Status:          entity.ApprovalDecision(approvalM.Status),
			ApprovalDate:    approvalM.ApprovalDate,
			RejectionReason: approvalM.RejectionReason,
		})
	}

	return approvals, nil
}

// --- Mapper Functions ---

func toExportDomain(data *model.ExportModel) *entity.ExportRequest {
	if data == nil {
		return nil
	}

	return &entity.ExportRequest{
		ID:                 data.ExportID,
		ExporterID:         data.ExporterID,
		LotID:              data.LotID,
		CoffeeType:         data.CoffeeType,
		QuantityKg:         data.Quantity,
		DestinationCountry: data.DestinationCountry,
		BuyerName:          data.BuyerName,
		EstimatedValue:     data.EstimatedValue,
		Status:             entity.ExportStatus(data.Status),
		RejectionReason:    data.RejectionReason,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

func fromExportDomain(data *entity.ExportRequest) *model.ExportModel {
	if data == nil {
		return nil
	}

	return &model.ExportModel{
		ExportID:           data.ID,
		ExporterID:         data.ExporterID,
		LotID:              data.LotID,
		CoffeeType:         data.CoffeeType,
		Quantity:           data.QuantityKg,
		DestinationCountry: data.DestinationCountry,
		BuyerName:          data.BuyerName,
		EstimatedValue:     data.EstimatedValue,
		Status:             string(data.Status),
		RejectionReason:    data.RejectionReason,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

func toHistoryDomain(data *model.ExportStatusHistoryModel) *entity.ExportStatusHistory {
	history := &entity.ExportStatusHistory{
		ID:        data.ID,
		ExportID:  data.ExportID,
		NewStatus: entity.ExportStatus(data.NewStatus),
		ChangedBy: data.ChangedBy,
		ActorRole: entity.ActorRole(data.ActorRole),
		Action:    entity.ExportAction(data.Action),
		Reason:    data.Reason,
		Notes:     data.Notes,
		ChangedAt: data.ChangedAt,
	}
	if data.OldStatus != nil {
		history.OldStatus = entity.ExportStatus(*data.OldStatus)
	}

	return history
}

func fromHistoryDomain(data *entity.ExportStatusHistory) *model.ExportStatusHistoryModel {
	historyM := &model.ExportStatusHistoryModel{
		ExportID:  data.ExportID,
		NewStatus: string(data.NewStatus),
		ChangedBy: data.ChangedBy,
		ActorRole: string(data.ActorRole),
		Action:    string(data.Action),
		Reason:    data.Reason,
		Notes:     data.Notes,
		ChangedAt: data.ChangedAt,
	}
	if data.OldStatus != "" {
		old := string(data.OldStatus)
		historyM.OldStatus = &old
	}

	return historyM
}
