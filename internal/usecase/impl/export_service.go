package impl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"coffeexport/config"
	deliverycontext "coffeexport/internal/delivery/context"
	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/domain/repository"
	"coffeexport/internal/domain/service"
	"coffeexport/internal/errors"
	"coffeexport/internal/usecase"
)

const defaultMinReasonLength = 10

// exportService implements the ExportUsecase interface.
type exportService struct {
	txManager        repository.TransactionManager
	qualification    usecase.QualificationUsecase
	recorder         *auditRecorder
	cache            service.ExportCache
	publisher        service.EventPublisher
	qrCode           service.QRCodeService
	minReasonLength  int
	maxResubmissions int
	logger           *slog.Logger
}

// ExportServiceParams holds dependencies for ExportService, injected by Fx.
type ExportServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	Qualification usecase.QualificationUsecase
	Hasher        service.ContentHasher
	Alerts        service.AlertNotifier
	Ledger        service.LedgerAnchor
	Cache         service.ExportCache
	Publisher     service.EventPublisher
	QRCode        service.QRCodeService
	Config        *config.Config
	Logger        *slog.Logger
}

// NewExportService is the constructor for exportService.
func NewExportService(params ExportServiceParams) usecase.ExportUsecase {
	minReasonLength := defaultMinReasonLength
	maxResubmissions := 0
	if params.Config != nil && params.Config.Workflow != nil {
		if params.Config.Workflow.MinReasonLength > 0 {
			minReasonLength = params.Config.Workflow.MinReasonLength
		}
		maxResubmissions = params.Config.Workflow.MaxResubmissions
	}

	return &exportService{
		txManager:        params.TxManager,
		qualification:    params.Qualification,
		recorder:         newAuditRecorder(params.TxManager, params.Hasher, params.Alerts, params.Ledger, params.Logger),
		cache:            params.Cache,
		publisher:        params.Publisher,
		qrCode:           params.QRCode,
		minReasonLength:  minReasonLength,
		maxResubmissions: maxResubmissions,
		logger:           params.Logger,
	}
}

func (srv *exportService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateExport opens a new export request after the qualification gate passes.
func (srv *exportService) CreateExport(ctx context.Context, actor entity.Actor, input *usecase.CreateExportInput) (*entity.ExportRequest, error) {
	policy, _ := entity.PolicyFor(entity.ActionCreate)
	if !policy.Allows(actor.Role) || (actor.IsExporter() && !actor.Owns(input.ExporterID)) {
		return nil, srv.denyAccess(ctx, actor, nil, string(entity.ActionCreate), "not permitted to create exports for this exporter")
	}

	if err := srv.validateDetails(input.Details); err != nil {
		return nil, err
	}

	if err := srv.requireQualified(ctx, input.ExporterID); err != nil {
		return nil, err
	}

	status := entity.ExportStatusPending
	if input.AsDraft {
		status = entity.ExportStatusDraft
	}

	export := &entity.ExportRequest{
		ExporterID: input.ExporterID,
		LotID:      input.LotID,
		Status:     status,
	}
	export.Apply(input.Details)

	var entry *entity.AuditLog

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if input.LotID != nil {
			if err := reserveLot(ctx, repoFactory.NewLotRepository(), *input.LotID, input.ExporterID); err != nil {
				return err
			}
		}

		exportRepo := repoFactory.NewExportRepository()
		if err := exportRepo.CreateExport(ctx, export); err != nil {
			if errors.Is(err, repository.ErrExporterNotFound) {
				return domainerrors.ErrExporterNotFound
			}

			return errors.Wrap(err, "failed to create export")
		}

		if err := exportRepo.AppendStatusHistory(ctx, &entity.ExportStatusHistory{
			ExportID:  export.ID,
			NewStatus: export.Status,
			ChangedBy: actor.ID,
			ActorRole: actor.Role,
			Action:    entity.ActionCreate,
			ChangedAt: time.Now(),
		}); err != nil {
			return errors.Wrap(err, "failed to append status history")
		}

		entry = newEntry(actor, entity.AuditEntityExport, export.ID.String(), policy.AuditAction)
		entry.ExportID = &export.ID
		entry.Severity = policy.Severity
		entry.ComplianceRelevant = true
		entry.NewValue = exportSnapshot(export)
		entry.Description = fmt.Sprintf("Export request created in %s", export.Status)

		return srv.recorder.append(ctx, repoFactory.NewAuditRepository(), entry)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create export")
	}

	srv.log(ctx).Info("Export created",
		slog.String("exportID", export.ID.String()),
		slog.String("exporterID", export.ExporterID.String()),
		slog.String("status", string(export.Status)),
	)

	srv.afterCommit(ctx, actor, export, entity.Transition{Action: entity.ActionCreate, To: export.Status}, entry, "")

	return export, nil
}

// reserveLot checks the lot belongs to the exporter and is inspected, then reserves it.
func reserveLot(ctx context.Context, lotRepo repository.LotRepository, lotID, exporterID uuid.UUID) error {
	lot, err := lotRepo.FindLotByID(ctx, lotID)
	if err != nil {
		if errors.Is(err, repository.ErrLotNotFound) {
			return domainerrors.ErrLotNotFound
		}

		return errors.Wrap(err, "failed to find lot")
	}

	if !lot.IsOwnedBy(exporterID) {
		return domainerrors.ErrLotUnavailable.WithDetails("lot is not owned by the exporter")
	}
	if lot.Status != entity.LotStatusInspected {
		return domainerrors.ErrLotUnavailable.WithDetails(fmt.Sprintf("lot status is %s", lot.Status))
	}

	if err := lotRepo.UpdateLotStatusIfCurrent(ctx, lotID, entity.LotStatusInspected, entity.LotStatusReservedForExport); err != nil {
		if errors.Is(err, repository.ErrLotStatusConflict) {
			return domainerrors.ErrLotUnavailable.WithDetails("lot was reserved concurrently")
		}

		return errors.Wrap(err, "failed to reserve lot")
	}

	return nil
}

func (srv *exportService) validateDetails(details entity.ExportDetails) error {
	switch {
	case strings.TrimSpace(details.CoffeeType) == "":
		return domainerrors.NewMissingRequiredField("coffee_type", 0)
	case strings.TrimSpace(details.DestinationCountry) == "":
		return domainerrors.NewMissingRequiredField("destination_country", 0)
	case strings.TrimSpace(details.BuyerName) == "":
		return domainerrors.NewMissingRequiredField("buyer_name", 0)
	case details.QuantityKg <= 0:
		return domainerrors.ErrValidationFailed.WithDetails("quantity must be greater than zero")
	}

	if !srv.qualification.ValidateEstimatedValue(details.QuantityKg, details.EstimatedValue) {
		return domainerrors.ErrInvalidEstimatedValue.WithDetails(
			fmt.Sprintf("estimated value %.2f for %.2f kg", details.EstimatedValue, details.QuantityKg),
		)
	}

	return nil
}

// requireQualified refuses with the complete gap list when the exporter is not qualified.
func (srv *exportService) requireQualified(ctx context.Context, exporterID uuid.UUID) error {
	validation, err := srv.qualification.ValidateExporter(ctx, exporterID)
	if err != nil {
		return errors.Wrap(err, "failed to validate exporter")
	}

	if !validation.IsValid {
		return domainerrors.NewQualificationFailedError(validation.Issues, validation.RequiredActions)
	}

	return nil
}

// Transition applies any action from the transition table by name.
func (srv *exportService) Transition(ctx context.Context, actor entity.Actor, exportID uuid.UUID, action entity.ExportAction, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	if action == entity.ActionCreate {
		return nil, domainerrors.ErrValidationFailed.WithDetails("exports are created through CreateExport")
	}

	return srv.apply(ctx, actor, exportID, action, input, nil)
}

// apply runs the uniform transition contract. Status change, history row, approval
// row, lot move and audit entry are written in one transaction.
func (srv *exportService) apply(
	ctx context.Context,
	actor entity.Actor,
	exportID uuid.UUID,
	action entity.ExportAction,
	input *usecase.TransitionInput,
	details *entity.ExportDetails,
) (*entity.ExportRequest, error) {
	policy, ok := entity.PolicyFor(action)
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown action %s", action))
	}
	if input == nil {
		input = &usecase.TransitionInput{}
	}

	if !policy.Allows(actor.Role) {
		return nil, srv.denyAccess(ctx, actor, &exportID, string(action), fmt.Sprintf("role %s may not perform %s", actor.Role, action))
	}

	reason := strings.TrimSpace(input.Reason)
	validate := func() error {
		if policy.RequiresReason && utf8.RuneCountInString(reason) < srv.minReasonLength {
			return domainerrors.NewMissingRequiredField("reason", srv.minReasonLength)
		}
		if details != nil {
			return srv.validateDetails(*details)
		}

		return nil
	}

	current, err := srv.loadForActor(ctx, actor, exportID, string(action))
	if err != nil {
		return nil, err
	}

	if _, ok := entity.ResolveTransition(current.Status, action); !ok {
		return nil, domainerrors.NewInvalidStatusTransition(string(current.Status), string(action))
	}

	if action == entity.ActionSubmitDraft {
		if err := srv.requireQualified(ctx, current.ExporterID); err != nil {
			return nil, err
		}
	}

	var (
		transition entity.Transition
		updated    *entity.ExportRequest
		entry      *entity.AuditLog
	)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		exportRepo := repoFactory.NewExportRepository()

		export, err := exportRepo.FindExportByID(ctx, exportID)
		if err != nil {
			if errors.Is(err, repository.ErrExportNotFound) {
				return domainerrors.ErrExportNotFound
			}

			return errors.Wrap(err, "failed to find export")
		}

		resolved, ok := entity.ResolveTransition(export.Status, action)
		if !ok {
			return domainerrors.NewInvalidStatusTransition(string(export.Status), string(action))
		}
		if err := validate(); err != nil {
			return err
		}

		if action == entity.ActionResubmitRejected || action == entity.ActionUpdateRejected {
			rejectedFrom, err := lastEntryInto(ctx, exportRepo, exportID, resolved.From)
			if err != nil {
				return err
			}
			resolved = entity.ResubmissionFrom(resolved, rejectedFrom)
		}
		transition = resolved

		if err := srv.checkResubmissionLimit(ctx, exportRepo, exportID, transition); err != nil {
			return err
		}

		if details != nil {
			if err := exportRepo.UpdateExportDetails(ctx, exportID, *details); err != nil {
				return errors.Wrap(err, "failed to update export details")
			}
		}

		rejectionReason := ""
		if transition.Decision == entity.ApprovalDecisionRejected || transition.To == entity.ExportStatusCancelled {
			rejectionReason = reason
		}

		if err := exportRepo.UpdateExportStatusIfCurrent(ctx, exportID, transition.From, transition.To, rejectionReason); err != nil {
			return err
		}

		now := time.Now()
		if err := exportRepo.AppendStatusHistory(ctx, &entity.ExportStatusHistory{
			ExportID:  exportID,
			OldStatus: transition.From,
			NewStatus: transition.To,
			ChangedBy: actor.ID,
			ActorRole: actor.Role,
			Action:    action,
			Reason:    reason,
			Notes:     input.Notes,
			ChangedAt: now,
		}); err != nil {
			return errors.Wrap(err, "failed to append status history")
		}

		if transition.ApprovalType != "" {
			approval := &entity.ExportApproval{
				ExportID:     exportID,
				ApprovalType: transition.ApprovalType,
				Organization: string(actor.Role),
				ApprovedBy:   actor.ID,
				Status:       transition.Decision,
				ApprovalDate: now,
			}
			if transition.Decision == entity.ApprovalDecisionRejected {
				approval.RejectionReason = reason
			}
			if err := exportRepo.AppendApproval(ctx, approval); err != nil {
				return errors.Wrap(err, "failed to append approval")
			}
		}

		if err := moveLot(ctx, repoFactory.NewLotRepository(), export.LotID, transition.To); err != nil {
			return err
		}

		entry = newEntry(actor, entity.AuditEntityExport, exportID.String(), transition.AuditAction)
		entry.ExportID = &exportID
		entry.Severity = transition.Severity
		entry.ComplianceRelevant = true
		entry.OldValue = map[string]any{"status": string(transition.From)}
		entry.NewValue = map[string]any{"status": string(transition.To)}
		if reason != "" {
			entry.NewValue["reason"] = reason
		}
		if details != nil {
			entry.OldValue = exportSnapshot(export)
			corrected := *export
			corrected.Apply(*details)
			corrected.Status = transition.To
			entry.NewValue = exportSnapshot(&corrected)
		}
		entry.Description = fmt.Sprintf("%s: %s -> %s", action, transition.From, transition.To)

		if err := srv.recorder.append(ctx, repoFactory.NewAuditRepository(), entry); err != nil {
			return err
		}

		updated, err = exportRepo.FindExportByID(ctx, exportID)
		if err != nil {
			return errors.Wrap(err, "failed to reload export")
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrExportStatusConflict) {
			return nil, srv.conflict(ctx, exportID, action)
		}

		return nil, errors.Wrapf(err, "failed to apply %s", action)
	}

	srv.log(ctx).Info("Export transitioned",
		slog.String("exportID", exportID.String()),
		slog.String("action", string(action)),
		slog.String("from", string(transition.From)),
		slog.String("to", string(transition.To)),
		slog.String("actorID", actor.ID.String()),
	)

	srv.afterCommit(ctx, actor, updated, transition, entry, reason)

	return updated, nil
}

func (srv *exportService) checkResubmissionLimit(
	ctx context.Context,
	exportRepo repository.ExportRepository,
	exportID uuid.UUID,
	transition entity.Transition,
) error {
	if srv.maxResubmissions <= 0 {
		return nil
	}
	if transition.Action != entity.ActionResubmitRejected && transition.Action != entity.ActionUpdateRejected {
		return nil
	}

	count, err := exportRepo.CountStatusChanges(ctx, exportID, transition.From, transition.To)
	if err != nil {
		return errors.Wrap(err, "failed to count resubmissions")
	}
	if count >= int64(srv.maxResubmissions) {
		return domainerrors.ErrResubmissionLimitReached.WithDetails(
			fmt.Sprintf("%s has been resubmitted %d times", transition.From, count),
		)
	}

	return nil
}

// lastEntryInto returns the status the export held before it last moved into status,
// or an empty status when the history has no such row.
func lastEntryInto(
	ctx context.Context,
	exportRepo repository.ExportRepository,
	exportID uuid.UUID,
	status entity.ExportStatus,
) (entity.ExportStatus, error) {
	rows, err := exportRepo.ListStatusHistory(ctx, exportID)
	if err != nil {
		return "", errors.Wrap(err, "failed to read status history")
	}

	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].NewStatus == status {
			return rows[i].OldStatus, nil
		}
	}

	return "", nil
}

// moveLot keeps the referenced lot in step with the export's terminal outcomes.
func moveLot(ctx context.Context, lotRepo repository.LotRepository, lotID *uuid.UUID, to entity.ExportStatus) error {
	if lotID == nil {
		return nil
	}

	var next entity.LotStatus
	switch to {
	case entity.ExportStatusCompleted:
		next = entity.LotStatusExported
	case entity.ExportStatusCancelled:
		next = entity.LotStatusInspected
	default:
		return nil
	}

	if err := lotRepo.UpdateLotStatusIfCurrent(ctx, *lotID, entity.LotStatusReservedForExport, next); err != nil {
		if errors.Is(err, repository.ErrLotStatusConflict) {
			return domainerrors.ErrLotUnavailable.WithDetails("lot is no longer reserved for this export")
		}

		return errors.Wrap(err, "failed to update lot status")
	}

	return nil
}

// conflict reports a lost race with the status the winner left behind.
func (srv *exportService) conflict(ctx context.Context, exportID uuid.UUID, action entity.ExportAction) error {
	current := "UNKNOWN"

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		export, err := repoFactory.NewExportRepository().FindExportByID(ctx, exportID)
		if err != nil {
			return err
		}
		current = string(export.Status)

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to re-read export after status conflict", slog.Any("error", err))
	}

	return domainerrors.NewInvalidStatusTransition(current, string(action))
}

// afterCommit invalidates cached views, publishes the transition event and runs
// the audit post-commit steps. Failures here never undo the committed transition.
func (srv *exportService) afterCommit(
	ctx context.Context,
	actor entity.Actor,
	export *entity.ExportRequest,
	transition entity.Transition,
	entry *entity.AuditLog,
	reason string,
) {
	log := srv.log(ctx)

	if err := srv.cache.Invalidate(ctx, export.ID, export.ExporterID, export.UpdatedAt); err != nil {
		log.Error("Failed to invalidate export cache",
			slog.String("exportID", export.ID.String()),
			slog.Any("error", err),
		)
	}

	event := &service.ExportEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		ExportID:   export.ID.String(),
		ExporterID: export.ExporterID.String(),
		Action:     string(transition.Action),
		OldStatus:  string(transition.From),
		NewStatus:  string(export.Status),
		ActorID:    actor.ID.String(),
		ActorRole:  string(actor.Role),
		Reason:     reason,
		OccurredAt: time.Now(),
	}
	if err := srv.publisher.PublishExportEvent(ctx, event); err != nil {
		log.Error("Failed to publish export event",
			slog.String("exportID", export.ID.String()),
			slog.Any("error", err),
		)
	}

	srv.recorder.committed(ctx, entry)
}

// denyAccess refuses an export operation and records the attempt.
func (srv *exportService) denyAccess(ctx context.Context, actor entity.Actor, exportID *uuid.UUID, attempted, why string) error {
	entityID := ""
	if exportID != nil {
		entityID = exportID.String()
	}

	return srv.recorder.deny(ctx, actor, entity.AuditEntityExport, entityID, exportID, attempted, why)
}

// loadForActor reads an export and checks an exporter actor owns it.
func (srv *exportService) loadForActor(ctx context.Context, actor entity.Actor, exportID uuid.UUID, attempted string) (*entity.ExportRequest, error) {
	export, err := srv.findExport(ctx, exportID)
	if err != nil {
		return nil, err
	}

	if actor.IsExporter() && !actor.Owns(export.ExporterID) {
		return nil, srv.denyAccess(ctx, actor, &exportID, attempted, "export belongs to another exporter")
	}

	return export, nil
}

func (srv *exportService) findExport(ctx context.Context, exportID uuid.UUID) (*entity.ExportRequest, error) {
	var export *entity.ExportRequest

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewExportRepository().FindExportByID(ctx, exportID)
		if err != nil {
			if errors.Is(err, repository.ErrExportNotFound) {
				return domainerrors.ErrExportNotFound
			}

			return errors.Wrap(err, "failed to find export")
		}
		export = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return export, nil
}

func exportSnapshot(export *entity.ExportRequest) map[string]any {
	snapshot := map[string]any{
		"status":              string(export.Status),
		"coffee_type":         export.CoffeeType,
		"quantity":            export.QuantityKg,
		"destination_country": export.DestinationCountry,
		"buyer_name":          export.BuyerName,
		"estimated_value":     export.EstimatedValue,
	}
	if export.LotID != nil {
		snapshot["lot_id"] = export.LotID.String()
	}

	return snapshot
}

// --- Named transitions ---

// SubmitDraft moves a draft into the pipeline after re-running the qualification gate.
func (srv *exportService) SubmitDraft(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionSubmitDraft, input, nil)
}

func (srv *exportService) SubmitToECX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionSubmitToECX, input, nil)
}

func (srv *exportService) VerifyECX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionVerifyECX, input, nil)
}

func (srv *exportService) RejectECX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRejectECX, input, nil)
}

func (srv *exportService) SubmitToECTA(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionSubmitToECTA, input, nil)
}

func (srv *exportService) ApproveLicense(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionApproveLicense, input, nil)
}

func (srv *exportService) RejectLicense(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRejectLicense, input, nil)
}

func (srv *exportService) ApproveQuality(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionApproveQuality, input, nil)
}

func (srv *exportService) RejectQuality(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRejectQuality, input, nil)
}

func (srv *exportService) ApproveOrigin(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionApproveOrigin, input, nil)
}

func (srv *exportService) RejectOrigin(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRejectOrigin, input, nil)
}

func (srv *exportService) ApproveContract(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionApproveContract, input, nil)
}

func (srv *exportService) RejectContract(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRejectContract, input, nil)
}

func (srv *exportService) VerifyBankDocuments(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionVerifyBankDocuments, input, nil)
}

func (srv *exportService) RejectBankDocuments(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRejectBankDocuments, input, nil)
}

func (srv *exportService) SubmitFXApplication(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionSubmitFXApplication, input, nil)
}

// ApproveFX accepts both the full-flow FX application and the simplified bank-centric flow.
func (srv *exportService) ApproveFX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionApproveFX, input, nil)
}

func (srv *exportService) RejectFX(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRejectFX, input, nil)
}

func (srv *exportService) ClearCustoms(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionClearCustoms, input, nil)
}

func (srv *exportService) RejectCustoms(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRejectCustoms, input, nil)
}

func (srv *exportService) RequestShipment(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRequestShipment, input, nil)
}

func (srv *exportService) ScheduleShipment(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionScheduleShipment, input, nil)
}

func (srv *exportService) MarkShipped(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionMarkShipped, input, nil)
}

func (srv *exportService) ConfirmArrival(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionConfirmArrival, input, nil)
}

func (srv *exportService) ConfirmDelivery(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionConfirmDelivery, input, nil)
}

func (srv *exportService) RequestPayment(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionRequestPayment, input, nil)
}

func (srv *exportService) ConfirmPayment(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionConfirmPayment, input, nil)
}

func (srv *exportService) ConfirmFXRepatriation(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionConfirmFXRepatriation, input, nil)
}

// CompleteExport closes the export and marks its lot exported.
func (srv *exportService) CompleteExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionComplete, input, nil)
}

// CancelExport is legal from any non-terminal status before shipment and releases the lot.
func (srv *exportService) CancelExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionCancel, input, nil)
}

// UpdateRejectedExport applies corrections and returns the export to the pending status of its rejected stage.
func (srv *exportService) UpdateRejectedExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.UpdateRejectedInput) (*entity.ExportRequest, error) {
	if input == nil {
		return nil, domainerrors.NewMissingRequiredField("details", 0)
	}

	return srv.apply(ctx, actor, exportID, entity.ActionUpdateRejected, &usecase.TransitionInput{Notes: input.Notes}, &input.Details)
}

// ResubmitRejectedExport returns the export to the pending status of its rejected stage unchanged.
func (srv *exportService) ResubmitRejectedExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID, input *usecase.TransitionInput) (*entity.ExportRequest, error) {
	return srv.apply(ctx, actor, exportID, entity.ActionResubmitRejected, input, nil)
}

// --- Reads ---

// GetExport reads through the cache. Ownership is checked on cached values too.
func (srv *exportService) GetExport(ctx context.Context, actor entity.Actor, exportID uuid.UUID) (*entity.ExportRequest, error) {
	export, found, err := srv.cache.GetExport(ctx, exportID)
	if err != nil {
		srv.log(ctx).Warn("Export cache read failed", slog.Any("error", err))
	}

	if !found {
		export, err = srv.findExport(ctx, exportID)
		if err != nil {
			return nil, err
		}
		if err := srv.cache.SetExport(ctx, export); err != nil {
			srv.log(ctx).Warn("Export cache write failed", slog.Any("error", err))
		}
	}

	if actor.IsExporter() && !actor.Owns(export.ExporterID) {
		return nil, srv.denyAccess(ctx, actor, &exportID, "GET_EXPORT", "export belongs to another exporter")
	}

	return export, nil
}

// ListExporterExports lists an exporter's requests, newest first, reading through the cache.
func (srv *exportService) ListExporterExports(ctx context.Context, actor entity.Actor, exporterID uuid.UUID) ([]*entity.ExportRequest, error) {
	if actor.IsExporter() && !actor.Owns(exporterID) {
		return nil, srv.denyAccess(ctx, actor, nil, "LIST_EXPORTS", "cannot list another exporter's exports")
	}

	exports, found, err := srv.cache.GetExporterExports(ctx, exporterID)
	if err != nil {
		srv.log(ctx).Warn("Export list cache read failed", slog.Any("error", err))
	}
	if found {
		return exports, nil
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		listed, err := repoFactory.NewExportRepository().ListExportsByExporter(ctx, exporterID)
		if err != nil {
			return errors.Wrap(err, "failed to list exports")
		}
		exports = listed

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := srv.cache.SetExporterExports(ctx, exporterID, exports); err != nil {
		srv.log(ctx).Warn("Export list cache write failed", slog.Any("error", err))
	}

	return exports, nil
}

// GetExportApprovals lists the stage decisions recorded on an export.
func (srv *exportService) GetExportApprovals(ctx context.Context, actor entity.Actor, exportID uuid.UUID) ([]*entity.ExportApproval, error) {
	if _, err := srv.loadForActor(ctx, actor, exportID, "GET_APPROVALS"); err != nil {
		return nil, err
	}

	var approvals []*entity.ExportApproval

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		listed, err := repoFactory.NewExportRepository().ListApprovals(ctx, exportID)
		if err != nil {
			return errors.Wrap(err, "failed to list approvals")
		}
		approvals = listed

		return nil
	})
	if err != nil {
		return nil, err
	}

	return approvals, nil
}

// AvailableActions lists what the actor may do next with the export.
func (srv *exportService) AvailableActions(ctx context.Context, actor entity.Actor, exportID uuid.UUID) ([]entity.ExportAction, error) {
	export, err := srv.loadForActor(ctx, actor, exportID, "LIST_ACTIONS")
	if err != nil {
		return nil, err
	}

	actions := make([]entity.ExportAction, 0)
	for _, action := range entity.AvailableActions(export.Status) {
		if policy, ok := entity.PolicyFor(action); ok && policy.Allows(actor.Role) {
			actions = append(actions, action)
		}
	}

	return actions, nil
}

// clearedStatus reports whether the export has passed customs.
func clearedStatus(status entity.ExportStatus) bool {
	if status == entity.ExportStatusCustomsRejected || status == entity.ExportStatusCancelled {
		return false
	}

	return slices.Index(entity.AllExportStatuses, status) >= slices.Index(entity.AllExportStatuses, entity.ExportStatusCustomsCleared)
}

// GenerateClearanceQR renders the port-side verification code of a cleared export.
func (srv *exportService) GenerateClearanceQR(ctx context.Context, actor entity.Actor, exportID uuid.UUID) ([]byte, error) {
	export, err := srv.loadForActor(ctx, actor, exportID, "GENERATE_CLEARANCE_QR")
	if err != nil {
		return nil, err
	}

	if !clearedStatus(export.Status) {
		return nil, domainerrors.NewInvalidStatusTransition(string(export.Status), "GENERATE_CLEARANCE_QR")
	}

	png, err := srv.qrCode.GenerateClearanceQR(export.ID, export.Status)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate clearance QR code")
	}

	return png, nil
}

// ResolveClearanceQR resolves a scanned clearance code back to its export.
func (srv *exportService) ResolveClearanceQR(ctx context.Context, qrData string) (*entity.ExportRequest, error) {
	exportID, err := srv.qrCode.ParseClearanceQR(qrData)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid clearance QR code")
	}

	export, err := srv.findExport(ctx, exportID)
	if err != nil {
		return nil, err
	}

	if !clearedStatus(export.Status) {
		return nil, domainerrors.NewInvalidStatusTransition(string(export.Status), "VERIFY_CLEARANCE_QR")
	}

	return export, nil
}
