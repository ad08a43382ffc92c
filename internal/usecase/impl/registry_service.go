package impl

import (
	"context"
	"fmt"
	"log/slog"
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

// registryService implements the RegistryUsecase interface.
type registryService struct {
	txManager       repository.TransactionManager
	recorder        *auditRecorder
	minReasonLength int
	now             func() time.Time
	logger          *slog.Logger
}

// RegistryServiceParams holds dependencies for RegistryService, injected by Fx.
type RegistryServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Hasher    service.ContentHasher
	Alerts    service.AlertNotifier
	Ledger    service.LedgerAnchor
	Config    *config.Config
	Logger    *slog.Logger
}

// NewRegistryService is the constructor for registryService.
func NewRegistryService(params RegistryServiceParams) usecase.RegistryUsecase {
	minReasonLength := defaultMinReasonLength
	if params.Config != nil && params.Config.Workflow != nil && params.Config.Workflow.MinReasonLength > 0 {
		minReasonLength = params.Config.Workflow.MinReasonLength
	}

	return &registryService{
		txManager:       params.TxManager,
		recorder:        newAuditRecorder(params.TxManager, params.Hasher, params.Alerts, params.Ledger, params.Logger),
		minReasonLength: minReasonLength,
		now:             time.Now,
		logger:          params.Logger,
	}
}

func (srv *registryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// requireRole refuses and audits the call unless the actor holds one of the roles.
func (srv *registryService) requireRole(
	ctx context.Context,
	actor entity.Actor,
	entityType entity.AuditEntityType,
	entityID, attempted string,
	roles ...entity.ActorRole,
) error {
	if actor.Role == entity.RoleAdmin || entity.Roles(roles).Contains(actor.Role) {
		return nil
	}

	return srv.recorder.deny(ctx, actor, entityType, entityID, nil, attempted,
		fmt.Sprintf("role %s may not %s", actor.Role, strings.ToLower(strings.ReplaceAll(attempted, "_", " "))))
}

// requireOwnerOrRegulator lets an exporter act on its own records and the regulator on any.
func (srv *registryService) requireOwnerOrRegulator(
	ctx context.Context,
	actor entity.Actor,
	exporterID uuid.UUID,
	entityType entity.AuditEntityType,
	attempted string,
) error {
	if actor.IsExporter() {
		if actor.Owns(exporterID) {
			return nil
		}

		return srv.recorder.deny(ctx, actor, entityType, exporterID.String(), nil, attempted, "record belongs to another exporter")
	}

	return srv.requireRole(ctx, actor, entityType, exporterID.String(), attempted, entity.RoleECTA)
}

func (srv *registryService) requireReason(reason string) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < srv.minReasonLength {
		return domainerrors.NewMissingRequiredField("reason", srv.minReasonLength)
	}

	return nil
}

// write runs fn in a transaction, appends the audit entry it returns, and runs the
// post-commit audit steps.
func (srv *registryService) write(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) (*entity.AuditLog, error)) error {
	var entry *entity.AuditLog

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		built, err := fn(repoFactory)
		if err != nil {
			return err
		}
		entry = built

		return srv.recorder.append(ctx, repoFactory.NewAuditRepository(), entry)
	})
	if err != nil {
		return err
	}

	srv.recorder.committed(ctx, entry)

	return nil
}

// --- Exporter profiles ---

// RegisterExporter creates the caller's exporter profile in PENDING_APPROVAL.
// The profile takes the actor's organization ID when one is assigned.
func (srv *registryService) RegisterExporter(ctx context.Context, actor entity.Actor, input *usecase.RegisterExporterInput) (*entity.ExporterProfile, error) {
	if err := srv.requireRole(ctx, actor, entity.AuditEntityExporter, "", "REGISTER_EXPORTER", entity.RoleExporter); err != nil {
		return nil, err
	}
	if !input.BusinessType.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown business type %q", input.BusinessType))
	}

	profile := &entity.ExporterProfile{
		ID:                 actor.OrganizationID,
		UserID:             actor.ID,
		BusinessName:       input.BusinessName,
		TIN:                input.TIN,
		RegistrationNumber: input.RegistrationNumber,
		BusinessType:       input.BusinessType,
		MinimumCapital:     input.MinimumCapital,
		ContactPerson:      input.ContactPerson,
		Email:              input.Email,
		Phone:              input.Phone,
		Address:            input.Address,
		Status:             entity.ExporterStatusPendingApproval,
	}

	err := srv.write(ctx, func(repoFactory repository.RepositoryFactory) (*entity.AuditLog, error) {
		if err := repoFactory.NewExporterRepository().CreateExporter(ctx, profile); err != nil {
			if errors.Is(err, repository.ErrDuplicateExporter) {
				return nil, domainerrors.ErrExporterAlreadyRegistered
			}

			return nil, errors.Wrap(err, "failed to create exporter profile")
		}

		entry := newEntry(actor, entity.AuditEntityExporter, profile.ID.String(), entity.AuditActionRegisterExporter)
		entry.ComplianceRelevant = true
		entry.NewValue = map[string]any{
			"business_name":   profile.BusinessName,
			"business_type":   string(profile.BusinessType),
			"minimum_capital": profile.MinimumCapital,
			"status":          string(profile.Status),
		}
		entry.Description = "Exporter profile registered"

		return entry, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to register exporter")
	}

	srv.log(ctx).Info("Exporter registered",
		slog.String("exporterID", profile.ID.String()),
		slog.String("businessType", string(profile.BusinessType)),
	)

	return profile, nil
}

func (srv *registryService) findExporter(ctx context.Context, exporterID uuid.UUID) (*entity.ExporterProfile, error) {
	var profile *entity.ExporterProfile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewExporterRepository().FindExporterByID(ctx, exporterID)
		if err != nil {
			if errors.Is(err, repository.ErrExporterNotFound) {
				return domainerrors.ErrExporterNotFound
			}

			return errors.Wrap(err, "failed to find exporter")
		}
		profile = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// GetExporter returns a profile to its owner or to a regulator.
func (srv *registryService) GetExporter(ctx context.Context, actor entity.Actor, exporterID uuid.UUID) (*entity.ExporterProfile, error) {
	if err := srv.requireOwnerOrRegulator(ctx, actor, exporterID, entity.AuditEntityExporter, "GET_EXPORTER"); err != nil {
		return nil, err
	}

	return srv.findExporter(ctx, exporterID)
}

// ListExportersByStatus is the regulator's review queue.
func (srv *registryService) ListExportersByStatus(ctx context.Context, actor entity.Actor, status entity.ExporterStatus) ([]*entity.ExporterProfile, error) {
	if err := srv.requireRole(ctx, actor, entity.AuditEntityExporter, "", "LIST_EXPORTERS", entity.RoleECTA); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown exporter status %q", status))
	}

	var profiles []*entity.ExporterProfile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		listed, err := repoFactory.NewExporterRepository().ListExportersByStatus(ctx, status)
		if err != nil {
			return errors.Wrap(err, "failed to list exporters")
		}
		profiles = listed

		return nil
	})
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

// ReviewExporterProfile records the regulator's decision on a profile and,
// optionally, on its declared capital.
func (srv *registryService) ReviewExporterProfile(
	ctx context.Context,
	actor entity.Actor,
	exporterID uuid.UUID,
	input *usecase.ReviewExporterInput,
) (*entity.ExporterProfile, error) {
	if err := srv.requireRole(ctx, actor, entity.AuditEntityExporter, exporterID.String(), "REVIEW_EXPORTER", entity.RoleECTA); err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown exporter status %q", input.Status))
	}

	severity := entity.SeverityMedium
	if input.Status == entity.ExporterStatusSuspended || input.Status == entity.ExporterStatusRevoked {
		if err := srv.requireReason(input.Reason); err != nil {
			return nil, err
		}
		severity = entity.SeverityHigh
	}

	var profile *entity.ExporterProfile

	err := srv.write(ctx, func(repoFactory repository.RepositoryFactory) (*entity.AuditLog, error) {
		exporterRepo := repoFactory.NewExporterRepository()

		before, err := exporterRepo.FindExporterByID(ctx, exporterID)
		if err != nil {
			if errors.Is(err, repository.ErrExporterNotFound) {
				return nil, domainerrors.ErrExporterNotFound
			}

			return nil, errors.Wrap(err, "failed to find exporter")
		}

		if err := exporterRepo.UpdateExporterStatus(ctx, exporterID, input.Status, actor.ID, srv.now()); err != nil {
			return nil, errors.Wrap(err, "failed to update exporter status")
		}
		if input.CapitalVerified != nil {
			if err := exporterRepo.SetCapitalVerified(ctx, exporterID, *input.CapitalVerified); err != nil {
				return nil, errors.Wrap(err, "failed to record capital verification")
			}
		}

		profile, err = exporterRepo.FindExporterByID(ctx, exporterID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to reload exporter")
		}

		entry := newEntry(actor, entity.AuditEntityExporter, exporterID.String(), entity.AuditActionReviewExporter)
		entry.Severity = severity
		entry.ComplianceRelevant = true
		entry.OldValue = map[string]any{"status": string(before.Status), "capital_verified": before.CapitalVerified}
		entry.NewValue = map[string]any{"status": string(profile.Status), "capital_verified": profile.CapitalVerified}
		if input.Reason != "" {
			entry.NewValue["reason"] = input.Reason
		}
		entry.Description = fmt.Sprintf("Exporter profile %s -> %s", before.Status, profile.Status)

		return entry, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to review exporter")
	}

	return profile, nil
}

// --- Qualification artifacts ---

// SubmitQualification files an artifact application in PENDING.
func (srv *registryService) SubmitQualification(
	ctx context.Context,
	actor entity.Actor,
	exporterID uuid.UUID,
	input *usecase.SubmitQualificationInput,
) (*entity.Qualification, error) {
	if err := srv.requireOwnerOrRegulator(ctx, actor, exporterID, entity.AuditEntityQualification, "SUBMIT_QUALIFICATION"); err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown qualification kind %q", input.Kind))
	}

	base := entity.Qualification{
		ExporterID: exporterID,
		Kind:       input.Kind,
		Number:     input.Number,
		Status:     entity.ArtifactStatusPending,
	}

	var created *entity.Qualification

	err := srv.write(ctx, func(repoFactory repository.RepositoryFactory) (*entity.AuditLog, error) {
		qualificationRepo := repoFactory.NewQualificationRepository()

		var err error
		switch input.Kind {
		case entity.ArtifactKindLaboratory:
			if strings.TrimSpace(input.LaboratoryName) == "" {
				return nil, domainerrors.NewMissingRequiredField("laboratory_name", 0)
			}
			lab := &entity.CoffeeLaboratory{Qualification: base, LaboratoryName: input.LaboratoryName, Address: input.Address}
			err = qualificationRepo.CreateLaboratory(ctx, lab)
			created = &lab.Qualification
		case entity.ArtifactKindTaster:
			if strings.TrimSpace(input.FullName) == "" {
				return nil, domainerrors.NewMissingRequiredField("full_name", 0)
			}
			taster := &entity.CoffeeTaster{Qualification: base, FullName: input.FullName, IsExclusiveEmployee: input.IsExclusiveEmployee}
			err = qualificationRepo.CreateTaster(ctx, taster)
			created = &taster.Qualification
		case entity.ArtifactKindCompetenceCertificate:
			cert := &entity.CompetenceCertificate{Qualification: base}
			err = qualificationRepo.CreateCompetenceCertificate(ctx, cert)
			created = &cert.Qualification
		case entity.ArtifactKindExportLicense:
			license := &entity.ExportLicense{Qualification: base, CoffeeTypes: input.CoffeeTypes}
			err = qualificationRepo.CreateExportLicense(ctx, license)
			created = &license.Qualification
		}
		if err != nil {
			if errors.Is(err, repository.ErrExporterNotFound) {
				return nil, domainerrors.ErrExporterNotFound
			}

			return nil, errors.Wrap(err, "failed to create qualification")
		}

		entry := newEntry(actor, entity.AuditEntityQualification, created.ID.String(), entity.AuditActionSubmitQualification)
		entry.ComplianceRelevant = true
		entry.NewValue = map[string]any{
			"kind":        string(created.Kind),
			"number":      created.Number,
			"exporter_id": exporterID.String(),
			"status":      string(created.Status),
		}
		entry.Description = fmt.Sprintf("%s submitted for review", created.Kind)

		return entry, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit qualification")
	}

	return created, nil
}

// qualificationAudit maps a regulator decision to its audit code and tier.
// Suspending or revoking an export license stops every export of the holder.
func qualificationAudit(kind entity.ArtifactKind, status entity.ArtifactStatus) (entity.AuditAction, entity.Severity) {
	switch status {
	case entity.ArtifactStatusActive:
		return entity.AuditActionCertifyQualification, entity.SeverityMedium
	case entity.ArtifactStatusSuspended, entity.ArtifactStatusRevoked:
		action := entity.AuditActionSuspendQualification
		if status == entity.ArtifactStatusRevoked {
			action = entity.AuditActionRevokeQualification
		}
		if kind == entity.ArtifactKindExportLicense {
			return action, entity.SeverityCritical
		}

		return action, entity.SeverityHigh
	case entity.ArtifactStatusExpired:
		return entity.AuditActionExpireQualification, entity.SeverityLow
	default:
		return entity.AuditActionSubmitQualification, entity.SeverityLow
	}
}

// SetQualificationStatus applies a regulator decision to an artifact. Activation
// requires a future expiry date and fails while another artifact of the kind is ACTIVE.
func (srv *registryService) SetQualificationStatus(
	ctx context.Context,
	actor entity.Actor,
	kind entity.ArtifactKind,
	id uuid.UUID,
	input *usecase.QualificationStatusInput,
) (*entity.Qualification, error) {
	if err := srv.requireRole(ctx, actor, entity.AuditEntityQualification, id.String(), "SET_QUALIFICATION_STATUS", entity.RoleECTA); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown qualification kind %q", kind))
	}
	if !input.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown qualification status %q", input.Status))
	}

	now := srv.now()
	update := repository.QualificationStatusUpdate{Status: input.Status}

	switch input.Status {
	case entity.ArtifactStatusActive:
		if input.ExpiryDate == nil {
			return nil, domainerrors.NewMissingRequiredField("expiry_date", 0)
		}
		if !input.ExpiryDate.After(now) {
			return nil, domainerrors.ErrValidationFailed.WithDetails("expiry_date must be in the future")
		}
		issuedBy := actor.ID
		update.IssueDate = &now
		update.ExpiryDate = input.ExpiryDate
		update.IssuedBy = &issuedBy
	case entity.ArtifactStatusSuspended, entity.ArtifactStatusRevoked:
		if err := srv.requireReason(input.Reason); err != nil {
			return nil, err
		}
	}

	action, severity := qualificationAudit(kind, input.Status)

	var updated *entity.Qualification

	err := srv.write(ctx, func(repoFactory repository.RepositoryFactory) (*entity.AuditLog, error) {
		qualificationRepo := repoFactory.NewQualificationRepository()

		before, err := qualificationRepo.FindQualificationByID(ctx, kind, id)
		if err != nil {
			if errors.Is(err, repository.ErrQualificationNotFound) {
				return nil, domainerrors.ErrQualificationNotFound
			}

			return nil, errors.Wrap(err, "failed to find qualification")
		}

		if err := qualificationRepo.UpdateQualificationStatus(ctx, kind, id, update); err != nil {
			if errors.Is(err, repository.ErrActiveQualificationExists) {
				return nil, domainerrors.ErrActiveQualificationExists
			}

			return nil, errors.Wrap(err, "failed to update qualification status")
		}

		updated, err = qualificationRepo.FindQualificationByID(ctx, kind, id)
		if err != nil {
			return nil, errors.Wrap(err, "failed to reload qualification")
		}

		entry := newEntry(actor, entity.AuditEntityQualification, id.String(), action)
		entry.Severity = severity
		entry.ComplianceRelevant = true
		entry.OldValue = map[string]any{"status": string(before.Status)}
		entry.NewValue = map[string]any{"status": string(updated.Status), "exporter_id": updated.ExporterID.String()}
		if updated.ExpiryDate != nil {
			entry.NewValue["expiry_date"] = updated.ExpiryDate.UTC().Format(time.RFC3339)
		}
		if input.Reason != "" {
			entry.NewValue["reason"] = input.Reason
		}
		entry.Description = fmt.Sprintf("%s %s: %s -> %s", kind, updated.Number, before.Status, updated.Status)

		return entry, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to set qualification status")
	}

	srv.log(ctx).Info("Qualification status changed",
		slog.String("kind", string(kind)),
		slog.String("qualificationID", id.String()),
		slog.String("status", string(updated.Status)),
	)

	return updated, nil
}

// ListExporterQualifications returns every artifact held by an exporter.
func (srv *registryService) ListExporterQualifications(ctx context.Context, actor entity.Actor, exporterID uuid.UUID) ([]*entity.Qualification, error) {
	if err := srv.requireOwnerOrRegulator(ctx, actor, exporterID, entity.AuditEntityQualification, "LIST_QUALIFICATIONS"); err != nil {
		return nil, err
	}

	var qualifications []*entity.Qualification

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		listed, err := repoFactory.NewQualificationRepository().ListQualificationsByExporter(ctx, exporterID)
		if err != nil {
			return errors.Wrap(err, "failed to list qualifications")
		}
		qualifications = listed

		return nil
	})
	if err != nil {
		return nil, err
	}

	return qualifications, nil
}

// --- Lots, inspections and contracts ---

// RegisterLot enters a warehouse-receipted lot. Only the exchange registers lots.
func (srv *registryService) RegisterLot(ctx context.Context, actor entity.Actor, input *usecase.RegisterLotInput) (*entity.CoffeeLot, error) {
	if err := srv.requireRole(ctx, actor, entity.AuditEntityLot, "", "REGISTER_LOT", entity.RoleECX); err != nil {
		return nil, err
	}

	lot := &entity.CoffeeLot{
		LotNumber:        input.LotNumber,
		WarehouseReceipt: input.WarehouseReceipt,
		CoffeeType:       input.CoffeeType,
		Grade:            input.Grade,
		QuantityKg:       input.QuantityKg,
		PurchasedBy:      input.PurchasedBy,
		Status:           entity.LotStatusInWarehouse,
	}

	err := srv.write(ctx, func(repoFactory repository.RepositoryFactory) (*entity.AuditLog, error) {
		if err := repoFactory.NewLotRepository().CreateLot(ctx, lot); err != nil {
			if errors.Is(err, repository.ErrDuplicateLot) {
				return nil, domainerrors.ErrConflict.WithDetails(fmt.Sprintf("lot %s is already registered", lot.LotNumber))
			}

			return nil, errors.Wrap(err, "failed to create lot")
		}

		entry := newEntry(actor, entity.AuditEntityLot, lot.ID.String(), entity.AuditActionRegisterLot)
		entry.ComplianceRelevant = true
		entry.NewValue = map[string]any{
			"lot_number":  lot.LotNumber,
			"coffee_type": lot.CoffeeType,
			"grade":       lot.Grade,
			"quantity_kg": lot.QuantityKg,
		}
		if lot.PurchasedBy != nil {
			entry.NewValue["purchased_by"] = lot.PurchasedBy.String()
		}
		entry.Description = "Coffee lot registered"

		return entry, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to register lot")
	}

	return lot, nil
}

// RecordInspection stores the regulator's verdict. A passing inspection moves an
// in-warehouse lot to INSPECTED, which makes it eligible for an export.
func (srv *registryService) RecordInspection(ctx context.Context, actor entity.Actor, input *usecase.RecordInspectionInput) (*entity.QualityInspection, error) {
	if err := srv.requireRole(ctx, actor, entity.AuditEntityInspection, input.LotID.String(), "RECORD_INSPECTION", entity.RoleECTA); err != nil {
		return nil, err
	}

	inspection := &entity.QualityInspection{
		LotID:       input.LotID,
		ExporterID:  input.ExporterID,
		InspectorID: actor.ID,
		Grade:       input.Grade,
		CupScore:    input.CupScore,
		Passed:      input.Passed,
		Remarks:     input.Remarks,
	}

	err := srv.write(ctx, func(repoFactory repository.RepositoryFactory) (*entity.AuditLog, error) {
		lotRepo := repoFactory.NewLotRepository()

		lot, err := lotRepo.FindLotByID(ctx, input.LotID)
		if err != nil {
			if errors.Is(err, repository.ErrLotNotFound) {
				return nil, domainerrors.ErrLotNotFound
			}

			return nil, errors.Wrap(err, "failed to find lot")
		}

		if err := lotRepo.CreateInspection(ctx, inspection); err != nil {
			return nil, errors.Wrap(err, "failed to create inspection")
		}

		if inspection.Passed && lot.Status == entity.LotStatusInWarehouse {
			if err := lotRepo.UpdateLotStatusIfCurrent(ctx, lot.ID, entity.LotStatusInWarehouse, entity.LotStatusInspected); err != nil {
				return nil, errors.Wrap(err, "failed to mark lot inspected")
			}
		}

		entry := newEntry(actor, entity.AuditEntityInspection, inspection.ID.String(), entity.AuditActionRecordInspection)
		entry.Severity = entity.SeverityMedium
		if !inspection.Passed {
			entry.Severity = entity.SeverityHigh
		}
		entry.ComplianceRelevant = true
		entry.NewValue = map[string]any{
			"lot_id":      lot.ID.String(),
			"exporter_id": inspection.ExporterID.String(),
			"grade":       inspection.Grade,
			"cup_score":   inspection.CupScore,
			"passed":      inspection.Passed,
		}
		entry.Description = fmt.Sprintf("Inspection of lot %s recorded", lot.LotNumber)

		return entry, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to record inspection")
	}

	return inspection, nil
}

// RecordContract files a sales contract for registration.
func (srv *registryService) RecordContract(
	ctx context.Context,
	actor entity.Actor,
	exporterID uuid.UUID,
	input *usecase.RecordContractInput,
) (*entity.SalesContract, error) {
	if err := srv.requireOwnerOrRegulator(ctx, actor, exporterID, entity.AuditEntityContract, "RECORD_CONTRACT"); err != nil {
		return nil, err
	}

	contract := &entity.SalesContract{
		ExporterID:     exporterID,
		ContractNumber: input.ContractNumber,
		BuyerName:      input.BuyerName,
		BuyerCountry:   input.BuyerCountry,
		QuantityKg:     input.QuantityKg,
		ValueUSD:       input.ValueUSD,
		Status:         entity.ContractStatusPending,
	}

	err := srv.write(ctx, func(repoFactory repository.RepositoryFactory) (*entity.AuditLog, error) {
		if err := repoFactory.NewLotRepository().CreateContract(ctx, contract); err != nil {
			if errors.Is(err, repository.ErrDuplicateContract) {
				return nil, domainerrors.ErrConflict.WithDetails(fmt.Sprintf("contract %s is already registered", contract.ContractNumber))
			}

			return nil, errors.Wrap(err, "failed to create contract")
		}

		entry := newEntry(actor, entity.AuditEntityContract, contract.ID.String(), entity.AuditActionRecordContract)
		entry.ComplianceRelevant = true
		entry.NewValue = map[string]any{
			"contract_number": contract.ContractNumber,
			"buyer_name":      contract.BuyerName,
			"buyer_country":   contract.BuyerCountry,
			"value_usd":       contract.ValueUSD,
			"status":          string(contract.Status),
		}
		entry.Description = "Sales contract submitted"

		return entry, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to record contract")
	}

	return contract, nil
}

// ReviewContract approves or rejects a pending sales contract.
func (srv *registryService) ReviewContract(ctx context.Context, actor entity.Actor, contractID uuid.UUID, approve bool) (*entity.SalesContract, error) {
	if err := srv.requireRole(ctx, actor, entity.AuditEntityContract, contractID.String(), "REVIEW_CONTRACT", entity.RoleECTA); err != nil {
		return nil, err
	}

	next := entity.ContractStatusRejected
	severity := entity.SeverityHigh
	if approve {
		next = entity.ContractStatusApproved
		severity = entity.SeverityMedium
	}

	var contract *entity.SalesContract

	err := srv.write(ctx, func(repoFactory repository.RepositoryFactory) (*entity.AuditLog, error) {
		lotRepo := repoFactory.NewLotRepository()

		found, err := lotRepo.FindContractByID(ctx, contractID)
		if err != nil {
			if errors.Is(err, repository.ErrContractNotFound) {
				return nil, domainerrors.ErrNotFound.WithDetails("sales contract not found")
			}

			return nil, errors.Wrap(err, "failed to find contract")
		}
		if found.Status != entity.ContractStatusPending {
			return nil, domainerrors.NewInvalidStatusTransition(string(found.Status), "REVIEW_CONTRACT")
		}

		if err := lotRepo.UpdateContractStatus(ctx, contractID, next); err != nil {
			return nil, errors.Wrap(err, "failed to update contract status")
		}

		contract, err = lotRepo.FindContractByID(ctx, contractID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to reload contract")
		}

		entry := newEntry(actor, entity.AuditEntityContract, contractID.String(), entity.AuditActionRecordContract)
		entry.Severity = severity
		entry.ComplianceRelevant = true
		entry.OldValue = map[string]any{"status": string(found.Status)}
		entry.NewValue = map[string]any{"status": string(contract.Status)}
		entry.Description = fmt.Sprintf("Sales contract %s %s", contract.ContractNumber, strings.ToLower(string(next)))

		return entry, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to review contract")
	}

	return contract, nil
}
