// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/fx"

	"coffeexport/config"
	deliverycontext "coffeexport/internal/delivery/context"
	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/repository"
	"coffeexport/internal/errors"
	"coffeexport/internal/usecase"
)

// qualificationService implements the QualificationUsecase interface.
type qualificationService struct {
	txManager      repository.TransactionManager
	minimumCapital map[entity.BusinessType]float64
	minPricePerKg  float64
	now            func() time.Time
	logger         *slog.Logger
}

// QualificationServiceParams holds dependencies for QualificationService, injected by Fx.
type QualificationServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Config    *config.Config
	Logger    *slog.Logger
}

// NewQualificationService is the constructor for qualificationService.
func NewQualificationService(params QualificationServiceParams) usecase.QualificationUsecase {
	minimumCapital := make(map[entity.BusinessType]float64, len(entity.DefaultMinimumCapital))
	for businessType, amount := range entity.DefaultMinimumCapital {
		minimumCapital[businessType] = amount
	}

	minPricePerKg := 2.0
	if params.Config != nil && params.Config.Workflow != nil {
		for name, amount := range params.Config.Workflow.MinimumCapital {
			businessType := entity.BusinessType(strings.ToUpper(name))
			if businessType.IsValid() && !businessType.IsFarmer() {
				minimumCapital[businessType] = amount
			}
		}
		if params.Config.Workflow.MinPricePerKg > 0 {
			minPricePerKg = params.Config.Workflow.MinPricePerKg
		}
	}

	return &qualificationService{
		txManager:      params.TxManager,
		minimumCapital: minimumCapital,
		minPricePerKg:  minPricePerKg,
		now:            time.Now,
		logger:         params.Logger,
	}
}

func (srv *qualificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// qualificationRecords is everything a validation run reads, loaded in one transaction.
type qualificationRecords struct {
	profile    *entity.ExporterProfile
	laboratory *entity.CoffeeLaboratory
	taster     *entity.CoffeeTaster
	competence *entity.CompetenceCertificate
	license    *entity.ExportLicense
}

func (srv *qualificationService) loadRecords(ctx context.Context, repoFactory repository.RepositoryFactory, exporterID uuid.UUID) (*qualificationRecords, error) {
	exporterRepo := repoFactory.NewExporterRepository()
	qualificationRepo := repoFactory.NewQualificationRepository()

	records := &qualificationRecords{}

	profile, err := exporterRepo.FindExporterByID(ctx, exporterID)
	if err != nil {
		if errors.Is(err, repository.ErrExporterNotFound) {
			return records, nil
		}

		return nil, errors.Wrap(err, "failed to find exporter profile")
	}
	records.profile = profile

	if !profile.BusinessType.IsFarmer() {
		if records.laboratory, err = optional(qualificationRepo.FindActiveLaboratory(ctx, exporterID)); err != nil {
			return nil, errors.Wrap(err, "failed to find laboratory")
		}
		if records.taster, err = optional(qualificationRepo.FindActiveTaster(ctx, exporterID)); err != nil {
			return nil, errors.Wrap(err, "failed to find taster")
		}
	}
	if records.competence, err = optional(qualificationRepo.FindActiveCompetenceCertificate(ctx, exporterID)); err != nil {
		return nil, errors.Wrap(err, "failed to find competence certificate")
	}
	if records.license, err = optional(qualificationRepo.FindActiveExportLicense(ctx, exporterID)); err != nil {
		return nil, errors.Wrap(err, "failed to find export license")
	}

	return records, nil
}

// optional turns a not-found lookup into a nil record.
func optional[T any](record *T, err error) (*T, error) {
	if errors.Is(err, repository.ErrQualificationNotFound) {
		return nil, nil
	}

	return record, err
}

// ValidateExporter runs every qualification check and reports the full gap list.
func (srv *qualificationService) ValidateExporter(ctx context.Context, exporterID uuid.UUID) (*entity.ExporterValidation, error) {
	var records *qualificationRecords

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		loaded, err := srv.loadRecords(ctx, repoFactory, exporterID)
		if err != nil {
			return err
		}
		records = loaded

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate exporter")
	}

	validation := srv.evaluate(exporterID, records)
	srv.log(ctx).Debug("Exporter validated",
		"exporterID", exporterID,
		"isValid", validation.IsValid,
		"issues", len(validation.Issues),
	)

	return validation, nil
}

func (srv *qualificationService) evaluate(exporterID uuid.UUID, records *qualificationRecords) *entity.ExporterValidation {
	now := srv.now()
	validation := &entity.ExporterValidation{
		ExporterID:      exporterID,
		Issues:          []string{},
		RequiredActions: []string{},
		ValidatedAt:     now,
	}

	profile := records.profile
	if profile == nil {
		validation.AddIssue("Exporter profile not found", "Complete exporter registration")

		return validation
	}
	validation.ProfileFound = true

	validation.HasValidProfile = profile.Status == entity.ExporterStatusActive
	if !validation.HasValidProfile {
		validation.AddIssue(
			fmt.Sprintf("Exporter profile is not active (status: %s)", profile.Status),
			"Obtain ECTA approval of the exporter profile",
		)
	}

	farmer := profile.BusinessType.IsFarmer()

	required := srv.minimumCapital[profile.BusinessType]
	switch {
	case farmer:
		validation.HasMinimumCapital = true
	case !profile.CapitalVerified:
		validation.AddIssue("Capital has not been verified", "Submit capital verification documents to ECTA")
	case profile.MinimumCapital < required:
		validation.AddIssue(
			fmt.Sprintf("Minimum capital not met. Required: ETB %s, Current: ETB %s",
				humanize.Commaf(required), humanize.Commaf(profile.MinimumCapital)),
			fmt.Sprintf("Increase capital to at least ETB %s", humanize.Commaf(required)),
		)
	default:
		validation.HasMinimumCapital = true
	}

	if farmer {
		validation.HasCertifiedLaboratory = true
		validation.HasQualifiedTaster = true
	} else {
		validation.HasCertifiedLaboratory = records.laboratory != nil && records.laboratory.IsValidAt(now)
		if !validation.HasCertifiedLaboratory {
			validation.AddIssue(artifactIssue("certified coffee laboratory", qualificationOf(records.laboratory), now),
				"Register a coffee laboratory and obtain ECTA certification")
		}

		validation.HasQualifiedTaster = records.taster != nil &&
			records.taster.IsValidAt(now) &&
			records.taster.IsExclusiveEmployee
		if !validation.HasQualifiedTaster {
			issue := artifactIssue("qualified coffee taster", qualificationOf(records.taster), now)
			if records.taster != nil && records.taster.IsValidAt(now) {
				issue = "Coffee taster is not an exclusive employee"
			}
			validation.AddIssue(issue, "Employ an exclusive, ECTA-qualified coffee taster")
		}
	}

	validation.HasCompetenceCert = records.competence != nil && records.competence.IsValidAt(now)
	if !validation.HasCompetenceCert {
		validation.AddIssue(artifactIssue("competence certificate", qualificationOf(records.competence), now),
			"Apply for an ECTA competence certificate")
	}

	validation.HasExportLicense = records.license != nil && records.license.IsValidAt(now)
	if !validation.HasExportLicense {
		validation.AddIssue(artifactIssue("export license", qualificationOf(records.license), now),
			"Apply for or renew the coffee export license")
	}

	validation.Evaluate()

	return validation
}

type qualified interface {
	*entity.CoffeeLaboratory | *entity.CoffeeTaster | *entity.CompetenceCertificate | *entity.ExportLicense
}

func qualificationOf[T qualified](record T) *entity.Qualification {
	switch r := any(record).(type) {
	case *entity.CoffeeLaboratory:
		if r != nil {
			return &r.Qualification
		}
	case *entity.CoffeeTaster:
		if r != nil {
			return &r.Qualification
		}
	case *entity.CompetenceCertificate:
		if r != nil {
			return &r.Qualification
		}
	case *entity.ExportLicense:
		if r != nil {
			return &r.Qualification
		}
	}

	return nil
}

func artifactIssue(name string, q *entity.Qualification, now time.Time) string {
	switch {
	case q == nil:
		return "No active " + name
	case q.ExpiryDate == nil:
		return strings.ToUpper(name[:1]) + name[1:] + " has no expiry date"
	case !q.ExpiryDate.After(now):
		return fmt.Sprintf("%s%s expired on %s", strings.ToUpper(name[:1]), name[1:], q.ExpiryDate.Format(time.DateOnly))
	default:
		return fmt.Sprintf("%s%s is not active (status: %s)", strings.ToUpper(name[:1]), name[1:], q.Status)
	}
}

// CanCreateExportRequest summarizes ValidateExporter into a yes/no with a joined reason.
func (srv *qualificationService) CanCreateExportRequest(ctx context.Context, exporterID uuid.UUID) (*entity.ExportEligibility, error) {
	validation, err := srv.ValidateExporter(ctx, exporterID)
	if err != nil {
		return nil, err
	}

	if validation.IsValid {
		return &entity.ExportEligibility{Allowed: true}, nil
	}

	return &entity.ExportEligibility{
		Allowed:         false,
		Reason:          strings.Join(validation.Issues, "; "),
		RequiredActions: validation.RequiredActions,
	}, nil
}

// ValidateExportPermitRequirements checks the exporter, lot, contract and inspection together.
// Every check runs; the result lists all violations.
func (srv *qualificationService) ValidateExportPermitRequirements(ctx context.Context, input *usecase.PermitRequirementsInput) (*entity.PermitRequirementsCheck, error) {
	var (
		records    *qualificationRecords
		lot        *entity.CoffeeLot
		contract   *entity.SalesContract
		inspection *entity.QualityInspection
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		loaded, err := srv.loadRecords(ctx, repoFactory, input.ExporterID)
		if err != nil {
			return err
		}
		records = loaded

		lotRepo := repoFactory.NewLotRepository()

		if lot, err = lotRepo.FindLotByID(ctx, input.LotID); err != nil && !errors.Is(err, repository.ErrLotNotFound) {
			return errors.Wrap(err, "failed to find lot")
		}
		if contract, err = lotRepo.FindContractByID(ctx, input.ContractID); err != nil && !errors.Is(err, repository.ErrContractNotFound) {
			return errors.Wrap(err, "failed to find contract")
		}
		if inspection, err = lotRepo.FindInspectionByID(ctx, input.InspectionID); err != nil && !errors.Is(err, repository.ErrInspectionNotFound) {
			return errors.Wrap(err, "failed to find inspection")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate export permit requirements")
	}

	issues := append([]string{}, srv.evaluate(input.ExporterID, records).Issues...)

	switch {
	case lot == nil:
		issues = append(issues, "Coffee lot not found")
	default:
		if !lot.IsOwnedBy(input.ExporterID) {
			issues = append(issues, "Coffee lot is not owned by the exporter")
		}
		if lot.Status != entity.LotStatusInspected {
			issues = append(issues, fmt.Sprintf("Coffee lot is not inspected (status: %s)", lot.Status))
		}
	}

	switch {
	case contract == nil:
		issues = append(issues, "Sales contract not found")
	default:
		if contract.ExporterID != input.ExporterID {
			issues = append(issues, "Sales contract does not belong to the exporter")
		}
		if contract.Status != entity.ContractStatusApproved {
			issues = append(issues, fmt.Sprintf("Sales contract is not approved (status: %s)", contract.Status))
		}
	}

	switch {
	case inspection == nil:
		issues = append(issues, "Quality inspection not found")
	default:
		if inspection.ExporterID != input.ExporterID {
			issues = append(issues, "Quality inspection does not belong to the exporter")
		}
		if !inspection.Passed {
			issues = append(issues, "Quality inspection did not pass")
		}
	}

	return &entity.PermitRequirementsCheck{
		Valid:  len(issues) == 0,
		Issues: issues,
	}, nil
}

// ValidateEstimatedValue reports whether the declared value meets the minimum price per kilogram.
func (srv *qualificationService) ValidateEstimatedValue(quantityKg, estimatedValue float64) bool {
	if quantityKg <= 0 || estimatedValue <= 0 {
		return false
	}

	return estimatedValue/quantityKg >= srv.minPricePerKg
}
