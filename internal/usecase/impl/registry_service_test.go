package impl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/errors"
	"coffeexport/internal/usecase"
)

func registerInput() *usecase.RegisterExporterInput {
	return &usecase.RegisterExporterInput{
		BusinessName:       "Guji Highlands Export PLC",
		TIN:                "0012345678",
		RegistrationNumber: "MT/AA/1/0045/2024",
		BusinessType:       entity.BusinessTypePrivate,
		MinimumCapital:     18_000_000,
		ContactPerson:      "Hirut Alemu",
		Email:              "export@gujihighlands.et",
	}
}

func TestRegistryService_OnboardingToFirstExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exporter := actorFor(entity.RoleExporter, uuid.New())
	ecta := actorFor(entity.RoleECTA, uuid.New())
	ecx := actorFor(entity.RoleECX, uuid.New())

	profile, err := f.registry.RegisterExporter(ctx, exporter, registerInput())
	require.NoError(t, err)
	assert.Equal(t, exporter.OrganizationID, profile.ID)
	assert.Equal(t, entity.ExporterStatusPendingApproval, profile.Status)

	verified := true
	profile, err = f.registry.ReviewExporterProfile(ctx, ecta, profile.ID, &usecase.ReviewExporterInput{
		Status:          entity.ExporterStatusActive,
		CapitalVerified: &verified,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ExporterStatusActive, profile.Status)
	assert.True(t, profile.CapitalVerified)

	submissions := []*usecase.SubmitQualificationInput{
		{Kind: entity.ArtifactKindLaboratory, Number: "LAB-01", LaboratoryName: "Guji Cupping Lab"},
		{Kind: entity.ArtifactKindTaster, Number: "TST-01", FullName: "Mulugeta Tesfaye", IsExclusiveEmployee: true},
		{Kind: entity.ArtifactKindCompetenceCertificate, Number: "CC-01"},
		{Kind: entity.ArtifactKindExportLicense, Number: "EL-01", CoffeeTypes: []string{"Arabica"}},
	}
	expiry := time.Now().AddDate(1, 0, 0)
	for _, input := range submissions {
		submitted, err := f.registry.SubmitQualification(ctx, exporter, profile.ID, input)
		require.NoError(t, err, "kind %s", input.Kind)
		assert.Equal(t, entity.ArtifactStatusPending, submitted.Status)

		activated, err := f.registry.SetQualificationStatus(ctx, ecta, input.Kind, submitted.ID, &usecase.QualificationStatusInput{
			Status:     entity.ArtifactStatusActive,
			ExpiryDate: &expiry,
		})
		require.NoError(t, err, "kind %s", input.Kind)
		assert.Equal(t, entity.ArtifactStatusActive, activated.Status)
		require.NotNil(t, activated.IssuedBy)
		assert.Equal(t, ecta.ID, *activated.IssuedBy)
	}

	qualifications, err := f.registry.ListExporterQualifications(ctx, exporter, profile.ID)
	require.NoError(t, err)
	assert.Len(t, qualifications, 4)

	validation, err := f.qualification.ValidateExporter(ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, validation.IsValid, validation.Issues)

	owner := profile.ID
	lot, err := f.registry.RegisterLot(ctx, ecx, &usecase.RegisterLotInput{
		LotNumber:        "ECX-2026-0001",
		WarehouseReceipt: "WR-778",
		CoffeeType:       "Guji Natural",
		Grade:            "G1",
		QuantityKg:       6000,
		PurchasedBy:      &owner,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LotStatusInWarehouse, lot.Status)

	_, err = f.registry.RecordInspection(ctx, ecta, &usecase.RecordInspectionInput{
		LotID:      lot.ID,
		ExporterID: profile.ID,
		Grade:      "G1",
		CupScore:   87.5,
		Passed:     true,
	})
	require.NoError(t, err)

	export, err := f.exports.CreateExport(ctx, exporter, &usecase.CreateExportInput{
		ExporterID: profile.ID,
		LotID:      &lot.ID,
		Details:    validDetails(),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ExportStatusPending, export.Status)

	actions := make([]entity.AuditAction, 0)
	for _, entry := range f.allAuditEntries(t) {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, entity.AuditActionRegisterExporter, actions[0])
	assert.Equal(t, entity.AuditActionReviewExporter, actions[1])
	assert.Contains(t, actions, entity.AuditActionCertifyQualification)
	assert.Contains(t, actions, entity.AuditActionRecordInspection)
	assert.Equal(t, entity.AuditActionCreateExport, actions[len(actions)-1])
}

func TestRegistryService_RegisterExporter(t *testing.T) {
	f := newFixture(t)
	f.alertsOK()
	ctx := context.Background()
	exporter := actorFor(entity.RoleExporter, uuid.New())

	_, err := f.registry.RegisterExporter(ctx, exporter, registerInput())
	require.NoError(t, err)

	_, err = f.registry.RegisterExporter(ctx, exporter, registerInput())
	require.ErrorIs(t, err, domainerrors.ErrExporterAlreadyRegistered)

	invalid := registerInput()
	invalid.BusinessType = entity.BusinessType("COOPERATIVE")
	_, err = f.registry.RegisterExporter(ctx, actorFor(entity.RoleExporter, uuid.New()), invalid)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = f.registry.RegisterExporter(ctx, actorFor(entity.RoleCustoms, uuid.New()), registerInput())
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestRegistryService_ReviewRequiresRegulator(t *testing.T) {
	f := newFixture(t)
	profile := f.seedExporter(t, entity.BusinessTypePrivate, entity.ExporterStatusPendingApproval, 20_000_000, false)
	self := actorFor(entity.RoleExporter, profile.ID)
	f.alerts.EXPECT().NotifyCritical(mock.Anything, mock.MatchedBy(func(entry *entity.AuditLog) bool {
		return entry.UserID == self.ID && entry.Action == entity.AuditActionUnauthorizedAccess
	})).Return(nil).Once()

	_, err := f.registry.ReviewExporterProfile(context.Background(), self, profile.ID, &usecase.ReviewExporterInput{
		Status: entity.ExporterStatusActive,
	})
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	stored, err := f.store.Factory().NewExporterRepository().FindExporterByID(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExporterStatusPendingApproval, stored.Status)
	f.alerts.AssertExpectations(t)
}

func TestRegistryService_SuspensionRequiresReason(t *testing.T) {
	f := newFixture(t)
	profile := f.seedQualifiedExporter(t)
	ecta := actorFor(entity.RoleECTA, uuid.New())
	ctx := context.Background()

	_, err := f.registry.ReviewExporterProfile(ctx, ecta, profile.ID, &usecase.ReviewExporterInput{
		Status: entity.ExporterStatusSuspended,
		Reason: "late",
	})
	require.ErrorIs(t, err, domainerrors.ErrMissingRequiredField)

	suspended, err := f.registry.ReviewExporterProfile(ctx, ecta, profile.ID, &usecase.ReviewExporterInput{
		Status: entity.ExporterStatusSuspended,
		Reason: "Repeated contract registration irregularities",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ExporterStatusSuspended, suspended.Status)

	// A suspended exporter fails the gate on its next export.
	_, err = f.exports.CreateExport(ctx, actorFor(entity.RoleExporter, profile.ID), &usecase.CreateExportInput{
		ExporterID: profile.ID,
		Details:    validDetails(),
	})
	qualificationErr, ok := errors.AsType[*domainerrors.QualificationFailedError](err)
	require.True(t, ok)
	assert.Contains(t, qualificationErr.Issues, "Exporter profile is not active (status: SUSPENDED)")
}

func TestRegistryService_SetQualificationStatus(t *testing.T) {
	f := newFixture(t)
	profile := f.seedExporter(t, entity.BusinessTypePrivate, entity.ExporterStatusActive, 20_000_000, true)
	exporter := actorFor(entity.RoleExporter, profile.ID)
	ecta := actorFor(entity.RoleECTA, uuid.New())
	ctx := context.Background()
	future := time.Now().AddDate(0, 6, 0)
	past := time.Now().AddDate(0, -1, 0)

	first, err := f.registry.SubmitQualification(ctx, exporter, profile.ID, &usecase.SubmitQualificationInput{
		Kind: entity.ArtifactKindExportLicense, Number: "EL-100",
	})
	require.NoError(t, err)
	second, err := f.registry.SubmitQualification(ctx, exporter, profile.ID, &usecase.SubmitQualificationInput{
		Kind: entity.ArtifactKindExportLicense, Number: "EL-101",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   *usecase.QualificationStatusInput
		wantErr error
	}{
		{name: "activation without expiry", input: &usecase.QualificationStatusInput{Status: entity.ArtifactStatusActive}, wantErr: domainerrors.ErrMissingRequiredField},
		{name: "activation with past expiry", input: &usecase.QualificationStatusInput{Status: entity.ArtifactStatusActive, ExpiryDate: &past}, wantErr: domainerrors.ErrValidationFailed},
		{name: "unknown status", input: &usecase.QualificationStatusInput{Status: entity.ArtifactStatus("PROBATION")}, wantErr: domainerrors.ErrValidationFailed},
		{name: "revocation without reason", input: &usecase.QualificationStatusInput{Status: entity.ArtifactStatusRevoked}, wantErr: domainerrors.ErrMissingRequiredField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.registry.SetQualificationStatus(ctx, ecta, entity.ArtifactKindExportLicense, first.ID, tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = f.registry.SetQualificationStatus(ctx, ecta, entity.ArtifactKindExportLicense, first.ID, &usecase.QualificationStatusInput{
		Status: entity.ArtifactStatusActive, ExpiryDate: &future,
	})
	require.NoError(t, err)

	_, err = f.registry.SetQualificationStatus(ctx, ecta, entity.ArtifactKindExportLicense, second.ID, &usecase.QualificationStatusInput{
		Status: entity.ArtifactStatusActive, ExpiryDate: &future,
	})
	require.ErrorIs(t, err, domainerrors.ErrActiveQualificationExists)

	_, err = f.registry.SetQualificationStatus(ctx, ecta, entity.ArtifactKindTaster, first.ID, &usecase.QualificationStatusInput{
		Status: entity.ArtifactStatusExpired,
	})
	require.ErrorIs(t, err, domainerrors.ErrQualificationNotFound)
}

func TestRegistryService_LicenseRevocationIsCritical(t *testing.T) {
	f := newFixture(t)
	profile := f.seedExporter(t, entity.BusinessTypePrivate, entity.ExporterStatusActive, 20_000_000, true)
	ecta := actorFor(entity.RoleECTA, uuid.New())
	ctx := context.Background()
	license := &entity.ExportLicense{Qualification: activeQualification(profile.ID, time.Now().AddDate(1, 0, 0))}
	require.NoError(t, f.store.Factory().NewQualificationRepository().CreateExportLicense(ctx, license))

	f.alerts.EXPECT().NotifyCritical(mock.Anything, mock.MatchedBy(func(entry *entity.AuditLog) bool {
		return entry.Action == entity.AuditActionRevokeQualification
	})).Return(nil).Once()

	revoked, err := f.registry.SetQualificationStatus(ctx, ecta, entity.ArtifactKindExportLicense, license.ID, &usecase.QualificationStatusInput{
		Status: entity.ArtifactStatusRevoked,
		Reason: "License holder exported ungraded coffee",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ArtifactStatusRevoked, revoked.Status)
	f.alerts.AssertExpectations(t)

	entries := f.allAuditEntries(t)
	last := entries[len(entries)-1]
	assert.Equal(t, entity.SeverityCritical, last.Severity)
	assert.Equal(t, "ACTIVE", last.OldValue["status"])
}

func TestRegistryService_ExporterCannotTouchAnotherExporter(t *testing.T) {
	f := newFixture(t)
	f.alertsOK()
	profile := f.seedQualifiedExporter(t)
	intruder := actorFor(entity.RoleExporter, uuid.New())
	ctx := context.Background()

	_, err := f.registry.GetExporter(ctx, intruder, profile.ID)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = f.registry.SubmitQualification(ctx, intruder, profile.ID, &usecase.SubmitQualificationInput{
		Kind: entity.ArtifactKindTaster, Number: "TST-9", FullName: "Someone Else",
	})
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = f.registry.ListExporterQualifications(ctx, intruder, profile.ID)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	owner, err := f.registry.GetExporter(ctx, actorFor(entity.RoleExporter, profile.ID), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, owner.ID)

	denied, err := f.audit.GetAuditLogsByAction(ctx, entity.AuditActionUnauthorizedAccess, entity.AuditQuery{})
	require.NoError(t, err)
	assert.Len(t, denied, 3)
}

func TestRegistryService_ListExportersByStatus(t *testing.T) {
	f := newFixture(t)
	f.seedExporter(t, entity.BusinessTypePrivate, entity.ExporterStatusPendingApproval, 0, false)
	f.seedExporter(t, entity.BusinessTypeFarmer, entity.ExporterStatusPendingApproval, 0, false)
	f.seedQualifiedExporter(t)
	ecta := actorFor(entity.RoleECTA, uuid.New())
	ctx := context.Background()

	pending, err := f.registry.ListExportersByStatus(ctx, ecta, entity.ExporterStatusPendingApproval)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = f.registry.ListExportersByStatus(ctx, ecta, entity.ExporterStatus("DORMANT"))
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestRegistryService_FailedInspectionKeepsLotInWarehouse(t *testing.T) {
	f := newFixture(t)
	profile := f.seedQualifiedExporter(t)
	lot := f.seedLot(t, profile.ID, entity.LotStatusInWarehouse)
	ecta := actorFor(entity.RoleECTA, uuid.New())
	ctx := context.Background()

	inspection, err := f.registry.RecordInspection(ctx, ecta, &usecase.RecordInspectionInput{
		LotID:      lot.ID,
		ExporterID: profile.ID,
		Grade:      "UG",
		CupScore:   61,
		Passed:     false,
		Remarks:    "Excess primary defects",
	})
	require.NoError(t, err)
	assert.Equal(t, ecta.ID, inspection.InspectorID)

	stored, err := f.store.Factory().NewLotRepository().FindLotByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStatusInWarehouse, stored.Status)

	entries := f.allAuditEntries(t)
	assert.Equal(t, entity.SeverityHigh, entries[len(entries)-1].Severity)

	_, err = f.registry.RecordInspection(ctx, ecta, &usecase.RecordInspectionInput{LotID: uuid.New(), ExporterID: profile.ID, Grade: "G2"})
	require.ErrorIs(t, err, domainerrors.ErrLotNotFound)
}

func TestRegistryService_Contracts(t *testing.T) {
	f := newFixture(t)
	profile := f.seedQualifiedExporter(t)
	exporter := actorFor(entity.RoleExporter, profile.ID)
	ecta := actorFor(entity.RoleECTA, uuid.New())
	ctx := context.Background()
	input := &usecase.RecordContractInput{
		ContractNumber: "SC-2026-014",
		BuyerName:      "Hamburg Roasters GmbH",
		BuyerCountry:   "Germany",
		QuantityKg:     19_200,
		ValueUSD:       96_000,
	}

	contract, err := f.registry.RecordContract(ctx, exporter, profile.ID, input)
	require.NoError(t, err)
	assert.Equal(t, entity.ContractStatusPending, contract.Status)

	_, err = f.registry.RecordContract(ctx, exporter, profile.ID, input)
	require.ErrorIs(t, err, domainerrors.ErrConflict)

	approved, err := f.registry.ReviewContract(ctx, ecta, contract.ID, true)
	require.NoError(t, err)
	assert.Equal(t, entity.ContractStatusApproved, approved.Status)

	_, err = f.registry.ReviewContract(ctx, ecta, contract.ID, false)
	require.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	_, err = f.registry.ReviewContract(ctx, ecta, uuid.New(), true)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
