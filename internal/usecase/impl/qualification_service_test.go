package impl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/usecase"
)

func TestQualificationService_ValidateExporter_FullyQualified(t *testing.T) {
	f := newFixture(t)
	profile := f.seedQualifiedExporter(t)

	validation, err := f.qualification.ValidateExporter(context.Background(), profile.ID)
	require.NoError(t, err)

	assert.True(t, validation.IsValid)
	assert.True(t, validation.ProfileFound)
	assert.Empty(t, validation.Issues)
	assert.Empty(t, validation.RequiredActions)
}

func TestQualificationService_ValidateExporter_MissingProfile(t *testing.T) {
	f := newFixture(t)

	validation, err := f.qualification.ValidateExporter(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.False(t, validation.IsValid)
	assert.False(t, validation.ProfileFound)
	assert.Equal(t, []string{"Exporter profile not found"}, validation.Issues)
	assert.Len(t, validation.RequiredActions, 1)
}

func TestQualificationService_ValidateExporter_ReportsEveryGap(t *testing.T) {
	f := newFixture(t)
	profile := f.seedExporter(t, entity.BusinessTypePrivate, entity.ExporterStatusPendingApproval, 1_000_000, true)

	validation, err := f.qualification.ValidateExporter(context.Background(), profile.ID)
	require.NoError(t, err)

	assert.False(t, validation.IsValid)
	assert.True(t, validation.ProfileFound)
	assert.False(t, validation.HasValidProfile)
	assert.False(t, validation.HasMinimumCapital)
	assert.False(t, validation.HasCertifiedLaboratory)
	assert.False(t, validation.HasQualifiedTaster)
	assert.False(t, validation.HasCompetenceCert)
	assert.False(t, validation.HasExportLicense)
	assert.Len(t, validation.Issues, 6)
	assert.Len(t, validation.RequiredActions, len(validation.Issues))
	assert.Contains(t, validation.Issues[1], "Required: ETB 15,000,000")
}

func TestQualificationService_ValidateExporter_UnverifiedCapital(t *testing.T) {
	f := newFixture(t)
	profile := f.seedExporter(t, entity.BusinessTypePrivate, entity.ExporterStatusActive, 50_000_000, false)
	f.seedArtifacts(t, profile.ID, true)

	validation, err := f.qualification.ValidateExporter(context.Background(), profile.ID)
	require.NoError(t, err)

	assert.False(t, validation.IsValid)
	assert.False(t, validation.HasMinimumCapital)
	assert.Equal(t, []string{"Capital has not been verified"}, validation.Issues)
}

func TestQualificationService_ValidateExporter_NonExclusiveTaster(t *testing.T) {
	f := newFixture(t)
	profile := f.seedExporter(t, entity.BusinessTypeLLC, entity.ExporterStatusActive, 20_000_000, true)
	f.seedArtifacts(t, profile.ID, false)

	validation, err := f.qualification.ValidateExporter(context.Background(), profile.ID)
	require.NoError(t, err)

	assert.False(t, validation.IsValid)
	assert.False(t, validation.HasQualifiedTaster)
	assert.Equal(t, []string{"Coffee taster is not an exclusive employee"}, validation.Issues)
}

func TestQualificationService_ValidateExporter_ExpiredLicense(t *testing.T) {
	f := newFixture(t)
	profile := f.seedExporter(t, entity.BusinessTypePrivate, entity.ExporterStatusActive, 20_000_000, true)

	ctx := context.Background()
	repo := f.store.Factory().NewQualificationRepository()
	valid := time.Now().AddDate(1, 0, 0)
	expired := time.Now().AddDate(0, 0, -1)
	require.NoError(t, repo.CreateLaboratory(ctx, &entity.CoffeeLaboratory{Qualification: activeQualification(profile.ID, valid)}))
	require.NoError(t, repo.CreateTaster(ctx, &entity.CoffeeTaster{Qualification: activeQualification(profile.ID, valid), IsExclusiveEmployee: true}))
	require.NoError(t, repo.CreateCompetenceCertificate(ctx, &entity.CompetenceCertificate{Qualification: activeQualification(profile.ID, valid)}))
	require.NoError(t, repo.CreateExportLicense(ctx, &entity.ExportLicense{Qualification: activeQualification(profile.ID, expired)}))

	validation, err := f.qualification.ValidateExporter(ctx, profile.ID)
	require.NoError(t, err)

	assert.False(t, validation.IsValid)
	assert.False(t, validation.HasExportLicense)
	require.Len(t, validation.Issues, 1)
	assert.Contains(t, validation.Issues[0], "Export license expired on")
}

func TestQualificationService_ValidateExporter_FarmerSkipsLabAndTaster(t *testing.T) {
	f := newFixture(t)
	profile := f.seedExporter(t, entity.BusinessTypeFarmer, entity.ExporterStatusActive, 0, false)

	ctx := context.Background()
	repo := f.store.Factory().NewQualificationRepository()
	expiry := time.Now().AddDate(1, 0, 0)
	require.NoError(t, repo.CreateCompetenceCertificate(ctx, &entity.CompetenceCertificate{Qualification: activeQualification(profile.ID, expiry)}))
	require.NoError(t, repo.CreateExportLicense(ctx, &entity.ExportLicense{Qualification: activeQualification(profile.ID, expiry)}))

	validation, err := f.qualification.ValidateExporter(ctx, profile.ID)
	require.NoError(t, err)

	assert.True(t, validation.IsValid)
	assert.True(t, validation.HasMinimumCapital)
	assert.True(t, validation.HasCertifiedLaboratory)
	assert.True(t, validation.HasQualifiedTaster)
}

func TestQualificationService_CanCreateExportRequest(t *testing.T) {
	f := newFixture(t)
	qualified := f.seedQualifiedExporter(t)
	pending := f.seedExporter(t, entity.BusinessTypePrivate, entity.ExporterStatusPendingApproval, 20_000_000, true)
	f.seedArtifacts(t, pending.ID, true)

	ctx := context.Background()

	allowed, err := f.qualification.CanCreateExportRequest(ctx, qualified.ID)
	require.NoError(t, err)
	assert.True(t, allowed.Allowed)
	assert.Empty(t, allowed.Reason)

	refused, err := f.qualification.CanCreateExportRequest(ctx, pending.ID)
	require.NoError(t, err)
	assert.False(t, refused.Allowed)
	assert.Equal(t, "Exporter profile is not active (status: PENDING_APPROVAL)", refused.Reason)
	assert.Len(t, refused.RequiredActions, 1)
}

func TestQualificationService_ValidateEstimatedValue(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		quantity float64
		value    float64
		want     bool
	}{
		{name: "at minimum", quantity: 1000, value: 2000, want: true},
		{name: "above minimum", quantity: 1000, value: 5000, want: true},
		{name: "below minimum", quantity: 1000, value: 1999.99, want: false},
		{name: "zero quantity", quantity: 0, value: 100, want: false},
		{name: "zero value", quantity: 100, value: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.qualification.ValidateEstimatedValue(tt.quantity, tt.value))
		})
	}
}

func TestQualificationService_ValidateExportPermitRequirements(t *testing.T) {
	f := newFixture(t)
	profile := f.seedQualifiedExporter(t)
	lot := f.seedLot(t, profile.ID, entity.LotStatusInspected)

	ctx := context.Background()
	lotRepo := f.store.Factory().NewLotRepository()

	contract := &entity.SalesContract{
		ExporterID:     profile.ID,
		ContractNumber: "SC-001",
		BuyerName:      "Hamburg Roasters GmbH",
		BuyerCountry:   "Germany",
		QuantityKg:     1000,
		ValueUSD:       5000,
		Status:         entity.ContractStatusApproved,
	}
	require.NoError(t, lotRepo.CreateContract(ctx, contract))

	inspection := &entity.QualityInspection{
		LotID:       lot.ID,
		ExporterID:  profile.ID,
		InspectorID: uuid.New(),
		Grade:       "G1",
		CupScore:    87.5,
		Passed:      true,
		InspectedAt: time.Now(),
	}
	require.NoError(t, lotRepo.CreateInspection(ctx, inspection))

	t.Run("all requirements met", func(t *testing.T) {
		check, err := f.qualification.ValidateExportPermitRequirements(ctx, &usecase.PermitRequirementsInput{
			ExporterID:   profile.ID,
			LotID:        lot.ID,
			ContractID:   contract.ID,
			InspectionID: inspection.ID,
		})
		require.NoError(t, err)
		assert.True(t, check.Valid)
		assert.Empty(t, check.Issues)
	})

	t.Run("missing artifacts are all reported", func(t *testing.T) {
		check, err := f.qualification.ValidateExportPermitRequirements(ctx, &usecase.PermitRequirementsInput{
			ExporterID:   profile.ID,
			LotID:        uuid.New(),
			ContractID:   uuid.New(),
			InspectionID: uuid.New(),
		})
		require.NoError(t, err)
		assert.False(t, check.Valid)
		assert.Equal(t, []string{
			"Coffee lot not found",
			"Sales contract not found",
			"Quality inspection not found",
		}, check.Issues)
	})

	t.Run("another exporter's artifacts", func(t *testing.T) {
		other := f.seedQualifiedExporter(t)

		check, err := f.qualification.ValidateExportPermitRequirements(ctx, &usecase.PermitRequirementsInput{
			ExporterID:   other.ID,
			LotID:        lot.ID,
			ContractID:   contract.ID,
			InspectionID: inspection.ID,
		})
		require.NoError(t, err)
		assert.False(t, check.Valid)
		assert.Contains(t, check.Issues, "Coffee lot is not owned by the exporter")
		assert.Contains(t, check.Issues, "Sales contract does not belong to the exporter")
		assert.Contains(t, check.Issues, "Quality inspection does not belong to the exporter")
	})
}
