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

func TestAuditService_LogEvent(t *testing.T) {
	f := newFixture(t)
	actor := actorFor(entity.RoleECTA, uuid.New())
	exportID := uuid.New()
	ctx := context.Background()

	id, err := f.audit.LogEvent(ctx, &usecase.LogEventInput{
		Actor:              actor,
		EntityType:         entity.AuditEntityExport,
		EntityID:           exportID.String(),
		ExportID:           &exportID,
		Action:             entity.AuditActionApproveOrigin,
		NewValue:           map[string]any{"status": "ECTA_ORIGIN_APPROVED"},
		Severity:           entity.SeverityMedium,
		ComplianceRelevant: true,
		Description:        "origin approved",
	})
	require.NoError(t, err)

	entry, err := f.audit.GetAuditLog(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, entry.UserID)
	assert.Equal(t, entity.RoleECTA, entry.ActorRole)
	require.NotNil(t, entry.OrganizationID)
	assert.Equal(t, actor.OrganizationID, *entry.OrganizationID)
	assert.Equal(t, entity.AuditStatusPending, entry.Status)
	assert.Empty(t, entry.LedgerTxID)
	assert.NotEmpty(t, entry.ContentHash)
	assert.False(t, entry.CreatedAt.IsZero())

	byExport, err := f.audit.GetExportAuditLogs(ctx, exportID, entity.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, byExport, 1)

	byUser, err := f.audit.GetUserAuditLogs(ctx, actor.ID, entity.AuditQuery{})
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	byOrg, err := f.audit.GetOrganizationAuditLogs(ctx, actor.OrganizationID, entity.AuditQuery{})
	require.NoError(t, err)
	assert.Len(t, byOrg, 1)

	byAction, err := f.audit.GetAuditLogsByAction(ctx, entity.AuditActionApproveOrigin, entity.AuditQuery{})
	require.NoError(t, err)
	assert.Len(t, byAction, 1)
}

func TestAuditService_LogEvent_InvalidInput(t *testing.T) {
	f := newFixture(t)
	actor := actorFor(entity.RoleAdmin, uuid.New())

	tests := []struct {
		name  string
		input *usecase.LogEventInput
	}{
		{name: "missing action", input: &usecase.LogEventInput{Actor: actor, EntityType: entity.AuditEntityExport}},
		{name: "missing entity type", input: &usecase.LogEventInput{Actor: actor, Action: entity.AuditActionCreateExport}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.audit.LogEvent(context.Background(), tt.input)
			require.ErrorIs(t, err, domainerrors.ErrMissingRequiredField)
		})
	}

	assert.Empty(t, f.allAuditEntries(t))
}

func TestAuditService_LogEvent_CriticalRaisesAlert(t *testing.T) {
	f := newFixture(t)
	f.alerts.EXPECT().NotifyCritical(mock.Anything, mock.MatchedBy(func(entry *entity.AuditLog) bool {
		return entry.Description == "token replay detected"
	})).Return(errors.New("smtp unavailable")).Once()

	id, err := f.audit.LogEvent(context.Background(), &usecase.LogEventInput{
		Actor:       actorFor(entity.RoleAdmin, uuid.New()),
		EntityType:  entity.AuditEntityExporter,
		EntityID:    "session-9",
		Action:      entity.AuditActionUnauthorizedAccess,
		Severity:    entity.SeverityCritical,
		Description: "token replay detected",
	})

	// An alert failure never undoes the write.
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	f.alerts.AssertExpectations(t)
}

func TestAuditService_GetAuditLog_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.audit.GetAuditLog(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrAuditLogNotFound)
}

func TestAuditService_GetExportHistory(t *testing.T) {
	f := newFixture(t)
	profile := f.seedQualifiedExporter(t)
	actors := newPipelineActors(profile.ID)
	export := f.createExport(t, actors.exporter, profile.ID, nil)
	f.run(t, export.ID, []pipelineStep{
		{actors.exporter, entity.ActionSubmitToECX, entity.ExportStatusECXPending},
		{actors.ecx, entity.ActionVerifyECX, entity.ExportStatusECXVerified},
	})
	ctx := context.Background()

	history, err := f.audit.GetExportHistory(ctx, export.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.ExportStatusPending, history[0].NewStatus)
	assert.Equal(t, entity.ExportStatusECXVerified, history[2].NewStatus)
	assert.Less(t, history[0].ID, history[1].ID)

	_, err = f.audit.GetExportHistory(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrExportNotFound)
}

func TestAuditService_VerifyIntegrity(t *testing.T) {
	f := newFixture(t)
	f.anchorOK()
	profile := f.seedQualifiedExporter(t)
	actors := newPipelineActors(profile.ID)
	export := f.createExport(t, actors.exporter, profile.ID, nil)
	f.run(t, export.ID, []pipelineStep{
		{actors.ecta, entity.ActionApproveQuality, entity.ExportStatusQualityCertified},
		{actors.bank, entity.ActionApproveFX, entity.ExportStatusFXApproved},
	})
	ctx := context.Background()

	result, err := f.audit.VerifyAuditLogIntegrity(ctx, entity.AuditQuery{})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 3, result.Checked)
	assert.Empty(t, result.Issues)

	// A row written around the sealer carries a hash that does not match its content.
	forged := &entity.AuditLog{
		ID:          uuid.New(),
		UserID:      actors.exporter.ID,
		EntityType:  entity.AuditEntityExport,
		EntityID:    export.ID.String(),
		Action:      entity.AuditActionCompleteExport,
		Severity:    entity.SeverityLow,
		Status:      entity.AuditStatusRecorded,
		ContentHash: "0000",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, f.store.Factory().NewAuditRepository().AppendAuditLog(ctx, forged))

	result, err = f.audit.VerifyAuditLogIntegrity(ctx, entity.AuditQuery{})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, 4, result.Checked)
	assert.Equal(t, []uuid.UUID{forged.ID}, result.InvalidIDs)
	assert.Len(t, result.Issues, 2)
	assert.Contains(t, result.Issues[0], "recorded entry has no ledger transaction")
	assert.Contains(t, result.Issues[1], "content hash mismatch")
}

func TestAuditService_GenerateAuditReport(t *testing.T) {
	f := newFixture(t)
	f.alertsOK()
	profile := f.seedQualifiedExporter(t)
	actors := newPipelineActors(profile.ID)
	export := f.createExport(t, actors.exporter, profile.ID, nil)
	f.run(t, export.ID, []pipelineStep{{actors.exporter, entity.ActionSubmitToECX, entity.ExportStatusECXPending}})
	_, err := f.exports.RejectECX(context.Background(), actors.ecx, export.ID, &usecase.TransitionInput{Reason: validReason})
	require.NoError(t, err)
	_, err = f.exports.VerifyECX(context.Background(), actors.customs, export.ID, nil)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	f.archiver.EXPECT().Archive(mock.Anything, mock.MatchedBy(func(report *entity.AuditReport) bool {
		return report.TotalEntries == 4
	})).Return("reports/2026/report.json", nil).Once()

	regulator := actorFor(entity.RoleECTA, uuid.New())
	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)

	report, err := f.audit.GenerateAuditReport(context.Background(), regulator, from, to)
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalEntries)
	assert.Equal(t, 4, report.ComplianceCount)
	assert.Equal(t, 1, report.ByAction[entity.AuditActionRejectECX])
	assert.Equal(t, 1, report.BySeverity[entity.SeverityCritical])
	assert.Equal(t, 4, report.ByEntityType[entity.AuditEntityExport])
	assert.Len(t, report.Suspicious, 2)
	assert.Equal(t, "reports/2026/report.json", report.ArchiveKey)
	f.archiver.AssertExpectations(t)

	generated, err := f.audit.GetAuditLogsByAction(context.Background(), entity.AuditActionGenerateReport, entity.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Equal(t, regulator.ID, generated[0].UserID)
	assert.Equal(t, "reports/2026/report.json", generated[0].NewValue["archive_key"])
}

func TestAuditService_GenerateAuditReport_InvalidWindow(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	_, err := f.audit.GenerateAuditReport(context.Background(), actorFor(entity.RoleAdmin, uuid.New()), now, now.Add(-time.Minute))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAuditService_AnchorPending(t *testing.T) {
	f := newFixture(t)
	profile := f.seedQualifiedExporter(t)
	actors := newPipelineActors(profile.ID)
	export := f.createExport(t, actors.exporter, profile.ID, nil)
	ctx := context.Background()

	// The ledger is down while the export moves, so anchored entries stay pending.
	f.ledger.EXPECT().Anchor(mock.Anything, mock.Anything).Return("", errors.New("ledger unavailable")).Twice()
	f.run(t, export.ID, []pipelineStep{
		{actors.ecta, entity.ActionApproveQuality, entity.ExportStatusQualityCertified},
		{actors.bank, entity.ActionApproveFX, entity.ExportStatusFXApproved},
		{actors.customs, entity.ActionClearCustoms, entity.ExportStatusCustomsCleared},
	})

	pending := 0
	for _, entry := range f.auditEntries(t, export.ID) {
		if entry.Action.IsLedgerAnchored() {
			assert.Equal(t, entity.AuditStatusPending, entry.Status)
			pending++
		}
	}
	require.Equal(t, 2, pending)

	f.ledger.EXPECT().Anchor(mock.Anything, mock.Anything).Return("tx-retry", nil).Twice()

	recorded, err := f.audit.AnchorPending(ctx, entity.AuditQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, recorded)

	for _, entry := range f.auditEntries(t, export.ID) {
		if entry.Action.IsLedgerAnchored() {
			assert.Equal(t, entity.AuditStatusRecorded, entry.Status)
			assert.Equal(t, "tx-retry", entry.LedgerTxID)
		}
	}

	recorded, err = f.audit.AnchorPending(ctx, entity.AuditQuery{})
	require.NoError(t, err)
	assert.Zero(t, recorded)
	f.ledger.AssertExpectations(t)

	result, err := f.audit.VerifyAuditLogIntegrity(ctx, entity.AuditQuery{})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestAuditService_AnchorEntry(t *testing.T) {
	f := newFixture(t)
	actor := actorFor(entity.RoleNationalBank, uuid.New())
	ctx := context.Background()

	f.ledger.EXPECT().Anchor(mock.Anything, mock.Anything).Return("", errors.New("ledger unavailable")).Once()
	anchoredID, err := f.audit.LogEvent(ctx, &usecase.LogEventInput{
		Actor:      actor,
		EntityType: entity.AuditEntityExport,
		EntityID:   uuid.NewString(),
		Action:     entity.AuditActionApproveFX,
		Severity:   entity.SeverityHigh,
	})
	require.NoError(t, err)

	plainID, err := f.audit.LogEvent(ctx, &usecase.LogEventInput{
		Actor:      actor,
		EntityType: entity.AuditEntityExport,
		EntityID:   uuid.NewString(),
		Action:     entity.AuditActionSubmitToECX,
	})
	require.NoError(t, err)

	f.ledger.EXPECT().Anchor(mock.Anything, mock.Anything).Return("tx-manual", nil).Once()
	require.NoError(t, f.audit.AnchorEntry(ctx, anchoredID))

	entry, err := f.audit.GetAuditLog(ctx, anchoredID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusRecorded, entry.Status)
	assert.Equal(t, "tx-manual", entry.LedgerTxID)

	// Anchoring a recorded entry again is a no-op.
	require.NoError(t, f.audit.AnchorEntry(ctx, anchoredID))

	err = f.audit.AnchorEntry(ctx, plainID)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	err = f.audit.AnchorEntry(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrAuditLogNotFound)
	f.ledger.AssertExpectations(t)
}
