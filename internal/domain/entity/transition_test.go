package entity

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTransition(t *testing.T) {
	tests := []struct {
		name      string
		from      ExportStatus
		action    ExportAction
		wantTo    ExportStatus
		wantAudit AuditAction
		wantOK    bool
	}{
		{name: "submit draft", from: ExportStatusDraft, action: ActionSubmitDraft, wantTo: ExportStatusPending, wantAudit: AuditActionSubmitExport, wantOK: true},
		{name: "ecx verification", from: ExportStatusECXPending, action: ActionVerifyECX, wantTo: ExportStatusECXVerified, wantAudit: AuditActionVerifyECX, wantOK: true},
		{name: "quality from license approved", from: ExportStatusECTALicenseApproved, action: ActionApproveQuality, wantTo: ExportStatusECTAQualityApproved, wantAudit: AuditActionApproveQuality, wantOK: true},
		{name: "quality certification from pending", from: ExportStatusPending, action: ActionApproveQuality, wantTo: ExportStatusQualityCertified, wantAudit: AuditActionApproveQuality, wantOK: true},
		{name: "full flow fx approval", from: ExportStatusFXApplicationPending, action: ActionApproveFX, wantTo: ExportStatusFXApproved, wantAudit: AuditActionApproveFX, wantOK: true},
		{name: "bank-centric fx approval", from: ExportStatusQualityCertified, action: ActionApproveFX, wantTo: ExportStatusFXApproved, wantAudit: AuditActionBankingApproved, wantOK: true},
		{name: "delivery straight from shipped", from: ExportStatusShipped, action: ActionConfirmDelivery, wantTo: ExportStatusDelivered, wantAudit: AuditActionConfirmDelivery, wantOK: true},
		{name: "resubmit ecta contract", from: ExportStatusECTAContractRejected, action: ActionResubmitRejected, wantTo: ExportStatusECTAContractPending, wantAudit: AuditActionResubmit, wantOK: true},
		{name: "update rejected fx", from: ExportStatusFXRejected, action: ActionUpdateRejected, wantTo: ExportStatusFXApplicationPending, wantAudit: AuditActionUpdateRejected, wantOK: true},
		{name: "cancel a draft", from: ExportStatusDraft, action: ActionCancel, wantTo: ExportStatusCancelled, wantAudit: AuditActionCancelExport, wantOK: true},
		{name: "cancel after shipment", from: ExportStatusShipped, action: ActionCancel},
		{name: "skip ecx", from: ExportStatusPending, action: ActionSubmitToECTA},
		{name: "complete before repatriation", from: ExportStatusPaymentReceived, action: ActionComplete},
		{name: "resubmit a pending stage", from: ExportStatusECXPending, action: ActionResubmitRejected},
		{name: "anything from completed", from: ExportStatusCompleted, action: ActionCancel},
		{name: "anything from cancelled", from: ExportStatusCancelled, action: ActionSubmitToECX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transition, ok := ResolveTransition(tt.from, tt.action)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.from, transition.From)
			assert.Equal(t, tt.wantTo, transition.To)
			assert.Equal(t, tt.action, transition.Action)
			assert.Equal(t, tt.wantAudit, transition.AuditAction)
		})
	}
}

func TestEveryRejectionHasAWayBack(t *testing.T) {
	for _, status := range AllExportStatuses {
		if !status.IsRejected() {
			continue
		}

		target, ok := status.ResubmissionTarget()
		require.True(t, ok, "status %s", status)
		assert.True(t, target.IsValid())

		actions := AvailableActions(status)
		assert.Contains(t, actions, ActionResubmitRejected, "status %s", status)
		assert.Contains(t, actions, ActionUpdateRejected, "status %s", status)
		assert.Contains(t, actions, ActionCancel, "status %s", status)
	}
}

func TestResubmissionFrom(t *testing.T) {
	tests := []struct {
		name         string
		rejected     ExportStatus
		action       ExportAction
		rejectedFrom ExportStatus
		wantTo       ExportStatus
	}{
		{name: "bank-centric quality rejection", rejected: ExportStatusECTAQualityRejected, action: ActionResubmitRejected, rejectedFrom: ExportStatusPending, wantTo: ExportStatusPending},
		{name: "bank-centric quality correction", rejected: ExportStatusECTAQualityRejected, action: ActionUpdateRejected, rejectedFrom: ExportStatusPending, wantTo: ExportStatusPending},
		{name: "ecta quality rejection", rejected: ExportStatusECTAQualityRejected, action: ActionResubmitRejected, rejectedFrom: ExportStatusECTALicenseApproved, wantTo: ExportStatusECTAQualityPending},
		{name: "bank-centric fx rejection", rejected: ExportStatusFXRejected, action: ActionResubmitRejected, rejectedFrom: ExportStatusQualityCertified, wantTo: ExportStatusQualityCertified},
		{name: "full flow fx rejection", rejected: ExportStatusFXRejected, action: ActionResubmitRejected, rejectedFrom: ExportStatusFXApplicationPending, wantTo: ExportStatusFXApplicationPending},
		{name: "unknown origin", rejected: ExportStatusECXRejected, action: ActionResubmitRejected, rejectedFrom: "", wantTo: ExportStatusECXPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transition, ok := ResolveTransition(tt.rejected, tt.action)
			require.True(t, ok)

			got := ResubmissionFrom(transition, tt.rejectedFrom)
			assert.Equal(t, tt.rejected, got.From)
			assert.Equal(t, tt.wantTo, got.To)
			assert.Equal(t, transition.AuditAction, got.AuditAction)
		})
	}

	cancel, ok := ResolveTransition(ExportStatusECTAQualityRejected, ActionCancel)
	require.True(t, ok)
	assert.Equal(t, cancel, ResubmissionFrom(cancel, ExportStatusPending))
}

func TestTerminalStatusesHaveNoActions(t *testing.T) {
	for _, status := range []ExportStatus{ExportStatusCompleted, ExportStatusCancelled} {
		assert.True(t, status.IsTerminal())
		assert.Empty(t, AvailableActions(status))
	}
}

func TestCancelIsLegalOnlyBeforeShipment(t *testing.T) {
	shipped := slices.Index(AllExportStatuses, ExportStatusShipped)
	require.Positive(t, shipped)

	for i, status := range AllExportStatuses {
		_, ok := ResolveTransition(status, ActionCancel)
		assert.Equal(t, i < shipped && !status.IsTerminal(), ok, "status %s", status)
	}
}

func TestActionPolicies(t *testing.T) {
	for action := range actionPolicies {
		policy, ok := PolicyFor(action)
		require.True(t, ok)
		assert.NotEmpty(t, policy.AuditAction, "action %s", action)
		assert.True(t, policy.Allows(RoleAdmin), "admin on %s", action)
		assert.True(t, policy.Severity.IsValid(), "action %s", action)

		if policy.Decision == ApprovalDecisionRejected {
			assert.True(t, policy.RequiresReason, "rejection %s must carry a reason", action)
			assert.Equal(t, SeverityHigh, policy.Severity)
		}
	}

	for action := range actionEdges {
		_, ok := PolicyFor(action)
		assert.True(t, ok, "edge action %s has no policy", action)
	}

	fx, _ := PolicyFor(ActionApproveFX)
	assert.True(t, fx.Allows(RoleNationalBank))
	assert.True(t, fx.Allows(RoleCommercialBank))
	assert.False(t, fx.Allows(RoleExporter))

	cancel, _ := PolicyFor(ActionCancel)
	assert.True(t, cancel.RequiresReason)
	assert.True(t, cancel.Allows(RoleExporter))
	assert.False(t, cancel.Allows(RoleCustoms))

	_, ok := PolicyFor(ExportAction("LAUNCH"))
	assert.False(t, ok)
}

func TestAvailableActionsAreSorted(t *testing.T) {
	actions := AvailableActions(ExportStatusECTALicenseApproved)

	assert.True(t, slices.IsSorted(actions))
	assert.Equal(t, []ExportAction{ActionApproveQuality, ActionCancel, ActionRejectQuality}, actions)
}

func TestQualificationIsValidAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Second)

	tests := []struct {
		name string
		q    *Qualification
		want bool
	}{
		{name: "active and unexpired", q: &Qualification{Status: ArtifactStatusActive, ExpiryDate: &future}, want: true},
		{name: "active but expired", q: &Qualification{Status: ArtifactStatusActive, ExpiryDate: &past}},
		{name: "active without expiry", q: &Qualification{Status: ArtifactStatusActive}},
		{name: "suspended", q: &Qualification{Status: ArtifactStatusSuspended, ExpiryDate: &future}},
		{name: "missing", q: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.IsValidAt(now))
		})
	}
}

func TestActorOwnership(t *testing.T) {
	exporterID := uuid.New()

	assert.True(t, Actor{Role: RoleExporter, OrganizationID: exporterID}.Owns(exporterID))
	assert.False(t, Actor{Role: RoleExporter, OrganizationID: uuid.New()}.Owns(exporterID))
	assert.False(t, Actor{Role: RoleExporter}.Owns(uuid.Nil))
}

func TestAuditLogIsSuspicious(t *testing.T) {
	assert.True(t, (&AuditLog{Action: AuditActionUnauthorizedAccess, Severity: SeverityLow}).IsSuspicious())
	assert.True(t, (&AuditLog{Action: AuditActionRejectFX, Severity: SeverityHigh}).IsSuspicious())
	assert.False(t, (&AuditLog{Action: AuditActionRejectFX, Severity: SeverityMedium}).IsSuspicious())
	assert.False(t, (&AuditLog{Action: AuditActionApproveFX, Severity: SeverityHigh}).IsSuspicious())
}
