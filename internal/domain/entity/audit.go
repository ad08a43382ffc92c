package entity

import (
	"time"

	"github.com/google/uuid"
)

// Severity is the tier of an audit entry.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// IsValid checks if the Severity is a valid value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// AuditAction is the closed taxonomy of audited actions.
type AuditAction string

const (
	AuditActionCreateExport      AuditAction = "CREATE_EXPORT"
	AuditActionSubmitExport      AuditAction = "SUBMIT_EXPORT"
	AuditActionSubmitToECX       AuditAction = "SUBMIT_TO_ECX"
	AuditActionVerifyECX         AuditAction = "VERIFY_ECX"
	AuditActionRejectECX         AuditAction = "REJECT_ECX"
	AuditActionSubmitToECTA      AuditAction = "SUBMIT_TO_ECTA"
	AuditActionApproveLicense    AuditAction = "APPROVE_LICENSE"
	AuditActionRejectLicense     AuditAction = "REJECT_LICENSE"
	AuditActionApproveQuality    AuditAction = "APPROVE_QUALITY"
	AuditActionRejectQuality     AuditAction = "REJECT_QUALITY"
	AuditActionApproveOrigin     AuditAction = "APPROVE_ORIGIN"
	AuditActionRejectOrigin      AuditAction = "REJECT_ORIGIN"
	AuditActionApproveContract   AuditAction = "APPROVE_CONTRACT"
	AuditActionRejectContract    AuditAction = "REJECT_CONTRACT"
	AuditActionVerifyDocuments   AuditAction = "VERIFY_DOCUMENTS"
	AuditActionRejectDocuments   AuditAction = "REJECT_DOCUMENTS"
	AuditActionSubmitFX          AuditAction = "SUBMIT_FX_APPLICATION"
	AuditActionApproveFX         AuditAction = "APPROVE_FX"
	AuditActionBankingApproved   AuditAction = "BANKING_APPROVED"
	AuditActionRejectFX          AuditAction = "REJECT_FX"
	AuditActionClearCustoms      AuditAction = "CLEAR_CUSTOMS"
	AuditActionRejectCustoms     AuditAction = "REJECT_CUSTOMS"
	AuditActionRequestShipment   AuditAction = "REQUEST_SHIPMENT"
	AuditActionScheduleShipment  AuditAction = "SCHEDULE_SHIPMENT"
	AuditActionMarkShipped       AuditAction = "MARK_SHIPPED"
	AuditActionConfirmArrival    AuditAction = "CONFIRM_ARRIVAL"
	AuditActionConfirmDelivery   AuditAction = "CONFIRM_DELIVERY"
	AuditActionRequestPayment    AuditAction = "REQUEST_PAYMENT"
	AuditActionConfirmPayment    AuditAction = "CONFIRM_PAYMENT"
	AuditActionConfirmRepatriate AuditAction = "CONFIRM_FX_REPATRIATION"
	AuditActionCompleteExport    AuditAction = "COMPLETE_EXPORT"
	AuditActionCancelExport      AuditAction = "CANCEL_EXPORT"
	AuditActionUpdateRejected    AuditAction = "UPDATE_REJECTED_EXPORT"
	AuditActionResubmit          AuditAction = "RESUBMIT_EXPORT"

	AuditActionUnauthorizedAccess AuditAction = "UNAUTHORIZED_ACCESS"
	AuditActionValidateExporter   AuditAction = "VALIDATE_EXPORTER"
	AuditActionGenerateReport     AuditAction = "GENERATE_AUDIT_REPORT"

	AuditActionRegisterExporter     AuditAction = "REGISTER_EXPORTER"
	AuditActionReviewExporter       AuditAction = "REVIEW_EXPORTER"
	AuditActionSubmitQualification  AuditAction = "SUBMIT_QUALIFICATION"
	AuditActionCertifyQualification AuditAction = "CERTIFY_QUALIFICATION"
	AuditActionSuspendQualification AuditAction = "SUSPEND_QUALIFICATION"
	AuditActionRevokeQualification  AuditAction = "REVOKE_QUALIFICATION"
	AuditActionExpireQualification  AuditAction = "EXPIRE_QUALIFICATION"
	AuditActionRegisterLot          AuditAction = "REGISTER_LOT"
	AuditActionRecordInspection     AuditAction = "RECORD_INSPECTION"
	AuditActionRecordContract       AuditAction = "RECORD_CONTRACT"
)

// IsRejection reports whether the action rejects a stage.
func (a AuditAction) IsRejection() bool {
	switch a {
	case AuditActionRejectECX, AuditActionRejectLicense, AuditActionRejectQuality,
		AuditActionRejectOrigin, AuditActionRejectContract, AuditActionRejectDocuments,
		AuditActionRejectFX, AuditActionRejectCustoms:
		return true
	default:
		return false
	}
}

// IsLedgerAnchored reports whether entries with this action are anchored to the external ledger.
func (a AuditAction) IsLedgerAnchored() bool {
	switch a {
	case AuditActionApproveFX, AuditActionBankingApproved, AuditActionClearCustoms,
		AuditActionCompleteExport, AuditActionCancelExport:
		return true
	default:
		return false
	}
}

// AuditEntityType names the kind of record an audit entry refers to.
type AuditEntityType string

const (
	AuditEntityExport        AuditEntityType = "EXPORT"
	AuditEntityExporter      AuditEntityType = "EXPORTER_PROFILE"
	AuditEntityQualification AuditEntityType = "QUALIFICATION"
	AuditEntityLot           AuditEntityType = "COFFEE_LOT"
	AuditEntityInspection    AuditEntityType = "QUALITY_INSPECTION"
	AuditEntityContract      AuditEntityType = "SALES_CONTRACT"
	AuditEntityReport        AuditEntityType = "AUDIT_REPORT"
)

// AuditStatus tracks whether an entry has been anchored to the external ledger.
type AuditStatus string

const (
	AuditStatusPending  AuditStatus = "PENDING"
	AuditStatusRecorded AuditStatus = "RECORDED"
)

// AuditLog is one append-only compliance entry. Only LedgerTxID and Status may change
// after creation, and only from PENDING to RECORDED.
type AuditLog struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	ActorRole          ActorRole       `json:"actor_role,omitempty"`
	OrganizationID     *uuid.UUID      `json:"organization_id,omitempty"`
	EntityType         AuditEntityType `json:"entity_type"`
	EntityID           string          `json:"entity_id"`
	ExportID           *uuid.UUID      `json:"export_id,omitempty"`
	Action             AuditAction     `json:"action"`
	OldValue           map[string]any  `json:"old_value,omitempty"`
	NewValue           map[string]any  `json:"new_value,omitempty"`
	Severity           Severity        `json:"severity"`
	ComplianceRelevant bool            `json:"compliance_relevant"`
	Description        string          `json:"description,omitempty"`
	IPAddress          string          `json:"ip_address,omitempty"`
	UserAgent          string          `json:"user_agent,omitempty"`
	SessionID          string          `json:"session_id,omitempty"`
	Status             AuditStatus     `json:"status"`
	LedgerTxID         string          `json:"ledger_tx_id,omitempty"`
	ContentHash        string          `json:"content_hash"`
	CreatedAt          time.Time       `json:"created_at"`
}

// IsSuspicious reports whether the entry should be flagged in compliance reports.
func (l *AuditLog) IsSuspicious() bool {
	if l.Severity == SeverityCritical || l.Action == AuditActionUnauthorizedAccess {
		return true
	}

	return l.Severity == SeverityHigh && l.Action.IsRejection()
}

// AuditQuery narrows audit lookups. Zero values mean "no constraint".
type AuditQuery struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// IntegrityResult is the outcome of an audit trail integrity check.
type IntegrityResult struct {
	Valid      bool        `json:"valid"`
	Checked    int         `json:"checked"`
	Issues     []string    `json:"issues"`
	InvalidIDs []uuid.UUID `json:"invalid_ids,omitempty"`
	VerifiedAt time.Time   `json:"verified_at"`
}

// AuditReport aggregates audit entries over a date window.
type AuditReport struct {
	From            time.Time               `json:"from"`
	To              time.Time               `json:"to"`
	TotalEntries    int                     `json:"total_entries"`
	ByAction        map[AuditAction]int     `json:"by_action"`
	ByEntityType    map[AuditEntityType]int `json:"by_entity_type"`
	BySeverity      map[Severity]int        `json:"by_severity"`
	ComplianceCount int                     `json:"compliance_relevant_count"`
	Suspicious      []*AuditLog             `json:"suspicious"`
	ArchiveKey      string                  `json:"archive_key,omitempty"`
	GeneratedAt     time.Time               `json:"generated_at"`
}
