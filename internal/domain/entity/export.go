package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExportStatus is the single lifecycle status of an export request.
type ExportStatus string

const (
	ExportStatusDraft            ExportStatus = "DRAFT"
	ExportStatusPending          ExportStatus = "PENDING"
	ExportStatusQualityCertified ExportStatus = "QUALITY_CERTIFIED"

	ExportStatusECXPending  ExportStatus = "ECX_PENDING"
	ExportStatusECXVerified ExportStatus = "ECX_VERIFIED"
	ExportStatusECXRejected ExportStatus = "ECX_REJECTED"

	ExportStatusECTALicensePending  ExportStatus = "ECTA_LICENSE_PENDING"
	ExportStatusECTALicenseApproved ExportStatus = "ECTA_LICENSE_APPROVED"
	ExportStatusECTALicenseRejected ExportStatus = "ECTA_LICENSE_REJECTED"

	ExportStatusECTAQualityPending  ExportStatus = "ECTA_QUALITY_PENDING"
	ExportStatusECTAQualityApproved ExportStatus = "ECTA_QUALITY_APPROVED"
	ExportStatusECTAQualityRejected ExportStatus = "ECTA_QUALITY_REJECTED"

	ExportStatusECTAOriginPending  ExportStatus = "ECTA_ORIGIN_PENDING"
	ExportStatusECTAOriginApproved ExportStatus = "ECTA_ORIGIN_APPROVED"
	ExportStatusECTAOriginRejected ExportStatus = "ECTA_ORIGIN_REJECTED"

	ExportStatusECTAContractPending  ExportStatus = "ECTA_CONTRACT_PENDING"
	ExportStatusECTAContractApproved ExportStatus = "ECTA_CONTRACT_APPROVED"
	ExportStatusECTAContractRejected ExportStatus = "ECTA_CONTRACT_REJECTED"

	ExportStatusBankDocumentPending  ExportStatus = "BANK_DOCUMENT_PENDING"
	ExportStatusBankDocumentVerified ExportStatus = "BANK_DOCUMENT_VERIFIED"
	ExportStatusBankDocumentRejected ExportStatus = "BANK_DOCUMENT_REJECTED"

	ExportStatusFXApplicationPending ExportStatus = "FX_APPLICATION_PENDING"
	ExportStatusFXApproved           ExportStatus = "FX_APPROVED"
	ExportStatusFXRejected           ExportStatus = "FX_REJECTED"

	ExportStatusCustomsPending  ExportStatus = "CUSTOMS_PENDING"
	ExportStatusCustomsCleared  ExportStatus = "CUSTOMS_CLEARED"
	ExportStatusCustomsRejected ExportStatus = "CUSTOMS_REJECTED"

	ExportStatusShipmentPending   ExportStatus = "SHIPMENT_PENDING"
	ExportStatusShipmentScheduled ExportStatus = "SHIPMENT_SCHEDULED"
	ExportStatusShipped           ExportStatus = "SHIPPED"
	ExportStatusArrived           ExportStatus = "ARRIVED"
	ExportStatusDelivered         ExportStatus = "DELIVERED"

	ExportStatusPaymentPending  ExportStatus = "PAYMENT_PENDING"
	ExportStatusPaymentReceived ExportStatus = "PAYMENT_RECEIVED"
	ExportStatusFXRepatriated   ExportStatus = "FX_REPATRIATED"

	ExportStatusCompleted ExportStatus = "COMPLETED"
	ExportStatusCancelled ExportStatus = "CANCELLED"
)

// AllExportStatuses lists every status in pipeline order.
//
//nolint:gochecknoglobals
var AllExportStatuses = []ExportStatus{
	ExportStatusDraft, ExportStatusPending, ExportStatusQualityCertified,
	ExportStatusECXPending, ExportStatusECXVerified, ExportStatusECXRejected,
	ExportStatusECTALicensePending, ExportStatusECTALicenseApproved, ExportStatusECTALicenseRejected,
	ExportStatusECTAQualityPending, ExportStatusECTAQualityApproved, ExportStatusECTAQualityRejected,
	ExportStatusECTAOriginPending, ExportStatusECTAOriginApproved, ExportStatusECTAOriginRejected,
	ExportStatusECTAContractPending, ExportStatusECTAContractApproved, ExportStatusECTAContractRejected,
	ExportStatusBankDocumentPending, ExportStatusBankDocumentVerified, ExportStatusBankDocumentRejected,
	ExportStatusFXApplicationPending, ExportStatusFXApproved, ExportStatusFXRejected,
	ExportStatusCustomsPending, ExportStatusCustomsCleared, ExportStatusCustomsRejected,
	ExportStatusShipmentPending, ExportStatusShipmentScheduled, ExportStatusShipped, ExportStatusArrived, ExportStatusDelivered,
	ExportStatusPaymentPending, ExportStatusPaymentReceived, ExportStatusFXRepatriated,
	ExportStatusCompleted, ExportStatusCancelled,
}

// resubmissionTargets maps each rejected status to the pending status of the same stage.
//
//nolint:gochecknoglobals
var resubmissionTargets = map[ExportStatus]ExportStatus{
	ExportStatusECXRejected:          ExportStatusECXPending,
	ExportStatusECTALicenseRejected:  ExportStatusECTALicensePending,
	ExportStatusECTAQualityRejected:  ExportStatusECTAQualityPending,
	ExportStatusECTAOriginRejected:   ExportStatusECTAOriginPending,
	ExportStatusECTAContractRejected: ExportStatusECTAContractPending,
	ExportStatusBankDocumentRejected: ExportStatusBankDocumentPending,
	ExportStatusFXRejected:           ExportStatusFXApplicationPending,
	ExportStatusCustomsRejected:      ExportStatusCustomsPending,
}

// String returns the string representation of the ExportStatus.
func (s ExportStatus) String() string {
	return string(s)
}

// IsValid checks if the ExportStatus is a known value.
func (s ExportStatus) IsValid() bool {
	for _, known := range AllExportStatuses {
		if s == known {
			return true
		}
	}

	return false
}

// IsTerminal reports whether no further transition may be applied.
func (s ExportStatus) IsTerminal() bool {
	return s == ExportStatusCompleted || s == ExportStatusCancelled
}

// IsRejected reports whether the status is a stage rejection.
func (s ExportStatus) IsRejected() bool {
	_, ok := resubmissionTargets[s]

	return ok
}

// ResubmissionTarget returns the pending status a rejected export goes back to.
func (s ExportStatus) ResubmissionTarget() (ExportStatus, bool) {
	target, ok := resubmissionTargets[s]

	return target, ok
}

// ExportRequest is the aggregate root of the approval pipeline. Status is only
// ever changed through a transition; rows are never deleted.
type ExportRequest struct {
	ID                 uuid.UUID    `json:"export_id"`
	ExporterID         uuid.UUID    `json:"exporter_id"`
	LotID              *uuid.UUID   `json:"lot_id,omitempty"`
	CoffeeType         string       `json:"coffee_type"`
	QuantityKg         float64      `json:"quantity"`
	DestinationCountry string       `json:"destination_country"`
	BuyerName          string       `json:"buyer_name"`
	EstimatedValue     float64      `json:"estimated_value"`
	Status             ExportStatus `json:"status"`
	RejectionReason    string       `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ExportDetails are the business fields an exporter may set on creation or correct
// after a rejection.
type ExportDetails struct {
	CoffeeType         string  `json:"coffee_type" validate:"required,max=100"`
	QuantityKg         float64 `json:"quantity" validate:"required,gt=0"`
	DestinationCountry string  `json:"destination_country" validate:"required,max=100"`
	BuyerName          string  `json:"buyer_name" validate:"required,max=255"`
	EstimatedValue     float64 `json:"estimated_value" validate:"required,gt=0"`
}

// Apply overwrites the export's business fields.
func (e *ExportRequest) Apply(details ExportDetails) {
	e.CoffeeType = details.CoffeeType
	e.QuantityKg = details.QuantityKg
	e.DestinationCountry = details.DestinationCountry
	e.BuyerName = details.BuyerName
	e.EstimatedValue = details.EstimatedValue
}

// ExportStatusHistory is one append-only row of an export's timeline.
type ExportStatusHistory struct {
	ID        int64        `json:"id"`
	ExportID  uuid.UUID    `json:"export_id"`
	OldStatus ExportStatus `json:"old_status"`
	NewStatus ExportStatus `json:"new_status"`
	ChangedBy uuid.UUID    `json:"changed_by"`
	ActorRole ActorRole    `json:"actor_role"`
	Action    ExportAction `json:"action"`
	Reason    string       `json:"reason,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	ChangedAt time.Time    `json:"changed_at"`
}

// ApprovalType is the stage an approval decision belongs to.
type ApprovalType string

const (
	ApprovalTypeECX          ApprovalType = "ECX_VERIFICATION"
	ApprovalTypeLicense      ApprovalType = "ECTA_LICENSE"
	ApprovalTypeQuality      ApprovalType = "ECTA_QUALITY"
	ApprovalTypeOrigin       ApprovalType = "ECTA_ORIGIN"
	ApprovalTypeContract     ApprovalType = "ECTA_CONTRACT"
	ApprovalTypeBankDocument ApprovalType = "BANK_DOCUMENT"
	ApprovalTypeFX           ApprovalType = "FX"
	ApprovalTypeCustoms      ApprovalType = "CUSTOMS"
)

// ApprovalDecision is the outcome recorded on an approval row.
type ApprovalDecision string

const (
	ApprovalDecisionApproved ApprovalDecision = "APPROVED"
	ApprovalDecisionRejected ApprovalDecision = "REJECTED"
)

// ExportApproval records one stage decision taken by an organization.
type ExportApproval struct {
	ID              uuid.UUID        `json:"id"`
	ExportID        uuid.UUID        `json:"export_id"`
	ApprovalType    ApprovalType     `json:"approval_type"`
	Organization    string           `json:"organization"`
	ApprovedBy      uuid.UUID        `json:"approved_by"`
	Status          ApprovalDecision `json:"status"`
	ApprovalDate    time.Time        `json:"approval_date"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
}
