package entity

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactStatus is the status shared by all qualification artifacts.
type ArtifactStatus string

const (
	ArtifactStatusPending   ArtifactStatus = "PENDING"
	ArtifactStatusActive    ArtifactStatus = "ACTIVE"
	ArtifactStatusExpired   ArtifactStatus = "EXPIRED"
	ArtifactStatusSuspended ArtifactStatus = "SUSPENDED"
	ArtifactStatusRevoked   ArtifactStatus = "REVOKED"
)

// IsValid checks if the ArtifactStatus is a valid value.
func (s ArtifactStatus) IsValid() bool {
	switch s {
	case ArtifactStatusPending, ArtifactStatusActive, ArtifactStatusExpired, ArtifactStatusSuspended, ArtifactStatusRevoked:
		return true
	default:
		return false
	}
}

// ArtifactKind names one of the four qualification artifacts.
type ArtifactKind string

const (
	ArtifactKindLaboratory            ArtifactKind = "LABORATORY"
	ArtifactKindTaster                ArtifactKind = "TASTER"
	ArtifactKindCompetenceCertificate ArtifactKind = "COMPETENCE_CERTIFICATE"
	ArtifactKindExportLicense         ArtifactKind = "EXPORT_LICENSE"
)

// IsValid checks if the ArtifactKind is a valid value.
func (k ArtifactKind) IsValid() bool {
	switch k {
	case ArtifactKindLaboratory, ArtifactKindTaster, ArtifactKindCompetenceCertificate, ArtifactKindExportLicense:
		return true
	default:
		return false
	}
}

// Qualification holds the fields shared by every qualification artifact.
type Qualification struct {
	ID         uuid.UUID      `json:"id"`
	ExporterID uuid.UUID      `json:"exporter_id"`
	Kind       ArtifactKind   `json:"kind"`
	Number     string         `json:"number"`
	Status     ArtifactStatus `json:"status"`
	IssueDate  *time.Time     `json:"issue_date,omitempty"`
	ExpiryDate *time.Time     `json:"expiry_date,omitempty"`
	IssuedBy   *uuid.UUID     `json:"issued_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// IsValidAt reports whether the artifact is ACTIVE and unexpired at the given time.
// An artifact without an expiry date is treated as expired.
func (q *Qualification) IsValidAt(now time.Time) bool {
	if q == nil || q.Status != ArtifactStatusActive || q.ExpiryDate == nil {
		return false
	}

	return q.ExpiryDate.After(now)
}

// CoffeeLaboratory is a certified cupping laboratory owned by an exporter.
type CoffeeLaboratory struct {
	Qualification
	LaboratoryName string `json:"laboratory_name"`
	Address        string `json:"address"`
}

// CoffeeTaster is a qualified cupper employed by an exporter.
type CoffeeTaster struct {
	Qualification
	FullName            string `json:"full_name"`
	IsExclusiveEmployee bool   `json:"is_exclusive_employee"`
}

// CompetenceCertificate attests an exporter's facility and QMS readiness.
type CompetenceCertificate struct {
	Qualification
}

// ExportLicense is the regulator-issued coffee export license.
type ExportLicense struct {
	Qualification
	CoffeeTypes []string `json:"coffee_types,omitempty"`
}

// ExporterValidation is the structured qualification report of an exporter.
// Issues and RequiredActions are parallel lists.
type ExporterValidation struct {
	ExporterID             uuid.UUID `json:"exporter_id"`
	IsValid                bool      `json:"is_valid"`
	ProfileFound           bool      `json:"profile_found"`
	HasValidProfile        bool      `json:"has_valid_profile"`
	HasMinimumCapital      bool      `json:"has_minimum_capital"`
	HasCertifiedLaboratory bool      `json:"has_certified_laboratory"`
	HasQualifiedTaster     bool      `json:"has_qualified_taster"`
	HasCompetenceCert      bool      `json:"has_competence_certificate"`
	HasExportLicense       bool      `json:"has_export_license"`
	Issues                 []string  `json:"issues"`
	RequiredActions        []string  `json:"required_actions"`
	ValidatedAt            time.Time `json:"validated_at"`
}

// AddIssue appends an issue and its remediation action.
func (v *ExporterValidation) AddIssue(issue, action string) {
	v.Issues = append(v.Issues, issue)
	v.RequiredActions = append(v.RequiredActions, action)
}

// Evaluate sets IsValid to the conjunction of the six component flags.
func (v *ExporterValidation) Evaluate() {
	v.IsValid = v.HasValidProfile &&
		v.HasMinimumCapital &&
		v.HasCertifiedLaboratory &&
		v.HasQualifiedTaster &&
		v.HasCompetenceCert &&
		v.HasExportLicense
}

// ExportEligibility is the answer to whether an exporter may open a new export request.
type ExportEligibility struct {
	Allowed         bool     `json:"allowed"`
	Reason          string   `json:"reason,omitempty"`
	RequiredActions []string `json:"required_actions,omitempty"`
}

// PermitRequirementsCheck is the aggregated result of the export permit prerequisites.
type PermitRequirementsCheck struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}
