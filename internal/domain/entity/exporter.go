// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// BusinessType is the legal form of an exporter. It decides the minimum capital
// requirement and whether laboratory and taster qualifications apply.
type BusinessType string

const (
	BusinessTypePrivate          BusinessType = "PRIVATE"
	BusinessTypeTradeAssociation BusinessType = "TRADE_ASSOCIATION"
	BusinessTypeJointStock       BusinessType = "JOINT_STOCK"
	BusinessTypeLLC              BusinessType = "LLC"
	BusinessTypeFarmer           BusinessType = "FARMER"
)

// String returns the string representation of the BusinessType.
func (b BusinessType) String() string {
	return string(b)
}

// IsValid checks if the BusinessType is a valid value.
func (b BusinessType) IsValid() bool {
	switch b {
	case BusinessTypePrivate, BusinessTypeTradeAssociation, BusinessTypeJointStock, BusinessTypeLLC, BusinessTypeFarmer:
		return true
	default:
		return false
	}
}

// IsFarmer reports whether laboratory, taster and capital requirements are waived.
func (b BusinessType) IsFarmer() bool {
	return b == BusinessTypeFarmer
}

// DefaultMinimumCapital is the required capital in ETB per business type.
//
//nolint:gochecknoglobals
var DefaultMinimumCapital = map[BusinessType]float64{
	BusinessTypePrivate:          15_000_000,
	BusinessTypeTradeAssociation: 20_000_000,
	BusinessTypeJointStock:       20_000_000,
	BusinessTypeLLC:              20_000_000,
	BusinessTypeFarmer:           0,
}

// ExporterStatus is the lifecycle status of an exporter profile.
type ExporterStatus string

const (
	ExporterStatusPendingApproval ExporterStatus = "PENDING_APPROVAL"
	ExporterStatusActive          ExporterStatus = "ACTIVE"
	ExporterStatusSuspended       ExporterStatus = "SUSPENDED"
	ExporterStatusRevoked         ExporterStatus = "REVOKED"
)

// IsValid checks if the ExporterStatus is a valid value.
func (s ExporterStatus) IsValid() bool {
	switch s {
	case ExporterStatusPendingApproval, ExporterStatusActive, ExporterStatusSuspended, ExporterStatusRevoked:
		return true
	default:
		return false
	}
}

// ExporterProfile is the legal exporter entity. Exactly one profile exists per user.
type ExporterProfile struct {
	ID                 uuid.UUID      `json:"id"`
	UserID             uuid.UUID      `json:"user_id"`
	BusinessName       string         `json:"business_name"`
	TIN                string         `json:"tin"`
	RegistrationNumber string         `json:"registration_number"`
	BusinessType       BusinessType   `json:"business_type"`
	MinimumCapital     float64        `json:"minimum_capital"`
	CapitalVerified    bool           `json:"capital_verified"`
	ContactPerson      string         `json:"contact_person"`
	Email              string         `json:"email"`
	Phone              string         `json:"phone"`
	Address            string         `json:"address"`
	Status             ExporterStatus `json:"status"`
	ApprovedBy         *uuid.UUID     `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time     `json:"approved_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}
