package entity

import (
	"slices"

	"github.com/google/uuid"
)

// ActorRole is the organization role an authenticated caller acts under.
type ActorRole string

const (
	// RoleExporter is a licensed coffee exporter acting on its own exports.
	RoleExporter ActorRole = "EXPORTER"
	// RoleECX is the commodity exchange.
	RoleECX ActorRole = "ECX"
	// RoleECTA is the coffee and tea authority.
	RoleECTA ActorRole = "ECTA"
	// RoleCommercialBank verifies export documents.
	RoleCommercialBank ActorRole = "COMMERCIAL_BANK"
	// RoleNationalBank grants foreign exchange approvals.
	RoleNationalBank ActorRole = "NATIONAL_BANK"
	// RoleCustoms clears goods at the border.
	RoleCustoms ActorRole = "CUSTOMS"
	// RoleShippingLine schedules and tracks shipments.
	RoleShippingLine ActorRole = "SHIPPING_LINE"
	// RoleAdmin may act on any export.
	RoleAdmin ActorRole = "ADMIN"
)

// String returns the string representation of the ActorRole.
func (r ActorRole) String() string {
	return string(r)
}

// IsValid checks if the ActorRole is a valid value.
func (r ActorRole) IsValid() bool {
	switch r {
	case RoleExporter, RoleECX, RoleECTA, RoleCommercialBank, RoleNationalBank,
		RoleCustoms, RoleShippingLine, RoleAdmin:
		return true
	default:
		return false
	}
}

// Roles is a slice of ActorRole for convenience.
type Roles []ActorRole

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role ActorRole) bool {
	return slices.Contains(rs, role)
}

// Actor identifies who performs an operation, as supplied by the authentication layer.
type Actor struct {
	ID             uuid.UUID
	Role           ActorRole
	OrganizationID uuid.UUID
	IPAddress      string
	UserAgent      string
	SessionID      string
}

// IsExporter reports whether the actor acts as an exporter.
func (a Actor) IsExporter() bool {
	return a.Role == RoleExporter
}

// Owns reports whether the actor's organization is the given exporter.
func (a Actor) Owns(exporterID uuid.UUID) bool {
	return a.OrganizationID != uuid.Nil && a.OrganizationID == exporterID
}
