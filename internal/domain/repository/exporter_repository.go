// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/errors"
)

// Domain-specific errors for exporter persistence.
var (
	// ErrExporterNotFound is returned when an exporter profile is not found.
	ErrExporterNotFound = errors.New("exporter profile not found")
	// ErrDuplicateExporter is returned when a user already owns an exporter profile.
	ErrDuplicateExporter = errors.New("exporter profile already exists for user")
)

// ExporterRepository defines the interface for exporter profile database operations.
type ExporterRepository interface {
	// CreateExporter persists a new exporter profile.
	// Returns ErrDuplicateExporter if the user already has one.
	CreateExporter(ctx context.Context, profile *entity.ExporterProfile) error

	// FindExporterByID retrieves a profile by its unique ID.
	FindExporterByID(ctx context.Context, id uuid.UUID) (*entity.ExporterProfile, error)

	// FindExporterByUserID retrieves the profile owned by a user.
	FindExporterByUserID(ctx context.Context, userID uuid.UUID) (*entity.ExporterProfile, error)

	// UpdateExporterStatus records a regulator decision on a profile.
	UpdateExporterStatus(ctx context.Context, id uuid.UUID, status entity.ExporterStatus, reviewedBy uuid.UUID, reviewedAt time.Time) error

	// SetCapitalVerified records whether the regulator has verified the declared capital.
	SetCapitalVerified(ctx context.Context, id uuid.UUID, verified bool) error

	// ListExportersByStatus lists profiles in the given status, oldest first.
	ListExportersByStatus(ctx context.Context, status entity.ExporterStatus) ([]*entity.ExporterProfile, error)
}
