package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/errors"
)

// Domain-specific errors for qualification persistence.
var (
	// ErrQualificationNotFound is returned when no matching artifact exists.
	ErrQualificationNotFound = errors.New("qualification not found")
	// ErrActiveQualificationExists is returned when activating a second artifact of the same kind.
	ErrActiveQualificationExists = errors.New("exporter already holds an active artifact of this kind")
)

// QualificationStatusUpdate carries a regulator decision on an artifact.
type QualificationStatusUpdate struct {
	Status     entity.ArtifactStatus
	IssueDate  *time.Time
	ExpiryDate *time.Time
	IssuedBy   *uuid.UUID
}

// QualificationRepository defines the interface for the four qualification artifacts.
// The FindActive* methods return ErrQualificationNotFound when the exporter holds no
// ACTIVE record of that kind; expiry is not evaluated here.
type QualificationRepository interface {
	FindActiveLaboratory(ctx context.Context, exporterID uuid.UUID) (*entity.CoffeeLaboratory, error)
	FindActiveTaster(ctx context.Context, exporterID uuid.UUID) (*entity.CoffeeTaster, error)
	FindActiveCompetenceCertificate(ctx context.Context, exporterID uuid.UUID) (*entity.CompetenceCertificate, error)
	FindActiveExportLicense(ctx context.Context, exporterID uuid.UUID) (*entity.ExportLicense, error)

	CreateLaboratory(ctx context.Context, lab *entity.CoffeeLaboratory) error
	CreateTaster(ctx context.Context, taster *entity.CoffeeTaster) error
	CreateCompetenceCertificate(ctx context.Context, cert *entity.CompetenceCertificate) error
	CreateExportLicense(ctx context.Context, license *entity.ExportLicense) error

	// FindQualificationByID retrieves the common fields of an artifact of the given kind.
	FindQualificationByID(ctx context.Context, kind entity.ArtifactKind, id uuid.UUID) (*entity.Qualification, error)

	// ListQualificationsByExporter lists every artifact of every kind held by an exporter.
	ListQualificationsByExporter(ctx context.Context, exporterID uuid.UUID) ([]*entity.Qualification, error)

	// UpdateQualificationStatus applies a regulator decision.
	// Returns ErrActiveQualificationExists if activation would leave two ACTIVE artifacts of one kind.
	UpdateQualificationStatus(ctx context.Context, kind entity.ArtifactKind, id uuid.UUID, update QualificationStatusUpdate) error
}
