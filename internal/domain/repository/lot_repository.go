package repository

import (
	"context"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/errors"
)

// Domain-specific errors for lot, inspection and contract persistence.
var (
	// ErrLotNotFound is returned when a coffee lot is not found.
	ErrLotNotFound = errors.New("coffee lot not found")
	// ErrLotStatusConflict is returned when a lot is no longer in the expected status.
	ErrLotStatusConflict = errors.New("coffee lot status changed concurrently")
	// ErrDuplicateLot is returned when a lot number is already registered.
	ErrDuplicateLot = errors.New("coffee lot already registered")
	// ErrInspectionNotFound is returned when a quality inspection is not found.
	ErrInspectionNotFound = errors.New("quality inspection not found")
	// ErrContractNotFound is returned when a sales contract is not found.
	ErrContractNotFound = errors.New("sales contract not found")
	// ErrDuplicateContract is returned when a contract number is already registered.
	ErrDuplicateContract = errors.New("sales contract already registered")
)

// LotRepository defines the interface for coffee lots and the permit artifacts keyed to them.
type LotRepository interface {
	CreateLot(ctx context.Context, lot *entity.CoffeeLot) error
	FindLotByID(ctx context.Context, id uuid.UUID) (*entity.CoffeeLot, error)

	// UpdateLotStatusIfCurrent moves a lot from one status to another.
	// Returns ErrLotStatusConflict if the lot is not in status from.
	UpdateLotStatusIfCurrent(ctx context.Context, id uuid.UUID, from, to entity.LotStatus) error

	CreateInspection(ctx context.Context, inspection *entity.QualityInspection) error
	FindInspectionByID(ctx context.Context, id uuid.UUID) (*entity.QualityInspection, error)

	CreateContract(ctx context.Context, contract *entity.SalesContract) error
	FindContractByID(ctx context.Context, id uuid.UUID) (*entity.SalesContract, error)
	UpdateContractStatus(ctx context.Context, id uuid.UUID, status entity.ContractStatus) error
}
