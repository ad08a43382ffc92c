package service

import (
	"context"

	"coffeexport/internal/domain/entity"
)

// LedgerAnchor timestamps an audit entry on the external distributed ledger.
// The ledger is opaque; only the returned transaction reference is kept.
type LedgerAnchor interface {
	Anchor(ctx context.Context, entry *entity.AuditLog) (txID string, err error)
}
