package service

import (
	"context"

	"coffeexport/internal/domain/entity"
)

// ReportArchiver stores generated audit reports for regulators.
type ReportArchiver interface {
	// Archive writes the report and returns the key it was stored under.
	Archive(ctx context.Context, report *entity.AuditReport) (string, error)
}
