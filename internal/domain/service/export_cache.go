package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
)

// ExportCache holds read views of exports. A miss is reported with found=false and no error.
type ExportCache interface {
	GetExport(ctx context.Context, exportID uuid.UUID) (export *entity.ExportRequest, found bool, err error)
	SetExport(ctx context.Context, export *entity.ExportRequest) error

	GetExporterExports(ctx context.Context, exporterID uuid.UUID) (exports []*entity.ExportRequest, found bool, err error)
	SetExporterExports(ctx context.Context, exporterID uuid.UUID, exports []*entity.ExportRequest) error

	// Invalidate drops the export view and the list view scoped to its exporter.
	// A non-zero version is the updated_at of the committed row: views older than
	// it are refused by later sets. A zero version only drops the keys.
	Invalidate(ctx context.Context, exportID, exporterID uuid.UUID, version time.Time) error

	Close() error
}
