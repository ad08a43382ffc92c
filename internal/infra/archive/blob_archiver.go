// Package archive stores generated audit reports for regulators.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets

	"coffeexport/config"
	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
)

const defaultPrefix = "audit-reports"

// blobArchiver writes reports as JSON objects keyed by window and generation time
type blobArchiver struct {
	bucket *blob.Bucket
	prefix string
}

// NewBlobArchiver wraps an open bucket.
func NewBlobArchiver(bucket *blob.Bucket, prefix string) service.ReportArchiver {
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &blobArchiver{bucket: bucket, prefix: prefix}
}

func reportKey(prefix string, report *entity.AuditReport) string {
	name := fmt.Sprintf("%s_%s_%s.json",
		report.From.UTC().Format("20060102"),
		report.To.UTC().Format("20060102"),
		report.GeneratedAt.UTC().Format("20060102T150405.000000000Z"),
	)

	return path.Join(prefix, report.GeneratedAt.UTC().Format("2006/01"), name)
}

func (a *blobArchiver) Archive(ctx context.Context, report *entity.AuditReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	key := reportKey(a.prefix, report)
	err = a.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"total_entries": fmt.Sprint(report.TotalEntries),
		},
	})
	if err != nil {
		return "", errors.Wrapf(err, "write report %s", key)
	}

	return key, nil
}

type noopArchiver struct{}

func (noopArchiver) Archive(context.Context, *entity.AuditReport) (string, error) {
	return "", nil
}

// ArchiverParams holds dependencies for ReportArchiver, injected by Fx
type ArchiverParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewReportArchiver opens the configured bucket. Reports are not archived without one.
func NewReportArchiver(params ArchiverParams) (service.ReportArchiver, error) {
	cfg := params.Config.ReportArchive
	if cfg == nil || cfg.BucketURL == "" {
		params.Logger.Info("Report archive not configured, audit reports are not archived")

		return noopArchiver{}, nil
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", cfg.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	params.Logger.Info("Archiving audit reports", slog.String("bucket", cfg.BucketURL))

	return NewBlobArchiver(bucket, cfg.Prefix), nil
}

// Module provides the report archive FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewReportArchiver),
)
