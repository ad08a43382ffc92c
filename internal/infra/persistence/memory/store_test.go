package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/repository"
	"coffeexport/internal/errors"
	"coffeexport/internal/infra/persistence/memory"
)

func seedExport(t *testing.T, store *memory.Store) *entity.ExportRequest {
	t.Helper()
	ctx := context.Background()
	repos := store.Factory()

	profile := &entity.ExporterProfile{
		UserID:       uuid.New(),
		BusinessName: "Yirgacheffe Union",
		BusinessType: entity.BusinessTypePrivate,
		Status:       entity.ExporterStatusActive,
	}
	require.NoError(t, repos.NewExporterRepository().CreateExporter(ctx, profile))

	export := &entity.ExportRequest{
		ExporterID:         profile.ID,
		CoffeeType:         "Yirgacheffe Grade 1",
		QuantityKg:         6000,
		DestinationCountry: "Germany",
		BuyerName:          "Hamburg Roasters",
		EstimatedValue:     72000,
		Status:             entity.ExportStatusPending,
	}
	require.NoError(t, repos.NewExportRepository().CreateExport(ctx, export))

	return export
}

func TestExecute_FailedTransactionLeavesNoWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	export := seedExport(t, store)
	boom := errors.New("ledger unavailable")

	err := store.TransactionManager().Execute(ctx, func(tx repository.RepositoryFactory) error {
		exports := tx.NewExportRepository()
		if err := exports.UpdateExportStatusIfCurrent(ctx, export.ID, entity.ExportStatusPending, entity.ExportStatusECXPending, ""); err != nil {
			return err
		}
		if err := exports.AppendStatusHistory(ctx, &entity.ExportStatusHistory{
			ExportID:  export.ID,
			OldStatus: entity.ExportStatusPending,
			NewStatus: entity.ExportStatusECXPending,
		}); err != nil {
			return err
		}

		// Writes are visible inside the transaction.
		inside, err := exports.FindExportByID(ctx, export.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ExportStatusECXPending, inside.Status)

		return boom
	})
	require.ErrorIs(t, err, boom)

	exports := store.Factory().NewExportRepository()
	stored, err := exports.FindExportByID(ctx, export.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExportStatusPending, stored.Status)

	history, err := exports.ListStatusHistory(ctx, export.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestExecute_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	export := seedExport(t, store)

	err := store.TransactionManager().Execute(ctx, func(tx repository.RepositoryFactory) error {
		exports := tx.NewExportRepository()
		if err := exports.UpdateExportStatusIfCurrent(ctx, export.ID, entity.ExportStatusPending, entity.ExportStatusECXPending, ""); err != nil {
			return err
		}

		return exports.AppendStatusHistory(ctx, &entity.ExportStatusHistory{
			ExportID:  export.ID,
			OldStatus: entity.ExportStatusPending,
			NewStatus: entity.ExportStatusECXPending,
		})
	})
	require.NoError(t, err)

	exports := store.Factory().NewExportRepository()
	stored, err := exports.FindExportByID(ctx, export.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExportStatusECXPending, stored.Status)

	history, err := exports.ListStatusHistory(ctx, export.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(1), history[0].ID)
}

func TestExecute_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := memory.NewStore().TransactionManager().Execute(ctx, func(repository.RepositoryFactory) error {
		called = true

		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUpdateExportStatusIfCurrent_StaleStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	export := seedExport(t, store)
	exports := store.Factory().NewExportRepository()

	require.NoError(t, exports.UpdateExportStatusIfCurrent(ctx, export.ID, entity.ExportStatusPending, entity.ExportStatusECXPending, ""))

	err := exports.UpdateExportStatusIfCurrent(ctx, export.ID, entity.ExportStatusPending, entity.ExportStatusCancelled, "")
	require.ErrorIs(t, err, repository.ErrExportStatusConflict)

	err = exports.UpdateExportStatusIfCurrent(ctx, uuid.New(), entity.ExportStatusPending, entity.ExportStatusECXPending, "")
	require.ErrorIs(t, err, repository.ErrExportStatusConflict)
}

func TestCreateExporter_OnePerUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	exporters := store.Factory().NewExporterRepository()
	userID := uuid.New()

	require.NoError(t, exporters.CreateExporter(ctx, &entity.ExporterProfile{UserID: userID, BusinessName: "First"}))
	err := exporters.CreateExporter(ctx, &entity.ExporterProfile{UserID: userID, BusinessName: "Second"})
	require.ErrorIs(t, err, repository.ErrDuplicateExporter)

	found, err := exporters.FindExporterByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "First", found.BusinessName)
}

func TestCreateExport_UsesStoreClock(t *testing.T) {
	store := memory.NewStore()
	fixed := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return fixed })

	export := seedExport(t, store)

	assert.Equal(t, fixed, export.CreatedAt)
	assert.Equal(t, fixed, export.UpdatedAt)
}

func TestCreateExport_UnknownExporter(t *testing.T) {
	err := memory.NewStore().Factory().NewExportRepository().CreateExport(context.Background(), &entity.ExportRequest{
		ExporterID: uuid.New(),
		Status:     entity.ExportStatusDraft,
	})

	require.ErrorIs(t, err, repository.ErrExporterNotFound)
}

func TestAuditLogs_InsertionOrderAndLedgerAttach(t *testing.T) {
	ctx := context.Background()
	audits := memory.NewStore().Factory().NewAuditRepository()
	exportID := uuid.New()

	first := &entity.AuditLog{ID: uuid.New(), ExportID: &exportID, Action: entity.AuditActionCreateExport, Status: entity.AuditStatusPending}
	second := &entity.AuditLog{ID: uuid.New(), ExportID: &exportID, Action: entity.AuditActionApproveFX, Status: entity.AuditStatusPending}
	require.NoError(t, audits.AppendAuditLog(ctx, first))
	require.NoError(t, audits.AppendAuditLog(ctx, second))

	require.NoError(t, audits.AttachLedgerTx(ctx, second.ID, "tx-42"))

	logs, err := audits.ListAuditLogsByExport(ctx, exportID, entity.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, first.ID, logs[0].ID)
	assert.Equal(t, entity.AuditStatusPending, logs[0].Status)
	assert.Equal(t, entity.AuditStatusRecorded, logs[1].Status)
	assert.Equal(t, "tx-42", logs[1].LedgerTxID)

	// Returned entries are copies.
	logs[0].Action = entity.AuditActionCancelExport
	again, err := audits.FindAuditLogByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionCreateExport, again.Action)
}
