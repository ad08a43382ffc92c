// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/domain/repository"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db *gorm.DB
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds a specific GORM transaction object (*gorm.Tx) and uses it to create
// repository instances that are bound to that single transaction.
type gormRepositoryFactory struct {
	tx *gorm.DB // In GORM, a transaction object *gorm.Tx is also a *gorm.DB
}

// NewExporterRepository creates a new exporter repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewExporterRepository() repository.ExporterRepository {
	return NewExporterRepository(f.tx)
}

// NewQualificationRepository creates a new qualification repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewQualificationRepository() repository.QualificationRepository {
	return NewQualificationRepository(f.tx)
}

// NewLotRepository creates a new lot repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewLotRepository() repository.LotRepository {
	return NewLotRepository(f.tx)
}

// NewExportRepository creates a new export repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewExportRepository() repository.ExportRepository {
	return NewExportRepository(f.tx)
}

// NewAuditRepository creates a new audit repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewAuditRepository() repository.AuditRepository {
	return NewAuditRepository(f.tx)
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute runs the given function within a single database transaction.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	// Transitions must run on the primary even when replicas are configured.
	tx := tm.db.WithContext(ctx).Clauses(dbresolver.Write).Begin()
	if tx.Error != nil {
		return domainerrors.NewDatabaseExecuteError(tx.Error, "failed to begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&gormRepositoryFactory{tx: tx}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		if isSerializationFailure(err) {
			return repository.ErrExportStatusConflict
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to commit transaction")
	}

	return nil
}
