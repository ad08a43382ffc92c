// Package memory is an in-process implementation of the persistence layer.
// Transactions are serialized and applied copy-on-write, so a failed
// transaction leaves no partial writes behind.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/repository"
)

type state struct {
	exporters   map[uuid.UUID]entity.ExporterProfile
	labs        map[uuid.UUID]entity.CoffeeLaboratory
	tasters     map[uuid.UUID]entity.CoffeeTaster
	certs       map[uuid.UUID]entity.CompetenceCertificate
	licenses    map[uuid.UUID]entity.ExportLicense
	lots        map[uuid.UUID]entity.CoffeeLot
	inspections map[uuid.UUID]entity.QualityInspection
	contracts   map[uuid.UUID]entity.SalesContract
	exports     map[uuid.UUID]entity.ExportRequest
	history     []entity.ExportStatusHistory
	approvals   []entity.ExportApproval
	audits      []entity.AuditLog
	historySeq  int64
}

func newState() *state {
	return &state{
		exporters:   make(map[uuid.UUID]entity.ExporterProfile),
		labs:        make(map[uuid.UUID]entity.CoffeeLaboratory),
		tasters:     make(map[uuid.UUID]entity.CoffeeTaster),
		certs:       make(map[uuid.UUID]entity.CompetenceCertificate),
		licenses:    make(map[uuid.UUID]entity.ExportLicense),
		lots:        make(map[uuid.UUID]entity.CoffeeLot),
		inspections: make(map[uuid.UUID]entity.QualityInspection),
		contracts:   make(map[uuid.UUID]entity.SalesContract),
		exports:     make(map[uuid.UUID]entity.ExportRequest),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

func (s *state) clone() *state {
	return &state{
		exporters:   cloneMap(s.exporters),
		labs:        cloneMap(s.labs),
		tasters:     cloneMap(s.tasters),
		certs:       cloneMap(s.certs),
		licenses:    cloneMap(s.licenses),
		lots:        cloneMap(s.lots),
		inspections: cloneMap(s.inspections),
		contracts:   cloneMap(s.contracts),
		exports:     cloneMap(s.exports),
		history:     append([]entity.ExportStatusHistory(nil), s.history...),
		approvals:   append([]entity.ExportApproval(nil), s.approvals...),
		audits:      append([]entity.AuditLog(nil), s.audits...),
		historySeq:  s.historySeq,
	}
}

// db is the view a repository works against: the committed store or a transaction's snapshot.
type db struct {
	mu    *sync.RWMutex
	st    *state
	write func(fn func(st *state) error) error
}

func (d *db) read(fn func(st *state)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.st)
}

// Store holds the committed state. A published state is never mutated again.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   *state
	now  func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		st:  newState(),
		now: time.Now,
	}
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.st
}

// Factory returns repositories that operate outside any transaction.
func (s *Store) Factory() repository.RepositoryFactory {
	return &factory{store: s}
}

// TransactionManager returns a manager whose transactions apply atomically on success.
func (s *Store) TransactionManager() repository.TransactionManager {
	return &txManager{store: s}
}

type factory struct {
	store *Store
	tx    *db
}

func (f *factory) conn() *db {
	if f.tx != nil {
		return f.tx
	}

	return f.store.autoCommit()
}

// autoCommit wraps each write in its own single-statement transaction.
func (s *Store) autoCommit() *db {
	return &db{
		mu: &s.mu,
		st: s.snapshot(),
		write: func(fn func(st *state) error) error {
			s.txMu.Lock()
			defer s.txMu.Unlock()

			next := s.snapshot().clone()
			if err := fn(next); err != nil {
				return err
			}

			s.mu.Lock()
			s.st = next
			s.mu.Unlock()

			return nil
		},
	}
}

func (f *factory) NewExporterRepository() repository.ExporterRepository {
	return &exporterRepository{conn: f.conn, now: f.store.now}
}

func (f *factory) NewQualificationRepository() repository.QualificationRepository {
	return &qualificationRepository{conn: f.conn, now: f.store.now}
}

func (f *factory) NewLotRepository() repository.LotRepository {
	return &lotRepository{conn: f.conn, now: f.store.now}
}

func (f *factory) NewExportRepository() repository.ExportRepository {
	return &exportRepository{conn: f.conn, now: f.store.now}
}

func (f *factory) NewAuditRepository() repository.AuditRepository {
	return &auditRepository{conn: f.conn}
}

type txManager struct {
	store *Store
}

// Execute serializes transactions. Writes inside fn land on a private copy that
// replaces the committed state only when fn returns nil.
func (tm *txManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := tm.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	txState := s.snapshot().clone()
	txMu := &sync.RWMutex{}
	tx := &db{
		mu: txMu,
		st: txState,
		write: func(apply func(st *state) error) error {
			txMu.Lock()
			defer txMu.Unlock()

			return apply(txState)
		},
	}

	if err := fn(&factory{store: s, tx: tx}); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = txState
	s.mu.Unlock()

	return nil
}

// SetClock overrides the timestamp source used for created/updated columns.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
