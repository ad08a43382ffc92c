package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coffeexport/config"
	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
	"coffeexport/internal/infra/digest"
	"coffeexport/internal/infra/persistence/memory"
	"coffeexport/internal/infra/qrcode"
	mockSvc "coffeexport/internal/mocks/service"
	"coffeexport/internal/usecase"
)

// eventLog keeps every event handed to the publisher.
type eventLog struct {
	mu     sync.Mutex
	events []*service.ExportEvent
}

func (l *eventLog) record(_ context.Context, event *service.ExportEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)

	return nil
}

func (l *eventLog) all() []*service.ExportEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]*service.ExportEvent(nil), l.events...)
}

// viewStore backs the cache mock. Like the Redis cache it refuses a view older
// than the newest version its export was invalidated at.
type viewStore struct {
	mu            sync.Mutex
	exports       map[uuid.UUID]*entity.ExportRequest
	lists         map[uuid.UUID][]*entity.ExportRequest
	fences        map[uuid.UUID]time.Time
	invalidations int
}

func newViewStore() *viewStore {
	return &viewStore{
		exports: make(map[uuid.UUID]*entity.ExportRequest),
		lists:   make(map[uuid.UUID][]*entity.ExportRequest),
		fences:  make(map[uuid.UUID]time.Time),
	}
}

func (v *viewStore) getExport(_ context.Context, exportID uuid.UUID) (*entity.ExportRequest, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	export, ok := v.exports[exportID]

	return export, ok, nil
}

func (v *viewStore) setExport(_ context.Context, export *entity.ExportRequest) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if export.UpdatedAt.Before(v.fences[export.ID]) {
		return nil
	}
	v.exports[export.ID] = export

	return nil
}

func (v *viewStore) getExporterExports(_ context.Context, exporterID uuid.UUID) ([]*entity.ExportRequest, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	exports, ok := v.lists[exporterID]

	return exports, ok, nil
}

func (v *viewStore) setExporterExports(_ context.Context, exporterID uuid.UUID, exports []*entity.ExportRequest) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lists[exporterID] = exports

	return nil
}

func (v *viewStore) invalidate(_ context.Context, exportID, exporterID uuid.UUID, version time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.exports, exportID)
	delete(v.lists, exporterID)
	if version.After(v.fences[exportID]) {
		v.fences[exportID] = version
	}
	v.invalidations++

	return nil
}

func (v *viewStore) fence(exportID uuid.UUID) time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.fences[exportID]
}

func (v *viewStore) invalidationCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.invalidations
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Workflow: &config.WorkflowConfig{
			MinReasonLength: 10,
			MinPricePerKg:   2.0,
		},
	}
}

// fixture wires every usecase against one in-memory store.
type fixture struct {
	store         *memory.Store
	cfg           *config.Config
	alerts        *mockSvc.MockAlertNotifier
	ledger        *mockSvc.MockLedgerAnchor
	archiver      *mockSvc.MockReportArchiver
	cache         *mockSvc.MockExportCache
	publisher     *mockSvc.MockEventPublisher
	views         *viewStore
	events        *eventLog
	qualification usecase.QualificationUsecase
	exports       usecase.ExportUsecase
	audit         usecase.AuditUsecase
	registry      usecase.RegistryUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureWithConfig(t, testConfig())
}

func newFixtureWithConfig(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()

	f := &fixture{
		store:     memory.NewStore(),
		cfg:       cfg,
		alerts:    mockSvc.NewMockAlertNotifier(t),
		ledger:    mockSvc.NewMockLedgerAnchor(t),
		archiver:  mockSvc.NewMockReportArchiver(t),
		cache:     mockSvc.NewMockExportCache(t),
		publisher: mockSvc.NewMockEventPublisher(t),
		views:     newViewStore(),
		events:    &eventLog{},
	}
	f.cache.EXPECT().GetExport(mock.Anything, mock.Anything).RunAndReturn(f.views.getExport).Maybe()
	f.cache.EXPECT().SetExport(mock.Anything, mock.Anything).RunAndReturn(f.views.setExport).Maybe()
	f.cache.EXPECT().GetExporterExports(mock.Anything, mock.Anything).RunAndReturn(f.views.getExporterExports).Maybe()
	f.cache.EXPECT().SetExporterExports(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(f.views.setExporterExports).Maybe()
	f.cache.EXPECT().Invalidate(mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(f.views.invalidate).Maybe()
	f.publisher.EXPECT().PublishExportEvent(mock.Anything, mock.Anything).RunAndReturn(f.events.record).Maybe()

	txManager := f.store.TransactionManager()
	hasher := digest.NewBlake2bHasher()
	logger := discardLogger()

	f.qualification = NewQualificationService(QualificationServiceParams{
		TxManager: txManager,
		Config:    cfg,
		Logger:    logger,
	})
	f.exports = NewExportService(ExportServiceParams{
		TxManager:     txManager,
		Qualification: f.qualification,
		Hasher:        hasher,
		Alerts:        f.alerts,
		Ledger:        f.ledger,
		Cache:         f.cache,
		Publisher:     f.publisher,
		QRCode:        qrcode.NewQRCodeService(256, "M"),
		Config:        cfg,
		Logger:        logger,
	})
	f.audit = NewAuditService(AuditServiceParams{
		TxManager: txManager,
		Hasher:    hasher,
		Alerts:    f.alerts,
		Ledger:    f.ledger,
		Archiver:  f.archiver,
		Logger:    logger,
	})
	f.registry = NewRegistryService(RegistryServiceParams{
		TxManager: txManager,
		Hasher:    hasher,
		Alerts:    f.alerts,
		Ledger:    f.ledger,
		Config:    cfg,
		Logger:    logger,
	})

	return f
}

// anchorOK makes every ledger submission succeed with a fixed reference.
func (f *fixture) anchorOK() {
	f.ledger.EXPECT().Anchor(mock.Anything, mock.Anything).Return("tx-ok", nil).Maybe()
}

func (f *fixture) alertsOK() {
	f.alerts.EXPECT().NotifyCritical(mock.Anything, mock.Anything).Return(nil).Maybe()
}

func actorFor(role entity.ActorRole, org uuid.UUID) entity.Actor {
	return entity.Actor{
		ID:             uuid.New(),
		Role:           role,
		OrganizationID: org,
		IPAddress:      "10.0.0.1",
		UserAgent:      "test",
		SessionID:      "session-1",
	}
}

// seedExporter stores an exporter profile with the given status and capital.
func (f *fixture) seedExporter(t *testing.T, businessType entity.BusinessType, status entity.ExporterStatus, capital float64, verified bool) *entity.ExporterProfile {
	t.Helper()

	profile := &entity.ExporterProfile{
		UserID:             uuid.New(),
		BusinessName:       "Sidama Coffee PLC",
		TIN:                "TIN-" + uuid.NewString()[:8],
		RegistrationNumber: "REG-" + uuid.NewString()[:8],
		BusinessType:       businessType,
		MinimumCapital:     capital,
		CapitalVerified:    verified,
		Status:             status,
	}
	require.NoError(t, f.store.Factory().NewExporterRepository().CreateExporter(context.Background(), profile))

	return profile
}

func activeQualification(exporterID uuid.UUID, expiry time.Time) entity.Qualification {
	return entity.Qualification{
		ExporterID: exporterID,
		Number:     "Q-" + uuid.NewString()[:8],
		Status:     entity.ArtifactStatusActive,
		ExpiryDate: &expiry,
	}
}

// seedArtifacts stores one ACTIVE artifact of every kind, valid for a year.
func (f *fixture) seedArtifacts(t *testing.T, exporterID uuid.UUID, exclusiveTaster bool) {
	t.Helper()

	ctx := context.Background()
	repo := f.store.Factory().NewQualificationRepository()
	expiry := time.Now().AddDate(1, 0, 0)

	require.NoError(t, repo.CreateLaboratory(ctx, &entity.CoffeeLaboratory{
		Qualification:  activeQualification(exporterID, expiry),
		LaboratoryName: "Hawassa Cupping Lab",
	}))
	require.NoError(t, repo.CreateTaster(ctx, &entity.CoffeeTaster{
		Qualification:       activeQualification(exporterID, expiry),
		FullName:            "Abebe Kebede",
		IsExclusiveEmployee: exclusiveTaster,
	}))
	require.NoError(t, repo.CreateCompetenceCertificate(ctx, &entity.CompetenceCertificate{
		Qualification: activeQualification(exporterID, expiry),
	}))
	require.NoError(t, repo.CreateExportLicense(ctx, &entity.ExportLicense{
		Qualification: activeQualification(exporterID, expiry),
		CoffeeTypes:   []string{"Arabica"},
	}))
}

// seedQualifiedExporter stores an ACTIVE private exporter that passes every check.
func (f *fixture) seedQualifiedExporter(t *testing.T) *entity.ExporterProfile {
	t.Helper()

	profile := f.seedExporter(t, entity.BusinessTypePrivate, entity.ExporterStatusActive, 20_000_000, true)
	f.seedArtifacts(t, profile.ID, true)

	return profile
}

// seedLot stores a lot purchased by the exporter in the given status.
func (f *fixture) seedLot(t *testing.T, exporterID uuid.UUID, status entity.LotStatus) *entity.CoffeeLot {
	t.Helper()

	owner := exporterID
	lot := &entity.CoffeeLot{
		LotNumber:        "LOT-" + uuid.NewString()[:8],
		WarehouseReceipt: "WR-" + uuid.NewString()[:8],
		CoffeeType:       "Arabica",
		Grade:            "G1",
		QuantityKg:       6000,
		PurchasedBy:      &owner,
		Status:           status,
	}
	require.NoError(t, f.store.Factory().NewLotRepository().CreateLot(context.Background(), lot))

	return lot
}

func validDetails() entity.ExportDetails {
	return entity.ExportDetails{
		CoffeeType:         "Yirgacheffe Grade 1",
		QuantityKg:         1000,
		DestinationCountry: "Germany",
		BuyerName:          "Hamburg Roasters GmbH",
		EstimatedValue:     5000,
	}
}

// auditEntries returns every committed audit entry of an export.
func (f *fixture) auditEntries(t *testing.T, exportID uuid.UUID) []*entity.AuditLog {
	t.Helper()

	entries, err := f.store.Factory().NewAuditRepository().ListAuditLogsByExport(context.Background(), exportID, entity.AuditQuery{})
	require.NoError(t, err)

	return entries
}

func (f *fixture) allAuditEntries(t *testing.T) []*entity.AuditLog {
	t.Helper()

	entries, err := f.store.Factory().NewAuditRepository().ListAuditLogs(context.Background(), entity.AuditQuery{})
	require.NoError(t, err)

	return entries
}

func (f *fixture) history(t *testing.T, exportID uuid.UUID) []*entity.ExportStatusHistory {
	t.Helper()

	rows, err := f.store.Factory().NewExportRepository().ListStatusHistory(context.Background(), exportID)
	require.NoError(t, err)

	return rows
}
