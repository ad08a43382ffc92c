package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeexport/config"
	"coffeexport/internal/delivery/api"
	apimiddleware "coffeexport/internal/delivery/api/middleware"
	"coffeexport/internal/delivery/api/router"
	"coffeexport/internal/delivery/api/router/handler"
	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
	"coffeexport/internal/infra/auth"
	"coffeexport/internal/infra/cache"
	"coffeexport/internal/infra/digest"
	"coffeexport/internal/infra/persistence/memory"
	"coffeexport/internal/infra/pubsub"
	"coffeexport/internal/infra/qrcode"
	"coffeexport/internal/usecase/impl"
)

type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

type testServer struct {
	echo   *echo.Echo
	tokens service.TokenService
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Workflow: &config.WorkflowConfig{MinReasonLength: 10, MinPricePerKg: 2.0},
	}
	cfg.SecretKey.Access = "test-secret-key-for-handlers"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	txManager := store.TransactionManager()
	hasher := digest.NewBlake2bHasher()
	exportCache := cache.NewNoopExportCache()
	publisher := pubsub.NewNoopPublisher(logger)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	qualificationUC := impl.NewQualificationService(impl.QualificationServiceParams{
		TxManager: txManager,
		Config:    cfg,
		Logger:    logger,
	})
	exportUC := impl.NewExportService(impl.ExportServiceParams{
		TxManager:     txManager,
		Qualification: qualificationUC,
		Hasher:        hasher,
		Cache:         exportCache,
		Publisher:     publisher,
		QRCode:        qrcode.NewQRCodeService(256, "M"),
		Config:        cfg,
		Logger:        logger,
	})
	auditUC := impl.NewAuditService(impl.AuditServiceParams{
		TxManager: txManager,
		Hasher:    hasher,
		Logger:    logger,
	})
	registryUC := impl.NewRegistryService(impl.RegistryServiceParams{
		TxManager: txManager,
		Hasher:    hasher,
		Config:    cfg,
		Logger:    logger,
	})

	e := api.NewEcho(cfg, logger, apimiddleware.NewErrorMiddleware(logger), router.RouterParams{
		ExportHandler: handler.NewExportHandler(handler.ExportHandlerParams{
			ExportUC: exportUC, AuditUC: auditUC, Logger: logger,
		}),
		RegistryHandler: handler.NewRegistryHandler(handler.RegistryHandlerParams{
			RegistryUC: registryUC, Logger: logger,
		}),
		QualificationHandler: handler.NewQualificationHandler(handler.QualificationHandlerParams{
			QualificationUC: qualificationUC, RegistryUC: registryUC, Logger: logger,
		}),
		AuditHandler: handler.NewAuditHandler(handler.AuditHandlerParams{
			AuditUC: auditUC, Logger: logger,
		}),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(tokens, logger),
	})

	return &testServer{echo: e, tokens: tokens, store: store}
}

func (s *testServer) token(t *testing.T, role entity.ActorRole, org uuid.UUID) string {
	t.Helper()

	token, err := s.tokens.GenerateAccessToken(entity.Actor{ID: uuid.New(), Role: role, OrganizationID: org})
	require.NoError(t, err)

	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var envelope apiEnvelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}

	return rec, envelope
}

// seedArtifacts gives the exporter one ACTIVE artifact of every kind.
func (s *testServer) seedArtifacts(t *testing.T, exporterID uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	repo := s.store.Factory().NewQualificationRepository()
	expiry := time.Now().AddDate(1, 0, 0)
	active := func(number string) entity.Qualification {
		return entity.Qualification{ExporterID: exporterID, Number: number, Status: entity.ArtifactStatusActive, ExpiryDate: &expiry}
	}

	require.NoError(t, repo.CreateLaboratory(ctx, &entity.CoffeeLaboratory{Qualification: active("LAB-1"), LaboratoryName: "Jimma Lab"}))
	require.NoError(t, repo.CreateTaster(ctx, &entity.CoffeeTaster{Qualification: active("TST-1"), FullName: "Selam Getachew", IsExclusiveEmployee: true}))
	require.NoError(t, repo.CreateCompetenceCertificate(ctx, &entity.CompetenceCertificate{Qualification: active("CC-1")}))
	require.NoError(t, repo.CreateExportLicense(ctx, &entity.ExportLicense{Qualification: active("EL-1")}))
}

func TestAPI_HealthAndAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := s.do(t, http.MethodGet, "/api/v1/me", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
			assert.Nil(t, body.Error.Details)
		})
	}

	org := uuid.New()
	rec, body := s.do(t, http.MethodGet, "/api/v1/me", s.token(t, entity.RoleECX, org), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &me))
	assert.Equal(t, "ECX", me["role"])
	assert.Equal(t, org.String(), me["organization_id"])
	assert.NotEmpty(t, body.Meta.RequestID)
}

func TestAPI_ExportLifecycle(t *testing.T) {
	s := newTestServer(t)
	exporterID := uuid.New()
	exporterToken := s.token(t, entity.RoleExporter, exporterID)
	ectaToken := s.token(t, entity.RoleECTA, uuid.New())
	ecxToken := s.token(t, entity.RoleECX, uuid.New())
	customsToken := s.token(t, entity.RoleCustoms, uuid.New())

	rec, _ := s.do(t, http.MethodPost, "/api/v1/exporters", exporterToken, map[string]any{
		"business_name":       "Limu Coffee PLC",
		"tin":                 "0098765432",
		"registration_number": "MT/OR/2/0101/2025",
		"business_type":       "PRIVATE",
		"minimum_capital":     16000000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = s.do(t, http.MethodPut, "/api/v1/exporters/"+exporterID.String()+"/review", ectaToken, map[string]any{
		"status":           "ACTIVE",
		"capital_verified": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Not yet qualified: the refusal lists every gap.
	createBody := map[string]any{
		"exporter_id": exporterID,
		"details": map[string]any{
			"coffee_type":         "Limu Washed Grade 2",
			"quantity":            1200,
			"destination_country": "Japan",
			"buyer_name":          "Kobe Coffee Trading",
			"estimated_value":     6000,
		},
	}
	rec, body := s.do(t, http.MethodPost, "/api/v1/exports", exporterToken, createBody)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, "QUALIFICATION_FAILED", body.Error.Code)

	s.seedArtifacts(t, exporterID)

	rec, body = s.do(t, http.MethodPost, "/api/v1/exports", exporterToken, createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var export entity.ExportRequest
	require.NoError(t, json.Unmarshal(body.Data, &export))
	assert.Equal(t, entity.ExportStatusPending, export.Status)
	exportPath := "/api/v1/exports/" + export.ID.String()

	rec, _ = s.do(t, http.MethodPost, exportPath+"/actions/submit-to-ecx", exporterToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body = s.do(t, http.MethodPost, exportPath+"/actions/reject-ecx", ecxToken, map[string]any{"reason": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_REQUIRED_FIELD", body.Error.Code)

	rec, body = s.do(t, http.MethodPost, exportPath+"/actions/verify-ecx", customsToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)

	rec, body = s.do(t, http.MethodPost, exportPath+"/actions/clear-customs", customsToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", body.Error.Code)

	rec, body = s.do(t, http.MethodPost, exportPath+"/actions/launch-rocket", ecxToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)

	rec, body = s.do(t, http.MethodPost, exportPath+"/actions/verify-ecx", ecxToken, map[string]any{"notes": "receipt matches"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(body.Data, &export))
	assert.Equal(t, entity.ExportStatusECXVerified, export.Status)

	rec, body = s.do(t, http.MethodGet, exportPath+"/history", exporterToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []entity.ExportStatusHistory
	require.NoError(t, json.Unmarshal(body.Data, &history))
	require.Len(t, history, 3)
	assert.Equal(t, entity.ActionVerifyECX, history[2].Action)
	assert.Equal(t, "receipt matches", history[2].Notes)

	rec, body = s.do(t, http.MethodGet, exportPath+"/actions", exporterToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var actions []entity.ExportAction
	require.NoError(t, json.Unmarshal(body.Data, &actions))
	assert.ElementsMatch(t, []entity.ExportAction{entity.ActionCancel, entity.ActionSubmitToECTA}, actions)

	rec, _ = s.do(t, http.MethodGet, exportPath+"/clearance-qr", exporterToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodGet, exportPath, s.token(t, entity.RoleExporter, uuid.New()), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_AuditSurfaceIsRestricted(t *testing.T) {
	s := newTestServer(t)
	exportID := uuid.New()

	rec, body := s.do(t, http.MethodGet, "/api/v1/audit/exports/"+exportID.String(), s.token(t, entity.RoleExporter, uuid.New()), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/audit/exports/"+exportID.String(), s.token(t, entity.RoleECTA, uuid.New()), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = s.do(t, http.MethodGet, "/api/v1/audit/integrity", s.token(t, entity.RoleNationalBank, uuid.New()), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result entity.IntegrityResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.True(t, result.Valid)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/audit/exports/not-a-uuid", s.token(t, entity.RoleAdmin, uuid.New()), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
