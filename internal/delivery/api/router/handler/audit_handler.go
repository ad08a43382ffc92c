package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"coffeexport/internal/delivery/api/middleware"
	"coffeexport/internal/delivery/api/response"
	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/usecase"
)

// AuditHandlerParams holds dependencies for AuditHandler, injected by Fx.
type AuditHandlerParams struct {
	fx.In

	AuditUC usecase.AuditUsecase
	Logger  *slog.Logger
}

// AuditHandler exposes the compliance log to regulators.
type AuditHandler struct {
	auditUC usecase.AuditUsecase
	logger  *slog.Logger
}

// NewAuditHandler is the constructor for AuditHandler
func NewAuditHandler(params AuditHandlerParams) *AuditHandler {
	return &AuditHandler{
		auditUC: params.AuditUC,
		logger:  params.Logger,
	}
}

// LogEventRequest is an audit entry reported by a partner system
type LogEventRequest struct {
	EntityType  entity.AuditEntityType `json:"entity_type" validate:"required"`
	EntityID    string                 `json:"entity_id" validate:"required,max=255"`
	ExportID    *uuid.UUID             `json:"export_id,omitempty"`
	Action      entity.AuditAction     `json:"action" validate:"required"`
	OldValue    map[string]any         `json:"old_value,omitempty"`
	NewValue    map[string]any         `json:"new_value,omitempty"`
	Severity    entity.Severity        `json:"severity" validate:"required"`
	Compliance  bool                   `json:"compliance_relevant"`
	Description string                 `json:"description" validate:"max=2000"`
}

// GenerateReportRequest bounds an audit report
type GenerateReportRequest struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required"`
}

func (h *AuditHandler) LogEvent(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	var req LogEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if !req.Severity.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown severity " + string(req.Severity))
	}

	id, err := h.auditUC.LogEvent(c.Request().Context(), &usecase.LogEventInput{
		Actor:              actor,
		EntityType:         req.EntityType,
		EntityID:           req.EntityID,
		ExportID:           req.ExportID,
		Action:             req.Action,
		OldValue:           req.OldValue,
		NewValue:           req.NewValue,
		Severity:           req.Severity,
		ComplianceRelevant: req.Compliance,
		Description:        req.Description,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

func (h *AuditHandler) GetAuditLog(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	entry, err := h.auditUC.GetAuditLog(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, entry)
}

// listBy serves the list endpoints keyed by a UUID path parameter.
func (h *AuditHandler) listBy(fetch func(c echo.Context, id uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		query, err := auditQuery(c)
		if err != nil {
			return err
		}

		entries, err := fetch(c, id, query)
		if err != nil {
			return err
		}

		return response.Success(c, http.StatusOK, entries)
	}
}

func (h *AuditHandler) ExportLogs() echo.HandlerFunc {
	return h.listBy(func(c echo.Context, id uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
		return h.auditUC.GetExportAuditLogs(c.Request().Context(), id, query)
	})
}

func (h *AuditHandler) UserLogs() echo.HandlerFunc {
	return h.listBy(func(c echo.Context, id uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
		return h.auditUC.GetUserAuditLogs(c.Request().Context(), id, query)
	})
}

func (h *AuditHandler) OrganizationLogs() echo.HandlerFunc {
	return h.listBy(func(c echo.Context, id uuid.UUID, query entity.AuditQuery) ([]*entity.AuditLog, error) {
		return h.auditUC.GetOrganizationAuditLogs(c.Request().Context(), id, query)
	})
}

func (h *AuditHandler) ActionLogs(c echo.Context) error {
	query, err := auditQuery(c)
	if err != nil {
		return err
	}

	entries, err := h.auditUC.GetAuditLogsByAction(c.Request().Context(), entity.AuditAction(c.Param("action")), query)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, entries)
}

// VerifyIntegrity rechecks hashes and ledger status over the queried window.
func (h *AuditHandler) VerifyIntegrity(c echo.Context) error {
	query, err := auditQuery(c)
	if err != nil {
		return err
	}

	result, err := h.auditUC.VerifyAuditLogIntegrity(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, result)
}

func (h *AuditHandler) GenerateReport(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	var req GenerateReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	report, err := h.auditUC.GenerateAuditReport(c.Request().Context(), actor, req.From, req.To)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, report)
}

func (h *AuditHandler) AnchorEntry(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.auditUC.AnchorEntry(c.Request().Context(), id); err != nil {
		return err
	}

	entry, err := h.auditUC.GetAuditLog(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, entry)
}

func (h *AuditHandler) AnchorPending(c echo.Context) error {
	query, err := auditQuery(c)
	if err != nil {
		return err
	}

	recorded, err := h.auditUC.AnchorPending(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]int{"recorded": recorded})
}
