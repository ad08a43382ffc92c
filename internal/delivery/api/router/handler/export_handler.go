package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"coffeexport/internal/delivery/api/middleware"
	"coffeexport/internal/delivery/api/response"
	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/usecase"
)

// ExportHandlerParams holds dependencies for ExportHandler, injected by Fx.
type ExportHandlerParams struct {
	fx.In

	ExportUC usecase.ExportUsecase
	AuditUC  usecase.AuditUsecase
	Logger   *slog.Logger
}

// ExportHandler exposes the export request lifecycle.
type ExportHandler struct {
	exportUC usecase.ExportUsecase
	auditUC  usecase.AuditUsecase
	logger   *slog.Logger
}

// NewExportHandler is the constructor for ExportHandler
func NewExportHandler(params ExportHandlerParams) *ExportHandler {
	return &ExportHandler{
		exportUC: params.ExportUC,
		auditUC:  params.AuditUC,
		logger:   params.Logger,
	}
}

// VerifyClearanceRequest carries the raw content of a scanned clearance QR code
type VerifyClearanceRequest struct {
	QRData string `json:"qr_data" validate:"required"`
}

// CreateExport opens an export request for the caller's exporter.
func (h *ExportHandler) CreateExport(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	var req usecase.CreateExportInput
	if err := bind(c, &req); err != nil {
		return err
	}

	export, err := h.exportUC.CreateExport(c.Request().Context(), actor, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, export)
}

// GetExport returns one export.
func (h *ExportHandler) GetExport(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exportID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	export, err := h.exportUC.GetExport(c.Request().Context(), actor, exportID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, export)
}

// ListExporterExports returns every export of an exporter.
func (h *ExportHandler) ListExporterExports(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exporterID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	exports, err := h.exportUC.ListExporterExports(c.Request().Context(), actor, exporterID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, exports)
}

// GetApprovals lists the decisions recorded on an export.
func (h *ExportHandler) GetApprovals(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exportID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	approvals, err := h.exportUC.GetExportApprovals(c.Request().Context(), actor, exportID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, approvals)
}

// GetHistory returns the status timeline of an export the caller may read.
func (h *ExportHandler) GetHistory(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exportID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.exportUC.GetExport(ctx, actor, exportID); err != nil {
		return err
	}

	history, err := h.auditUC.GetExportHistory(ctx, exportID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, history)
}

// AvailableActions lists the actions the caller may apply next.
func (h *ExportHandler) AvailableActions(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exportID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	actions, err := h.exportUC.AvailableActions(c.Request().Context(), actor, exportID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, actions)
}

// actionParam accepts "approve-fx" as well as "APPROVE_FX".
func actionParam(c echo.Context) entity.ExportAction {
	raw := strings.ToUpper(strings.ReplaceAll(c.Param("action"), "-", "_"))

	return entity.ExportAction(raw)
}

// ApplyAction runs a named transition. The body is optional.
func (h *ExportHandler) ApplyAction(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exportID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	action := actionParam(c)
	if _, ok := entity.PolicyFor(action); !ok {
		return domainerrors.ErrValidationFailed.WithDetails("unknown action " + string(action))
	}
	if action == entity.ActionUpdateRejected {
		return domainerrors.ErrValidationFailed.WithDetails("corrections are submitted with PUT /exports/:id/details")
	}

	var req usecase.TransitionInput
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
		}
	}

	export, err := h.exportUC.Transition(c.Request().Context(), actor, exportID, action, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, export)
}

// UpdateRejected applies corrections to a rejected export.
func (h *ExportHandler) UpdateRejected(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exportID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.UpdateRejectedInput
	if err := bind(c, &req); err != nil {
		return err
	}

	export, err := h.exportUC.UpdateRejectedExport(c.Request().Context(), actor, exportID, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, export)
}

// ClearanceQR renders the clearance QR code of a cleared export as PNG.
func (h *ExportHandler) ClearanceQR(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exportID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	png, err := h.exportUC.GenerateClearanceQR(c.Request().Context(), actor, exportID)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// VerifyClearance resolves a scanned clearance QR code to its export.
func (h *ExportHandler) VerifyClearance(c echo.Context) error {
	var req VerifyClearanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	export, err := h.exportUC.ResolveClearanceQR(c.Request().Context(), req.QRData)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"export_id": export.ID,
		"status":    export.Status,
		"cleared":   true,
	})
}
