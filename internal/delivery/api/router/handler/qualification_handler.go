package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"coffeexport/internal/delivery/api/middleware"
	"coffeexport/internal/delivery/api/response"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/errors"
	"coffeexport/internal/usecase"
)

// QualificationHandlerParams holds dependencies for QualificationHandler, injected by Fx.
type QualificationHandlerParams struct {
	fx.In

	QualificationUC usecase.QualificationUsecase
	RegistryUC      usecase.RegistryUsecase
	Logger          *slog.Logger
}

// QualificationHandler answers exporter qualification questions.
type QualificationHandler struct {
	qualificationUC usecase.QualificationUsecase
	registryUC      usecase.RegistryUsecase
	logger          *slog.Logger
}

// NewQualificationHandler is the constructor for QualificationHandler
func NewQualificationHandler(params QualificationHandlerParams) *QualificationHandler {
	return &QualificationHandler{
		qualificationUC: params.QualificationUC,
		registryUC:      params.RegistryUC,
		logger:          params.Logger,
	}
}

// authorizeExporter resolves the path exporter and checks that the caller may read it.
// Exporters see only themselves; denials are audited by the registry.
func (h *QualificationHandler) authorizeExporter(c echo.Context) (uuid.UUID, error) {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return uuid.Nil, err
	}
	exporterID, err := uuidParam(c, "id")
	if err != nil {
		return uuid.Nil, err
	}
	// A missing profile is reported by the validation itself.
	_, err = h.registryUC.GetExporter(c.Request().Context(), actor, exporterID)
	if err != nil && !errors.Is(err, domainerrors.ErrExporterNotFound) {
		return uuid.Nil, err
	}

	return exporterID, nil
}

// ValidateExporter returns the full qualification report.
func (h *QualificationHandler) ValidateExporter(c echo.Context) error {
	exporterID, err := h.authorizeExporter(c)
	if err != nil {
		return err
	}

	validation, err := h.qualificationUC.ValidateExporter(c.Request().Context(), exporterID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, validation)
}

// Eligibility summarizes whether the exporter may open an export request.
func (h *QualificationHandler) Eligibility(c echo.Context) error {
	exporterID, err := h.authorizeExporter(c)
	if err != nil {
		return err
	}

	eligibility, err := h.qualificationUC.CanCreateExportRequest(c.Request().Context(), exporterID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, eligibility)
}

// CheckPermit validates the artifacts an export permit would be issued against.
func (h *QualificationHandler) CheckPermit(c echo.Context) error {
	var req usecase.PermitRequirementsInput
	if err := bind(c, &req); err != nil {
		return err
	}

	check, err := h.qualificationUC.ValidateExportPermitRequirements(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, check)
}
