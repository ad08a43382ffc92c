package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"coffeexport/internal/delivery/api/middleware"
	"coffeexport/internal/delivery/api/response"
	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/usecase"
)

// RegistryHandlerParams holds dependencies for RegistryHandler, injected by Fx.
type RegistryHandlerParams struct {
	fx.In

	RegistryUC usecase.RegistryUsecase
	Logger     *slog.Logger
}

// RegistryHandler exposes exporter profiles, qualification artifacts, lots, inspections and contracts.
type RegistryHandler struct {
	registryUC usecase.RegistryUsecase
	logger     *slog.Logger
}

// NewRegistryHandler is the constructor for RegistryHandler
func NewRegistryHandler(params RegistryHandlerParams) *RegistryHandler {
	return &RegistryHandler{
		registryUC: params.RegistryUC,
		logger:     params.Logger,
	}
}

// ReviewContractRequest is the regulator's decision on a sales contract
type ReviewContractRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

func (h *RegistryHandler) RegisterExporter(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	var req usecase.RegisterExporterInput
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.registryUC.RegisterExporter(c.Request().Context(), actor, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, profile)
}

func (h *RegistryHandler) GetExporter(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exporterID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.registryUC.GetExporter(c.Request().Context(), actor, exporterID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, profile)
}

// ListExporters filters profiles by the required status query parameter.
func (h *RegistryHandler) ListExporters(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	status := entity.ExporterStatus(c.QueryParam("status"))
	if status == "" {
		status = entity.ExporterStatusPendingApproval
	}
	if !status.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown exporter status " + string(status))
	}

	profiles, err := h.registryUC.ListExportersByStatus(c.Request().Context(), actor, status)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, profiles)
}

func (h *RegistryHandler) ReviewExporter(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exporterID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.ReviewExporterInput
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.registryUC.ReviewExporterProfile(c.Request().Context(), actor, exporterID, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, profile)
}

func (h *RegistryHandler) SubmitQualification(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exporterID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.SubmitQualificationInput
	if err := bind(c, &req); err != nil {
		return err
	}

	qualification, err := h.registryUC.SubmitQualification(c.Request().Context(), actor, exporterID, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, qualification)
}

func (h *RegistryHandler) ListQualifications(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exporterID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	qualifications, err := h.registryUC.ListExporterQualifications(c.Request().Context(), actor, exporterID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, qualifications)
}

func (h *RegistryHandler) SetQualificationStatus(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	kind := entity.ArtifactKind(c.Param("kind"))
	if !kind.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown qualification kind " + string(kind))
	}

	var req usecase.QualificationStatusInput
	if err := bind(c, &req); err != nil {
		return err
	}

	qualification, err := h.registryUC.SetQualificationStatus(c.Request().Context(), actor, kind, id, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, qualification)
}

func (h *RegistryHandler) RegisterLot(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	var req usecase.RegisterLotInput
	if err := bind(c, &req); err != nil {
		return err
	}

	lot, err := h.registryUC.RegisterLot(c.Request().Context(), actor, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, lot)
}

func (h *RegistryHandler) RecordInspection(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	var req usecase.RecordInspectionInput
	if err := bind(c, &req); err != nil {
		return err
	}

	inspection, err := h.registryUC.RecordInspection(c.Request().Context(), actor, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, inspection)
}

func (h *RegistryHandler) RecordContract(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	exporterID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.RecordContractInput
	if err := bind(c, &req); err != nil {
		return err
	}

	contract, err := h.registryUC.RecordContract(c.Request().Context(), actor, exporterID, &req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, contract)
}

func (h *RegistryHandler) ReviewContract(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	contractID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req ReviewContractRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	contract, err := h.registryUC.ReviewContract(c.Request().Context(), actor, contractID, *req.Approve)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, contract)
}
