// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"coffeexport/internal/delivery/api/middleware"
	"coffeexport/internal/delivery/api/router/handler"
	"coffeexport/internal/domain/entity"
)

type RouterParams struct {
	fx.In

	ExportHandler        *handler.ExportHandler
	RegistryHandler      *handler.RegistryHandler
	QualificationHandler *handler.QualificationHandler
	AuditHandler         *handler.AuditHandler
	AuthMiddleware       *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	exportHandler        *handler.ExportHandler
	registryHandler      *handler.RegistryHandler
	qualificationHandler *handler.QualificationHandler
	auditHandler         *handler.AuditHandler
	authMiddleware       *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		exportHandler:        params.ExportHandler,
		registryHandler:      params.RegistryHandler,
		qualificationHandler: params.QualificationHandler,
		auditHandler:         params.AuditHandler,
		authMiddleware:       params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Role and ownership rules for exports and the registry are enforced by the
// usecases so that refusals are audited; only the audit surface is gated here.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate)

	apiV1.GET("/me", handler.WhoAmI)

	exports := apiV1.Group("/exports")
	{
		exports.POST("", r.exportHandler.CreateExport)
		exports.GET("/:id", r.exportHandler.GetExport)
		exports.GET("/:id/approvals", r.exportHandler.GetApprovals)
		exports.GET("/:id/history", r.exportHandler.GetHistory)
		exports.GET("/:id/actions", r.exportHandler.AvailableActions)
		exports.POST("/:id/actions/:action", r.exportHandler.ApplyAction)
		exports.PUT("/:id/details", r.exportHandler.UpdateRejected)
		exports.GET("/:id/clearance-qr", r.exportHandler.ClearanceQR)
	}

	apiV1.POST("/clearance/verify", r.exportHandler.VerifyClearance)

	exporters := apiV1.Group("/exporters")
	{
		exporters.POST("", r.registryHandler.RegisterExporter)
		exporters.GET("", r.registryHandler.ListExporters)
		exporters.GET("/:id", r.registryHandler.GetExporter)
		exporters.PUT("/:id/review", r.registryHandler.ReviewExporter)
		exporters.GET("/:id/exports", r.exportHandler.ListExporterExports)
		exporters.POST("/:id/qualifications", r.registryHandler.SubmitQualification)
		exporters.GET("/:id/qualifications", r.registryHandler.ListQualifications)
		exporters.POST("/:id/contracts", r.registryHandler.RecordContract)
		exporters.GET("/:id/validation", r.qualificationHandler.ValidateExporter)
		exporters.GET("/:id/eligibility", r.qualificationHandler.Eligibility)
	}

	apiV1.PUT("/qualifications/:kind/:id/status", r.registryHandler.SetQualificationStatus)
	apiV1.POST("/lots", r.registryHandler.RegisterLot)
	apiV1.POST("/inspections", r.registryHandler.RecordInspection)
	apiV1.PUT("/contracts/:id/review", r.registryHandler.ReviewContract)

	permits := apiV1.Group("/permits")
	permits.Use(r.authMiddleware.RequireRoles(entity.RoleECTA, entity.RoleCustoms))
	{
		permits.POST("/check", r.qualificationHandler.CheckPermit)
	}

	audit := apiV1.Group("/audit")
	audit.Use(r.authMiddleware.RequireRoles(entity.RoleECTA, entity.RoleNationalBank))
	{
		audit.POST("/events", r.auditHandler.LogEvent)
		audit.GET("/logs/:id", r.auditHandler.GetAuditLog)
		audit.POST("/logs/:id/anchor", r.auditHandler.AnchorEntry)
		audit.GET("/exports/:id", r.auditHandler.ExportLogs())
		audit.GET("/users/:id", r.auditHandler.UserLogs())
		audit.GET("/organizations/:id", r.auditHandler.OrganizationLogs())
		audit.GET("/actions/:action", r.auditHandler.ActionLogs)
		audit.GET("/integrity", r.auditHandler.VerifyIntegrity)
		audit.POST("/reports", r.auditHandler.GenerateReport)
		audit.POST("/anchor-pending", r.auditHandler.AnchorPending)
	}
}
