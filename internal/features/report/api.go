package report

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller *ReportController
	config     *config.Config
}

func NewReportApi(controller *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		controller: controller,
		config:     config,
	}
}

func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireElevatedRole(),
	)

	reports.Get("/approvals/export", h.controller.ExportApprovals)
}
