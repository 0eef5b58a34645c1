package audit

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) *AuditApi {
	return &AuditApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireElevatedRole(),
	)

	audit.Get("/", h.controller.List)
	audit.Get("/:kind/:id", h.controller.Trail)
}
