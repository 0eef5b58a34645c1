package automation

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AutomationApi struct {
	controller *ScriptController
	config     *config.Config
}

func NewAutomationApi(controller *ScriptController, config *config.Config) *AutomationApi {
	return &AutomationApi{
		controller: controller,
		config:     config,
	}
}

func (h *AutomationApi) Setup(app *fiber.App) {
	scripts := app.Group("/api/automation/scripts",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireElevatedRole(),
	)

	scripts.Get("/", h.controller.List)
	scripts.Post("/", h.controller.Create)
	scripts.Put("/:id", h.controller.Update)
	scripts.Delete("/:id", h.controller.Delete)
}
