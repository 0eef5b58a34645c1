package automation

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ScriptController struct {
	Repo ScriptRepository
}

func NewScriptController(repo ScriptRepository) *ScriptController {
	return &ScriptController{Repo: repo}
}

type ScriptBody struct {
	Name      string `json:"name"`
	EventType string `json:"event_type"`
	Source    string `json:"source"`
	Enabled   bool   `json:"enabled"`
}

// Create godoc
// @Summary      Register a hook script
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        input body ScriptBody true "Script definition"
// @Success      201  {object} HookScript
// @Router       /api/automation/scripts [post]
func (c *ScriptController) Create(ctx *fiber.Ctx) error {
	var body ScriptBody
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Name == "" || body.EventType == "" || body.Source == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, event_type and source are required"})
	}

	script := &HookScript{
		Name:      body.Name,
		EventType: body.EventType,
		Source:    body.Source,
		Enabled:   body.Enabled,
	}
	if err := c.Repo.Create(ctx.Context(), script); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(script)
}

// List godoc
// @Summary      List hook scripts
// @Tags         automation
// @Produce      json
// @Success      200  {array} HookScript
// @Router       /api/automation/scripts [get]
func (c *ScriptController) List(ctx *fiber.Ctx) error {
	scripts, err := c.Repo.List(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(scripts)
}

// Update godoc
// @Summary      Update a hook script
// @Tags         automation
// @Accept       json
// @Param        id path string true "Script ID (hex)"
// @Param        input body ScriptBody true "Fields to update"
// @Success      200  {object} map[string]string
// @Router       /api/automation/scripts/{id} [put]
func (c *ScriptController) Update(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid script ID"})
	}

	var body ScriptBody
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	update := bson.M{"enabled": body.Enabled}
	if body.Name != "" {
		update["name"] = body.Name
	}
	if body.EventType != "" {
		update["event_type"] = body.EventType
	}
	if body.Source != "" {
		update["source"] = body.Source
	}

	if err := c.Repo.Update(ctx.Context(), id, update); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// Delete godoc
// @Summary      Delete a hook script
// @Tags         automation
// @Param        id path string true "Script ID (hex)"
// @Success      200  {object} map[string]string
// @Router       /api/automation/scripts/{id} [delete]
func (c *ScriptController) Delete(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid script ID"})
	}

	if err := c.Repo.Delete(ctx.Context(), id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
