package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

// Create godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body CreateUserInput true "User Input"
// @Success      201  {object} User
// @Failure      400  {string} string "Invalid request body"
// @Router       /api/users [post]
func (c *UserController) Create(ctx *fiber.Ctx) error {
	var input CreateUserInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := c.Service.Create(ctx.Context(), input)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(user)
}

// Get godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200  {object} User
// @Failure      404  {string} string "Not found"
// @Router       /api/users/{id} [get]
func (c *UserController) Get(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := c.Service.Get(ctx.Context(), uint(id))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return ctx.JSON(user)
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        branch_id query int false "Filter by branch"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200  {object} map[string]interface{}
// @Router       /api/users [get]
func (c *UserController) List(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	var branchID *uint
	if v := ctx.Query("branch_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			b := uint(id)
			branchID = &b
		}
	}

	users, total, err := c.Service.List(ctx.Context(), branchID, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"data":  users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
