package middleware

import (
	common_models "go-hrms/internal/common/models"
	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireElevatedRole restricts a route to actors holding one of the
// elevated roles (top admin, branch admin, HR).
func RequireElevatedRole() fiber.Handler {
	elevated := map[string]bool{
		common_models.RoleTopAdmin:    true,
		common_models.RoleBranchAdmin: true,
		common_models.RoleHR:          true,
	}

	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok || claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, role := range claims.Roles {
			if elevated[role] {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied: elevated role required",
		})
	}
}
