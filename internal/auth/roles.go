package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// RequireRole rejects callers holding none of the listed roles.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := CurrentPrincipal(c)
		if principal == nil {
			return util.NewUnauthorized("authentication required")
		}
		if !principal.User.HasAnyRole(roles...) {
			return util.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
