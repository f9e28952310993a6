package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

const principalKey = "principal"

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	User *domain.User
}

// Name returns the caller's account name.
func (p *Principal) Name() string {
	return p.User.Name
}

// Middleware validates the bearer token and loads the current account so
// downstream handlers see fresh roles, not the ones frozen into the token.
func Middleware(tokens *TokenManager, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return util.NewUnauthorized("missing bearer token")
		}
		claims, err := tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return err
		}
		user, err := users.GetByID(c.UserContext(), claims.Subject)
		if err != nil {
			return util.NewUnauthorized("account no longer exists")
		}
		c.Locals(principalKey, &Principal{User: user})
		return c.Next()
	}
}

// CurrentPrincipal extracts the authenticated caller, or nil when the route
// is not guarded.
func CurrentPrincipal(c *fiber.Ctx) *Principal {
	principal, _ := c.Locals(principalKey).(*Principal)
	return principal
}
