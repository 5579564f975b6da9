package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/cfkpezinok/club-backend/internal/config"
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/identity"
	"github.com/cfkpezinok/club-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// RequireAdmin admits site administrators. It checks, in order:
// 1. the X-Admin-Token header against ADMIN_TOKEN
// 2. a user principal with the admin role
// 3. a user principal whose e-mail is listed in ADMIN_EMAILS
func RequireAdmin(cfg *config.Config) fiber.Handler {
	adminEmails := services.ParseEmailList(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if got := c.Get("X-Admin-Token"); got != "" &&
				subtle.ConstantTimeCompare([]byte(got), []byte(cfg.AdminToken)) == 1 {
				return c.Next()
			}
		}

		p, ok := identity.FromCtx(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: "UNAUTHORIZED", Message: "Please login",
			})
		}

		if p.IsAdmin() || (p.Kind == identity.KindUser && adminEmails[strings.ToLower(p.Email)]) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Code: "FORBIDDEN", Message: "Admin access required",
		})
	}
}
