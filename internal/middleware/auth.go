package middleware

import (
	"log/slog"

	"github.com/cfkpezinok/club-backend/internal/config"
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/identity"
	"github.com/cfkpezinok/club-backend/internal/services"
	"github.com/cfkpezinok/club-backend/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	trainerTokenKey = "trainer_token"
	userTokenKey    = "user"
)

// TrainerSession identifies a trainer from the session cookie. A missing or
// invalid cookie leaves the request anonymous; guards decide what that means.
func TrainerSession(sessions *session.Manager) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: sessions.Secret()},
		TokenLookup: "cookie:" + session.CookieName,
		Claims:      &session.Claims{},
		ContextKey:  trainerTokenKey,
		Filter: func(c *fiber.Ctx) bool {
			return c.Cookies(session.CookieName) == ""
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(trainerTokenKey).(*jwt.Token)
			if !ok {
				return c.Next()
			}
			claims, ok := token.Claims.(*session.Claims)
			if !ok || claims.TrainerID == 0 {
				return c.Next()
			}
			identity.Set(c, &identity.Principal{
				Kind:     identity.KindTrainer,
				ID:       claims.TrainerID,
				Username: claims.Username,
				FullName: claims.FullName,
			})
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Debug("ignoring trainer session", "error", err)
			return c.Next()
		},
	})
}

// UserToken identifies a site user from a bearer access token, unless a
// trainer session already did.
func UserToken(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ContextKey: userTokenKey,
		Filter: func(c *fiber.Ctx) bool {
			if _, ok := identity.FromCtx(c); ok {
				return true
			}
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(userTokenKey).(*jwt.Token)
			claims, err := services.ClaimsFromToken(token)
			if err != nil {
				return c.Next()
			}
			identity.Set(c, &identity.Principal{
				Kind:  identity.KindUser,
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  claims.Role,
			})
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Debug("ignoring bearer token", "error", err)
			return c.Next()
		},
	})
}

// RequirePrincipal rejects anonymous requests.
func RequirePrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := identity.FromCtx(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Code:    "UNAUTHORIZED",
				Message: "Please login",
			})
		}
		return c.Next()
	}
}
