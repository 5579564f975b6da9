// Package session issues and reads the trainer back-office cookie.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "trainer_session"

var ErrInvalidSession = errors.New("invalid or expired trainer session")

// Claims is the signed cookie payload.
type Claims struct {
	TrainerID uint   `json:"trainerId"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	domain string
}

func NewManager(secret string, ttl time.Duration, domain string) *Manager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, domain: domain}
}

func (m *Manager) Secret() []byte {
	return m.secret
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a session for the trainer and returns it with its expiry.
func (m *Manager) Issue(trainerID uint, username, fullName string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		TrainerID: trainerID,
		Username:  username,
		FullName:  fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("trainer:%d", trainerID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies a cookie value. Only HS256 signatures made with the manager's secret are accepted.
func (m *Manager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.TrainerID == 0 {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// SetCookie attaches the session to the response. Secure and SameSite follow
// the protocol the request arrived on.
func (m *Manager) SetCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(m.cookie(c, token, int(m.ttl.Seconds()), expiresAt))
}

// ClearCookie expires the session immediately.
func (m *Manager) ClearCookie(c *fiber.Ctx) {
	c.Cookie(m.cookie(c, "", -1, time.Unix(0, 0)))
}

func (m *Manager) cookie(c *fiber.Ctx, value string, maxAge int, expires time.Time) *fiber.Cookie {
	secure := c.Protocol() == "https"
	sameSite := fiber.CookieSameSiteLaxMode
	if secure {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Domain:   m.domain,
		MaxAge:   maxAge,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}
