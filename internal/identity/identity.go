// Package identity carries the authenticated caller of a request.
package identity

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindTrainer Kind = "trainer"
	KindUser    Kind = "user"
)

const localsKey = "principal"

// Principal is either a back-office trainer or a public-site user.
// Ids are only unique together with Kind.
type Principal struct {
	Kind     Kind
	ID       uint
	Username string
	FullName string
	Email    string
	Role     string
}

func (p *Principal) String() string {
	if p == nil {
		return "anonymous"
	}
	return string(p.Kind) + ":" + strconv.FormatUint(uint64(p.ID), 10)
}

func (p *Principal) IsTrainer() bool {
	return p != nil && p.Kind == KindTrainer
}

// IsAdmin reports whether p is a site user with the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Kind == KindUser && p.Role == "admin"
}

func Set(c *fiber.Ctx, p *Principal) {
	c.Locals(localsKey, p)
}

// FromCtx returns the principal stored on the request, if any.
func FromCtx(c *fiber.Ctx) (*Principal, bool) {
	p, ok := c.Locals(localsKey).(*Principal)
	return p, ok && p != nil
}
