// Package rpc exposes typed procedures over HTTP.
//
// Queries are served as GET /<name>?input=<json>, mutations as POST /<name>
// with a JSON body. Input is decoded and validated before the handler runs,
// and access is enforced before input is even read.
package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cfkpezinok/club-backend/internal/identity"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Access int

const (
	Public Access = iota
	Protected
	Admin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

type Kind int

const (
	KindQuery Kind = iota
	KindMutation
)

// Call is what a procedure handler sees of the request.
type Call struct {
	Ctx       context.Context
	Fiber     *fiber.Ctx
	Principal *identity.Principal
}

// Guards are the middleware chains placed in front of procedures.
// Identify runs for every procedure; Protected and Admin run after it for
// procedures with that access. A nil guard rejects every request.
type Guards struct {
	Identify  []fiber.Handler
	Protected fiber.Handler
	Admin     fiber.Handler
}

type Procedure struct {
	Name   string
	Kind   Kind
	Access Access

	extra  []fiber.Handler
	handle fiber.Handler
}

type Router struct {
	procs    map[string]*Procedure
	guards   Guards
	validate *validator.Validate
}

func NewRouter(guards Guards) *Router {
	return &Router{
		procs:    make(map[string]*Procedure),
		guards:   guards,
		validate: newValidator(),
	}
}

// Use adds handlers that run for one procedure, after its access guard.
func (r *Router) Use(name string, handlers ...fiber.Handler) {
	p, ok := r.procs[name]
	if !ok {
		panic("rpc: unknown procedure " + name)
	}
	p.extra = append(p.extra, handlers...)
}

// Procedures returns the registered procedures sorted by name.
func (r *Router) Procedures() []*Procedure {
	out := make([]*Procedure, 0, len(r.procs))
	for _, p := range r.procs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Mount registers every procedure on router.
func (r *Router) Mount(router fiber.Router) {
	for _, p := range r.Procedures() {
		chain := make([]fiber.Handler, 0, len(r.guards.Identify)+len(p.extra)+2)
		chain = append(chain, r.guards.Identify...)
		switch p.Access {
		case Protected:
			chain = append(chain, guardOrDeny(r.guards.Protected))
		case Admin:
			chain = append(chain, guardOrDeny(r.guards.Admin))
		}
		chain = append(chain, p.extra...)
		chain = append(chain, p.handle)

		if p.Kind == KindQuery {
			router.Get("/"+p.Name, chain...)
		} else {
			router.Post("/"+p.Name, chain...)
		}
	}
	slog.Info("rpc procedures mounted", "count", len(r.procs))
}

// Query registers a read procedure.
func Query[In, Out any](r *Router, name string, access Access, fn func(*Call, In) (Out, error)) *Procedure {
	return register(r, name, KindQuery, access, fn)
}

// Mutation registers a write procedure.
func Mutation[In, Out any](r *Router, name string, access Access, fn func(*Call, In) (Out, error)) *Procedure {
	return register(r, name, KindMutation, access, fn)
}

func register[In, Out any](r *Router, name string, kind Kind, access Access, fn func(*Call, In) (Out, error)) *Procedure {
	if _, dup := r.procs[name]; dup {
		panic("rpc: duplicate procedure " + name)
	}

	p := &Procedure{Name: name, Kind: kind, Access: access}
	p.handle = func(c *fiber.Ctx) error {
		var in In
		raw := c.Body()
		if kind == KindQuery {
			raw = []byte(c.Query("input"))
		}
		if err := r.decode(c, raw, &in); err != nil {
			return fail(c, name, err)
		}

		principal, _ := identity.FromCtx(c)
		out, err := fn(&Call{Ctx: c.UserContext(), Fiber: c, Principal: principal}, in)
		if err != nil {
			return fail(c, name, err)
		}
		return c.JSON(out)
	}
	r.procs[name] = p
	return p
}

func guardOrDeny(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c *fiber.Ctx) error {
		return WriteError(c, fiber.NewError(fiber.StatusUnauthorized, "Please login"))
	}
}
