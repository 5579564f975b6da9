package handlers

import (
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/identity"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/cfkpezinok/club-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves public-site accounts.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(r *rpc.Router) {
	rpc.Mutation(r, "auth.register", rpc.Public, h.register)
	rpc.Mutation(r, "auth.login", rpc.Public, h.login)
	rpc.Mutation(r, "auth.refresh", rpc.Public, h.refresh)
	rpc.Mutation(r, "auth.logout", rpc.Public, h.logout)
	rpc.Query(r, "auth.me", rpc.Public, h.me)
}

func (h *AuthHandler) register(call *rpc.Call, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	resp, err := h.auth.Register(call.Ctx, &in)
	if err != nil {
		return nil, err
	}
	call.Fiber.Status(fiber.StatusCreated)
	return resp, nil
}

func (h *AuthHandler) login(call *rpc.Call, in dto.LoginRequest) (*dto.AuthResponse, error) {
	return h.auth.Login(call.Ctx, &in)
}

func (h *AuthHandler) refresh(call *rpc.Call, in dto.RefreshRequest) (*dto.AuthResponse, error) {
	return h.auth.Refresh(call.Ctx, &in)
}

func (h *AuthHandler) logout(call *rpc.Call, in dto.LogoutRequest) (dto.SuccessResponse, error) {
	if err := h.auth.Logout(call.Ctx, &in); err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(0), nil
}

func (h *AuthHandler) me(call *rpc.Call, _ noInput) (*dto.UserResponse, error) {
	if call.Principal == nil || call.Principal.Kind != identity.KindUser {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Please login")
	}
	return h.auth.Me(call.Ctx, call.Principal.ID)
}
