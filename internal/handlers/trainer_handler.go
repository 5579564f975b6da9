package handlers

import (
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/cfkpezinok/club-backend/internal/services"
	"github.com/cfkpezinok/club-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type TrainerHandler struct {
	trainers *services.TrainerService
	sessions *session.Manager
}

func NewTrainerHandler(trainers *services.TrainerService, sessions *session.Manager) *TrainerHandler {
	return &TrainerHandler{trainers: trainers, sessions: sessions}
}

func (h *TrainerHandler) Register(r *rpc.Router) {
	rpc.Mutation(r, "trainer.login", rpc.Public, h.login)
	rpc.Mutation(r, "trainer.logout", rpc.Public, h.logout)
	rpc.Query(r, "trainer.me", rpc.Public, h.me)
	rpc.Mutation(r, "trainer.changePassword", rpc.Public, h.changePassword)
	rpc.Query(r, "trainer.list", rpc.Admin, h.list)
	rpc.Mutation(r, "trainer.create", rpc.Admin, h.create)
}

func (h *TrainerHandler) login(call *rpc.Call, in dto.TrainerLoginRequest) (dto.TrainerLoginResponse, error) {
	trainer, err := h.trainers.Login(call.Ctx, in.Username, in.Password)
	if err != nil {
		return dto.TrainerLoginResponse{}, err
	}

	token, expiresAt, err := h.sessions.Issue(trainer.ID, trainer.Username, trainer.FullName)
	if err != nil {
		return dto.TrainerLoginResponse{}, err
	}
	h.sessions.SetCookie(call.Fiber, token, expiresAt)

	return dto.TrainerLoginResponse{Success: true, Trainer: trainerResponse(trainer)}, nil
}

func (h *TrainerHandler) logout(call *rpc.Call, _ noInput) (dto.SuccessResponse, error) {
	h.sessions.ClearCookie(call.Fiber)
	return success(0), nil
}

func (h *TrainerHandler) me(call *rpc.Call, _ noInput) (dto.TrainerResponse, error) {
	if !call.Principal.IsTrainer() {
		return dto.TrainerResponse{}, fiber.NewError(fiber.StatusUnauthorized, "Please login")
	}
	return dto.TrainerResponse{
		ID:       call.Principal.ID,
		Username: call.Principal.Username,
		FullName: call.Principal.FullName,
	}, nil
}

func (h *TrainerHandler) changePassword(call *rpc.Call, in dto.ChangePasswordRequest) (dto.SuccessResponse, error) {
	if err := h.trainers.ChangePassword(call.Ctx, in.TrainerID, in.CurrentPassword, in.NewPassword); err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(in.TrainerID), nil
}

func (h *TrainerHandler) list(call *rpc.Call, _ noInput) ([]dto.TrainerResponse, error) {
	trainers, err := h.trainers.List(call.Ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TrainerResponse, 0, len(trainers))
	for i := range trainers {
		out = append(out, trainerResponse(&trainers[i]))
	}
	return out, nil
}

func (h *TrainerHandler) create(call *rpc.Call, in dto.CreateTrainerRequest) (dto.TrainerResponse, error) {
	trainer, err := h.trainers.Create(call.Ctx, in.Username, in.FullName, in.Password)
	if err != nil {
		return dto.TrainerResponse{}, err
	}
	return trainerResponse(trainer), nil
}

func trainerResponse(t *models.Trainer) dto.TrainerResponse {
	return dto.TrainerResponse{ID: t.ID, Username: t.Username, FullName: t.FullName}
}
