package handlers

import (
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/cfkpezinok/club-backend/internal/services"
)

type PlayerHandler struct {
	players *services.PlayerService
}

func NewPlayerHandler(players *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{players: players}
}

func (h *PlayerHandler) Register(r *rpc.Router) {
	rpc.Mutation(r, "players.create", rpc.Protected, h.create)
	rpc.Query(r, "players.list", rpc.Protected, h.list)
	rpc.Query(r, "players.getById", rpc.Protected, h.getByID)
	rpc.Mutation(r, "players.update", rpc.Protected, h.update)
	rpc.Mutation(r, "players.delete", rpc.Protected, h.delete)
}

type createPlayerInput struct {
	Name        string          `json:"name" validate:"required,notblank,max=255"`
	DateOfBirth *string         `json:"dateOfBirth" validate:"omitempty,datestr"`
	Category    models.Category `json:"category" validate:"required,category"`
	Position    *string         `json:"position" validate:"omitempty,max=100"`
}

func (h *PlayerHandler) create(call *rpc.Call, in createPlayerInput) (dto.SuccessResponse, error) {
	dob, err := optionalDate(in.DateOfBirth)
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	player, err := h.players.Create(call.Ctx, services.CreatePlayerInput{
		Name:        in.Name,
		DateOfBirth: dob,
		Category:    in.Category,
		Position:    in.Position,
	})
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(player.ID), nil
}

type listPlayersInput struct {
	Category *string `json:"category" validate:"omitempty,category"`
}

func (h *PlayerHandler) list(call *rpc.Call, in listPlayersInput) ([]models.Player, error) {
	return h.players.List(call.Ctx, optionalCategory(in.Category))
}

func (h *PlayerHandler) getByID(call *rpc.Call, in idInput) (*models.Player, error) {
	return h.players.Get(call.Ctx, in.ID)
}

type updatePlayerInput struct {
	ID          uint    `json:"id" validate:"required"`
	Name        *string `json:"name" validate:"omitempty,notblank,max=255"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datestr"`
	Category    *string `json:"category" validate:"omitempty,category"`
	Position    *string `json:"position" validate:"omitempty,max=100"`
}

func (h *PlayerHandler) update(call *rpc.Call, in updatePlayerInput) (dto.SuccessResponse, error) {
	dob, err := optionalDate(in.DateOfBirth)
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	err = h.players.Update(call.Ctx, in.ID, services.UpdatePlayerInput{
		Name:        in.Name,
		DateOfBirth: dob,
		Category:    optionalCategory(in.Category),
		Position:    in.Position,
	})
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(in.ID), nil
}

func (h *PlayerHandler) delete(call *rpc.Call, in idInput) (dto.SuccessResponse, error) {
	if err := h.players.Delete(call.Ctx, in.ID); err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(in.ID), nil
}
