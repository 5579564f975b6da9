package handlers

import (
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/cfkpezinok/club-backend/internal/services"
)

type TrainingHandler struct {
	trainings *services.TrainingService
}

func NewTrainingHandler(trainings *services.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainings: trainings}
}

func (h *TrainingHandler) Register(r *rpc.Router) {
	rpc.Mutation(r, "trainings.create", rpc.Protected, h.create)
	rpc.Query(r, "trainings.list", rpc.Protected, h.list)
	rpc.Query(r, "trainings.getById", rpc.Protected, h.getByID)
	rpc.Mutation(r, "trainings.update", rpc.Protected, h.update)
	rpc.Mutation(r, "trainings.delete", rpc.Protected, h.delete)
}

type createTrainingInput struct {
	Date     string          `json:"date" validate:"required,datestr"`
	Category models.Category `json:"category" validate:"required,category"`
	Location *string         `json:"location" validate:"omitempty,max=255"`
	Notes    *string         `json:"notes" validate:"omitempty,max=5000"`
}

func (h *TrainingHandler) create(call *rpc.Call, in createTrainingInput) (dto.SuccessResponse, error) {
	date, _, err := rpc.ParseDate(in.Date)
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	training, err := h.trainings.Create(call.Ctx, services.CreateTrainingInput{
		Date:          date,
		Category:      in.Category,
		Location:      in.Location,
		Notes:         in.Notes,
		CreatedByID:   call.Principal.ID,
		CreatedByKind: string(call.Principal.Kind),
	})
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(training.ID), nil
}

type listTrainingsInput struct {
	Category *string `json:"category" validate:"omitempty,category"`
}

func (h *TrainingHandler) list(call *rpc.Call, in listTrainingsInput) ([]models.Training, error) {
	return h.trainings.List(call.Ctx, optionalCategory(in.Category))
}

func (h *TrainingHandler) getByID(call *rpc.Call, in idInput) (*models.Training, error) {
	return h.trainings.Get(call.Ctx, in.ID)
}

type updateTrainingInput struct {
	ID       uint    `json:"id" validate:"required"`
	Date     *string `json:"date" validate:"omitempty,datestr"`
	Category *string `json:"category" validate:"omitempty,category"`
	Location *string `json:"location" validate:"omitempty,max=255"`
	Notes    *string `json:"notes" validate:"omitempty,max=5000"`
}

func (h *TrainingHandler) update(call *rpc.Call, in updateTrainingInput) (dto.SuccessResponse, error) {
	date, err := optionalDate(in.Date)
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	err = h.trainings.Update(call.Ctx, in.ID, services.UpdateTrainingInput{
		Date:     date,
		Category: optionalCategory(in.Category),
		Location: in.Location,
		Notes:    in.Notes,
	})
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(in.ID), nil
}

func (h *TrainingHandler) delete(call *rpc.Call, in idInput) (dto.SuccessResponse, error) {
	if err := h.trainings.Delete(call.Ctx, in.ID); err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(in.ID), nil
}
