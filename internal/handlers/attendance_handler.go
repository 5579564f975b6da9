package handlers

import (
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/cfkpezinok/club-backend/internal/services"
)

type AttendanceHandler struct {
	attendance *services.AttendanceService
}

func NewAttendanceHandler(attendance *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

func (h *AttendanceHandler) Register(r *rpc.Router) {
	rpc.Mutation(r, "attendance.mark", rpc.Protected, h.mark)
	rpc.Query(r, "attendance.getByTraining", rpc.Protected, h.getByTraining)
	rpc.Query(r, "attendance.getByPlayer", rpc.Protected, h.getByPlayer)
	rpc.Query(r, "attendance.getStats", rpc.Protected, h.getStats)
	rpc.Query(r, "attendance.getSummary", rpc.Protected, h.getSummary)
}

type markAttendanceInput struct {
	TrainingID uint  `json:"trainingId" validate:"required"`
	PlayerID   uint  `json:"playerId" validate:"required"`
	Present    *bool `json:"present" validate:"required"`
}

func (h *AttendanceHandler) mark(call *rpc.Call, in markAttendanceInput) (dto.SuccessResponse, error) {
	if err := h.attendance.Mark(call.Ctx, in.TrainingID, in.PlayerID, *in.Present); err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(0), nil
}

type trainingIDInput struct {
	TrainingID uint `json:"trainingId" validate:"required"`
}

func (h *AttendanceHandler) getByTraining(call *rpc.Call, in trainingIDInput) ([]models.Attendance, error) {
	return h.attendance.ByTraining(call.Ctx, in.TrainingID)
}

type playerIDInput struct {
	PlayerID uint `json:"playerId" validate:"required"`
}

func (h *AttendanceHandler) getByPlayer(call *rpc.Call, in playerIDInput) ([]models.Attendance, error) {
	return h.attendance.ByPlayer(call.Ctx, in.PlayerID)
}

type attendanceStatsInput struct {
	PlayerID  uint    `json:"playerId" validate:"required"`
	StartDate *string `json:"startDate" validate:"omitempty,datestr"`
	EndDate   *string `json:"endDate" validate:"omitempty,datestr"`
}

func (h *AttendanceHandler) getStats(call *rpc.Call, in attendanceStatsInput) (models.AttendanceStats, error) {
	from, to, err := rpc.DateBounds(in.StartDate, in.EndDate)
	if err != nil {
		return models.AttendanceStats{}, err
	}
	return h.attendance.Stats(call.Ctx, in.PlayerID, services.DateRange{From: from, To: to})
}

type attendanceSummaryInput struct {
	Category  models.Category `json:"category" validate:"required,category"`
	StartDate *string         `json:"startDate" validate:"omitempty,datestr"`
	EndDate   *string         `json:"endDate" validate:"omitempty,datestr"`
}

func (h *AttendanceHandler) getSummary(call *rpc.Call, in attendanceSummaryInput) ([]models.PlayerAttendance, error) {
	from, to, err := rpc.DateBounds(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	return h.attendance.Summary(call.Ctx, in.Category, services.DateRange{From: from, To: to})
}
