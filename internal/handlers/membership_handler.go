package handlers

import (
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/cfkpezinok/club-backend/internal/services"
)

type MembershipHandler struct {
	payments *services.MembershipService
}

func NewMembershipHandler(payments *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{payments: payments}
}

func (h *MembershipHandler) Register(r *rpc.Router) {
	rpc.Mutation(r, "membershipPayments.setPayment", rpc.Protected, h.setPayment)
	rpc.Query(r, "membershipPayments.getByPlayer", rpc.Protected, h.getByPlayer)
	rpc.Query(r, "membershipPayments.getByYearMonth", rpc.Protected, h.getByYearMonth)
	rpc.Query(r, "membershipPayments.getAll", rpc.Protected, h.getAll)
	rpc.Query(r, "membershipPayments.getOverview", rpc.Protected, h.getOverview)
}

type setPaymentInput struct {
	PlayerID uint     `json:"playerId" validate:"required"`
	Year     int      `json:"year" validate:"required,gte=1900,lte=9999"`
	Month    int      `json:"month" validate:"required,gte=1,lte=12"`
	Paid     *bool    `json:"paid" validate:"required"`
	Amount   *float64 `json:"amount" validate:"omitempty,gte=0"`
}

func (h *MembershipHandler) setPayment(call *rpc.Call, in setPaymentInput) (dto.SuccessResponse, error) {
	err := h.payments.SetPayment(call.Ctx, services.SetPaymentInput{
		PlayerID: in.PlayerID,
		Year:     in.Year,
		Month:    in.Month,
		Paid:     *in.Paid,
		Amount:   in.Amount,
	})
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(0), nil
}

func (h *MembershipHandler) getByPlayer(call *rpc.Call, in playerIDInput) ([]models.MembershipPayment, error) {
	return h.payments.ByPlayer(call.Ctx, in.PlayerID)
}

type yearMonthInput struct {
	Year  int `json:"year" validate:"required,gte=1900,lte=9999"`
	Month int `json:"month" validate:"required,gte=1,lte=12"`
}

func (h *MembershipHandler) getByYearMonth(call *rpc.Call, in yearMonthInput) ([]models.MembershipPayment, error) {
	return h.payments.ByYearMonth(call.Ctx, in.Year, in.Month)
}

func (h *MembershipHandler) getAll(call *rpc.Call, _ noInput) ([]models.MembershipPayment, error) {
	return h.payments.All(call.Ctx)
}

type overviewInput struct {
	Year     int     `json:"year" validate:"required,gte=1900,lte=9999"`
	Month    int     `json:"month" validate:"required,gte=1,lte=12"`
	Category *string `json:"category" validate:"omitempty,category"`
}

func (h *MembershipHandler) getOverview(call *rpc.Call, in overviewInput) ([]models.PaymentOverview, error) {
	return h.payments.Overview(call.Ctx, in.Year, in.Month, optionalCategory(in.Category))
}
