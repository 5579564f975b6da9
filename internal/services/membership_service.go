package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cfkpezinok/club-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SetPaymentInput struct {
	PlayerID uint
	Year     int
	Month    int
	Paid     bool
	// Amount is left unchanged on an existing row when nil.
	Amount *float64
}

type MembershipService struct {
	store *Storage
}

func NewMembershipService(store *Storage) *MembershipService {
	return &MembershipService{store: store}
}

// SetPayment records a player's fee status for one month. There is never more
// than one row per (player, year, month); paid_at keeps the first payment time
// while the month stays paid and is cleared when it is marked unpaid.
func (s *MembershipService) SetPayment(ctx context.Context, in SetPaymentInput) error {
	if in.Month < 1 || in.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if in.Year < 1900 || in.Year > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidInput, in.Year)
	}

	now := time.Now().UTC()
	payment := models.MembershipPayment{
		PlayerID: in.PlayerID,
		Year:     in.Year,
		Month:    in.Month,
		Amount:   in.Amount,
	}
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if in.Paid {
		payment.Paid = 1
		payment.PaidAt = &now
		updates["paid"] = 1
		updates["paid_at"] = gorm.Expr("COALESCE(membership_payments.paid_at, ?)", now)
	} else {
		updates["paid"] = 0
		updates["paid_at"] = nil
	}
	if in.Amount != nil {
		updates["amount"] = *in.Amount
	}

	return s.store.run(ctx, func(db *gorm.DB) error {
		if err := exists(db, &models.Player{}, in.PlayerID, ErrPlayerNotFound); err != nil {
			return err
		}
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}, {Name: "year"}, {Name: "month"}},
			DoUpdates: clause.Assignments(updates),
		}).Create(&payment).Error
	})
}

func (s *MembershipService) ByPlayer(ctx context.Context, playerID uint) ([]models.MembershipPayment, error) {
	payments := []models.MembershipPayment{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Where("player_id = ?", playerID).
			Order("year DESC").Order("month DESC").
			Find(&payments).Error
	})
	if err != nil {
		return degrade("membership.byPlayer", []models.MembershipPayment{}, err)
	}
	return payments, nil
}

func (s *MembershipService) ByYearMonth(ctx context.Context, year, month int) ([]models.MembershipPayment, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	payments := []models.MembershipPayment{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Where("year = ? AND month = ?", year, month).
			Order("created_at DESC").Order("id DESC").
			Find(&payments).Error
	})
	if err != nil {
		return degrade("membership.byYearMonth", []models.MembershipPayment{}, err)
	}
	return payments, nil
}

func (s *MembershipService) All(ctx context.Context) ([]models.MembershipPayment, error) {
	payments := []models.MembershipPayment{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Order("created_at DESC").Order("id DESC").Find(&payments).Error
	})
	if err != nil {
		return degrade("membership.all", []models.MembershipPayment{}, err)
	}
	return payments, nil
}

// Overview lists every player (optionally of one category) with their fee
// status for the month. Players without a row are reported as unpaid.
func (s *MembershipService) Overview(ctx context.Context, year, month int, category *models.Category) ([]models.PaymentOverview, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	overview := []models.PaymentOverview{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		q := db.Table("players").
			Select("players.id AS player_id, players.name AS name, players.category AS category, "+
				"COALESCE(membership_payments.paid, 0) AS paid, membership_payments.amount AS amount, membership_payments.paid_at AS paid_at").
			Joins("LEFT JOIN membership_payments ON membership_payments.player_id = players.id "+
				"AND membership_payments.year = ? AND membership_payments.month = ?", year, month)
		if category != nil {
			q = q.Where("players.category = ?", *category).Order("players.name")
		} else {
			q = q.Order(categoryOrder("players.category")).Order("players.name")
		}
		return q.Scan(&overview).Error
	})
	if err != nil {
		return degrade("membership.overview", []models.PaymentOverview{}, err)
	}
	return overview, nil
}
