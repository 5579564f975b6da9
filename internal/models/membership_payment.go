package models

import "time"

// MembershipPayment tracks the monthly fee of one player.
// Paid is stored as 1/0; PaidAt is set only while Paid is 1.
type MembershipPayment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	PlayerID  uint       `gorm:"not null;uniqueIndex:idx_membership_player_period,priority:1" json:"playerId"`
	Year      int        `gorm:"not null;uniqueIndex:idx_membership_player_period,priority:2;index:idx_membership_period,priority:1" json:"year"`
	Month     int        `gorm:"not null;uniqueIndex:idx_membership_player_period,priority:3;index:idx_membership_period,priority:2" json:"month"`
	Paid      int        `gorm:"not null;default:0" json:"paid"`
	Amount    *float64   `gorm:"type:numeric(10,2)" json:"amount"`
	PaidAt    *time.Time `json:"paidAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// PaymentOverview is one player's fee status for a month.
type PaymentOverview struct {
	PlayerID uint       `json:"playerId"`
	Name     string     `json:"name"`
	Category Category   `json:"category"`
	Paid     int        `json:"paid"`
	Amount   *float64   `json:"amount"`
	PaidAt   *time.Time `json:"paidAt"`
}
