package models

import "time"

type Training struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Date     time.Time `gorm:"not null;index" json:"date"`
	Category Category  `gorm:"size:10;not null;index" json:"category"`
	Location *string   `gorm:"size:255" json:"location"`
	Notes    *string   `gorm:"type:text" json:"notes"`
	// CreatedByID is a trainer id or a site user id depending on CreatedByKind.
	CreatedByID   uint      `gorm:"not null" json:"createdById"`
	CreatedByKind string    `gorm:"size:10;not null;default:'trainer'" json:"createdByKind"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
