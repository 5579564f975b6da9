package models

import "time"

type Gallery struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        *string   `gorm:"size:500" json:"title"`
	ImageURL     string    `gorm:"type:text;not null" json:"imageUrl"`
	ImageKey     string    `gorm:"type:text;not null" json:"imageKey"`
	Category     *Category `gorm:"size:10;index" json:"category"`
	// UploadedByID is a trainer id or a site user id depending on UploadedByKind.
	UploadedByID   uint      `gorm:"not null" json:"uploadedById"`
	UploadedByKind string    `gorm:"size:10;not null;default:'trainer'" json:"uploadedByKind"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (Gallery) TableName() string {
	return "gallery"
}
