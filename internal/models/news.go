package models

import "time"

type News struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Title    string  `gorm:"size:500;not null" json:"title"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	ImageURL *string `gorm:"type:text" json:"imageUrl"`
	// AuthorID is a trainer id or a site user id depending on AuthorKind.
	AuthorID   uint      `gorm:"not null" json:"authorId"`
	AuthorKind string    `gorm:"size:10;not null;default:'trainer'" json:"authorKind"`
	Published  bool      `gorm:"not null;default:false;index" json:"published"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
