package models

import "time"

type Player struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Category    Category   `gorm:"size:10;not null;index" json:"category"`
	Position    *string    `gorm:"size:100" json:"position"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
