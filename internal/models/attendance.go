package models

import "time"

// Attendance marks whether a player was present at a training.
// At most one row exists per (training, player).
type Attendance struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TrainingID uint      `gorm:"not null;uniqueIndex:idx_attendance_training_player,priority:1" json:"trainingId"`
	PlayerID   uint      `gorm:"not null;index;uniqueIndex:idx_attendance_training_player,priority:2" json:"playerId"`
	Present    bool      `gorm:"not null;default:false" json:"present"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Attendance) TableName() string {
	return "attendance"
}

// AttendanceStats is the aggregate returned for a player.
type AttendanceStats struct {
	Total      int64 `json:"total"`
	Present    int64 `json:"present"`
	Percentage int   `json:"percentage"`
}

// PlayerAttendance is one row of a category attendance summary.
type PlayerAttendance struct {
	PlayerID uint   `json:"playerId"`
	Name     string `json:"name"`
	AttendanceStats
}
