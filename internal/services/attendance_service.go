package services

import (
	"context"
	"math"
	"time"

	"github.com/cfkpezinok/club-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const presentSum = "COALESCE(SUM(CASE WHEN attendance.present THEN 1 ELSE 0 END), 0)"

// DateRange bounds a statistic by training date. Either end may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) empty() bool {
	return r.From == nil && r.To == nil
}

// trainingFilter returns the SQL condition on trainings.date for the range.
func (r DateRange) trainingFilter() (string, []interface{}) {
	switch {
	case r.From != nil && r.To != nil:
		return "trainings.date >= ? AND trainings.date <= ?", []interface{}{r.From.UTC(), r.To.UTC()}
	case r.From != nil:
		return "trainings.date >= ?", []interface{}{r.From.UTC()}
	case r.To != nil:
		return "trainings.date <= ?", []interface{}{r.To.UTC()}
	}
	return "", nil
}

type AttendanceService struct {
	store *Storage
}

func NewAttendanceService(store *Storage) *AttendanceService {
	return &AttendanceService{store: store}
}

// Mark records whether a player attended a training. Repeated and concurrent
// calls for the same pair converge on a single row holding the last value.
// The row is written by one upsert on the unique (training_id, player_id) index.
func (s *AttendanceService) Mark(ctx context.Context, trainingID, playerID uint, present bool) error {
	return s.store.run(ctx, func(db *gorm.DB) error {
		if err := exists(db, &models.Training{}, trainingID, ErrTrainingNotFound); err != nil {
			return err
		}
		if err := exists(db, &models.Player{}, playerID, ErrPlayerNotFound); err != nil {
			return err
		}

		mark := models.Attendance{
			TrainingID: trainingID,
			PlayerID:   playerID,
			Present:    present,
		}
		return db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "training_id"}, {Name: "player_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"present":    present,
				"updated_at": time.Now(),
			}),
		}).Create(&mark).Error
	})
}

func (s *AttendanceService) ByTraining(ctx context.Context, trainingID uint) ([]models.Attendance, error) {
	marks := []models.Attendance{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Where("training_id = ?", trainingID).Order("id").Find(&marks).Error
	})
	if err != nil {
		return degrade("attendance.byTraining", []models.Attendance{}, err)
	}
	return marks, nil
}

func (s *AttendanceService) ByPlayer(ctx context.Context, playerID uint) ([]models.Attendance, error) {
	marks := []models.Attendance{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Where("player_id = ?", playerID).Order("id").Find(&marks).Error
	})
	if err != nil {
		return degrade("attendance.byPlayer", []models.Attendance{}, err)
	}
	return marks, nil
}

// Stats aggregates a player's attendance, restricted to trainings inside period.
func (s *AttendanceService) Stats(ctx context.Context, playerID uint, period DateRange) (models.AttendanceStats, error) {
	var row struct {
		Total   int64
		Present int64
	}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		q := db.Model(&models.Attendance{}).
			Select("COUNT(*) AS total, "+presentSum+" AS present").
			Where("attendance.player_id = ?", playerID)
		if !period.empty() {
			cond, args := period.trainingFilter()
			q = q.Joins("JOIN trainings ON trainings.id = attendance.training_id").Where(cond, args...)
		}
		return q.Scan(&row).Error
	})
	if err != nil {
		return degrade("attendance.stats", models.AttendanceStats{}, err)
	}
	return newStats(row.Total, row.Present), nil
}

// Summary returns attendance stats for every player of category, ordered by name.
// Players without any marks are included with zero totals.
func (s *AttendanceService) Summary(ctx context.Context, category models.Category, period DateRange) ([]models.PlayerAttendance, error) {
	var rows []struct {
		PlayerID uint
		Name     string
		Total    int64
		Present  int64
	}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		join := "LEFT JOIN attendance ON attendance.player_id = players.id"
		var args []interface{}
		if !period.empty() {
			cond, condArgs := period.trainingFilter()
			join += " AND attendance.training_id IN (SELECT trainings.id FROM trainings WHERE " + cond + ")"
			args = condArgs
		}
		return db.Table("players").
			Select("players.id AS player_id, players.name AS name, COUNT(attendance.id) AS total, "+presentSum+" AS present").
			Joins(join, args...).
			Where("players.category = ?", category).
			Group("players.id, players.name").
			Order("players.name").
			Scan(&rows).Error
	})
	if err != nil {
		return degrade("attendance.summary", []models.PlayerAttendance{}, err)
	}

	summary := make([]models.PlayerAttendance, 0, len(rows))
	for _, r := range rows {
		summary = append(summary, models.PlayerAttendance{
			PlayerID:        r.PlayerID,
			Name:            r.Name,
			AttendanceStats: newStats(r.Total, r.Present),
		})
	}
	return summary, nil
}

func newStats(total, present int64) models.AttendanceStats {
	stats := models.AttendanceStats{Total: total, Present: present}
	if total > 0 {
		stats.Percentage = int(math.Round(float64(present) / float64(total) * 100))
	}
	return stats
}
