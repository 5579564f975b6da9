package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/cfkpezinok/club-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup deletes system logs older than retentionDays, once at start and then daily,
// until done is closed.
func StartCleanup(db *gorm.DB, retentionDays int, done <-chan struct{}) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		deleted, err := PurgeBefore(ctx, db, time.Now().AddDate(0, 0, -retentionDays))
		if err != nil {
			slog.Warn("log cleanup failed", "error", err)
		} else if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	}

	go func() {
		run()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				run()
			case <-done:
				return
			}
		}
	}()
}

// PurgeBefore removes system logs recorded before cutoff.
func PurgeBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("timestamp < ?", cutoff.UTC()).Delete(&models.SystemLog{})
	return res.RowsAffected, res.Error
}
