package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cfkpezinok/club-backend/internal/models"
	"gorm.io/gorm"
)

type CreateTrainingInput struct {
	Date          time.Time
	Category      models.Category
	Location      *string
	Notes         *string
	CreatedByID   uint
	CreatedByKind string
}

type UpdateTrainingInput struct {
	Date     *time.Time
	Category *models.Category
	Location *string
	Notes    *string
}

type TrainingService struct {
	store *Storage
}

func NewTrainingService(store *Storage) *TrainingService {
	return &TrainingService{store: store}
}

func (s *TrainingService) Create(ctx context.Context, in CreateTrainingInput) (*models.Training, error) {
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	if in.CreatedByID == 0 {
		return nil, fmt.Errorf("%w: training creator is required", ErrInvalidInput)
	}

	training := models.Training{
		Date:          in.Date.UTC(),
		Category:      in.Category,
		Location:      in.Location,
		Notes:         in.Notes,
		CreatedByID:   in.CreatedByID,
		CreatedByKind: in.CreatedByKind,
	}
	if err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Create(&training).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to create training: %w", err)
	}
	return &training, nil
}

// List returns trainings newest first, optionally for a single category.
func (s *TrainingService) List(ctx context.Context, category *models.Category) ([]models.Training, error) {
	trainings := []models.Training{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		q := db.Model(&models.Training{})
		if category != nil {
			q = q.Where("category = ?", *category)
		}
		return q.Order("date DESC").Find(&trainings).Error
	})
	if err != nil {
		return degrade("trainings.list", []models.Training{}, err)
	}
	return trainings, nil
}

func (s *TrainingService) Get(ctx context.Context, id uint) (*models.Training, error) {
	var training models.Training
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return notFound(db.First(&training, id).Error, ErrTrainingNotFound)
	})
	if err != nil {
		if _, derr := degrade("trainings.get", (*models.Training)(nil), err); derr == nil {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	return &training, nil
}

func (s *TrainingService) Update(ctx context.Context, id uint, in UpdateTrainingInput) error {
	updates := map[string]interface{}{}
	if in.Date != nil {
		updates["date"] = in.Date.UTC()
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *in.Category)
		}
		updates["category"] = *in.Category
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}

	return s.store.transaction(ctx, func(tx *gorm.DB) error {
		var training models.Training
		if err := tx.First(&training, id).Error; err != nil {
			return notFound(err, ErrTrainingNotFound)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&training).Updates(updates).Error
	})
}

// Delete removes the training and its attendance marks.
func (s *TrainingService) Delete(ctx context.Context, id uint) error {
	return s.store.transaction(ctx, func(tx *gorm.DB) error {
		if err := exists(tx, &models.Training{}, id, ErrTrainingNotFound); err != nil {
			return err
		}
		if err := tx.Where("training_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Training{}, id).Error
	})
}
