package services

import (
	"context"
	"fmt"

	"github.com/cfkpezinok/club-backend/internal/models"
	"gorm.io/gorm"
)

type CreateGalleryInput struct {
	Title        *string
	ImageURL     string
	ImageKey     string
	Category       *models.Category
	UploadedByID   uint
	UploadedByKind string
}

type GalleryService struct {
	store *Storage
}

func NewGalleryService(store *Storage) *GalleryService {
	return &GalleryService{store: store}
}

func (s *GalleryService) Create(ctx context.Context, in CreateGalleryInput) (*models.Gallery, error) {
	if in.Category != nil && !in.Category.ValidForGallery() {
		return nil, fmt.Errorf("%w: unknown gallery category %q", ErrInvalidInput, *in.Category)
	}
	if in.ImageURL == "" {
		return nil, fmt.Errorf("%w: image url is required", ErrInvalidInput)
	}

	// Photos added by pasting a link have no separate storage key.
	key := in.ImageKey
	if key == "" {
		key = in.ImageURL
	}

	item := models.Gallery{
		Title:          in.Title,
		ImageURL:       in.ImageURL,
		ImageKey:       key,
		Category:       in.Category,
		UploadedByID:   in.UploadedByID,
		UploadedByKind: in.UploadedByKind,
	}
	if err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Create(&item).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to create gallery item: %w", err)
	}
	return &item, nil
}

// List returns photos newest first, optionally restricted to one category.
func (s *GalleryService) List(ctx context.Context, category *models.Category) ([]models.Gallery, error) {
	items := []models.Gallery{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		q := db.Model(&models.Gallery{})
		if category != nil {
			q = q.Where("category = ?", *category)
		}
		return q.Order("created_at DESC").Order("id DESC").Find(&items).Error
	})
	if err != nil {
		return degrade("gallery.list", []models.Gallery{}, err)
	}
	return items, nil
}

func (s *GalleryService) Delete(ctx context.Context, id uint) error {
	return s.store.run(ctx, func(db *gorm.DB) error {
		res := db.Delete(&models.Gallery{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrGalleryNotFound
		}
		return nil
	})
}
