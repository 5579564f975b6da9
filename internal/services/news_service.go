package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cfkpezinok/club-backend/internal/models"
	"gorm.io/gorm"
)

const maxNewsLimit = 100

type CreateNewsInput struct {
	Title     string
	Content   string
	ImageURL  *string
	AuthorID   uint
	AuthorKind string
	Published  bool
}

type UpdateNewsInput struct {
	Title     *string
	Content   *string
	ImageURL  *string
	Published *bool
}

type NewsService struct {
	store *Storage
}

func NewNewsService(store *Storage) *NewsService {
	return &NewsService{store: store}
}

func (s *NewsService) Create(ctx context.Context, in CreateNewsInput) (*models.News, error) {
	title, err := nonBlank("title", in.Title)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: content must not be blank", ErrInvalidInput)
	}

	item := models.News{
		Title:      title,
		Content:    in.Content,
		ImageURL:   in.ImageURL,
		AuthorID:   in.AuthorID,
		AuthorKind: in.AuthorKind,
		Published:  in.Published,
	}
	if err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Create(&item).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to create news: %w", err)
	}
	return &item, nil
}

// ListPublished returns published items newest first. A limit of zero returns
// all of them; a positive limit is capped at maxNewsLimit.
func (s *NewsService) ListPublished(ctx context.Context, limit int) ([]models.News, error) {
	if limit > maxNewsLimit {
		limit = maxNewsLimit
	}

	items := []models.News{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		q := db.Where("published = ?", true).Order("created_at DESC").Order("id DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&items).Error
	})
	if err != nil {
		return degrade("news.listPublished", []models.News{}, err)
	}
	return items, nil
}

func (s *NewsService) ListAll(ctx context.Context) ([]models.News, error) {
	items := []models.News{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Order("created_at DESC").Order("id DESC").Find(&items).Error
	})
	if err != nil {
		return degrade("news.listAll", []models.News{}, err)
	}
	return items, nil
}

func (s *NewsService) Get(ctx context.Context, id uint) (*models.News, error) {
	var item models.News
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return notFound(db.First(&item, id).Error, ErrNewsNotFound)
	})
	if err != nil {
		if _, derr := degrade("news.get", (*models.News)(nil), err); derr == nil {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *NewsService) Update(ctx context.Context, id uint, in UpdateNewsInput) error {
	updates := map[string]interface{}{}
	if in.Title != nil {
		title, err := nonBlank("title", *in.Title)
		if err != nil {
			return err
		}
		updates["title"] = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return fmt.Errorf("%w: content must not be blank", ErrInvalidInput)
		}
		updates["content"] = *in.Content
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.Published != nil {
		updates["published"] = *in.Published
	}

	return s.store.transaction(ctx, func(tx *gorm.DB) error {
		var item models.News
		if err := tx.First(&item, id).Error; err != nil {
			return notFound(err, ErrNewsNotFound)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&item).Updates(updates).Error
	})
}

func (s *NewsService) Delete(ctx context.Context, id uint) error {
	return s.store.run(ctx, func(db *gorm.DB) error {
		res := db.Delete(&models.News{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNewsNotFound
		}
		return nil
	})
}
