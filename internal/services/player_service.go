package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cfkpezinok/club-backend/internal/models"
	"gorm.io/gorm"
)

type CreatePlayerInput struct {
	Name        string
	DateOfBirth *time.Time
	Category    models.Category
	Position    *string
}

// UpdatePlayerInput carries a partial update; nil fields are left untouched.
type UpdatePlayerInput struct {
	Name        *string
	DateOfBirth *time.Time
	Category    *models.Category
	Position    *string
}

type PlayerService struct {
	store *Storage
}

func NewPlayerService(store *Storage) *PlayerService {
	return &PlayerService{store: store}
}

func (s *PlayerService) Create(ctx context.Context, in CreatePlayerInput) (*models.Player, error) {
	name, err := nonBlank("name", in.Name)
	if err != nil {
		return nil, err
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}

	player := models.Player{
		Name:        name,
		DateOfBirth: in.DateOfBirth,
		Category:    in.Category,
		Position:    in.Position,
	}
	if err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Create(&player).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return &player, nil
}

// List returns the players of one category ordered by name, or every player
// ordered by category (youngest first) and name.
func (s *PlayerService) List(ctx context.Context, category *models.Category) ([]models.Player, error) {
	players := []models.Player{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		q := db.Model(&models.Player{})
		if category != nil {
			q = q.Where("category = ?", *category).Order("name")
		} else {
			q = q.Order(categoryOrder("category")).Order("name")
		}
		return q.Find(&players).Error
	})
	if err != nil {
		return degrade("players.list", []models.Player{}, err)
	}
	return players, nil
}

func (s *PlayerService) Get(ctx context.Context, id uint) (*models.Player, error) {
	var player models.Player
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return notFound(db.First(&player, id).Error, ErrPlayerNotFound)
	})
	if err != nil {
		if _, derr := degrade("players.get", (*models.Player)(nil), err); derr == nil {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (s *PlayerService) Update(ctx context.Context, id uint, in UpdatePlayerInput) error {
	updates := map[string]interface{}{}
	if in.Name != nil {
		name, err := nonBlank("name", *in.Name)
		if err != nil {
			return err
		}
		updates["name"] = name
	}
	if in.DateOfBirth != nil {
		updates["date_of_birth"] = *in.DateOfBirth
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *in.Category)
		}
		updates["category"] = *in.Category
	}
	if in.Position != nil {
		updates["position"] = *in.Position
	}

	return s.store.transaction(ctx, func(tx *gorm.DB) error {
		var player models.Player
		if err := tx.First(&player, id).Error; err != nil {
			return notFound(err, ErrPlayerNotFound)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&player).Updates(updates).Error
	})
}

// Delete removes the player together with its attendance marks and membership payments.
func (s *PlayerService) Delete(ctx context.Context, id uint) error {
	return s.store.transaction(ctx, func(tx *gorm.DB) error {
		if err := exists(tx, &models.Player{}, id, ErrPlayerNotFound); err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", id).Delete(&models.MembershipPayment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Player{}, id).Error
	})
}

// categoryOrder sorts by the position of column in models.TeamCategories.
func categoryOrder(column string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for i, c := range models.TeamCategories {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", c, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(models.TeamCategories))
	return b.String()
}
