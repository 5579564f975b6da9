package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cfkpezinok/club-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrainerPasswordCost is the bcrypt work factor for trainer passwords.
const TrainerPasswordCost = 10

type TrainerSeed struct {
	Username string
	FullName string
}

// DefaultTrainers are the accounts created on first start.
var DefaultTrainers = []TrainerSeed{
	{Username: "Siandorj", FullName: "Šiandor Jozef"},
	{Username: "Cajkovicm", FullName: "Čajkovič Milan"},
	{Username: "Hupkas", FullName: "Hupka Stanislav"},
	{Username: "Jedinakp", FullName: "Jedinák Peter"},
}

// dummyHash is compared against when the username is unknown so both login
// failures cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("club-backend-dummy"), TrainerPasswordCost)

type TrainerService struct {
	store *Storage
}

func NewTrainerService(store *Storage) *TrainerService {
	return &TrainerService{store: store}
}

// InitializeTrainers inserts every seed whose username does not exist yet.
// Existing trainers, and passwords they have changed, are left alone.
func (s *TrainerService) InitializeTrainers(ctx context.Context, seeds []TrainerSeed, initialPassword string) (int64, error) {
	if len(seeds) == 0 {
		return 0, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(initialPassword), TrainerPasswordCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash initial password: %w", err)
	}

	trainers := make([]models.Trainer, 0, len(seeds))
	for _, seed := range seeds {
		trainers = append(trainers, models.Trainer{
			Username:     seed.Username,
			FullName:     seed.FullName,
			PasswordHash: string(hash),
		})
	}

	var created int64
	err = s.store.run(ctx, func(db *gorm.DB) error {
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoNothing: true,
		}).Create(&trainers)
		created = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed trainers: %w", err)
	}
	if created > 0 {
		slog.Info("trainers initialized", "created", created)
	}
	return created, nil
}

// Login verifies a username/password pair. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials.
func (s *TrainerService) Login(ctx context.Context, username, password string) (*models.Trainer, error) {
	var trainer models.Trainer
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Where("username = ?", username).First(&trainer).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(trainer.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &trainer, nil
}

// ChangePassword replaces the trainer's hash after re-verifying the current password.
// The write only applies if the hash is still the one that was verified.
func (s *TrainerService) ChangePassword(ctx context.Context, trainerID uint, currentPassword, newPassword string) error {
	trainer, err := s.Get(ctx, trainerID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(trainer.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), TrainerPasswordCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.run(ctx, func(db *gorm.DB) error {
		res := db.Model(&models.Trainer{}).
			Where("id = ? AND password_hash = ?", trainer.ID, trainer.PasswordHash).
			Update("password_hash", string(hash))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrWrongPassword
		}
		return nil
	})
}

func (s *TrainerService) Get(ctx context.Context, id uint) (*models.Trainer, error) {
	var trainer models.Trainer
	if err := s.store.run(ctx, func(db *gorm.DB) error {
		return notFound(db.First(&trainer, id).Error, ErrTrainerNotFound)
	}); err != nil {
		return nil, err
	}
	return &trainer, nil
}

func (s *TrainerService) List(ctx context.Context) ([]models.Trainer, error) {
	trainers := []models.Trainer{}
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Order("full_name").Find(&trainers).Error
	})
	if err != nil {
		return degrade("trainers.list", []models.Trainer{}, err)
	}
	return trainers, nil
}

func (s *TrainerService) Create(ctx context.Context, username, fullName, password string) (*models.Trainer, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 6 {
		return nil, fmt.Errorf("%w: username required and password must be at least 6 characters", ErrInvalidInput)
	}
	fullName, err := nonBlank("fullName", fullName)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), TrainerPasswordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	trainer := models.Trainer{
		Username:     username,
		FullName:     fullName,
		PasswordHash: string(hash),
	}
	if err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Create(&trainer).Error
	}); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create trainer: %w", err)
	}
	return &trainer, nil
}
