package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageTimeout     = errors.New("storage did not respond in time")

	ErrPlayerNotFound   = fmt.Errorf("player %w", ErrNotFound)
	ErrTrainingNotFound = fmt.Errorf("training %w", ErrNotFound)
	ErrNewsNotFound     = fmt.Errorf("news item %w", ErrNotFound)
	ErrGalleryNotFound  = fmt.Errorf("gallery item %w", ErrNotFound)
	ErrTrainerNotFound  = fmt.Errorf("trainer %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	// ErrInvalidCredentials is returned for both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUsernameTaken      = fmt.Errorf("username %w", ErrConflict)
	ErrEmailTaken         = fmt.Errorf("email %w", ErrConflict)
)

// nonBlank trims v and rejects it when nothing is left.
func nonBlank(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s must not be blank", ErrInvalidInput, field)
	}
	return v, nil
}
