package handlers

import (
	"time"

	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/rpc"
)

// Module is a group of procedures registered together.
type Module interface {
	Register(r *rpc.Router)
}

type idInput struct {
	ID uint `json:"id" validate:"required"`
}

type noInput struct{}

func success(id uint) dto.SuccessResponse {
	return dto.SuccessResponse{Success: true, ID: id}
}

// optionalDate parses an already validated date field.
func optionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, _, err := rpc.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalCategory(s *string) *models.Category {
	if s == nil || *s == "" {
		return nil
	}
	c := models.Category(*s)
	return &c
}
