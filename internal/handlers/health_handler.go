package handlers

import (
	"context"
	"time"

	"github.com/cfkpezinok/club-backend/internal/database"
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Register(r *rpc.Router) {
	rpc.Query(r, "system.health", rpc.Public, func(call *rpc.Call, _ noInput) (dto.HealthResponse, error) {
		return h.status(call.Ctx), nil
	})
}

// Check serves the plain health endpoint used by the load balancer.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(h.status(c.UserContext()))
}

func (h *HealthHandler) status(ctx context.Context) dto.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if err := database.Ping(ctx, h.db); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	}
}
