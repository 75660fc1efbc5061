package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"modulmate/internal/editor/service"
)

// ============================================================
// Health Check Handlers
// ============================================================

type HealthHandler struct {
	db      *sql.DB
	storage service.Storage
	started time.Time
}

func NewHealthHandler(db *sql.DB, storage service.Storage) *HealthHandler {
	return &HealthHandler{db: db, storage: storage, started: time.Now()}
}

func (h *HealthHandler) Routes(r fiber.Router) {
	r.Get("/health/live", h.LivenessProbe)
	r.Get("/health/ready", h.ReadinessProbe)
	r.Get("/health/startup", h.StartupProbe)
}

// LivenessProbe проверяет, что приложение работает
func (h *HealthHandler) LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет базу проектов и хранилище снимков.
func (h *HealthHandler) ReadinessProbe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "error": "db: " + err.Error()})
	}
	if _, err := h.storage.List(ctx, "health/"); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "error": "storage: " + err.Error()})
	}
	return c.JSON(fiber.Map{
		"status":  "ready",
		"storage": h.storage.Driver(),
	})
}

// StartupProbe проверяет, что приложение успешно запустилось
func (h *HealthHandler) StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
