package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"utilityapi/internal/cache"
	"utilityapi/internal/logger"
)

// StatusHandler reports dependency health.
type StatusHandler struct {
	db    *gorm.DB
	cache *cache.Client
	log   *logger.Logger
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(db *gorm.DB, cache *cache.Client, log *logger.Logger) *StatusHandler {
	return &StatusHandler{db: db, cache: cache, log: log}
}

// HealthDetails holds per-dependency results.
type HealthDetails struct {
	Database  bool   `json:"database"`
	Redis     bool   `json:"redis"`
	APIStatus string `json:"api_status"`
}

// HealthResponse is the health check body, returned for 200 and 503 alike.
type HealthResponse struct {
	Message string        `json:"message"`
	Details HealthDetails `json:"details"`
}

// Health godoc
// @Summary Health check of critical services (database and Redis)
// @Tags monitoring
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /status/health [get]
func (h *StatusHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	details := HealthDetails{APIStatus: "UP"}

	if err := h.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		h.log.Error().Err(err).Msg("database health check failed")
	} else {
		details.Database = true
	}

	if err := h.cache.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("redis health check failed")
	} else {
		details.Redis = true
	}

	if !details.Database || !details.Redis {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Message: "Critical services offline",
			Details: details,
		})
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Message: "All critical services running",
		Details: details,
	})
}
