package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/users-service/internal/middleware"
	"github.com/deppfellow/users-service/internal/model"
	"github.com/deppfellow/users-service/internal/server"
	"github.com/deppfellow/users-service/internal/service"
)

// HealthHandler serves the liveness ping, the database probe and the
// aggregated /status report.
type HealthHandler struct {
	Handler
	healthService *service.HealthService
}

func NewHealthHandler(s *server.Server, healthService *service.HealthService) *HealthHandler {
	return &HealthHandler{
		Handler:       NewHandler(s),
		healthService: healthService,
	}
}

// Ping answers the JSON string "Pong" without touching any dependency.
func (h *HealthHandler) Ping(c echo.Context, _ *model.EmptyRequest) (string, error) {
	return "Pong", nil
}

// TestDatabase runs a transactional SELECT 1. Failures answer 500 with a
// {"detail": ...} body.
func (h *HealthHandler) TestDatabase(c echo.Context) error {
	logger := middleware.GetLogger(c)

	if err := h.healthService.CheckDatabase(c.Request().Context()); err != nil {
		logger.Error().Err(err).Msg("database connectivity probe failed")
		h.recordHealthCheckError("database", "database_probe_failed", err, 0)

		return c.JSON(http.StatusInternalServerError, map[string]string{
			"detail": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, model.DatabaseStatusResponse{
		Status:  "success",
		Message: model.MsgDatabaseReady,
	})
}

// CheckHealth reports every configured dependency check.
//
// It returns 200 when all checks pass and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	healthCfg := h.server.Config.Observability.HealthChecks
	if healthCfg.Enabled && slices.Contains(healthCfg.Checks, "database") {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCfg.Timeout)
		defer cancel()

		dbStart := time.Now()

		if err := h.healthService.Ping(ctx); err != nil {
			checks["database"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(dbStart).String(),
				"error":         err.Error(),
			}
			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check failed")

			h.recordHealthCheckError("database", "database_unhealthy", err, time.Since(dbStart))
		} else {
			checks["database"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(dbStart).String(),
			}

			logger.Debug().
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		h.recordHealthCheckError("response", "json_response_error", err, time.Since(start))
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) recordHealthCheckError(checkType, errorType string, err error, elapsed time.Duration) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       checkType,
		"operation":        "health_check",
		"error_type":       errorType,
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
