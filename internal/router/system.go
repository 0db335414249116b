package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/users-service/internal/handler"
	"github.com/deppfellow/users-service/internal/model"
)

// registerSystemRoutes registers the endpoints that are not part of the
// users resource: probes, the status report and the API docs.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	health := r.Group("/health")
	health.GET("/ping", handler.Handle(
		h.Health.Handler,
		h.Health.Ping,
		http.StatusOK,
		handler.NewRequest[model.EmptyRequest],
	))
	health.GET("/test-database", h.Health.TestDatabase)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	r.GET("/docs/openapi.json", handler.HandleFile(
		h.OpenAPI.Handler,
		h.OpenAPI.OpenAPISpec,
		http.StatusOK,
		handler.NewRequest[model.EmptyRequest],
		"openapi.json",
		echo.MIMEApplicationJSON,
		true,
	))
}
