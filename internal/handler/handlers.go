package handler

import (
	"github.com/deppfellow/users-service/internal/server"
	"github.com/deppfellow/users-service/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health  *HealthHandler
	User    *UserHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s, services.Health),
		User:    NewUserHandler(s, services.User),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
