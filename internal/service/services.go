package service

import (
	"github.com/deppfellow/users-service/internal/lib/photo"
	"github.com/deppfellow/users-service/internal/repository"
	"github.com/deppfellow/users-service/internal/server"
)

// Services groups the business layer handed to the handlers.
type Services struct {
	User   *UserService
	Health *HealthService
}

// NewService wires every service against the server's shared resources.
func NewService(s *server.Server, repos *repository.Repositories, photos photo.Fetcher) (*Services, error) {
	return &Services{
		User:   NewUserService(s, repos, photos),
		Health: NewHealthService(s),
	}, nil
}
