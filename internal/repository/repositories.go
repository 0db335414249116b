package repository

import (
	"github.com/deppfellow/users-service/internal/database"
)

// Repositories is a container of repository constructors.
//
// Each field builds a repository bound to the connection the caller
// currently holds.
type Repositories struct {
	Users func(conn database.Conn) *UserRepository
}

// NewRepositories constructs the repository container.
func NewRepositories() *Repositories {
	return &Repositories{
		Users: NewUserRepository,
	}
}
