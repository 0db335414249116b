package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/users-service/internal/database"
	"github.com/deppfellow/users-service/internal/server"
)

// HealthService probes the service's dependencies.
type HealthService struct {
	db database.Acquirer
}

func NewHealthService(s *server.Server) *HealthService {
	return &HealthService{db: s.DB}
}

// CheckDatabase runs SELECT 1 in a transaction on a scoped connection. The
// transaction is committed on success and rolled back otherwise.
func (s *HealthService) CheckDatabase(ctx context.Context) error {
	return s.db.WithConn(ctx, func(conn database.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}

		if _, err := tx.Exec(ctx, "SELECT 1"); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("select 1: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
}

// Ping checks the database without a transaction, used by /status.
func (s *HealthService) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
