package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// SeedUser is one row of the initial dataset.
type SeedUser struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

// SeedUsers is inserted into an empty users table on startup.
var SeedUsers = []SeedUser{
	{FirstName: "Alex", LastName: "Taylor", Email: "alex.taylor@example.com", PhoneNumber: "1234567890"},
	{FirstName: "Jordan", LastName: "Lee", Email: "jordan.lee@example.com", PhoneNumber: "0987654321"},
	{FirstName: "Casey", LastName: "Morgan", Email: "casey.morgan@example.com", PhoneNumber: "1122334455"},
	{FirstName: "Taylor", LastName: "Parker", Email: "taylor.parker@example.com", PhoneNumber: "2233445566"},
	{FirstName: "Morgan", LastName: "Reed", Email: "morgan.reed@example.com", PhoneNumber: "3344556677"},
	{FirstName: "Riley", LastName: "Adams", Email: "riley.adams@example.com", PhoneNumber: "4455667788"},
	{FirstName: "Cameron", LastName: "Blake", Email: "cameron.blake@example.com", PhoneNumber: "5566778899"},
	{FirstName: "Quinn", LastName: "Hayes", Email: "quinn.hayes@example.com", PhoneNumber: "6677889900"},
}

const (
	seedCountSQL  = `SELECT COUNT(*) FROM users`
	seedInsertSQL = `INSERT INTO users (first_name, last_name, email, phone_number) VALUES ($1, $2, $3, $4)`
)

// Seed fills an empty users table with SeedUsers in a single transaction.
//
// A table that already holds rows is left untouched. On failure the
// transaction is rolled back and the error returned; callers treat it as
// non-fatal.
func Seed(ctx context.Context, acq Acquirer, logger *zerolog.Logger) error {
	return acq.WithConn(ctx, func(conn Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("failed to start seed transaction")
			return fmt.Errorf("begin seed transaction: %w", err)
		}

		inserted, err := seedTx(ctx, tx)
		if err != nil {
			logger.Error().Err(err).Msg("error seeding data")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error().Err(rbErr).Msg("failed to roll back seed transaction")
			}
			return err
		}

		if !inserted {
			logger.Info().Msg("users table already has data, skipping seed")
			return tx.Rollback(ctx)
		}

		if err := tx.Commit(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to commit seed transaction")
			return fmt.Errorf("commit seed transaction: %w", err)
		}

		logger.Info().Int("count", len(SeedUsers)).Msg("seeded users table")
		return nil
	})
}

func seedTx(ctx context.Context, tx pgx.Tx) (bool, error) {
	var count int64
	if err := tx.QueryRow(ctx, seedCountSQL).Scan(&count); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}

	if count > 0 {
		return false, nil
	}

	for _, u := range SeedUsers {
		if _, err := tx.Exec(ctx, seedInsertSQL, u.FirstName, u.LastName, u.Email, u.PhoneNumber); err != nil {
			return false, fmt.Errorf("insert seed user %s: %w", u.Email, err)
		}
	}

	return true, nil
}
