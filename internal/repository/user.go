package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/users-service/internal/database"
	"github.com/deppfellow/users-service/internal/model"
)

// ErrUserNotFound is returned when no row has the requested id.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, first_name, last_name, email, phone_number, profile_photo`

// UserRepository runs users queries on one connection. Each method is a
// single statement and commits on its own.
type UserRepository struct {
	conn database.Conn
}

func NewUserRepository(conn database.Conn) *UserRepository {
	return &UserRepository{conn: conn}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.ProfilePhoto); err != nil {
		return nil, err
	}
	if len(u.ProfilePhoto) == 0 {
		u.ProfilePhoto = nil
	}
	return &u, nil
}

// Create inserts a user and returns the stored row with its generated id.
// photo may be nil.
func (r *UserRepository) Create(ctx context.Context, fields model.UserFields, photo []byte) (*model.User, error) {
	const q = `
INSERT INTO users (first_name, last_name, email, phone_number, profile_photo)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns

	if len(photo) == 0 {
		photo = nil
	}

	row := r.conn.QueryRow(ctx, q, fields.FirstName, fields.LastName, fields.Email, fields.PhoneNumber, photo)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetByID returns the user with id, or ErrUserNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.conn.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// GetAll returns up to limit users ordered by id, skipping the first
// offset rows.
func (r *UserRepository) GetAll(ctx context.Context, limit int, offset int64) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id ASC LIMIT $1 OFFSET $2`

	rows, err := r.conn.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// GetTotalCount returns the number of stored users.
func (r *UserRepository) GetTotalCount(ctx context.Context) (int64, error) {
	var total int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

// Update overwrites the editable fields of user id and returns the stored
// row. id and profile_photo are left untouched.
func (r *UserRepository) Update(ctx context.Context, id int64, fields model.UserFields) (*model.User, error) {
	const q = `
UPDATE users
SET first_name = $1, last_name = $2, email = $3, phone_number = $4
WHERE id = $5
RETURNING ` + userColumns

	u, err := scanUser(r.conn.QueryRow(ctx, q, fields.FirstName, fields.LastName, fields.Email, fields.PhoneNumber, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

// Delete removes user id. A missing id is ErrUserNotFound.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
