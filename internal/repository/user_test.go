package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/users-service/internal/database/databasetest"
	"github.com/deppfellow/users-service/internal/lib/utils"
	"github.com/deppfellow/users-service/internal/model"
)

func newMockRepo(t *testing.T) (*UserRepository, pgxmock.PgxConnIface) {
	t.Helper()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = mock.Close(context.Background())
	})

	return NewUserRepository(mock), mock
}

func alexFields() model.UserFields {
	return model.UserFields{
		FirstName:   utils.Ptr("Alex"),
		LastName:    utils.Ptr("Taylor"),
		Email:       utils.Ptr("alex.taylor@example.com"),
		PhoneNumber: utils.Ptr("1234567890"),
	}
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	fields := alexFields()
	photo := []byte{0xff, 0xd8, 0xff, 0xe0}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(fields.FirstName, fields.LastName, fields.Email, fields.PhoneNumber, photo).
		WillReturnRows(pgxmock.NewRows(databasetest.UserColumns).
			AddRow(databasetest.UserRow(1, "Alex", "Taylor", "alex.taylor@example.com", "1234567890", photo)...))

	user, err := repo.Create(ctx, fields, photo)
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alex.taylor@example.com", *user.Email)
	assert.Equal(t, photo, user.ProfilePhoto)
}

func TestUserRepository_CreateWithoutPhoto(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	fields := model.UserFields{}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs((*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), []byte(nil)).
		WillReturnRows(pgxmock.NewRows(databasetest.UserColumns).
			AddRow(int64(9), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), []byte(nil)))

	user, err := repo.Create(ctx, fields, []byte{})
	require.NoError(t, err)

	assert.Equal(t, int64(9), user.ID)
	assert.Nil(t, user.FirstName)
	assert.Nil(t, user.ProfilePhoto)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	fields := alexFields()

	pgErr := &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_email_key"}
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgErr)

	_, err := repo.Create(context.Background(), fields, nil)
	require.Error(t, err)

	var got *pgconn.PgError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "23505", got.Code)
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(databasetest.UserColumns).
			AddRow(databasetest.UserRow(2, "Jordan", "Lee", "jordan.lee@example.com", "0987654321", nil)...))

	user, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", *user.FirstName)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(databasetest.UserColumns))

	_, err = repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_GetAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM users ORDER BY id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(3, int64(3)).
		WillReturnRows(pgxmock.NewRows(databasetest.UserColumns).
			AddRow(databasetest.UserRow(4, "Taylor", "Parker", "taylor.parker@example.com", "2233445566", nil)...).
			AddRow(databasetest.UserRow(5, "Morgan", "Reed", "morgan.reed@example.com", "3344556677", nil)...).
			AddRow(databasetest.UserRow(6, "Riley", "Adams", "riley.adams@example.com", "4455667788", nil)...))

	users, err := repo.GetAll(context.Background(), 3, 3)
	require.NoError(t, err)

	require.Len(t, users, 3)
	assert.Equal(t, int64(4), users[0].ID)
	assert.Equal(t, int64(6), users[2].ID)
}

func TestUserRepository_GetAllEmptyPage(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM users ORDER BY id`).
		WithArgs(10, int64(990)).
		WillReturnRows(pgxmock.NewRows(databasetest.UserColumns))

	users, err := repo.GetAll(context.Background(), 10, 990)
	require.NoError(t, err)

	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserRepository_GetTotalCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(8)))

	total, err := repo.GetTotalCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), total)
}

func TestUserRepository_Update(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	fields := alexFields()
	fields.Email = utils.Ptr("alex@example.com")

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(fields.FirstName, fields.LastName, fields.Email, fields.PhoneNumber, int64(1)).
		WillReturnRows(pgxmock.NewRows(databasetest.UserColumns).
			AddRow(databasetest.UserRow(1, "Alex", "Taylor", "alex@example.com", "1234567890", nil)...))

	user, err := repo.Update(ctx, 1, fields)
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", *user.Email)

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(fields.FirstName, fields.LastName, fields.Email, fields.PhoneNumber, int64(999999)).
		WillReturnRows(pgxmock.NewRows(databasetest.UserColumns))

	_, err = repo.Update(ctx, 999999, fields)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(ctx, 3))

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(ctx, 3), ErrUserNotFound)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(int64(4)).
		WillReturnError(errors.New("conn closed"))

	err := repo.Delete(ctx, 4)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
