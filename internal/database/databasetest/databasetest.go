// Package databasetest provides a database.Acquirer backed by pgxmock for
// unit tests of the repository, service and HTTP layers.
package databasetest

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/users-service/internal/database"
)

// UserColumns is the column list returned by every users query.
var UserColumns = []string{"id", "first_name", "last_name", "email", "phone_number", "profile_photo"}

// Acquirer hands the same mock connection to every WithConn call and
// counts acquisitions and releases.
type Acquirer struct {
	Mock pgxmock.PgxConnIface

	// AcquireErr, when set, is returned by WithConn without running fn.
	AcquireErr error
	PingErr    error

	Acquired int
	Released int
}

var _ database.Acquirer = (*Acquirer)(nil)

// New returns an Acquirer whose expectations are verified when the test
// ends.
func New(t testing.TB) *Acquirer {
	t.Helper()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)

	a := &Acquirer{Mock: mock}
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		require.Equal(t, a.Acquired, a.Released, "every acquired connection must be released")
		_ = mock.Close(context.Background())
	})

	return a
}

func (a *Acquirer) WithConn(ctx context.Context, fn func(database.Conn) error) error {
	if a.AcquireErr != nil {
		return a.AcquireErr
	}

	a.Acquired++
	defer func() { a.Released++ }()

	return fn(a.Mock)
}

func (a *Acquirer) Ping(ctx context.Context) error {
	return a.PingErr
}

// UserRow returns a row of UserColumns.
func UserRow(id int64, first, last, email, phone string, photo []byte) []any {
	return []any{id, &first, &last, &email, &phone, photo}
}
