package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgError(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		require.ErrorIs(t, pgError(sql.ErrNoRows), ErrNotFound)
		require.ErrorIs(t, pgError(fmt.Errorf("scan user: %w", sql.ErrNoRows)), ErrNotFound)
	})

	t.Run("unique violation", func(t *testing.T) {
		cause := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"}
		for _, err := range []error{cause, fmt.Errorf("insert user: %w", cause)} {
			var dup *DuplicateKeyError
			require.ErrorAs(t, pgError(err), &dup)
			assert.Equal(t, "email", dup.Field)
			assert.ErrorIs(t, dup.Err, cause)
		}
	})

	t.Run("other codes pass through", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "23503"}
		assert.Same(t, cause, pgError(cause))

		plain := errors.New("connection reset")
		assert.Same(t, plain, pgError(plain))
	})
}

func TestExpectRow(t *testing.T) {
	require.ErrorIs(t, expectRow(driver.RowsAffected(0)), ErrNotFound)
	require.NoError(t, expectRow(driver.RowsAffected(1)))
	require.NoError(t, expectRow(driver.RowsAffected(3)))
}
