package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestIsBusyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"database is locked", errors.New("database is locked"), true},
		{"database table is locked", errors.New("database table is locked"), true},
		{"SQLITE_BUSY", errors.New("SQLITE_BUSY"), true},
		{"SQLITE_LOCKED", errors.New("SQLITE_LOCKED"), true},
		{"error code 5", errors.New("error (5): database busy"), true},
		{"error code 6", errors.New("error (6): database locked"), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"constraint violation", errors.New("UNIQUE constraint failed: audio_files.recitation_id"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, isBusyError(tt.err))
		})
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	assert.GreaterOrEqual(t, backoff(0), retryBaseDelay)
	assert.LessOrEqual(t, backoff(0), retryBaseDelay+retryBaseDelay/4)
	assert.Greater(t, backoff(3), backoff(0))
	assert.Equal(t, retryMaxDelay, backoff(10))
}

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries on busy error and succeeds", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("fails immediately on non-busy error", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			return errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("exhausts all retries on persistent busy error", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 3, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.Error(t, err)
		assert.Equal(t, 4, attempts)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		err := retryWithBackoff(ctx, 10, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.GreaterOrEqual(t, attempts, 1)
		assert.Less(t, attempts, 10)
	})

	t.Run("zero retries means one attempt only", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 0, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})
}

func TestRetry(t *testing.T) {
	t.Parallel()

	attempts := 0
	n, err := retry(context.Background(), 2, func() (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errors.New("SQLITE_BUSY")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.Equal(t, 2, attempts)
}

type plainDriver struct {
	opened []string
}

func (d *plainDriver) Open(dsn string) (driver.Conn, error) {
	d.opened = append(d.opened, dsn)
	return nil, errors.New("not a real connection")
}

func TestOpenConnector(t *testing.T) {
	t.Parallel()

	t.Run("wraps drivers without OpenConnector", func(t *testing.T) {
		drv := &plainDriver{}
		connector, err := openConnector(drv, "catalog.db")
		require.NoError(t, err)
		assert.Same(t, drv, connector.Driver())

		_, err = connector.Connect(context.Background())
		require.Error(t, err)
		assert.Equal(t, []string{"catalog.db"}, drv.opened)
	})

	t.Run("opens the sqlite driver", func(t *testing.T) {
		connector, err := openConnector(sqliteshim.Driver(), ":memory:")
		require.NoError(t, err)

		conn, err := newRetryConnector(connector, 1).Connect(context.Background())
		require.NoError(t, err)
		require.NoError(t, conn.Close())
	})
}
