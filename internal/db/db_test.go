package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = parseVersion("0012_add_index.sql")
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	_, err = parseVersion("init.sql")
	assert.Error(t, err)

	_, err = parseVersion("abc_init.sql")
	assert.Error(t, err)
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "slot.db")

	conn, err := Open(ctx, Config{Path: path})
	require.NoError(t, err)

	var tables int
	require.NoError(t, conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('players', 'game_results', 'audit_logs');",
	).Scan(&tables))
	assert.Equal(t, 3, tables)
	require.NoError(t, conn.Close())

	// Reopening must not re-run applied migrations
	conn, err = Open(ctx, Config{Path: path})
	require.NoError(t, err)
	defer conn.Close()

	var (
		applied int
		name    string
	)
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*), MAX(name) FROM schema_migrations;").Scan(&applied, &name))
	assert.Equal(t, 1, applied)
	assert.Equal(t, "0001_init.sql", name)
}

func TestWorkerCommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenMemory(ctx, "worker_"+t.Name())
	require.NoError(t, err)
	defer conn.Close()

	w := NewWorker(conn)
	defer w.Close()

	insert := func(sn string) TxFn {
		return func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO players(student_number, first_name, last_name, registration_date_ns) VALUES (?, 'A', 'B', 0);", sn)
			return err
		}
	}

	require.NoError(t, w.Do(ctx, insert("C1")))

	boom := errors.New("boom")
	err = w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := insert("C2")(ctx, tx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM players;").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWorkerRunsJobsSerially(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenMemory(ctx, "serial_"+t.Name())
	require.NoError(t, err)
	defer conn.Close()

	w := NewWorker(conn)
	defer w.Close()

	var running, maxRunning int32
	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
				n := atomic.AddInt32(&running, 1)
				for {
					m := atomic.LoadInt32(&maxRunning)
					if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
						break
					}
				}
				atomic.AddInt32(&running, -1)
				return nil
			})
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))
}

func TestWorkerRejectsJobsAfterClose(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenMemory(ctx, "closed_worker")
	require.NoError(t, err)
	defer conn.Close()

	w := NewWorker(conn)
	w.Close()
	w.Close()

	err = w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerClosed)
}

func TestWorkerSkipsCancelledJobs(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenMemory(ctx, "cancelled_worker")
	require.NoError(t, err)
	defer conn.Close()

	w := NewWorker(conn)
	defer w.Close()

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	ran := false
	err = w.Do(cancelled, func(ctx context.Context, tx *sql.Tx) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}
