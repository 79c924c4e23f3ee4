package db

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// ErrWorkerClosed is returned by Do once Close has been called
var ErrWorkerClosed = errors.New("db: write worker closed")

// TxFn runs inside a write transaction. Returning an error rolls it back.
type TxFn func(ctx context.Context, tx *sql.Tx) error

type writeJob struct {
	ctx    context.Context
	fn     TxFn
	result chan error
}

// Worker owns every write to the database. SQLite allows one writer at a
// time, so batches are queued to a single goroutine instead of contending
// for the lock.
type Worker struct {
	db    *sql.DB
	queue chan writeJob
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewWorker starts the writer goroutine for db
func NewWorker(db *sql.DB) *Worker {
	w := &Worker{
		db:    db,
		queue: make(chan writeJob, 64),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Close drains queued jobs and stops the writer. Later calls to Do fail with
// ErrWorkerClosed.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()
	<-w.done
}

// Do runs fn in its own transaction on the writer goroutine and waits for
// the commit or rollback
func (w *Worker) Do(ctx context.Context, fn TxFn) error {
	job := writeJob{ctx: ctx, fn: fn, result: make(chan error, 1)}

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrWorkerClosed
	}
	select {
	case w.queue <- job:
		w.mu.RUnlock()
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-job.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) run() {
	defer close(w.done)

	for job := range w.queue {
		job.result <- w.exec(job)
	}
}

func (w *Worker) exec(job writeJob) error {
	// Nobody is waiting for an abandoned job
	if err := job.ctx.Err(); err != nil {
		return err
	}

	tx, err := w.db.BeginTx(job.ctx, nil)
	if err != nil {
		return err
	}
	if err := job.fn(job.ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
