package testutil

import (
	"context"

	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// FailingStorage wraps a storage and makes the operations named in Fail
// return Err. Operations not listed fall through to the wrapped storage.
type FailingStorage struct {
	storage.Storage
	Err  error
	Fail map[string]bool
}

// NewFailingStorage fails every listed operation ("FindPlayer", "Apply", ...)
// with err; with no operations listed, everything fails.
func NewFailingStorage(inner storage.Storage, err error, ops ...string) *FailingStorage {
	fail := make(map[string]bool, len(ops))
	for _, op := range ops {
		fail[op] = true
	}
	return &FailingStorage{Storage: inner, Err: err, Fail: fail}
}

func (f *FailingStorage) fails(op string) bool {
	return len(f.Fail) == 0 || f.Fail[op]
}

func (f *FailingStorage) FindPlayer(ctx context.Context, studentNumber string) (*model.Player, error) {
	if f.fails("FindPlayer") {
		return nil, f.Err
	}
	return f.Storage.FindPlayer(ctx, studentNumber)
}

func (f *FailingStorage) PlayerExists(ctx context.Context, studentNumber string) (bool, error) {
	if f.fails("PlayerExists") {
		return false, f.Err
	}
	return f.Storage.PlayerExists(ctx, studentNumber)
}

func (f *FailingStorage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	if f.fails("ListPlayers") {
		return nil, f.Err
	}
	return f.Storage.ListPlayers(ctx)
}

func (f *FailingStorage) CountPlayers(ctx context.Context) (int, error) {
	if f.fails("CountPlayers") {
		return 0, f.Err
	}
	return f.Storage.CountPlayers(ctx)
}

func (f *FailingStorage) QueryGameResults(ctx context.Context, filter storage.GameFilter) ([]*model.GameResult, error) {
	if f.fails("QueryGameResults") {
		return nil, f.Err
	}
	return f.Storage.QueryGameResults(ctx, filter)
}

func (f *FailingStorage) CountGameResults(ctx context.Context, filter storage.GameFilter) (int, error) {
	if f.fails("CountGameResults") {
		return 0, f.Err
	}
	return f.Storage.CountGameResults(ctx, filter)
}

func (f *FailingStorage) QueryAuditLogs(ctx context.Context, filter storage.AuditFilter) ([]*model.AuditLog, error) {
	if f.fails("QueryAuditLogs") {
		return nil, f.Err
	}
	return f.Storage.QueryAuditLogs(ctx, filter)
}

func (f *FailingStorage) Apply(ctx context.Context, batch storage.Batch) error {
	if f.fails("Apply") {
		return f.Err
	}
	return f.Storage.Apply(ctx, batch)
}
