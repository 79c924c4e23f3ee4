package storage

import (
	"context"
	"time"

	"github.com/mcoot/slotmachine-go/internal/model"
)

// Order selects the sort direction of query results
type Order int

const (
	// NewestFirst sorts by the record's time descending (the default)
	NewestFirst Order = iota
	// OldestFirst sorts by the record's time ascending
	OldestFirst
)

// GameFilter narrows a game result query. Zero values mean "no constraint";
// From and To are inclusive bounds on DatePlayed.
type GameFilter struct {
	StudentNumber string
	Result        string
	From          time.Time
	To            time.Time
	Limit         int
	Order         Order
}

// AuditFilter narrows an audit log query. From and To are inclusive bounds
// on Timestamp.
type AuditFilter struct {
	StudentNumber string
	From          time.Time
	To            time.Time
	Limit         int
	Order         Order
}

// Batch is a set of inserts applied all-or-nothing. Any field may be nil.
type Batch struct {
	Player     *model.Player
	GameResult *model.GameResult
	AuditLog   *model.AuditLog
}

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	FindPlayer(ctx context.Context, studentNumber string) (*model.Player, error)
	PlayerExists(ctx context.Context, studentNumber string) (bool, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error) // newest registration first
	CountPlayers(ctx context.Context) (int, error)

	// Game result operations
	QueryGameResults(ctx context.Context, filter GameFilter) ([]*model.GameResult, error)
	CountGameResults(ctx context.Context, filter GameFilter) (int, error)

	// Audit operations
	QueryAuditLogs(ctx context.Context, filter AuditFilter) ([]*model.AuditLog, error)

	// Apply persists every record in the batch atomically. It fails with
	// model.ErrDuplicateStudent if the batch's player already exists and with
	// model.ErrPlayerNotFound if the batch's game result references an
	// unknown player; nothing is written in either case.
	Apply(ctx context.Context, batch Batch) error

	Close() error
}
