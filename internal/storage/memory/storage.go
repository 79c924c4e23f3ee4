package memory

import (
	"context"
	"sync"

	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players     map[string]*model.Player
	gameResults []*model.GameResult
	auditLogs   []*model.AuditLog
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[string]*model.Player),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// Player operations

func (s *Storage) FindPlayer(ctx context.Context, studentNumber string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[studentNumber]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	cp := *player
	return &cp, nil
}

func (s *Storage) PlayerExists(ctx context.Context, studentNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[studentNumber]
	return ok, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		cp := *p
		players = append(players, &cp)
	}
	storage.SortPlayers(players)
	return players, nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), nil
}

// Game result operations

func (s *Storage) QueryGameResults(ctx context.Context, filter storage.GameFilter) ([]*model.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.GameResult
	for _, g := range s.gameResults {
		if storage.MatchGame(g, filter) {
			cp := *g
			games = append(games, &cp)
		}
	}
	storage.SortGames(games, filter.Order)
	return storage.Truncate(games, filter.Limit), nil
}

func (s *Storage) CountGameResults(ctx context.Context, filter storage.GameFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, g := range s.gameResults {
		if storage.MatchGame(g, filter) {
			count++
		}
	}
	return count, nil
}

// Audit operations

func (s *Storage) QueryAuditLogs(ctx context.Context, filter storage.AuditFilter) ([]*model.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var logs []*model.AuditLog
	for _, a := range s.auditLogs {
		if storage.MatchAudit(a, filter) {
			cp := *a
			logs = append(logs, &cp)
		}
	}
	storage.SortAuditLogs(logs, filter.Order)
	return storage.Truncate(logs, filter.Limit), nil
}

// Batch operations

func (s *Storage) Apply(ctx context.Context, batch storage.Batch) error {
	if err := storage.CheckBatch(batch); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check every constraint before mutating anything
	if batch.Player != nil {
		if _, exists := s.players[batch.Player.StudentNumber]; exists {
			return model.ErrDuplicateStudent
		}
	}
	if batch.GameResult != nil {
		_, known := s.players[batch.GameResult.StudentNumber]
		if !known && (batch.Player == nil || batch.Player.StudentNumber != batch.GameResult.StudentNumber) {
			return model.ErrPlayerNotFound
		}
	}

	if batch.Player != nil {
		cp := *batch.Player
		s.players[cp.StudentNumber] = &cp
	}
	if batch.GameResult != nil {
		cp := *batch.GameResult
		s.gameResults = append(s.gameResults, &cp)
	}
	if batch.AuditLog != nil {
		cp := *batch.AuditLog
		s.auditLogs = append(s.auditLogs, &cp)
	}
	return nil
}
