package reporting

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/mcoot/slotmachine-go/internal/dependencies/clock"
	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/services/cooldown"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// GameRow is a game result with its player's display name
type GameRow struct {
	model.GameResult
	StudentName string
}

// RecentPlayer is a student's most recent play inside the cooldown window
type RecentPlayer struct {
	GameID        string
	StudentNumber string
	StudentName   string
	DatePlayed    time.Time
}

// Stats summarises all players and games
type Stats struct {
	TotalPlayers int
	TotalGames   int
	TotalWins    int
	WinRate      float64 // percentage, rounded to 2 decimals
}

// Service answers read-only queries over players, games and the audit trail
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new reporting Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// ListGames returns games played from start through the end of end's day,
// newest first
func (s *Service) ListGames(ctx context.Context, start, end time.Time) ([]GameRow, error) {
	return s.listGames(ctx, storage.GameFilter{From: start, To: EndOfDay(end)})
}

// ListWinners is ListGames restricted to wins
func (s *Service) ListWinners(ctx context.Context, start, end time.Time) ([]GameRow, error) {
	return s.listGames(ctx, storage.GameFilter{Result: model.ResultWin, From: start, To: EndOfDay(end)})
}

func (s *Service) listGames(ctx context.Context, filter storage.GameFilter) ([]GameRow, error) {
	games, err := s.storage.QueryGameResults(ctx, filter)
	if err != nil {
		return nil, s.internal("failed to query games", err)
	}

	names := newNameCache(s.storage)
	rows := make([]GameRow, 0, len(games))
	for _, g := range games {
		name, err := names.lookup(ctx, g.StudentNumber)
		if err != nil {
			return nil, s.internal("failed to load player", err)
		}
		rows = append(rows, GameRow{GameResult: *g, StudentName: name})
	}
	return rows, nil
}

// RecentPlayers returns one entry per student who played within the
// cooldown window, carrying their latest play, newest first
func (s *Service) RecentPlayers(ctx context.Context) ([]RecentPlayer, error) {
	since := s.clock.Now().Add(-cooldown.Window)
	games, err := s.storage.QueryGameResults(ctx, storage.GameFilter{From: since})
	if err != nil {
		return nil, s.internal("failed to query recent games", err)
	}

	names := newNameCache(s.storage)
	seen := make(map[string]bool)
	recent := []RecentPlayer{}
	for _, g := range games {
		// Newest first, so the first play seen per student is their latest
		if seen[g.StudentNumber] {
			continue
		}
		seen[g.StudentNumber] = true

		name, err := names.lookup(ctx, g.StudentNumber)
		if err != nil {
			return nil, s.internal("failed to load player", err)
		}
		recent = append(recent, RecentPlayer{
			GameID:        g.ID,
			StudentNumber: g.StudentNumber,
			StudentName:   name,
			DatePlayed:    g.DatePlayed,
		})
	}
	return recent, nil
}

// Stats counts players, games and wins
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	players, err := s.storage.CountPlayers(ctx)
	if err != nil {
		return Stats{}, s.internal("failed to count players", err)
	}
	games, err := s.storage.CountGameResults(ctx, storage.GameFilter{})
	if err != nil {
		return Stats{}, s.internal("failed to count games", err)
	}
	wins, err := s.storage.CountGameResults(ctx, storage.GameFilter{Result: model.ResultWin})
	if err != nil {
		return Stats{}, s.internal("failed to count wins", err)
	}

	return Stats{
		TotalPlayers: players,
		TotalGames:   games,
		TotalWins:    wins,
		WinRate:      WinRate(wins, games),
	}, nil
}

// AuditTrail returns audit entries from start through the end of end's day,
// newest first
func (s *Service) AuditTrail(ctx context.Context, start, end time.Time) ([]*model.AuditLog, error) {
	logs, err := s.storage.QueryAuditLogs(ctx, storage.AuditFilter{From: start, To: EndOfDay(end)})
	if err != nil {
		return nil, s.internal("failed to query audit trail", err)
	}
	return logs, nil
}

// EndOfDay returns the last representable instant of t's calendar day in t's
// location
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// WinRate is wins as a percentage of games rounded to 2 decimals, or 0
// with no games
func WinRate(wins, games int) float64 {
	if games == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(games)*100*100) / 100
}

func (s *Service) internal(msg string, err error) error {
	s.logger.Error(msg,
		slog.String("error", err.Error()),
	)
	return model.ErrInternal
}

// nameCache resolves student names once per query
type nameCache struct {
	storage storage.Storage
	names   map[string]string
}

func newNameCache(storage storage.Storage) *nameCache {
	return &nameCache{storage: storage, names: make(map[string]string)}
}

func (c *nameCache) lookup(ctx context.Context, studentNumber string) (string, error) {
	if name, ok := c.names[studentNumber]; ok {
		return name, nil
	}
	player, err := c.storage.FindPlayer(ctx, studentNumber)
	if err != nil {
		return "", err
	}
	name := player.FullName()
	c.names[studentNumber] = name
	return name, nil
}
