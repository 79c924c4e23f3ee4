package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/slotmachine-go/internal/dependencies/clock"
	"github.com/mcoot/slotmachine-go/internal/dependencies/idgen"
	"github.com/mcoot/slotmachine-go/internal/metrics"
	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// Service records game results. It does not enforce the cooldown; callers
// validate the player first.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// New creates a new recorder Service
func New(
	storage storage.Storage,
	clock clock.Clock,
	ids idgen.Generator,
	metrics *metrics.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		metrics: metrics,
		logger:  logger,
	}
}

// Record saves a play and its audit entry in one batch
func (s *Service) Record(ctx context.Context, studentNumber, result string, retryCount int, datePlayed time.Time) (*model.GameResult, error) {
	switch {
	case strings.TrimSpace(result) == "":
		return nil, model.ErrMissingResult
	case retryCount < 0:
		return nil, model.ErrInvalidRetryCount
	case datePlayed.IsZero():
		return nil, model.ErrMissingDatePlayed
	case !storage.Storable(datePlayed):
		return nil, model.ErrDateOutOfRange
	}

	player, err := s.storage.FindPlayer(ctx, studentNumber)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, s.internal("failed to load player", studentNumber, err)
	}

	game := &model.GameResult{
		ID:            s.ids.NewID(),
		StudentNumber: studentNumber,
		Result:        result,
		RetryCount:    retryCount,
		DatePlayed:    datePlayed,
	}

	status := model.AuditStatusInfo
	if game.IsWin() {
		status = model.AuditStatusSuccess
	}
	audit := &model.AuditLog{
		ID:            s.ids.NewID(),
		StudentNumber: studentNumber,
		Action:        model.ActionGamePlayed,
		Status:        status,
		Timestamp:     s.clock.Now().UTC(),
		Details:       fmt.Sprintf("Player %s %s with %d retries", player.FullName(), result, retryCount),
	}

	if err := s.storage.Apply(ctx, storage.Batch{GameResult: game, AuditLog: audit}); err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, s.internal("failed to save game result", studentNumber, err)
	}

	s.metrics.RecordGame(string(status))
	s.logger.Info("game recorded",
		slog.String("game_id", game.ID),
		slog.String("student_number", studentNumber),
		slog.String("result", result),
		slog.Int("retry_count", retryCount),
	)

	return game, nil
}

func (s *Service) internal(msg, studentNumber string, err error) error {
	s.logger.Error(msg,
		slog.String("student_number", studentNumber),
		slog.String("error", err.Error()),
	)
	return model.ErrInternal
}
