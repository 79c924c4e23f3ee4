package cooldown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/slotmachine-go/internal/dependencies/clock"
	"github.com/mcoot/slotmachine-go/internal/dependencies/idgen"
	"github.com/mcoot/slotmachine-go/internal/metrics"
	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// Window is how long a player must wait after a play before playing again
const Window = 3 * time.Hour

// Validation messages returned to the player
const (
	MessageInvalidFormat = "Invalid student number format."
	MessageNotFound      = "Student number not found."
	MessageValidated     = "Player validated successfully."
)

// Validation is the outcome of checking whether a player may play now
type Validation struct {
	Valid       bool
	StudentName string // set only when Valid
	Message     string
}

// Service decides whether a player may play and audits each decision
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// New creates a new cooldown Service
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

// Validate checks the student number format, that the player exists and that
// their last play is outside the cooldown window. A rejected player is a
// Validation value, not an error; errors mean the store failed.
//
// A malformed student number is rejected without touching the store and
// without an audit entry. Every other outcome writes exactly one entry.
func (s *Service) Validate(ctx context.Context, studentNumber string) (Validation, error) {
	if !model.ValidStudentNumber(studentNumber) {
		s.metrics.RecordValidation("Invalid")
		return Validation{Message: MessageInvalidFormat}, nil
	}

	player, err := s.storage.FindPlayer(ctx, studentNumber)
	if errors.Is(err, model.ErrPlayerNotFound) {
		if err := s.audit(ctx, studentNumber, model.AuditStatusError, "Student number not found"); err != nil {
			return Validation{}, err
		}
		return Validation{Message: MessageNotFound}, nil
	}
	if err != nil {
		return Validation{}, s.internal("failed to load player", studentNumber, err)
	}

	last, err := s.storage.QueryGameResults(ctx, storage.GameFilter{
		StudentNumber: studentNumber,
		Limit:         1,
	})
	if err != nil {
		return Validation{}, s.internal("failed to load last game", studentNumber, err)
	}

	now := s.clock.Now()
	if len(last) > 0 && last[0].DatePlayed.After(now.Add(-Window)) {
		remaining := last[0].DatePlayed.Add(Window).Sub(now)
		if err := s.audit(ctx, studentNumber, model.AuditStatusWarning,
			"Attempted to play within 3-hour cooldown period"); err != nil {
			return Validation{}, err
		}
		return Validation{Message: RemainingMessage(remaining)}, nil
	}

	name := player.FullName()
	if err := s.audit(ctx, studentNumber, model.AuditStatusSuccess,
		fmt.Sprintf("Player %s validated successfully", name)); err != nil {
		return Validation{}, err
	}

	s.logger.Info("player validated",
		slog.String("student_number", studentNumber),
	)

	return Validation{Valid: true, StudentName: name, Message: MessageValidated}, nil
}

// RemainingMessage tells a blocked player how long is left, truncated to
// whole hours and minutes.
func RemainingMessage(remaining time.Duration) string {
	hours := int(remaining / time.Hour)
	minutes := int(remaining/time.Minute) % 60
	return fmt.Sprintf("You can play again in %d hours and %d minutes.", hours, minutes)
}

func (s *Service) audit(ctx context.Context, studentNumber string, status model.AuditStatus, details string) error {
	entry := &model.AuditLog{
		ID:            s.ids.NewID(),
		StudentNumber: studentNumber,
		Action:        model.ActionPlayerValidation,
		Status:        status,
		Timestamp:     s.clock.Now().UTC(),
		Details:       details,
	}
	if err := s.storage.Apply(ctx, storage.Batch{AuditLog: entry}); err != nil {
		return s.internal("failed to save validation audit", studentNumber, err)
	}
	s.metrics.RecordValidation(string(status))
	return nil
}

func (s *Service) internal(msg, studentNumber string, err error) error {
	s.logger.Error(msg,
		slog.String("student_number", studentNumber),
		slog.String("error", err.Error()),
	)
	return model.ErrInternal
}
