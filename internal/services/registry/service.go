package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/slotmachine-go/internal/dependencies/clock"
	"github.com/mcoot/slotmachine-go/internal/dependencies/idgen"
	"github.com/mcoot/slotmachine-go/internal/metrics"
	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// Service registers players and lists them
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// New creates a new registry Service
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

// Register creates a player and its registration audit entry in one batch.
// Names are trimmed before they are checked and stored.
func (s *Service) Register(ctx context.Context, studentNumber, firstName, lastName string) (*model.Player, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if err := validate(studentNumber, firstName, lastName); err != nil {
		s.metrics.RecordRegistration(metrics.OutcomeInvalid)
		return nil, err
	}

	exists, err := s.storage.PlayerExists(ctx, studentNumber)
	if err != nil {
		return nil, s.internal("failed to check player", studentNumber, err)
	}
	if exists {
		s.metrics.RecordRegistration(metrics.OutcomeDuplicate)
		return nil, model.ErrDuplicateStudent
	}

	now := s.clock.Now().UTC()
	player := &model.Player{
		StudentNumber:    studentNumber,
		FirstName:        firstName,
		LastName:         lastName,
		RegistrationDate: now,
	}
	audit := &model.AuditLog{
		ID:            s.ids.NewID(),
		StudentNumber: studentNumber,
		Action:        model.ActionRegistration,
		Status:        model.AuditStatusSuccess,
		Timestamp:     now,
		Details:       fmt.Sprintf("User %s %s registered", firstName, lastName),
	}

	if err := s.storage.Apply(ctx, storage.Batch{Player: player, AuditLog: audit}); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, model.ErrDuplicateStudent) {
			s.metrics.RecordRegistration(metrics.OutcomeDuplicate)
			return nil, model.ErrDuplicateStudent
		}
		return nil, s.internal("failed to save player", studentNumber, err)
	}

	s.metrics.RecordRegistration(metrics.OutcomeSuccess)
	s.logger.Info("player registered",
		slog.String("student_number", studentNumber),
	)

	return player, nil
}

// ListAll returns every player, most recently registered first
func (s *Service) ListAll(ctx context.Context) ([]*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		s.logger.Error("failed to list players",
			slog.String("error", err.Error()),
		)
		return nil, model.ErrInternal
	}
	return players, nil
}

func (s *Service) internal(msg, studentNumber string, err error) error {
	s.metrics.RecordRegistration(metrics.OutcomeError)
	s.logger.Error(msg,
		slog.String("student_number", studentNumber),
		slog.String("error", err.Error()),
	)
	return model.ErrInternal
}

func validate(studentNumber, firstName, lastName string) error {
	if studentNumber == "" ||
		len(studentNumber) > model.MaxStudentNumberLength ||
		!model.ValidStudentNumber(studentNumber) {
		return model.ErrInvalidStudentNumber
	}
	if firstName == "" || lastName == "" {
		return model.ErrMissingName
	}
	if utf8.RuneCountInString(firstName) > model.MaxNameLength ||
		utf8.RuneCountInString(lastName) > model.MaxNameLength {
		return model.ErrNameTooLong
	}
	return nil
}
