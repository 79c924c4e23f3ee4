package registry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/slotmachine-go/internal/dependencies/mocks"
	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
	"github.com/mcoot/slotmachine-go/internal/storage/memory"
	"github.com/mcoot/slotmachine-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, mocks.NewMockIDs("audit-"), nil, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) auditLogs() []*model.AuditLog {
	logs, err := s.storage.QueryAuditLogs(s.ctx, storage.AuditFilter{})
	s.Require().NoError(err)
	return logs
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	player, err := s.service.Register(s.ctx, "C1001", "Ana", "Lee")
	s.Require().NoError(err)

	s.Equal("C1001", player.StudentNumber)
	s.Equal("Ana", player.FirstName)
	s.Equal("Lee", player.LastName)
	s.Equal(s.clock.Now(), player.RegistrationDate)
}

func (s *ServiceSuite) TestRegisterIsPersisted() {
	_, err := s.service.Register(s.ctx, "C1001", "Ana", "Lee")
	s.Require().NoError(err)

	found, err := s.storage.FindPlayer(s.ctx, "C1001")
	s.Require().NoError(err)
	s.Equal("Ana Lee", found.FullName())
}

func (s *ServiceSuite) TestRegisterWritesAuditEntry() {
	_, err := s.service.Register(s.ctx, "C1001", "Ana", "Lee")
	s.Require().NoError(err)

	logs := s.auditLogs()
	s.Require().Len(logs, 1)
	s.Equal("audit-000001", logs[0].ID)
	s.Equal("C1001", logs[0].StudentNumber)
	s.Equal(model.ActionRegistration, logs[0].Action)
	s.Equal(model.AuditStatusSuccess, logs[0].Status)
	s.Equal("User Ana Lee registered", logs[0].Details)
	s.Equal(s.clock.Now(), logs[0].Timestamp)
}

func (s *ServiceSuite) TestRegisterTrimsNames() {
	player, err := s.service.Register(s.ctx, "C1001", "  Ana ", "\tLee\n")
	s.Require().NoError(err)
	s.Equal("Ana", player.FirstName)
	s.Equal("Lee", player.LastName)
	s.Equal("Ana Lee", player.FullName())

	logs := s.auditLogs()
	s.Require().Len(logs, 1)
	s.Equal("User Ana Lee registered", logs[0].Details)
}

func (s *ServiceSuite) TestRegisterRejectsInvalidStudentNumbers() {
	for _, sn := range []string{"", "1234", "c1234", "C", "CX12", " C12", "C12 ", "C" + strings.Repeat("1", 20)} {
		_, err := s.service.Register(s.ctx, sn, "Ana", "Lee")
		s.ErrorIs(err, model.ErrInvalidStudentNumber, "student number %q", sn)
	}

	count, err := s.storage.CountPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
	s.Empty(s.auditLogs())
}

func (s *ServiceSuite) TestRegisterAcceptsMaxLengthStudentNumber() {
	_, err := s.service.Register(s.ctx, "C"+strings.Repeat("9", 19), "Ana", "Lee")
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterChecksFormatBeforeNames() {
	_, err := s.service.Register(s.ctx, "bad", "", "")
	s.ErrorIs(err, model.ErrInvalidStudentNumber)
}

func (s *ServiceSuite) TestRegisterRejectsMissingNames() {
	_, err := s.service.Register(s.ctx, "C1001", "", "Lee")
	s.ErrorIs(err, model.ErrMissingName)

	_, err = s.service.Register(s.ctx, "C1001", "Ana", "   ")
	s.ErrorIs(err, model.ErrMissingName)

	s.Empty(s.auditLogs())
}

func (s *ServiceSuite) TestRegisterRejectsLongNames() {
	long := strings.Repeat("a", model.MaxNameLength+1)

	_, err := s.service.Register(s.ctx, "C1001", long, "Lee")
	s.ErrorIs(err, model.ErrNameTooLong)

	_, err = s.service.Register(s.ctx, "C1001", "Ana", long)
	s.ErrorIs(err, model.ErrNameTooLong)

	_, err = s.service.Register(s.ctx, "C1001", strings.Repeat("é", model.MaxNameLength), "Lee")
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterRejectsDuplicate() {
	_, err := s.service.Register(s.ctx, "C1001", "Ana", "Lee")
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	_, err = s.service.Register(s.ctx, "C1001", "Bob", "Ray")
	s.ErrorIs(err, model.ErrDuplicateStudent)

	found, err := s.storage.FindPlayer(s.ctx, "C1001")
	s.Require().NoError(err)
	s.Equal("Ana", found.FirstName)

	count, err := s.storage.CountPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
	s.Len(s.auditLogs(), 1)
}

func (s *ServiceSuite) TestRegisterMapsStoreDuplicateOnApply() {
	// The existence check passes but the batch loses a race
	failing := testutil.NewFailingStorage(s.storage, model.ErrDuplicateStudent, "Apply")
	service := New(failing, s.clock, mocks.NewMockIDs("audit-"), nil, testutil.NopLogger())

	_, err := service.Register(s.ctx, "C1001", "Ana", "Lee")
	s.ErrorIs(err, model.ErrDuplicateStudent)
}

func (s *ServiceSuite) TestRegisterHidesStoreFailures() {
	failing := testutil.NewFailingStorage(s.storage, errors.New("connection reset"))
	logger, logs := testutil.CaptureLogger()
	service := New(failing, s.clock, mocks.NewMockIDs("audit-"), nil, logger)

	_, err := service.Register(s.ctx, "C1001", "Ana", "Lee")
	s.ErrorIs(err, model.ErrInternal)
	s.NotContains(err.Error(), "connection reset")

	// The cause is logged server-side only
	s.Contains(logs.String(), "connection reset")
	s.Contains(logs.String(), `"student_number":"C1001"`)
}

// ListAll tests

func (s *ServiceSuite) TestListAllEmpty() {
	players, err := s.service.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *ServiceSuite) TestListAllNewestFirst() {
	_, err := s.service.Register(s.ctx, "C1", "Ana", "Lee")
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.service.Register(s.ctx, "C2", "Bob", "Ray")
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.service.Register(s.ctx, "C3", "Cat", "Kim")
	s.Require().NoError(err)

	players, err := s.service.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("C3", players[0].StudentNumber)
	s.Equal("C2", players[1].StudentNumber)
	s.Equal("C1", players[2].StudentNumber)
}

func (s *ServiceSuite) TestListAllHidesStoreFailures() {
	failing := testutil.NewFailingStorage(s.storage, errors.New("boom"), "ListPlayers")
	service := New(failing, s.clock, mocks.NewMockIDs("audit-"), nil, testutil.NopLogger())

	_, err := service.ListAll(s.ctx)
	s.ErrorIs(err, model.ErrInternal)
}
