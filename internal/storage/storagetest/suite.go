// Package storagetest holds the behavioural test suite every storage backend
// must pass.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// Suite runs the shared storage behaviour against a backend. Embed it in a
// backend test suite and set NewStorage before suite.Run.
type Suite struct {
	suite.Suite

	// NewStorage returns an empty storage instance for each test
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
	base    time.Time
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
	s.base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

func (s *Suite) player(sn string, offset time.Duration) *model.Player {
	return &model.Player{
		StudentNumber:    sn,
		FirstName:        "First" + sn,
		LastName:         "Last" + sn,
		RegistrationDate: s.base.Add(offset),
	}
}

func (s *Suite) mustAddPlayer(sn string, offset time.Duration) *model.Player {
	p := s.player(sn, offset)
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{Player: p}))
	return p
}

func (s *Suite) mustAddGame(id, sn, result string, offset time.Duration) *model.GameResult {
	g := &model.GameResult{
		ID:            id,
		StudentNumber: sn,
		Result:        result,
		RetryCount:    1,
		DatePlayed:    s.base.Add(offset),
	}
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{GameResult: g}))
	return g
}

func (s *Suite) mustAddAudit(id, sn string, offset time.Duration) *model.AuditLog {
	a := &model.AuditLog{
		ID:            id,
		StudentNumber: sn,
		Action:        model.ActionPlayerValidation,
		Status:        model.AuditStatusInfo,
		Timestamp:     s.base.Add(offset),
		Details:       "details " + id,
	}
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{AuditLog: a}))
	return a
}

// Player tests

func (s *Suite) TestApplyAndFindPlayer() {
	p := s.mustAddPlayer("C1001", 0)

	found, err := s.Storage.FindPlayer(s.Ctx, "C1001")
	s.Require().NoError(err)
	s.Equal(p.StudentNumber, found.StudentNumber)
	s.Equal(p.FirstName, found.FirstName)
	s.Equal(p.LastName, found.LastName)
	s.True(p.RegistrationDate.Equal(found.RegistrationDate))
}

func (s *Suite) TestFindPlayerNotFound() {
	_, err := s.Storage.FindPlayer(s.Ctx, "C404")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestPlayerExists() {
	s.mustAddPlayer("C1001", 0)

	exists, err := s.Storage.PlayerExists(s.Ctx, "C1001")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.Storage.PlayerExists(s.Ctx, "C404")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestApplyDuplicatePlayerWritesNothing() {
	s.mustAddPlayer("C1001", 0)

	dup := s.player("C1001", time.Hour)
	dup.FirstName = "Other"
	audit := &model.AuditLog{ID: "a-1", StudentNumber: "C1001", Action: model.ActionRegistration,
		Status: model.AuditStatusSuccess, Timestamp: s.base}

	err := s.Storage.Apply(s.Ctx, storage.Batch{Player: dup, AuditLog: audit})
	s.ErrorIs(err, model.ErrDuplicateStudent)

	found, err := s.Storage.FindPlayer(s.Ctx, "C1001")
	s.Require().NoError(err)
	s.Equal("FirstC1001", found.FirstName)

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{})
	s.Require().NoError(err)
	s.Empty(logs)

	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *Suite) TestConcurrentDuplicateRegistrationKeepsOnePlayer() {
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Storage.Apply(s.Ctx, storage.Batch{
				Player: s.player("C1001", 0),
				AuditLog: &model.AuditLog{ID: fmt.Sprintf("a-%d", i), StudentNumber: "C1001",
					Action: model.ActionRegistration, Status: model.AuditStatusSuccess, Timestamp: s.base},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrDuplicateStudent)
		}
	}
	s.Equal(1, succeeded)

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{})
	s.Require().NoError(err)
	s.Len(logs, 1)
}

func (s *Suite) TestListPlayersNewestFirst() {
	s.mustAddPlayer("C1", 0)
	s.mustAddPlayer("C3", 2*time.Hour)
	s.mustAddPlayer("C2", time.Hour)

	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("C3", players[0].StudentNumber)
	s.Equal("C2", players[1].StudentNumber)
	s.Equal("C1", players[2].StudentNumber)
}

func (s *Suite) TestListPlayersEmpty() {
	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestCountPlayers() {
	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	s.mustAddPlayer("C1", 0)
	s.mustAddPlayer("C2", 0)

	count, err = s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

// Game result tests

func (s *Suite) TestApplyGameForUnknownPlayerWritesNothing() {
	g := &model.GameResult{ID: "g-1", StudentNumber: "C404", Result: "win", DatePlayed: s.base}
	a := &model.AuditLog{ID: "a-1", StudentNumber: "C404", Action: model.ActionGamePlayed,
		Status: model.AuditStatusSuccess, Timestamp: s.base}

	err := s.Storage.Apply(s.Ctx, storage.Batch{GameResult: g, AuditLog: a})
	s.ErrorIs(err, model.ErrPlayerNotFound)

	games, err := s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{})
	s.Require().NoError(err)
	s.Empty(games)

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{})
	s.Require().NoError(err)
	s.Empty(logs)
}

func (s *Suite) TestApplyGameWithAudit() {
	s.mustAddPlayer("C1", 0)
	g := &model.GameResult{ID: "g-1", StudentNumber: "C1", Result: "win", RetryCount: 2, DatePlayed: s.base}
	a := &model.AuditLog{ID: "a-1", StudentNumber: "C1", Action: model.ActionGamePlayed,
		Status: model.AuditStatusSuccess, Timestamp: s.base, Details: "Player FirstC1 LastC1 win with 2 retries"}

	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{GameResult: g, AuditLog: a}))

	games, err := s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal("g-1", games[0].ID)
	s.Equal("win", games[0].Result)
	s.Equal(2, games[0].RetryCount)
	s.True(s.base.Equal(games[0].DatePlayed))

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{})
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(a.Details, logs[0].Details)
	s.Equal(model.AuditStatusSuccess, logs[0].Status)
	s.Equal(model.ActionGamePlayed, logs[0].Action)
}

func (s *Suite) TestQueryGameResultsOrderAndLimit() {
	s.mustAddPlayer("C1", 0)
	s.mustAddGame("g-1", "C1", "lose", 0)
	s.mustAddGame("g-2", "C1", "win", 2*time.Hour)
	s.mustAddGame("g-3", "C1", "lose", time.Hour)

	games, err := s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{})
	s.Require().NoError(err)
	s.Equal([]string{"g-2", "g-3", "g-1"}, ids(games))

	games, err = s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{Order: storage.OldestFirst})
	s.Require().NoError(err)
	s.Equal([]string{"g-1", "g-3", "g-2"}, ids(games))

	games, err = s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{Limit: 1})
	s.Require().NoError(err)
	s.Equal([]string{"g-2"}, ids(games))
}

func (s *Suite) TestQueryGameResultsTiesNewestIDFirst() {
	s.mustAddPlayer("C1", 0)
	s.mustAddGame("g-1", "C1", "lose", 0)
	s.mustAddGame("g-2", "C1", "lose", 0)

	games, err := s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{})
	s.Require().NoError(err)
	s.Equal([]string{"g-2", "g-1"}, ids(games))
}

func (s *Suite) TestQueryGameResultsFilters() {
	s.mustAddPlayer("C1", 0)
	s.mustAddPlayer("C2", 0)
	s.mustAddGame("g-1", "C1", "win", 0)
	s.mustAddGame("g-2", "C2", "win", time.Hour)
	s.mustAddGame("g-3", "C1", "lose", 2*time.Hour)
	s.mustAddGame("g-4", "C2", "jackpot", 3*time.Hour)

	games, err := s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{StudentNumber: "C1"})
	s.Require().NoError(err)
	s.Equal([]string{"g-3", "g-1"}, ids(games))

	games, err = s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{Result: "win"})
	s.Require().NoError(err)
	s.Equal([]string{"g-2", "g-1"}, ids(games))

	games, err = s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{StudentNumber: "C2", Result: "win"})
	s.Require().NoError(err)
	s.Equal([]string{"g-2"}, ids(games))

	games, err = s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{
		From: s.base.Add(time.Hour),
		To:   s.base.Add(2 * time.Hour),
	})
	s.Require().NoError(err)
	s.Equal([]string{"g-3", "g-2"}, ids(games))
}

func (s *Suite) TestQueryGameResultsBoundsAreInclusiveToTheNanosecond() {
	s.mustAddPlayer("C1", 0)
	s.mustAddGame("g-1", "C1", "win", 0)

	games, err := s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{From: s.base, To: s.base})
	s.Require().NoError(err)
	s.Len(games, 1)

	games, err = s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{From: s.base.Add(time.Nanosecond)})
	s.Require().NoError(err)
	s.Empty(games)

	games, err = s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{To: s.base.Add(-time.Nanosecond)})
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *Suite) TestFarRangeBoundsMatchStoredRecords() {
	s.mustAddPlayer("C1", 0)
	s.mustAddGame("g-1", "C1", "win", 0)
	s.mustAddAudit("a-1", "C1", 0)

	longAgo := time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)
	farFuture := time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)

	games, err := s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{From: s.base.AddDate(0, -2, 0), To: farFuture})
	s.Require().NoError(err)
	s.Equal([]string{"g-1"}, ids(games))

	games, err = s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{From: longAgo, To: farFuture, Result: model.ResultWin})
	s.Require().NoError(err)
	s.Equal([]string{"g-1"}, ids(games))

	n, err := s.Storage.CountGameResults(s.Ctx, storage.GameFilter{From: longAgo, To: farFuture})
	s.Require().NoError(err)
	s.Equal(1, n)

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{From: longAgo, To: farFuture})
	s.Require().NoError(err)
	s.Equal([]string{"a-1"}, auditIDs(logs))
}

func (s *Suite) TestRangesOutsideStorableSpanAreEmpty() {
	s.mustAddPlayer("C1", 0)
	s.mustAddGame("g-1", "C1", "win", 0)
	s.mustAddAudit("a-1", "C1", 0)

	future := time.Date(9000, 1, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)

	games, err := s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{From: future})
	s.Require().NoError(err)
	s.Empty(games)

	n, err := s.Storage.CountGameResults(s.Ctx, storage.GameFilter{To: past})
	s.Require().NoError(err)
	s.Zero(n)

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{From: future})
	s.Require().NoError(err)
	s.Empty(logs)
}

func (s *Suite) TestApplyRejectsUnstorableDatePlayed() {
	s.mustAddPlayer("C1", 0)

	err := s.Storage.Apply(s.Ctx, storage.Batch{
		GameResult: &model.GameResult{
			ID:            "g-far",
			StudentNumber: "C1",
			Result:        "win",
			DatePlayed:    time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		AuditLog: &model.AuditLog{
			ID:            "a-far",
			StudentNumber: "C1",
			Action:        model.ActionGamePlayed,
			Status:        model.AuditStatusSuccess,
			Timestamp:     s.base,
		},
	})
	s.ErrorIs(err, model.ErrDateOutOfRange)

	n, err := s.Storage.CountGameResults(s.Ctx, storage.GameFilter{})
	s.Require().NoError(err)
	s.Zero(n)

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{})
	s.Require().NoError(err)
	s.Empty(logs)
}

func (s *Suite) TestCountGameResults() {
	s.mustAddPlayer("C1", 0)
	s.mustAddGame("g-1", "C1", "win", 0)
	s.mustAddGame("g-2", "C1", "lose", time.Hour)
	s.mustAddGame("g-3", "C1", "win", 2*time.Hour)

	total, err := s.Storage.CountGameResults(s.Ctx, storage.GameFilter{})
	s.Require().NoError(err)
	s.Equal(3, total)

	wins, err := s.Storage.CountGameResults(s.Ctx, storage.GameFilter{Result: model.ResultWin})
	s.Require().NoError(err)
	s.Equal(2, wins)

	recent, err := s.Storage.CountGameResults(s.Ctx, storage.GameFilter{From: s.base.Add(time.Hour)})
	s.Require().NoError(err)
	s.Equal(2, recent)
}

// Audit tests

func (s *Suite) TestQueryAuditLogsOrderAndFilters() {
	s.mustAddAudit("a-1", "C1", 0)
	s.mustAddAudit("a-2", "C2", time.Hour)
	s.mustAddAudit("a-3", "C1", 2*time.Hour)
	s.mustAddAudit("a-4", "C1", 2*time.Hour)

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{})
	s.Require().NoError(err)
	s.Equal([]string{"a-4", "a-3", "a-2", "a-1"}, auditIDs(logs))

	logs, err = s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{StudentNumber: "C1", Order: storage.OldestFirst})
	s.Require().NoError(err)
	s.Equal([]string{"a-1", "a-3", "a-4"}, auditIDs(logs))

	logs, err = s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{From: s.base.Add(time.Hour), To: s.base.Add(time.Hour)})
	s.Require().NoError(err)
	s.Equal([]string{"a-2"}, auditIDs(logs))

	logs, err = s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{Limit: 2})
	s.Require().NoError(err)
	s.Equal([]string{"a-4", "a-3"}, auditIDs(logs))
}

func (s *Suite) TestAuditForUnregisteredStudent() {
	// validation failures are audited against numbers that have no player
	s.mustAddAudit("a-1", "C404", 0)

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{StudentNumber: "C404"})
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal("details a-1", logs[0].Details)
	s.True(s.base.Equal(logs[0].Timestamp))
}

func (s *Suite) TestRegistrationBatchWritesPlayerAndAudit() {
	p := s.player("C1", 0)
	a := &model.AuditLog{ID: "a-1", StudentNumber: "C1", Action: model.ActionRegistration,
		Status: model.AuditStatusSuccess, Timestamp: s.base, Details: "User FirstC1 LastC1 registered"}

	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{Player: p, AuditLog: a}))

	exists, err := s.Storage.PlayerExists(s.Ctx, "C1")
	s.Require().NoError(err)
	s.True(exists)

	logs, err := s.Storage.QueryAuditLogs(s.Ctx, storage.AuditFilter{})
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(model.ActionRegistration, logs[0].Action)
}

func ids(games []*model.GameResult) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

func auditIDs(logs []*model.AuditLog) []string {
	out := make([]string, len(logs))
	for i, a := range logs {
		out[i] = a.ID
	}
	return out
}
