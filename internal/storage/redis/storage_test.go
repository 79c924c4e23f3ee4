package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
	"github.com/mcoot/slotmachine-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini *miniredis.Miniredis
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage {
		s.mini = miniredis.RunT(s.T())
		client := redis.NewClient(&redis.Options{
			Addr: s.mini.Addr(),
		})
		return NewWithClient(client, DefaultConfig())
	}
	suite.Run(t, s)
}

func (s *StorageSuite) TestRecordsHaveNoTTL() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{
		Player: &model.Player{StudentNumber: "C1", FirstName: "Ana", LastName: "Lee", RegistrationDate: at},
	}))
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{
		GameResult: &model.GameResult{ID: "g-1", StudentNumber: "C1", Result: "win", DatePlayed: at},
		AuditLog:   &model.AuditLog{ID: "a-1", StudentNumber: "C1", Timestamp: at},
	}))

	s.Equal(time.Duration(0), s.mini.TTL(playerKey("C1")))
	s.Equal(time.Duration(0), s.mini.TTL(gameKey("g-1")))
	s.Equal(time.Duration(0), s.mini.TTL(auditKey("a-1")))
}

func (s *StorageSuite) TestGameIndicesAreWritten() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{
		Player: &model.Player{StudentNumber: "C1", FirstName: "Ana", LastName: "Lee", RegistrationDate: at},
	}))
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{
		GameResult: &model.GameResult{ID: "g-1", StudentNumber: "C1", Result: "win", DatePlayed: at},
	}))

	for _, key := range []string{gamesIndexKey(), gamesByStudentIndexKey("C1"), gamesByResultIndexKey("win")} {
		members, err := s.mini.ZMembers(key)
		s.Require().NoError(err, key)
		s.Equal([]string{"g-1"}, members, key)
	}
}

func (s *StorageSuite) TestSubMillisecondBoundsAreExact() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 500_000, time.UTC) // 0.5ms past the second
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{
		Player: &model.Player{StudentNumber: "C1", FirstName: "Ana", LastName: "Lee", RegistrationDate: at},
	}))
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{
		GameResult: &model.GameResult{ID: "g-1", StudentNumber: "C1", Result: "win", DatePlayed: at},
	}))

	// Same millisecond score, but strictly after the game
	games, err := s.Storage.QueryGameResults(s.Ctx, storage.GameFilter{From: at.Add(time.Microsecond)})
	s.Require().NoError(err)
	s.Empty(games)

	count, err := s.Storage.CountGameResults(s.Ctx, storage.GameFilter{To: at.Add(-time.Microsecond)})
	s.Require().NoError(err)
	s.Equal(0, count)
}
