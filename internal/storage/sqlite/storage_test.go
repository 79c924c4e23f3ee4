package sqlite

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/slotmachine-go/internal/db"
	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
	"github.com/mcoot/slotmachine-go/internal/storage/storagetest"
)

var dbCounter atomic.Int64

// newTestStorage returns storage over a fresh in-memory database with the
// production schema.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	conn, err := db.OpenMemory(context.Background(), fmt.Sprintf("test_%d", dbCounter.Add(1)))
	require.NoError(t, err)
	return New(conn)
}

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage {
		return newTestStorage(s.T())
	}
	suite.Run(t, s)
}

func (s *StorageSuite) TestTimesRoundTripWithNanoseconds() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 123456789, time.UTC)
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{
		Player: &model.Player{StudentNumber: "C1", FirstName: "Ana", LastName: "Lee", RegistrationDate: at},
	}))

	p, err := s.Storage.FindPlayer(s.Ctx, "C1")
	s.Require().NoError(err)
	s.True(at.Equal(p.RegistrationDate))
}

func (s *StorageSuite) TestFailedBatchRollsBackEarlierInserts() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{
		Player: &model.Player{StudentNumber: "C1", FirstName: "Ana", LastName: "Lee", RegistrationDate: at},
	}))

	// The audit insert reuses an existing ID, so the game insert before it
	// must not survive
	s.Require().NoError(s.Storage.Apply(s.Ctx, storage.Batch{
		AuditLog: &model.AuditLog{ID: "a-1", StudentNumber: "C1", Action: model.ActionPlayerValidation, Status: model.AuditStatusInfo, Timestamp: at},
	}))
	err := s.Storage.Apply(s.Ctx, storage.Batch{
		GameResult: &model.GameResult{ID: "g-1", StudentNumber: "C1", Result: "win", DatePlayed: at},
		AuditLog:   &model.AuditLog{ID: "a-1", StudentNumber: "C1", Action: model.ActionGamePlayed, Status: model.AuditStatusSuccess, Timestamp: at},
	})
	s.Require().Error(err)

	count, err := s.Storage.CountGameResults(s.Ctx, storage.GameFilter{})
	s.Require().NoError(err)
	s.Equal(0, count)
}
