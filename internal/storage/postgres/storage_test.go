package postgres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/slotmachine-go/internal/storage"
	"github.com/mcoot/slotmachine-go/internal/storage/storagetest"
)

// The suite needs a disposable database; every test truncates it.
const dsnEnv = "POSTGRES_TEST_DSN"

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}

	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage {
		st, err := New(dsn)
		s.Require().NoError(err)
		s.Require().NoError(st.db.Exec("TRUNCATE game_results, audit_logs, players").Error)
		return st
	}
	suite.Run(t, s)
}

func TestOrderBy(t *testing.T) {
	if got := orderBy("date_played_ns", storage.NewestFirst); got != "date_played_ns DESC, id DESC" {
		t.Errorf("newest first: got %q", got)
	}
	if got := orderBy("timestamp_ns", storage.OldestFirst); got != "timestamp_ns ASC, id ASC" {
		t.Errorf("oldest first: got %q", got)
	}
}
