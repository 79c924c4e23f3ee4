package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/slotmachine-go/internal/model"
)

func TestStorable(t *testing.T) {
	assert.True(t, Storable(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, Storable(MinStorableTime))
	assert.True(t, Storable(MaxStorableTime))
	assert.False(t, Storable(MaxStorableTime.Add(time.Nanosecond)))
	assert.False(t, Storable(time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, Storable(time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCheckBatch(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	far := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, CheckBatch(Batch{
		GameResult: &model.GameResult{DatePlayed: now},
		AuditLog:   &model.AuditLog{Timestamp: now},
	}))
	assert.ErrorIs(t, CheckBatch(Batch{GameResult: &model.GameResult{DatePlayed: far}}), model.ErrDateOutOfRange)
	assert.ErrorIs(t, CheckBatch(Batch{Player: &model.Player{RegistrationDate: far}}), model.ErrDateOutOfRange)
	assert.ErrorIs(t, CheckBatch(Batch{AuditLog: &model.AuditLog{Timestamp: far}}), model.ErrDateOutOfRange)
}

func TestNanoRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	lo, hi, ok := NanoRange(from, to)
	require.True(t, ok)
	require.NotNil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, from.UnixNano(), *lo)
	assert.Equal(t, to.UnixNano(), *hi)

	lo, hi, ok = NanoRange(time.Time{}, time.Time{})
	assert.True(t, ok)
	assert.Nil(t, lo)
	assert.Nil(t, hi)

	// Bounds past the span are open rather than wrapped
	lo, hi, ok = NanoRange(time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Nil(t, lo)
	assert.Nil(t, hi)

	_, _, ok = NanoRange(time.Date(9000, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	assert.False(t, ok)
	_, _, ok = NanoRange(time.Time{}, time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}
