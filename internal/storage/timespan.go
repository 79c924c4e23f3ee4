package storage

import (
	"math"
	"time"

	"github.com/mcoot/slotmachine-go/internal/model"
)

// Every backend must agree on which times exist, and the SQL backends keep
// times as int64 Unix nanoseconds, so that span bounds all stored times.
var (
	MinStorableTime = time.Unix(0, math.MinInt64).UTC()
	MaxStorableTime = time.Unix(0, math.MaxInt64).UTC()
)

// Storable reports whether t lies within the span every backend can persist
func Storable(t time.Time) bool {
	return !t.Before(MinStorableTime) && !t.After(MaxStorableTime)
}

// CheckBatch rejects a batch carrying a time no backend can store exactly
func CheckBatch(b Batch) error {
	if b.Player != nil && !Storable(b.Player.RegistrationDate) {
		return model.ErrDateOutOfRange
	}
	if b.GameResult != nil && !Storable(b.GameResult.DatePlayed) {
		return model.ErrDateOutOfRange
	}
	if b.AuditLog != nil && !Storable(b.AuditLog.Timestamp) {
		return model.ErrDateOutOfRange
	}
	return nil
}

// NanoRange converts inclusive filter bounds to Unix nanoseconds. A bound
// beyond the storable span is dropped, since no stored time lies past it.
// ok is false when no storable time can satisfy the range.
func NanoRange(from, to time.Time) (lo, hi *int64, ok bool) {
	if !from.IsZero() {
		if from.After(MaxStorableTime) {
			return nil, nil, false
		}
		if !from.Before(MinStorableTime) {
			n := from.UnixNano()
			lo = &n
		}
	}
	if !to.IsZero() {
		if to.Before(MinStorableTime) {
			return nil, nil, false
		}
		if !to.After(MaxStorableTime) {
			n := to.UnixNano()
			hi = &n
		}
	}
	return lo, hi, true
}
