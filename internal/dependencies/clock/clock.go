// Package clock abstracts the current time so cooldown and audit logic can be
// driven by a mock in tests.
package clock

import "time"

// Clock reports the current instant
type Clock interface {
	Now() time.Time
}

// UTC reads the system clock. Registration dates and audit timestamps are
// server-assigned, and all of them are UTC.
type UTC struct{}

// New returns the system UTC clock
func New() UTC {
	return UTC{}
}

func (UTC) Now() time.Time {
	return time.Now().UTC()
}
