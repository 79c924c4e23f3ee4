package request

import (
	"errors"
	"time"
)

// RegisterUserRequest is the request body for registering a player
type RegisterUserRequest struct {
	StudentNumber string `json:"student_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
}

// SaveGameRequest is the request body for recording a game result
type SaveGameRequest struct {
	StudentNumber string    `json:"student_number"`
	Result        string    `json:"result"`
	RetryCount    int       `json:"retry_count"`
	DatePlayed    time.Time `json:"date_played"`
}

// DateLayout is the calendar-date form accepted for range parameters
const DateLayout = "2006-01-02"

var errBadDate = errors.New("date must be YYYY-MM-DD or RFC3339")

// ParseDate accepts a calendar date (midnight UTC) or an RFC3339 timestamp
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, errBadDate
}
