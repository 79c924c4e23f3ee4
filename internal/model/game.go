package model

import "time"

// ResultWin is the only game result the system interprets; every other
// result string is stored as-is.
const ResultWin = "win"

// GameResult records one play of the slot game
type GameResult struct {
	ID            string    `json:"id"`
	StudentNumber string    `json:"student_number"`
	Result        string    `json:"result"`
	RetryCount    int       `json:"retry_count"`
	DatePlayed    time.Time `json:"date_played"`
}

// IsWin reports whether the play was a win
func (g *GameResult) IsWin() bool {
	return g.Result == ResultWin
}
