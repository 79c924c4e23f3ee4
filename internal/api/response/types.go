package response

import (
	"time"

	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/services/cooldown"
	"github.com/mcoot/slotmachine-go/internal/services/reporting"
)

// Success messages
const (
	MessageUserRegistered = "User registered successfully"
	MessageGameSaved      = "Game result saved successfully"
)

// Player represents a registered player in API responses
type Player struct {
	StudentNumber    string    `json:"student_number"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	RegistrationDate time.Time `json:"registration_date"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		StudentNumber:    p.StudentNumber,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		RegistrationDate: p.RegistrationDate,
	}
}

// RegisterUserResponse is the response for a successful registration
type RegisterUserResponse struct {
	Message string `json:"message"`
	Player  Player `json:"player"`
}

// UsersResponse lists registered players
type UsersResponse struct {
	Users []Player `json:"users"`
}

// ValidationResponse reports whether a player may play now
type ValidationResponse struct {
	IsValid     bool   `json:"is_valid"`
	StudentName string `json:"student_name,omitempty"`
	Message     string `json:"message"`
}

// ValidationFromResult converts a cooldown.Validation
func ValidationFromResult(v cooldown.Validation) ValidationResponse {
	return ValidationResponse{
		IsValid:     v.Valid,
		StudentName: v.StudentName,
		Message:     v.Message,
	}
}

// GameResult represents a recorded play
type GameResult struct {
	ID            string    `json:"id"`
	StudentNumber string    `json:"student_number"`
	Result        string    `json:"result"`
	RetryCount    int       `json:"retry_count"`
	DatePlayed    time.Time `json:"date_played"`
}

// GameResultFromModel converts a model.GameResult
func GameResultFromModel(g *model.GameResult) GameResult {
	return GameResult{
		ID:            g.ID,
		StudentNumber: g.StudentNumber,
		Result:        g.Result,
		RetryCount:    g.RetryCount,
		DatePlayed:    g.DatePlayed,
	}
}

// SaveGameResponse is the response for a recorded game
type SaveGameResponse struct {
	Message string     `json:"message"`
	Game    GameResult `json:"game"`
}

// GameRow is a game result with the player's name
type GameRow struct {
	GameResult
	StudentName string `json:"student_name"`
}

// GamesResponse lists game rows
type GamesResponse struct {
	Games []GameRow `json:"games"`
}

// GamesFromRows converts reporting rows
func GamesFromRows(rows []reporting.GameRow) GamesResponse {
	games := make([]GameRow, len(rows))
	for i := range rows {
		games[i] = GameRow{
			GameResult:  GameResultFromModel(&rows[i].GameResult),
			StudentName: rows[i].StudentName,
		}
	}
	return GamesResponse{Games: games}
}

// RecentPlayer is a student's latest play inside the cooldown window
type RecentPlayer struct {
	GameID        string    `json:"game_id"`
	StudentNumber string    `json:"student_number"`
	StudentName   string    `json:"student_name"`
	DatePlayed    time.Time `json:"date_played"`
}

// RecentPlayersResponse lists recent players
type RecentPlayersResponse struct {
	Players []RecentPlayer `json:"players"`
}

// RecentPlayersFromReport converts reporting.RecentPlayer values
func RecentPlayersFromReport(recent []reporting.RecentPlayer) RecentPlayersResponse {
	players := make([]RecentPlayer, len(recent))
	for i, p := range recent {
		players[i] = RecentPlayer{
			GameID:        p.GameID,
			StudentNumber: p.StudentNumber,
			StudentName:   p.StudentName,
			DatePlayed:    p.DatePlayed,
		}
	}
	return RecentPlayersResponse{Players: players}
}

// Stats summarises players and games
type Stats struct {
	TotalPlayers int     `json:"total_players"`
	TotalGames   int     `json:"total_games"`
	TotalWins    int     `json:"total_wins"`
	WinRate      float64 `json:"win_rate"`
}

// StatsFromReport converts reporting.Stats
func StatsFromReport(s reporting.Stats) Stats {
	return Stats{
		TotalPlayers: s.TotalPlayers,
		TotalGames:   s.TotalGames,
		TotalWins:    s.TotalWins,
		WinRate:      s.WinRate,
	}
}

// AuditLog represents an audit trail entry
type AuditLog struct {
	ID            string    `json:"id"`
	StudentNumber string    `json:"student_number"`
	Action        string    `json:"action"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Details       string    `json:"details"`
}

// AuditResponse lists audit entries
type AuditResponse struct {
	Logs []AuditLog `json:"logs"`
}

// AuditFromModels converts model.AuditLog values
func AuditFromModels(logs []*model.AuditLog) AuditResponse {
	out := make([]AuditLog, len(logs))
	for i, l := range logs {
		out[i] = AuditLog{
			ID:            l.ID,
			StudentNumber: l.StudentNumber,
			Action:        l.Action,
			Status:        string(l.Status),
			Timestamp:     l.Timestamp,
			Details:       l.Details,
		}
	}
	return AuditResponse{Logs: out}
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status string `json:"status"`
}
