package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RegisterResult:
		fmt.Fprintln(o.w, v.Message)
		o.printPlayer(v.Player)
	case UsersResult:
		o.printUsers(v)
	case Validation:
		o.printValidation(v)
	case SaveGameResult:
		o.printSaveGame(v)
	case GamesResult:
		o.printGames(v)
	case RecentPlayersResult:
		o.printRecent(v)
	case Stats:
		o.printStats(v)
	case AuditResult:
		o.printAudit(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	StudentNumber    string    `json:"student_number"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	RegistrationDate time.Time `json:"registration_date"`
}

// RegisterResult is the register-user response
type RegisterResult struct {
	Message string `json:"message"`
	Player  Player `json:"player"`
}

// UsersResult is the users listing
type UsersResult struct {
	Users []Player `json:"users"`
}

// Validation is the validate-player response
type Validation struct {
	IsValid     bool   `json:"is_valid"`
	StudentName string `json:"student_name,omitempty"`
	Message     string `json:"message"`
}

// GameResult response type
type GameResult struct {
	ID            string    `json:"id"`
	StudentNumber string    `json:"student_number"`
	Result        string    `json:"result"`
	RetryCount    int       `json:"retry_count"`
	DatePlayed    time.Time `json:"date_played"`
}

// SaveGameResult is the save-game response
type SaveGameResult struct {
	Message string     `json:"message"`
	Game    GameResult `json:"game"`
}

// GameRow is a game joined with its player's name
type GameRow struct {
	GameResult
	StudentName string `json:"student_name"`
}

// GamesResult lists games or winners
type GamesResult struct {
	Games []GameRow `json:"games"`
}

// RecentPlayer response type
type RecentPlayer struct {
	GameID        string    `json:"game_id"`
	StudentNumber string    `json:"student_number"`
	StudentName   string    `json:"student_name"`
	DatePlayed    time.Time `json:"date_played"`
}

// RecentPlayersResult lists recent players
type RecentPlayersResult struct {
	Players []RecentPlayer `json:"players"`
}

// Stats response type
type Stats struct {
	TotalPlayers int     `json:"total_players"`
	TotalGames   int     `json:"total_games"`
	TotalWins    int     `json:"total_wins"`
	WinRate      float64 `json:"win_rate"`
}

// AuditLog response type
type AuditLog struct {
	ID            string    `json:"id"`
	StudentNumber string    `json:"student_number"`
	Action        string    `json:"action"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Details       string    `json:"details"`
}

// AuditResult lists audit entries
type AuditResult struct {
	Logs []AuditLog `json:"logs"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

const timeLayout = "2006-01-02 15:04:05"

func (o *Output) table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
}

func (o *Output) printPlayer(p Player) {
	fmt.Fprintf(o.w, "Player: %s %s (%s)\n", p.FirstName, p.LastName, p.StudentNumber)
	fmt.Fprintf(o.w, "Registered: %s\n", p.RegistrationDate.Format(timeLayout))
}

func (o *Output) printUsers(u UsersResult) {
	if len(u.Users) == 0 {
		fmt.Fprintln(o.w, "No players registered")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "STUDENT\tNAME\tREGISTERED")
	for _, p := range u.Users {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\n", p.StudentNumber, p.FirstName, p.LastName, p.RegistrationDate.Format(timeLayout))
	}
	_ = tw.Flush()
}

func (o *Output) printValidation(v Validation) {
	if v.IsValid {
		fmt.Fprintf(o.w, "OK: %s may play\n", v.StudentName)
	} else {
		fmt.Fprintln(o.w, "BLOCKED")
	}
	fmt.Fprintln(o.w, v.Message)
}

func (o *Output) printSaveGame(s SaveGameResult) {
	fmt.Fprintln(o.w, s.Message)
	fmt.Fprintf(o.w, "Game: %s\n", s.Game.ID)
	fmt.Fprintf(o.w, "Player: %s\n", s.Game.StudentNumber)
	fmt.Fprintf(o.w, "Result: %s (%d retries)\n", s.Game.Result, s.Game.RetryCount)
	fmt.Fprintf(o.w, "Played: %s\n", s.Game.DatePlayed.Format(timeLayout))
}

func (o *Output) printGames(g GamesResult) {
	if len(g.Games) == 0 {
		fmt.Fprintln(o.w, "No games found")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "PLAYED\tSTUDENT\tNAME\tRESULT\tRETRIES")
	for _, row := range g.Games {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			row.DatePlayed.Format(timeLayout), row.StudentNumber, row.StudentName, row.Result, row.RetryCount)
	}
	_ = tw.Flush()
}

func (o *Output) printRecent(r RecentPlayersResult) {
	if len(r.Players) == 0 {
		fmt.Fprintln(o.w, "No recent players")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "PLAYED\tSTUDENT\tNAME")
	for _, p := range r.Players {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.DatePlayed.Format(timeLayout), p.StudentNumber, p.StudentName)
	}
	_ = tw.Flush()
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.w, "Players: %d\n", s.TotalPlayers)
	fmt.Fprintf(o.w, "Games: %d\n", s.TotalGames)
	fmt.Fprintf(o.w, "Wins: %d\n", s.TotalWins)
	fmt.Fprintf(o.w, "Win rate: %.2f%%\n", s.WinRate)
}

func (o *Output) printAudit(a AuditResult) {
	if len(a.Logs) == 0 {
		fmt.Fprintln(o.w, "No audit entries")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "TIME\tSTUDENT\tACTION\tSTATUS\tDETAILS")
	for _, l := range a.Logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			l.Timestamp.Format(timeLayout), l.StudentNumber, l.Action, l.Status, l.Details)
	}
	_ = tw.Flush()
}
