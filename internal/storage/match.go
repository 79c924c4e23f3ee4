package storage

import (
	"sort"
	"time"

	"github.com/mcoot/slotmachine-go/internal/model"
)

// Helpers shared by backends that filter and sort in process.

// InRange reports whether t lies within the inclusive bounds; zero bounds are open
func InRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

// MatchGame reports whether g satisfies the filter's field and date constraints
func MatchGame(g *model.GameResult, f GameFilter) bool {
	if f.StudentNumber != "" && g.StudentNumber != f.StudentNumber {
		return false
	}
	if f.Result != "" && g.Result != f.Result {
		return false
	}
	return InRange(g.DatePlayed, f.From, f.To)
}

// MatchAudit reports whether a satisfies the filter's field and date constraints
func MatchAudit(a *model.AuditLog, f AuditFilter) bool {
	if f.StudentNumber != "" && a.StudentNumber != f.StudentNumber {
		return false
	}
	return InRange(a.Timestamp, f.From, f.To)
}

// SortGames orders games by DatePlayed, breaking ties by ID
func SortGames(games []*model.GameResult, order Order) {
	sort.SliceStable(games, func(i, j int) bool {
		return less(games[i].DatePlayed, games[i].ID, games[j].DatePlayed, games[j].ID, order)
	})
}

// SortAuditLogs orders audit entries by Timestamp, breaking ties by ID
func SortAuditLogs(logs []*model.AuditLog, order Order) {
	sort.SliceStable(logs, func(i, j int) bool {
		return less(logs[i].Timestamp, logs[i].ID, logs[j].Timestamp, logs[j].ID, order)
	})
}

// SortPlayers orders players by RegistrationDate descending, ties by student number
func SortPlayers(players []*model.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if !a.RegistrationDate.Equal(b.RegistrationDate) {
			return a.RegistrationDate.After(b.RegistrationDate)
		}
		return a.StudentNumber > b.StudentNumber
	})
}

// Truncate applies a query limit
func Truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func less(ta time.Time, ida string, tb time.Time, idb string, order Order) bool {
	if order == OldestFirst {
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
		return ida < idb
	}
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return ida > idb
}
