package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/slotmachine-go/internal/model"
)

func TestInRangeInclusiveBounds(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, InRange(from, from, to))
	assert.True(t, InRange(to, from, to))
	assert.False(t, InRange(from.Add(-time.Nanosecond), from, to))
	assert.False(t, InRange(to.Add(time.Nanosecond), from, to))
	assert.True(t, InRange(from.Add(-time.Hour), time.Time{}, to))
	assert.True(t, InRange(to.Add(time.Hour), from, time.Time{}))
}

func TestSortGamesBreaksTiesByID(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	games := []*model.GameResult{
		{ID: "a", DatePlayed: at},
		{ID: "c", DatePlayed: at.Add(-time.Minute)},
		{ID: "b", DatePlayed: at},
	}

	SortGames(games, NewestFirst)
	assert.Equal(t, []string{"b", "a", "c"}, gameIDs(games))

	SortGames(games, OldestFirst)
	assert.Equal(t, []string{"c", "a", "b"}, gameIDs(games))
}

func TestMatchGame(t *testing.T) {
	g := &model.GameResult{StudentNumber: "C1", Result: "win", DatePlayed: time.Now()}

	assert.True(t, MatchGame(g, GameFilter{}))
	assert.True(t, MatchGame(g, GameFilter{StudentNumber: "C1", Result: "win"}))
	assert.False(t, MatchGame(g, GameFilter{StudentNumber: "C2"}))
	assert.False(t, MatchGame(g, GameFilter{Result: "lose"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, []int{1, 2}, Truncate([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1, 2, 3}, Truncate([]int{1, 2, 3}, 0))
	assert.Equal(t, []int{1}, Truncate([]int{1}, 5))
}

func gameIDs(games []*model.GameResult) []string {
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}
