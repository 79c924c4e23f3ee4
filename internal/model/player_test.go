package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStudentNumber(t *testing.T) {
	cases := map[string]bool{
		"C1":        true,
		"C1001":     true,
		"C0000":     true,
		"":          false,
		"C":         false,
		"c1001":     false,
		"D1001":     false,
		"C10A1":     false,
		" C1001":    false,
		"C1001 ":    false,
		"C1001\n":   false,
		"CC1001":    false,
		"C-1001":    false,
		"C１２３": false, // fullwidth digits are not \d in RE2
	}

	for input, want := range cases {
		assert.Equal(t, want, ValidStudentNumber(input), "input %q", input)
	}
}

func TestPlayerFullName(t *testing.T) {
	p := &Player{StudentNumber: "C1001", FirstName: "Ana", LastName: "Lee"}
	assert.Equal(t, "Ana Lee", p.FullName())
}

func TestGameResultIsWin(t *testing.T) {
	assert.True(t, (&GameResult{Result: "win"}).IsWin())
	assert.False(t, (&GameResult{Result: "lose"}).IsWin())
	assert.False(t, (&GameResult{Result: "Win"}).IsWin())
}
