package model

import (
	"regexp"
	"time"
)

// Field limits for player identity data
const (
	MaxStudentNumberLength = 20
	MaxNameLength          = 50
)

// studentNumberPattern matches an uppercase "C" followed by one or more digits
var studentNumberPattern = regexp.MustCompile(`^C\d+$`)

// Player is a registered student who may play the slot game
type Player struct {
	StudentNumber    string    `json:"student_number"` // primary key, immutable
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	RegistrationDate time.Time `json:"registration_date"`
}

// FullName returns the player's display name
func (p *Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ValidStudentNumber reports whether s has the student number format
func ValidStudentNumber(s string) bool {
	return studentNumberPattern.MatchString(s)
}
