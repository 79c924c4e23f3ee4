package postgres

import (
	"time"

	"github.com/mcoot/slotmachine-go/internal/model"
)

// Times are stored as Unix nanoseconds: Postgres timestamps only keep
// microseconds and range bounds must be exact.

type playerRow struct {
	StudentNumber      string `gorm:"primaryKey;size:20"`
	FirstName          string `gorm:"size:50;not null"`
	LastName           string `gorm:"size:50;not null"`
	RegistrationDateNs int64  `gorm:"not null;index"`
}

func (playerRow) TableName() string { return "players" }

func (r *playerRow) toModel() *model.Player {
	return &model.Player{
		StudentNumber:    r.StudentNumber,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		RegistrationDate: fromNanos(r.RegistrationDateNs),
	}
}

type gameResultRow struct {
	ID            string `gorm:"primaryKey"`
	StudentNumber string `gorm:"size:20;not null;index:idx_game_results_student"`
	Result        string `gorm:"not null"`
	RetryCount    int    `gorm:"not null"`
	DatePlayedNs  int64  `gorm:"not null;index;index:idx_game_results_student"`

	Player playerRow `gorm:"foreignKey:StudentNumber;references:StudentNumber"`
}

func (gameResultRow) TableName() string { return "game_results" }

func (r *gameResultRow) toModel() *model.GameResult {
	return &model.GameResult{
		ID:            r.ID,
		StudentNumber: r.StudentNumber,
		Result:        r.Result,
		RetryCount:    r.RetryCount,
		DatePlayed:    fromNanos(r.DatePlayedNs),
	}
}

type auditLogRow struct {
	ID            string `gorm:"primaryKey"`
	StudentNumber string `gorm:"not null;index:idx_audit_logs_student"`
	Action        string `gorm:"not null"`
	Status        string `gorm:"not null"`
	TimestampNs   int64  `gorm:"not null;index;index:idx_audit_logs_student"`
	Details       string `gorm:"not null"`
}

func (auditLogRow) TableName() string { return "audit_logs" }

func (r *auditLogRow) toModel() *model.AuditLog {
	return &model.AuditLog{
		ID:            r.ID,
		StudentNumber: r.StudentNumber,
		Action:        r.Action,
		Status:        model.AuditStatus(r.Status),
		Timestamp:     fromNanos(r.TimestampNs),
		Details:       r.Details,
	}
}

func fromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
