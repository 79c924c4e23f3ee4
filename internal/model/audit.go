package model

import "time"

// AuditStatus classifies an audit entry
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "Success"
	AuditStatusInfo    AuditStatus = "Info"
	AuditStatusWarning AuditStatus = "Warning"
	AuditStatusError   AuditStatus = "Error"
)

// Audit action labels
const (
	ActionRegistration     = "Registration"
	ActionGamePlayed       = "Game Played"
	ActionPlayerValidation = "Player Validation"
)

// AuditLog is an append-only record of a state-changing or security-relevant action
type AuditLog struct {
	ID            string      `json:"id"`
	StudentNumber string      `json:"student_number"`
	Action        string      `json:"action"`
	Status        AuditStatus `json:"status"`
	Timestamp     time.Time   `json:"timestamp"` // server-assigned, UTC
	Details       string      `json:"details"`
}
