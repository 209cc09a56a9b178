package model

import "time"

// Audit events.
const (
	AuditResume          = "resume"
	AuditAnswerRecorded  = "answer_recorded"
	AuditAnswerTimeLimit = "answer_time_limit"
)

// InterviewAuditLog is append-only; one row per meaningful event.
type InterviewAuditLog struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	InterviewID uint           `json:"interview_id" gorm:"not null;index"`
	Event       string         `json:"event" gorm:"not null"`
	Detail      map[string]any `json:"detail,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time      `json:"created_at"`
}
