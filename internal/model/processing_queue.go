package model

import "time"

// Queue entry statuses.
const (
	QueueStatusQueued    = "queued"
	QueueStatusCompleted = "completed"
	QueueStatusFailed    = "failed"
)

const ProcessingTypeBulkAnalysis = "bulk_analysis"

// ProcessingQueue is an audit record of one enqueue attempt. Multiple rows may
// exist per interview; the interview's CurrentQueueEntryID points at the one
// that matters for status reporting.
type ProcessingQueue struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	InterviewID    uint      `json:"interview_id" gorm:"not null;index"`
	ProcessingType string    `json:"processing_type" gorm:"not null;default:'bulk_analysis'"`
	Status         string    `json:"status" gorm:"default:'queued'"`
	TaskID         string    `json:"task_id" gorm:"not null"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
