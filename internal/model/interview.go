package model

import (
	"time"

	"gorm.io/gorm"
)

// InterviewStatus is the application-facing lifecycle of an interview.
type InterviewStatus string

const (
	StatusPending    InterviewStatus = "pending"
	StatusInProgress InterviewStatus = "in_progress"
	StatusProcessing InterviewStatus = "processing"
	StatusCompleted  InterviewStatus = "completed"
	StatusFailed     InterviewStatus = "failed"
)

// Terminal reports whether no further answers or submissions are accepted.
func (s InterviewStatus) Terminal() bool {
	return s == StatusProcessing || s == StatusCompleted || s == StatusFailed
}

// ProcessingStatus is the background-analysis lifecycle, independent of the
// interview's own status. It only moves forward except for an explicit forced
// re-queue from FAILED or SUCCEEDED.
type ProcessingStatus string

const (
	ProcessingIdle      ProcessingStatus = "IDLE"
	ProcessingQueued    ProcessingStatus = "QUEUED"
	ProcessingRunning   ProcessingStatus = "RUNNING"
	ProcessingSucceeded ProcessingStatus = "SUCCEEDED"
	ProcessingFailed    ProcessingStatus = "FAILED"
)

// SlotSelection records how one blueprint slot was filled at creation time.
type SlotSelection struct {
	SlotCompetency     string `json:"slot_competency"`
	SelectedCompetency string `json:"selected_competency"`
	QuestionID         uint   `json:"question_id"`
	FallbackUsed       bool   `json:"fallback_used"`
}

type Interview struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	PublicID string `json:"public_id" gorm:"type:uuid;not null;uniqueIndex"`

	ApplicantID uint        `json:"applicant_id" gorm:"not null;index"`
	Applicant   Applicant   `json:"applicant,omitempty" gorm:"foreignKey:ApplicantID"`
	CategoryID  uint        `json:"category_id" gorm:"not null;index"`
	Category    JobCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`

	Status InterviewStatus `json:"status" gorm:"default:'pending'"`

	// Frozen at creation; selection happens exactly once per interview.
	SelectedQuestionIDs  []uint          `json:"selected_question_ids" gorm:"serializer:json"`
	SelectionMetadata    []SlotSelection `json:"selection_metadata" gorm:"serializer:json"`
	CurrentQuestionIndex int             `json:"current_question_index" gorm:"default:0"`

	IsRetake    bool       `json:"is_retake" gorm:"default:false"`
	Archived    bool       `json:"archived" gorm:"default:false"`
	ExpiresAt   *time.Time `json:"expires_at"`
	SubmittedAt *time.Time `json:"submitted_at"`

	ProcessingStatus     ProcessingStatus `json:"processing_status" gorm:"default:'IDLE'"`
	ProcessingTaskID     string           `json:"processing_task_id"`
	ProcessingError      string           `json:"processing_error"`
	ProcessingStartedAt  *time.Time       `json:"processing_started_at"`
	ProcessingFinishedAt *time.Time       `json:"processing_finished_at"`

	// Current enqueue attempt, updated transactionally with ProcessingStatus.
	// Avoids the latest-row-by-created_at race on the queue table.
	CurrentQueueEntryID *uint `json:"current_queue_entry_id"`

	VideoResponses []VideoResponse `json:"video_responses,omitempty" gorm:"foreignKey:InterviewID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Expired reports whether the interview's own deadline has passed.
func (i *Interview) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}
