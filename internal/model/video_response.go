package model

import (
	"time"

	"gorm.io/gorm"
)

// Video response statuses.
const (
	VideoUploaded = "uploaded"
	VideoAnalyzed = "analyzed"
	VideoFailed   = "failed"
)

// VideoResponse is one recorded answer. The (interview, question) pair is
// unique; a second submission for an already-answered question is rejected
// before this constraint is ever hit.
type VideoResponse struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	InterviewID uint              `json:"interview_id" gorm:"not null;uniqueIndex:ux_interview_question"`
	QuestionID  uint              `json:"question_id" gorm:"not null;uniqueIndex:ux_interview_question"`
	Question    InterviewQuestion `json:"question,omitempty" gorm:"foreignKey:QuestionID"`

	MediaRef         string `json:"media_ref" gorm:"not null"`
	DurationSeconds  int    `json:"duration_seconds"`
	TimeLimitReached bool   `json:"time_limit_reached" gorm:"default:false"`

	Transcript string   `json:"transcript,omitempty" gorm:"type:text"`
	Score      *float64 `json:"score,omitempty"`
	Status     string   `json:"status" gorm:"default:'uploaded'"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
