package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type QuestionResponse struct {
	ID           uint   `json:"id"`
	QuestionText string `json:"question_text"`
	Competency   string `json:"competency"`
	Order        int    `json:"order"`
}

type SlotSelectionResponse struct {
	SlotCompetency     string `json:"slot_competency"`
	SelectedCompetency string `json:"selected_competency"`
	QuestionID         uint   `json:"question_id"`
	FallbackUsed       bool   `json:"fallback_used"`
}

type InterviewDetail struct {
	PublicID             string                  `json:"public_id"`
	Status               string                  `json:"status"`
	CategoryCode         string                  `json:"category_code,omitempty"`
	Questions            []QuestionResponse      `json:"questions"`
	SelectionMetadata    []SlotSelectionResponse `json:"selection_metadata"`
	CurrentQuestionIndex int                     `json:"current_question_index"`
	AnsweredCount        int                     `json:"answered_count"`
	IsRetake             bool                    `json:"is_retake"`
	ExpiresAt            *time.Time              `json:"expires_at,omitempty"`
	SubmittedAt          *time.Time              `json:"submitted_at,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
}

type AnswerReceipt struct {
	QuestionID           uint   `json:"question_id"`
	DurationSeconds      int    `json:"duration_seconds"`
	TimeLimitReached     bool   `json:"time_limit_reached"`
	InterviewStatus      string `json:"interview_status"`
	CurrentQuestionIndex int    `json:"current_question_index"`
}

type SubmitResult struct {
	AlreadyEnqueued  bool   `json:"already_enqueued"`
	ProcessingStatus string `json:"processing_status"`
	TaskID           string `json:"task_id,omitempty"`
	QueueEntryID     uint   `json:"queue_entry_id,omitempty"`
}

type ProcessingProgress struct {
	TotalVideos int64 `json:"total_videos"`
	Processed   int64 `json:"processed"`
	Remaining   int64 `json:"remaining"`
}

type ProcessingStatus struct {
	PublicID               string             `json:"public_id"`
	InterviewStatus        string             `json:"interview_status"`
	ProcessingStatus       string             `json:"processing_status"`
	TaskID                 string             `json:"task_id,omitempty"`
	StartedAt              *time.Time         `json:"processing_started_at,omitempty"`
	FinishedAt             *time.Time         `json:"processing_finished_at,omitempty"`
	Error                  string             `json:"error,omitempty"`
	QueueEntryID           uint               `json:"queue_entry_id,omitempty"`
	QueueEntryStatus       string             `json:"queue_entry_status,omitempty"`
	Progress               ProcessingProgress `json:"progress"`
	EstimatedTimeRemaining string             `json:"estimated_time_remaining,omitempty"`
	Message                string             `json:"message,omitempty"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	Phase     string    `json:"phase"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MagicLoginResponse struct {
	ApplicantID        uint   `json:"applicant_id"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Phase              string `json:"phase"`
	InterviewPublicID  string `json:"interview_public_id,omitempty"`
	InterviewToken     string `json:"interview_token,omitempty"`
	InterviewCompleted bool   `json:"interview_completed"`
	// RotatedToken is set by the QR login flow only; the presented token is
	// superseded the moment this one is issued.
	RotatedToken string `json:"rotated_token,omitempty"`
}

type CreateInterviewResponse struct {
	Interview   InterviewDetail `json:"interview"`
	AccessToken string          `json:"access_token"`
}
