package dto

type CreateInterviewRequest struct {
	CategoryCode string `json:"category_code" binding:"required"`
	IsRetake     bool   `json:"is_retake"`
}

type RecordAnswerRequest struct {
	QuestionID      uint   `json:"question_id" binding:"required"`
	MediaRef        string `json:"media_ref" binding:"required"`
	DurationSeconds int    `json:"duration_seconds" binding:"min=0"`
}

type CreateApplicantRequest struct {
	FirstName string `json:"first_name" binding:"required" validate:"required"`
	LastName  string `json:"last_name" binding:"required" validate:"required"`
	Email     string `json:"email" binding:"required,email" validate:"required,email"`
	Phone     string `json:"phone"`
}

type CreateJobCategoryRequest struct {
	Code  string `json:"code" binding:"required" validate:"required,lowercase"`
	Title string `json:"title" binding:"required" validate:"required"`
}

type CreateQuestionRequest struct {
	CategoryCode string `json:"category_code" binding:"required" validate:"required"`
	QuestionText string `json:"question_text" binding:"required" validate:"required,min=10"`
	Competency   string `json:"competency" binding:"required" validate:"required"`
	Order        int    `json:"order"`
}

type InviteApplicantRequest struct {
	ExpiryHours int `json:"expiry_hours" validate:"omitempty,min=1,max=168"`
}
