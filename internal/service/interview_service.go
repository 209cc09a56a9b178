package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hirelens/hirelens/config"
	"github.com/hirelens/hirelens/internal/apperr"
	"github.com/hirelens/hirelens/internal/dto"
	"github.com/hirelens/hirelens/internal/model"
	"github.com/hirelens/hirelens/internal/repository"
	"github.com/hirelens/hirelens/internal/selection"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// InterviewService owns the interview lifecycle: creation with a frozen
// question selection, resume bookkeeping, answer recording and submission.
type InterviewService interface {
	Create(applicantID uint, req dto.CreateInterviewRequest) (*dto.InterviewDetail, error)
	GetByPublicID(publicID string) (*dto.InterviewDetail, error)
	RecordAnswer(publicID string, req dto.RecordAnswerRequest) (*dto.AnswerReceipt, error)
	Submit(publicID string, force bool) (*dto.SubmitResult, error)
}

type interviewService struct {
	applicantRepo repository.ApplicantRepository
	categoryRepo  repository.JobCategoryRepository
	questionRepo  repository.QuestionRepository
	interviewRepo repository.InterviewRepository
	videoRepo     repository.VideoResponseRepository
	auditRepo     repository.AuditLogRepository
	processing    ProcessingService

	expiry      time.Duration
	durationCap int
	now         func() time.Time
}

func NewInterviewService(
	cfg *config.Config,
	applicantRepo repository.ApplicantRepository,
	categoryRepo repository.JobCategoryRepository,
	questionRepo repository.QuestionRepository,
	interviewRepo repository.InterviewRepository,
	videoRepo repository.VideoResponseRepository,
	auditRepo repository.AuditLogRepository,
	processing ProcessingService,
) InterviewService {
	return &interviewService{
		applicantRepo: applicantRepo,
		categoryRepo:  categoryRepo,
		questionRepo:  questionRepo,
		interviewRepo: interviewRepo,
		videoRepo:     videoRepo,
		auditRepo:     auditRepo,
		processing:    processing,
		expiry:        time.Duration(cfg.Interview.ExpiryHours) * time.Hour,
		durationCap:   cfg.Interview.AnswerDurationCapSeconds,
		now:           time.Now,
	}
}

// Create builds a new interview with its question list frozen at creation.
// Selection failure aborts everything; a partially built interview is never
// persisted.
func (s *interviewService) Create(applicantID uint, req dto.CreateInterviewRequest) (*dto.InterviewDetail, error) {
	if applicantID == 0 {
		return nil, apperr.Validationf("applicant is required")
	}
	applicant, err := s.applicantRepo.FindByID(applicantID)
	if err != nil {
		return nil, apperr.Validationf("applicant not found")
	}
	category, err := s.categoryRepo.FindByCode(req.CategoryCode)
	if err != nil {
		return nil, apperr.Validationf("job category %q not found", req.CategoryCode)
	}
	if !category.IsActive {
		return nil, apperr.Validationf("job category %q is not active", category.Code)
	}

	questions, err := s.questionRepo.FindActiveGeneral(category.ID, selection.Competencies())
	if err != nil {
		return nil, fmt.Errorf("failed to load question pools: %w", err)
	}
	pools := make(map[string][]model.InterviewQuestion)
	for _, q := range questions {
		pools[q.Competency] = append(pools[q.Competency], q)
	}

	publicID := uuid.NewString()
	sel, err := selection.Select(publicID, pools)
	if err != nil {
		log.Error().Err(err).Str("category", category.Code).Msg("Interview creation aborted: question selection failed")
		return nil, err
	}

	expiresAt := s.now().Add(s.expiry)
	interview := &model.Interview{
		PublicID:            publicID,
		ApplicantID:         applicant.ID,
		CategoryID:          category.ID,
		Status:              model.StatusPending,
		SelectedQuestionIDs: sel.QuestionIDs,
		SelectionMetadata:   sel.Slots,
		IsRetake:            req.IsRetake,
		ProcessingStatus:    model.ProcessingIdle,
		ExpiresAt:           &expiresAt,
	}
	if err := s.interviewRepo.Create(interview); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	log.Info().
		Str("publicID", publicID).
		Uint("applicantID", applicant.ID).
		Str("category", category.Code).
		Msg("Interview created with frozen question selection")

	interview.Category = *category
	return s.buildDetail(interview, nil)
}

// GetByPublicID retrieves an interview for the taking UI. Retrieval while
// in_progress is a resume: the current question index is recomputed and the
// event is recorded in the audit trail.
func (s *interviewService) GetByPublicID(publicID string) (*dto.InterviewDetail, error) {
	interview, err := s.accessibleInterview(publicID)
	if err != nil {
		return nil, err
	}

	responses, err := s.videoRepo.FindAllByInterview(interview.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	answered := answeredSet(responses)

	if interview.Status == model.StatusInProgress {
		interview.CurrentQuestionIndex = nextQuestionIndex(interview.SelectedQuestionIDs, answered)
		if err := s.interviewRepo.Update(interview); err != nil {
			return nil, fmt.Errorf("failed to persist resume position: %w", err)
		}
		s.audit(interview.ID, model.AuditResume, map[string]any{
			"answered_count":         len(answered),
			"current_question_index": interview.CurrentQuestionIndex,
		})
	}

	return s.buildDetail(interview, answered)
}

// RecordAnswer stores one video answer. Duplicate answers for a question are
// rejected and the original is preserved; durations above the cap are clamped
// and flagged rather than rejected.
func (s *interviewService) RecordAnswer(publicID string, req dto.RecordAnswerRequest) (*dto.AnswerReceipt, error) {
	interview, err := s.accessibleInterview(publicID)
	if err != nil {
		return nil, err
	}
	if interview.Status.Terminal() {
		return nil, apperr.Conflictf("interview already submitted")
	}
	if !containsID(interview.SelectedQuestionIDs, req.QuestionID) {
		return nil, apperr.Validationf("question %d is not part of this interview", req.QuestionID)
	}
	if existing, findErr := s.videoRepo.FindByInterviewAndQuestion(interview.ID, req.QuestionID); findErr == nil && existing != nil {
		return nil, apperr.Validationf("question %d already has an answer; the original answer is preserved", req.QuestionID)
	}

	duration := req.DurationSeconds
	limited := false
	if duration > s.durationCap {
		duration = s.durationCap
		limited = true
	}

	response := &model.VideoResponse{
		InterviewID:      interview.ID,
		QuestionID:       req.QuestionID,
		MediaRef:         req.MediaRef,
		DurationSeconds:  duration,
		TimeLimitReached: limited,
		Status:           model.VideoUploaded,
	}
	if err := s.videoRepo.Create(response); err != nil {
		return nil, fmt.Errorf("failed to store answer: %w", err)
	}

	s.audit(interview.ID, model.AuditAnswerRecorded, map[string]any{
		"question_id":      req.QuestionID,
		"duration_seconds": duration,
	})
	if limited {
		s.audit(interview.ID, model.AuditAnswerTimeLimit, map[string]any{
			"question_id":        req.QuestionID,
			"submitted_duration": req.DurationSeconds,
			"capped_to":          duration,
		})
	}

	if interview.Status == model.StatusPending {
		interview.Status = model.StatusInProgress
	}
	responses, err := s.videoRepo.FindAllByInterview(interview.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload answers: %w", err)
	}
	interview.CurrentQuestionIndex = nextQuestionIndex(interview.SelectedQuestionIDs, answeredSet(responses))
	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, fmt.Errorf("failed to update interview progress: %w", err)
	}

	return &dto.AnswerReceipt{
		QuestionID:           req.QuestionID,
		DurationSeconds:      duration,
		TimeLimitReached:     limited,
		InterviewStatus:      string(interview.Status),
		CurrentQuestionIndex: interview.CurrentQuestionIndex,
	}, nil
}

// Submit hands the interview off for background analysis. Submitting twice is
// not an error: the second caller learns the current processing state.
func (s *interviewService) Submit(publicID string, force bool) (*dto.SubmitResult, error) {
	interview, err := s.accessibleInterview(publicID)
	if err != nil {
		return nil, err
	}

	switch interview.Status {
	case model.StatusCompleted, model.StatusFailed:
		if !force {
			return nil, apperr.Conflictf("interview already finalized")
		}
	case model.StatusProcessing:
		// duplicate submit; the enqueue decision below resolves it idempotently
	default:
		count, countErr := s.videoRepo.CountByInterview(interview.ID)
		if countErr != nil {
			return nil, fmt.Errorf("failed to count answers: %w", countErr)
		}
		if count == 0 {
			return nil, apperr.Validationf("cannot submit an interview without any recorded answers")
		}
		now := s.now()
		interview.SubmittedAt = &now
		interview.Status = model.StatusProcessing
		if err := s.interviewRepo.Update(interview); err != nil {
			return nil, fmt.Errorf("failed to mark interview submitted: %w", err)
		}
	}

	result, err := s.processing.Enqueue(interview.ID, force)
	if err != nil {
		return nil, err
	}
	return &dto.SubmitResult{
		AlreadyEnqueued:  result.AlreadyEnqueued,
		ProcessingStatus: string(result.ProcessingStatus),
		TaskID:           result.TaskID,
		QueueEntryID:     result.QueueEntryID,
	}, nil
}

// accessibleInterview loads by public id and applies the archival/expiry
// overlays: an archived or expired interview is inaccessible regardless of
// status.
func (s *interviewService) accessibleInterview(publicID string) (*model.Interview, error) {
	interview, err := s.interviewRepo.FindByPublicID(publicID)
	if err != nil {
		return nil, apperr.NotFoundf("interview not found")
	}
	if interview.Archived {
		return nil, apperr.NotFoundf("interview not found")
	}
	if interview.Expired(s.now()) {
		return nil, apperr.Conflictf("interview has expired")
	}
	return interview, nil
}

func (s *interviewService) buildDetail(interview *model.Interview, answered map[uint]bool) (*dto.InterviewDetail, error) {
	questions, err := s.questionRepo.FindByIDs(interview.SelectedQuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load selected questions: %w", err)
	}
	byID := make(map[uint]model.InterviewQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	detail := &dto.InterviewDetail{
		PublicID:             interview.PublicID,
		Status:               string(interview.Status),
		CategoryCode:         interview.Category.Code,
		CurrentQuestionIndex: interview.CurrentQuestionIndex,
		AnsweredCount:        len(answered),
		IsRetake:             interview.IsRetake,
		ExpiresAt:            interview.ExpiresAt,
		SubmittedAt:          interview.SubmittedAt,
		CreatedAt:            interview.CreatedAt,
	}

	// questions go out in blueprint order, not bank order
	detail.Questions = make([]dto.QuestionResponse, 0, len(interview.SelectedQuestionIDs))
	for _, id := range interview.SelectedQuestionIDs {
		q, ok := byID[id]
		if !ok {
			log.Warn().Uint("questionID", id).Str("publicID", interview.PublicID).Msg("Selected question missing from bank")
			continue
		}
		var qDTO dto.QuestionResponse
		if err := copier.Copy(&qDTO, &q); err != nil {
			return nil, fmt.Errorf("failed to map question: %w", err)
		}
		detail.Questions = append(detail.Questions, qDTO)
	}

	detail.SelectionMetadata = make([]dto.SlotSelectionResponse, 0, len(interview.SelectionMetadata))
	for _, slot := range interview.SelectionMetadata {
		var slotDTO dto.SlotSelectionResponse
		if err := copier.Copy(&slotDTO, &slot); err != nil {
			return nil, fmt.Errorf("failed to map selection metadata: %w", err)
		}
		detail.SelectionMetadata = append(detail.SelectionMetadata, slotDTO)
	}

	return detail, nil
}

func (s *interviewService) audit(interviewID uint, event string, detail map[string]any) {
	entry := &model.InterviewAuditLog{InterviewID: interviewID, Event: event, Detail: detail}
	if err := s.auditRepo.Create(entry); err != nil {
		log.Error().Err(err).Uint("interviewID", interviewID).Str("event", event).Msg("Failed to write audit entry")
	}
}

// nextQuestionIndex is recomputed from the true answered set, never
// incremented blindly: first blueprint slot without an answer, or the last
// slot when everything is answered.
func nextQuestionIndex(selected []uint, answered map[uint]bool) int {
	for i, id := range selected {
		if !answered[id] {
			return i
		}
	}
	if len(selected) == 0 {
		return 0
	}
	return len(selected) - 1
}

func answeredSet(responses []model.VideoResponse) map[uint]bool {
	answered := make(map[uint]bool, len(responses))
	for _, r := range responses {
		answered[r.QuestionID] = true
	}
	return answered
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
