package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hirelens/hirelens/internal/model"
	"github.com/hirelens/hirelens/internal/repository"
	"github.com/rs/zerolog/log"
)

const TaskTypeAnalyzeInterview = "interview:analyze"

type AnalyzePayload struct {
	InterviewID uint   `json:"interview_id"`
	TaskID      string `json:"task_id"`
}

func NewAnalyzeTask(interviewID uint, taskID string) (*asynq.Task, error) {
	payload, err := json.Marshal(AnalyzePayload{InterviewID: interviewID, TaskID: taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyze payload: %w", err)
	}
	return asynq.NewTask(TaskTypeAnalyzeInterview, payload), nil
}

// Transcriber turns a stored video answer into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaRef string) (string, error)
}

// Scorer rates a transcript for a given question.
type Scorer interface {
	Score(ctx context.Context, questionText, transcript string) (float64, error)
}

// AnalysisWorker processes one interview's videos end to end. Failures are
// recorded on the interview instead of being retried by the queue; a retry is
// always an explicit forced resubmission.
type AnalysisWorker struct {
	interviewRepo repository.InterviewRepository
	videoRepo     repository.VideoResponseRepository
	applicantRepo repository.ApplicantRepository
	queueRepo     repository.ProcessingQueueRepository
	transcriber   Transcriber
	scorer        Scorer
	now           func() time.Time
}

func NewAnalysisWorker(
	interviewRepo repository.InterviewRepository,
	videoRepo repository.VideoResponseRepository,
	applicantRepo repository.ApplicantRepository,
	queueRepo repository.ProcessingQueueRepository,
	transcriber Transcriber,
	scorer Scorer,
) *AnalysisWorker {
	return &AnalysisWorker{
		interviewRepo: interviewRepo,
		videoRepo:     videoRepo,
		applicantRepo: applicantRepo,
		queueRepo:     queueRepo,
		transcriber:   transcriber,
		scorer:        scorer,
		now:           time.Now,
	}
}

func (w *AnalysisWorker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload AnalyzePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Analyze task has malformed payload, dropping")
		return nil
	}

	interview, err := w.interviewRepo.FindByID(payload.InterviewID)
	if err != nil {
		log.Warn().Uint("interviewID", payload.InterviewID).Msg("Analyze task for missing interview, dropping")
		return nil
	}

	// Stale delivery: a newer submission replaced this task, or the state
	// already moved on. Processing it would double-analyze.
	if interview.ProcessingTaskID != payload.TaskID || interview.ProcessingStatus != model.ProcessingQueued {
		log.Info().
			Uint("interviewID", interview.ID).
			Str("taskID", payload.TaskID).
			Str("currentTaskID", interview.ProcessingTaskID).
			Str("processingStatus", string(interview.ProcessingStatus)).
			Msg("Skipping stale analyze task")
		return nil
	}

	startedAt := w.now()
	interview.ProcessingStatus = model.ProcessingRunning
	interview.ProcessingStartedAt = &startedAt
	if err := w.interviewRepo.Update(interview); err != nil {
		return fmt.Errorf("failed to mark interview running: %w", err)
	}

	responses, err := w.videoRepo.FindAllByInterview(interview.ID)
	if err != nil {
		return w.fail(interview, fmt.Sprintf("failed to load video responses: %v", err))
	}

	for i := range responses {
		response := &responses[i]
		if response.Status == model.VideoAnalyzed {
			continue
		}
		if err := w.analyzeOne(ctx, response); err != nil {
			return w.fail(interview, fmt.Sprintf("analysis of question %d failed: %v", response.QuestionID, err))
		}
	}

	finishedAt := w.now()
	interview.ProcessingStatus = model.ProcessingSucceeded
	interview.ProcessingFinishedAt = &finishedAt
	interview.Status = model.StatusCompleted
	if err := w.interviewRepo.Update(interview); err != nil {
		return fmt.Errorf("failed to mark interview completed: %w", err)
	}
	if err := w.applicantRepo.MarkInterviewCompleted(interview.ApplicantID); err != nil {
		log.Error().Err(err).Uint("applicantID", interview.ApplicantID).Msg("Failed to mark applicant interview completed")
	}
	w.closeQueueEntry(interview, model.QueueStatusCompleted, "")

	log.Info().
		Uint("interviewID", interview.ID).
		Int("videos", len(responses)).
		Dur("elapsed", finishedAt.Sub(startedAt)).
		Msg("Interview analysis completed")
	return nil
}

func (w *AnalysisWorker) analyzeOne(ctx context.Context, response *model.VideoResponse) error {
	transcript, err := w.transcriber.Transcribe(ctx, response.MediaRef)
	if err != nil {
		response.Status = model.VideoFailed
		if updateErr := w.videoRepo.Update(response); updateErr != nil {
			log.Error().Err(updateErr).Uint("responseID", response.ID).Msg("Failed to mark video failed")
		}
		return fmt.Errorf("transcription: %w", err)
	}

	score, err := w.scorer.Score(ctx, response.Question.QuestionText, transcript)
	if err != nil {
		response.Status = model.VideoFailed
		response.Transcript = transcript
		if updateErr := w.videoRepo.Update(response); updateErr != nil {
			log.Error().Err(updateErr).Uint("responseID", response.ID).Msg("Failed to mark video failed")
		}
		return fmt.Errorf("scoring: %w", err)
	}

	response.Transcript = transcript
	response.Score = &score
	response.Status = model.VideoAnalyzed
	return w.videoRepo.Update(response)
}

// fail records the failure and returns nil so asynq does not redeliver; the
// caller decides whether to force a retry.
func (w *AnalysisWorker) fail(interview *model.Interview, message string) error {
	finishedAt := w.now()
	interview.ProcessingStatus = model.ProcessingFailed
	interview.ProcessingError = message
	interview.ProcessingFinishedAt = &finishedAt
	interview.Status = model.StatusFailed
	if err := w.interviewRepo.Update(interview); err != nil {
		log.Error().Err(err).Uint("interviewID", interview.ID).Msg("Failed to record analysis failure")
	}
	w.closeQueueEntry(interview, model.QueueStatusFailed, message)
	log.Error().Uint("interviewID", interview.ID).Str("reason", message).Msg("Interview analysis failed")
	return nil
}

func (w *AnalysisWorker) closeQueueEntry(interview *model.Interview, status, errorMessage string) {
	if interview.CurrentQueueEntryID == nil {
		return
	}
	entry, err := w.queueRepo.FindByID(*interview.CurrentQueueEntryID)
	if err != nil {
		log.Error().Err(err).Uint("queueEntryID", *interview.CurrentQueueEntryID).Msg("Failed to load queue entry")
		return
	}
	entry.Status = status
	if errorMessage != "" {
		entry.ErrorMessage = &errorMessage
	}
	if err := w.queueRepo.Update(entry); err != nil {
		log.Error().Err(err).Uint("queueEntryID", entry.ID).Msg("Failed to close queue entry")
	}
}
