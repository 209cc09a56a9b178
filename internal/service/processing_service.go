package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hirelens/hirelens/config"
	"github.com/hirelens/hirelens/internal/apperr"
	"github.com/hirelens/hirelens/internal/dto"
	"github.com/hirelens/hirelens/internal/model"
	"github.com/hirelens/hirelens/internal/repository"
	"github.com/rs/zerolog/log"
)

// TaskScheduler hands an analysis job to the background queue. It is called
// only after the enqueue transaction has committed, so a scheduled task always
// finds its queue entry in the database.
type TaskScheduler interface {
	ScheduleAnalysis(interviewID uint, taskID string) error
}

// EnqueueResult reports what the enqueue decision did.
type EnqueueResult struct {
	AlreadyEnqueued  bool
	ProcessingStatus model.ProcessingStatus
	TaskID           string
	QueueEntryID     uint
}

// ProcessingService owns the exactly-once enqueue decision and the
// processing-status read model.
type ProcessingService interface {
	Enqueue(interviewID uint, force bool) (*EnqueueResult, error)
	Status(publicID string) (*dto.ProcessingStatus, error)
}

type processingService struct {
	interviewRepo repository.InterviewRepository
	videoRepo     repository.VideoResponseRepository
	queueRepo     repository.ProcessingQueueRepository
	scheduler     TaskScheduler

	perVideoSeconds int
}

func NewProcessingService(
	cfg *config.Config,
	interviewRepo repository.InterviewRepository,
	videoRepo repository.VideoResponseRepository,
	queueRepo repository.ProcessingQueueRepository,
	scheduler TaskScheduler,
) ProcessingService {
	return &processingService{
		interviewRepo:   interviewRepo,
		videoRepo:       videoRepo,
		queueRepo:       queueRepo,
		scheduler:       scheduler,
		perVideoSeconds: cfg.Interview.PerVideoAnalysisSeconds,
	}
}

type enqueueAction int

const (
	actionEnqueue enqueueAction = iota
	actionAlready
	actionNeedsForce
)

// resolveEnqueue is the whole duplicate-submission policy in one place.
// QUEUED and RUNNING are always idempotent no-ops; a finished run is only
// repeated when the caller forces it, and a failed run refuses to restart
// silently.
func resolveEnqueue(status model.ProcessingStatus, force bool) enqueueAction {
	switch status {
	case model.ProcessingQueued, model.ProcessingRunning:
		return actionAlready
	case model.ProcessingSucceeded:
		if force {
			return actionEnqueue
		}
		return actionAlready
	case model.ProcessingFailed:
		if force {
			return actionEnqueue
		}
		return actionNeedsForce
	default:
		return actionEnqueue
	}
}

// Enqueue decides, under a row lock, whether this call owns the transition to
// QUEUED. At most one ProcessingQueue entry and one scheduled task result from
// any number of concurrent calls.
func (s *processingService) Enqueue(interviewID uint, force bool) (*EnqueueResult, error) {
	var (
		result   EnqueueResult
		schedule bool
		entry    *model.ProcessingQueue
	)

	err := s.interviewRepo.UpdateLocked(interviewID, func(interview *model.Interview) (*model.ProcessingQueue, error) {
		if interview.Archived {
			return nil, apperr.Conflictf("interview is archived")
		}
		if interview.Status == model.StatusCompleted && !force {
			return nil, apperr.Conflictf("interview already completed")
		}

		switch resolveEnqueue(interview.ProcessingStatus, force) {
		case actionAlready:
			result = EnqueueResult{
				AlreadyEnqueued:  true,
				ProcessingStatus: interview.ProcessingStatus,
				TaskID:           interview.ProcessingTaskID,
			}
			if interview.CurrentQueueEntryID != nil {
				result.QueueEntryID = *interview.CurrentQueueEntryID
			}
			return nil, nil
		case actionNeedsForce:
			return nil, apperr.Conflictf("processing already attempted; retry requires force")
		}

		taskID := uuid.NewString()
		interview.ProcessingStatus = model.ProcessingQueued
		interview.ProcessingTaskID = taskID
		interview.ProcessingError = ""
		interview.ProcessingStartedAt = nil
		interview.ProcessingFinishedAt = nil

		entry = &model.ProcessingQueue{
			InterviewID:    interview.ID,
			ProcessingType: model.ProcessingTypeBulkAnalysis,
			Status:         model.QueueStatusQueued,
			TaskID:         taskID,
		}
		result = EnqueueResult{
			AlreadyEnqueued:  false,
			ProcessingStatus: model.ProcessingQueued,
			TaskID:           taskID,
		}
		schedule = true
		return entry, nil
	})
	if err != nil {
		return nil, err
	}

	if schedule {
		result.QueueEntryID = entry.ID
		if err := s.scheduler.ScheduleAnalysis(interviewID, result.TaskID); err != nil {
			// the queue entry stays QUEUED; a forced resubmit can recover
			log.Error().Err(err).Uint("interviewID", interviewID).Str("taskID", result.TaskID).Msg("Failed to schedule analysis task")
			return nil, fmt.Errorf("failed to schedule analysis task: %w", err)
		}
		log.Info().Uint("interviewID", interviewID).Str("taskID", result.TaskID).Msg("Analysis task enqueued")
	}
	return &result, nil
}

// Status reports processing progress plus a linear time estimate from the
// configured per-video analysis time.
func (s *processingService) Status(publicID string) (*dto.ProcessingStatus, error) {
	interview, err := s.interviewRepo.FindByPublicID(publicID)
	if err != nil {
		return nil, apperr.NotFoundf("interview not found")
	}

	total, err := s.videoRepo.CountByInterview(interview.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}
	processed, err := s.videoRepo.CountByInterviewAndStatus(interview.ID, model.VideoAnalyzed)
	if err != nil {
		return nil, fmt.Errorf("failed to count analyzed videos: %w", err)
	}
	remaining := total - processed
	if remaining < 0 {
		remaining = 0
	}

	status := &dto.ProcessingStatus{
		PublicID:         interview.PublicID,
		InterviewStatus:  string(interview.Status),
		ProcessingStatus: string(interview.ProcessingStatus),
		TaskID:           interview.ProcessingTaskID,
		StartedAt:        interview.ProcessingStartedAt,
		FinishedAt:       interview.ProcessingFinishedAt,
		Progress: dto.ProcessingProgress{
			TotalVideos: total,
			Processed:   processed,
			Remaining:   remaining,
		},
	}

	switch interview.ProcessingStatus {
	case model.ProcessingQueued, model.ProcessingRunning:
		status.EstimatedTimeRemaining = formatEstimate(remaining * int64(s.perVideoSeconds))
		status.Message = "Your interview is being analyzed."
	case model.ProcessingSucceeded:
		status.Message = "Analysis complete."
	case model.ProcessingFailed:
		status.Message = "Analysis failed. Please contact support or resubmit."
		status.Error = interview.ProcessingError
	}

	if interview.CurrentQueueEntryID != nil {
		if entry, findErr := s.queueRepo.FindByID(*interview.CurrentQueueEntryID); findErr == nil {
			status.QueueEntryID = entry.ID
			status.QueueEntryStatus = entry.Status
		}
	}

	return status, nil
}

func formatEstimate(seconds int64) string {
	if seconds <= 0 {
		return "0 seconds"
	}
	if seconds < 120 {
		return fmt.Sprintf("%d seconds", seconds)
	}
	minutes := (seconds + 59) / 60
	return fmt.Sprintf("%d minutes", minutes)
}
