package worker

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const QueueAnalysis = "analysis"

// AsynqScheduler pushes analysis tasks onto the asynq queue. MaxRetry is zero:
// a failed run is only repeated when the applicant forces a resubmission.
type AsynqScheduler struct {
	client *asynq.Client
}

func NewAsynqScheduler(client *asynq.Client) *AsynqScheduler {
	return &AsynqScheduler{client: client}
}

func (s *AsynqScheduler) ScheduleAnalysis(interviewID uint, taskID string) error {
	task, err := NewAnalyzeTask(interviewID, taskID)
	if err != nil {
		return err
	}
	_, err = s.client.Enqueue(task,
		asynq.Queue(QueueAnalysis),
		asynq.MaxRetry(0),
		asynq.Timeout(30*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue analyze task: %w", err)
	}
	return nil
}
