package bloodrequest

import (
	"context"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/queue"
)

// FanOutTask asks the worker to notify donors about a new request.
type FanOutTask struct {
	BloodRequestID uuid.UUID `json:"blood_request_id"`
}

// NewFanOutHandler runs FanOutTask on the queue worker. Failures are logged
// and dropped; fan-out is never retried.
func NewFanOutHandler(s *Service) queue.Handler {
	return queue.NewTaskHandler(func(ctx context.Context, task FanOutTask) error {
		if _, err := s.FanOut(ctx, task.BloodRequestID); err != nil {
			s.log.ErrorContext(ctx, "donor fan-out failed",
				logger.Error(err), logger.BloodRequestID(task.BloodRequestID))
		}
		return nil
	})
}
