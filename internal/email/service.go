package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fightclub/internal/logger"
	"fightclub/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
	popTimeout     = 2 * time.Second
)

type Job struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Sender delivers one message. SMTPSender and ResendSender implement it.
type Sender interface {
	Deliver(ctx context.Context, job Job) error
}

// Service queues outgoing mail in Redis and delivers it from a worker loop,
// so a slow mail provider never holds up a request.
type Service struct {
	redis      *redis.Client
	sender     Sender
	retryDelay time.Duration
}

func New(rdb *redis.Client, sender Sender) *Service {
	return &Service{
		redis:      rdb,
		sender:     sender,
		retryDelay: 5 * time.Second,
	}
}

// Send queues a plain-text message for delivery.
func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := Job{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		return fmt.Errorf("queue email to %s: %w", to, err)
	}

	logger.Debug("email queued", "to", to, "subject", subject)
	return nil
}

// Start runs the delivery loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, popTimeout, queueKey).Result()
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Warn("email queue unavailable", "error", err, "retry_in", s.retryDelay.String())
		s.wait(ctx)
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email job", "error", err)
		return
	}

	job.Tries++
	if err := s.sender.Deliver(ctx, job); err != nil {
		metrics.RecordEmail("failed")
		logger.Warn("email delivery failed",
			"to", job.To,
			"attempt", job.Tries,
			"error", err,
		)

		if job.Tries < maxTries {
			s.requeue(ctx, job)
		} else {
			s.saveFailed(ctx, job, err)
		}
		return
	}

	metrics.RecordEmail("sent")
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))
	logger.Info("email sent", "to", job.To, "subject", job.Subject)
}

// wait pauses for retryDelay or until ctx is done.
func (s *Service) wait(ctx context.Context) {
	t := time.NewTimer(s.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (s *Service) requeue(ctx context.Context, job Job) {
	s.wait(ctx)

	data, _ := json.Marshal(job)
	if err := s.redis.LPush(context.Background(), queueKey, data).Err(); err != nil {
		logger.Error("requeue email failed", "to", job.To, "error", err)
	}
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if err := s.redis.LPush(context.Background(), failedQueueKey, data).Err(); err != nil {
		logger.Error("store failed email", "to", job.To, "error", err)
		return
	}
	logger.Error("email moved to failed queue", "to", job.To, "attempts", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
