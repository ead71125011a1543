package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOTPSend delivers a one-time password by SMS.
	TaskOTPSend = "otp:send"
	// TaskIdempotencyCleanup purges expired idempotency keys.
	TaskIdempotencyCleanup = "maintenance:idempotency_cleanup"

	otpMaxRetry         = 3
	defaultKeyRetention = 72 * time.Hour
	otpMessageFormat    = "%s is your OTP for OrderSathi. Do not share it with anyone. It is valid for the next %d minutes. - OrderSathi"
)

// OTPPayload carries the phone number and plain code to deliver.
type OTPPayload struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// NewOTPTask constructs an Asynq task for OTP delivery.
func NewOTPTask(payload OTPPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOTPSend, data, asynq.Queue(QueueDefault), asynq.MaxRetry(otpMaxRetry)), nil
}

// CleanupPayload carries the retention window of the cleanup run.
type CleanupPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewIdempotencyCleanupTask constructs the periodic cleanup task.
func NewIdempotencyCleanupTask(retention time.Duration) (*asynq.Task, error) {
	if retention <= 0 {
		retention = defaultKeyRetention
	}
	data, err := json.Marshal(CleanupPayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data, asynq.Queue(QueueDefault)), nil
}

// JobRecorder receives task outcomes.
type JobRecorder interface {
	ObserveJob(task string, err error)
}

// KeyCleaner removes idempotency keys older than a retention window.
type KeyCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// Processors holds the task handlers run by the worker.
type Processors struct {
	sender   SMSSender
	cleaner  KeyCleaner
	otpTTL   time.Duration
	recorder JobRecorder
	logger   *slog.Logger
}

// ProcessorsConfig configures Processors.
type ProcessorsConfig struct {
	Sender   SMSSender
	Cleaner  KeyCleaner
	OTPTTL   time.Duration
	Recorder JobRecorder
	Logger   *slog.Logger
}

// NewProcessors constructs the task handlers.
func NewProcessors(cfg ProcessorsConfig) *Processors {
	p := &Processors{sender: cfg.Sender, cleaner: cfg.Cleaner, otpTTL: cfg.OTPTTL, recorder: cfg.Recorder, logger: cfg.Logger}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.sender == nil {
		p.sender = NewLogSender(p.logger)
	}
	return p
}

// Handlers lists the task handlers for worker registration.
func (p *Processors) Handlers() []TaskHandler {
	handlers := []TaskHandler{{Type: TaskOTPSend, Handler: p.HandleOTPSend}}
	if p.cleaner != nil {
		handlers = append(handlers, TaskHandler{Type: TaskIdempotencyCleanup, Handler: p.HandleIdempotencyCleanup})
	}
	return handlers
}

// HandleOTPSend processes TaskOTPSend tasks.
func (p *Processors) HandleOTPSend(ctx context.Context, t *asynq.Task) error {
	var payload OTPPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Phone == "" || payload.Code == "" {
		p.observe(TaskOTPSend, asynq.SkipRetry)
		return fmt.Errorf("otp payload: %w", asynq.SkipRetry)
	}
	err := p.sender.Send(ctx, payload.Phone, otpMessage(payload.Code, p.otpTTL))
	p.observe(TaskOTPSend, err)
	if err != nil {
		p.logger.Warn("otp delivery failed", slog.String("phone", maskPhone(payload.Phone)), slog.Any("error", err))
		return err
	}
	p.logger.Info("otp delivered", slog.String("phone", maskPhone(payload.Phone)))
	return nil
}

// HandleIdempotencyCleanup processes TaskIdempotencyCleanup tasks.
func (p *Processors) HandleIdempotencyCleanup(ctx context.Context, t *asynq.Task) error {
	if p.cleaner == nil {
		return errors.New("jobs: idempotency cleaner not configured")
	}
	payload := CleanupPayload{Retention: defaultKeyRetention}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			p.observe(TaskIdempotencyCleanup, asynq.SkipRetry)
			return fmt.Errorf("cleanup payload: %w", asynq.SkipRetry)
		}
	}
	err := p.cleaner.Cleanup(ctx, payload.Retention)
	p.observe(TaskIdempotencyCleanup, err)
	if err != nil {
		return err
	}
	p.logger.Info("idempotency keys purged", slog.Duration("retention", payload.Retention))
	return nil
}

func (p *Processors) observe(task string, err error) {
	if p.recorder != nil {
		p.recorder.ObserveJob(task, err)
	}
}

func otpMessage(code string, ttl time.Duration) string {
	minutes := int(ttl / time.Minute)
	if minutes <= 0 {
		minutes = 5
	}
	return fmt.Sprintf(otpMessageFormat, code, minutes)
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "******" + phone[len(phone)-4:]
}
