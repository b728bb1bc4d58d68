package workers

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"parishlink/internal/config"
	"parishlink/internal/email"
	"parishlink/internal/logger"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
)

const outboxBatchSize = 50

// OutboxWorker drains the email outbox on a fixed tick. Delivery
// failures reschedule the row with exponential backoff until the
// attempt cap, then park it as failed for manual inspection.
type OutboxWorker struct {
	db          *gorm.DB
	outboxRepo  repositories.OutboxRepository
	provider    email.Provider
	interval    time.Duration
	maxAttempts int
}

func NewOutboxWorker(db *gorm.DB, outboxRepo repositories.OutboxRepository, provider email.Provider, cfg *config.Config) *OutboxWorker {
	return &OutboxWorker{
		db:          db,
		outboxRepo:  outboxRepo,
		provider:    provider,
		interval:    time.Duration(cfg.Outbox.PollSeconds) * time.Second,
		maxAttempts: cfg.Outbox.MaxAttempts,
	}
}

// Run blocks until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) {
	logger.Info("outbox worker started", "interval", w.interval.String(), "max_attempts", w.maxAttempts)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *OutboxWorker) drain(ctx context.Context) {
	due, err := w.outboxRepo.FindDue(w.db, time.Now(), outboxBatchSize)
	if err != nil {
		logger.WorkerLog("outbox", "find due", err)
		return
	}

	for i := range due {
		if ctx.Err() != nil {
			return
		}
		w.deliver(ctx, &due[i])
	}
}

func (w *OutboxWorker) deliver(ctx context.Context, row *models.EmailOutbox) {
	msg, err := w.render(row)
	if err == nil {
		err = w.provider.Send(ctx, msg)
	}

	if err == nil {
		if markErr := w.outboxRepo.MarkSent(w.db, row.ID); markErr != nil {
			logger.WorkerLog("outbox", "mark sent", markErr)
		}
		return
	}

	terminal := row.Attempts+1 >= w.maxAttempts
	next := time.Now().Add(backoffDelay(row.Attempts + 1))
	if markErr := w.outboxRepo.MarkFailedAttempt(w.db, row.ID, err.Error(), next, terminal); markErr != nil {
		logger.WorkerLog("outbox", "mark failed", markErr)
	}
	if terminal {
		logger.Error("outbox email permanently failed", "id", row.ID, "template", row.Template, "error", err.Error())
	} else {
		logger.Warn("outbox email delivery failed, will retry", "id", row.ID, "attempt", row.Attempts+1, "next", next)
	}
}

func (w *OutboxWorker) render(row *models.EmailOutbox) (email.Message, error) {
	var data map[string]interface{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return email.Message{}, err
		}
	}
	msg, err := email.Render(row.Template, data)
	if err != nil {
		return email.Message{}, err
	}
	msg.To = row.Recipient
	return msg, nil
}

// backoffDelay doubles per attempt starting at one minute, capped at
// one hour: 1m, 2m, 4m, 8m, ...
func backoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := time.Minute
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= time.Hour {
			return time.Hour
		}
	}
	return delay
}
