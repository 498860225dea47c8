package service

import (
	"context"
	"time"

	"github.com/deividastamosaitis/objektai/model"
	"github.com/deividastamosaitis/objektai/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// reminderSource is what the sweeper needs from the reminder store.
type reminderSource interface {
	Due(ctx context.Context, now time.Time) ([]model.Reminder, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ReminderSweeper dispatches due reminders on a fixed interval. A reminder
// is deleted once dispatch was attempted; a failed send is logged and
// dropped, never retried.
type ReminderSweeper struct {
	store    reminderSource
	mailer   Mailer
	interval time.Duration
	done     chan struct{}
}

func NewReminderSweeper(store reminderSource, mailer Mailer, interval time.Duration) *ReminderSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderSweeper{
		store:    store,
		mailer:   mailer,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is cancelled.
func (s *ReminderSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop.
func (s *ReminderSweeper) Stop() {
	close(s.done)
}

// Sweep dispatches every due reminder once.
func (s *ReminderSweeper) Sweep(ctx context.Context) {
	now := time.Now()
	due, err := s.store.Due(ctx, now)
	if err != nil {
		logger.Error(ctx, "reminder sweep failed", "error", err)
		return
	}

	for _, r := range due {
		if err := s.mailer.Send(r.Email, r.Subject, r.Message); err != nil {
			logger.Error(ctx, "reminder send failed",
				"reminder_id", r.ID.Hex(),
				"email", r.Email,
				"error", err,
			)
		}
		if err := s.store.Delete(ctx, r.ID); err != nil {
			logger.Error(ctx, "reminder delete failed",
				"reminder_id", r.ID.Hex(),
				"error", err,
			)
		}
	}
}
