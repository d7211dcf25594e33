package notify

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/logging"
	"github.com/sethvargo/go-retry"
)

// Dispatcher moves deliveries off the request path. Enqueue never blocks;
// Run delivers queued messages one by one, retrying each a bounded number
// of times with exponential backoff. Failures are only logged.
type Dispatcher struct {
	notifier  Notifier
	logger    logging.Logger
	queue     chan Message
	attempts  uint64
	baseDelay time.Duration
}

func NewDispatcher(n Notifier, l logging.Logger, queueSize, attempts int, baseDelay time.Duration) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Dispatcher{
		notifier:  n,
		logger:    l.With("module", "notify_dispatcher"),
		queue:     make(chan Message, queueSize),
		attempts:  uint64(attempts),
		baseDelay: baseDelay,
	}
}

// Enqueue schedules m for delivery. When the queue is full the message is
// dropped with a warning.
func (d *Dispatcher) Enqueue(ctx context.Context, m Message) {
	select {
	case d.queue <- m:
	default:
		d.logger.Warn(ctx, "notification queue full, message dropped", "email", m.Email)
	}
}

// Run delivers messages until ctx is cancelled. Messages still queued at
// that point are reported and dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.dropQueued(ctx)
			return nil
		case m := <-d.queue:
			d.deliver(ctx, m)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, m Message) {
	attempt := 0
	backoff := retry.WithMaxRetries(d.attempts-1, retry.NewExponential(d.baseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := d.notifier.SendVerification(ctx, m); err != nil {
			d.logger.Warn(ctx, "verification delivery attempt failed",
				"email", m.Email, "attempt", attempt, "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		d.logger.Error(ctx, "verification delivery failed", "email", m.Email, "attempts", attempt, "error", err.Error())
		return
	}
	d.logger.Info(ctx, "verification delivered", "email", m.Email)
}

func (d *Dispatcher) dropQueued(ctx context.Context) {
	for {
		select {
		case m := <-d.queue:
			d.logger.Warn(ctx, "shutting down, undelivered verification dropped", "email", m.Email)
		default:
			return
		}
	}
}
