package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/civictech-tw/casework/db"
	"github.com/civictech-tw/casework/models"
	"github.com/civictech-tw/casework/repositories"
	"go.uber.org/zap"
)

// Dispatcher drains the notification outbox after case transactions commit.
// Rows are sent per case in insertion order; when a send keeps failing the
// rest of that case's queue is parked until the next run, so a closing mail
// can never overtake the arranged mail it follows.
type Dispatcher struct {
	gateway Gateway
	log     *zap.Logger
	poke    chan struct{}

	// mu serializes drains: a row read as unsent by two concurrent callers
	// would be delivered twice.
	mu sync.Mutex

	// NewBackOff builds the retry policy for a single outbox row.
	// Overridable in tests to avoid real waits.
	NewBackOff func() backoff.BackOff
}

func NewDispatcher(gateway Gateway, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		gateway: gateway,
		log:     log,
		poke:    make(chan struct{}, 1),
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return backoff.WithMaxRetries(b, 4)
		},
	}
}

// Poke asks the dispatcher to drain soon. Non-blocking; used by the
// lifecycle engine right after a commit.
func (d *Dispatcher) Poke() {
	select {
	case d.poke <- struct{}{}:
	default:
	}
}

// Run drains the outbox whenever poked, until the context is cancelled.
// Periodic drains (for rows whose retries were exhausted) are expected to
// come from a scheduler calling DispatchPending.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.poke:
			if err := d.DispatchPending(ctx); err != nil {
				d.log.Warn("outbox dispatch failed", zap.Error(err))
			}
		}
	}
}

// DispatchPending sends every unsent outbox row, per case in order. Safe to
// call from multiple goroutines; drains run one at a time.
func (d *Dispatcher) DispatchPending(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending, err := repositories.ListPendingOutbox(db.DB.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("list pending notifications: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	// pending is ordered by (case_id, id); group it into per-case queues.
	var queues [][]models.Outbox
	for _, row := range pending {
		if n := len(queues); n > 0 && queues[n-1][0].CaseID == row.CaseID {
			queues[n-1] = append(queues[n-1], row)
			continue
		}
		queues = append(queues, []models.Outbox{row})
	}

	for _, queue := range queues {
		for _, row := range queue {
			if err := d.sendWithRetry(ctx, row); err != nil {
				d.log.Warn("notification delivery failed, parking case queue",
					zap.Uint("case_id", row.CaseID),
					zap.Uint("outbox_id", row.ID),
					zap.Error(err),
				)
				if dbErr := repositories.MarkOutboxFailed(db.DB.WithContext(ctx), row.ID, err.Error()); dbErr != nil {
					return dbErr
				}
				break
			}
			if err := repositories.MarkOutboxSent(db.DB.WithContext(ctx), row.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Dispatcher) sendWithRetry(ctx context.Context, row models.Outbox) error {
	operation := func() error {
		return d.send(ctx, row)
	}
	return backoff.Retry(operation, backoff.WithContext(d.NewBackOff(), ctx))
}

func (d *Dispatcher) send(ctx context.Context, row models.Outbox) error {
	switch row.Kind {
	case models.OutboxEmail:
		var data map[string]interface{}
		if err := json.Unmarshal(row.Payload, &data); err != nil {
			return backoff.Permanent(fmt.Errorf("decode email payload: %w", err))
		}
		return d.gateway.SendEmail(ctx, row.Recipient, row.Template, data)
	case models.OutboxChat:
		var alert TeamAlert
		if err := json.Unmarshal(row.Payload, &alert); err != nil {
			return backoff.Permanent(fmt.Errorf("decode chat payload: %w", err))
		}
		return d.gateway.SendTeamAlert(ctx, alert)
	}
	return backoff.Permanent(fmt.Errorf("unknown outbox kind %q", row.Kind))
}
