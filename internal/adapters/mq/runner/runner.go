// Package runner consumes the edit queue with a single sequential loop.
// One runner per session is the design, not a tuning default: it is what
// guarantees no edit begins recomputation before the previous edit's
// orchestration cycle has committed or aborted.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/crewcast/internal/adapters/mq/queue"
	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/pkg/logger"
	"github.com/okian/crewcast/pkg/metrics"
)

// Shutdown wait bound.
const shutdownTimeout = 5 * time.Second

// Applier runs one full orchestration cycle for an edit.
type Applier interface {
	Apply(ctx context.Context, cmd model.EditCommand) (*model.Prediction, error)
}

// Runner drains the queue one envelope at a time and replies to each.
type Runner struct {
	queue   queue.Queue
	applier Applier

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a session runner with configuration options.
func New(q queue.Queue, applier Applier, opts ...Option) *Runner {
	r := &Runner{
		queue:    q,
		applier:  applier,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run consumes envelopes until ctx is canceled, the queue closes, or
// Shutdown is called. Each envelope runs to completion before the next is
// read; there is no mid-computation cancellation.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)

	in := r.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case env, ok := <-in:
			if !ok {
				return
			}
			r.process(ctx, env)
		}
	}
}

// process applies one edit and replies. The reply channel is buffered, so
// a departed caller never stalls the session.
func (r *Runner) process(ctx context.Context, env queue.Envelope) {
	start := time.Now()
	pred, err := r.applier.Apply(ctx, env.Cmd)
	metrics.RecordStageLatency("cycle", float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordEditFailed()
		r.logger.Error(ctx, "edit aborted",
			logger.String("kind", string(env.Cmd.Kind)),
			logger.Error(err),
		)
	}
	select {
	case env.Reply <- queue.Result{Prediction: pred, Err: err}:
	default:
		r.logger.Warn(ctx, "reply dropped; caller gone",
			logger.String("kind", string(env.Cmd.Kind)),
		)
	}
	metrics.UpdateQueueDepth(r.queue.Len(ctx))
}

// Shutdown stops the runner after the in-flight edit finishes.
func (r *Runner) Shutdown(ctx context.Context) error {
	close(r.shutdown)

	waitCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	select {
	case <-r.done:
		return nil
	case <-waitCtx.Done():
		return fmt.Errorf("runner shutdown timed out: %w", waitCtx.Err())
	}
}
