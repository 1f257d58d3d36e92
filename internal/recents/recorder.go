// Package recents records every distinct connection intent the engine reports
// into the recent connections store.
package recents

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/vpnclient/internal/errs"
	"github.com/and161185/vpnclient/internal/metrics"
	"github.com/and161185/vpnclient/internal/observe"
	"github.com/and161185/vpnclient/internal/vpn"
	"github.com/and161185/vpnclient/model"
)

const defaultQueueSize = 16

type writer interface {
	InsertOrUpdateForConnection(ctx context.Context, intent model.ConnectIntent, timestamp int64) error
}

type upsert struct {
	intent    model.ConnectIntent
	timestamp int64
}

// Recorder watches the VPN status and upserts a recent connection each time
// the reported ConnectIntent changes. Guest hole intents and statuses without
// an intent are ignored. The timestamp is taken from the clock when the new
// intent is observed, not when the write happens.
type Recorder struct {
	provider vpn.StatusProvider
	store    writer
	clock    func() int64
	logger   *zap.SugaredLogger
	metrics  *metrics.Collectors
	queue    int

	mu      sync.Mutex
	started bool
	closed  bool
	ch      chan upsert
	done    chan struct{}
}

type Option func(*Recorder)

// WithQueueSize sets how many writes may wait for the store.
func WithQueueSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.queue = n
		}
	}
}

func WithMetrics(m *metrics.Collectors) Option {
	return func(r *Recorder) { r.metrics = m }
}

func NewRecorder(provider vpn.StatusProvider, store writer, clock func() int64, logger *zap.SugaredLogger, opts ...Option) *Recorder {
	r := &Recorder{
		provider: provider,
		store:    store,
		clock:    clock,
		logger:   logger,
		queue:    defaultQueueSize,
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start subscribes to the status and returns immediately. Recording stops
// when ctx is done; writes already queued are still flushed to the store.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return errs.ErrAlreadyStarted
	}
	r.started = true
	r.ch = make(chan upsert, r.queue)
	r.mu.Unlock()

	go r.work(context.WithoutCancel(ctx))

	record := observe.Distinct(r.enqueue)
	detach := r.provider.Status().Subscribe(observe.Filter(recordable, func(s model.VpnStatus) {
		record(s.ConnectIntent.(model.ConnectIntent))
	}))

	go func() {
		<-ctx.Done()
		detach()
		r.mu.Lock()
		r.closed = true
		close(r.ch)
		r.mu.Unlock()
	}()
	return nil
}

// Wait blocks until the recorder was stopped and every queued write is done.
func (r *Recorder) Wait() {
	<-r.done
}

func recordable(status model.VpnStatus) bool {
	_, ok := status.ConnectIntent.(model.ConnectIntent)
	return ok
}

func (r *Recorder) enqueue(intent model.ConnectIntent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.ch <- upsert{intent: intent, timestamp: r.clock()}
}

func (r *Recorder) work(ctx context.Context) {
	defer close(r.done)
	for u := range r.ch {
		err := r.store.InsertOrUpdateForConnection(ctx, u.intent, u.timestamp)
		r.metrics.RecentUpserted(err)
		if err != nil {
			r.logger.Errorw("failed to save recent connection",
				"intent", u.intent.Key(),
				"error", err,
			)
		}
	}
}
