package learning

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/logging"
)

// DefaultQueueSize is the default capacity of a Notifier's queue.
const DefaultQueueSize = 64

// Options configures a Notifier.
type Options struct {
	// Logger receives drop and store-failure events; defaults to NoOpLogger.
	Logger logging.Logger
	// QueueSize bounds the pending queue (default DefaultQueueSize).
	QueueSize int
	// StoreTimeout bounds each Store call (default 10s).
	StoreTimeout time.Duration
}

// Notifier is the asynchronous, best-effort learning channel. Notify never
// blocks: records queue on a bounded channel and a background goroutine
// writes them through the advisor's Store call. A full queue drops the
// record; a Store failure is logged and forgotten. Neither ever surfaces to
// the caller.
type Notifier struct {
	advisor      core.Advisor
	logger       logging.Logger
	storeTimeout time.Duration

	ch        chan core.Learning
	dropped   atomic.Int64
	closeOnce sync.Once
	done      chan struct{}
}

var _ core.LearningSink = (*Notifier)(nil)

// NewNotifier starts a notifier draining into the given advisor.
func NewNotifier(advisor core.Advisor, optFns ...func(o *Options)) *Notifier {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		QueueSize:    DefaultQueueSize,
		StoreTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	n := &Notifier{
		advisor:      advisor,
		logger:       opts.Logger,
		storeTimeout: opts.StoreTimeout,
		ch:           make(chan core.Learning, opts.QueueSize),
		done:         make(chan struct{}),
	}
	go n.drain()
	return n
}

// Notify enqueues a learning record, dropping it when the queue is full.
func (n *Notifier) Notify(l core.Learning) {
	select {
	case n.ch <- l:
	default:
		n.dropped.Add(1)
		n.logger.Debug("learning dropped, queue full", "category", l.Category)
	}
}

// Dropped returns the number of records dropped since construction.
func (n *Notifier) Dropped() int64 { return n.dropped.Load() }

// Close stops the notifier after draining queued records. Safe to call more
// than once.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() { close(n.ch) })
	<-n.done
}

func (n *Notifier) drain() {
	defer close(n.done)
	for l := range n.ch {
		ctx, cancel := context.WithTimeout(context.Background(), n.storeTimeout)
		if err := n.advisor.Store(ctx, l); err != nil {
			n.logger.Warn("learning store failed", "category", l.Category, "error", err)
		}
		cancel()
	}
}

// Discard is a LearningSink that drops every record. Default wiring for
// components constructed without a learner.
type Discard struct{}

// Notify implements core.LearningSink.
func (Discard) Notify(core.Learning) {}
