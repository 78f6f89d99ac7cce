package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Harindu7/Keycloak/internal/clock"
	"github.com/Harindu7/Keycloak/internal/config"
)

// Notifier decouples event capture from delivery. Enqueue is non-blocking:
// when the queue is full the notification is dropped and counted, so the
// authentication path that raised the event is never throttled by a slow or
// absent backend.
//
// A breaker guards the endpoint list as a whole. After a run of dispatches
// in which no endpoint accepted anything, new notifications are dropped
// without attempting delivery until the cooldown elapses. One probe is let
// through after cooldown; success closes the breaker again.
type Notifier struct {
	dispatcher *Dispatcher
	queue      chan Notification
	log        *zap.Logger
	metrics    *Metrics
	clk        clock.Clock

	threshold int
	cooldown  time.Duration

	mu           sync.Mutex
	consecutive  int
	openedAt     time.Time
	open         bool
	closed       bool
	workerCtx    context.Context
	workerCancel context.CancelFunc
	done         chan struct{}
}

// NewNotifier builds a notifier with a bounded queue. Start must be called
// before Enqueue delivers anything.
func NewNotifier(cfg config.NotifierConfig, dispatcher *Dispatcher, clk clock.Clock, log *zap.Logger, metrics *Metrics) *Notifier {
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Notifier{
		dispatcher:   dispatcher,
		queue:        make(chan Notification, size),
		log:          log,
		metrics:      metrics,
		clk:          clk,
		threshold:    cfg.BreakerThreshold,
		cooldown:     cfg.BreakerCooldown,
		workerCtx:    ctx,
		workerCancel: cancel,
		done:         make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (n *Notifier) Start() {
	go n.run()
}

// Enqueue hands a notification to the delivery worker without blocking.
// Returns false when the notification was dropped.
func (n *Notifier) Enqueue(note Notification) bool {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		n.metrics.IncDropped(DropReasonClosed)
		return false
	}
	if n.breakerRejectsLocked() {
		n.mu.Unlock()
		n.metrics.IncDropped(DropReasonBreakerOpen)
		n.log.Warn("notification dropped, breaker open", zap.String("path", note.Path))
		return false
	}
	n.mu.Unlock()

	select {
	case n.queue <- note:
		return true
	default:
		n.metrics.IncDropped(DropReasonQueueFull)
		n.log.Warn("notification dropped, queue full", zap.String("path", note.Path))
		return false
	}
}

// Close stops accepting new notifications, drains what is already queued,
// and waits for the worker to exit.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		<-n.done
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.queue)
	<-n.done
	n.workerCancel()
}

func (n *Notifier) run() {
	defer close(n.done)
	for note := range n.queue {
		delivered := n.dispatcher.Dispatch(n.workerCtx, note)
		n.observe(delivered)
	}
}

// breakerRejectsLocked reports whether the breaker should short-circuit this
// notification. Called with mu held. After cooldown the breaker half-opens:
// the first notification through becomes the probe.
func (n *Notifier) breakerRejectsLocked() bool {
	if !n.open {
		return false
	}
	if n.clk.Now().Sub(n.openedAt) < n.cooldown {
		return true
	}
	// Half-open: admit one probe and re-arm the cooldown so concurrent
	// callers do not stampede the backend.
	n.openedAt = n.clk.Now()
	return false
}

func (n *Notifier) observe(delivered bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if delivered {
		if n.open {
			n.log.Info("notification breaker closed")
		}
		n.open = false
		n.consecutive = 0
		return
	}
	n.consecutive++
	if n.threshold > 0 && n.consecutive >= n.threshold && !n.open {
		n.open = true
		n.openedAt = n.clk.Now()
		n.log.Warn("notification breaker opened",
			zap.Int("consecutive_failures", n.consecutive),
			zap.Duration("cooldown", n.cooldown),
		)
	}
}
