package poller

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/studiopulse/pulse/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store is the persistence access the poller needs
type Store interface {
	ListUnread(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// Status reflects the last-known connection state of the polling loop
type Status string

// poller states
const (
	StatusDisconnected Status = "disconnected"
	StatusConnected    Status = "connected"
	StatusPolling      Status = "polling"
	StatusError        Status = "error"
)

// Config holds poller configuration
type Config struct {
	Interval   time.Duration // fixed polling interval, default 10s
	PageSize   int           // unread fetch cap, default 100
	MaxBackoff time.Duration // ceiling for the failure backoff, default 5m
}

// Poller maintains a near-real-time view of a user's unread notifications
// without a persistent connection. One Poller serves one subscription at a
// time; fetches in flight when the subscription changes are discarded via a
// generation counter rather than aborted.
type Poller struct {
	store      Store
	interval   time.Duration
	pageSize   int
	maxBackoff time.Duration

	mu            sync.Mutex
	userID        string
	notifications []domain.Notification
	status        Status
	generation    uint64
	inFlight      bool
	failures      int
	cancel        context.CancelFunc
	done          chan struct{}
}

// New creates a poller with defaults applied for zero config values
func New(store Store, cfg Config) *Poller {
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 5 * time.Minute
	}
	return &Poller{
		store:      store,
		interval:   cfg.Interval,
		pageSize:   cfg.PageSize,
		maxBackoff: cfg.MaxBackoff,
		status:     StatusDisconnected,
	}
}

// Start begins polling for the given user. Returns an error if already
// running; Stop first to switch users.
func (p *Poller) Start(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required: %w", domain.ErrValidation)
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return fmt.Errorf("poller already running for user %s", p.userID)
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.userID = userID
	p.notifications = nil
	p.failures = 0
	p.status = StatusPolling
	p.generation++
	gen := p.generation
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go p.run(ctx, userID, gen, done)
	lgr.Printf("[INFO] poller started for user %s, interval %v", userID, p.interval)
	return nil
}

// Stop cancels the polling loop and waits for it to exit. Idempotent.
// In-flight fetches are not aborted; their responses are discarded by the
// generation check when they land.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.generation++ // invalidate any response still in flight
	p.status = StatusDisconnected
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	lgr.Printf("[INFO] poller stopped")
}

// Notifications returns a copy of the current unread list
func (p *Poller) Notifications() []domain.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Notification, len(p.notifications))
	copy(out, p.notifications)
	return out
}

// Status returns the last-known connection state
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// MarkRead optimistically drops the notification from the local unread list,
// then persists. On persistence failure the local state is rolled back and
// the error surfaced so the caller may retry.
func (p *Poller) MarkRead(ctx context.Context, id int64) error {
	p.mu.Lock()
	userID := p.userID
	if userID == "" {
		p.mu.Unlock()
		return fmt.Errorf("poller has no active user")
	}

	idx := -1
	var removed domain.Notification
	for i, n := range p.notifications {
		if n.ID == id {
			idx, removed = i, n
			break
		}
	}
	if idx >= 0 {
		p.notifications = append(p.notifications[:idx], p.notifications[idx+1:]...)
	}
	p.mu.Unlock()

	if err := p.store.MarkRead(ctx, id, userID); err != nil {
		if idx >= 0 {
			p.mu.Lock()
			if idx > len(p.notifications) {
				idx = len(p.notifications)
			}
			p.notifications = append(p.notifications[:idx],
				append([]domain.Notification{removed}, p.notifications[idx:]...)...)
			p.mu.Unlock()
		}
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// MarkAllRead optimistically clears the local unread list, then persists as
// a single bulk call. Rolled back on failure.
func (p *Poller) MarkAllRead(ctx context.Context) error {
	p.mu.Lock()
	userID := p.userID
	if userID == "" {
		p.mu.Unlock()
		return fmt.Errorf("poller has no active user")
	}
	snapshot := p.notifications
	p.notifications = nil
	p.mu.Unlock()

	if _, err := p.store.MarkAllRead(ctx, userID); err != nil {
		p.mu.Lock()
		p.notifications = snapshot
		p.mu.Unlock()
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

// run is the timer loop. A tick's failure never cancels the loop; the next
// wait grows with capped exponential backoff and resets on success.
func (p *Poller) run(ctx context.Context, userID string, gen uint64, done chan struct{}) {
	defer close(done)

	p.tick(ctx, userID, gen) // first fetch right away

	timer := time.NewTimer(p.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.tick(ctx, userID, gen)
			timer.Reset(p.nextDelay())
		}
	}
}

// tick launches a fetch unless one is already in flight. Concurrent ticks
// for the same user are suppressed to avoid request pile-up under slow
// responses.
func (p *Poller) tick(ctx context.Context, userID string, gen uint64) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		lgr.Printf("[DEBUG] poll tick skipped, fetch in flight for user %s", userID)
		return
	}
	p.inFlight = true
	p.status = StatusPolling
	p.mu.Unlock()

	go func() {
		notifications, err := p.store.ListUnread(ctx, userID, p.pageSize)

		p.mu.Lock()
		defer p.mu.Unlock()
		p.inFlight = false

		if gen != p.generation {
			lgr.Printf("[DEBUG] discarded stale poll response for user %s", userID)
			return
		}

		if err != nil {
			// keep the previous list, surface transient state, retry next tick
			p.failures++
			p.status = StatusError
			lgr.Printf("[WARN] poll fetch failed for user %s (attempt %d): %v", userID, p.failures, err)
			return
		}

		p.failures = 0
		p.notifications = notifications
		p.status = StatusConnected
	}()
}

// nextDelay returns the base interval, stretched exponentially with jitter
// after consecutive failures so a store outage is not hammered
func (p *Poller) nextDelay() time.Duration {
	p.mu.Lock()
	failures := p.failures
	p.mu.Unlock()

	if failures == 0 {
		return p.interval
	}

	shift := failures
	if shift > 6 {
		shift = 6
	}
	delay := p.interval << uint(shift)
	if delay > p.maxBackoff {
		delay = p.maxBackoff
	}

	// up to 10% jitter to spread retries from multiple subscriptions
	jitter := time.Duration(rand.Int63n(int64(delay/10) + 1)) //nolint:gosec // not used for crypto
	return delay + jitter
}
