package digest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/studiopulse/pulse/pkg/domain"
	"github.com/studiopulse/pulse/pkg/llm"
)

// Stats provides the engagement aggregates and the users worth digesting
type Stats interface {
	ActiveUsers(ctx context.Context, since time.Time) ([]string, error)
	CategoryStats(ctx context.Context, userID string, since time.Time) ([]domain.CategoryStats, error)
}

// Producer inserts notifications, same path external producers use
type Producer interface {
	Create(ctx context.Context, n *domain.Notification) error
}

// Advisor turns stats into an insight
type Advisor interface {
	Advise(ctx context.Context, stats []domain.CategoryStats) (*llm.Insight, error)
}

// Config holds digest worker configuration
type Config struct {
	Interval   time.Duration
	Lookback   time.Duration
	MaxWorkers int
}

// Worker periodically produces ai_insight notifications from engagement
// history. One insight per active user per run; failures are logged and
// never stop the loop.
type Worker struct {
	stats    Stats
	producer Producer
	advisor  Advisor

	interval   time.Duration
	lookback   time.Duration
	maxWorkers int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker creates a digest worker with defaults applied
func NewWorker(stats Stats, producer Producer, advisor Advisor, cfg Config) *Worker {
	if cfg.Interval == 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Lookback == 0 {
		cfg.Lookback = 7 * 24 * time.Hour
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 4
	}
	return &Worker{
		stats:      stats,
		producer:   producer,
		advisor:    advisor,
		interval:   cfg.Interval,
		lookback:   cfg.Lookback,
		maxWorkers: cfg.MaxWorkers,
	}
}

// Start begins the digest loop
func (w *Worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.RunOnce(ctx); err != nil {
					lgr.Printf("[ERROR] digest run failed: %v", err)
				}
			}
		}
	}()

	lgr.Printf("[INFO] digest worker started, interval %v, lookback %v", w.interval, w.lookback)
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	lgr.Printf("[INFO] digest worker stopped")
}

// RunOnce generates insights for all recently active users
func (w *Worker) RunOnce(ctx context.Context) error {
	since := time.Now().Add(-w.lookback)

	users, err := w.stats.ActiveUsers(ctx, since)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	lgr.Printf("[INFO] generating insights for %d users", len(users))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxWorkers)

	for _, userID := range users {
		g.Go(func() error {
			if err := w.digestUser(ctx, userID, since); err != nil {
				// one user's failure must not abort the run
				lgr.Printf("[WARN] insight for user %s failed: %v", userID, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// digestUser builds one ai_insight notification for a user
func (w *Worker) digestUser(ctx context.Context, userID string, since time.Time) error {
	stats, err := w.stats.CategoryStats(ctx, userID, since)
	if err != nil {
		return fmt.Errorf("category stats: %w", err)
	}
	if len(stats) == 0 {
		return nil // nothing engaged with, nothing to say
	}

	insight, err := w.advisor.Advise(ctx, stats)
	if err != nil {
		return fmt.Errorf("advise: %w", err)
	}

	metadata := map[string]string{"source": "digest"}
	for _, rec := range insight.Recommendations {
		metadata["send_hour_"+rec.Category] = strconv.Itoa(rec.SendHour)
	}

	notification := &domain.Notification{
		UserID:   userID,
		Category: domain.CategoryAIInsight,
		Priority: domain.PriorityLow,
		Title:    "Engagement insight",
		Message:  insight.Summary,
		Metadata: metadata,
	}
	if err := w.producer.Create(ctx, notification); err != nil {
		return fmt.Errorf("create insight notification: %w", err)
	}

	lgr.Printf("[DEBUG] insight notification %d created for user %s", notification.ID, userID)
	return nil
}
