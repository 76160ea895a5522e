package engagement

import (
	"context"
	"fmt"

	"github.com/studiopulse/pulse/pkg/domain"
)

// DefaultHour is returned when no engagement history exists for the pair
const DefaultHour = 12

// Estimator produces an advisory best-send-hour for a (user, category)
// pair from historical viewed-event hours. Descriptive statistics only,
// recomputed on every call; nothing is trained or persisted.
type Estimator struct {
	events EventStore
}

// NewEstimator creates a new timing estimator
func NewEstimator(events EventStore) *Estimator {
	return &Estimator{events: events}
}

// Estimate buckets viewed events by hour of day and returns the busiest
// bucket with confidence best/total. Without history it returns the fixed
// midday default with zero confidence, never an error.
func (e *Estimator) Estimate(ctx context.Context, userID string, category domain.Category) (*domain.TimingEstimate, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrValidation)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("category %q: %w", category, domain.ErrValidation)
	}

	histogram, err := e.events.HourHistogram(ctx, userID, category, domain.EventViewed)
	if err != nil {
		return nil, fmt.Errorf("load hour histogram: %w", err)
	}

	total := 0
	bestHour, bestHits := DefaultHour, 0
	for hour := 0; hour < 24; hour++ {
		hits := histogram[hour]
		total += hits
		if hits > bestHits {
			bestHour, bestHits = hour, hits
		}
	}

	if total == 0 {
		return &domain.TimingEstimate{OptimalHour: DefaultHour, Confidence: 0, Default: true}, nil
	}

	return &domain.TimingEstimate{
		OptimalHour: bestHour,
		Confidence:  float64(bestHits) / float64(total),
		SampleSize:  total,
	}, nil
}
