package domain

import "time"

// Category identifies the business area a notification belongs to
type Category string

// notification categories
const (
	CategoryBusinessUpdate  Category = "business_update"
	CategoryMarketing       Category = "marketing"
	CategoryQuotationUpdate Category = "quotation_update"
	CategoryAIInsight       Category = "ai_insight"
)

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryBusinessUpdate, CategoryMarketing, CategoryQuotationUpdate, CategoryAIInsight:
		return true
	}
	return false
}

// Priority represents notification urgency
type Priority string

// notification priorities
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is one of the known values
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// EventKind represents the type of user interaction with a notification
type EventKind string

// engagement event kinds
const (
	EventDelivered EventKind = "delivered"
	EventViewed    EventKind = "viewed"
	EventClicked   EventKind = "clicked"
	EventDismissed EventKind = "dismissed"
)

// Valid reports whether the event kind is one of the known values
func (k EventKind) Valid() bool {
	switch k {
	case EventDelivered, EventViewed, EventClicked, EventDismissed:
		return true
	}
	return false
}

// Notification is a single user-facing message record. Created by producers,
// mutated only by mark-read operations, never deleted by this service.
type Notification struct {
	ID        int64             `json:"id"`
	UserID    string            `json:"user_id"`
	Category  Category          `json:"category"`
	Priority  Priority          `json:"priority"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Read      bool              `json:"read"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// EngagementEvent records a user interaction with a notification.
// Immutable once recorded; duplicates accumulate, each row stands on its own.
type EngagementEvent struct {
	ID             int64
	NotificationID int64
	UserID         string
	Kind           EventKind
	OccurredAt     time.Time
	Latency        time.Duration
	CreatedAt      time.Time
}

// TimingEstimate is an advisory best-send-hour derived from engagement
// history. Default is set when no history exists for the (user, category)
// pair and the fixed midday fallback is returned instead.
type TimingEstimate struct {
	OptimalHour int     `json:"optimal_hour"`
	Confidence  float64 `json:"confidence"`
	SampleSize  int     `json:"sample_size"`
	Default     bool    `json:"default"`
}

// CategoryStats aggregates engagement history for one category, used to
// build LLM insight prompts
type CategoryStats struct {
	Category     Category
	Total        int
	Viewed       int
	Clicked      int
	Dismissed    int
	AvgLatency   time.Duration
	BestHour     int
	BestHourHits int
}
