package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiopulse/pulse/pkg/auth"
	"github.com/studiopulse/pulse/pkg/domain"
	"github.com/studiopulse/pulse/server/mocks"
)

// doRequest performs a request against the server's router with a minted token
func doRequest(t *testing.T, srv *Server, authSvc *auth.Service, method, path, body string, caps ...auth.Capability) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body == "" {
		reqBody = bytes.NewBuffer(nil)
	} else {
		reqBody = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reqBody)
	token, err := authSvc.Mint("user-1", caps...)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_AuthRequired(t *testing.T) {
	srv, authSvc := testServer(&mocks.NotificationsMock{}, &mocks.EngagementMock{})

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodGet, "/api/v1/notifications/unread"},
		{http.MethodPost, "/api/v1/notifications/5/read"},
		{http.MethodPost, "/api/v1/notifications/read-all"},
		{http.MethodPost, "/api/v1/engagement"},
		{http.MethodGet, "/api/v1/engagement/estimate"},
		{http.MethodGet, "/api/v1/insight"},
		{http.MethodPost, "/api/v1/internal/notifications"},
	}

	for _, ep := range protected {
		t.Run("no token "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, http.NoBody)
			rec := httptest.NewRecorder()
			srv.router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})

		t.Run("no capability "+ep.path, func(t *testing.T) {
			// valid token, empty capability set
			rec := doRequest(t, srv, authSvc, ep.method, ep.path, "")
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestListHandler(t *testing.T) {
	store := &mocks.NotificationsMock{
		ListFunc: func(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
			return []domain.Notification{
				{ID: 2, UserID: userID, Category: domain.CategoryMarketing, Title: "newer", Read: false},
				{ID: 1, UserID: userID, Category: domain.CategoryBusinessUpdate, Title: "older", Read: true},
			}, nil
		},
		CountUnreadFunc: func(ctx context.Context, userID string) (int, error) {
			return 1, nil
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	rec := doRequest(t, srv, authSvc, http.MethodGet, "/api/v1/notifications", "", auth.CapNotifyRead)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Notifications []domain.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unread_count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, "newer", resp.Notifications[0].Title)
	assert.Equal(t, 1, resp.UnreadCount)

	calls := store.ListCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "user-1", calls[0].UserID)
	assert.Equal(t, 100, calls[0].Limit, "default page size applies")
}

func TestListHandler_LimitParam(t *testing.T) {
	store := &mocks.NotificationsMock{
		ListFunc: func(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
			return nil, nil
		},
		CountUnreadFunc: func(ctx context.Context, userID string) (int, error) {
			return 0, nil
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	tests := []struct {
		query string
		want  int
	}{
		{"?limit=5", 5},
		{"?limit=500", 100}, // capped at page size
		{"?limit=0", 100},
		{"?limit=-3", 100},
		{"?limit=abc", 100},
		{"", 100},
	}
	for _, tt := range tests {
		t.Run("limit"+tt.query, func(t *testing.T) {
			rec := doRequest(t, srv, authSvc, http.MethodGet, "/api/v1/notifications"+tt.query, "", auth.CapNotifyRead)
			require.Equal(t, http.StatusOK, rec.Code)

			calls := store.ListCalls()
			assert.Equal(t, tt.want, calls[len(calls)-1].Limit)
		})
	}
}

func TestListHandler_UnreadCountCached(t *testing.T) {
	store := &mocks.NotificationsMock{
		ListFunc: func(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
			return nil, nil
		},
		CountUnreadFunc: func(ctx context.Context, userID string) (int, error) {
			return 3, nil
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	for i := 0; i < 3; i++ {
		rec := doRequest(t, srv, authSvc, http.MethodGet, "/api/v1/notifications", "", auth.CapNotifyRead)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// count served from cache after the first hit
	assert.Len(t, store.CountUnreadCalls(), 1)
}

func TestUnreadHandler(t *testing.T) {
	store := &mocks.NotificationsMock{
		ListUnreadFunc: func(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
			return []domain.Notification{
				{ID: 7, UserID: userID, Category: domain.CategoryQuotationUpdate, Title: "quote viewed"},
			}, nil
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	rec := doRequest(t, srv, authSvc, http.MethodGet, "/api/v1/notifications/unread", "", auth.CapNotifyRead)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Notifications []domain.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unread_count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, int64(7), resp.Notifications[0].ID)
	assert.Equal(t, 1, resp.UnreadCount)
}

func TestMarkReadHandler(t *testing.T) {
	store := &mocks.NotificationsMock{
		MarkReadFunc: func(ctx context.Context, id int64, userID string) error {
			if id == 404 {
				return fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
			}
			return nil
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	t.Run("ok", func(t *testing.T) {
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/notifications/5/read", "", auth.CapNotifyRead)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)

		calls := store.MarkReadCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, int64(5), calls[0].ID)
		assert.Equal(t, "user-1", calls[0].UserID)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/notifications/abc/read", "", auth.CapNotifyRead)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/notifications/404/read", "", auth.CapNotifyRead)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMarkReadHandler_InvalidatesUnreadCache(t *testing.T) {
	unread := 5
	store := &mocks.NotificationsMock{
		ListFunc: func(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
			return nil, nil
		},
		CountUnreadFunc: func(ctx context.Context, userID string) (int, error) {
			return unread, nil
		},
		MarkReadFunc: func(ctx context.Context, id int64, userID string) error {
			unread--
			return nil
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	rec := doRequest(t, srv, authSvc, http.MethodGet, "/api/v1/notifications", "", auth.CapNotifyRead)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unread_count":5`)

	rec = doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/notifications/1/read", "", auth.CapNotifyRead)
	require.Equal(t, http.StatusOK, rec.Code)

	// mark-read dropped the cached count, the next list sees the new value
	rec = doRequest(t, srv, authSvc, http.MethodGet, "/api/v1/notifications", "", auth.CapNotifyRead)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unread_count":4`)
	assert.Len(t, store.CountUnreadCalls(), 2)
}

func TestMarkAllReadHandler(t *testing.T) {
	store := &mocks.NotificationsMock{
		MarkAllReadFunc: func(ctx context.Context, userID string) (int64, error) {
			return 7, nil
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/notifications/read-all", "", auth.CapNotifyRead)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updated":7`)

	calls := store.MarkAllReadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "user-1", calls[0].UserID)
}

func TestRecordEngagementHandler(t *testing.T) {
	occurred := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	engagement := &mocks.EngagementMock{
		RecordFunc: func(ctx context.Context, notificationID int64, userID string, kind domain.EventKind, occurredAt time.Time) (*domain.EngagementEvent, error) {
			if notificationID == 404 {
				return nil, fmt.Errorf("notification %d: %w", notificationID, domain.ErrNotFound)
			}
			if !kind.Valid() {
				return nil, fmt.Errorf("event kind %q: %w", kind, domain.ErrValidation)
			}
			return &domain.EngagementEvent{
				ID:             1,
				NotificationID: notificationID,
				UserID:         userID,
				Kind:           kind,
				OccurredAt:     occurredAt,
				Latency:        90 * time.Second,
			}, nil
		},
	}
	srv, authSvc := testServer(&mocks.NotificationsMock{}, engagement)

	t.Run("ok", func(t *testing.T) {
		body := fmt.Sprintf(`{"notification_id": 5, "kind": "viewed", "occurred_at": %q}`, occurred.Format(time.RFC3339))
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/engagement", body, auth.CapNotifyRead)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			ID             int64  `json:"id"`
			NotificationID int64  `json:"notification_id"`
			Kind           string `json:"kind"`
			LatencyMs      int64  `json:"latency_ms"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(5), resp.NotificationID)
		assert.Equal(t, "viewed", resp.Kind)
		assert.Equal(t, int64(90000), resp.LatencyMs)

		calls := engagement.RecordCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, "user-1", calls[0].UserID)
		assert.True(t, calls[0].OccurredAt.Equal(occurred))
	})

	t.Run("broken body", func(t *testing.T) {
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/engagement", "{not json", auth.CapNotifyRead)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/engagement",
			`{"notification_id": 5, "kind": "opened"}`, auth.CapNotifyRead)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown notification", func(t *testing.T) {
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/engagement",
			`{"notification_id": 404, "kind": "viewed"}`, auth.CapNotifyRead)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEstimateHandler(t *testing.T) {
	engagement := &mocks.EngagementMock{
		EstimateFunc: func(ctx context.Context, userID string, category domain.Category) (*domain.TimingEstimate, error) {
			if !category.Valid() {
				return nil, fmt.Errorf("category %q: %w", category, domain.ErrValidation)
			}
			return &domain.TimingEstimate{OptimalHour: 9, Confidence: 0.75, SampleSize: 4}, nil
		},
	}
	srv, authSvc := testServer(&mocks.NotificationsMock{}, engagement)

	t.Run("ok", func(t *testing.T) {
		rec := doRequest(t, srv, authSvc, http.MethodGet,
			"/api/v1/engagement/estimate?category=business_update", "", auth.CapNotifyRead)
		require.Equal(t, http.StatusOK, rec.Code)

		var estimate domain.TimingEstimate
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&estimate))
		assert.Equal(t, 9, estimate.OptimalHour)
		assert.InEpsilon(t, 0.75, estimate.Confidence, 0.0001)
		assert.False(t, estimate.Default)

		calls := engagement.EstimateCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, domain.CategoryBusinessUpdate, calls[0].Category)
	})

	t.Run("missing category", func(t *testing.T) {
		rec := doRequest(t, srv, authSvc, http.MethodGet, "/api/v1/engagement/estimate", "", auth.CapNotifyRead)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestInsightHandler(t *testing.T) {
	store := &mocks.NotificationsMock{
		LatestByCategoryFunc: func(ctx context.Context, userID string, category domain.Category) (*domain.Notification, error) {
			if userID != "user-1" {
				return nil, domain.ErrNotFound
			}
			require.Equal(t, domain.CategoryAIInsight, category)
			return &domain.Notification{
				ID:       9,
				UserID:   userID,
				Category: domain.CategoryAIInsight,
				Priority: domain.PriorityLow,
				Title:    "Engagement insight",
				Message:  "Morning updates perform best.",
				Metadata: map[string]string{"source": "digest"},
			}, nil
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	rec := doRequest(t, srv, authSvc, http.MethodGet, "/api/v1/insight", "", auth.CapNotifyRead)
	require.Equal(t, http.StatusOK, rec.Code)

	var n domain.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&n))
	assert.Equal(t, domain.CategoryAIInsight, n.Category)
	assert.Equal(t, "digest", n.Metadata["source"])
}

func TestInsightHandler_NoneYet(t *testing.T) {
	store := &mocks.NotificationsMock{
		LatestByCategoryFunc: func(ctx context.Context, userID string, category domain.Category) (*domain.Notification, error) {
			return nil, fmt.Errorf("no insight: %w", domain.ErrNotFound)
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	rec := doRequest(t, srv, authSvc, http.MethodGet, "/api/v1/insight", "", auth.CapNotifyRead)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProduceHandler(t *testing.T) {
	store := &mocks.NotificationsMock{
		CreateFunc: func(ctx context.Context, n *domain.Notification) error {
			n.ID = 42
			n.CreatedAt = time.Now().UTC()
			return nil
		},
	}
	srv, authSvc := testServer(store, &mocks.EngagementMock{})

	t.Run("ok", func(t *testing.T) {
		body := `{"user_id": "client-7", "category": "quotation_update", "priority": "high",
			"title": "Quote accepted", "message": "wedding package confirmed",
			"metadata": {"quotation_id": "q-17"}}`
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/internal/notifications", body, auth.CapNotifyProduce)
		require.Equal(t, http.StatusCreated, rec.Code)

		var n domain.Notification
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&n))
		assert.Equal(t, int64(42), n.ID)
		assert.Equal(t, "client-7", n.UserID)
		assert.Equal(t, domain.PriorityHigh, n.Priority)
		assert.Equal(t, "q-17", n.Metadata["quotation_id"])
	})

	t.Run("priority defaults to medium", func(t *testing.T) {
		body := `{"user_id": "client-7", "category": "marketing", "title": "Spring offer"}`
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/internal/notifications", body, auth.CapNotifyProduce)
		require.Equal(t, http.StatusCreated, rec.Code)

		calls := store.CreateCalls()
		created := calls[len(calls)-1].N
		assert.Equal(t, domain.PriorityMedium, created.Priority)
	})

	t.Run("read capability is not enough", func(t *testing.T) {
		body := `{"user_id": "client-7", "category": "marketing", "title": "t"}`
		rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/internal/notifications", body, auth.CapNotifyRead)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"broken body", "{not json"},
			{"missing user_id", `{"category": "marketing", "title": "t"}`},
			{"missing title", `{"user_id": "u", "category": "marketing"}`},
			{"unknown category", `{"user_id": "u", "category": "weather", "title": "t"}`},
			{"unknown priority", `{"user_id": "u", "category": "marketing", "priority": "critical", "title": "t"}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := doRequest(t, srv, authSvc, http.MethodPost, "/api/v1/internal/notifications", tt.body, auth.CapNotifyProduce)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})

	t.Run("store failure", func(t *testing.T) {
		failing := &mocks.NotificationsMock{
			CreateFunc: func(ctx context.Context, n *domain.Notification) error {
				return fmt.Errorf("disk full")
			},
		}
		srv2, authSvc2 := testServer(failing, &mocks.EngagementMock{})

		body := `{"user_id": "u", "category": "marketing", "title": "t"}`
		rec := doRequest(t, srv2, authSvc2, http.MethodPost, "/api/v1/internal/notifications", body, auth.CapNotifyProduce)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "disk full"))
	})
}
