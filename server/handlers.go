package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/studiopulse/pulse/pkg/auth"
	"github.com/studiopulse/pulse/pkg/domain"
)

// requireCap resolves the request identity and checks a capability.
// Writes the error response and returns nil when the check fails.
func (s *Server) requireCap(w http.ResponseWriter, r *http.Request, c auth.Capability) *auth.Identity {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		renderError(w, r, fmt.Errorf("no identity in request"), http.StatusUnauthorized)
		return nil
	}
	if !identity.Can(c) {
		renderError(w, r, fmt.Errorf("capability %s required", c), http.StatusForbidden)
		return nil
	}
	return identity
}

// limitParam reads the limit query parameter capped at the configured page size
func (s *Server) limitParam(r *http.Request) int {
	limit := s.pageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}
	return limit
}

// unreadCount returns the cached per-user unread count, refreshed on miss
func (s *Server) unreadCount(r *http.Request, userID string) (int, error) {
	if count, ok := s.unreadCache.Get(userID); ok {
		return count, nil
	}
	count, err := s.store.CountUnread(r.Context(), userID)
	if err != nil {
		return 0, err
	}
	s.unreadCache.Set(userID, count)
	return count, nil
}

// listResponse wraps a notification page with the unread counter
type listResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// listHandler returns all notifications for the authenticated user,
// newest first, capped at the page size
func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	identity := s.requireCap(w, r, auth.CapNotifyRead)
	if identity == nil {
		return
	}

	notifications, err := s.store.List(r.Context(), identity.UserID, s.limitParam(r))
	if err != nil {
		log.Printf("[ERROR] failed to list notifications: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}

	count, err := s.unreadCount(r, identity.UserID)
	if err != nil {
		log.Printf("[ERROR] failed to count unread: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}

	renderJSON(w, r, http.StatusOK, listResponse{Notifications: notifications, UnreadCount: count})
}

// unreadHandler returns only unread notifications
func (s *Server) unreadHandler(w http.ResponseWriter, r *http.Request) {
	identity := s.requireCap(w, r, auth.CapNotifyRead)
	if identity == nil {
		return
	}

	notifications, err := s.store.ListUnread(r.Context(), identity.UserID, s.limitParam(r))
	if err != nil {
		log.Printf("[ERROR] failed to list unread notifications: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}

	renderJSON(w, r, http.StatusOK, listResponse{Notifications: notifications, UnreadCount: len(notifications)})
}

// markReadHandler marks one notification read; already-read is a no-op
func (s *Server) markReadHandler(w http.ResponseWriter, r *http.Request) {
	identity := s.requireCap(w, r, auth.CapNotifyRead)
	if identity == nil {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		renderError(w, r, fmt.Errorf("invalid notification ID"), http.StatusBadRequest)
		return
	}

	if err := s.store.MarkRead(r.Context(), id, identity.UserID); err != nil {
		log.Printf("[WARN] failed to mark notification %d read: %v", id, err)
		renderError(w, r, err, errorCode(err))
		return
	}

	s.unreadCache.Invalidate(identity.UserID)
	renderJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// markAllReadHandler marks all of the user's notifications read in one call
func (s *Server) markAllReadHandler(w http.ResponseWriter, r *http.Request) {
	identity := s.requireCap(w, r, auth.CapNotifyRead)
	if identity == nil {
		return
	}

	updated, err := s.store.MarkAllRead(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("[ERROR] failed to mark all read: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}

	s.unreadCache.Invalidate(identity.UserID)
	renderJSON(w, r, http.StatusOK, map[string]int64{"updated": updated})
}

// engagementRequest is the record-engagement request body
type engagementRequest struct {
	NotificationID int64     `json:"notification_id"`
	Kind           string    `json:"kind"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// engagementResponse echoes the stored event with its derived latency
type engagementResponse struct {
	ID             int64     `json:"id"`
	NotificationID int64     `json:"notification_id"`
	Kind           string    `json:"kind"`
	OccurredAt     time.Time `json:"occurred_at"`
	LatencyMs      int64     `json:"latency_ms"`
}

// recordEngagementHandler stores a user interaction with a notification
func (s *Server) recordEngagementHandler(w http.ResponseWriter, r *http.Request) {
	identity := s.requireCap(w, r, auth.CapNotifyRead)
	if identity == nil {
		return
	}

	var req engagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	event, err := s.engagement.Record(r.Context(), req.NotificationID, identity.UserID,
		domain.EventKind(req.Kind), req.OccurredAt)
	if err != nil {
		log.Printf("[WARN] failed to record engagement: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}

	renderJSON(w, r, http.StatusCreated, engagementResponse{
		ID:             event.ID,
		NotificationID: event.NotificationID,
		Kind:           string(event.Kind),
		OccurredAt:     event.OccurredAt,
		LatencyMs:      event.Latency.Milliseconds(),
	})
}

// estimateHandler returns the advisory best-send-hour for a category
func (s *Server) estimateHandler(w http.ResponseWriter, r *http.Request) {
	identity := s.requireCap(w, r, auth.CapNotifyRead)
	if identity == nil {
		return
	}

	category := domain.Category(r.URL.Query().Get("category"))
	estimate, err := s.engagement.Estimate(r.Context(), identity.UserID, category)
	if err != nil {
		renderError(w, r, err, errorCode(err))
		return
	}

	renderJSON(w, r, http.StatusOK, estimate)
}

// insightHandler returns the latest AI insight notification for the user
func (s *Server) insightHandler(w http.ResponseWriter, r *http.Request) {
	identity := s.requireCap(w, r, auth.CapNotifyRead)
	if identity == nil {
		return
	}

	insight, err := s.store.LatestByCategory(r.Context(), identity.UserID, domain.CategoryAIInsight)
	if err != nil {
		renderError(w, r, err, errorCode(err))
		return
	}

	renderJSON(w, r, http.StatusOK, insight)
}

// produceRequest is the internal producer request body
type produceRequest struct {
	UserID   string            `json:"user_id"`
	Category string            `json:"category"`
	Priority string            `json:"priority"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata"`
}

// produceHandler creates a notification on behalf of a business-event
// producer; the one write path into the store
func (s *Server) produceHandler(w http.ResponseWriter, r *http.Request) {
	identity := s.requireCap(w, r, auth.CapNotifyProduce)
	if identity == nil {
		return
	}

	var req produceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	if req.UserID == "" {
		renderError(w, r, fmt.Errorf("user_id is required"), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		renderError(w, r, fmt.Errorf("title is required"), http.StatusBadRequest)
		return
	}
	category := domain.Category(req.Category)
	if !category.Valid() {
		renderError(w, r, fmt.Errorf("unknown category %q", req.Category), http.StatusBadRequest)
		return
	}
	priority := domain.Priority(req.Priority)
	if req.Priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		renderError(w, r, fmt.Errorf("unknown priority %q", req.Priority), http.StatusBadRequest)
		return
	}

	notification := &domain.Notification{
		UserID:   req.UserID,
		Category: category,
		Priority: priority,
		Title:    req.Title,
		Message:  req.Message,
		Metadata: req.Metadata,
	}
	if err := s.store.Create(r.Context(), notification); err != nil {
		log.Printf("[ERROR] failed to create notification: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}

	s.unreadCache.Invalidate(req.UserID)
	renderJSON(w, r, http.StatusCreated, notification)
}
