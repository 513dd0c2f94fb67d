// Package httpapi exposes the read-only HTTP surface: health, the
// entitlement-filtered opportunity list, the SSE refresh stream, and the
// admin-only manual-refresh trigger, per spec §4.9/§4.10/§6.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/fairedge/internal/activity"
	"github.com/XavierBriggs/fairedge/internal/broadcaster"
	"github.com/XavierBriggs/fairedge/internal/entitlement"
	"github.com/XavierBriggs/fairedge/internal/hotcache"
	"github.com/XavierBriggs/fairedge/internal/identity"
	"github.com/XavierBriggs/fairedge/internal/models"
	"github.com/XavierBriggs/fairedge/internal/scheduler"
)

// Pinger is satisfied by every dependency the /health endpoint probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies every route needs. Unlike the teacher's
// one-handler-per-resource split (api-gateway/internal/handlers), this
// surface is small enough to live on a single struct.
type Handler struct {
	Cache       *hotcache.Cache
	Activity    *activity.Tracker
	Scheduler   *scheduler.Scheduler
	Broadcaster *broadcaster.Hub

	CachePing       Pinger
	PersistencePing Pinger
	UpstreamPing    Pinger
}

// NewHandler wires a Handler from its dependencies.
func NewHandler(cache *hotcache.Cache, act *activity.Tracker, sched *scheduler.Scheduler, hub *broadcaster.Hub, cachePing, persistencePing, upstreamPing Pinger) *Handler {
	return &Handler{
		Cache:           cache,
		Activity:        act,
		Scheduler:       sched,
		Broadcaster:     hub,
		CachePing:       cachePing,
		PersistencePing: persistencePing,
		UpstreamPing:    upstreamPing,
	}
}

// HealthCheck probes each dependency independently and reports per-service
// status, per spec §6's `{ status, timestamp, services: {cache, persistence,
// upstream} }`.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	services := map[string]string{
		"cache":       probe(ctx, h.CachePing),
		"persistence": probe(ctx, h.PersistencePing),
		"upstream":    probe(ctx, h.UpstreamPing),
	}

	status := "healthy"
	for _, s := range services {
		if s != "healthy" {
			status = "degraded"
			break
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"services":  services,
	})
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "unknown"
	}
	if err := p.Ping(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// GetOpportunities serves the tier-filtered, query-narrowed opportunity
// list, per spec §4.9. The hot cache already stores one pre-filtered,
// pre-capped list per tier (the pipeline applies internal/entitlement
// before the cache swap); this handler only narrows further by the
// `search`/`sport`/`limit` query parameters.
func (h *Handler) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := identityFromContext(r)
	tier := tierFor(id)

	h.recordAccess(ctx, r, id)

	h.Scheduler.EnsureFreshOnRead(ctx)

	opportunities, ok, err := h.Cache.GetTier(ctx, string(tier))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "reading opportunity cache")
		return
	}
	if !ok {
		w.Header().Set("Retry-After", "5")
		respondError(w, http.StatusServiceUnavailable, "warming_up", "first refresh cycle has not completed yet")
		return
	}

	lastRefresh, err := h.Cache.LastRefreshAt(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "reading refresh timestamp")
		return
	}

	totalBeforeFilter := len(opportunities)

	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	sport := r.URL.Query().Get("sport")
	limit := parseIntParam(r, "limit", totalBeforeFilter)

	filtered := opportunities
	applied := false

	if search != "" {
		filtered = filterBySearch(filtered, search)
		applied = true
	}
	if sport != "" {
		filtered = filterBySport(filtered, sport)
		applied = true
	}
	if limit >= 0 && limit < len(filtered) {
		filtered = filtered[:limit]
		applied = true
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"opportunities":       filtered,
		"total_before_filter": totalBeforeFilter,
		"total_after_filter":  len(filtered),
		"user_role":           tier,
		"filtered":            applied,
		"last_refresh_ts":     lastRefresh.Unix(),
	})
}

func (h *Handler) recordAccess(ctx context.Context, r *http.Request, id identity.Identity) {
	if h.Activity == nil {
		return
	}
	sessionID := activity.SessionID(id.UserID, clientIP(r), r.UserAgent())
	_ = h.Activity.RecordAccess(ctx, sessionID, time.Now())
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	return r.RemoteAddr
}

func filterBySearch(opportunities []models.Opportunity, search string) []models.Opportunity {
	out := make([]models.Opportunity, 0, len(opportunities))
	for _, o := range opportunities {
		if strings.Contains(strings.ToLower(o.Event), search) {
			out = append(out, o)
		}
	}
	return out
}

func filterBySport(opportunities []models.Opportunity, sport string) []models.Opportunity {
	out := make([]models.Opportunity, 0, len(opportunities))
	for _, o := range opportunities {
		if o.SportKey == sport {
			out = append(out, o)
		}
	}
	return out
}

func tierFor(id identity.Identity) entitlement.Tier {
	switch id.Role {
	case identity.RoleBasic:
		return entitlement.TierBasic
	case identity.RolePremium:
		return entitlement.TierPremium
	case identity.RoleAdmin:
		return entitlement.TierAdmin
	default:
		return entitlement.TierAnonymous
	}
}

// StreamOpportunities is the SSE endpoint: it subscribes to the broadcaster
// and writes each refresh event as it's published, per spec §4.9/§6.
func (h *Handler) StreamOpportunities(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, unsubscribe := h.Broadcaster.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if _, err := w.Write([]byte(evt.Format())); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// TriggerRefresh is the admin-only manual-refresh endpoint, per spec §4.10.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r)
	if id.Role != identity.RoleAdmin {
		respondError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	taskID, err := h.Scheduler.TriggerManual(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "triggering refresh")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{"task_id": taskID})
}

// RefreshStatus reports a manual-refresh task's current state.
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	taskID := routeParam(r, "taskID")
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "validation_failed", "task_id is required")
		return
	}

	task, ok := h.Scheduler.TaskStatus(taskID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "unknown task id")
		return
	}

	body := map[string]any{"state": task.State}
	if task.Error != "" {
		body["error"] = task.Error
	}
	respondJSON(w, http.StatusOK, body)
}
