package rest

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fortuna/courtvision/internal/auth"
	"github.com/fortuna/courtvision/internal/cache"
	"github.com/fortuna/courtvision/internal/chat"
	"github.com/fortuna/courtvision/internal/injuries"
	"github.com/fortuna/courtvision/internal/publisher"
	"github.com/fortuna/courtvision/internal/store"
	"github.com/fortuna/courtvision/internal/trends"
)

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	gate      *auth.Gate
	cache     *cache.RedisCache
	trends    *trends.Service
	injuries  *injuries.Service
	chat      *chat.Service
	publisher *publisher.RedisStreamPublisher
	archive   *store.SnapshotRepository // nil when archiving is disabled
}

// NewHandler creates a new handler.
func NewHandler(gate *auth.Gate, redisCache *cache.RedisCache, trendSvc *trends.Service, injurySvc *injuries.Service, chatSvc *chat.Service, pub *publisher.RedisStreamPublisher, archive *store.SnapshotRepository) *Handler {
	return &Handler{
		gate:      gate,
		cache:     redisCache,
		trends:    trendSvc,
		injuries:  injurySvc,
		chat:      chatSvc,
		publisher: pub,
		archive:   archive,
	}
}

// HealthCheck handles health check requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if err := h.cache.HealthCheck(r.Context()); err != nil {
		status = "degraded"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"service": "courtvision",
		"version": "1.0.0",
	})
}

// Login checks the access password and issues a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, err := h.gate.Login(req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid password", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetTrends returns the current trend report. Upstream failures surface as
// an empty table with warnings, never an error status.
func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.trends.Report(r.Context()))
}

// GetInjuries returns the current injury map.
func (h *Handler) GetInjuries(w http.ResponseWriter, r *http.Request) {
	report := h.injuries.Report(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"injuries": report,
		"count":    len(report),
	})
}

// GetTodaysGames returns today's opponent adjacency.
func (h *Handler) GetTodaysGames(w http.ResponseWriter, r *http.Request) {
	opponents := h.trends.TodaysOpponents(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"opponents": opponents,
		"count":     len(opponents) / 2,
	})
}

// GetDefense returns the defensive-rating table.
func (h *Handler) GetDefense(w http.ResponseWriter, r *http.Request) {
	defense := h.trends.DefensiveRatings(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"defense": defense,
		"count":   len(defense),
	})
}

// PostChat answers a single free-text question.
func (h *Handler) PostChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	answer := h.chat.Ask(r.Context(), sessionFromContext(r.Context()), req.Question)
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// ClearCache deletes every cached value; every source refetches on next use.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.cache.Clear(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear cache", err)
		return
	}

	if h.publisher != nil {
		// Notification only; the clear itself already succeeded.
		if err := h.publisher.Publish(r.Context(), publisher.EventCacheCleared, map[string]int{"keys_cleared": cleared}); err != nil {
			log.Printf("[rest] cache clear event publish failed: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Cache cleared",
		"keys_cleared": cleared,
	})
}

// GetTrendHistory lists archived snapshots, newest first.
func (h *Handler) GetTrendHistory(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"snapshots": []store.SnapshotSummary{},
			"warnings":  []string{"Snapshot archive disabled"},
		})
		return
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	snapshots, err := h.archive.ListSnapshots(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}
	if snapshots == nil {
		snapshots = []store.SnapshotSummary{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"snapshots": snapshots})
}

// GetTrendSnapshot returns one archived report in full.
func (h *Handler) GetTrendSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusNotFound, "Snapshot archive disabled", nil)
		return
	}

	vars := mux.Vars(r)
	snapshotID, err := strconv.ParseInt(vars["snapshotID"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid snapshot ID", err)
		return
	}

	report, err := h.archive.GetSnapshot(r.Context(), snapshotID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Snapshot not found", err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
