package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	backend string
	logger  zerolog.Logger
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Store     StoreStatus       `json:"store"`
	Routes    map[string]string `json:"routes"`
}

type StoreStatus struct {
	Backend string `json:"backend"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func NewHealthHandler(store Pinger, backend string, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		backend: backend,
		logger:  logger,
	}
}

// Health reports 200 while the store answers pings and 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "OK",
		Message:   "BrowseCart API is running",
		Timestamp: time.Now().UTC(),
		Store:     StoreStatus{Backend: h.backend, Status: "up"},
		Routes: map[string]string{
			"auth":  "/api/auth",
			"shops": "/api/shops",
		},
	}

	code := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Str("backend", h.backend).Msg("Store health check failed")
		resp.Status = "DEGRADED"
		resp.Store.Status = "down"
		resp.Store.Error = err.Error()
		code = http.StatusServiceUnavailable
	}

	respondWithJSON(w, code, resp)
}
