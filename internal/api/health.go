package api

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthResponse struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentStatus `json:"components,omitempty"`
	Time       string                     `json:"time"`
}

type ComponentStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

type HealthHandler struct {
	version string
	checks  map[string]Pinger
}

// NewHealthHandler builds probes over the named dependencies. Only enabled
// dependencies should be passed in.
func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	if checks == nil {
		checks = map[string]Pinger{}
	}
	return &HealthHandler{version: version, checks: checks}
}

// Health always answers 200 so the process is not restarted over a
// dependency outage.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Time:    time.Now().Format(time.RFC3339),
	})
}

// Ready answers 503 when any dependency fails its ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	components := make(map[string]ComponentStatus, len(h.checks))
	for name, p := range h.checks {
		start := time.Now()
		if err := p.Ping(ctx); err != nil {
			components[name] = ComponentStatus{Status: "down", Error: err.Error()}
			status = "not_ready"
			code = http.StatusServiceUnavailable
			continue
		}
		components[name] = ComponentStatus{Status: "up", Latency: time.Since(start).String()}
	}

	writeJSON(w, code, HealthResponse{
		Status:     status,
		Version:    h.version,
		Components: components,
		Time:       time.Now().Format(time.RFC3339),
	})
}
