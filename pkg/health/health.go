// Package health provides liveness and readiness HTTP probes. Checks
// run in parallel under a shared timeout and responses are JSON, which
// matches the rest of the API surface.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Second

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports whether a single dependency is reachable.
type CheckFunc func(ctx context.Context) error

// Checks maps probe names to their check functions.
type Checks map[string]CheckFunc

// Response is the aggregated probe result.
type Response struct {
	Status string           `json:"status"`
	Checks map[string]Check `json:"checks,omitempty"`
}

// Check is the result of a single named probe.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Option configures a readiness handler.
type Option func(*handler)

// WithTimeout bounds the total time all checks may take.
func WithTimeout(d time.Duration) Option {
	return func(h *handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

type handler struct {
	checks  Checks
	timeout time.Duration
}

// Live always reports healthy. Use it to signal the process is up.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Response{Status: StatusHealthy})
	}
}

// Ready runs every check in parallel and reports 503 when any fails.
func Ready(checks Checks, opts ...Option) http.HandlerFunc {
	h := &handler{checks: checks, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(h)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := h.run(r.Context())

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func (h *handler) run(ctx context.Context) Response {
	if len(h.checks) == 0 {
		return Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]Check, len(h.checks))
		failed  bool
	)

	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := Check{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				result.Status = StatusUnhealthy
				result.Error = err.Error()
			}

			mu.Lock()
			if result.Status == StatusUnhealthy {
				failed = true
			}
			results[name] = result
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()

	status := StatusHealthy
	if failed {
		status = StatusUnhealthy
	}
	return Response{Status: status, Checks: results}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
