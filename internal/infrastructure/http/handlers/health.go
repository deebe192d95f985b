package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

const defaultCheckTimeout = 3 * time.Second

// Check is one named dependency probe, e.g. the event store or the cooldown store.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health serves the liveness and readiness probes.
type Health struct {
	checks  []Check
	timeout time.Duration
	started time.Time
}

func NewHealth(checks ...Check) *Health {
	return &Health{checks: checks, timeout: defaultCheckTimeout, started: time.Now()}
}

type liveResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Live handles GET /health. It never touches dependencies.
func (h *Health) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, liveResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

type checkResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type readyResponse struct {
	Status       string                 `json:"status"`
	Dependencies map[string]checkResult `json:"dependencies"`
}

// Ready handles GET /health/ready. Checks run in parallel under one deadline;
// any failure turns the response into 503 "degraded".
func (h *Health) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results := make([]checkResult, len(h.checks))
	var wg sync.WaitGroup
	for i, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := check.Ping(ctx)
			res := checkResult{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				res.Status = "unhealthy"
				res.Error = err.Error()
			}
			results[i] = res
		}()
	}
	wg.Wait()

	resp := readyResponse{Status: "ok", Dependencies: make(map[string]checkResult, len(h.checks))}
	code := http.StatusOK
	for i, check := range h.checks {
		resp.Dependencies[check.Name] = results[i]
		if results[i].Status != "ok" {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, resp)
}
