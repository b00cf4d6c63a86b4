package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) error

// healthManager tracks process health state and optional dependency checks.
type healthManager struct {
	mu        sync.RWMutex
	service   string
	startedAt time.Time
	ready     bool
	checks    map[string]HealthChecker
}

var manager = &healthManager{checks: make(map[string]HealthChecker)}

// InitHealthManager resets health state for the named service.
// Liveness is immediate; readiness is reported once SetReady is called.
func InitHealthManager(service string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	manager.service = service
	manager.startedAt = time.Now().UTC()
	manager.ready = true
	manager.checks = make(map[string]HealthChecker)
}

// RegisterHealthCheck adds a named dependency check evaluated on /health/ready.
func RegisterHealthCheck(name string, check HealthChecker) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.checks[name] = check
}

// SetReady flips readiness, e.g. while the catalog connection is being replaced.
func SetReady(ready bool) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.ready = ready
}

// healthStatus is the health endpoint response body.
type healthStatus struct {
	Status  string            `json:"status"`
	Service string            `json:"service,omitempty"`
	Uptime  string            `json:"uptime,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health: overall status including dependency checks.
func Health(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, r, true)
}

// HealthLive handles GET /health/live: process liveness only.
func HealthLive(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, r, false)
}

// HealthReady handles GET /health/ready: readiness plus dependency checks.
func HealthReady(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, r, true)
}

// HealthStartup handles GET /health/startup.
func HealthStartup(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, r, false)
}

func writeHealth(w http.ResponseWriter, r *http.Request, runChecks bool) {
	manager.mu.RLock()
	service := manager.service
	startedAt := manager.startedAt
	ready := manager.ready
	checks := make(map[string]HealthChecker, len(manager.checks))
	for name, check := range manager.checks {
		checks[name] = check
	}
	manager.mu.RUnlock()

	status := healthStatus{
		Status:  "ok",
		Service: service,
		Checks:  map[string]string{},
	}
	if !startedAt.IsZero() {
		status.Uptime = time.Since(startedAt).Round(time.Second).String()
	}

	code := http.StatusOK
	if !ready {
		status.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	if runChecks {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				status.Checks[name] = err.Error()
				status.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			status.Checks[name] = "ok"
		}
	}

	if len(status.Checks) == 0 {
		status.Checks = nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
