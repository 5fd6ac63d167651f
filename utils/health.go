package utils

import (
	"context"
	"sync"
	"time"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Checks    map[string]bool `json:"checks"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthMonitor periodically runs a fixed set of checks and keeps the
// latest snapshot in memory.
type HealthMonitor struct {
	checks   map[string]HealthCheck
	interval time.Duration

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(interval time.Duration, checks map[string]HealthCheck) *HealthMonitor {
	return &HealthMonitor{checks: checks, interval: interval}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Start runs one check immediately, then refreshes every interval until
// ctx is done.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.Refresh(ctx)
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Refresh(ctx)
			}
		}
	}()
}

// Refresh runs every check once and stores the result.
func (m *HealthMonitor) Refresh(ctx context.Context) HealthStatus {
	status := HealthStatus{Healthy: true, Checks: make(map[string]bool, len(m.checks))}
	for name, check := range m.checks {
		checkCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
		ok := check(checkCtx) == nil
		cancel()
		status.Checks[name] = ok
		status.Healthy = status.Healthy && ok
	}
	status.CheckedAt = time.Now()

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}
