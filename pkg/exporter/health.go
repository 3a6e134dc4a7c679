/*
Copyright 2024 The Rook Authors. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package exporter

import (
	"sync"
	"sync/atomic"
	"time"
)

// HealthStatus records the outcome of the most recent collections. It is safe for concurrent use.
type HealthStatus struct {
	startedAt       time.Time
	lastCollectedAt atomic.Int64

	mu       sync.RWMutex
	outcomes map[string]outcome
}

type outcome struct {
	success  bool
	duration time.Duration
	at       time.Time
}

// NewHealthStatus creates a HealthStatus with no collection recorded yet
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		startedAt: time.Now(),
		outcomes:  map[string]outcome{},
	}
}

// ObserveScrape records the outcome of one collector
func (h *HealthStatus) ObserveScrape(collector string, success bool, duration time.Duration) {
	now := time.Now()
	h.lastCollectedAt.Store(now.UnixNano())

	h.mu.Lock()
	defer h.mu.Unlock()
	h.outcomes[collector] = outcome{success: success, duration: duration, at: now}
}

// Healthy is true until a collector's most recent collection failed
func (h *HealthStatus) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range h.outcomes {
		if !o.success {
			return false
		}
	}
	return true
}

// Snapshot returns the health as a JSON friendly map
func (h *HealthStatus) Snapshot() map[string]any {
	out := map[string]any{
		"healthy":    h.Healthy(),
		"started_at": h.startedAt.UTC(),
	}
	if v := h.lastCollectedAt.Load(); v > 0 {
		out["last_collected_at"] = time.Unix(0, v).UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	collectors := map[string]any{}
	for name, o := range h.outcomes {
		collectors[name] = map[string]any{
			"success":          o.success,
			"duration_seconds": o.duration.Seconds(),
			"at":               o.at.UTC(),
		}
	}
	out["collectors"] = collectors
	return out
}
