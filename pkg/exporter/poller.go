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
	"context"
	"time"
)

// Poller ticks at the polling interval until its context is cancelled. Collection itself happens
// on scrape; each tick only reports the health of the most recent collections.
type Poller struct {
	interval time.Duration
	health   *HealthStatus

	// onTick is called after every tick, for tests
	onTick func()
}

// NewPoller creates a poller ticking every interval
func NewPoller(interval time.Duration, health *HealthStatus) *Poller {
	return &Poller{interval: interval, health: health}
}

// Run blocks until the context is cancelled
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logger.Infof("polling every %s", p.interval)
	for {
		select {
		case <-ctx.Done():
			logger.Infof("poller stopped")
			return nil
		case <-ticker.C:
			if p.health.Healthy() {
				logger.Debugf("exporter health: %v", p.health.Snapshot())
			} else {
				logger.Warningf("last collection failed: %v", p.health.Snapshot())
			}
			if p.onTick != nil {
				p.onTick()
			}
		}
	}
}
