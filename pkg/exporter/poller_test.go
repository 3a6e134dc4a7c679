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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollerStopsOnCancel(t *testing.T) {
	health := NewHealthStatus()
	health.ObserveScrape("master", false, time.Millisecond)

	poller := NewPoller(time.Millisecond, health)
	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	poller.onTick = func() {
		ticks++
		if ticks == 3 {
			cancel()
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- poller.Run(ctx)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("poller did not stop")
	}
	assert.GreaterOrEqual(t, ticks, 3)
}
