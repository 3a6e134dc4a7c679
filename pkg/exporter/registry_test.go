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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func familyNames(t *testing.T, registry *prometheus.Registry) map[string]bool {
	families, err := registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestNewRegistry(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "moosefs_test_gauge", Help: "test"})

	registry, err := NewRegistry([]string{"go", "process"}, gauge)
	require.NoError(t, err)
	names := familyNames(t, registry)
	assert.True(t, names["moosefs_test_gauge"])
	assert.False(t, names["go_goroutines"])
	assert.False(t, names["process_start_time_seconds"])

	registry, err = NewRegistry([]string{" Process ", ""})
	require.NoError(t, err)
	names = familyNames(t, registry)
	assert.True(t, names["go_goroutines"])
	assert.False(t, names["process_start_time_seconds"])
}

func TestNewRegistryUnknownCollector(t *testing.T) {
	registry, err := NewRegistry([]string{"go", "jvm"})
	assert.Nil(t, registry)
	assert.ErrorContains(t, err, `unknown default collector "jvm"`)
	assert.ErrorContains(t, err, "go,process")
}

func TestNewRegistryDuplicateCollector(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "moosefs_test_gauge", Help: "test"})
	_, err := NewRegistry(DefaultCollectorNames(), gauge, gauge)
	assert.Error(t, err)
}
