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
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, health *HealthStatus) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "moosefs_test_gauge", Help: "test"})
	gauge.Set(42)
	registry, err := NewRegistry(DefaultCollectorNames(), gauge)
	require.NoError(t, err)
	return SetupRouter(registry, "/metrics", health)
}

func TestSetupRouter(t *testing.T) {
	router := newTestRouter(t, NewHealthStatus())

	expectedRoutes := []struct {
		method string
		path   string
	}{
		{method: "GET", path: "/metrics"},
		{method: "GET", path: "/"},
		{method: "GET", path: "/healthz"},
	}

	routes := router.Routes()
	for _, expected := range expectedRoutes {
		found := false
		for _, route := range routes {
			if route.Method == expected.method && route.Path == expected.path {
				found = true
				break
			}
		}
		assert.True(t, found, "Route %s %s should be registered", expected.method, expected.path)
	}
	assert.Equal(t, len(expectedRoutes), len(routes))
}

func TestRouterMetrics(t *testing.T) {
	router := newTestRouter(t, NewHealthStatus())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "moosefs_test_gauge 42")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<a href="/metrics">`)
}

func TestRouterHealth(t *testing.T) {
	health := NewHealthStatus()
	router := newTestRouter(t, health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	health.ObserveScrape("master", false, time.Millisecond)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["healthy"])
	assert.Contains(t, body["collectors"], "master")
}

func TestServerShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := NewServer("127.0.0.1", 0, newTestRouter(t, NewHealthStatus()))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, listener)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "moosefs_test_gauge 42")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerListenFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	server := NewServer("127.0.0.1", port, http.NotFoundHandler())
	assert.Equal(t, listener.Addr().String(), server.Addr())
	err = server.Run(context.Background())
	assert.ErrorContains(t, err, "failed to listen")
}
