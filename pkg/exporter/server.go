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
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// HealthPath serves the health snapshot as JSON
	HealthPath = "/healthz"

	shutdownTimeout = 5 * time.Second
)

const landingPage = `<html>
<head><title>MooseFS Exporter</title></head>
<body>
<h1>MooseFS Exporter</h1>
<p><a href="%s">Metrics</a></p>
<p><a href="%s">Health</a></p>
</body>
</html>
`

// SetupRouter routes the metrics of the registry, a landing page and the health snapshot
func SetupRouter(registry *prometheus.Registry, metricsPath string, health *HealthStatus) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	metrics := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog:      promLogger{},
		ErrorHandling: promhttp.ContinueOnError,
	})
	r.GET(metricsPath, gin.WrapH(metrics))

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(landingPage, metricsPath, HealthPath)))
	})

	r.GET(HealthPath, func(c *gin.Context) {
		status := http.StatusOK
		if !health.Healthy() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health.Snapshot())
	})

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("%s %s from %s: %d in %s", c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Writer.Status(), time.Since(start))
	}
}

// promLogger hands promhttp errors to the package logger
type promLogger struct{}

func (promLogger) Println(v ...interface{}) {
	logger.Error(v...)
}

// Server exposes the router on the listen address until its context is cancelled
type Server struct {
	server *http.Server
}

// NewServer creates a server listening on address:port. An empty address listens on all interfaces.
func NewServer(address string, port int, handler http.Handler) *Server {
	return &Server{
		server: &http.Server{
			Addr:              net.JoinHostPort(address, strconv.Itoa(port)),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.server.Addr
}

// Run serves until the context is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.server.Addr)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on the listener until the context is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	logger.Infof("serving metrics on %s", listener.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return errors.Wrapf(err, "metrics server stopped")
	case <-ctx.Done():
	}

	logger.Infof("shutting down metrics server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrapf(err, "failed to shut down metrics server")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
