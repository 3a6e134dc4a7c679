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

package collectors

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tricorder/moosefs-exporter/pkg/clusterd"
)

const (
	exporterSubsystem = "exporter"

	// MasterCollectorName and ChunkserverCollectorName are the values of the collector label
	MasterCollectorName      = "master"
	ChunkserverCollectorName = "chunkservers"
)

// ScrapeObserver is told the outcome of every collection
type ScrapeObserver interface {
	ObserveScrape(collector string, success bool, duration time.Duration)
}

// MooseFSCollector runs one full collection per scrape: the master first, then the chunkservers
// and the cluster totals. A failure of one does not prevent the other. Nothing is carried over
// between scrapes.
type MooseFSCollector struct {
	Master       *MasterCollector
	Chunkservers *ChunkserverCollector

	// ScrapeSuccess is 1 when the collector produced its series during this scrape.
	ScrapeSuccess *prometheus.Desc

	// ScrapeDuration is the time the collector needed, mfscli included.
	ScrapeDuration *prometheus.Desc

	// ChunkserverParseErrors counts the chunkserver lines skipped during this scrape. It is absent
	// when mfscli failed to list the chunkservers.
	ChunkserverParseErrors *prometheus.Desc

	observer ScrapeObserver
}

// NewMooseFSCollector creates the collector for the master in the context. The observer may be nil.
func NewMooseFSCollector(context *clusterd.Context, observer ScrapeObserver) *MooseFSCollector {
	return &MooseFSCollector{
		Master:       NewMasterCollector(context),
		Chunkservers: NewChunkserverCollector(context),

		ScrapeSuccess: newGaugeDesc(exporterSubsystem, "scrape_success",
			"Whether the last collection of the collector succeeded", []string{"collector"}),
		ScrapeDuration: newGaugeDesc(exporterSubsystem, "scrape_duration_seconds",
			"Duration of the last collection of the collector", []string{"collector"}),
		ChunkserverParseErrors: newGaugeDesc(exporterSubsystem, "chunkserver_parse_errors",
			"Chunkserver lines skipped during the last collection", nil),

		observer: observer,
	}
}

// Describe sends the descriptors of every metric the collector may produce
func (m *MooseFSCollector) Describe(ch chan<- *prometheus.Desc) {
	m.Master.Describe(ch)
	m.Chunkservers.Describe(ch)
	ch <- m.ScrapeSuccess
	ch <- m.ScrapeDuration
	ch <- m.ChunkserverParseErrors
}

// Collect runs the collection and sends the metrics
func (m *MooseFSCollector) Collect(ch chan<- prometheus.Metric) {
	self := &batch{}

	start := time.Now()
	err := m.Master.collect(ch)
	if err != nil {
		logger.Errorf("failed collecting master metrics. %+v", err)
	}
	m.report(self, MasterCollectorName, err == nil, time.Since(start))

	start = time.Now()
	skipped, listed, err := m.Chunkservers.collect(ch)
	if err != nil {
		logger.Errorf("failed collecting chunkserver metrics. %+v", err)
	}
	m.report(self, ChunkserverCollectorName, err == nil, time.Since(start))
	// without a listing there is no parse to report on
	if listed {
		self.gauge(m.ChunkserverParseErrors, float64(skipped))
	}

	if err := self.flush(ch); err != nil {
		logger.Errorf("failed to build exporter metrics. %v", err)
	}
}

func (m *MooseFSCollector) report(self *batch, collector string, success bool, duration time.Duration) {
	value := 0.0
	if success {
		value = 1
	}
	self.gauge(m.ScrapeSuccess, value, collector)
	self.gauge(m.ScrapeDuration, duration.Seconds(), collector)

	if m.observer != nil {
		m.observer.ObserveScrape(collector, success, duration)
	}
}
