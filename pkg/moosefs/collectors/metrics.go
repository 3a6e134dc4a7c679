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
	"github.com/coreos/pkg/capnslog"
	"github.com/prometheus/client_golang/prometheus"
)

var logger = capnslog.NewPackageLogger("github.com/tricorder/moosefs-exporter", "collectors")

const (
	namespace = "moosefs"

	// an info metric is exposed as a gauge with this suffix and the value 1
	infoSuffix = "_info"
)

var (
	masterLabels      = []string{"moosefs_master", "moosefs_master_port"}
	chunkserverLabels = []string{"moosefs_master", "moosefs_master_port", "chunkserver", "port"}
	clusterLabels     = []string{"cluster", "port"}
)

func newGaugeDesc(subsystem, name, help string, labels []string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, labels, nil)
}

// newInfoDesc describes an info metric carrying the string attribute in the label key
func newInfoDesc(subsystem, name, help string, labels []string, key string) *prometheus.Desc {
	withKey := append(append([]string{}, labels...), key)
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name)+infoSuffix, help, withKey, nil)
}

// batch holds the complete series of one entity type until they can be handed out together. The
// first construction error poisons the batch so that nothing partial is ever flushed.
type batch struct {
	metrics []prometheus.Metric
	err     error
}

func (b *batch) gauge(desc *prometheus.Desc, value float64, labelValues ...string) {
	b.add(desc, value, labelValues...)
}

func (b *batch) info(desc *prometheus.Desc, value string, labelValues ...string) {
	withValue := append(append([]string{}, labelValues...), value)
	b.add(desc, 1, withValue...)
}

func (b *batch) add(desc *prometheus.Desc, value float64, labelValues ...string) {
	if b.err != nil {
		return
	}
	m, err := prometheus.NewConstMetric(desc, prometheus.GaugeValue, value, labelValues...)
	if err != nil {
		b.err = err
		return
	}
	b.metrics = append(b.metrics, m)
}

// flush sends the batch unless it failed to build
func (b *batch) flush(ch chan<- prometheus.Metric) error {
	if b.err != nil {
		return b.err
	}
	for _, m := range b.metrics {
		ch <- m
	}
	return nil
}
