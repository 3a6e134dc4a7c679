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
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tricorder/moosefs-exporter/pkg/clusterd"
	"github.com/tricorder/moosefs-exporter/pkg/moosefs/client"
	"github.com/tricorder/moosefs-exporter/pkg/util"
)

const (
	chunkserverSubsystem = "chunkserver"
	clusterSubsystem     = "cluster"
)

// ClusterAggregate holds the cluster-wide totals over all chunkservers of one scrape
type ClusterAggregate struct {
	ChunkCount       int64
	ChunkserverCount int
	DiskTotal        int64
	DiskUsed         int64
	MaintenanceCount int
}

// Aggregate sums up the chunkservers
func Aggregate(chunkservers client.Chunkservers) ClusterAggregate {
	var agg ClusterAggregate
	for _, cs := range chunkservers {
		agg.add(cs)
	}
	return agg
}

// add accounts for one chunkserver, skipping the attributes it does not have
func (a *ClusterAggregate) add(cs *client.ChunkserverInfo) {
	a.ChunkserverCount++
	if cs.ChunkCount != nil {
		a.ChunkCount += *cs.ChunkCount
	}
	if cs.DiskTotal != nil {
		a.DiskTotal += *cs.DiskTotal
	}
	if cs.DiskUsed != nil {
		a.DiskUsed += *cs.DiskUsed
	}
	if cs.InMaintenance() {
		a.MaintenanceCount++
	}
}

// DiskUsage returns DiskUsed/DiskTotal, or false when the cluster reports no disk at all
func (a ClusterAggregate) DiskUsage() (float64, bool) {
	if a.DiskTotal == 0 {
		return 0, false
	}
	return float64(a.DiskUsed) / float64(a.DiskTotal), true
}

// ChunkserverCollector exports the series of every chunkserver known to the master together with
// the cluster totals derived from them.
type ChunkserverCollector struct {
	// Context for executing mfscli against the master
	context *clusterd.Context

	// String attributes of a chunkserver, exported as info metrics
	Labels      *prometheus.Desc
	Version     *prometheus.Desc
	Maintenance *prometheus.Desc

	Load       *prometheus.Desc
	Port       *prometheus.Desc
	ID         *prometheus.Desc
	ChunkCount *prometheus.Desc
	DiskUsed   *prometheus.Desc
	DiskTotal  *prometheus.Desc
	DiskUsage  *prometheus.Desc

	// Cluster holds the cluster-wide totals, labeled only by the master host and port.
	Cluster ClusterDescs
}

// ClusterDescs describes the cluster-wide metrics
type ClusterDescs struct {
	ChunkCount       *prometheus.Desc
	ChunkserverCount *prometheus.Desc
	DiskTotal        *prometheus.Desc
	DiskUsed         *prometheus.Desc
	DiskUsage        *prometheus.Desc
	MaintenanceCount *prometheus.Desc
}

// NewChunkserverCollector creates a ChunkserverCollector for the master in the context
func NewChunkserverCollector(context *clusterd.Context) *ChunkserverCollector {
	return &ChunkserverCollector{
		context: context,

		Labels:      newInfoDesc(chunkserverSubsystem, "labels", "Chunkserver labels", chunkserverLabels, "labels"),
		Version:     newInfoDesc(chunkserverSubsystem, "version", "Chunkserver version", chunkserverLabels, "version"),
		Maintenance: newInfoDesc(chunkserverSubsystem, "maintenance_status", "Chunkserver maintenance status", chunkserverLabels, "maintenance"),
		Load:        newGaugeDesc(chunkserverSubsystem, "load", "Chunkserver load", chunkserverLabels),
		Port:        newGaugeDesc(chunkserverSubsystem, "port", "Chunkserver port", chunkserverLabels),
		ID:          newGaugeDesc(chunkserverSubsystem, "id", "Chunkserver ID", chunkserverLabels),
		ChunkCount:  newGaugeDesc(chunkserverSubsystem, "chunk_count", "Chunk Count", chunkserverLabels),
		DiskUsed:    newGaugeDesc(chunkserverSubsystem, "disk_used", "Disk used", chunkserverLabels),
		DiskTotal:   newGaugeDesc(chunkserverSubsystem, "disk_total", "Disk total", chunkserverLabels),
		DiskUsage:   newGaugeDesc(chunkserverSubsystem, "disk_usage", "Disk usage ratio", chunkserverLabels),

		Cluster: ClusterDescs{
			ChunkCount:       newGaugeDesc(clusterSubsystem, "chunk_count", "Total chunk count in MooseFS cluster", clusterLabels),
			ChunkserverCount: newGaugeDesc(clusterSubsystem, "chunkserver_count", "Chunkservers in MooseFS cluster", clusterLabels),
			DiskTotal:        newGaugeDesc(clusterSubsystem, "disk_total", "Total disk available in MooseFS cluster", clusterLabels),
			DiskUsed:         newGaugeDesc(clusterSubsystem, "disk_used", "Total disk used in MooseFS cluster", clusterLabels),
			DiskUsage:        newGaugeDesc(clusterSubsystem, "disk_usage", "Disk usage ratio in MooseFS cluster", clusterLabels),
			MaintenanceCount: newGaugeDesc(clusterSubsystem, "maintenance_count", "Chunkservers in maintenance mode in MooseFS cluster", clusterLabels),
		},
	}
}

func (c *ChunkserverCollector) descs() []*prometheus.Desc {
	return []*prometheus.Desc{
		c.Labels, c.Version, c.Maintenance,
		c.Load, c.Port, c.ID, c.ChunkCount, c.DiskUsed, c.DiskTotal, c.DiskUsage,
		c.Cluster.ChunkCount, c.Cluster.ChunkserverCount, c.Cluster.DiskTotal,
		c.Cluster.DiskUsed, c.Cluster.DiskUsage, c.Cluster.MaintenanceCount,
	}
}

// Describe sends the descriptors of the chunkserver and cluster metrics
func (c *ChunkserverCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.descs() {
		ch <- desc
	}
}

// Collect sends the chunkserver and cluster metrics. A failure is logged and only the affected
// batch is dropped.
func (c *ChunkserverCollector) Collect(ch chan<- prometheus.Metric) {
	if _, _, err := c.collect(ch); err != nil {
		logger.Errorf("failed collecting chunkserver metrics. %+v", err)
	}
}

// collect returns the number of chunkserver lines that were skipped and whether the chunkserver
// listing was obtained at all
func (c *ChunkserverCollector) collect(ch chan<- prometheus.Metric) (int, bool, error) {
	chunkservers, lineErrs, err := client.GetChunkservers(c.context)
	if err != nil {
		return 0, false, err
	}

	perChunkserver, cluster := c.build(chunkservers)

	// the two batches fail independently
	var result error
	if err := perChunkserver.flush(ch); err != nil {
		result = errors.Wrapf(err, "failed to build chunkserver metrics")
	}
	if err := cluster.flush(ch); err != nil {
		err = errors.Wrapf(err, "failed to build cluster metrics")
		if result != nil {
			logger.Errorf("%v", err)
		} else {
			result = err
		}
	}
	return len(lineErrs), true, result
}

// build walks the chunkservers once in identity order, producing the per-chunkserver batch while
// accumulating the cluster totals, then the cluster batch.
func (c *ChunkserverCollector) build(chunkservers client.Chunkservers) (*batch, *batch) {
	master := c.context.MasterHost
	masterPort := strconv.Itoa(c.context.MasterPort)

	perChunkserver := &batch{}
	var agg ClusterAggregate
	for _, host := range chunkservers.Hosts() {
		cs := chunkservers[host]
		agg.add(cs)

		port := ""
		if cs.Port != nil {
			port = strconv.Itoa(*cs.Port)
		}
		labels := []string{master, masterPort, host, port}

		if cs.Labels != nil {
			perChunkserver.info(c.Labels, *cs.Labels, labels...)
		}
		if cs.Maintenance != nil {
			perChunkserver.info(c.Maintenance, *cs.Maintenance, labels...)
		}
		if cs.Version != nil {
			perChunkserver.info(c.Version, *cs.Version, labels...)
		}
		if cs.ChunkCount != nil {
			perChunkserver.gauge(c.ChunkCount, float64(*cs.ChunkCount), labels...)
		}
		if cs.ID != nil {
			perChunkserver.gauge(c.ID, float64(*cs.ID), labels...)
		}
		if cs.DiskTotal != nil {
			perChunkserver.gauge(c.DiskTotal, float64(*cs.DiskTotal), labels...)
		}
		if cs.DiskUsage != nil {
			perChunkserver.gauge(c.DiskUsage, *cs.DiskUsage, labels...)
		}
		if cs.DiskUsed != nil {
			perChunkserver.gauge(c.DiskUsed, float64(*cs.DiskUsed), labels...)
		}
		if cs.Load != nil {
			perChunkserver.gauge(c.Load, float64(*cs.Load), labels...)
		}
		if cs.Port != nil {
			perChunkserver.gauge(c.Port, float64(*cs.Port), labels...)
		}
	}

	labels := []string{master, masterPort}
	cluster := &batch{}
	cluster.gauge(c.Cluster.ChunkCount, float64(agg.ChunkCount), labels...)
	cluster.gauge(c.Cluster.DiskTotal, float64(agg.DiskTotal), labels...)
	if usage, ok := agg.DiskUsage(); ok {
		cluster.gauge(c.Cluster.DiskUsage, usage, labels...)
	} else {
		logger.Warningf("cluster %s reports zero disk total, not exporting cluster disk usage", c.context.MasterAddress())
	}
	cluster.gauge(c.Cluster.DiskUsed, float64(agg.DiskUsed), labels...)
	cluster.gauge(c.Cluster.MaintenanceCount, float64(agg.MaintenanceCount), labels...)
	cluster.gauge(c.Cluster.ChunkserverCount, float64(agg.ChunkserverCount), labels...)

	logger.Debugf("cluster %s: %d chunkservers (%d in maintenance), %d chunks, %s of %s used",
		c.context.MasterAddress(), agg.ChunkserverCount, agg.MaintenanceCount, agg.ChunkCount,
		util.FormatBytes(agg.DiskUsed), util.FormatBytes(agg.DiskTotal))
	return perChunkserver, cluster
}
