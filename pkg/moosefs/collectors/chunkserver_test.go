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
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tricorder/moosefs-exporter/pkg/moosefs/client"
)

func int64Ptr(v int64) *int64    { return &v }
func stringPtr(v string) *string { return &v }

func TestAggregate(t *testing.T) {
	chunkservers, lineErrs := client.ParseChunkservers(strings.Join([]string{
		"CHUNKSERVERS^cs1^9422^1^^4.53.6^10^maintenance_off^100^10^100",
		"CHUNKSERVERS^cs2^9422^2^^4.53.6^10^maintenance_manual^200^20^100",
		"CHUNKSERVERS^cs3^9422^3^^4.53.6^10^maintenance_temporary^300^30^200",
	}, "\n"))
	require.Empty(t, lineErrs)

	agg := Aggregate(chunkservers)
	assert.Equal(t, ClusterAggregate{
		ChunkCount:       600,
		ChunkserverCount: 3,
		DiskTotal:        400,
		DiskUsed:         60,
		MaintenanceCount: 2,
	}, agg)

	usage, ok := agg.DiskUsage()
	assert.True(t, ok)
	assert.Equal(t, 0.15, usage)
}

func TestAggregateSparseRecords(t *testing.T) {
	agg := Aggregate(client.Chunkservers{
		"a": {Host: "a", DiskTotal: int64Ptr(50)},
		"b": {Host: "b", ChunkCount: int64Ptr(7), Maintenance: stringPtr(client.MaintenanceOff)},
		"c": {Host: "c", Maintenance: stringPtr("maintenance_on")},
	})

	assert.Equal(t, ClusterAggregate{ChunkCount: 7, ChunkserverCount: 3, DiskTotal: 50, MaintenanceCount: 1}, agg)
	usage, ok := agg.DiskUsage()
	assert.True(t, ok)
	assert.Equal(t, 0.0, usage)
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(client.Chunkservers{})
	assert.Equal(t, ClusterAggregate{}, agg)
	_, ok := agg.DiskUsage()
	assert.False(t, ok)
}

func countDesc(metrics []prometheus.Metric, desc *prometheus.Desc) int {
	count := 0
	for _, m := range metrics {
		if m.Desc() == desc {
			count++
		}
	}
	return count
}

func TestBuildSkipsAbsentAttributes(t *testing.T) {
	collector := NewChunkserverCollector(newTestContext("", ""))

	full, err := client.ParseChunkserverLine("CHUNKSERVERS^10.0.0.5^9422^3^rack1^4.53.6^100^maintenance_off^5000^900000000000^1000000000000")
	require.NoError(t, err)
	sparse, err := client.ParseChunkserverLine("CHUNKSERVERS^10.0.0.6^9422^4^rack2^4.53.6^50^maintenance_off^3000^100000000000^1000000000000")
	require.NoError(t, err)
	sparse.Labels = nil

	perChunkserver, cluster := collector.build(client.Chunkservers{full.Host: full, sparse.Host: sparse})
	require.NoError(t, perChunkserver.err)
	require.NoError(t, cluster.err)

	assert.Equal(t, 1, countDesc(perChunkserver.metrics, collector.Labels))
	for _, desc := range []*prometheus.Desc{
		collector.Version, collector.Maintenance, collector.Load, collector.Port, collector.ID,
		collector.ChunkCount, collector.DiskUsed, collector.DiskTotal, collector.DiskUsage,
	} {
		assert.Equal(t, 2, countDesc(perChunkserver.metrics, desc), desc.String())
	}
	assert.Len(t, cluster.metrics, 6)
}

func TestBuildOrdersByChunkserver(t *testing.T) {
	collector := NewChunkserverCollector(newTestContext("", ""))
	chunkservers, _ := client.ParseChunkservers(strings.Join([]string{
		"CHUNKSERVERS^cs-b^9422^2^^4.53.6^10^maintenance_off^200^20^100",
		"CHUNKSERVERS^cs-a^9422^1^^4.53.6^10^maintenance_off^100^10^100",
	}, "\n"))

	perChunkserver, _ := collector.build(chunkservers)
	require.NotEmpty(t, perChunkserver.metrics)
	first := perChunkserver.metrics[0]
	assert.Equal(t, collector.Labels, first.Desc())
	assert.Equal(t, "cs-a", labelValue(t, first, "chunkserver"))

	last := perChunkserver.metrics[len(perChunkserver.metrics)-1]
	assert.Equal(t, "cs-b", labelValue(t, last, "chunkserver"))
}

func labelValue(t *testing.T, m prometheus.Metric, name string) string {
	out := &dto.Metric{}
	require.NoError(t, m.Write(out))
	for _, label := range out.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}

func TestClusterSeriesWithZeroDiskTotal(t *testing.T) {
	collector := NewChunkserverCollector(newTestContext("", "CHUNKSERVERS^cs1^9422^1^^4.53.6^0^maintenance_manual^4^0^0\n"))

	expected := `
# HELP moosefs_cluster_chunkserver_count Chunkservers in MooseFS cluster
# TYPE moosefs_cluster_chunkserver_count gauge
moosefs_cluster_chunkserver_count{cluster="mfsmaster",port="9421"} 1
# HELP moosefs_cluster_chunk_count Total chunk count in MooseFS cluster
# TYPE moosefs_cluster_chunk_count gauge
moosefs_cluster_chunk_count{cluster="mfsmaster",port="9421"} 4
# HELP moosefs_cluster_maintenance_count Chunkservers in maintenance mode in MooseFS cluster
# TYPE moosefs_cluster_maintenance_count gauge
moosefs_cluster_maintenance_count{cluster="mfsmaster",port="9421"} 1
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"moosefs_cluster_chunkserver_count", "moosefs_cluster_chunk_count", "moosefs_cluster_maintenance_count", "moosefs_cluster_disk_usage"))
	assert.Equal(t, 0, testutil.CollectAndCount(collector, "moosefs_cluster_disk_usage"))
	assert.Equal(t, 0, testutil.CollectAndCount(collector, "moosefs_chunkserver_disk_usage"))
	assert.Equal(t, 1, testutil.CollectAndCount(collector, "moosefs_chunkserver_disk_total"))
}

func TestBatchConstructionErrorDropsBatch(t *testing.T) {
	desc := newGaugeDesc("test", "gauge", "test gauge", []string{"a"})

	b := &batch{}
	b.gauge(desc, 1, "x")
	b.gauge(desc, 2, "x", "unexpected")
	b.gauge(desc, 3, "y")
	assert.Error(t, b.err)

	ch := make(chan prometheus.Metric, 10)
	assert.Error(t, b.flush(ch))
	assert.Empty(t, ch)
}

func TestChunkserverCollectorSkipsInvalidUTF8Line(t *testing.T) {
	collector := NewChunkserverCollector(newTestContext("",
		"CHUNKSERVERS^cs1^9422^1^rack1^4.53.6^10^maintenance_off^100^10^100\n"+
			"CHUNKSERVERS^cs2^9422^2^r\xffck^4.53.6^10^maintenance_off^200^20^100\n"))

	assert.Equal(t, 1, testutil.CollectAndCount(collector, "moosefs_chunkserver_chunk_count"))
	assert.Equal(t, 1, testutil.CollectAndCount(collector, "moosefs_chunkserver_labels_info"))
	assert.Equal(t, 1, testutil.CollectAndCount(collector, "moosefs_cluster_chunkserver_count"))
}
