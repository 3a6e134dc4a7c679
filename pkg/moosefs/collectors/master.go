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
)

const masterSubsystem = "master"

// MasterCollector exports the state the MooseFS master reports about itself. All series are
// labeled by the master host and port the exporter talks to.
type MasterCollector struct {
	// Context for executing mfscli against the master
	context *clusterd.Context

	// AllCPU, SysCPU and UserCPU are the CPU usage percentages of the master process.
	AllCPU  *prometheus.Desc
	SysCPU  *prometheus.Desc
	UserCPU *prometheus.Desc

	// RAMUsed is the memory held by the master, in bytes.
	RAMUsed *prometheus.Desc

	// LastSaveDuration is how long the last metadata save took.
	LastSaveDuration *prometheus.Desc

	// Version of the master software.
	Version *prometheus.Desc

	// LastSaveStatus is the outcome of the last metadata save.
	LastSaveStatus *prometheus.Desc

	// State is the role of the master, e.g. LEADER or FOLLOWER.
	State *prometheus.Desc
}

// NewMasterCollector creates a MasterCollector for the master in the context
func NewMasterCollector(context *clusterd.Context) *MasterCollector {
	return &MasterCollector{
		context: context,

		AllCPU:           newGaugeDesc(masterSubsystem, "all_cpu", "moosefs master all cpu", masterLabels),
		SysCPU:           newGaugeDesc(masterSubsystem, "sys_cpu", "moosefs master sys cpu", masterLabels),
		UserCPU:          newGaugeDesc(masterSubsystem, "user_cpu", "moosefs master user cpu", masterLabels),
		RAMUsed:          newGaugeDesc(masterSubsystem, "ram_used", "moosefs master ram used", masterLabels),
		LastSaveDuration: newGaugeDesc(masterSubsystem, "last_save_duration_seconds", "moosefs master last metadata save duration", masterLabels),
		Version:          newInfoDesc(masterSubsystem, "version", "moosefs master software version", masterLabels, "version"),
		LastSaveStatus:   newInfoDesc(masterSubsystem, "last_save_status", "moosefs master last save state", masterLabels, "status"),
		State:            newInfoDesc(masterSubsystem, "state", "moosefs master state", masterLabels, "state"),
	}
}

func (m *MasterCollector) descs() []*prometheus.Desc {
	return []*prometheus.Desc{m.AllCPU, m.SysCPU, m.UserCPU, m.RAMUsed, m.LastSaveDuration, m.Version, m.LastSaveStatus, m.State}
}

// Describe sends the descriptors of the master metrics
func (m *MasterCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range m.descs() {
		ch <- desc
	}
}

// Collect sends the master metrics. A failure is logged and no master series are sent.
func (m *MasterCollector) Collect(ch chan<- prometheus.Metric) {
	if err := m.collect(ch); err != nil {
		logger.Errorf("failed collecting master metrics. %+v", err)
	}
}

func (m *MasterCollector) collect(ch chan<- prometheus.Metric) error {
	info, err := client.GetMasterInfo(m.context)
	if err != nil {
		return err
	}

	b := m.build(info)
	if err := b.flush(ch); err != nil {
		return errors.Wrapf(err, "failed to build master metrics")
	}
	return nil
}

func (m *MasterCollector) build(info *client.MasterInfo) *batch {
	labels := []string{m.context.MasterHost, strconv.Itoa(m.context.MasterPort)}

	b := &batch{}
	b.gauge(m.AllCPU, info.AllCPU, labels...)
	b.gauge(m.SysCPU, info.SysCPU, labels...)
	b.gauge(m.UserCPU, info.UserCPU, labels...)
	b.gauge(m.RAMUsed, float64(info.RAMUsed), labels...)
	b.gauge(m.LastSaveDuration, info.LastSaveDuration, labels...)
	b.info(m.Version, info.Version, labels...)
	b.info(m.LastSaveStatus, info.LastSaveStatus, labels...)
	b.info(m.State, info.State, labels...)
	return b
}
