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

package client

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/tricorder/moosefs-exporter/pkg/clusterd"
)

const (
	// MaintenanceOff is the maintenance status of a chunkserver that is not in maintenance
	MaintenanceOff = "maintenance_off"

	// marker plus ten fields
	chunkserverFieldCount = 11
)

// ChunkserverInfo is what the master reports about one chunkserver. Every attribute is optional so
// that a partial record still exports the attributes it has.
type ChunkserverInfo struct {
	// Host is the chunkserver identity, its hostname or IP as reported by the master
	Host        string
	Port        *int
	ID          *int
	Labels      *string
	Version     *string
	Load        *int
	Maintenance *string
	ChunkCount  *int64
	DiskUsed    *int64
	DiskTotal   *int64
	// DiskUsage is DiskUsed/DiskTotal, absent when DiskTotal is zero
	DiskUsage *float64
}

// InMaintenance returns true unless the maintenance status is exactly MaintenanceOff. A record
// without a maintenance status is not in maintenance.
func (c *ChunkserverInfo) InMaintenance() bool {
	return c.Maintenance != nil && *c.Maintenance != MaintenanceOff
}

// Chunkservers maps the chunkserver identity to its info
type Chunkservers map[string]*ChunkserverInfo

// Hosts returns the chunkserver identities in sorted order
func (c Chunkservers) Hosts() []string {
	hosts := make([]string, 0, len(c))
	for host := range c {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// GetChunkservers runs mfscli against the master and parses the chunkserver list. The returned
// errors describe the lines that were skipped; they are already logged.
func GetChunkservers(context *clusterd.Context) (Chunkservers, []error, error) {
	logger.Infof("loading chunkserver metrics from %s", context.MasterAddress())
	output, err := NewMfscliCommand(context, ChunkserversSection, ChunkserverFieldSeparator).Run()
	if err != nil {
		return nil, nil, err
	}
	logger.Tracef("chunkserver output: %q", output)

	chunkservers, lineErrs := ParseChunkservers(output)
	return chunkservers, lineErrs, nil
}

// ParseChunkservers decodes one chunkserver per line. A line that cannot be decoded is logged and
// skipped without affecting the other lines. When an identity appears twice the later line wins.
func ParseChunkservers(output string) (Chunkservers, []error) {
	chunkservers := Chunkservers{}
	var lineErrs []error

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cs, err := ParseChunkserverLine(line)
		if err != nil {
			logger.Errorf("bad chunkserver line %q. %v", line, err)
			lineErrs = append(lineErrs, err)
			continue
		}

		if _, ok := chunkservers[cs.Host]; ok {
			logger.Debugf("chunkserver %q reported twice, keeping the last one", cs.Host)
		}
		chunkservers[cs.Host] = cs
		logger.Debugf("%s: %s", cs.Host, line)
	}

	logger.Debugf("parsed %d chunkservers, skipped %d lines", len(chunkservers), len(lineErrs))
	return chunkservers, lineErrs
}

// ParseChunkserverLine decodes a single chunkserver line
func ParseChunkserverLine(line string) (*ChunkserverInfo, error) {
	fields := strings.Split(line, ChunkserverFieldSeparator)
	if len(fields) < chunkserverFieldCount {
		return nil, newFieldCountError(chunkserverRecord, line, chunkserverFieldCount, len(fields))
	}
	// string fields become label values, which must be valid UTF-8
	if !utf8.ValidString(line) {
		return nil, newFieldError(chunkserverRecord, "", line, ErrInvalidUTF8)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if fields[1] == "" {
		return nil, newFieldError(chunkserverRecord, "chunkserver", line, errors.New("empty chunkserver identity"))
	}

	cs := &ChunkserverInfo{
		Host:        fields[1],
		Labels:      ptr(fields[4]),
		Version:     ptr(fields[5]),
		Maintenance: ptr(fields[7]),
	}

	ints := []struct {
		name  string
		value string
		dest  **int
	}{
		{"port", fields[2], &cs.Port},
		{"cs_id", fields[3], &cs.ID},
		{"load", fields[6], &cs.Load},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(f.value)
		if err != nil {
			return nil, newFieldError(chunkserverRecord, f.name, line, err)
		}
		*f.dest = ptr(v)
	}

	int64s := []struct {
		name  string
		value string
		dest  **int64
	}{
		{"chunk_count", fields[8], &cs.ChunkCount},
		{"disk_used", fields[9], &cs.DiskUsed},
		{"disk_total", fields[10], &cs.DiskTotal},
	}
	for _, f := range int64s {
		v, err := strconv.ParseInt(f.value, 10, 64)
		if err != nil {
			return nil, newFieldError(chunkserverRecord, f.name, line, err)
		}
		*f.dest = ptr(v)
	}

	if *cs.DiskTotal == 0 {
		logger.Warningf("chunkserver %q reports zero disk total, disk usage is undefined", cs.Host)
	} else {
		cs.DiskUsage = ptr(float64(*cs.DiskUsed) / float64(*cs.DiskTotal))
	}

	return cs, nil
}

func ptr[T any](v T) *T {
	return &v
}
