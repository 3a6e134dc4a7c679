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
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/tricorder/moosefs-exporter/pkg/clusterd"
)

const (
	// LocalTimeFormat is the layout of MasterInfo.LocalTime
	LocalTimeFormat = "2006-01-02 15:04:05"

	// marker plus twelve fields
	masterFieldCount = 13
)

// MasterInfo is the state the MooseFS master reports about itself
type MasterInfo struct {
	// MasterHost is the master name the exporter was configured with, not reported by mfscli
	MasterHost       string
	IP               string
	Version          string
	State            string
	LocalTime        string
	MetadataVersion  string
	MetadataDelay    string
	RAMUsed          int64
	AllCPU           float64
	SysCPU           float64
	UserCPU          float64
	LastMetadataSave string
	LastSaveDuration float64
	LastSaveStatus   string
	ExportsChecksum  string
}

// GetMasterInfo runs mfscli against the master and parses its information line
func GetMasterInfo(context *clusterd.Context) (*MasterInfo, error) {
	logger.Infof("loading metrics for master node %s", context.MasterAddress())
	output, err := NewMfscliCommand(context, MasterInfoSection, MasterFieldSeparator).Run()
	if err != nil {
		return nil, err
	}
	logger.Debugf("master output: %q", output)

	info, err := ParseMasterInfo(output, context.MasterHost)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load master info from %s", context.MasterAddress())
	}
	return info, nil
}

// ParseMasterInfo decodes the mfscli master information line. Any missing field or failed numeric
// conversion fails the whole record.
func ParseMasterInfo(output, masterHost string) (*MasterInfo, error) {
	line := firstLine(output)
	fields := strings.Split(line, MasterFieldSeparator)
	logger.Debugf("master fields (%d): %q", len(fields), fields)
	if len(fields) < masterFieldCount {
		return nil, newFieldCountError(masterRecord, line, masterFieldCount, len(fields))
	}
	if !utf8.ValidString(line) {
		return nil, newFieldError(masterRecord, "", line, ErrInvalidUTF8)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	info := &MasterInfo{
		MasterHost:       masterHost,
		IP:               fields[1],
		Version:          fields[2],
		State:            fields[3],
		MetadataVersion:  fields[5],
		MetadataDelay:    fields[6],
		LastMetadataSave: fields[9],
		LastSaveStatus:   fields[11],
		ExportsChecksum:  fields[12],
	}

	var err error
	if info.LocalTime, err = formatEpoch(fields[4]); err != nil {
		return nil, newFieldError(masterRecord, "local_time", line, err)
	}
	if info.RAMUsed, err = strconv.ParseInt(fields[7], 10, 64); err != nil {
		return nil, newFieldError(masterRecord, "ram_used", line, err)
	}
	if info.AllCPU, info.SysCPU, info.UserCPU, err = parseMachineStats(fields[8]); err != nil {
		return nil, newFieldError(masterRecord, "raw_machine_stats", line, err)
	}
	if info.LastSaveDuration, err = strconv.ParseFloat(fields[10], 64); err != nil {
		return nil, newFieldError(masterRecord, "last_save_duration", line, err)
	}

	logger.Debugf("master info: %+v", *info)
	return info, nil
}

// formatEpoch turns Unix seconds, possibly fractional, into a UTC LocalTimeFormat string
func formatEpoch(raw string) (string, error) {
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", err
	}
	// outside this range the conversion to int64 seconds overflows
	if math.IsNaN(seconds) || seconds < math.MinInt64 || seconds >= math.MaxInt64 {
		return "", errors.Errorf("invalid timestamp %q", raw)
	}
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC().Format(LocalTimeFormat), nil
}

// parseMachineStats decodes "all:12.5% sys:3.1% user:9.4%" into all, sys and user CPU percentages
func parseMachineStats(raw string) (float64, float64, float64, error) {
	parts := strings.Fields(raw)
	if len(parts) < 3 {
		return 0, 0, 0, errors.Errorf("expected 3 cpu stats, got %d", len(parts))
	}

	var cpu [3]float64
	for i := range cpu {
		_, value, found := strings.Cut(parts[i], ":")
		if !found {
			return 0, 0, 0, errors.Errorf("cpu stat %q is not in label:value%% form", parts[i])
		}
		value, _, _ = strings.Cut(value, "%")
		percent, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, 0, 0, errors.Wrapf(err, "invalid cpu stat %q", parts[i])
		}
		cpu[i] = percent
	}
	return cpu[0], cpu[1], cpu[2], nil
}

// firstLine returns the first non-empty line of the output
func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimRight(line, "\r")
		}
	}
	return ""
}
