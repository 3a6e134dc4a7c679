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
	"strconv"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"

	"github.com/tricorder/moosefs-exporter/pkg/clusterd"
	"github.com/tricorder/moosefs-exporter/pkg/util/exec"
)

var logger = capnslog.NewPackageLogger("github.com/tricorder/moosefs-exporter", "mfsclient")

const (
	// MfscliTool is the name of the MooseFS administration CLI
	MfscliTool = "mfscli"
	// MasterInfoSection selects the master information section of mfscli
	MasterInfoSection = "-SIM"
	// ChunkserversSection selects the chunkserver list section of mfscli
	ChunkserversSection = "-SCS"
	// MasterFieldSeparator separates the fields of the master information line
	MasterFieldSeparator = "_"
	// ChunkserverFieldSeparator separates the fields of each chunkserver line
	ChunkserverFieldSeparator = "^"
)

// MfscliCommand is one mfscli invocation printing a single section with a field separator
type MfscliCommand struct {
	context   *clusterd.Context
	section   string
	separator string
}

// NewMfscliCommand creates the command printing the given section of the master's state
func NewMfscliCommand(context *clusterd.Context, section, separator string) *MfscliCommand {
	return &MfscliCommand{context: context, section: section, separator: separator}
}

func (c *MfscliCommand) tool() string {
	if c.context.MfscliPath != "" {
		return c.context.MfscliPath
	}
	return MfscliTool
}

// Args returns the mfscli arguments, e.g. "-H localhost -P 9421 -SIM -s_"
func (c *MfscliCommand) Args() []string {
	return []string{
		"-H", c.context.MasterHost,
		"-P", strconv.Itoa(c.context.MasterPort),
		c.section,
		"-s" + c.separator,
	}
}

// Run executes mfscli and returns its stdout once the process has exited
func (c *MfscliCommand) Run() (string, error) {
	var output string
	var err error
	if c.context.CommandTimeout > 0 {
		output, err = c.context.Executor.ExecuteCommandWithTimeout(c.context.CommandTimeout, c.tool(), c.Args()...)
	} else {
		output, err = c.context.Executor.ExecuteCommandWithOutput(c.tool(), c.Args()...)
	}
	if err != nil {
		if status, ok := exec.ExitStatus(err); ok {
			return "", errors.Wrapf(err, "%s %s against %s exited with status %d", MfscliTool, c.section, c.context.MasterAddress(), status)
		}
		return "", errors.Wrapf(err, "failed to run %s %s against %s", MfscliTool, c.section, c.context.MasterAddress())
	}
	return output, nil
}
