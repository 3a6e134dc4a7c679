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

package exec

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/coreos/pkg/capnslog"
)

var logger = capnslog.NewPackageLogger("github.com/tricorder/moosefs-exporter", "exec")

// Executor is the interface for running commands on the local host
type Executor interface {
	ExecuteCommandWithOutput(command string, arg ...string) (string, error)
	ExecuteCommandWithTimeout(timeout time.Duration, command string, arg ...string) (string, error)
}

// CommandExecutor is the type of the Executor
type CommandExecutor struct{}

// ExecuteCommandWithOutput starts a process and waits for its completion. Stdout is returned and
// stderr is kept on the CommandError when the process fails.
func (c *CommandExecutor) ExecuteCommandWithOutput(command string, arg ...string) (string, error) {
	return c.ExecuteCommandWithTimeout(0, command, arg...)
}

// ExecuteCommandWithTimeout starts a process and waits for its completion, killing it once the
// timeout expires. A zero timeout waits forever.
func (*CommandExecutor) ExecuteCommandWithTimeout(timeout time.Duration, command string, arg ...string) (string, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, command, arg...) //nolint:gosec // the exporter controls the command and its arguments
	// don't wait forever on pipes held open by children of a killed process
	cmd.WaitDelay = time.Second
	logCommand(command, arg...)
	return runCommandWithOutput(ctx, cmd)
}

func runCommandWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Run does not return until both pipes are drained and the process has exited
	err := cmd.Run()
	output := stdout.String()
	logger.Tracef("command %q stdout: %s", cmd.Path, output)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = ctx.Err()
		}
		return output, newCommandError(cmd, err, stderr.String())
	}

	return output, nil
}

func logCommand(command string, arg ...string) {
	logger.Debugf("Running command: %s %s", command, strings.Join(arg, " "))
}
