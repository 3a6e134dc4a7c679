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
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

// CommandError is returned when a command could not be started or exited with a non-zero status
type CommandError struct {
	Command string
	Args    []string
	Stderr  string
	err     error
}

func newCommandError(cmd *exec.Cmd, err error, stderr string) *CommandError {
	args := []string{}
	if len(cmd.Args) > 1 {
		args = cmd.Args[1:]
	}
	return &CommandError{Command: cmd.Path, Args: args, Stderr: strings.TrimSpace(stderr), err: err}
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("failed to run %s %s. %v", e.Command, strings.Join(e.Args, " "), e.err)
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s. stderr: %s", msg, e.Stderr)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.err
}

// ExitStatus returns the exit code of the process behind err and whether one was found. It looks
// through CommandError and any other wrapping.
func ExitStatus(err error) (int, bool) {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 0, false
	}
	if exitErr.ProcessState == nil {
		return 0, false
	}
	waitStatus, ok := exitErr.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return 0, false
	}
	return waitStatus.ExitStatus(), true
}
