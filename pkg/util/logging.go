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

package util

import (
	"strings"

	"github.com/coreos/pkg/capnslog"
)

const DefaultLogLevel = capnslog.INFO

// SelectLogLevel returns the level requested on the command line. The --debug shortcut always wins
// over --log-level.
func SelectLogLevel(userLogLevelSelection string, debug bool) string {
	if debug {
		return "DEBUG"
	}
	return strings.ToUpper(strings.TrimSpace(userLogLevelSelection))
}

// SetGlobalLogLevel sets the level of every package logger and returns the level in effect.
func SetGlobalLogLevel(userLogLevelSelection string, logger *capnslog.PackageLogger) capnslog.LogLevel {
	// raw mfscli output is logged at trace level. "TRACE" only gets debug logs, so that the full
	// command output needs the explicit "TRACE_INSECURE" level.
	if userLogLevelSelection == "TRACE" {
		userLogLevelSelection = "DEBUG"
	}
	if userLogLevelSelection == "TRACE_INSECURE" {
		userLogLevelSelection = "TRACE"
	}

	// parse given log level string then set up corresponding global logging level
	logLevel, err := capnslog.ParseLevel(userLogLevelSelection)
	if err != nil {
		logger.Errorf("failed to parse log level %q. defaulting to %q. %v", userLogLevelSelection, DefaultLogLevel.String(), err)
		logLevel = DefaultLogLevel
	}

	if logLevel > capnslog.TRACE {
		logger.Infof("not setting log level %q more verbose than TRACE. reverting to default %q", logLevel.String(), DefaultLogLevel.String())
		logLevel = DefaultLogLevel
	}

	capnslog.SetGlobalLogLevel(logLevel)
	return logLevel
}
