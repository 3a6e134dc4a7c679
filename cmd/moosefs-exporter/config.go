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

package main

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tricorder/moosefs-exporter/pkg/clusterd"
	"github.com/tricorder/moosefs-exporter/pkg/exporter"
	"github.com/tricorder/moosefs-exporter/pkg/moosefs/client"
	"github.com/tricorder/moosefs-exporter/pkg/util/exec"
	"github.com/tricorder/moosefs-exporter/pkg/util/flags"
)

const (
	// EnvVarPrefix prefixes the environment variables overriding flags, e.g. MOOSEFS_EXPORTER_MASTER_PORT
	EnvVarPrefix = "MOOSEFS_EXPORTER"

	// ConfigSection is the config file section holding the flag values
	ConfigSection = "exporter"

	maxPort = 65535
)

type config struct {
	masterHost         string
	masterPort         int
	exporterPort       int
	listenAddress      string
	pollingInterval    int
	logLevel           string
	debug              bool
	mfscliPath         string
	commandTimeout     time.Duration
	metricsPath        string
	disabledCollectors string
	configFile         string
}

func addFlags(fs *pflag.FlagSet, cfg *config) {
	fs.StringVarP(&cfg.masterHost, "moosefs-master", "m", "localhost", "DNS name or IP of the MooseFS master")
	fs.IntVarP(&cfg.masterPort, "master-port", "p", 9421, "administrative port of the MooseFS master")
	fs.IntVarP(&cfg.exporterPort, "exporter-port", "e", 9877, "port the metrics are served on")
	fs.StringVar(&cfg.listenAddress, "listen-address", "", "address the metrics are served on, all interfaces when empty")
	fs.IntVarP(&cfg.pollingInterval, "polling-interval", "i", 15, "seconds between health reports of the collections")
	fs.StringVarP(&cfg.logLevel, "log-level", "l", "INFO", "logging level for logging/tracing output (valid values: CRITICAL,ERROR,WARNING,NOTICE,INFO,DEBUG,TRACE)")
	fs.BoolVarP(&cfg.debug, "debug", "d", false, "shortcut for --log-level=DEBUG")
	fs.StringVar(&cfg.mfscliPath, "mfscli-path", client.MfscliTool, "path of the mfscli binary")
	fs.DurationVar(&cfg.commandTimeout, "command-timeout", 30*time.Second, "maximum duration of one mfscli call, 0 to wait forever")
	fs.StringVar(&cfg.metricsPath, "metrics-path", "/metrics", "path the metrics are served on")
	fs.StringVar(&cfg.disabledCollectors, "disable-default-collectors", "go,process",
		"comma separated default collectors not to export (valid values: "+strings.Join(exporter.DefaultCollectorNames(), ",")+")")
	fs.StringVarP(&cfg.configFile, "config", "c", "", "ini file with an ["+ConfigSection+"] section of flag values")
}

// loadConfigFile applies the config file under the flags already set from the environment or the
// command line
func loadConfigFile(fs *pflag.FlagSet, cfg *config) error {
	if cfg.configFile == "" {
		return nil
	}
	return flags.SetFlagsFromConfigFile(fs, cfg.configFile, ConfigSection)
}

func (c *config) validate(cmd *cobra.Command) error {
	if err := flags.VerifyRequiredFlags(cmd, []string{"moosefs-master", "mfscli-path", "metrics-path"}); err != nil {
		return err
	}
	if err := validatePort("master-port", c.masterPort); err != nil {
		return err
	}
	if err := validatePort("exporter-port", c.exporterPort); err != nil {
		return err
	}
	if c.pollingInterval <= 0 {
		return errors.Errorf("polling-interval must be positive, got %d", c.pollingInterval)
	}
	if c.commandTimeout < 0 {
		return errors.Errorf("command-timeout must not be negative, got %s", c.commandTimeout)
	}
	if !strings.HasPrefix(c.metricsPath, "/") || c.metricsPath == "/" || c.metricsPath == exporter.HealthPath {
		return errors.Errorf("metrics-path %q must be an absolute path other than / and %s", c.metricsPath, exporter.HealthPath)
	}
	if _, err := exporter.ParseDisabledCollectors(c.disabledCollectorNames()); err != nil {
		return errors.Wrapf(err, "invalid disable-default-collectors")
	}
	return nil
}

func validatePort(name string, port int) error {
	if port < 1 || port > maxPort {
		return errors.Errorf("%s must be between 1 and %d, got %d", name, maxPort, port)
	}
	return nil
}

func (c *config) disabledCollectorNames() []string {
	return strings.Split(c.disabledCollectors, ",")
}

func (c *config) pollingDuration() time.Duration {
	return time.Duration(c.pollingInterval) * time.Second
}

func (c *config) newContext(executor exec.Executor) *clusterd.Context {
	return &clusterd.Context{
		Executor:       executor,
		MfscliPath:     c.mfscliPath,
		MasterHost:     c.masterHost,
		MasterPort:     c.masterPort,
		CommandTimeout: c.commandTimeout,
	}
}
