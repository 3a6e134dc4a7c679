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
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coreos/pkg/capnslog"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/tricorder/moosefs-exporter/pkg/clusterd"
	"github.com/tricorder/moosefs-exporter/pkg/exporter"
	"github.com/tricorder/moosefs-exporter/pkg/moosefs/collectors"
	"github.com/tricorder/moosefs-exporter/pkg/util"
	"github.com/tricorder/moosefs-exporter/pkg/util/exec"
	"github.com/tricorder/moosefs-exporter/pkg/util/flags"
	"github.com/tricorder/moosefs-exporter/pkg/version"
)

var logger = capnslog.NewPackageLogger("github.com/tricorder/moosefs-exporter", "exportercmd")

// newRootCmd creates the exporter command. The precedence of the settings from lowest to highest is:
//  1. default value (at compilation)
//  2. config file (the [exporter] section of the --config ini file, keys are flag names)
//  3. environment variables (upper case, replace - with _, and the MOOSEFS_EXPORTER prefix. For
//     example, master-port is MOOSEFS_EXPORTER_MASTER_PORT)
//  4. command line parameter
func newRootCmd() (*cobra.Command, *config) {
	cfg := &config{}
	cmd := &cobra.Command{
		Use:           "moosefs-exporter",
		Short:         "Prometheus exporter for MooseFS clusters",
		Long:          "Polls the MooseFS master with mfscli and exports master, chunkserver and cluster metrics on every scrape.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}
	addFlags(cmd.Flags(), cfg)

	// load the environment variables
	flags.SetFlagsFromEnv(cmd.Flags(), EnvVarPrefix)

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := loadConfigFile(cmd.Flags(), cfg); err != nil {
			return err
		}
		util.SetGlobalLogLevel(util.SelectLogLevel(cfg.logLevel, cfg.debug), logger)
		return cfg.validate(cmd)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logStartupInfo(cmd.Flags())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg, cfg.newContext(&exec.CommandExecutor{}))
	}
	return cmd, cfg
}

// logStartupInfo logs the version number, arguments, and all final flag values
func logStartupInfo(cmdFlags *pflag.FlagSet) {
	flagValues := flags.GetFlagsAndValues(cmdFlags, "")
	logger.Infof("starting moosefs-exporter %s with arguments '%s'", version.Version, strings.Join(os.Args, " "))
	logger.Infof("flag values: %s", strings.Join(flagValues, ", "))
}

// run serves the metrics and polls until the context is cancelled or the server fails
func run(ctx context.Context, cfg *config, clusterContext *clusterd.Context) error {
	if !cfg.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	health := exporter.NewHealthStatus()
	collector := collectors.NewMooseFSCollector(clusterContext, health)
	registry, err := exporter.NewRegistry(cfg.disabledCollectorNames(), collector)
	if err != nil {
		return errors.Wrapf(err, "failed to create metrics registry")
	}

	server := exporter.NewServer(cfg.listenAddress, cfg.exporterPort, exporter.SetupRouter(registry, cfg.metricsPath, health))
	poller := exporter.NewPoller(cfg.pollingDuration(), health)
	logger.Infof("exporting MooseFS master %s on %s%s", clusterContext.MasterAddress(), server.Addr(), cfg.metricsPath)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		return poller.Run(ctx)
	})
	return g.Wait()
}
