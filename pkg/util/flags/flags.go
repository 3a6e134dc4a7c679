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

package flags

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/ini.v1"
)

var logger = capnslog.NewPackageLogger("github.com/tricorder/moosefs-exporter", "flags")

func VerifyRequiredFlags(cmd *cobra.Command, requiredFlags []string) error {
	var missingFlags []string
	for _, reqFlag := range requiredFlags {
		val, err := cmd.Flags().GetString(reqFlag)
		if err != nil || strings.TrimSpace(val) == "" {
			missingFlags = append(missingFlags, reqFlag)
		}
	}

	return createRequiredFlagError(cmd.Name(), missingFlags)
}

func createRequiredFlagError(name string, flags []string) error {
	if len(flags) == 0 {
		return nil
	}

	if len(flags) == 1 {
		return fmt.Errorf("%s is required for %s", flags[0], name)
	}

	return fmt.Errorf("%s are required for %s", strings.Join(flags, ","), name)
}

// EnvVarName returns the environment variable that overrides the given flag, e.g.
// MOOSEFS_EXPORTER_MASTER_PORT for --master-port.
func EnvVarName(prefix, flagName string) string {
	return prefix + "_" + strings.Replace(strings.ToUpper(flagName), "-", "_", -1)
}

func SetFlagsFromEnv(flags *pflag.FlagSet, prefix string) {
	var errorFlag bool
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		value := os.Getenv(EnvVarName(prefix, f.Name))
		if value != "" {
			// Set the environment variable. Will override default values, but be overridden by command line parameters.
			if setErr := flags.Set(f.Name, value); setErr != nil {
				errorFlag = true
				err = setErr
			}
		}
	})
	if errorFlag {
		logger.Errorf("failed to set flag from environment. %v", err)
	}
}

// SetFlagsFromConfigFile sets every flag that was not already set on the command line or from the
// environment from the keys of the given section of an ini file. Keys are flag names.
func SetFlagsFromConfigFile(flags *pflag.FlagSet, path, section string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return errors.Wrapf(err, "failed to load config file %q", path)
	}

	sec, err := cfg.GetSection(section)
	if err != nil {
		return errors.Wrapf(err, "config file %q has no [%s] section", path, section)
	}

	for _, key := range sec.Keys() {
		f := flags.Lookup(key.Name())
		if f == nil {
			return errors.Errorf("unknown setting %q in config file %q", key.Name(), path)
		}
		if f.Changed {
			logger.Debugf("flag --%s already set, ignoring config file value", f.Name)
			continue
		}
		if err := flags.Set(f.Name, key.Value()); err != nil {
			return errors.Wrapf(err, "invalid value %q for %q in config file %q", key.Value(), key.Name(), path)
		}
	}

	return nil
}

// GetFlagsAndValues returns all flags and their values as a slice with elements in the format of
// "--<flag>=<value>"
func GetFlagsAndValues(flags *pflag.FlagSet, excludeFilter string) []string {
	var flagValues []string

	flags.VisitAll(func(f *pflag.Flag) {
		val := f.Value.String()
		if excludeFilter != "" {
			if matched, _ := regexp.Match(excludeFilter, []byte(f.Name)); matched {
				val = "*****"
			}
		}

		flagValues = append(flagValues, fmt.Sprintf("--%s=%s", f.Name, val))
	})

	return flagValues
}
