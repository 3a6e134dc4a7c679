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

package exporter

import (
	"sort"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var logger = capnslog.NewPackageLogger("github.com/tricorder/moosefs-exporter", "exporter")

var defaultCollectors = map[string]func() prometheus.Collector{
	"go": func() prometheus.Collector {
		return collectors.NewGoCollector()
	},
	"process": func() prometheus.Collector {
		return collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})
	},
}

// DefaultCollectorNames returns the names accepted in the exclusion list of NewRegistry
func DefaultCollectorNames() []string {
	names := make([]string, 0, len(defaultCollectors))
	for name := range defaultCollectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRegistry creates a registry with the default Go runtime and process collectors, minus the
// ones named in disabled, and the given collectors.
func NewRegistry(disabled []string, cs ...prometheus.Collector) (*prometheus.Registry, error) {
	skip, err := ParseDisabledCollectors(disabled)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	for _, name := range DefaultCollectorNames() {
		if skip[name] {
			logger.Infof("default collector %q disabled", name)
			continue
		}
		if err := registry.Register(defaultCollectors[name]()); err != nil {
			return nil, errors.Wrapf(err, "failed to register default collector %q", name)
		}
	}

	for _, c := range cs {
		if err := registry.Register(c); err != nil {
			return nil, errors.Wrapf(err, "failed to register collector")
		}
	}
	return registry, nil
}

// ParseDisabledCollectors returns the set of default collectors named in disabled. Names are case
// insensitive and blank names are ignored.
func ParseDisabledCollectors(disabled []string) (map[string]bool, error) {
	skip := map[string]bool{}
	for _, name := range disabled {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := defaultCollectors[name]; !ok {
			return nil, errors.Errorf("unknown default collector %q. valid names: %s", name, strings.Join(DefaultCollectorNames(), ","))
		}
		skip[name] = true
	}
	return skip, nil
}
