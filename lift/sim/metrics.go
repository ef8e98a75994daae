// Copyright 2024 FlightOps, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package sim

import (
	"github.com/flightops/airlift/lift/state"
	"github.com/prometheus/client_golang/prometheus"
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())

	state.InitMetrics(registry)
	initSimMetrics(registry)
}

var (
	passengersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "airlift",
			Subsystem: "sim",
			Name:      "passengers",
			Help:      "The configured passenger population of the run.",
		})
	runDurationGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "airlift",
			Subsystem: "sim",
			Name:      "run_duration_seconds",
			Help:      "Wall clock duration of the completed run.",
		})
)

// initSimMetrics registers all metrics in this file.
func initSimMetrics(registry *prometheus.Registry) {
	registry.MustRegister(passengersGauge)
	registry.MustRegister(runDurationGauge)
}
