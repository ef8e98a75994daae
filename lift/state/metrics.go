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

package state

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	queueLengthGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "airlift",
			Subsystem: "state",
			Name:      "passengers_in_queue",
			Help:      "The number of passengers waiting in the check-in queue.",
		})
	inFlightGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "airlift",
			Subsystem: "state",
			Name:      "passengers_in_flight",
			Help:      "The number of passengers aboard the active flight leg.",
		})
	boardedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airlift",
			Subsystem: "state",
			Name:      "passengers_boarded_total",
			Help:      "The cumulative number of passengers boarded across all flights.",
		})
	flightsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airlift",
			Subsystem: "state",
			Name:      "flights_departed_total",
			Help:      "The number of departed flights.",
		})
	closureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airlift",
			Subsystem: "state",
			Name:      "batch_closures_total",
			Help:      "Batch closure decisions grouped by reason.",
		}, []string{"reason"})
	flightOccupancyHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "airlift",
			Subsystem: "state",
			Name:      "flight_occupancy",
			Help:      "Headcount of departed flights.",
			Buckets:   prometheus.LinearBuckets(1, 1, 16),
		})
)

// InitMetrics registers all metrics in this file.
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(queueLengthGauge)
	registry.MustRegister(inFlightGauge)
	registry.MustRegister(boardedCounter)
	registry.MustRegister(flightsCounter)
	registry.MustRegister(closureCounter)
	registry.MustRegister(flightOccupancyHistogram)
}
