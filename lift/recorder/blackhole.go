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

package recorder

import (
	"github.com/flightops/airlift/lift/model"
	"go.uber.org/atomic"
)

// BlackholeRecorder discards every entry while counting them. It backs
// runs that disable the flight record and tests that assert recording
// call patterns.
type BlackholeRecorder struct {
	stateCount            atomic.Int64
	passengerCheckedCount atomic.Int64
	flightDepartedCount   atomic.Int64
	summaryCount          atomic.Int64
}

// NewBlackhole creates a recorder that discards all entries.
func NewBlackhole() *BlackholeRecorder {
	return &BlackholeRecorder{}
}

// State implements Recorder.State.
func (r *BlackholeRecorder) State(_ *model.Snapshot) error {
	r.stateCount.Inc()
	return nil
}

// PassengerChecked implements Recorder.PassengerChecked.
func (r *BlackholeRecorder) PassengerChecked(_ *model.Snapshot) error {
	r.passengerCheckedCount.Inc()
	return nil
}

// FlightDeparted implements Recorder.FlightDeparted.
func (r *BlackholeRecorder) FlightDeparted(_ *model.Snapshot) error {
	r.flightDepartedCount.Inc()
	return nil
}

// Summary implements Recorder.Summary.
func (r *BlackholeRecorder) Summary(_ *model.Snapshot) error {
	r.summaryCount.Inc()
	return nil
}

// Close implements Recorder.Close.
func (r *BlackholeRecorder) Close() error {
	return nil
}

// StateCount returns the number of State calls seen.
func (r *BlackholeRecorder) StateCount() int64 { return r.stateCount.Load() }

// PassengerCheckedCount returns the number of PassengerChecked calls seen.
func (r *BlackholeRecorder) PassengerCheckedCount() int64 { return r.passengerCheckedCount.Load() }

// FlightDepartedCount returns the number of FlightDeparted calls seen.
func (r *BlackholeRecorder) FlightDepartedCount() int64 { return r.flightDepartedCount.Load() }

// SummaryCount returns the number of Summary calls seen.
func (r *BlackholeRecorder) SummaryCount() int64 { return r.summaryCount.Load() }
