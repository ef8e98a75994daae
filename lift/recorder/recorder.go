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

// Package recorder persists the human-readable flight record. Every state
// transition of the boarding protocol appends one row while the caller
// holds the shared state gate, so a record read top to bottom replays the
// exact interleaving of one run. Write failures are fatal to the calling
// actor, the protocol has no degraded mode without its record.
package recorder

import (
	"github.com/flightops/airlift/lift/model"
)

// Header describes the run a flight record belongs to.
type Header struct {
	RunID       string
	Passengers  int
	MinCapacity int
	MaxCapacity int
}

// Recorder appends flight record entries. Implementations must be safe for
// concurrent use; the protocol serializes State calls through the gate but
// Summary and Close race with nothing only after every actor has stopped.
type Recorder interface {
	// State appends one status table row.
	State(snap *model.Snapshot) error
	// PassengerChecked appends the check-in completion event of
	// snap.CheckedPassenger.
	PassengerChecked(snap *model.Snapshot) error
	// FlightDeparted appends the departure event of the current flight.
	FlightDeparted(snap *model.Snapshot) error
	// Summary appends the end-of-run totals.
	Summary(snap *model.Snapshot) error
	// Close flushes and releases the record. Entries after Close fail
	// with ErrRecorderClosed.
	Close() error
}
