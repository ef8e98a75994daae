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

// Package model holds the vocabulary shared by every airlift component:
// actor identities, actor statuses and the snapshot of the flight state
// handed to the recorder.
package model

import (
	"encoding/json"
	"fmt"
)

// PassengerID identifies one passenger, in the range [0, N).
type PassengerID int

// NoPassenger marks that no passenger is mid-handshake with the hostess.
const NoPassenger PassengerID = -1

// PassengerStatus is the lifecycle stage of one passenger. Statuses only
// ever advance, each passenger passes through all four in order.
type PassengerStatus int

// Passenger lifecycle stages.
const (
	Travelling PassengerStatus = iota
	InQueue
	InFlight
	AtDestination
)

// String implements fmt.Stringer.
func (s PassengerStatus) String() string {
	switch s {
	case Travelling:
		return "TRAVELLING"
	case InQueue:
		return "IN_QUEUE"
	case InFlight:
		return "IN_FLIGHT"
	case AtDestination:
		return "AT_DESTINATION"
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

// Code returns the fixed-width column code used in the flight record.
func (s PassengerStatus) Code() string {
	switch s {
	case Travelling:
		return "TRV"
	case InQueue:
		return "INQ"
	case InFlight:
		return "IFL"
	case AtDestination:
		return "ATD"
	}
	return "???"
}

// MarshalJSON implements json.Marshaler.
func (s PassengerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// HostessStatus is the lifecycle stage of the hostess.
type HostessStatus int

// Hostess lifecycle stages.
const (
	WaitForFlight HostessStatus = iota
	WaitForPassenger
	CheckPassport
	ReadyToFlight
)

// String implements fmt.Stringer.
func (s HostessStatus) String() string {
	switch s {
	case WaitForFlight:
		return "WAIT_FOR_FLIGHT"
	case WaitForPassenger:
		return "WAIT_FOR_PASSENGER"
	case CheckPassport:
		return "CHECK_PASSPORT"
	case ReadyToFlight:
		return "READY_TO_FLIGHT"
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

// Code returns the fixed-width column code used in the flight record.
func (s HostessStatus) Code() string {
	switch s {
	case WaitForFlight:
		return "WFF"
	case WaitForPassenger:
		return "WFP"
	case CheckPassport:
		return "CKP"
	case ReadyToFlight:
		return "RTF"
	}
	return "???"
}

// MarshalJSON implements json.Marshaler.
func (s HostessStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// PilotStatus is the lifecycle stage of the pilot. The pilot never touches
// the shared flight state, so its status is not part of Snapshot; it is
// reported through logs and the status endpoint only.
type PilotStatus int

// Pilot lifecycle stages.
const (
	ReadyForBoarding PilotStatus = iota
	Flying
	Deplaning
	FlyingBack
)

// String implements fmt.Stringer.
func (s PilotStatus) String() string {
	switch s {
	case ReadyForBoarding:
		return "READY_FOR_BOARDING"
	case Flying:
		return "FLYING"
	case Deplaning:
		return "DEPLANING"
	case FlyingBack:
		return "FLYING_BACK"
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

// MarshalJSON implements json.Marshaler.
func (s PilotStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CloseReason tells why the hostess closed the current boarding batch.
type CloseReason int

// Batch closure reasons, in the priority order the hostess evaluates them.
const (
	// KeepBoarding means no closure condition held, admit the next
	// passenger.
	KeepBoarding CloseReason = iota
	// FullCapacity closes the batch because the plane reached its
	// maximum capacity.
	FullCapacity
	// MinimumNoQueue closes the batch because the minimum capacity is
	// met and the queue is empty.
	MinimumNoQueue
	// AllBoarded closes the batch because every passenger of the run
	// has now boarded.
	AllBoarded
)

// Closed reports whether the reason closes the batch.
func (r CloseReason) Closed() bool {
	return r != KeepBoarding
}

// String implements fmt.Stringer.
func (r CloseReason) String() string {
	switch r {
	case KeepBoarding:
		return "keep-boarding"
	case FullCapacity:
		return "full-capacity"
	case MinimumNoQueue:
		return "minimum-no-queue"
	case AllBoarded:
		return "all-boarded"
	}
	return fmt.Sprintf("unknown(%d)", int(r))
}

// Snapshot is a consistent copy of the shared flight state, taken while
// the gate is held. It is what the recorder persists and what the status
// endpoint serves.
type Snapshot struct {
	FlightIndex      int               `json:"flight-index"`
	InQueue          int               `json:"passengers-in-queue"`
	InFlight         int               `json:"passengers-in-flight"`
	TotalBoarded     int               `json:"total-boarded"`
	CheckedPassenger PassengerID       `json:"checked-passenger"`
	Finished         bool              `json:"finished"`
	Hostess          HostessStatus     `json:"hostess-status"`
	Passengers       []PassengerStatus `json:"passenger-status"`
	PerFlight        []int             `json:"passengers-per-flight"`
}

// AtDestinationCount returns the number of passengers that have completed
// their journey.
func (s *Snapshot) AtDestinationCount() int {
	n := 0
	for _, st := range s.Passengers {
		if st == AtDestination {
			n++
		}
	}
	return n
}

// TravellingCount returns the number of passengers still on their way to
// the departure airport.
func (s *Snapshot) TravellingCount() int {
	n := 0
	for _, st := range s.Passengers {
		if st == Travelling {
			n++
		}
	}
	return n
}
