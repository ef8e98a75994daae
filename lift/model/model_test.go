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

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "TRAVELLING", Travelling.String())
	require.Equal(t, "AT_DESTINATION", AtDestination.String())
	require.Equal(t, "WAIT_FOR_FLIGHT", WaitForFlight.String())
	require.Equal(t, "READY_TO_FLIGHT", ReadyToFlight.String())
	require.Equal(t, "FLYING_BACK", FlyingBack.String())
	require.Equal(t, "UNKNOWN(9)", PassengerStatus(9).String())

	require.Equal(t, "TRV", Travelling.Code())
	require.Equal(t, "CKP", CheckPassport.Code())
	require.Equal(t, "???", HostessStatus(9).Code())
}

func TestCloseReason(t *testing.T) {
	t.Parallel()

	require.False(t, KeepBoarding.Closed())
	require.True(t, FullCapacity.Closed())
	require.True(t, MinimumNoQueue.Closed())
	require.True(t, AllBoarded.Closed())
	require.Equal(t, "full-capacity", FullCapacity.String())
}

func TestSnapshotCounts(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		Passengers: []PassengerStatus{
			Travelling, InQueue, InFlight, AtDestination, AtDestination,
		},
	}
	require.Equal(t, 2, snap.AtDestinationCount())
	require.Equal(t, 1, snap.TravellingCount())
}

func TestSnapshotJSON(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		FlightIndex:      1,
		InQueue:          2,
		InFlight:         3,
		TotalBoarded:     8,
		CheckedPassenger: NoPassenger,
		Hostess:          CheckPassport,
		Passengers:       []PassengerStatus{InFlight, Travelling},
		PerFlight:        []int{5},
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.Contains(t, string(data), `"hostess-status":"CHECK_PASSPORT"`)
	require.Contains(t, string(data), `"checked-passenger":-1`)
	require.Contains(t, string(data), `"passenger-status":["IN_FLIGHT","TRAVELLING"]`)
}
