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
	"context"
	"testing"

	"github.com/flightops/airlift/lift/model"
	"github.com/flightops/airlift/lift/recorder"
	cerror "github.com/flightops/airlift/pkg/errors"
	"github.com/flightops/airlift/pkg/leakutil"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	leakutil.SetUpLeakTest(m)
}

func newTestShared(n, min, max int) (*Shared, *recorder.BlackholeRecorder) {
	rec := recorder.NewBlackhole()
	return New(n, min, max, NewChannels(), rec), rec
}

// enqueue moves the given passengers into the queue.
func enqueue(t *testing.T, s *Shared, ids ...model.PassengerID) {
	for _, id := range ids {
		require.NoError(t, s.EnterQueue(context.Background(), id))
	}
}

// admit completes the check-in handshake of one queued passenger and
// returns the hostess's closure decision.
func admit(t *testing.T, s *Shared, id model.PassengerID) model.CloseReason {
	ctx := context.Background()
	require.NoError(t, s.PresentID(ctx, id))
	reason, err := s.ConfirmBoarding(ctx)
	require.NoError(t, err)
	return reason
}

func TestCloseOnFullCapacity(t *testing.T) {
	t.Parallel()

	s, _ := newTestShared(10, 3, 5)
	enqueue(t, s, 0, 1, 2, 3, 4)
	for id := model.PassengerID(0); id < 4; id++ {
		require.Equal(t, model.KeepBoarding, admit(t, s, id))
	}
	require.Equal(t, model.FullCapacity, admit(t, s, 4))
}

func TestCloseOnMinimumNoQueue(t *testing.T) {
	t.Parallel()

	s, _ := newTestShared(10, 3, 5)
	enqueue(t, s, 0, 1, 2)
	require.Equal(t, model.KeepBoarding, admit(t, s, 0))
	require.Equal(t, model.KeepBoarding, admit(t, s, 1))
	require.Equal(t, model.MinimumNoQueue, admit(t, s, 2))
}

func TestCloseOnAllBoarded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestShared(4, 3, 5)
	enqueue(t, s, 0, 1, 2)
	admit(t, s, 0)
	admit(t, s, 1)
	require.Equal(t, model.MinimumNoQueue, admit(t, s, 2))
	_, err := s.DepartFlight(ctx)
	require.NoError(t, err)
	for id := model.PassengerID(0); id < 3; id++ {
		_, err := s.Deplane(ctx, id)
		require.NoError(t, err)
	}

	// The final passenger closes a leg below minimum capacity because
	// the whole population has now boarded.
	enqueue(t, s, 3)
	require.Equal(t, model.AllBoarded, admit(t, s, 3))
	finished, err := s.DepartFlight(ctx)
	require.NoError(t, err)
	require.True(t, finished)
}

func TestFullCapacityWinsOverMinimum(t *testing.T) {
	t.Parallel()

	// At max capacity both the full-capacity and the minimum-no-queue
	// conditions hold; the full-capacity one is reported.
	s, _ := newTestShared(5, 5, 5)
	enqueue(t, s, 0, 1, 2, 3, 4)
	for id := model.PassengerID(0); id < 4; id++ {
		require.Equal(t, model.KeepBoarding, admit(t, s, id))
	}
	require.Equal(t, model.FullCapacity, admit(t, s, 4))
}

func TestMinimumWinsOverAllBoarded(t *testing.T) {
	t.Parallel()

	s, _ := newTestShared(3, 1, 5)
	enqueue(t, s, 0, 1, 2)
	require.Equal(t, model.KeepBoarding, admit(t, s, 0))
	require.Equal(t, model.KeepBoarding, admit(t, s, 1))
	require.Equal(t, model.MinimumNoQueue, admit(t, s, 2))
}

func TestConservation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestShared(4, 2, 3)
	check := func() {
		snap, err := s.SnapshotView(ctx)
		require.NoError(t, err)
		total := snap.InQueue + snap.InFlight + snap.AtDestinationCount() + snap.TravellingCount()
		require.Equal(t, 4, total)
		require.GreaterOrEqual(t, snap.InQueue, 0)
		require.LessOrEqual(t, snap.InFlight, 3)
		require.LessOrEqual(t, snap.TotalBoarded, 4)
	}

	check()
	enqueue(t, s, 0, 1, 2)
	check()
	admit(t, s, 0)
	check()
	admit(t, s, 1)
	check()
	require.Equal(t, model.FullCapacity, admit(t, s, 2))
	check()
	_, err := s.DepartFlight(ctx)
	require.NoError(t, err)
	check()
	for id := model.PassengerID(0); id < 3; id++ {
		_, err := s.Deplane(ctx, id)
		require.NoError(t, err)
		check()
	}
	enqueue(t, s, 3)
	require.Equal(t, model.AllBoarded, admit(t, s, 3))
	finished, err := s.DepartFlight(ctx)
	require.NoError(t, err)
	require.True(t, finished)
	_, err = s.Deplane(ctx, 3)
	require.NoError(t, err)
	check()

	snap, err := s.SnapshotView(ctx)
	require.NoError(t, err)
	require.True(t, snap.Finished)
	require.Equal(t, []int{3, 1}, snap.PerFlight)
	require.Equal(t, 4, snap.TotalBoarded)
	require.Equal(t, 4, snap.AtDestinationCount())
}

func TestConfirmBoardingEmptyQueue(t *testing.T) {
	t.Parallel()

	s, _ := newTestShared(2, 1, 2)
	_, err := s.ConfirmBoarding(context.Background())
	require.True(t, cerror.ErrCounterUnderflow.Equal(err))
}

func TestConfirmBoardingOverCapacity(t *testing.T) {
	t.Parallel()

	s, _ := newTestShared(5, 1, 2)
	enqueue(t, s, 0, 1, 2)
	admit(t, s, 0)
	require.Equal(t, model.FullCapacity, admit(t, s, 1))

	// Admitting past the closure decision trips the capacity guard.
	ctx := context.Background()
	require.NoError(t, s.PresentID(ctx, 2))
	_, err := s.ConfirmBoarding(ctx)
	require.True(t, cerror.ErrCapacityExceeded.Equal(err))
}

func TestStatusRegression(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestShared(2, 1, 2)
	require.NoError(t, s.EnterQueue(ctx, 0))
	err := s.EnterQueue(ctx, 0)
	require.True(t, cerror.ErrStatusRegression.Equal(err))

	// Deplaning straight from the queue skips IN_FLIGHT and is refused.
	_, err = s.Deplane(ctx, 0)
	require.True(t, cerror.ErrStatusRegression.Equal(err))
}

func TestDeplaneUncountedPassenger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestShared(3, 1, 3)
	enqueue(t, s, 0, 1)
	admit(t, s, 0)
	// Passenger 1 presented its id but the hostess never confirmed it,
	// so the in-flight counter holds a single passenger.
	require.NoError(t, s.PresentID(ctx, 1))

	last, err := s.Deplane(ctx, 0)
	require.NoError(t, err)
	require.True(t, last)
	_, err = s.Deplane(ctx, 1)
	require.True(t, cerror.ErrCounterUnderflow.Equal(err))
}

func TestLastDeplaneSignalsCabinEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestShared(3, 3, 3)
	enqueue(t, s, 0, 1, 2)
	admit(t, s, 0)
	admit(t, s, 1)
	require.Equal(t, model.FullCapacity, admit(t, s, 2))
	_, err := s.DepartFlight(ctx)
	require.NoError(t, err)

	for id := model.PassengerID(0); id < 2; id++ {
		last, err := s.Deplane(ctx, id)
		require.NoError(t, err)
		require.False(t, last)
		require.Equal(t, 0, s.Channels().CabinEmpty.Tokens())
	}
	last, err := s.Deplane(ctx, 2)
	require.NoError(t, err)
	require.True(t, last)
	require.Equal(t, 1, s.Channels().CabinEmpty.Tokens())
}

func TestDepartFlightAdvancesIndex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, rec := newTestShared(2, 1, 2)
	enqueue(t, s, 0, 1)
	admit(t, s, 0)
	require.Equal(t, model.FullCapacity, admit(t, s, 1))

	finished, err := s.DepartFlight(ctx)
	require.NoError(t, err)
	require.True(t, finished)

	snap, err := s.SnapshotView(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, snap.FlightIndex)
	require.Equal(t, []int{2}, snap.PerFlight)
	require.True(t, snap.Finished)
	require.Equal(t, int64(1), rec.FlightDepartedCount())
	require.Equal(t, int64(2), rec.PassengerCheckedCount())
}

func TestGateAcquireCanceled(t *testing.T) {
	t.Parallel()

	s, _ := newTestShared(2, 1, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.EnterQueue(ctx, 0)
	require.True(t, cerror.IsContextCanceledError(err))
	require.Regexp(t, ".*ErrGateAcquire.*", err.Error())
}

type failingRecorder struct {
	*recorder.BlackholeRecorder
	failState bool
}

func (r *failingRecorder) State(snap *model.Snapshot) error {
	if r.failState {
		return cerror.ErrRecorderWrite.GenWithStackByArgs()
	}
	return r.BlackholeRecorder.State(snap)
}

func TestRecorderFailureIsFatal(t *testing.T) {
	t.Parallel()

	rec := &failingRecorder{BlackholeRecorder: recorder.NewBlackhole()}
	s := New(2, 1, 2, NewChannels(), rec)
	require.NoError(t, s.EnterQueue(context.Background(), 0))

	rec.failState = true
	err := s.PresentID(context.Background(), 0)
	require.True(t, cerror.ErrRecorderWrite.Equal(err))
}

func TestRecordInitialState(t *testing.T) {
	t.Parallel()

	s, rec := newTestShared(2, 1, 2)
	require.NoError(t, s.RecordInitialState(context.Background()))
	require.Equal(t, int64(1), rec.StateCount())
}
