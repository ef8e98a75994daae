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

// Package state owns the shared flight state of an airlift run. Every
// mutation happens inside the mutual exclusion gate and is validated
// against the protocol invariants before it is persisted to the flight
// record; a violated invariant or a failed record write is returned to
// the calling actor, which treats it as fatal.
//
// The package exposes only whole protocol transitions. Actors never see
// raw fields and never wait on a signal channel while a transition is in
// progress.
package state

import (
	"context"

	"github.com/flightops/airlift/lift/model"
	"github.com/flightops/airlift/lift/recorder"
	cerror "github.com/flightops/airlift/pkg/errors"
	"github.com/flightops/airlift/pkg/gate"
	"github.com/flightops/airlift/pkg/sem"
)

// Channels is the fixed set of signal channels the actors rendezvous on.
// Each is a counting semaphore starting at zero tokens.
type Channels struct {
	// QueueArrived carries one token per passenger that entered the
	// check-in queue. Passengers signal, the hostess waits.
	QueueArrived *sem.Sem
	// QueueAdmitted clears exactly one queued passenger to present its
	// id. The hostess signals, passengers wait.
	QueueAdmitted *sem.Sem
	// IDShown completes one passenger's check-in handshake. The
	// passenger signals, the hostess waits.
	IDShown *sem.Sem
	// BoardingOpen opens one boarding window. The pilot signals, the
	// hostess waits.
	BoardingOpen *sem.Sem
	// FlightReady closes one batch for departure. The hostess signals,
	// the pilot waits.
	FlightReady *sem.Sem
	// CabinOpen releases the flown passengers after landing, one token
	// per passenger aboard. The pilot signals, passengers wait.
	CabinOpen *sem.Sem
	// CabinEmpty reports the cabin clear after deplaning. The last
	// deplaning passenger signals, the pilot waits.
	CabinEmpty *sem.Sem
}

// NewChannels creates the channel set of one run.
func NewChannels() *Channels {
	return &Channels{
		QueueArrived:  sem.New("queue-arrived", 0),
		QueueAdmitted: sem.New("queue-admitted", 0),
		IDShown:       sem.New("id-shown", 0),
		BoardingOpen:  sem.New("boarding-open", 0),
		FlightReady:   sem.New("flight-ready", 0),
		CabinOpen:     sem.New("cabin-open", 0),
		CabinEmpty:    sem.New("cabin-empty", 0),
	}
}

// Shared is the single shared flight state record of a run.
type Shared struct {
	passengers  int
	minCapacity int
	maxCapacity int

	gate *gate.Gate
	ch   *Channels
	rec  recorder.Recorder

	// The fields below are guarded by gate.
	inQueue       int
	inFlight      int
	totalBoarded  int
	flightIndex   int
	perFlight     []int
	checked       model.PassengerID
	finished      bool
	hostess       model.HostessStatus
	passengerStat []model.PassengerStatus
}

// New creates the shared state of a run with every passenger travelling
// and the hostess waiting for the first flight.
func New(passengers, minCapacity, maxCapacity int, ch *Channels, rec recorder.Recorder) *Shared {
	stat := make([]model.PassengerStatus, passengers)
	for i := range stat {
		stat[i] = model.Travelling
	}
	return &Shared{
		passengers:    passengers,
		minCapacity:   minCapacity,
		maxCapacity:   maxCapacity,
		gate:          gate.New(),
		ch:            ch,
		rec:           rec,
		checked:       model.NoPassenger,
		hostess:       model.WaitForFlight,
		passengerStat: stat,
	}
}

// Channels returns the signal channel set of the run.
func (s *Shared) Channels() *Channels {
	return s.ch
}

// snapshotLocked copies the state for the recorder and the status
// endpoint. Callers must hold the gate.
func (s *Shared) snapshotLocked() *model.Snapshot {
	snap := &model.Snapshot{
		FlightIndex:      s.flightIndex,
		InQueue:          s.inQueue,
		InFlight:         s.inFlight,
		TotalBoarded:     s.totalBoarded,
		CheckedPassenger: s.checked,
		Finished:         s.finished,
		Hostess:          s.hostess,
		Passengers:       make([]model.PassengerStatus, len(s.passengerStat)),
		PerFlight:        make([]int, len(s.perFlight)),
	}
	copy(snap.Passengers, s.passengerStat)
	copy(snap.PerFlight, s.perFlight)
	return snap
}

// setPassengerStatusLocked advances one passenger's status. Statuses move
// through the four stages strictly in order; anything else is a protocol
// violation.
func (s *Shared) setPassengerStatusLocked(id model.PassengerID, next model.PassengerStatus) error {
	cur := s.passengerStat[id]
	if next != cur+1 {
		return cerror.ErrStatusRegression.GenWithStackByArgs(id, cur, next)
	}
	s.passengerStat[id] = next
	return nil
}

// RecordInitialState persists the all-travelling starting row of the
// flight record.
func (s *Shared) RecordInitialState(ctx context.Context) error {
	if err := s.gate.Acquire(ctx); err != nil {
		return err
	}
	defer s.gate.Release()
	return s.rec.State(s.snapshotLocked())
}

// EnterQueue moves passenger id into the check-in queue. The caller
// signals QueueArrived after the transition is released.
func (s *Shared) EnterQueue(ctx context.Context, id model.PassengerID) error {
	if err := s.gate.Acquire(ctx); err != nil {
		return err
	}
	defer s.gate.Release()
	if err := s.setPassengerStatusLocked(id, model.InQueue); err != nil {
		return err
	}
	s.inQueue++
	queueLengthGauge.Set(float64(s.inQueue))
	return s.rec.State(s.snapshotLocked())
}

// PresentID records passenger id as the one mid-handshake and seats it in
// the plane. The caller signals IDShown after the transition is released.
func (s *Shared) PresentID(ctx context.Context, id model.PassengerID) error {
	if err := s.gate.Acquire(ctx); err != nil {
		return err
	}
	defer s.gate.Release()
	if err := s.setPassengerStatusLocked(id, model.InFlight); err != nil {
		return err
	}
	s.checked = id
	return s.rec.State(s.snapshotLocked())
}

// SetHostessStatus moves the hostess to st and persists the transition.
func (s *Shared) SetHostessStatus(ctx context.Context, st model.HostessStatus) error {
	if err := s.gate.Acquire(ctx); err != nil {
		return err
	}
	defer s.gate.Release()
	s.hostess = st
	return s.rec.State(s.snapshotLocked())
}

// ConfirmBoarding accounts for the passenger whose IDShown signal the
// hostess just consumed and decides whether the batch closes. The three
// closure conditions are evaluated in priority order inside the same
// critical section as the counter updates, so no concurrent transition
// can interleave with the decision.
func (s *Shared) ConfirmBoarding(ctx context.Context) (model.CloseReason, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return model.KeepBoarding, err
	}
	defer s.gate.Release()

	if s.inQueue == 0 {
		return model.KeepBoarding, cerror.ErrCounterUnderflow.GenWithStackByArgs("passengersInQueue")
	}
	s.inQueue--
	s.inFlight++
	s.totalBoarded++
	if s.inFlight > s.maxCapacity {
		return model.KeepBoarding, cerror.ErrCapacityExceeded.GenWithStackByArgs(
			"passengersInFlight", s.inFlight, s.maxCapacity)
	}
	if s.totalBoarded > s.passengers {
		return model.KeepBoarding, cerror.ErrCapacityExceeded.GenWithStackByArgs(
			"totalBoarded", s.totalBoarded, s.passengers)
	}
	queueLengthGauge.Set(float64(s.inQueue))
	inFlightGauge.Set(float64(s.inFlight))
	boardedCounter.Inc()

	snap := s.snapshotLocked()
	if err := s.rec.PassengerChecked(snap); err != nil {
		return model.KeepBoarding, err
	}
	if err := s.rec.State(snap); err != nil {
		return model.KeepBoarding, err
	}

	reason := model.KeepBoarding
	switch {
	case s.inFlight == s.maxCapacity:
		reason = model.FullCapacity
	case s.inFlight >= s.minCapacity && s.inQueue == 0:
		reason = model.MinimumNoQueue
	case s.totalBoarded == s.passengers:
		reason = model.AllBoarded
	}
	if reason.Closed() {
		closureCounter.WithLabelValues(reason.String()).Inc()
	}
	return reason, nil
}

// DepartFlight closes the current batch: it records the headcount of the
// departing flight, advances the flight index and raises the finished
// flag once every passenger has boarded. It returns the finished flag.
// The caller signals FlightReady after the transition is released.
func (s *Shared) DepartFlight(ctx context.Context) (bool, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return false, err
	}
	defer s.gate.Release()

	s.hostess = model.ReadyToFlight
	if err := s.rec.State(s.snapshotLocked()); err != nil {
		return false, err
	}

	s.perFlight = append(s.perFlight, s.inFlight)
	if err := s.rec.FlightDeparted(s.snapshotLocked()); err != nil {
		return false, err
	}
	s.flightIndex++
	flightsCounter.Inc()
	flightOccupancyHistogram.Observe(float64(s.inFlight))
	if s.totalBoarded == s.passengers {
		s.finished = true
	}
	return s.finished, nil
}

// CabinCount returns the number of passengers aboard the active leg. The
// pilot reads it between FlightReady and the CabinOpen release, where it
// is stable: only deplaning decrements it and deplaning needs the very
// CabinOpen tokens the pilot has not granted yet.
func (s *Shared) CabinCount(ctx context.Context) (int, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return 0, err
	}
	defer s.gate.Release()
	return s.inFlight, nil
}

// Deplane takes passenger id off the plane at the destination. The last
// passenger out signals CabinEmpty while still holding the gate; the
// signal cannot block, so holding the gate across it is safe. It reports
// whether id was that last passenger.
func (s *Shared) Deplane(ctx context.Context, id model.PassengerID) (bool, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return false, err
	}
	defer s.gate.Release()

	if err := s.setPassengerStatusLocked(id, model.AtDestination); err != nil {
		return false, err
	}
	if s.inFlight == 0 {
		return false, cerror.ErrCounterUnderflow.GenWithStackByArgs("passengersInFlight")
	}
	s.inFlight--
	inFlightGauge.Set(float64(s.inFlight))

	last := s.inFlight == 0
	if last {
		s.ch.CabinEmpty.Signal()
	}
	return last, s.rec.State(s.snapshotLocked())
}

// IsFinished reports whether every passenger of the run has boarded.
func (s *Shared) IsFinished(ctx context.Context) (bool, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return false, err
	}
	defer s.gate.Release()
	return s.finished, nil
}

// SnapshotView returns a consistent copy of the state for the status
// endpoint and the end-of-run report.
func (s *Shared) SnapshotView(ctx context.Context) (*model.Snapshot, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.gate.Release()
	return s.snapshotLocked(), nil
}
