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

// Package passenger implements the passenger actor. A passenger travels
// to the airport, queues for check-in, completes the id handshake with
// the hostess, rides the flight and deplanes at the destination. Any
// failed transition ends the actor; there is no retry.
package passenger

import (
	"context"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/flightops/airlift/lift/model"
	"github.com/flightops/airlift/lift/state"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Options configures one passenger actor.
type Options struct {
	ID            model.PassengerID
	MaxTravelTime time.Duration
	Seed          int64
	// Clock is the time source of the travel delay. Defaults to the
	// wall clock.
	Clock clock.Clock
}

// Passenger is one passenger of the airlift.
type Passenger struct {
	id     model.PassengerID
	shared *state.Shared
	ch     *state.Channels

	maxTravel time.Duration
	clock     clock.Clock
	rnd       *rand.Rand
}

// New creates a passenger actor on the given shared state.
func New(shared *state.Shared, opts Options) *Passenger {
	c := opts.Clock
	if c == nil {
		c = clock.New()
	}
	return &Passenger{
		id:        opts.ID,
		shared:    shared,
		ch:        shared.Channels(),
		maxTravel: opts.MaxTravelTime,
		clock:     c,
		rnd:       rand.New(rand.NewSource(opts.Seed)),
	}
}

// Run drives the passenger through its whole lifecycle. It returns nil
// once the passenger reached the destination, or the first fatal error.
func (p *Passenger) Run(ctx context.Context) error {
	if err := p.travel(ctx); err != nil {
		return errors.Annotatef(err, "passenger %d", p.id)
	}
	if err := p.joinQueue(ctx); err != nil {
		return errors.Annotatef(err, "passenger %d", p.id)
	}
	if err := p.rideAndDeplane(ctx); err != nil {
		return errors.Annotatef(err, "passenger %d", p.id)
	}
	return nil
}

// travel spends a bounded random time on the way to the airport. It
// touches no shared state.
func (p *Passenger) travel(ctx context.Context) error {
	d := time.Duration(p.rnd.Int63n(int64(p.maxTravel))) + time.Millisecond
	log.Debug("passenger travelling to airport",
		zap.Int("passenger", int(p.id)), zap.Duration("duration", d))
	t := p.clock.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return errors.Trace(ctx.Err())
	case <-t.C:
		return nil
	}
}

// joinQueue enters the check-in queue and completes the id handshake:
// announce the arrival, wait to be admitted, present the id and hand the
// turn back to the hostess.
func (p *Passenger) joinQueue(ctx context.Context) error {
	if err := p.shared.EnterQueue(ctx, p.id); err != nil {
		return errors.Trace(err)
	}
	p.ch.QueueArrived.Signal()
	log.Info("passenger waiting in queue", zap.Int("passenger", int(p.id)))

	if err := p.ch.QueueAdmitted.Wait(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := p.shared.PresentID(ctx, p.id); err != nil {
		return errors.Trace(err)
	}
	p.ch.IDShown.Signal()
	log.Info("passenger boarded", zap.Int("passenger", int(p.id)))
	return nil
}

// rideAndDeplane waits out the flight and leaves the plane at the
// destination. The shared state signals the pilot when this passenger is
// the last one out.
func (p *Passenger) rideAndDeplane(ctx context.Context) error {
	if err := p.ch.CabinOpen.Wait(ctx); err != nil {
		return errors.Trace(err)
	}
	last, err := p.shared.Deplane(ctx, p.id)
	if err != nil {
		return errors.Trace(err)
	}
	log.Info("passenger arrived at destination",
		zap.Int("passenger", int(p.id)), zap.Bool("last-out", last))
	return nil
}
