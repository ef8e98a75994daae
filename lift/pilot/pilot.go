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

// Package pilot implements the pilot actor. The pilot gates the flight
// legs: it opens each boarding window, departs once the hostess closes
// the batch, releases the flown passengers at the destination and waits
// for the cabin to clear before flying back. It never mutates the shared
// flight counters, so it carries its own status outside the shared state.
package pilot

import (
	"context"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/flightops/airlift/lift/model"
	"github.com/flightops/airlift/lift/state"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Options configures the pilot actor.
type Options struct {
	MaxFlightTime time.Duration
	MaxReturnTime time.Duration
	Seed          int64
	// Clock is the time source of the flight legs. Defaults to the
	// wall clock.
	Clock clock.Clock
}

// Pilot is the flight controller of the airlift.
type Pilot struct {
	shared *state.Shared
	ch     *state.Channels

	maxFlight time.Duration
	maxReturn time.Duration
	clock     clock.Clock
	rnd       *rand.Rand

	status atomic.Int32
}

// New creates the pilot actor on the given shared state.
func New(shared *state.Shared, opts Options) *Pilot {
	c := opts.Clock
	if c == nil {
		c = clock.New()
	}
	return &Pilot{
		shared:    shared,
		ch:        shared.Channels(),
		maxFlight: opts.MaxFlightTime,
		maxReturn: opts.MaxReturnTime,
		clock:     c,
		rnd:       rand.New(rand.NewSource(opts.Seed)),
	}
}

// Status returns the pilot's current lifecycle stage.
func (p *Pilot) Status() model.PilotStatus {
	return model.PilotStatus(p.status.Load())
}

func (p *Pilot) setStatus(st model.PilotStatus) {
	p.status.Store(int32(st))
}

// Run flies legs until every passenger has been carried. It returns nil
// once the final return leg lands, or the first fatal error.
func (p *Pilot) Run(ctx context.Context) error {
	for leg := 1; ; leg++ {
		p.setStatus(model.ReadyForBoarding)
		p.ch.BoardingOpen.Signal()
		log.Info("boarding window opened", zap.Int("leg", leg))

		if err := p.ch.FlightReady.Wait(ctx); err != nil {
			return errors.Annotate(err, "pilot")
		}
		aboard, err := p.shared.CabinCount(ctx)
		if err != nil {
			return errors.Annotate(err, "pilot")
		}
		p.setStatus(model.Flying)
		log.Info("departing", zap.Int("leg", leg), zap.Int("aboard", aboard))
		if err := p.fly(ctx, p.maxFlight); err != nil {
			return errors.Annotate(err, "pilot")
		}

		// One release per passenger aboard; the cabin count cannot
		// change until these tokens are consumed.
		p.setStatus(model.Deplaning)
		log.Info("landed, cabin open", zap.Int("leg", leg), zap.Int("aboard", aboard))
		for i := 0; i < aboard; i++ {
			p.ch.CabinOpen.Signal()
		}
		if err := p.ch.CabinEmpty.Wait(ctx); err != nil {
			return errors.Annotate(err, "pilot")
		}

		p.setStatus(model.FlyingBack)
		log.Info("cabin empty, flying back", zap.Int("leg", leg))
		if err := p.fly(ctx, p.maxReturn); err != nil {
			return errors.Annotate(err, "pilot")
		}

		finished, err := p.shared.IsFinished(ctx)
		if err != nil {
			return errors.Annotate(err, "pilot")
		}
		if finished {
			log.Info("airlift finished, parking the plane", zap.Int("legs", leg))
			return nil
		}
	}
}

// fly spends a bounded random time on one flight leg.
func (p *Pilot) fly(ctx context.Context, bound time.Duration) error {
	d := time.Duration(p.rnd.Int63n(int64(bound))) + time.Millisecond
	t := p.clock.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return errors.Trace(ctx.Err())
	case <-t.C:
		return nil
	}
}
