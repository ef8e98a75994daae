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

// Package sim assembles and runs one airlift: shared state, flight
// record, the hostess, the pilot and N passengers, fanned out as one
// goroutine per actor. The first actor failure cancels the whole run;
// a clean run ends with every passenger at the destination and a
// summarized flight record.
package sim

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/flightops/airlift/lift/hostess"
	"github.com/flightops/airlift/lift/model"
	"github.com/flightops/airlift/lift/passenger"
	"github.com/flightops/airlift/lift/pilot"
	"github.com/flightops/airlift/lift/recorder"
	"github.com/flightops/airlift/lift/state"
	"github.com/flightops/airlift/pkg/config"
	cerror "github.com/flightops/airlift/pkg/errors"
	"github.com/flightops/airlift/pkg/uuid"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type options struct {
	rec     recorder.Recorder
	uuidGen uuid.Generator
	clock   clock.Clock
}

// Option customizes a Simulation, mostly for tests.
type Option func(*options)

// WithRecorder overrides the flight recorder chosen from the config.
func WithRecorder(rec recorder.Recorder) Option {
	return func(o *options) { o.rec = rec }
}

// WithUUIDGenerator overrides the run id generator.
func WithUUIDGenerator(gen uuid.Generator) Option {
	return func(o *options) { o.uuidGen = gen }
}

// WithClock overrides the time source of every actor.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// Simulation is one assembled airlift run.
type Simulation struct {
	cfg   *config.SimConfig
	runID string
	seed  int64

	shared     *state.Shared
	rec        recorder.Recorder
	pilot      *pilot.Pilot
	hostess    *hostess.Hostess
	passengers []*passenger.Passenger

	statusAddr atomic.String
}

// New assembles a simulation from a validated config.
func New(cfg *config.SimConfig, opts ...Option) (*Simulation, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.uuidGen == nil {
		o.uuidGen = uuid.NewGenerator()
	}
	if o.clock == nil {
		o.clock = clock.New()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runID := o.uuidGen.NewString()

	rec := o.rec
	if rec == nil {
		var err error
		rec, err = newRecorder(cfg, runID)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}

	shared := state.New(cfg.Passengers, cfg.MinFlightCapacity, cfg.MaxFlightCapacity,
		state.NewChannels(), rec)
	s := &Simulation{
		cfg:    cfg,
		runID:  runID,
		seed:   seed,
		shared: shared,
		rec:    rec,
		pilot: pilot.New(shared, pilot.Options{
			MaxFlightTime: time.Duration(cfg.MaxFlightTime),
			MaxReturnTime: time.Duration(cfg.MaxReturnTime),
			Seed:          seed,
			Clock:         o.clock,
		}),
		hostess: hostess.New(shared, cfg.Passengers),
	}
	for id := 0; id < cfg.Passengers; id++ {
		s.passengers = append(s.passengers, passenger.New(shared, passenger.Options{
			ID:            model.PassengerID(id),
			MaxTravelTime: time.Duration(cfg.MaxTravelTime),
			Seed:          seed + int64(id) + 1,
			Clock:         o.clock,
		}))
	}
	return s, nil
}

func newRecorder(cfg *config.SimConfig, runID string) (recorder.Recorder, error) {
	if cfg.FlightLog == "" {
		return recorder.NewBlackhole(), nil
	}
	return recorder.NewFile(cfg.FlightLog, recorder.Header{
		RunID:       runID,
		Passengers:  cfg.Passengers,
		MinCapacity: cfg.MinFlightCapacity,
		MaxCapacity: cfg.MaxFlightCapacity,
	})
}

// RunID returns the generated id of this run.
func (s *Simulation) RunID() string {
	return s.runID
}

// Seed returns the effective random seed of this run.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Run executes the airlift until every passenger reaches the destination
// or the first actor fails. It must be called at most once.
func (s *Simulation) Run(ctx context.Context) (*Report, error) {
	log.Info("starting airlift run",
		zap.String("run-id", s.runID),
		zap.Int64("seed", s.seed),
		zap.Int("passengers", s.cfg.Passengers),
		zap.Int("min-capacity", s.cfg.MinFlightCapacity),
		zap.Int("max-capacity", s.cfg.MaxFlightCapacity))
	passengersGauge.Set(float64(s.cfg.Passengers))
	start := time.Now()

	if s.cfg.StatusAddr != "" {
		srv, err := s.startStatusServer()
		if err != nil {
			return nil, errors.Trace(err)
		}
		defer srv.stop()
	}

	if err := s.shared.RecordInitialState(ctx); err != nil {
		return nil, errors.Trace(err)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	s.spawn(eg, egCtx, "pilot", s.pilot.Run)
	s.spawn(eg, egCtx, "hostess", s.hostess.Run)
	for _, p := range s.passengers {
		s.spawn(eg, egCtx, "passenger", p.Run)
	}
	if err := eg.Wait(); err != nil {
		// Best effort close; the record of a failed run stays partial.
		if closeErr := s.rec.Close(); closeErr != nil {
			log.Warn("closing flight record failed", zap.Error(closeErr))
		}
		return nil, errors.Trace(err)
	}
	duration := time.Since(start)
	runDurationGauge.Set(duration.Seconds())

	snap, err := s.shared.SnapshotView(context.Background())
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.rec.Summary(snap); err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.rec.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	report := &Report{
		RunID:      s.runID,
		Seed:       s.seed,
		Passengers: s.cfg.Passengers,
		Flights:    snap.PerFlight,
		Finished:   snap.Finished,
		Duration:   duration,
	}
	log.Info("airlift run completed",
		zap.String("run-id", s.runID),
		zap.Ints("flights", report.Flights),
		zap.Duration("duration", duration))
	return report, nil
}

// spawn runs one actor in the group. The actor's main loop reports its
// own fatal error here; cancellations caused by a sibling's failure stay
// quiet.
func (s *Simulation) spawn(
	eg *errgroup.Group, ctx context.Context, name string, run func(context.Context) error,
) {
	eg.Go(func() error {
		err := run(ctx)
		if err != nil && !cerror.IsContextCanceledError(err) {
			log.Error("actor terminated", zap.String("actor", name), zap.Error(err))
		}
		return errors.Trace(err)
	})
}
