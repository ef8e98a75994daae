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

// Package hostess implements the hostess actor, the single boarding agent
// of the airlift. Per boarding window she admits queued passengers one at
// a time through the id handshake, decides batch closure after every
// admission and hands the closed batch to the pilot. She keeps her own
// count of boarded passengers; the shared counters stay authoritative for
// the closure decision.
package hostess

import (
	"context"

	"github.com/flightops/airlift/lift/model"
	"github.com/flightops/airlift/lift/state"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Hostess is the boarding agent of the airlift.
type Hostess struct {
	shared     *state.Shared
	ch         *state.Channels
	passengers int
}

// New creates the hostess actor for a run of the given passenger count.
func New(shared *state.Shared, passengers int) *Hostess {
	return &Hostess{
		shared:     shared,
		ch:         shared.Channels(),
		passengers: passengers,
	}
}

// Run drives the hostess until every passenger has boarded. It returns
// nil on a completed run, or the first fatal error.
func (h *Hostess) Run(ctx context.Context) error {
	boarded := 0
	for boarded < h.passengers {
		if err := h.waitForNextFlight(ctx); err != nil {
			return errors.Annotate(err, "hostess")
		}
		for {
			if err := h.waitForPassenger(ctx); err != nil {
				return errors.Annotate(err, "hostess")
			}
			reason, err := h.checkPassport(ctx)
			if err != nil {
				return errors.Annotate(err, "hostess")
			}
			boarded++
			if reason.Closed() {
				log.Info("boarding batch closed",
					zap.Stringer("reason", reason),
					zap.Int("boarded", boarded))
				break
			}
		}
		if err := h.signalReadyToFlight(ctx); err != nil {
			return errors.Annotate(err, "hostess")
		}
	}
	log.Info("all passengers boarded, hostess off duty", zap.Int("boarded", boarded))
	return nil
}

// waitForNextFlight parks the hostess until the pilot opens the next
// boarding window.
func (h *Hostess) waitForNextFlight(ctx context.Context) error {
	if err := h.shared.SetHostessStatus(ctx, model.WaitForFlight); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(h.ch.BoardingOpen.Wait(ctx))
}

// waitForPassenger parks the hostess until a passenger announces itself
// in the queue.
func (h *Hostess) waitForPassenger(ctx context.Context) error {
	if err := h.shared.SetHostessStatus(ctx, model.WaitForPassenger); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(h.ch.QueueArrived.Wait(ctx))
}

// checkPassport admits exactly one queued passenger: clear it to present
// its id, wait for the id, then account for it and decide closure. The
// closure decision is evaluated strictly after this passenger's IDShown
// signal, inside the same critical section as the counter updates.
func (h *Hostess) checkPassport(ctx context.Context) (model.CloseReason, error) {
	h.ch.QueueAdmitted.Signal()
	if err := h.shared.SetHostessStatus(ctx, model.CheckPassport); err != nil {
		return model.KeepBoarding, errors.Trace(err)
	}
	if err := h.ch.IDShown.Wait(ctx); err != nil {
		return model.KeepBoarding, errors.Trace(err)
	}
	reason, err := h.shared.ConfirmBoarding(ctx)
	return reason, errors.Trace(err)
}

// signalReadyToFlight closes the batch and clears the pilot for
// departure.
func (h *Hostess) signalReadyToFlight(ctx context.Context) error {
	finished, err := h.shared.DepartFlight(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	h.ch.FlightReady.Signal()
	log.Info("flight cleared for departure", zap.Bool("finished", finished))
	return nil
}
