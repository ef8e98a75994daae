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

// Package gate provides the binary lock that serializes every access to the
// shared flight state. There is no recovery path from a failed acquisition:
// callers propagate the error up to the actor main loop, which terminates
// the actor. Holders must not wait on any signal channel while the gate is
// held, otherwise the boarding protocol deadlocks.
package gate

import (
	"context"

	cerror "github.com/flightops/airlift/pkg/errors"
	"github.com/pingcap/failpoint"
)

// Gate implements a context aware binary lock.
type Gate struct {
	ch chan struct{}
}

// New creates a new Gate.
func New() *Gate {
	return &Gate{
		ch: make(chan struct{}, 1),
	}
}

// Acquire blocks until the gate is held. A cancelled context aborts the
// acquisition and surfaces as ErrGateAcquire.
func (g *Gate) Acquire(ctx context.Context) error {
	failpoint.Inject("gateAcquireError", func() {
		failpoint.Return(cerror.ErrGateAcquire.GenWithStackByArgs())
	})
	select {
	case <-ctx.Done():
		return cerror.WrapError(cerror.ErrGateAcquire, ctx.Err())
	case g.ch <- struct{}{}:
		return nil
	}
}

// Release releases the held gate.
func (g *Gate) Release() {
	<-g.ch
}

// Held checks whether the gate is currently held by some actor.
func (g *Gate) Held() bool {
	return len(g.ch) > 0
}
