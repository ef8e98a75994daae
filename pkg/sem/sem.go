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

// Package sem implements the counting signal channels the boarding protocol
// synchronizes on. A Sem carries a token count with no upper bound: Signal
// deposits a token and never blocks, Wait consumes a token or blocks until
// one arrives. Tokens are handed to waiters in FIFO order so a burst of
// boarding permits cannot starve the passenger who queued first.
package sem

import (
	"container/list"
	"context"
	"sync"

	cerror "github.com/flightops/airlift/pkg/errors"
)

// Sem is a counting semaphore usable as a signal channel between actors.
// The zero value is not usable, use New.
type Sem struct {
	name string

	mu      sync.Mutex
	tokens  int
	waiters *list.List // of chan struct{}, each with capacity 1
}

// New creates a semaphore carrying the given number of initial tokens.
// The name appears in errors returned by Wait.
func New(name string, tokens int) *Sem {
	return &Sem{
		name:    name,
		tokens:  tokens,
		waiters: list.New(),
	}
}

// Signal deposits one token. If a waiter is queued the token is handed to
// the front waiter directly. Signal never blocks, so it is safe to call
// while holding the shared state gate.
func (s *Sem) Signal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grantLocked()
}

// grantLocked delivers a token to the front waiter, or banks it when the
// queue is empty. Removal from the queue and delivery happen under the same
// lock acquisition, which is what Wait relies on to disambiguate the
// cancel/signal race.
func (s *Sem) grantLocked() {
	if e := s.waiters.Front(); e != nil {
		s.waiters.Remove(e)
		e.Value.(chan struct{}) <- struct{}{}
		return
	}
	s.tokens++
}

// Wait consumes one token, blocking until a token is available or the
// context is cancelled. Cancellation surfaces as ErrChannelWait and never
// loses a token: one delivered concurrently with the cancellation is put
// back for the next waiter.
func (s *Sem) Wait(ctx context.Context) error {
	s.mu.Lock()
	if s.tokens > 0 {
		s.tokens--
		s.mu.Unlock()
		return nil
	}
	ch := make(chan struct{}, 1)
	elem := s.waiters.PushBack(ch)
	s.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
	}

	s.mu.Lock()
	select {
	case <-ch:
		// A token was granted between the cancellation and reacquiring
		// the lock. Pass it on so it is not lost.
		s.grantLocked()
	default:
		s.waiters.Remove(elem)
	}
	s.mu.Unlock()
	return cerror.WrapError(cerror.ErrChannelWait, ctx.Err(), s.name)
}

// TryWait consumes a token without blocking. It reports whether a token
// was consumed.
func (s *Sem) TryWait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens > 0 {
		s.tokens--
		return true
	}
	return false
}

// Tokens returns the number of banked tokens.
func (s *Sem) Tokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

// Waiters returns the number of goroutines blocked in Wait.
func (s *Sem) Waiters() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters.Len()
}

// Name returns the semaphore name.
func (s *Sem) Name() string {
	return s.name
}
