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

package uuid

import (
	guuid "github.com/google/uuid"
)

// Generator defines an interface of a uuid generator. Simulation runs are
// tagged with a generated run ID so that log lines, the flight record and
// the status endpoint of one run can be correlated.
type Generator interface {
	NewString() string
}

type generatorImpl struct{}

// NewGenerator returns a new uuid generator.
func NewGenerator() Generator {
	return &generatorImpl{}
}

// NewString implements Generator.NewString.
func (g *generatorImpl) NewString() string {
	return guuid.NewString()
}

// MockGenerator is a mocked uuid generator that returns pre-pushed strings.
type MockGenerator struct {
	list []string
}

// NewMock returns a new MockGenerator.
func NewMock() *MockGenerator {
	return &MockGenerator{}
}

// Push adds a string to the list pending return.
func (g *MockGenerator) Push(uuidStr string) {
	g.list = append(g.list, uuidStr)
}

// NewString implements Generator.NewString. It panics when no pushed
// string is left.
func (g *MockGenerator) NewString() string {
	if len(g.list) == 0 {
		panic("the mock uuid generator is used up")
	}
	ret := g.list[0]
	g.list = g.list[1:]
	return ret
}
