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

package sim

import (
	"time"
)

// Report summarizes one completed airlift run.
type Report struct {
	RunID      string        `json:"run-id"`
	Seed       int64         `json:"seed"`
	Passengers int           `json:"passengers"`
	Flights    []int         `json:"flights"`
	Finished   bool          `json:"finished"`
	Duration   time.Duration `json:"duration"`
}

// TotalFlown returns the number of passengers carried across all legs.
func (r *Report) TotalFlown() int {
	total := 0
	for _, n := range r.Flights {
		total += n
	}
	return total
}
