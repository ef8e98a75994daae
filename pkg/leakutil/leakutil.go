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

package leakutil

import (
	"testing"

	"go.uber.org/goleak"
)

// SetUpLeakTest initializes the leak test by goleak with some common options
// applied. The file logger keeps a background rotation goroutine alive for
// the rest of the process, hence the lumberjack ignore.
func SetUpLeakTest(m *testing.M, opts ...goleak.Option) {
	opts = append(opts,
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
	goleak.VerifyTestMain(m, opts...)
}

// VerifyNone verifies that no unexpected leaks occur at the end of a single
// test, with the same common options as SetUpLeakTest.
func VerifyNone(t *testing.T, opts ...goleak.Option) {
	opts = append(opts,
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
	goleak.VerifyNone(t, opts...)
}
