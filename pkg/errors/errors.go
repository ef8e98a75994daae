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

package errors

import (
	"github.com/pingcap/errors"
)

// errors
var (
	// synchronization primitive errors
	ErrGateAcquire = errors.Normalize(
		"acquire shared flight state gate",
		errors.RFCCodeText("LIFT:ErrGateAcquire"),
	)
	ErrChannelWait = errors.Normalize(
		"wait on signal channel %s",
		errors.RFCCodeText("LIFT:ErrChannelWait"),
	)

	// shared state errors
	ErrStatusRegression = errors.Normalize(
		"passenger %d status cannot move %s -> %s",
		errors.RFCCodeText("LIFT:ErrStatusRegression"),
	)
	ErrCounterUnderflow = errors.Normalize(
		"counter %s underflow",
		errors.RFCCodeText("LIFT:ErrCounterUnderflow"),
	)
	ErrCapacityExceeded = errors.Normalize(
		"capacity exceeded: %s is %d, limit %d",
		errors.RFCCodeText("LIFT:ErrCapacityExceeded"),
	)

	// recorder errors
	ErrRecorderWrite = errors.Normalize(
		"write flight log record",
		errors.RFCCodeText("LIFT:ErrRecorderWrite"),
	)
	ErrRecorderClosed = errors.Normalize(
		"flight log recorder is closed",
		errors.RFCCodeText("LIFT:ErrRecorderClosed"),
	)

	// setup errors
	ErrInvalidSimOption = errors.Normalize(
		"invalid simulation option: %s",
		errors.RFCCodeText("LIFT:ErrInvalidSimOption"),
	)
	ErrStatusServer = errors.Normalize(
		"status server error, address %s",
		errors.RFCCodeText("LIFT:ErrStatusServer"),
	)
)
