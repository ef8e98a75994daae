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
	"context"
	stderrors "errors"

	"github.com/pingcap/errors"
)

// WrapError generates a new error based on given `*errors.Error`, wraps the
// err as cause error. If given `err` is nil it returns a nil error, which is
// different from the `Wrap` function in pingcap/errors.
func WrapError(rfcError *errors.Error, err error, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return rfcError.Wrap(err).GenWithStackByArgs(args...)
}

// IsContextCanceledError checks if an error is caused by context.Canceled.
// Cancellation may be buried under both annotation wrappers and normalized
// error classes, so both the legacy cause chain and the unwrap chain are
// inspected.
func IsContextCanceledError(err error) bool {
	return errors.Cause(err) == context.Canceled ||
		stderrors.Is(err, context.Canceled)
}
