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

// Package context shares the default context across commands.
package context

import (
	"context"

	"github.com/pingcap/log"
)

var defaultContext context.Context

// SetDefaultContext sets the default context shared by all commands.
func SetDefaultContext(ctx context.Context) {
	defaultContext = ctx
}

// GetDefaultContext returns the default context. It must be called after
// SetDefaultContext.
func GetDefaultContext() context.Context {
	if defaultContext == nil {
		log.Panic("default context is not set, please call SetDefaultContext first")
	}
	return defaultContext
}
