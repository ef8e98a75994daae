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

package logutil

import (
	"path/filepath"
	"testing"

	"github.com/flightops/airlift/pkg/leakutil"
	"github.com/pingcap/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestAdjust(t *testing.T) {
	cfg := &Config{}
	cfg.Adjust()
	require.Equal(t, "info", cfg.Level)

	cfg = &Config{Level: "warning"}
	cfg.Adjust()
	require.Equal(t, "warn", cfg.Level)
}

func TestInitLoggerAndSetLogLevel(t *testing.T) {
	// The file logger may only leave the rotation goroutine behind,
	// which the leakutil options already ignore.
	defer leakutil.VerifyNone(t)

	f := filepath.Join(t.TempDir(), "test.log")
	cfg := &Config{
		Level: "warning",
		File:  f,
	}
	err := InitLogger(cfg)
	require.Nil(t, err)
	require.Equal(t, zapcore.WarnLevel, log.GetLevel())

	// Set a different level.
	err = SetLogLevel("info")
	require.Nil(t, err)
	require.Equal(t, zapcore.InfoLevel, log.GetLevel())

	// Set the same level.
	err = SetLogLevel("info")
	require.Nil(t, err)
	require.Equal(t, zapcore.InfoLevel, log.GetLevel())

	// Set an invalid level.
	err = SetLogLevel("badlevel")
	require.Error(t, err)
}
