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

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flightops/airlift/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestStrictDecodeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "airlift.toml")
	content := `
passengers = 8
min-flight-capacity = 2
max-flight-capacity = 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := config.GetDefaultSimConfig()
	require.NoError(t, StrictDecodeFile(path, "airlift", cfg))
	require.Equal(t, 8, cfg.Passengers)
	require.Equal(t, 2, cfg.MinFlightCapacity)
	require.Equal(t, 4, cfg.MaxFlightCapacity)
}

func TestStrictDecodeFileUnknownOption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "airlift.toml")
	content := `
passengers = 8
cabin-crew = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := config.GetDefaultSimConfig()
	err := StrictDecodeFile(path, "airlift", cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown configuration options")
	require.Contains(t, err.Error(), "cabin-crew")
}

func TestStrictDecodeFileMissing(t *testing.T) {
	t.Parallel()

	cfg := config.GetDefaultSimConfig()
	err := StrictDecodeFile(filepath.Join(t.TempDir(), "absent.toml"), "airlift", cfg)
	require.Error(t, err)
}
