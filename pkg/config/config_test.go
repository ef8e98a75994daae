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

package config

import (
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	cerror "github.com/flightops/airlift/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := GetDefaultSimConfig()
	require.NoError(t, cfg.ValidateAndAdjust())
	require.Equal(t, 10, cfg.Passengers)
	require.Equal(t, 3, cfg.MinFlightCapacity)
	require.Equal(t, 5, cfg.MaxFlightCapacity)
}

func TestValidateAndAdjust(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mutate func(*SimConfig)
	}{
		{func(c *SimConfig) { c.Passengers = 0 }},
		{func(c *SimConfig) { c.MinFlightCapacity = 0 }},
		{func(c *SimConfig) { c.MaxFlightCapacity = c.MinFlightCapacity - 1 }},
		{func(c *SimConfig) { c.MaxTravelTime = 0 }},
		{func(c *SimConfig) { c.MaxFlightTime = -TomlDuration(time.Second) }},
	}
	for _, cs := range cases {
		cfg := GetDefaultSimConfig()
		cs.mutate(cfg)
		err := cfg.ValidateAndAdjust()
		require.True(t, cerror.ErrInvalidSimOption.Equal(err))
	}

	cfg := GetDefaultSimConfig()
	cfg.LogLevel = ""
	require.NoError(t, cfg.ValidateAndAdjust())
	require.Equal(t, "info", cfg.LogLevel)
}

func TestSingleSeatPlaneIsValid(t *testing.T) {
	t.Parallel()

	cfg := GetDefaultSimConfig()
	cfg.Passengers = 1
	cfg.MinFlightCapacity = 1
	cfg.MaxFlightCapacity = 1
	require.NoError(t, cfg.ValidateAndAdjust())
}

func TestSmallPopulationIsValid(t *testing.T) {
	t.Parallel()

	// A population below the capacity bounds is legal: the all-boarded
	// rule closes the only batch.
	cfg := GetDefaultSimConfig()
	cfg.Passengers = 2
	require.NoError(t, cfg.ValidateAndAdjust())
}

func TestDecodeTomlOverrides(t *testing.T) {
	t.Parallel()

	data := `
passengers = 21
max-flight-capacity = 7
max-travel-time = "250ms"
flight-log = ""
`
	cfg := GetDefaultSimConfig()
	meta, err := toml.Decode(data, cfg)
	require.NoError(t, err)
	require.Empty(t, meta.Undecoded())
	require.NoError(t, cfg.ValidateAndAdjust())
	require.Equal(t, 21, cfg.Passengers)
	require.Equal(t, 7, cfg.MaxFlightCapacity)
	require.Equal(t, TomlDuration(250*time.Millisecond), cfg.MaxTravelTime)
	// Untouched fields keep their defaults.
	require.Equal(t, 3, cfg.MinFlightCapacity)
	require.Empty(t, cfg.FlightLog)
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := GetDefaultSimConfig()
	cfg.Seed = 42
	data, err := cfg.Marshal()
	require.NoError(t, err)

	back := &SimConfig{}
	require.NoError(t, back.Unmarshal([]byte(data)))
	require.Equal(t, cfg, back)
}
