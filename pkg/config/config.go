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
	"encoding/json"
	"time"

	cerror "github.com/flightops/airlift/pkg/errors"
)

// TomlDuration is a duration with a custom json/toml marshalling.
type TomlDuration time.Duration

// UnmarshalText is the toml.UnmarshalText implementation.
func (d *TomlDuration) UnmarshalText(text []byte) error {
	stdDuration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TomlDuration(stdDuration)
	return nil
}

// MarshalText is the toml.MarshalText implementation.
func (d TomlDuration) MarshalText() ([]byte, error) {
	stdDuration := time.Duration(d)
	return []byte(stdDuration.String()), nil
}

// UnmarshalJSON is the json.Unmarshaler implementation.
func (d *TomlDuration) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(text))
}

// MarshalJSON is the json.Marshaler implementation.
func (d TomlDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// SimConfig represents a simulation run of the airlift.
type SimConfig struct {
	// Passengers is the total number of passengers to fly to the
	// destination airport.
	Passengers int `toml:"passengers" json:"passengers"`
	// MinFlightCapacity is the smallest batch the hostess lets depart
	// while more passengers are still expected.
	MinFlightCapacity int `toml:"min-flight-capacity" json:"min-flight-capacity"`
	// MaxFlightCapacity is the hard cabin limit of the plane.
	MaxFlightCapacity int `toml:"max-flight-capacity" json:"max-flight-capacity"`

	// MaxTravelTime bounds the random delay before a passenger reaches
	// the departure airport.
	MaxTravelTime TomlDuration `toml:"max-travel-time" json:"max-travel-time"`
	// MaxFlightTime bounds the random duration of the outbound leg.
	MaxFlightTime TomlDuration `toml:"max-flight-time" json:"max-flight-time"`
	// MaxReturnTime bounds the random duration of the return leg.
	MaxReturnTime TomlDuration `toml:"max-return-time" json:"max-return-time"`

	// Seed fixes the random source of every actor. Zero picks a seed
	// from the wall clock.
	Seed int64 `toml:"seed" json:"seed"`

	// FlightLog is the path of the flight record file. An empty path
	// discards the record.
	FlightLog string `toml:"flight-log" json:"flight-log"`
	// StatusAddr enables the HTTP status server when non-empty.
	StatusAddr string `toml:"status-addr" json:"status-addr"`

	LogFile  string `toml:"log-file" json:"log-file"`
	LogLevel string `toml:"log-level" json:"log-level"`
}

var defaultSimConfig = &SimConfig{
	Passengers:        10,
	MinFlightCapacity: 3,
	MaxFlightCapacity: 5,
	MaxTravelTime:     TomlDuration(100 * time.Millisecond),
	MaxFlightTime:     TomlDuration(150 * time.Millisecond),
	MaxReturnTime:     TomlDuration(100 * time.Millisecond),
	Seed:              0,
	FlightLog:         "airlift.log",
	StatusAddr:        "",
	LogFile:           "",
	LogLevel:          "info",
}

// GetDefaultSimConfig returns the default simulation config.
func GetDefaultSimConfig() *SimConfig {
	return defaultSimConfig.Clone()
}

// Clone returns a deep copy of the config.
func (c *SimConfig) Clone() *SimConfig {
	clone := *c
	return &clone
}

// ValidateAndAdjust checks the config and fills in derived defaults.
func (c *SimConfig) ValidateAndAdjust() error {
	if c.Passengers < 1 {
		return cerror.ErrInvalidSimOption.GenWithStackByArgs("passengers must be at least 1")
	}
	if c.MinFlightCapacity < 1 {
		return cerror.ErrInvalidSimOption.GenWithStackByArgs("min-flight-capacity must be at least 1")
	}
	if c.MaxFlightCapacity < c.MinFlightCapacity {
		return cerror.ErrInvalidSimOption.GenWithStackByArgs(
			"max-flight-capacity must not be smaller than min-flight-capacity")
	}
	if c.MaxTravelTime <= 0 || c.MaxFlightTime <= 0 || c.MaxReturnTime <= 0 {
		return cerror.ErrInvalidSimOption.GenWithStackByArgs("time bounds must be positive")
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultSimConfig.LogLevel
	}
	return nil
}

// String implements fmt.Stringer, returning the config as JSON.
func (c *SimConfig) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

// Marshal returns the json marshal format of the config.
func (c *SimConfig) Marshal() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", cerror.WrapError(cerror.ErrInvalidSimOption, err)
	}
	return string(data), nil
}

// Unmarshal fills the config from its json marshal format.
func (c *SimConfig) Unmarshal(data []byte) error {
	err := json.Unmarshal(data, c)
	if err != nil {
		return cerror.WrapError(cerror.ErrInvalidSimOption, err)
	}
	return nil
}
