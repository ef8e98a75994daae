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

package version

import (
	"fmt"

	"github.com/flightops/airlift/pkg/version"
	"github.com/spf13/cobra"
)

// NewCmdVersion creates the `version` command.
func NewCmdVersion() *cobra.Command {
	command := &cobra.Command{
		Use:   "version",
		Short: "Output version and git information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.GetRawInfo())
			return nil
		},
	}

	return command
}
