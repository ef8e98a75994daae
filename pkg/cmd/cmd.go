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

package cmd

import (
	"os"

	"github.com/flightops/airlift/pkg/cmd/run"
	"github.com/flightops/airlift/pkg/cmd/version"
	"github.com/spf13/cobra"
)

// Run runs the root command.
func Run() {
	cmd := &cobra.Command{
		Use:   "airlift",
		Short: "airlift",
		Long:  `Air Lift, a batched passenger airlift between two airports`,
	}

	cmd.AddCommand(run.NewCmdRun())
	cmd.AddCommand(version.NewCmdVersion())

	// Outputs cmd.Print to stdout.
	cmd.SetOut(os.Stdout)

	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		// Outputs the error to stdout.
		cmd.Println(err)
		os.Exit(1)
	}
}
