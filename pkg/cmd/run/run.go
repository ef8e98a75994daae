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

package run

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/flightops/airlift/lift/sim"
	cmdcontext "github.com/flightops/airlift/pkg/cmd/context"
	"github.com/flightops/airlift/pkg/cmd/util"
	"github.com/flightops/airlift/pkg/config"
	cerror "github.com/flightops/airlift/pkg/errors"
	"github.com/flightops/airlift/pkg/logutil"
	liftutil "github.com/flightops/airlift/pkg/util"
	"github.com/flightops/airlift/pkg/version"
	"github.com/pingcap/errors"
	"github.com/pingcap/failpoint"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// options defines flags for the `run` command.
type options struct {
	simConfigFilePath string

	simConfig *config.SimConfig
}

// newOptions creates new options for the `run` command.
func newOptions() *options {
	return &options{
		simConfig: config.GetDefaultSimConfig(),
	}
}

// addFlags receives a *cobra.Command reference and binds
// flags related to the airlift run to it.
func (o *options) addFlags(cmd *cobra.Command) {
	defaultSimConfig := config.GetDefaultSimConfig()
	cmd.Flags().IntVar(&o.simConfig.Passengers, "passengers", defaultSimConfig.Passengers, "Total number of passengers to fly to the destination")
	cmd.Flags().IntVar(&o.simConfig.MinFlightCapacity, "min-flight-capacity", defaultSimConfig.MinFlightCapacity, "Smallest batch allowed to depart while more passengers are expected")
	cmd.Flags().IntVar(&o.simConfig.MaxFlightCapacity, "max-flight-capacity", defaultSimConfig.MaxFlightCapacity, "Hard cabin limit of the plane")
	cmd.Flags().DurationVar((*time.Duration)(&o.simConfig.MaxTravelTime), "max-travel-time", time.Duration(defaultSimConfig.MaxTravelTime), "Upper bound of a passenger's travel to the departure airport")
	cmd.Flags().DurationVar((*time.Duration)(&o.simConfig.MaxFlightTime), "max-flight-time", time.Duration(defaultSimConfig.MaxFlightTime), "Upper bound of the outbound leg")
	cmd.Flags().DurationVar((*time.Duration)(&o.simConfig.MaxReturnTime), "max-return-time", time.Duration(defaultSimConfig.MaxReturnTime), "Upper bound of the return leg")
	cmd.Flags().Int64Var(&o.simConfig.Seed, "seed", defaultSimConfig.Seed, "Random seed shared by every actor, 0 picks one from the clock")
	cmd.Flags().StringVar(&o.simConfig.FlightLog, "flight-log", defaultSimConfig.FlightLog, "Path of the flight record file, empty discards the record")
	cmd.Flags().StringVar(&o.simConfig.StatusAddr, "status-addr", defaultSimConfig.StatusAddr, "Bind address of the HTTP status server, empty disables it")
	cmd.Flags().StringVar(&o.simConfig.LogFile, "log-file", defaultSimConfig.LogFile, "log file path")
	cmd.Flags().StringVar(&o.simConfig.LogLevel, "log-level", defaultSimConfig.LogLevel, "log level (etc: debug|info|warn|error)")

	cmd.Flags().StringVar(&o.simConfigFilePath, "config", "", "Path of the configuration file")
}

func (o *options) run(cmd *cobra.Command) error {
	conf, err := o.loadAndVerifySimConfig(cmd)
	if err != nil {
		return errors.Trace(err)
	}

	cancel := util.InitCmd(cmd, &logutil.Config{
		File:  conf.LogFile,
		Level: conf.LogLevel,
	})
	defer cancel()

	version.LogVersionInfo("Air Lift")
	if liftutil.FailpointBuild {
		for _, path := range failpoint.List() {
			status, err := failpoint.Status(path)
			if err != nil {
				log.Error("fail to get failpoint status", zap.Error(err))
			}
			log.Info("failpoint enabled", zap.String("path", path), zap.String("status", status))
		}
	}

	s, err := sim.New(conf)
	if err != nil {
		return errors.Annotate(err, "new airlift")
	}

	// The first signal cancels the run and waits for the actors to wind
	// down; a second one aborts the process context.
	runCtx, stopRun := context.WithCancel(cmdcontext.GetDefaultContext())
	defer stopRun()
	runDone := make(chan struct{})
	util.InitSignalHandling(func() <-chan struct{} {
		stopRun()
		return runDone
	}, cancel)

	report, err := s.Run(runCtx)
	close(runDone)
	if err != nil && !cerror.IsContextCanceledError(err) {
		log.Error("run airlift", zap.String("error", errors.ErrorStack(err)))
		return errors.Annotate(err, "run airlift")
	}
	if report != nil {
		printReport(cmd, report)
	}
	log.Info("airlift exits successfully")

	return nil
}

func (o *options) loadAndVerifySimConfig(cmd *cobra.Command) (*config.SimConfig, error) {
	conf := config.GetDefaultSimConfig()
	if len(o.simConfigFilePath) > 0 {
		if err := util.StrictDecodeFile(o.simConfigFilePath, "airlift", conf); err != nil {
			return nil, err
		}
	}
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "passengers":
			conf.Passengers = o.simConfig.Passengers
		case "min-flight-capacity":
			conf.MinFlightCapacity = o.simConfig.MinFlightCapacity
		case "max-flight-capacity":
			conf.MaxFlightCapacity = o.simConfig.MaxFlightCapacity
		case "max-travel-time":
			conf.MaxTravelTime = o.simConfig.MaxTravelTime
		case "max-flight-time":
			conf.MaxFlightTime = o.simConfig.MaxFlightTime
		case "max-return-time":
			conf.MaxReturnTime = o.simConfig.MaxReturnTime
		case "seed":
			conf.Seed = o.simConfig.Seed
		case "flight-log":
			conf.FlightLog = o.simConfig.FlightLog
		case "status-addr":
			conf.StatusAddr = o.simConfig.StatusAddr
		case "log-file":
			conf.LogFile = o.simConfig.LogFile
		case "log-level":
			conf.LogLevel = o.simConfig.LogLevel
		case "config":
			// do nothing
		default:
			log.Panic("unknown flag, please report a bug", zap.String("flagName", flag.Name))
		}
	})
	if err := conf.ValidateAndAdjust(); err != nil {
		return nil, errors.Trace(err)
	}

	if conf.FlightLog == "" {
		cmd.Printf(color.HiYellowString("[WARN] flight-log is empty, " +
			"the flight record of this run will be discarded.\n"))
	}

	return conf, nil
}

func printReport(cmd *cobra.Command, report *sim.Report) {
	cmd.Printf(color.HiGreenString("airlift complete: %d passengers across %d flights\n",
		report.TotalFlown(), len(report.Flights)))
	for i, n := range report.Flights {
		cmd.Printf("  flight %d: %d passengers\n", i+1, n)
	}
	cmd.Printf("run-id: %s  seed: %d  duration: %s\n",
		report.RunID, report.Seed, report.Duration)
}

// NewCmdRun creates the `run` command.
func NewCmdRun() *cobra.Command {
	o := newOptions()

	command := &cobra.Command{
		Use:   "run",
		Short: "Run one airlift from departure to destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	o.addFlags(command)

	return command
}
