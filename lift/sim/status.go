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

package sim

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/flightops/airlift/lift/model"
	cerror "github.com/flightops/airlift/pkg/errors"
	"github.com/flightops/airlift/pkg/version"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const statusShutdownTimeout = 2 * time.Second

// statusServer serves the run status, metrics and pprof endpoints while
// a run is in flight.
type statusServer struct {
	srv  *http.Server
	done chan struct{}
}

// startStatusServer binds the configured status address and starts
// serving. Binding failures are fatal to the run.
func (s *Simulation) startStatusServer() (*statusServer, error) {
	serverMux := http.NewServeMux()

	serverMux.HandleFunc("/debug/pprof/", pprof.Index)
	serverMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	serverMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	serverMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	serverMux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	serverMux.HandleFunc("/status", s.handleStatus)
	serverMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	lis, err := net.Listen("tcp", s.cfg.StatusAddr)
	if err != nil {
		return nil, cerror.WrapError(cerror.ErrStatusServer, err, s.cfg.StatusAddr)
	}
	s.statusAddr.Store(lis.Addr().String())
	log.Info("status http server is running", zap.String("addr", lis.Addr().String()))

	srv := &statusServer{
		srv:  &http.Server{Handler: serverMux},
		done: make(chan struct{}),
	}
	go func() {
		defer close(srv.done)
		if err := srv.srv.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.Error("status server error", zap.Error(err))
		}
	}()
	return srv, nil
}

func (s *statusServer) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), statusShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Warn("status server shutdown", zap.Error(err))
	}
	<-s.done
}

// StatusAddr returns the bound address of the status server, or the empty
// string while it is not serving.
func (s *Simulation) StatusAddr() string {
	return s.statusAddr.Load()
}

// status is the payload of the /status endpoint. Semver carries the
// normalized release version for clients that compare versions; it is
// empty when the build was not stamped with a release tag.
type status struct {
	Version string            `json:"version"`
	Semver  string            `json:"semver"`
	RunID   string            `json:"run-id"`
	Seed    int64             `json:"seed"`
	Pid     int               `json:"pid"`
	Pilot   model.PilotStatus `json:"pilot-status"`
	State   *model.Snapshot   `json:"state"`
}

func (s *Simulation) handleStatus(w http.ResponseWriter, req *http.Request) {
	snap, err := s.shared.SnapshotView(req.Context())
	if err != nil {
		writeInternalServerError(w, err)
		return
	}
	writeData(w, status{
		Version: version.ReleaseVersion,
		Semver:  version.ReleaseSemver(),
		RunID:   s.runID,
		Seed:    s.seed,
		Pid:     os.Getpid(),
		Pilot:   s.pilot.Status(),
		State:   snap,
	})
}

func writeInternalServerError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, err)
}

func writeError(w http.ResponseWriter, statusCode int, err error) {
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(err.Error())); err != nil {
		log.Error("write error", zap.Error(err))
	}
}

func writeData(w http.ResponseWriter, data interface{}) {
	js, err := json.MarshalIndent(data, "", " ")
	if err != nil {
		log.Error("invalid json data", zap.Reflect("data", data), zap.Error(err))
		writeInternalServerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(js); err != nil {
		log.Error("fail to write data", zap.Error(err))
	}
}
