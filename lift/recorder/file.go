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

package recorder

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/flightops/airlift/lift/model"
	cerror "github.com/flightops/airlift/pkg/errors"
	"github.com/pingcap/failpoint"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
)

const defaultFileMode = 0o644

// fileRecorder appends the flight record to a local file through a
// buffered writer. The file is synced on Close, not per entry.
type fileRecorder struct {
	mu     sync.Mutex
	file   *os.File
	bw     *bufio.Writer
	closed atomic.Bool
}

// NewFile creates a file recorder at path, truncating any previous record,
// and writes the run header.
func NewFile(path string, header Header) (Recorder, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return nil, cerror.WrapError(cerror.ErrRecorderWrite, err)
	}
	r := &fileRecorder{
		file: file,
		bw:   bufio.NewWriter(file),
	}
	if err := r.writeHeader(header); err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

func (r *fileRecorder) writeHeader(h Header) error {
	var b strings.Builder
	b.WriteString("AIRLIFT FLIGHT RECORD\n")
	fmt.Fprintf(&b, "run-id: %s\n", h.RunID)
	fmt.Fprintf(&b, "passengers: %d  min-capacity: %d  max-capacity: %d\n\n",
		h.Passengers, h.MinCapacity, h.MaxCapacity)
	b.WriteString(statusHeader(h.Passengers))
	return r.append(b.String())
}

// statusHeader builds the column header of the status table.
func statusHeader(passengers int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%4s", "HOST")
	for id := 0; id < passengers; id++ {
		fmt.Fprintf(&b, " %4s", fmt.Sprintf("P%02d", id))
	}
	fmt.Fprintf(&b, "  %4s %4s %4s\n", "INQ", "IFL", "TOT")
	return b.String()
}

// statusRow renders one status table row for snap.
func statusRow(snap *model.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%4s", snap.Hostess.Code())
	for _, st := range snap.Passengers {
		fmt.Fprintf(&b, " %4s", st.Code())
	}
	fmt.Fprintf(&b, "  %4d %4d %4d\n", snap.InQueue, snap.InFlight, snap.TotalBoarded)
	return b.String()
}

// State implements Recorder.State.
func (r *fileRecorder) State(snap *model.Snapshot) error {
	failpoint.Inject("recorderWriteError", func() {
		failpoint.Return(cerror.ErrRecorderWrite.GenWithStackByArgs())
	})
	return r.append(statusRow(snap))
}

// PassengerChecked implements Recorder.PassengerChecked.
func (r *fileRecorder) PassengerChecked(snap *model.Snapshot) error {
	return r.append(fmt.Sprintf("  -- passenger %02d checked in, %d aboard flight %d\n",
		snap.CheckedPassenger, snap.InFlight, snap.FlightIndex+1))
}

// FlightDeparted implements Recorder.FlightDeparted.
func (r *fileRecorder) FlightDeparted(snap *model.Snapshot) error {
	return r.append(fmt.Sprintf("  -- flight %d departed with %d passengers\n",
		snap.FlightIndex+1, snap.InFlight))
}

// Summary implements Recorder.Summary.
func (r *fileRecorder) Summary(snap *model.Snapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nairlift complete: %d passengers across %d flights\n",
		snap.TotalBoarded, len(snap.PerFlight))
	for i, n := range snap.PerFlight {
		fmt.Fprintf(&b, "  flight %d: %d passengers\n", i+1, n)
	}
	return r.append(b.String())
}

func (r *fileRecorder) append(line string) error {
	if r.closed.Load() {
		return cerror.ErrRecorderClosed.GenWithStackByArgs()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.bw.WriteString(line); err != nil {
		return cerror.WrapError(cerror.ErrRecorderWrite, err)
	}
	return nil
}

// Close implements Recorder.Close.
func (r *fileRecorder) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	err := multierr.Append(r.bw.Flush(), r.file.Sync())
	err = multierr.Append(err, r.file.Close())
	return cerror.WrapError(cerror.ErrRecorderWrite, err)
}
