/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sim

import (
	"log"
	"time"

	"github.com/000alen/nfasim/ledger"
)

// RunInfo describes a run.
type RunInfo struct {
	ID          string    `json:"id"`
	Config      Config    `json:"config"`
	Fingerprint string    `json:"fingerprint"`
	Seed        int64     `json:"seed"`
	Requests    int       `json:"requests"`
	Started     time.Time `json:"started"`
}

// Summary is the state of a run, which might not be over.
type Summary struct {
	RunInfo

	State     RunState  `json:"state"`
	Processed int       `json:"processed"`
	Ended     time.Time `json:"ended,omitempty"`

	NFA ledger.Snapshot `json:"nfa"`
	DFA ledger.Snapshot `json:"dfa"`

	NFAAvgLatencyMs float64 `json:"nfaAvgLatencyMs"`
	DFAAvgLatencyMs float64 `json:"dfaAvgLatencyMs"`
}

// Observer is told about what a Controller does.
//
// Observer methods are called synchronously from the run's
// goroutine, so they should be quick.
type Observer interface {
	RunStarted(info RunInfo)
	Recorded(info RunInfo, r MetricRecord)
	RunEnded(s Summary)
}

// Observers is an Observer that calls each of its elements in order.
type Observers []Observer

func (os Observers) RunStarted(info RunInfo) {
	for _, o := range os {
		o.RunStarted(info)
	}
}

func (os Observers) Recorded(info RunInfo, r MetricRecord) {
	for _, o := range os {
		o.Recorded(info, r)
	}
}

func (os Observers) RunEnded(s Summary) {
	for _, o := range os {
		o.RunEnded(s)
	}
}

// LogObserver writes lifecycle events with log.Printf.
//
// If Every is positive, every Every-th record is logged, too.
type LogObserver struct {
	Every int
}

func (o *LogObserver) RunStarted(info RunInfo) {
	log.Printf("run %s starting: %d requests (workload %s seed %d)",
		info.ID, info.Requests, info.Fingerprint, info.Seed)
}

func (o *LogObserver) Recorded(info RunInfo, r MetricRecord) {
	if o.Every <= 0 || r.Seq%o.Every != 0 {
		return
	}
	log.Printf("run %s seq %d nfa %.3f/%.3f/%.3f dropped %d dfa %.3f/%.3f/%.3f dropped %d",
		info.ID, r.Seq,
		r.NFA.Compute, r.NFA.Memory, r.NFA.IO, r.NFA.Dropped,
		r.DFA.Compute, r.DFA.Memory, r.DFA.IO, r.DFA.Dropped)
}

func (o *LogObserver) RunEnded(s Summary) {
	log.Printf("run %s %s after %d requests (nfa dropped %d, dfa dropped %d) in %s",
		s.ID, s.State, s.Processed, s.NFA.Dropped(), s.DFA.Dropped(), s.Ended.Sub(s.Started))
}
