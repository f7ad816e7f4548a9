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
	"github.com/000alen/nfasim/engine"
	"github.com/000alen/nfasim/ledger"
)

// KindMetrics is the state of one engine's ledger right after a
// request.
type KindMetrics struct {
	// Compute, Memory, and IO are fractions of capacity rounded to
	// three decimal places.
	Compute float64 `json:"compute"`
	Memory  float64 `json:"memory"`
	IO      float64 `json:"io"`

	// Dropped is the cumulative number of dropped requests.
	Dropped int `json:"dropped"`

	// AvgLatencyMs is the mean latency over all requests processed
	// so far in the run.
	AvgLatencyMs float64 `json:"avgLatencyMs"`

	// Steps is what this request took.
	Steps int `json:"steps"`

	// Admitted reports whether this request was admitted.
	Admitted bool `json:"admitted"`
}

// MetricRecord is one entry in a Stream.  There is exactly one
// MetricRecord per processed request.
type MetricRecord struct {
	// Seq starts at 1 in each run.
	Seq int `json:"seq"`

	NFA KindMetrics `json:"nfa"`
	DFA KindMetrics `json:"dfa"`
}

// latency accumulates the mean latency for one engine.
type latency struct {
	n     int
	total float64
}

func (l *latency) add(x *engine.Execution) float64 {
	l.n++
	l.total += float64(x.Latency.Nanoseconds()) / 1e6
	return l.total / float64(l.n)
}

func (l *latency) mean() float64 {
	if l.n == 0 {
		return 0
	}
	return l.total / float64(l.n)
}

func kindMetrics(s ledger.Snapshot, x *engine.Execution, v ledger.Verdict, avg float64) KindMetrics {
	return KindMetrics{
		Compute:      s.Usage.Compute,
		Memory:       s.Usage.Memory,
		IO:           s.Usage.IO,
		Dropped:      s.Dropped(),
		AvgLatencyMs: avg,
		Steps:        x.Steps,
		Admitted:     !v.Dropped(),
	}
}
