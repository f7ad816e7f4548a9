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

// Package ledger does resource accounting and admission control.
//
// Each request costs resources in three dimensions, derived from the
// number of steps an engine took.  A Ledger admits a request only if
// the cost fits under the capacity and a random failure doesn't
// strike.  Nothing is ever released during a run.
package ledger

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// Resources is an amount of each resource dimension.
type Resources struct {
	Compute int64 `json:"compute"`
	Memory  int64 `json:"memory"`
	IO      int64 `json:"io"`
}

func (r Resources) Add(s Resources) Resources {
	return Resources{
		Compute: r.Compute + s.Compute,
		Memory:  r.Memory + s.Memory,
		IO:      r.IO + s.IO,
	}
}

// Cost is what a request that took the given number of steps
// charges: compute is the steps, memory is half, and IO is a third
// (integer division).
func Cost(steps int) Resources {
	s := int64(steps)
	return Resources{
		Compute: s,
		Memory:  s / 2,
		IO:      s / 3,
	}
}

// Capacity gives the limit for each dimension.
type Capacity struct {
	Compute float64 `json:"compute" yaml:"compute"`
	Memory  float64 `json:"memory" yaml:"memory"`
	IO      float64 `json:"io" yaml:"io"`
}

// BadCapacity reports a limit that isn't a non-negative number.
type BadCapacity struct {
	Dimension string
	Value     float64
}

func (e *BadCapacity) Error() string {
	return fmt.Sprintf("capacity %s %g isn't a non-negative number", e.Dimension, e.Value)
}

func (c Capacity) Validate() error {
	for _, d := range []struct {
		name string
		x    float64
	}{
		{"compute", c.Compute},
		{"memory", c.Memory},
		{"io", c.IO},
	} {
		if math.IsNaN(d.x) || math.IsInf(d.x, 0) || d.x < 0 {
			return &BadCapacity{
				Dimension: d.name,
				Value:     d.x,
			}
		}
	}
	return nil
}

// exceeded reports whether the resources go over any limit.
func (c Capacity) exceeded(r Resources) bool {
	return c.Compute < float64(r.Compute) ||
		c.Memory < float64(r.Memory) ||
		c.IO < float64(r.IO)
}

// Usage is the fraction of capacity used in each dimension.
type Usage struct {
	Compute float64 `json:"compute"`
	Memory  float64 `json:"memory"`
	IO      float64 `json:"io"`
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func fraction(used int64, limit float64) float64 {
	if limit == 0 {
		return 0
	}
	return round3(float64(used) / limit)
}

// Verdict is the outcome of an admission decision.
type Verdict int

const (
	Accepted Verdict = iota
	CapacityDrop
	FailureDrop
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case CapacityDrop:
		return "capacity"
	case FailureDrop:
		return "failure"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Dropped reports whether the request was not admitted.
func (v Verdict) Dropped() bool {
	return v != Accepted
}

// ProbabilityFromPercent converts a percentage to a probability in
// [0,1].  Out-of-range percentages are clamped, and NaN is zero.
func ProbabilityFromPercent(pct float64) float64 {
	return clamp(pct / 100)
}

func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case 1 < p:
		return 1
	default:
		return p
	}
}

// Ledger tracks the resources consumed by one kind of engine.
//
// Usage only grows during a run.  Reset starts over.
type Ledger struct {
	sync.Mutex

	capacity Capacity
	failure  float64
	rng      *rand.Rand

	used          Resources
	accepted      int
	capacityDrops int
	failureDrops  int
}

// New makes a Ledger.
//
// The failure probability is clamped to [0,1].  The rng is used only
// for failure draws, so a Ledger with its own seeded rng makes
// reproducible decisions.
func New(capacity Capacity, failure float64, rng *rand.Rand) *Ledger {
	return &Ledger{
		capacity: capacity,
		failure:  clamp(failure),
		rng:      rng,
	}
}

// Admit decides whether a request that took the given number of steps
// is admitted.
//
// The capacity check comes first: if the cost would take any
// dimension over its limit, the request is a CapacityDrop.  Otherwise
// a Bernoulli draw at the failure probability might make it a
// FailureDrop.  A dropped request charges nothing.  An Accepted one
// is charged its full Cost.
func (l *Ledger) Admit(steps int) Verdict {
	l.Lock()
	defer l.Unlock()

	next := l.used.Add(Cost(steps))
	if l.capacity.exceeded(next) {
		l.capacityDrops++
		return CapacityDrop
	}

	if 0 < l.failure && l.rng.Float64() < l.failure {
		l.failureDrops++
		return FailureDrop
	}

	l.used = next
	l.accepted++
	return Accepted
}

// Reset clears all usage and counters.
func (l *Ledger) Reset() {
	l.Lock()
	l.used = Resources{}
	l.accepted = 0
	l.capacityDrops = 0
	l.failureDrops = 0
	l.Unlock()
}

func (l *Ledger) Capacity() Capacity {
	return l.capacity
}

// FailureProbability is in [0,1].
func (l *Ledger) FailureProbability() float64 {
	return l.failure
}

// Snapshot is a consistent view of a Ledger.
type Snapshot struct {
	Used          Resources `json:"used"`
	Usage         Usage     `json:"usage"`
	Accepted      int       `json:"accepted"`
	CapacityDrops int       `json:"capacityDrops"`
	FailureDrops  int       `json:"failureDrops"`
}

// Dropped counts both kinds of drops.
func (s Snapshot) Dropped() int {
	return s.CapacityDrops + s.FailureDrops
}

func (l *Ledger) Snapshot() Snapshot {
	l.Lock()
	defer l.Unlock()
	return Snapshot{
		Used: l.used,
		Usage: Usage{
			Compute: fraction(l.used.Compute, l.capacity.Compute),
			Memory:  fraction(l.used.Memory, l.capacity.Memory),
			IO:      fraction(l.used.IO, l.capacity.IO),
		},
		Accepted:      l.accepted,
		CapacityDrops: l.capacityDrops,
		FailureDrops:  l.failureDrops,
	}
}

// Usage is the fraction of capacity used in each dimension, rounded
// to three decimal places.  A dimension with a zero limit has zero
// usage.
func (l *Ledger) Usage() Usage {
	return l.Snapshot().Usage
}

// Dropped counts both kinds of drops.
func (l *Ledger) Dropped() int {
	return l.Snapshot().Dropped()
}
