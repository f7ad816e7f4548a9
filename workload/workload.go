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

package workload

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Spec says how to make a Workload.
type Spec struct {
	// Requests is the number of requests to generate.
	Requests int `json:"requests" yaml:"requests"`

	Distribution DistSpec `json:"distribution" yaml:"distribution"`

	// Pattern names a built-in Pattern or "script".
	Pattern string `json:"pattern" yaml:"pattern"`

	// Script is the source for the "script" pattern.
	Script string `json:"script,omitempty" yaml:"script,omitempty"`

	// Seed, if not zero, makes generation reproducible.  When it's
	// zero, a seed is chosen at generation time.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// MaxRequests bounds Spec.Requests.
var MaxRequests = 1000000

// DefaultSpec is 100 requests with normal(20,5) sizes and
// alphanumeric inputs.
func DefaultSpec() Spec {
	return Spec{
		Requests: 100,
		Distribution: DistSpec{
			Kind:   "normal",
			Mean:   20,
			StdDev: 5,
		},
		Pattern: Alphanumeric.Name(),
	}
}

// Validate checks the Spec.  Any problem is reported as an
// *InvalidSpec.
func (s Spec) Validate() error {
	_, _, err := s.compile()
	return err
}

func (s Spec) compile() (Distribution, Pattern, error) {
	if s.Requests < 1 || MaxRequests < s.Requests {
		return nil, nil, &InvalidSpec{
			Field:   "requests",
			Problem: fmt.Sprintf("%d isn't in [1,%d]", s.Requests, MaxRequests),
		}
	}

	d, err := s.Distribution.Compile()
	if err != nil {
		return nil, nil, err
	}

	if strings.ToLower(s.Pattern) == ScriptPatternName {
		p, err := NewScript(s.Script)
		if err != nil {
			return nil, nil, err
		}
		return d, p, nil
	}

	p, err := lookupPattern(s.Pattern)
	if err != nil {
		return nil, nil, err
	}
	return d, p, nil
}

var fingerprintSpace = uuid.MustParse("6d1f4bb1-4c2e-4b8e-9d4f-3f0f5a2b7c10")

// Fingerprint identifies everything about the Spec that affects
// generation.
//
// The request count, the distribution and its parameters, the
// pattern, the script, and the seed all count.  Two Specs with the
// same Fingerprint produce the same Workload (given an explicit
// seed).
func (s Spec) Fingerprint() string {
	s.Pattern = strings.ToLower(s.Pattern)
	s.Distribution.Kind = strings.ToLower(s.Distribution.Kind)
	if s.Pattern != ScriptPatternName {
		s.Script = ""
	}
	d := s.Distribution
	key := fmt.Sprintf("%d|%s|%g|%g|%d|%d|%g|%s|%d|%s",
		s.Requests, d.Kind, d.Mean, d.StdDev, d.Min, d.Max, d.Lambda,
		s.Pattern, s.Seed, s.Script)
	return uuid.NewSHA1(fingerprintSpace, []byte(key)).String()
}

// Workload is a pre-drawn sequence of requests.
type Workload struct {
	Spec        Spec     `json:"spec"`
	Fingerprint string   `json:"fingerprint"`
	Seed        int64    `json:"seed"`
	Sizes       []int    `json:"sizes"`
	Inputs      []string `json:"inputs"`
}

// Len returns the number of requests.
func (w *Workload) Len() int {
	return len(w.Inputs)
}

// Generate draws all the sizes and then renders an input for each
// one.
func Generate(ctx context.Context, s Spec) (*Workload, error) {
	d, p, err := s.compile()
	if err != nil {
		return nil, err
	}

	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w := &Workload{
		Spec:        s,
		Fingerprint: s.Fingerprint(),
		Seed:        seed,
		Sizes:       make([]int, s.Requests),
		Inputs:      make([]string, s.Requests),
	}

	for i := range w.Sizes {
		w.Sizes[i] = d.Draw(rng)
	}

	for i, size := range w.Sizes {
		if w.Inputs[i], err = p.Render(ctx, size, rng); err != nil {
			return nil, fmt.Errorf("rendering request %d: %w", i, err)
		}
	}

	return w, nil
}
