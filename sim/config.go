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
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"time"

	"github.com/000alen/nfasim/ledger"
	"github.com/000alen/nfasim/workload"

	"gopkg.in/yaml.v2"
)

// Duration is a time.Duration that reads and writes strings like
// "10ms" in JSON and YAML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(bs []byte) error {
	x, err := time.ParseDuration(string(bs))
	if err != nil {
		return err
	}
	d.Duration = x
	return nil
}

// Config is everything that determines a run.
type Config struct {
	// Requests is the number of requests in a run.
	Requests int `json:"requests" yaml:"requests"`

	Capacity ledger.Capacity `json:"capacity" yaml:"capacity"`

	// Distribution draws request sizes.
	Distribution workload.DistSpec `json:"distribution" yaml:"distribution"`

	// Pattern renders sizes into inputs.  See workload.Patterns.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Script is the source for the "script" Pattern.
	Script string `json:"script,omitempty" yaml:"script,omitempty"`

	// NFAFailurePercent and DFAFailurePercent are failure
	// probabilities given as percentages.  Values outside [0,100]
	// are clamped.
	NFAFailurePercent float64 `json:"nfaFailurePercent" yaml:"nfaFailurePercent"`
	DFAFailurePercent float64 `json:"dfaFailurePercent" yaml:"dfaFailurePercent"`

	// Pacing is the delay after each request.
	Pacing Duration `json:"pacing" yaml:"pacing"`

	// PollInterval is how often a paused run checks whether it
	// should resume.
	PollInterval Duration `json:"pollInterval" yaml:"pollInterval"`

	// Seed, if not zero, makes workloads and failure draws
	// reproducible.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Parallel evaluates the two engines concurrently for each
	// request.
	Parallel bool `json:"parallel,omitempty" yaml:"parallel,omitempty"`
}

// DefaultConfig is 100 requests, capacity 1000 in each dimension,
// normal(20,5) alphanumeric inputs, and failure rates of 5% (NFA) and
// 3% (DFA).
func DefaultConfig() Config {
	ws := workload.DefaultSpec()
	return Config{
		Requests: ws.Requests,
		Capacity: ledger.Capacity{
			Compute: 1000,
			Memory:  1000,
			IO:      1000,
		},
		Distribution:      ws.Distribution,
		Pattern:           ws.Pattern,
		NFAFailurePercent: 5,
		DFAFailurePercent: 3,
		Pacing:            Duration{10 * time.Millisecond},
		PollInterval:      Duration{50 * time.Millisecond},
	}
}

// WorkloadSpec extracts the part of the Config that determines the
// Workload.
func (c Config) WorkloadSpec() workload.Spec {
	return workload.Spec{
		Requests:     c.Requests,
		Distribution: c.Distribution,
		Pattern:      c.Pattern,
		Script:       c.Script,
		Seed:         c.Seed,
	}
}

// NFAFailureProbability is NFAFailurePercent as a probability.
func (c Config) NFAFailureProbability() float64 {
	return ledger.ProbabilityFromPercent(c.NFAFailurePercent)
}

// DFAFailureProbability is DFAFailurePercent as a probability.
func (c Config) DFAFailureProbability() float64 {
	return ledger.ProbabilityFromPercent(c.DFAFailurePercent)
}

// Validate checks the Config.  Any problem is reported as an
// *InvalidConfiguration.
func (c Config) Validate() error {
	if err := c.Capacity.Validate(); err != nil {
		var bad *ledger.BadCapacity
		if errors.As(err, &bad) {
			return &InvalidConfiguration{
				Field:   "capacity." + bad.Dimension,
				Problem: err.Error(),
			}
		}
		return &InvalidConfiguration{
			Field:   "capacity",
			Problem: err.Error(),
		}
	}

	if err := c.WorkloadSpec().Validate(); err != nil {
		var bad *workload.InvalidSpec
		if errors.As(err, &bad) {
			return &InvalidConfiguration{
				Field:   bad.Field,
				Problem: bad.Problem,
			}
		}
		return &InvalidConfiguration{
			Field:   "workload",
			Problem: err.Error(),
		}
	}

	for _, p := range []struct {
		field string
		x     float64
	}{
		{"nfaFailurePercent", c.NFAFailurePercent},
		{"dfaFailurePercent", c.DFAFailurePercent},
	} {
		if math.IsNaN(p.x) {
			return &InvalidConfiguration{
				Field:   p.field,
				Problem: "not a number",
			}
		}
	}

	if c.Pacing.Duration < 0 {
		return &InvalidConfiguration{
			Field:   "pacing",
			Problem: fmt.Sprintf("%s is negative", c.Pacing),
		}
	}

	if c.PollInterval.Duration <= 0 {
		return &InvalidConfiguration{
			Field:   "pollInterval",
			Problem: fmt.Sprintf("%s isn't positive", c.PollInterval),
		}
	}

	return nil
}

// ParseConfig reads YAML.  Fields that aren't given keep their
// DefaultConfig values.
func ParseConfig(bs []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(bs, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadConfig reads and parses a YAML file.
func LoadConfig(filename string) (*Config, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(bs)
}
