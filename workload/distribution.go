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
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Distribution draws request sizes.
//
// Every draw is at least 1.
type Distribution interface {
	Draw(rng *rand.Rand) int
	String() string
}

func floor1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

type Normal struct {
	Mean   float64
	StdDev float64
}

func (d Normal) Draw(rng *rand.Rand) int {
	return floor1(int(math.Round(rng.NormFloat64()*d.StdDev + d.Mean)))
}

func (d Normal) String() string {
	return fmt.Sprintf("normal(%g,%g)", d.Mean, d.StdDev)
}

// Uniform draws from [Min,Max].
type Uniform struct {
	Min int
	Max int
}

func (d Uniform) Draw(rng *rand.Rand) int {
	return floor1(d.Min + rng.Intn(d.Max-d.Min+1))
}

func (d Uniform) String() string {
	return fmt.Sprintf("uniform(%d,%d)", d.Min, d.Max)
}

type Poisson struct {
	Lambda float64
}

// poissonNormalCutoff is where Draw switches from Knuth's method to a
// normal approximation.
const poissonNormalCutoff = 30

func (d Poisson) Draw(rng *rand.Rand) int {
	if poissonNormalCutoff <= d.Lambda {
		return floor1(int(math.Round(d.Lambda + math.Sqrt(d.Lambda)*rng.NormFloat64())))
	}
	var (
		limit = math.Exp(-d.Lambda)
		p     = 1.0
		k     = 0
	)
	for {
		p *= rng.Float64()
		if p <= limit {
			break
		}
		k++
	}
	return floor1(k)
}

func (d Poisson) String() string {
	return fmt.Sprintf("poisson(%g)", d.Lambda)
}

// DistSpec is the serializable form of a Distribution.
//
// Only the parameters that the Kind uses matter.
type DistSpec struct {
	Kind   string  `json:"kind" yaml:"kind"`
	Mean   float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	StdDev float64 `json:"stddev,omitempty" yaml:"stddev,omitempty"`
	Min    int     `json:"min,omitempty" yaml:"min,omitempty"`
	Max    int     `json:"max,omitempty" yaml:"max,omitempty"`
	Lambda float64 `json:"lambda,omitempty" yaml:"lambda,omitempty"`
}

// MaxParam bounds distribution parameters so that a single request
// can't be absurdly large.
var MaxParam = 100000.0

// Compile validates the DistSpec and makes the Distribution.
func (s DistSpec) Compile() (Distribution, error) {
	bad := func(field, problem string) error {
		return &InvalidSpec{
			Field:   "distribution." + field,
			Problem: problem,
		}
	}
	bounded := func(field string, x float64) error {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 || MaxParam < x {
			return bad(field, fmt.Sprintf("%g isn't in [0,%g]", x, MaxParam))
		}
		return nil
	}

	switch strings.ToLower(s.Kind) {
	case "normal", "":
		if err := bounded("mean", s.Mean); err != nil {
			return nil, err
		}
		if err := bounded("stddev", s.StdDev); err != nil {
			return nil, err
		}
		return Normal{Mean: s.Mean, StdDev: s.StdDev}, nil
	case "uniform":
		if err := bounded("min", float64(s.Min)); err != nil {
			return nil, err
		}
		if err := bounded("max", float64(s.Max)); err != nil {
			return nil, err
		}
		if s.Max < s.Min {
			return nil, bad("max", "less than min")
		}
		return Uniform{Min: s.Min, Max: s.Max}, nil
	case "poisson":
		if err := bounded("lambda", s.Lambda); err != nil {
			return nil, err
		}
		if s.Lambda == 0 {
			return nil, bad("lambda", "must be positive")
		}
		return Poisson{Lambda: s.Lambda}, nil
	default:
		return nil, bad("kind", fmt.Sprintf("unknown distribution '%s'", s.Kind))
	}
}
