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

package tools

import (
	"fmt"
	"io/ioutil"

	"github.com/000alen/nfasim/automaton"
	"github.com/000alen/nfasim/engine"

	"github.com/jsccast/yaml"
)

// Expectation says what an automaton should do with an input.
type Expectation struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	Input string `json:"input" yaml:"input"`

	Accept bool `json:"accept" yaml:"accept"`

	// MaxSteps, if positive, is the most steps the execution may
	// take.
	MaxSteps int `json:"maxSteps,omitempty" yaml:"maxSteps,omitempty"`
}

// Suite is a set of Expectations for one automaton.
type Suite struct {
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Automaton is the automaton's spec.
	Automaton *automaton.Spec `json:"automaton" yaml:"automaton"`

	Expectations []Expectation `json:"expectations" yaml:"expectations"`
}

// Failure reports an Expectation that wasn't met.
type Failure struct {
	Expectation Expectation       `json:"expectation"`
	Execution   *engine.Execution `json:"execution"`
	Problem     string            `json:"problem"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("input %q: %s", f.Expectation.Input, f.Problem)
}

// ReadSuite reads a YAML (or JSON) Suite.
func ReadSuite(filename string) (*Suite, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var s Suite
	if err := yaml.Unmarshal(bs, &s); err != nil {
		return nil, err
	}
	if s.Automaton == nil {
		return nil, fmt.Errorf("suite %s has no automaton", filename)
	}
	return &s, nil
}

// Check compiles the Suite's automaton and checks each Expectation.
func (s *Suite) Check() ([]Failure, error) {
	a, err := s.Automaton.Compile()
	if err != nil {
		return nil, err
	}
	e, err := engine.For(a)
	if err != nil {
		return nil, err
	}
	return Check(e, s.Expectations), nil
}

// Check runs each input and returns the Expectations that weren't met.
func Check(e engine.Engine, xs []Expectation) []Failure {
	var acc []Failure
	for _, x := range xs {
		exe := e.Exec(x.Input)
		var problem string
		switch {
		case exe.Accepted != x.Accept:
			problem = fmt.Sprintf("accepted %v, expected %v", exe.Accepted, x.Accept)
		case 0 < x.MaxSteps && x.MaxSteps < exe.Steps:
			problem = fmt.Sprintf("took %d steps, expected at most %d", exe.Steps, x.MaxSteps)
		default:
			continue
		}
		acc = append(acc, Failure{
			Expectation: x,
			Execution:   exe,
			Problem:     problem,
		})
	}
	return acc
}
