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

package automaton

import (
	"io/ioutil"

	"github.com/jsccast/yaml"
)

// Spec is the serializable form of an Automaton.
//
// Labels and kinds are plain strings here (see ParseLabel and
// ParseKind) so that spec files stay easy to write by hand.  Since
// YAML is a superset of JSON, a Spec can be written in either.
type Spec struct {
	Name      string      `json:"name" yaml:"name"`
	Doc       string      `json:"doc,omitempty" yaml:"doc,omitempty"`
	Kind      string      `json:"kind" yaml:"kind"`
	Start     int         `json:"start" yaml:"start"`
	Accepting []int       `json:"accepting" yaml:"accepting"`
	States    []StateSpec `json:"states" yaml:"states"`
}

type StateSpec struct {
	ID          int              `json:"id" yaml:"id"`
	Doc         string           `json:"doc,omitempty" yaml:"doc,omitempty"`
	Transitions []TransitionSpec `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

type TransitionSpec struct {
	To    int    `json:"to" yaml:"to"`
	Label string `json:"label" yaml:"label"`
}

// ParseSpec parses YAML (or JSON).
func ParseSpec(bs []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(bs, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ReadSpecFile reads and parses the given file.
func ReadSpecFile(filename string) (*Spec, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseSpec(bs)
}

// Compile makes an Automaton from this Spec.
//
// A bad label or kind results in a *MalformedAutomaton just like any
// structural problem.
func (spec *Spec) Compile() (*Automaton, error) {
	kind, err := ParseKind(spec.Kind)
	if err != nil {
		return nil, &MalformedAutomaton{
			Automaton: spec.Name,
			State:     StateID(spec.Start),
			Problem:   UnknownKind,
			Detail:    spec.Kind,
		}
	}

	states := make([]State, len(spec.States))
	for i, ss := range spec.States {
		ts := make([]Transition, len(ss.Transitions))
		for j, t := range ss.Transitions {
			l, err := ParseLabel(t.Label)
			if err != nil {
				return nil, &MalformedAutomaton{
					Automaton: spec.Name,
					State:     StateID(ss.ID),
					Problem:   BadTransitionLabel,
					Detail:    err.Error(),
				}
			}
			ts[j] = Transition{
				To:    StateID(t.To),
				Label: l,
			}
		}
		states[i] = State{
			ID:          StateID(ss.ID),
			Doc:         ss.Doc,
			Transitions: ts,
		}
	}

	accepting := make([]StateID, len(spec.Accepting))
	for i, id := range spec.Accepting {
		accepting[i] = StateID(id)
	}

	a, err := New(kind, spec.Name, states, StateID(spec.Start), accepting)
	if err != nil {
		return nil, err
	}
	if spec.Doc != "" {
		a = a.WithDoc(spec.Doc)
	}
	return a, nil
}

// Spec renders the Automaton back into its serializable form.
func (a *Automaton) Spec() *Spec {
	spec := &Spec{
		Name:   a.name,
		Doc:    a.doc,
		Kind:   a.kind.String(),
		Start:  int(a.start),
		States: make([]StateSpec, 0, len(a.order)),
	}
	for _, id := range a.Accepting() {
		spec.Accepting = append(spec.Accepting, int(id))
	}
	for _, id := range a.order {
		s := a.states[id]
		ss := StateSpec{
			ID:  int(s.ID),
			Doc: s.Doc,
		}
		for _, t := range s.Transitions {
			ss.Transitions = append(ss.Transitions, TransitionSpec{
				To:    int(t.To),
				Label: t.Label.String(),
			})
		}
		spec.States = append(spec.States, ss)
	}
	return spec
}

// Marshal renders the Automaton as YAML.
func (a *Automaton) Marshal() ([]byte, error) {
	return yaml.Marshal(a.Spec())
}
