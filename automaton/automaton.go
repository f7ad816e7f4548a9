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
	"fmt"
	"sort"
	"strings"
)

// Kind says whether an Automaton is nondeterministic or
// deterministic.
type Kind int

const (
	NFA Kind = iota
	DFA
)

// Kinds lists every Kind in the order that reports use.
var Kinds = []Kind{NFA, DFA}

func (k Kind) String() string {
	switch k {
	case NFA:
		return "nfa"
	case DFA:
		return "dfa"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.  Case doesn't matter.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "nfa", "":
		return NFA, nil
	case "dfa":
		return DFA, nil
	default:
		return 0, fmt.Errorf("unknown automaton kind '%s'", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(bs []byte) error {
	parsed, err := ParseKind(string(bs))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// StateID identifies a State within an Automaton.
type StateID int

// Transition is a labeled edge to another State.
type Transition struct {
	To    StateID `json:"to" yaml:"to"`
	Label Label   `json:"label" yaml:"label"`
}

// State is a node in an Automaton.
type State struct {
	ID          StateID      `json:"id" yaml:"id"`
	Doc         string       `json:"doc,omitempty" yaml:",omitempty"`
	Transitions []Transition `json:"transitions,omitempty" yaml:",omitempty"`
}

func (s *State) copy() *State {
	ts := make([]Transition, len(s.Transitions))
	copy(ts, s.Transitions)
	return &State{
		ID:          s.ID,
		Doc:         s.Doc,
		Transitions: ts,
	}
}

// Automaton is an immutable graph of States with a start State and a
// set of accepting States.
//
// An Automaton has no exported mutators, so a single instance can be
// shared by any number of concurrent engine executions.
type Automaton struct {
	name      string
	doc       string
	kind      Kind
	order     []StateID
	states    map[StateID]*State
	start     StateID
	accepting map[StateID]bool
}

// New validates the given states and makes an Automaton.
//
// The states are copied, so the caller can do whatever it wants with
// the given slice afterwards.
//
// Any problem results in a *MalformedAutomaton.
func New(kind Kind, name string, states []State, start StateID, accepting []StateID) (*Automaton, error) {
	malformed := func(id StateID, p Problem, detail string) error {
		return &MalformedAutomaton{
			Automaton: name,
			State:     id,
			Problem:   p,
			Detail:    detail,
		}
	}

	if kind != NFA && kind != DFA {
		return nil, malformed(start, UnknownKind, kind.String())
	}

	if len(states) == 0 {
		return nil, malformed(start, NoStates, "")
	}

	a := &Automaton{
		name:      name,
		kind:      kind,
		order:     make([]StateID, 0, len(states)),
		states:    make(map[StateID]*State, len(states)),
		start:     start,
		accepting: make(map[StateID]bool, len(accepting)),
	}

	for i := range states {
		s := states[i].copy()
		if _, have := a.states[s.ID]; have {
			return nil, malformed(s.ID, DuplicateState, "")
		}
		a.states[s.ID] = s
		a.order = append(a.order, s.ID)
	}

	if _, have := a.states[start]; !have {
		return nil, malformed(start, UnknownStart, "")
	}

	for _, id := range accepting {
		if _, have := a.states[id]; !have {
			return nil, malformed(id, UnknownAccepting, "")
		}
		a.accepting[id] = true
	}

	for _, id := range a.order {
		s := a.states[id]
		seen := make(map[rune]bool, len(s.Transitions))
		for _, t := range s.Transitions {
			if _, have := a.states[t.To]; !have {
				return nil, malformed(id, UnknownTarget, fmt.Sprintf("%d", t.To))
			}
			if kind != DFA || t.Label.Kind != SymbolLabel {
				continue
			}
			if seen[t.Label.Symbol] {
				return nil, malformed(id, Nondeterministic, t.Label.String())
			}
			seen[t.Label.Symbol] = true
		}
	}

	return a, nil
}

// WithDoc returns a copy of the Automaton with the given
// documentation.
func (a *Automaton) WithDoc(doc string) *Automaton {
	acc := *a
	acc.doc = doc
	return &acc
}

func (a *Automaton) Name() string {
	return a.name
}

// Doc is optional Markdown documentation.
func (a *Automaton) Doc() string {
	return a.doc
}

func (a *Automaton) Kind() Kind {
	return a.kind
}

func (a *Automaton) Start() StateID {
	return a.start
}

// Len returns the number of States.
func (a *Automaton) Len() int {
	return len(a.order)
}

// States returns copies of the States in construction order.
func (a *Automaton) States() []State {
	acc := make([]State, 0, len(a.order))
	for _, id := range a.order {
		acc = append(acc, *a.states[id].copy())
	}
	return acc
}

// State returns a copy of the State with the given id.
func (a *Automaton) State(id StateID) (State, bool) {
	s, have := a.states[id]
	if !have {
		return State{}, false
	}
	return *s.copy(), true
}

// Transitions returns the outgoing transitions for the given State.
//
// The returned slice belongs to the Automaton.  Don't modify it.
// Engines use this method on their hot path, which is why there's
// no copy.
func (a *Automaton) Transitions(id StateID) []Transition {
	s, have := a.states[id]
	if !have {
		return nil
	}
	return s.Transitions
}

func (a *Automaton) IsAccepting(id StateID) bool {
	return a.accepting[id]
}

// Accepting returns the accepting States in ascending order.
func (a *Automaton) Accepting() []StateID {
	acc := make([]StateID, 0, len(a.accepting))
	for id := range a.accepting {
		acc = append(acc, id)
	}
	sort.Slice(acc, func(i, j int) bool { return acc[i] < acc[j] })
	return acc
}

// Next finds the transition from the given State labeled with exactly
// the given rune.
//
// Wildcard and epsilon transitions are not considered.  For a DFA,
// there is at most one such transition.  For an NFA, the first one
// wins.
func (a *Automaton) Next(id StateID, r rune) (StateID, bool) {
	for _, t := range a.Transitions(id) {
		if t.Label.Kind == SymbolLabel && t.Label.Symbol == r {
			return t.To, true
		}
	}
	return 0, false
}
