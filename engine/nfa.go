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

package engine

import (
	"time"

	"github.com/000alen/nfasim/automaton"
)

// NFA is the breadth-first active-set Engine.
//
// No subset construction is done, and closures aren't cached.
type NFA struct {
	a *automaton.Automaton
}

// NewNFA makes an NFA engine.
//
// Any Automaton works, including a DFA, which is just an NFA with no
// choices.
func NewNFA(a *automaton.Automaton) *NFA {
	return &NFA{a: a}
}

func (e *NFA) Kind() automaton.Kind {
	return automaton.NFA
}

// stateSet is an insertion-ordered set of states.
type stateSet struct {
	order []automaton.StateID
	have  map[automaton.StateID]bool
}

func newStateSet(n int) *stateSet {
	return &stateSet{
		order: make([]automaton.StateID, 0, n),
		have:  make(map[automaton.StateID]bool, n),
	}
}

func (s *stateSet) add(id automaton.StateID) bool {
	if s.have[id] {
		return false
	}
	s.have[id] = true
	s.order = append(s.order, id)
	return true
}

func (s *stateSet) empty() bool {
	return len(s.order) == 0
}

// closure adds every state reachable from the set by epsilon
// transitions.
func (e *NFA) closure(s *stateSet) *stateSet {
	for i := 0; i < len(s.order); i++ {
		for _, t := range e.a.Transitions(s.order[i]) {
			if t.Label.IsEpsilon() {
				s.add(t.To)
			}
		}
	}
	return s
}

// Exec runs the input.
//
// At each input position, the epsilon closure of the active set is
// resolved, and then every state in that closure follows its
// transitions that match the current rune (exactly or by wildcard).
// Each state expanded at a position costs one step, so Steps grows
// with the number of live branches as well as with the length of the
// input.
//
// If the active set becomes empty, the execution stops and the input
// is rejected.
func (e *NFA) Exec(input string) *Execution {
	then := time.Now()

	x := &Execution{
		Kind: automaton.NFA,
	}

	n := e.a.Len()
	active := newStateSet(n)
	active.add(e.a.Start())

	for _, r := range input {
		active = e.closure(active)
		next := newStateSet(n)
		for _, id := range active.order {
			x.Steps++
			for _, t := range e.a.Transitions(id) {
				if t.Label.Matches(r) {
					next.add(t.To)
				}
			}
		}
		x.Consumed++
		active = next
		if active.empty() {
			break
		}
	}

	for _, id := range e.closure(active).order {
		if e.a.IsAccepting(id) {
			x.Accepted = true
			break
		}
	}
	x.Latency = time.Since(then)

	return x
}
