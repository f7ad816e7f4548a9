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
	"sort"

	"github.com/000alen/nfasim/automaton"
)

// Analysis summarizes the structure of an automaton.
type Analysis struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	StateCount  int    `json:"states"`
	Transitions int    `json:"transitions"`
	Epsilons    int    `json:"epsilons"`
	Wildcards   int    `json:"wildcards"`

	// Alphabet is the sorted set of concrete symbols.
	Alphabet []string `json:"alphabet"`

	Accepting []automaton.StateID `json:"accepting"`

	// Terminal states have no outgoing transitions.
	Terminal []automaton.StateID `json:"terminal,omitempty"`

	// Unreachable states can't be reached from the start state.
	Unreachable []automaton.StateID `json:"unreachable,omitempty"`

	// Dead states can't reach an accepting state.
	Dead []automaton.StateID `json:"dead,omitempty"`

	// Branching states have a choice to make: an epsilon
	// transition, or more than one transition that can consume
	// the same rune.
	Branching []automaton.StateID `json:"branching,omitempty"`
}

// Analyze examines the automaton.
func Analyze(a *automaton.Automaton) *Analysis {
	states := a.States()

	an := &Analysis{
		Name:       a.Name(),
		Kind:       a.Kind().String(),
		StateCount: len(states),
		Accepting:  a.Accepting(),
	}

	alphabet := make(map[rune]bool)
	reverse := make(map[automaton.StateID][]automaton.StateID)

	for _, s := range states {
		if len(s.Transitions) == 0 {
			an.Terminal = append(an.Terminal, s.ID)
		}
		var (
			wildcards int
			symbols   = make(map[rune]int)
			branching bool
		)
		for _, t := range s.Transitions {
			an.Transitions++
			reverse[t.To] = append(reverse[t.To], s.ID)
			switch {
			case t.Label.IsEpsilon():
				an.Epsilons++
				branching = true
			case t.Label.IsWildcard():
				an.Wildcards++
				wildcards++
			default:
				alphabet[t.Label.Symbol] = true
				symbols[t.Label.Symbol]++
			}
		}
		if 1 < wildcards || (0 < wildcards && 0 < len(symbols)) {
			branching = true
		}
		for _, n := range symbols {
			if 1 < n {
				branching = true
			}
		}
		if branching {
			an.Branching = append(an.Branching, s.ID)
		}
	}

	for r := range alphabet {
		an.Alphabet = append(an.Alphabet, string(r))
	}
	sort.Strings(an.Alphabet)

	forward := reach([]automaton.StateID{a.Start()}, func(id automaton.StateID) []automaton.StateID {
		acc := make([]automaton.StateID, 0, 4)
		for _, t := range a.Transitions(id) {
			acc = append(acc, t.To)
		}
		return acc
	})
	backward := reach(a.Accepting(), func(id automaton.StateID) []automaton.StateID {
		return reverse[id]
	})

	for _, s := range states {
		if !forward[s.ID] {
			an.Unreachable = append(an.Unreachable, s.ID)
		}
		if !backward[s.ID] {
			an.Dead = append(an.Dead, s.ID)
		}
	}

	return an
}

// reach finds everything reachable from the given states.
func reach(from []automaton.StateID, next func(automaton.StateID) []automaton.StateID) map[automaton.StateID]bool {
	seen := make(map[automaton.StateID]bool)
	pending := append([]automaton.StateID(nil), from...)
	for 0 < len(pending) {
		id := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		pending = append(pending, next(id)...)
	}
	return seen
}
