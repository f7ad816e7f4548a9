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

// SampleNFA makes the nondeterministic automaton for the pattern
// `.*.*=.*`, which is the shape of the expression behind the
// well-known 2019 WAF outage.
//
// State 0 splits (via epsilon) into a branch that can eat anything
// forever (1) and a branch that looks for the '=' (2, 3).  State 4 is
// reached from 3 via epsilon and is the only accepting state.
func SampleNFA() *Automaton {
	a, err := New(NFA, "dotstar-eq-dotstar", []State{
		{
			ID:  0,
			Doc: "Start: split into both branches.",
			Transitions: []Transition{
				{To: 1, Label: Epsilon()},
				{To: 2, Label: Epsilon()},
			},
		},
		{
			ID:          1,
			Doc:         "First `.*`, which never gives up.",
			Transitions: []Transition{{To: 1, Label: Wildcard()}},
		},
		{
			ID:  2,
			Doc: "Second `.*`, looking for `=`.",
			Transitions: []Transition{
				{To: 2, Label: Wildcard()},
				{To: 3, Label: Symbol('=')},
			},
		},
		{
			ID:  3,
			Doc: "Trailing `.*`.",
			Transitions: []Transition{
				{To: 3, Label: Wildcard()},
				{To: 4, Label: Epsilon()},
			},
		},
		{
			ID:  4,
			Doc: "Match.",
		},
	}, 0, []StateID{4})
	if err != nil {
		// Well-formed by construction.
		panic(err)
	}
	return a.WithDoc("Nondeterministic automaton for `.*.*=.*`.\n\n" +
		"Every input position can keep several states active at once.")
}

// SampleDFA makes the deterministic automaton for `x=x+`, which
// accepts the same worst-case inputs (`x=xxx...`) as SampleNFA but
// with at most one active state.
func SampleDFA() *Automaton {
	a, err := New(DFA, "x-eq-x", []State{
		{ID: 0, Transitions: []Transition{{To: 1, Label: Symbol('x')}}},
		{ID: 1, Transitions: []Transition{{To: 2, Label: Symbol('=')}}},
		{ID: 2, Transitions: []Transition{{To: 3, Label: Symbol('x')}}},
		{ID: 3, Transitions: []Transition{{To: 3, Label: Symbol('x')}}},
	}, 0, []StateID{3})
	if err != nil {
		panic(err)
	}
	return a.WithDoc("Deterministic automaton for `x=x+`.\n\n" +
		"Each input symbol is looked at exactly once.")
}
