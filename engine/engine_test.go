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
	"errors"
	"strings"
	"testing"

	"github.com/000alen/nfasim/automaton"
	. "github.com/000alen/nfasim/util/testutil"
)

func worst(size int) string {
	s := "x=" + strings.Repeat("x", size)
	return s[:size]
}

func TestDFASimple(t *testing.T) {
	e, err := NewDFA(automaton.SampleDFA())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		input    string
		steps    int
		accepted bool
	}{
		{"", 0, false},
		{"x", 1, false},
		{"x=", 2, false},
		{"x=x", 3, true},
		{"x=xxxx", 6, true},
		{"=x", 0, false},
		{"x=x=", 3, false},
		{"xx=x", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			x := e.Exec(tt.input)
			if x.Steps != tt.steps {
				t.Fatalf("steps: %d != %d", x.Steps, tt.steps)
			}
			if x.Steps != x.Consumed {
				t.Fatal(JS(x))
			}
			if x.Accepted != tt.accepted {
				t.Fatal(JS(x))
			}
			if x.Kind != automaton.DFA {
				t.Fatal(x.Kind)
			}
		})
	}
}

func TestDFAWrongKind(t *testing.T) {
	_, err := NewDFA(automaton.SampleNFA())
	var wk *WrongKind
	if !errors.As(err, &wk) {
		t.Fatal(err)
	}
	if wk.Got != automaton.NFA {
		t.Fatal(wk.Got)
	}
}

func TestNFASimple(t *testing.T) {
	e := NewNFA(automaton.SampleNFA())

	tests := []struct {
		input    string
		steps    int
		consumed int
		accepted bool
	}{
		{"", 0, 0, false},
		{"=", 3, 1, true},
		{"x=", 5, 2, true},
		{"x=x", 9, 3, true},
		{"abc", 7, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			x := e.Exec(tt.input)
			if x.Steps != tt.steps {
				t.Fatalf("steps: %d != %d", x.Steps, tt.steps)
			}
			if x.Consumed != tt.consumed {
				t.Fatal(JS(x))
			}
			if x.Accepted != tt.accepted {
				t.Fatal(JS(x))
			}
		})
	}
}

func TestNFADeadEnd(t *testing.T) {
	a, err := automaton.New(automaton.NFA, "a", []automaton.State{
		{ID: 0, Transitions: []automaton.Transition{{To: 1, Label: automaton.Symbol('a')}}},
		{ID: 1},
	}, 0, []automaton.StateID{1})
	if err != nil {
		t.Fatal(err)
	}
	e := NewNFA(a)

	if x := e.Exec("a"); !x.Accepted {
		t.Fatal(JS(x))
	}

	x := e.Exec("aaaa")
	if x.Accepted {
		t.Fatal(JS(x))
	}
	// The second symbol empties the active set.
	if x.Consumed != 2 || x.Steps != 2 {
		t.Fatal(JS(x))
	}
}

func TestNFAEpsilonCycle(t *testing.T) {
	a, err := automaton.New(automaton.NFA, "loop", []automaton.State{
		{ID: 0, Transitions: []automaton.Transition{
			{To: 1, Label: automaton.Epsilon()},
		}},
		{ID: 1, Transitions: []automaton.Transition{
			{To: 0, Label: automaton.Epsilon()},
			{To: 2, Label: automaton.Symbol('a')},
		}},
		{ID: 2},
	}, 0, []automaton.StateID{2})
	if err != nil {
		t.Fatal(err)
	}

	x := NewNFA(a).Exec("a")
	if !x.Accepted || x.Steps != 2 {
		t.Fatal(JS(x))
	}
}

func TestNFAExceedsDFA(t *testing.T) {
	var (
		nfa    = NewNFA(automaton.SampleNFA())
		dfa, _ = NewDFA(automaton.SampleDFA())
	)

	inputs := RandomInputs(42, 500, 40, "x=")
	for size := 0; size < 40; size++ {
		inputs = append(inputs, worst(size))
	}

	for _, input := range inputs {
		n := nfa.Exec(input)
		d := dfa.Exec(input)
		if d.Steps > len(input) {
			t.Fatalf("%q: DFA took %d steps", input, d.Steps)
		}
		if n.Steps < d.Steps {
			t.Fatalf("%q: %d < %d", input, n.Steps, d.Steps)
		}
		if 2 < len(input) && n.Steps <= d.Steps {
			t.Fatalf("%q: %d <= %d", input, n.Steps, d.Steps)
		}
	}
}

func TestFor(t *testing.T) {
	for _, a := range []*automaton.Automaton{automaton.SampleNFA(), automaton.SampleDFA()} {
		e, err := For(a)
		if err != nil {
			t.Fatal(err)
		}
		if e.Kind() != a.Kind() {
			t.Fatal(e.Kind())
		}
	}
}
