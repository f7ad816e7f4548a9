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
	"testing"

	"github.com/000alen/nfasim/automaton"
)

func TestTree(t *testing.T) {
	a := automaton.SampleNFA()

	tests := []struct {
		input string
		nodes int
	}{
		{"", 3},
		{"x", 7},
		{"x=", 12},
		{"x=x", 16},
		{"x=xxx", 24},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			size := Tree(a, tt.input, 0)
			if size.Truncated {
				t.Fatal("truncated")
			}
			if size.Nodes != tt.nodes {
				t.Fatalf("%d != %d", size.Nodes, tt.nodes)
			}
		})
	}
}

func TestTreeLimit(t *testing.T) {
	size := Tree(automaton.SampleNFA(), "x=", 2)
	if !size.Truncated || size.Nodes != 2 {
		t.Fatal(size)
	}

	loop, err := automaton.New(automaton.NFA, "loop", []automaton.State{
		{ID: 0, Transitions: []automaton.Transition{{To: 0, Label: automaton.Epsilon()}}},
	}, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	size = Tree(loop, "a", 10)
	if !size.Truncated || size.Nodes != 10 {
		t.Fatal(size)
	}
}

func TestCompare(t *testing.T) {
	points, err := Compare(automaton.SampleNFA(), automaton.SampleDFA(), 12, worst, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 12 {
		t.Fatal(len(points))
	}
	for i, p := range points {
		if p.Size != i+1 {
			t.Fatal(p)
		}
		if p.NFASteps <= p.DFASteps {
			t.Fatal(p)
		}
		if p.TreeNodes < p.NFASteps {
			t.Fatal(p)
		}
		if p.Backtracking != Backtracking(worst(p.Size)) {
			t.Fatal(p)
		}
	}
	if points[11].DFASteps != 12 {
		t.Fatal(points[11])
	}
}

func TestBacktracking(t *testing.T) {
	tests := []struct {
		input string
		steps int
	}{
		{"", 0},
		{"x", 2},
		{"=", 2},
		{"xx", 5},
		{"x=x", 7},
		{"==", 4},
		{"xxxx", 14},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Backtracking(tt.input); got != tt.steps {
				t.Fatalf("%d != %d", got, tt.steps)
			}
		})
	}
}

func TestTreeEndOfInput(t *testing.T) {
	// At the end of the input, the wildcard child counts, but the
	// symbol child doesn't.
	a, err := automaton.New(automaton.NFA, "end", []automaton.State{
		{ID: 0, Transitions: []automaton.Transition{
			{To: 0, Label: automaton.Wildcard()},
			{To: 1, Label: automaton.Symbol('a')},
		}},
		{ID: 1},
	}, 0, []automaton.StateID{1})
	if err != nil {
		t.Fatal(err)
	}
	if size := Tree(a, "", 0); size.Nodes != 2 {
		t.Fatal(size)
	}
	if size := Tree(a, "a", 0); size.Nodes != 4 {
		t.Fatal(size)
	}
}

func TestCompareErrors(t *testing.T) {
	if _, err := Compare(automaton.SampleNFA(), automaton.SampleDFA(), 0, worst, 0); !errors.Is(err, BadSize) {
		t.Fatal(err)
	}
	_, err := Compare(automaton.SampleNFA(), automaton.SampleNFA(), 3, worst, 0)
	var wk *WrongKind
	if !errors.As(err, &wk) {
		t.Fatal(err)
	}
}
