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

// DFA is the linear-scan Engine.
type DFA struct {
	a *automaton.Automaton
}

// NewDFA makes a DFA engine.  The Automaton must be a DFA.
func NewDFA(a *automaton.Automaton) (*DFA, error) {
	if a.Kind() != automaton.DFA {
		return nil, &WrongKind{
			Automaton: a.Name(),
			Wanted:    automaton.DFA,
			Got:       a.Kind(),
		}
	}
	return &DFA{a: a}, nil
}

func (e *DFA) Kind() automaton.Kind {
	return automaton.DFA
}

// Exec follows the unique exact-symbol transition for each rune of
// the input.  When there's no such transition, the scan halts early
// and the input is rejected.
//
// Steps is the number of symbols consumed.
func (e *DFA) Exec(input string) *Execution {
	then := time.Now()

	x := &Execution{
		Kind: automaton.DFA,
	}

	current := e.a.Start()
	halted := false
	for _, r := range input {
		next, ok := e.a.Next(current, r)
		if !ok {
			halted = true
			break
		}
		current = next
		x.Consumed++
	}

	x.Steps = x.Consumed
	x.Accepted = !halted && e.a.IsAccepting(current)
	x.Latency = time.Since(then)

	return x
}
