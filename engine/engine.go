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
	"fmt"
	"time"

	"github.com/000alen/nfasim/automaton"
)

// Execution reports what happened when an Engine processed one input.
type Execution struct {
	Kind automaton.Kind `json:"kind"`

	// Steps is the abstract cost of the execution.  It drives the
	// resource ledger.
	Steps int `json:"steps"`

	// Consumed is the number of input symbols read before the engine
	// halted.
	Consumed int `json:"consumed"`

	Accepted bool `json:"accepted"`

	// Latency is measured wall-clock time, which is independent of
	// Steps.
	Latency time.Duration `json:"latency"`
}

// Engine evaluates inputs against one Automaton.
//
// Implementations hold no per-input state, so Exec can be called
// concurrently.
type Engine interface {
	Kind() automaton.Kind
	Exec(input string) *Execution
}

// WrongKind is returned when an Automaton is given to an Engine that
// can't run it.
type WrongKind struct {
	Automaton string
	Wanted    automaton.Kind
	Got       automaton.Kind
}

func (e *WrongKind) Error() string {
	return fmt.Sprintf("automaton \"%s\" is a %s, not a %s", e.Automaton, e.Got, e.Wanted)
}

// For makes the Engine appropriate for the Automaton's Kind.
func For(a *automaton.Automaton) (Engine, error) {
	switch a.Kind() {
	case automaton.DFA:
		return NewDFA(a)
	default:
		return NewNFA(a), nil
	}
}
