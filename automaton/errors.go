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
)

// Problem names what's wrong with a MalformedAutomaton.
type Problem string

const (
	NoStates           Problem = "no states"
	DuplicateState     Problem = "duplicate state"
	UnknownStart       Problem = "unknown start state"
	UnknownAccepting   Problem = "unknown accepting state"
	UnknownTarget      Problem = "unknown transition target"
	Nondeterministic   Problem = "more than one transition for a symbol"
	UnknownKind        Problem = "unknown automaton kind"
	BadTransitionLabel Problem = "bad transition label"
)

// MalformedAutomaton occurs when New is given states that can't make
// a well-formed Automaton.
//
// These errors are user errors.  They are reported at construction
// time, so an Automaton that exists is always well-formed.
type MalformedAutomaton struct {
	Automaton string
	State     StateID
	Problem   Problem

	// Detail is optional.
	Detail string
}

func (e *MalformedAutomaton) Error() string {
	msg := fmt.Sprintf(`automaton "%s" is malformed: %s at state %d`, e.Automaton, e.Problem, e.State)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}
