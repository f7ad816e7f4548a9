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

// Package automaton provides the static graphs that the execution
// engines walk.
//
// An Automaton is a set of States connected by labeled Transitions,
// with a start State and a set of accepting States.  A Label is one
// of Symbol (one specific rune), Wildcard (any rune), or Epsilon (no
// rune at all).
//
// Automata come in two Kinds.  An NFA can have any number of
// transitions for the same symbol.  A DFA can have at most one
// transition per concrete symbol per State; New checks that, along
// with dangling targets and the other structural problems listed as
// Problems, and returns a *MalformedAutomaton when something is off.
//
// Once made, an Automaton can't be changed, so a single instance can
// be shared by every request in a simulation run.
//
// A Spec is the serializable form.  See ParseSpec and SampleNFA.
package automaton
