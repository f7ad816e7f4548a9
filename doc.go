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

// Package nfasim simulates serving requests with two kinds of
// finite automata and accounts for the resources each kind uses.
//
// An NFA explores every active state for each input symbol while a
// DFA follows a single transition, so the same request stream costs
// them very different amounts of work.  A run feeds a pre-drawn
// workload (package workload) through both engines (package engine),
// charges each request against per-kind capacity with random failure
// injection (package ledger), and appends one record per request to a
// result stream (package sim).
//
// Automata are defined in package automaton.  Package tools renders
// and analyzes them.  The commands are in cmd: nfasim runs things
// from the command line, and simservice offers an HTTP control plane
// with WebSocket and MQTT streaming.
package nfasim
