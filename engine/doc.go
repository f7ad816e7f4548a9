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

// Package engine executes automata and measures what that costs.
//
// There are two Engines.  The DFA engine follows a single current
// state and does constant work per input symbol.  The NFA engine
// tracks the set of all live states, so its work per symbol depends on
// how many branches are alive.  Both report abstract Steps (which the
// ledger package turns into resource charges) separately from measured
// wall-clock Latency.
package engine
