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

// Package sim runs load simulations.
//
// A Controller drives a pre-drawn workload through an NFA engine and
// a DFA engine.  Each engine has its own ledger, which charges
// resources for admitted requests and drops requests that don't fit
// or that fail at random.  After every request, the Controller appends
// a MetricRecord to the run's Stream and tells its Observers.
//
// A Controller is Idle until its first run.  Start makes it Running,
// Pause and Resume toggle between Running and Paused, and a run ends
// Completed (all requests processed) or Stopped (canceled).
package sim
