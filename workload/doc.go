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

// Package workload makes synthetic request streams.
//
// A Workload is generated from a Spec in two phases: first a size is
// drawn for every request from a Distribution, and then each size is
// rendered into an input string by a Pattern.  A Cache keeps the last
// Workload so that repeated runs with an unchanged Spec see exactly
// the same requests.
package workload
