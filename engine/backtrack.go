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

// Backtracking estimates the work of a substring-checking matcher for
// `.*.*=.*` on the input.
//
// For each start i, the matcher checks input[i:j] for j = i, i+1, ...
// up to the end of the input, and it stops at the first slice that
// matches (that is, the first one containing '=').  Every check is a
// step.
func Backtracking(input string) int {
	rs := []rune(input)
	steps := 0
	for i := range rs {
		for j := i; j <= len(rs); j++ {
			steps++
			if i < j && rs[j-1] == '=' {
				break
			}
		}
	}
	return steps
}
