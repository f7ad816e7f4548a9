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

package sim

import "fmt"

// RunState is the lifecycle state of a Controller.
type RunState int

const (
	Idle RunState = iota
	Running
	Paused
	Completed
	Stopped
)

var runStateNames = []string{"idle", "running", "paused", "completed", "stopped"}

func (s RunState) String() string {
	if s < 0 || int(s) >= len(runStateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return runStateNames[s]
}

// Active reports whether a run is in progress, paused or not.
func (s RunState) Active() bool {
	return s == Running || s == Paused
}

// Done reports whether the state is terminal for a run.
func (s RunState) Done() bool {
	return s == Completed || s == Stopped
}

func (s RunState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RunState) UnmarshalText(bs []byte) error {
	for i, name := range runStateNames {
		if name == string(bs) {
			*s = RunState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown run state '%s'", bs)
}
