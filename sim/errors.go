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

import (
	"errors"
	"fmt"
)

// InvalidConfiguration is returned when a Config can't be applied.
// The previous Config stays in effect.
type InvalidConfiguration struct {
	Field   string
	Problem string
}

func (e *InvalidConfiguration) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Problem)
}

var (
	// ErrConcurrentStart is returned by Start when a run is
	// already in progress.  The existing run is unaffected.
	ErrConcurrentStart = errors.New("a run is already in progress")

	// ErrRunActive is returned by Apply during a run.
	ErrRunActive = errors.New("can't change the configuration during a run")

	// ErrNotRunning is returned by Pause when there's no running
	// run.
	ErrNotRunning = errors.New("not running")

	// ErrNotPaused is returned by Resume when the run isn't
	// paused.
	ErrNotPaused = errors.New("not paused")
)
