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

package workload

import (
	"errors"
	"fmt"
)

// InvalidSpec reports a problem with a Spec.
type InvalidSpec struct {
	Field   string
	Problem string
}

func (e *InvalidSpec) Error() string {
	return fmt.Sprintf("bad workload %s: %s", e.Field, e.Problem)
}

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned when a script pattern takes too
	// long.
	Interrupted = errors.New(InterruptedMessage)
)
