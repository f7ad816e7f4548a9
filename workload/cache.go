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
	"context"
	"sync"
)

// Cache holds the most recently generated Workload.
//
// Repeated requests for a Spec with the same Fingerprint get the same
// Workload.  A different Fingerprint causes regeneration.
type Cache struct {
	sync.Mutex

	current *Workload
}

// Get returns the Workload for the Spec, generating a new one only if
// the Spec's Fingerprint has changed.  The boolean result reports
// whether generation happened.
func (c *Cache) Get(ctx context.Context, s Spec) (*Workload, bool, error) {
	c.Lock()
	defer c.Unlock()

	if c.current != nil && c.current.Fingerprint == s.Fingerprint() {
		return c.current, false, nil
	}

	w, err := Generate(ctx, s)
	if err != nil {
		return nil, false, err
	}
	c.current = w

	return w, true, nil
}

// Current returns the cached Workload, which might be nil.
func (c *Cache) Current() *Workload {
	c.Lock()
	defer c.Unlock()
	return c.current
}

// Clear forgets the cached Workload.
func (c *Cache) Clear() {
	c.Lock()
	c.current = nil
	c.Unlock()
}
