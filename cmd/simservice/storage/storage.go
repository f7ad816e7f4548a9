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

// Package storage keeps named configuration presets.
//
// Presets are configuration only.  Runs and their records are never
// stored.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/000alen/nfasim/sim"
)

var (
	NotFound = errors.New("not found")
	BadName  = errors.New("bad preset name")
)

// Preset is a named sim.Config.
type Preset struct {
	Name   string     `json:"name"`
	Doc    string     `json:"doc,omitempty"`
	Config sim.Config `json:"config"`
	Saved  time.Time  `json:"saved"`
}

type Storage interface {
	Open(ctx context.Context) error

	Close(ctx context.Context) error

	// PutPreset writes the Preset, replacing any existing
	// Preset with the same name.
	PutPreset(ctx context.Context, p *Preset) error

	// GetPreset returns NotFound if there's no such Preset.
	GetPreset(ctx context.Context, name string) (*Preset, error)

	RemPreset(ctx context.Context, name string) error

	// ListPresets returns the names in ascending order.
	ListPresets(ctx context.Context) ([]string, error)
}

// CheckName returns BadName for an empty name or one with a slash.
func CheckName(name string) error {
	if name == "" {
		return BadName
	}
	for _, r := range name {
		if r == '/' {
			return BadName
		}
	}
	return nil
}
