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

package storage

import (
	"context"
	"sort"
	"sync"
)

// MemStorage keeps Presets in memory, so they are lost when the
// process exits.
type MemStorage struct {
	sync.Mutex
	presets map[string]Preset
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		presets: make(map[string]Preset),
	}
}

func (s *MemStorage) Open(ctx context.Context) error {
	return nil
}

func (s *MemStorage) Close(ctx context.Context) error {
	return nil
}

func (s *MemStorage) PutPreset(ctx context.Context, p *Preset) error {
	if err := CheckName(p.Name); err != nil {
		return err
	}
	s.Lock()
	s.presets[p.Name] = *p
	s.Unlock()
	return nil
}

func (s *MemStorage) GetPreset(ctx context.Context, name string) (*Preset, error) {
	s.Lock()
	defer s.Unlock()
	p, have := s.presets[name]
	if !have {
		return nil, NotFound
	}
	return &p, nil
}

func (s *MemStorage) RemPreset(ctx context.Context, name string) error {
	s.Lock()
	defer s.Unlock()
	if _, have := s.presets[name]; !have {
		return NotFound
	}
	delete(s.presets, name)
	return nil
}

func (s *MemStorage) ListPresets(ctx context.Context) ([]string, error) {
	s.Lock()
	defer s.Unlock()
	acc := make([]string, 0, len(s.presets))
	for name := range s.presets {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc, nil
}
