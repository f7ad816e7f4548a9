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
	"testing"

	"github.com/000alen/nfasim/sim"
)

func TestImpl(t *testing.T) {
	var _ Storage = &MemStorage{}
}

func TestMemStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemStorage()

	cfg := sim.DefaultConfig()
	cfg.Requests = 7
	for _, name := range []string{"small", "big"} {
		if err := s.PutPreset(ctx, &Preset{Name: name, Config: cfg}); err != nil {
			t.Fatal(err)
		}
	}

	names, err := s.ListPresets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "big" || names[1] != "small" {
		t.Fatal(names)
	}

	p, err := s.GetPreset(ctx, "small")
	if err != nil {
		t.Fatal(err)
	}
	if p.Config.Requests != 7 {
		t.Fatal(p.Config.Requests)
	}

	if err := s.RemPreset(ctx, "small"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPreset(ctx, "small"); err != NotFound {
		t.Fatal(err)
	}
	if err := s.RemPreset(ctx, "small"); err != NotFound {
		t.Fatal(err)
	}
	if err := s.PutPreset(ctx, &Preset{Name: "a/b"}); err != BadName {
		t.Fatal(err)
	}
}
