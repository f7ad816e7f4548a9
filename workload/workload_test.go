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
	"errors"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDistributions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	mean := func(d Distribution, n int) float64 {
		sum := 0
		for i := 0; i < n; i++ {
			x := d.Draw(rng)
			if x < 1 {
				t.Fatalf("%s drew %d", d, x)
			}
			sum += x
		}
		return float64(sum) / float64(n)
	}

	tests := []struct {
		d         Distribution
		want, tol float64
	}{
		{Normal{Mean: 50, StdDev: 5}, 50, 1},
		{Normal{Mean: -10, StdDev: 0}, 1, 0},
		{Uniform{Min: 10, Max: 20}, 15, 0.5},
		{Uniform{Min: 0, Max: 0}, 1, 0},
		{Poisson{Lambda: 10}, 10, 0.5},
		{Poisson{Lambda: 100}, 100, 2},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			if got := mean(tt.d, 10000); tt.tol < math.Abs(got-tt.want) {
				t.Fatalf("mean %f; wanted %f", got, tt.want)
			}
		})
	}
}

func TestDistSpecErrors(t *testing.T) {
	tests := []struct {
		name  string
		spec  DistSpec
		field string
	}{
		{"kind", DistSpec{Kind: "zipf"}, "distribution.kind"},
		{"negative mean", DistSpec{Kind: "normal", Mean: -1}, "distribution.mean"},
		{"nan", DistSpec{Kind: "normal", Mean: 1, StdDev: math.NaN()}, "distribution.stddev"},
		{"backwards", DistSpec{Kind: "uniform", Min: 5, Max: 4}, "distribution.max"},
		{"lambda", DistSpec{Kind: "poisson"}, "distribution.lambda"},
		{"huge", DistSpec{Kind: "Poisson", Lambda: 1e9}, "distribution.lambda"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.Compile()
			var bad *InvalidSpec
			if !errors.As(err, &bad) {
				t.Fatal(err)
			}
			if bad.Field != tt.field {
				t.Fatal(bad.Field)
			}
		})
	}
}

func TestPatterns(t *testing.T) {
	var (
		ctx = context.Background()
		rng = rand.New(rand.NewSource(2))
	)

	render := func(p Pattern, size int) string {
		s, err := p.Render(ctx, size, rng)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	for size := 1; size < 50; size++ {
		s := render(Alphanumeric, size)
		if len(s) != size {
			t.Fatal(s)
		}
		if strings.Trim(s, alphanumerics) != "" {
			t.Fatal(s)
		}

		s = render(TwoSymbol, size)
		if len(s) != size || strings.Trim(s, "x=") != "" {
			t.Fatal(s)
		}

		s = render(Worst, size)
		if len(s) != size || !strings.HasPrefix("x="+strings.Repeat("x", size), s) {
			t.Fatal(s)
		}
	}

	for size := 20; size < 60; size++ {
		s := render(Email, size)
		if len(s) != size || strings.Count(s, "@") != 1 {
			t.Fatal(size, s)
		}
		s = render(URL, size)
		if len(s) != size || !strings.HasPrefix(s, "https://") {
			t.Fatal(size, s)
		}
	}

	// Tiny sizes still look like emails and URLs.
	if s := render(Email, 1); !strings.Contains(s, "@") {
		t.Fatal(s)
	}
	if s := render(URL, 1); !strings.Contains(s, ".") {
		t.Fatal(s)
	}
}

func TestWorstInput(t *testing.T) {
	for size, want := range []string{"", "x", "x=", "x=x", "x=xx"} {
		if got := WorstInput(size); got != want {
			t.Fatalf("%d: %q != %q", size, got, want)
		}
	}
}

func TestScript(t *testing.T) {
	src := `
function render(size, rand) {
  var s = "";
  for (var i = 0; i < size; i++) s += rand() < 0.5 ? "x" : "=";
  return s;
}`
	p, err := NewScript(src)
	if err != nil {
		t.Fatal(err)
	}
	s, err := p.Render(context.Background(), 17, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 17 || strings.Trim(s, "x=") != "" {
		t.Fatal(s)
	}
}

func TestScriptTimeout(t *testing.T) {
	p, err := NewScript(`function render(size, rand) { while (true) {} }`)
	if err != nil {
		t.Fatal(err)
	}
	p.Timeout = 50 * time.Millisecond
	if _, err = p.Render(context.Background(), 3, rand.New(rand.NewSource(3))); err != Interrupted {
		t.Fatal(err)
	}
}

func TestScriptErrors(t *testing.T) {
	if _, err := NewScript("function render( {"); err == nil {
		t.Fatal("expected a compilation error")
	}

	p, err := NewScript("var x = 1;")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = p.Render(context.Background(), 3, rand.New(rand.NewSource(3))); err == nil {
		t.Fatal("expected an error")
	}

	p, err = NewScript("function render(size) { return size; }")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = p.Render(context.Background(), 3, rand.New(rand.NewSource(3))); err == nil {
		t.Fatal("expected an error")
	}
}

func TestGenerate(t *testing.T) {
	s := DefaultSpec()
	s.Seed = 42

	w, err := Generate(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if w.Len() != s.Requests || len(w.Sizes) != s.Requests {
		t.Fatal(w.Len())
	}
	for i, size := range w.Sizes {
		if size < 1 || len(w.Inputs[i]) != size {
			t.Fatal(i, size, w.Inputs[i])
		}
	}

	again, err := Generate(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(w, again) {
		t.Fatal("not reproducible")
	}
}

func TestGenerateScript(t *testing.T) {
	s := Spec{
		Requests:     5,
		Distribution: DistSpec{Kind: "uniform", Min: 3, Max: 3},
		Pattern:      "script",
		Script:       `function render(size) { return "ab".repeat(size); }`,
		Seed:         1,
	}
	w, err := Generate(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range w.Inputs {
		if in != "ababab" {
			t.Fatal(in)
		}
	}
}

func TestValidate(t *testing.T) {
	s := DefaultSpec()
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}

	s.Requests = 0
	var bad *InvalidSpec
	if err := s.Validate(); !errors.As(err, &bad) || bad.Field != "requests" {
		t.Fatal(err)
	}

	s = DefaultSpec()
	s.Pattern = "ipv6"
	if err := s.Validate(); !errors.As(err, &bad) || bad.Field != "pattern" {
		t.Fatal(err)
	}

	s.Pattern = "Custom-Two-Symbol"
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestFingerprint(t *testing.T) {
	s := DefaultSpec()
	fp := s.Fingerprint()

	t.Run("stable", func(t *testing.T) {
		if s.Fingerprint() != fp {
			t.Fatal("changed")
		}
		s := s
		s.Pattern = strings.ToUpper(s.Pattern)
		s.Script = "ignored"
		if s.Fingerprint() != fp {
			t.Fatal("changed")
		}
	})

	changes := map[string]func(s *Spec){
		"requests": func(s *Spec) { s.Requests++ },
		"kind":     func(s *Spec) { s.Distribution.Kind = "poisson" },
		"stddev":   func(s *Spec) { s.Distribution.StdDev++ },
		"pattern":  func(s *Spec) { s.Pattern = "email" },
		"seed":     func(s *Spec) { s.Seed = 7 },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			s := DefaultSpec()
			change(&s)
			if s.Fingerprint() == fp {
				t.Fatal("unchanged")
			}
		})
	}
}

func TestCache(t *testing.T) {
	var (
		ctx = context.Background()
		c   = &Cache{}
		s   = DefaultSpec()
	)

	w, regenerated, err := c.Get(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if !regenerated {
		t.Fatal("not generated")
	}

	again, regenerated, err := c.Get(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if regenerated || again != w {
		t.Fatal("regenerated")
	}

	s.Pattern = "url"
	other, regenerated, err := c.Get(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if !regenerated || other == w {
		t.Fatal("not regenerated")
	}
	if c.Current() != other {
		t.Fatal("current")
	}

	c.Clear()
	if c.Current() != nil {
		t.Fatal("not cleared")
	}
}
