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
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Pattern renders a request size into a concrete input.
//
// The rendered input has approximately size runes.
type Pattern interface {
	Name() string
	Render(ctx context.Context, size int, rng *rand.Rand) (string, error)
}

const (
	alphanumerics = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	lowers        = "abcdefghijklmnopqrstuvwxyz"
)

var tlds = []string{"com", "org", "net", "io"}

func sample(rng *rand.Rand, alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}

type alphabetPattern struct {
	name     string
	alphabet string
}

func (p *alphabetPattern) Name() string {
	return p.name
}

func (p *alphabetPattern) Render(ctx context.Context, size int, rng *rand.Rand) (string, error) {
	return sample(rng, p.alphabet, size), nil
}

var (
	// Alphanumeric samples [a-zA-Z0-9] uniformly per character.
	Alphanumeric Pattern = &alphabetPattern{"alphanumeric", alphanumerics}

	// TwoSymbol samples {x, =}, which makes the sample NFA branch.
	TwoSymbol Pattern = &alphabetPattern{"two-symbol", "x="}

	Email Pattern = email{}

	URL Pattern = url{}

	// Worst renders "x=" padded with x, which is the input that
	// makes comparisons most dramatic.
	Worst Pattern = worst{}
)

type email struct{}

func (email) Name() string {
	return "email"
}

// Render makes local@domain.tld.
func (email) Render(ctx context.Context, size int, rng *rand.Rand) (string, error) {
	tld := tlds[rng.Intn(len(tlds))]
	n := size - len(tld) - 2
	if n < 2 {
		n = 2
	}
	domain := n / 3
	if domain < 1 {
		domain = 1
	}
	return sample(rng, alphanumerics, n-domain) + "@" + sample(rng, lowers, domain) + "." + tld, nil
}

type url struct{}

func (url) Name() string {
	return "url"
}

// Render makes https://host.tld/path.
func (url) Render(ctx context.Context, size int, rng *rand.Rand) (string, error) {
	tld := tlds[rng.Intn(len(tlds))]
	n := size - len("https://") - len(tld) - 2
	if n < 2 {
		n = 2
	}
	host := n / 3
	if host < 1 {
		host = 1
	}
	path := []byte(sample(rng, alphanumerics, n-host))
	for i := 1; i < len(path)-1; i++ {
		if rng.Intn(8) == 0 {
			path[i] = '/'
		}
	}
	return "https://" + sample(rng, lowers, host) + "." + tld + "/" + string(path), nil
}

type worst struct{}

func (worst) Name() string {
	return "worst"
}

func (worst) Render(ctx context.Context, size int, rng *rand.Rand) (string, error) {
	return WorstInput(size), nil
}

// WorstInput is "x=" padded with x to the given length.  Sizes less
// than 2 truncate "x=".
func WorstInput(size int) string {
	if size < 0 {
		size = 0
	}
	s := "x=" + strings.Repeat("x", size)
	return s[:size]
}

// Patterns are the built-in Patterns by name.
var Patterns = map[string]Pattern{}

func init() {
	for _, p := range []Pattern{Alphanumeric, Email, URL, TwoSymbol, Worst} {
		Patterns[p.Name()] = p
	}
	Patterns["custom-two-symbol"] = TwoSymbol
}

// PatternNames returns the names of the built-in Patterns plus
// "script".
func PatternNames() []string {
	acc := make([]string, 0, len(Patterns)+1)
	for name := range Patterns {
		acc = append(acc, name)
	}
	acc = append(acc, ScriptPatternName)
	sort.Strings(acc)
	return acc
}

func lookupPattern(name string) (Pattern, error) {
	if name == "" {
		return Alphanumeric, nil
	}
	p, have := Patterns[strings.ToLower(name)]
	if !have {
		return nil, &InvalidSpec{
			Field:   "pattern",
			Problem: fmt.Sprintf("unknown pattern '%s'", name),
		}
	}
	return p, nil
}
