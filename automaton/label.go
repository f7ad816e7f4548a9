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

package automaton

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// LabelKind discriminates the three kinds of transition labels.
type LabelKind int

const (
	SymbolLabel   LabelKind = iota // Consumes exactly one matching rune.
	WildcardLabel                  // Consumes any one rune.
	EpsilonLabel                   // Consumes nothing.
)

// Label is what a Transition is labeled with.  Construct one with
// Symbol, Wildcard, or Epsilon.  The zero value is the symbol for rune
// 0, which nobody should want.
type Label struct {
	Kind   LabelKind
	Symbol rune
}

// Symbol makes a label that matches exactly r.
func Symbol(r rune) Label {
	return Label{Kind: SymbolLabel, Symbol: r}
}

// Wildcard makes a label that matches any single rune.
func Wildcard() Label {
	return Label{Kind: WildcardLabel}
}

// Epsilon makes a label that is followed without consuming input.
func Epsilon() Label {
	return Label{Kind: EpsilonLabel}
}

// IsEpsilon reports whether the label consumes no input.
func (l Label) IsEpsilon() bool {
	return l.Kind == EpsilonLabel
}

// IsWildcard reports whether the label matches any rune.
func (l Label) IsWildcard() bool {
	return l.Kind == WildcardLabel
}

// Matches reports whether this label consumes the given rune.
//
// Epsilon labels never match a rune.
func (l Label) Matches(r rune) bool {
	switch l.Kind {
	case WildcardLabel:
		return true
	case SymbolLabel:
		return l.Symbol == r
	default:
		return false
	}
}

func (l Label) String() string {
	switch l.Kind {
	case EpsilonLabel:
		return "ε"
	case WildcardLabel:
		return "."
	default:
		return string(l.Symbol)
	}
}

// BadLabel occurs when ParseLabel can't make sense of a string.
var BadLabel = errors.New("bad label")

// ParseLabel is the inverse of Label.String.
//
// For convenience in spec files, "eps" and "epsilon" also mean
// Epsilon, and "any" also means Wildcard.  A single rune is a Symbol.
// Since "." means Wildcard, there is no way to write a Symbol for a
// literal period.
func ParseLabel(s string) (Label, error) {
	switch s {
	case "ε", "eps", "epsilon":
		return Epsilon(), nil
	case ".", "any":
		return Wildcard(), nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return Label{}, fmt.Errorf("%w: %q", BadLabel, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return Symbol(r), nil
}

// MarshalText makes Labels look like their String form in JSON and
// YAML.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (l *Label) UnmarshalText(bs []byte) error {
	parsed, err := ParseLabel(string(bs))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
