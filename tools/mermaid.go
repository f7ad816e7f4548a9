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

package tools

import (
	"fmt"
	"io"

	"github.com/000alen/nfasim/automaton"
	"github.com/000alen/nfasim/util"
)

type MermaidOpts struct {
	// ShowDocs adds each state's documentation (if any) to its
	// node.
	ShowDocs bool `json:"showDocs"`

	// AcceptingFill is the fill color for accepting states.  Does
	// not apply if AcceptingClass is set.
	AcceptingFill string `json:"acceptingFill,omitempty"`

	// AcceptingClass will be the CSS class for accepting states.
	AcceptingClass string `json:"acceptingClass,omitempty"`

	// HighlightFill is the fill color for highlighted states.
	HighlightFill string `json:"highlightFill,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given automaton.
func Mermaid(a *automaton.Automaton, w io.WriteCloser, opts *MermaidOpts, highlight ...automaton.StateID) error {

	if opts == nil {
		opts = &MermaidOpts{
			AcceptingFill: "#bcf2db",
			HighlightFill: "#f98b8b",
		}
	}

	states := a.States()
	util.Logf("mermaid: processing %d states", len(states))

	fmt.Fprintf(w, "graph LR\n")
	fmt.Fprintf(w, "  start(( )) --> q%d\n", a.Start())

	for _, s := range states {
		label := fmt.Sprintf("q%d", s.ID)
		if opts.ShowDocs && s.Doc != "" {
			label += "<br/>" + quote(s.Doc)
		}
		if a.IsAccepting(s.ID) {
			fmt.Fprintf(w, "  q%d(((\"%s\")))\n", s.ID, label)
			switch {
			case opts.AcceptingClass != "":
				fmt.Fprintf(w, "  class q%d %s\n", s.ID, opts.AcceptingClass)
			case opts.AcceptingFill != "":
				fmt.Fprintf(w, "  style q%d fill:%s\n", s.ID, opts.AcceptingFill)
			}
		} else {
			fmt.Fprintf(w, "  q%d((\"%s\"))\n", s.ID, label)
		}
	}

	for _, id := range highlight {
		if opts.HighlightFill != "" {
			fmt.Fprintf(w, "  style q%d fill:%s\n", id, opts.HighlightFill)
		}
	}

	for _, s := range states {
		for _, t := range s.Transitions {
			fmt.Fprintf(w, "  q%d -- \"%s\" --> q%d\n", s.ID, quote(t.Label.String()), t.To)
		}
	}

	fmt.Fprintf(w, "\n")

	return w.Close()
}

func quote(s string) string {
	acc := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '"':
			acc = append(acc, []rune("#quot;")...)
		case '=':
			acc = append(acc, []rune("#61;")...)
		default:
			acc = append(acc, r)
		}
	}
	return string(acc)
}
