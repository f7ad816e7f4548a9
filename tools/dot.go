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
	"os"
	"os/exec"
	"strings"

	"github.com/000alen/nfasim/automaton"
	"github.com/000alen/nfasim/util"
)

// Dot makes a Graphviz dot file for the given automaton.
//
// States in the optional highlight set are drawn in red, which is
// handy for showing an NFA's active set.
func Dot(a *automaton.Automaton, w io.WriteCloser, highlight ...automaton.StateID) error {
	hot := make(map[automaton.StateID]bool, len(highlight))
	for _, id := range highlight {
		hot[id] = true
	}

	states := a.States()
	util.Logf("dot: processing %d states", len(states))

	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [rankdir=LR,nodesep=0.3,ranksep=0.6,label="%s (%s)"]
  node [shape="circle" style="filled"]
  edge [fontsize = "12"]
  start [shape="point"]
`, escape(a.Name()), a.Kind())

	for _, s := range states {
		label := fmt.Sprintf("q%d", s.ID)
		if s.Doc != "" {
			doc := s.Doc
			if 40 < len(doc) {
				if period := strings.Index(doc, ". "); 0 < period {
					doc = doc[0 : period+1]
				}
			}
			label += "<BR/><FONT POINT-SIZE='8'>" + html(doc) + "</FONT>"
		}
		var (
			shape     = "circle"
			style     = "filled"
			color     = "black"
			fillcolor = "#99ddc8"
		)
		if a.IsAccepting(s.ID) {
			shape = "doublecircle"
			fillcolor = "#52aa5e"
		}
		if len(s.Transitions) == 0 {
			style += ",dashed"
		}
		if hot[s.ID] {
			color = "red"
			fillcolor = "#f98b8b"
		}
		fmt.Fprintf(w, "  q%d [shape=\"%s\", style=\"%s\", color=\"%s\", fillcolor=\"%s\", label=<%s> ]\n",
			s.ID, shape, style, color, fillcolor, label)
	}

	fmt.Fprintf(w, "  start -> q%d\n", a.Start())

	for _, s := range states {
		for _, t := range s.Transitions {
			color := "black"
			switch {
			case t.Label.IsEpsilon():
				color = "#2d93ad"
			case t.Label.IsWildcard():
				color = "orange"
			}
			if hot[s.ID] && hot[t.To] {
				color = "red"
			}
			fmt.Fprintf(w, "  q%d -> q%d [ color=\"%s\" label = <%s> ]\n",
				s.ID, t.To, color, html(t.Label.String()))
		}
	}

	fmt.Fprintf(w, "}\n")
	return w.Close()
}

// PNG generates a PNG image based on output from Dot.
//
// This function writes two files: basename.dot and basename.png.
// Graphviz's dot command must be installed.
func PNG(a *automaton.Automaton, basename string, highlight ...automaton.StateID) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(a, dotfile, highlight...); err != nil {
		return pngname, err
	}
	if err := exec.Command("dot", "-Tpng", "-o", pngname, dotname).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

func escape(s string) string {
	return strings.Replace(s, `"`, `\"`, -1)
}

func html(s string) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "<", "&lt;", -1)
	s = strings.Replace(s, ">", "&gt;", -1)
	return s
}
