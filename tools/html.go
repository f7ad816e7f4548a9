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
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/000alen/nfasim/automaton"
	"github.com/000alen/nfasim/engine"
	"github.com/000alen/nfasim/sim"

	md "github.com/russross/blackfriday/v2"
)

// RenderAutomatonHTML writes an HTML fragment that documents the
// automaton.  Docs are Markdown.
func RenderAutomatonHTML(a *automaton.Automaton, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<div class="automatonDoc doc">%s</div>`, md.Run([]byte(a.Doc())))
	f(`<div class="kind">kind: <code>%s</code></div>`, a.Kind())

	f(`<div class="states"><table>`)
	for _, s := range a.States() {
		name := fmt.Sprintf("q%d", s.ID)
		class := "state"
		if a.IsAccepting(s.ID) {
			class += " accepting"
		}
		if s.ID == a.Start() {
			class += " start"
		}
		f(`<tr class="%s"><td><span id="%s" class="stateName">%s</span></td><td>`, class, name, name)
		if s.Doc != "" {
			f(`<div class="stateDoc doc">%s</div>`, md.Run([]byte(s.Doc)))
		}
		if 0 < len(s.Transitions) {
			f(`<div class="transitions"><table>`)
			for i, t := range s.Transitions {
				f(`<tr><td><div class="transitionNum">%d</div></td><td><code>%s</code></td><td><a href="#q%d"><code>q%d</code></a></td></tr>`,
					i, template.HTMLEscapeString(t.Label.String()), t.To, t.To)
			}
			f(`</table></div>`)
		}
		f(`</td></tr>`)
	}
	f(`</table></div>`)

	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// RenderAutomatonPage writes a complete HTML page for the automaton.
//
// If includeGraph is true, the page draws the automaton with Mermaid.
func RenderAutomatonPage(a *automaton.Automaton, out io.Writer, cssFiles []string, includeGraph bool) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/automaton.css"}
	}

	title := template.HTMLEscapeString(a.Name())

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, title)

	if includeGraph {
		fmt.Fprintf(out, `
  <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
  <script>mermaid.initialize({startOnLoad:true});</script>
`)
	}

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, title)

	if includeGraph {
		var buf bytes.Buffer
		if err := Mermaid(a, nopCloser{&buf}, nil); err != nil {
			return err
		}
		fmt.Fprintf(out, "<div class=\"mermaid\">\n%s</div>\n", template.HTMLEscapeString(buf.String()))
	}

	if err := RenderAutomatonHTML(a, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderAutomatonPage reads an automaton spec file and renders
// its page.
func ReadAndRenderAutomatonPage(filename string, cssFiles []string, out io.Writer, includeGraph bool) error {
	spec, err := automaton.ReadSpecFile(filename)
	if err != nil {
		return err
	}
	a, err := spec.Compile()
	if err != nil {
		return err
	}
	return RenderAutomatonPage(a, out, cssFiles, includeGraph)
}

// RunReportMarkdown summarizes a run as Markdown.
//
// At most maxRows records are included.  They are sampled evenly
// across the run, and the last record is always included.
func RunReportMarkdown(s sim.Summary, records []sim.MetricRecord, maxRows int) string {
	var b strings.Builder
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	f("# Run %s", s.ID)
	f("")
	f("State **%s** after %d of %d requests.", s.State, s.Processed, s.Requests)
	if !s.Ended.IsZero() {
		f("Elapsed %s.", s.Ended.Sub(s.Started))
	}
	f("")
	f("Workload `%s` (seed %d), pattern `%s`.", s.Fingerprint, s.Seed, s.Config.Pattern)
	f("")
	f("| | NFA | DFA |")
	f("|---|---:|---:|")
	f("| accepted | %d | %d |", s.NFA.Accepted, s.DFA.Accepted)
	f("| capacity drops | %d | %d |", s.NFA.CapacityDrops, s.DFA.CapacityDrops)
	f("| failure drops | %d | %d |", s.NFA.FailureDrops, s.DFA.FailureDrops)
	f("| compute | %.3f | %.3f |", s.NFA.Usage.Compute, s.DFA.Usage.Compute)
	f("| memory | %.3f | %.3f |", s.NFA.Usage.Memory, s.DFA.Usage.Memory)
	f("| io | %.3f | %.3f |", s.NFA.Usage.IO, s.DFA.Usage.IO)
	f("| mean latency (ms) | %.4f | %.4f |", s.NFAAvgLatencyMs, s.DFAAvgLatencyMs)

	if len(records) == 0 || maxRows <= 0 {
		return b.String()
	}

	f("")
	f("## Records")
	f("")
	f("| seq | nfa steps | nfa compute | nfa dropped | dfa steps | dfa compute | dfa dropped |")
	f("|---:|---:|---:|---:|---:|---:|---:|")
	for _, r := range sample(records, maxRows) {
		f("| %d | %d | %.3f | %d | %d | %.3f | %d |",
			r.Seq, r.NFA.Steps, r.NFA.Compute, r.NFA.Dropped, r.DFA.Steps, r.DFA.Compute, r.DFA.Dropped)
	}

	return b.String()
}

func sample(records []sim.MetricRecord, n int) []sim.MetricRecord {
	if len(records) <= n {
		return records
	}
	acc := make([]sim.MetricRecord, 0, n)
	step := float64(len(records)-1) / float64(n-1)
	for i := 0; i < n-1; i++ {
		acc = append(acc, records[int(float64(i)*step)])
	}
	return append(acc, records[len(records)-1])
}

// RenderRunReport writes an HTML page that summarizes a run.
func RenderRunReport(out io.Writer, s sim.Summary, records []sim.MetricRecord, maxRows int) error {
	body := md.Run([]byte(RunReportMarkdown(s, records, maxRows)),
		md.WithExtensions(md.CommonExtensions))
	_, err := fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>Run %s</title>
  </head>
  <body>
%s
  </body>
</html>
`, template.HTMLEscapeString(s.ID), body)
	return err
}

// ComparisonMarkdown renders a Compare sweep as a Markdown table.
func ComparisonMarkdown(points []engine.ComparisonPoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| size | nfa steps | dfa steps | tree nodes | backtracking |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|---:|\n")
	for _, p := range points {
		tree := fmt.Sprintf("%d", p.TreeNodes)
		if p.TreeTruncated {
			tree = "≥" + tree
		}
		fmt.Fprintf(&b, "| %d | %d | %d | %s | %d |\n", p.Size, p.NFASteps, p.DFASteps, tree, p.Backtracking)
	}
	return b.String()
}

// RenderComparison writes a Compare sweep as an HTML table.
func RenderComparison(out io.Writer, points []engine.ComparisonPoint) error {
	_, err := out.Write(md.Run([]byte(ComparisonMarkdown(points)), md.WithExtensions(md.CommonExtensions)))
	return err
}
