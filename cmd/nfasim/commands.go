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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/000alen/nfasim/automaton"
	"github.com/000alen/nfasim/engine"
	"github.com/000alen/nfasim/sim"
	"github.com/000alen/nfasim/tools"
	"github.com/000alen/nfasim/util"
	"github.com/000alen/nfasim/workload"
)

// loadConfig reads a YAML config (with %inline support) or returns
// the default config if filename is empty.
func loadConfig(filename string) (sim.Config, error) {
	if filename == "" {
		return sim.DefaultConfig(), nil
	}
	bs, err := tools.ReadYAMLWithInlines(filename)
	if err != nil {
		return sim.Config{}, err
	}
	cfg, err := sim.ParseConfig(bs)
	if err != nil {
		return sim.Config{}, err
	}
	return *cfg, nil
}

// loadAutomaton returns a sample automaton ("nfa" or "dfa") or, if
// filename isn't empty, the automaton in that file.
func loadAutomaton(filename string, args []string) (*automaton.Automaton, error) {
	if filename != "" {
		spec, err := automaton.ReadSpecFile(filename)
		if err != nil {
			return nil, err
		}
		return spec.Compile()
	}
	which := "nfa"
	if 0 < len(args) {
		which = args[0]
	}
	switch strings.ToLower(which) {
	case "nfa":
		return automaton.SampleNFA(), nil
	case "dfa":
		return automaton.SampleDFA(), nil
	}
	return nil, fmt.Errorf("unknown automaton %q (want nfa or dfa)", which)
}

// simulate runs the configured simulation to the end.
func simulate(ctx context.Context, filename string, observers ...sim.Observer) (*sim.Controller, sim.Summary, error) {
	cfg, err := loadConfig(filename)
	if err != nil {
		return nil, sim.Summary{}, err
	}
	c, err := sim.NewController(automaton.SampleNFA(), automaton.SampleDFA())
	if err != nil {
		return nil, sim.Summary{}, err
	}
	for _, o := range observers {
		c.Observe(o)
	}
	if err = c.Apply(ctx, cfg); err != nil {
		return nil, sim.Summary{}, err
	}
	s, err := c.Run(ctx)
	return c, s, err
}

// jsonLines is an Observer that writes each record as a line of
// JSON.
type jsonLines struct {
	enc *json.Encoder
	err error
}

func (o *jsonLines) RunStarted(info sim.RunInfo) {
}

func (o *jsonLines) Recorded(info sim.RunInfo, r sim.MetricRecord) {
	if o.err == nil {
		o.err = o.enc.Encode(&r)
	}
}

func (o *jsonLines) RunEnded(s sim.Summary) {
}

func runCmd(ctx context.Context, args []string, out io.Writer) error {
	fs, debug := flags("run")
	var (
		configFile = fs.String("c", "", "config filename (YAML)")
		every      = fs.Int("l", 0, "log every nth record (0 for none)")
		summary    = fs.Bool("s", true, "write the summary as the last line")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	util.Logging = *debug

	lines := &jsonLines{enc: json.NewEncoder(out)}
	_, s, err := simulate(ctx, *configFile, lines, &sim.LogObserver{Every: *every})
	if err != nil {
		return err
	}
	if lines.err != nil {
		return lines.err
	}
	if *summary {
		return lines.enc.Encode(&s)
	}
	return nil
}

func reportCmd(ctx context.Context, args []string, out io.Writer) error {
	fs, debug := flags("report")
	var (
		configFile = fs.String("c", "", "config filename (YAML)")
		rows       = fs.Int("r", 20, "maximum number of records to show")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	util.Logging = *debug

	c, s, err := simulate(ctx, *configFile)
	if err != nil {
		return err
	}
	return tools.RenderRunReport(out, s, c.Records(), *rows)
}

func compareCmd(ctx context.Context, args []string, out io.Writer) error {
	fs, debug := flags("compare")
	var (
		n     = fs.Int("n", 30, "largest input size")
		limit = fs.Int("limit", engine.DefaultTreeLimit, "computation tree node limit")
		html  = fs.Bool("html", false, "write HTML instead of Markdown")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	util.Logging = *debug

	points, err := engine.Compare(automaton.SampleNFA(), automaton.SampleDFA(), *n, workload.WorstInput, *limit)
	if err != nil {
		return err
	}
	if *html {
		return tools.RenderComparison(out, points)
	}
	_, err = io.WriteString(out, tools.ComparisonMarkdown(points))
	return err
}

func analyzeCmd(ctx context.Context, args []string, out io.Writer) error {
	fs, _ := flags("analyze")
	filename := fs.String("f", "", "automaton filename (YAML or JSON)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := loadAutomaton(*filename, fs.Args())
	if err != nil {
		return err
	}
	js, err := json.MarshalIndent(tools.Analyze(a), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", js)
	return err
}

// nopCloser keeps Dot and Mermaid from closing the command's output.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// highlights parses a comma-separated list of state ids.
func highlights(s string) ([]automaton.StateID, error) {
	var ids []automaton.StateID
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		var id int
		if _, err := fmt.Sscanf(f, "%d", &id); err != nil {
			return nil, fmt.Errorf("bad state id %q", f)
		}
		ids = append(ids, automaton.StateID(id))
	}
	return ids, nil
}

func dotCmd(ctx context.Context, args []string, out io.Writer) error {
	fs, _ := flags("dot")
	var (
		filename = fs.String("f", "", "automaton filename (YAML or JSON)")
		hot      = fs.String("hot", "", "comma-separated states to highlight")
		png      = fs.String("png", "", "write basename.dot and basename.png (requires Graphviz)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := loadAutomaton(*filename, fs.Args())
	if err != nil {
		return err
	}
	ids, err := highlights(*hot)
	if err != nil {
		return err
	}
	if *png != "" {
		name, err := tools.PNG(a, *png, ids...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", name)
		return err
	}
	return tools.Dot(a, nopCloser{out}, ids...)
}

func mermaidCmd(ctx context.Context, args []string, out io.Writer) error {
	fs, _ := flags("mermaid")
	var (
		filename = fs.String("f", "", "automaton filename (YAML or JSON)")
		hot      = fs.String("hot", "", "comma-separated states to highlight")
		docs     = fs.Bool("docs", false, "show state docs")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := loadAutomaton(*filename, fs.Args())
	if err != nil {
		return err
	}
	ids, err := highlights(*hot)
	if err != nil {
		return err
	}
	return tools.Mermaid(a, nopCloser{out}, &tools.MermaidOpts{ShowDocs: *docs}, ids...)
}

func htmlCmd(ctx context.Context, args []string, out io.Writer) error {
	fs, _ := flags("html")
	var (
		filename = fs.String("f", "", "automaton filename (YAML or JSON)")
		css      = fs.String("css", "", "comma-separated CSS files to link")
		graph    = fs.Bool("g", true, "include a Mermaid graph")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := loadAutomaton(*filename, fs.Args())
	if err != nil {
		return err
	}
	var cssFiles []string
	if *css != "" {
		cssFiles = strings.Split(*css, ",")
	}
	return tools.RenderAutomatonPage(a, out, cssFiles, *graph)
}

// Failed is returned by expect when some expectations weren't met.
type Failed struct {
	Count int
}

func (e *Failed) Error() string {
	return fmt.Sprintf("%d expectation(s) failed", e.Count)
}

func expectCmd(ctx context.Context, args []string, out io.Writer) error {
	fs, _ := flags("expect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("need at least one suite filename")
	}

	failed := 0
	for _, filename := range fs.Args() {
		s, err := tools.ReadSuite(filename)
		if err != nil {
			return err
		}
		failures, err := s.Check()
		if err != nil {
			return err
		}
		for _, f := range failures {
			fmt.Fprintf(out, "%s: %s\n", filename, f.Error())
		}
		fmt.Fprintf(out, "%s: %d of %d passed\n", filename, len(s.Expectations)-len(failures), len(s.Expectations))
		failed += len(failures)
	}
	if 0 < failed {
		return &Failed{Count: failed}
	}
	return nil
}
