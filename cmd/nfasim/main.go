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

// Package main is a command-line tool for NFA/DFA load simulations.
//
//	nfasim run -c config.yaml        # JSON lines of records
//	nfasim report -c config.yaml     # HTML run report
//	nfasim compare -n 30             # NFA vs DFA work on x=xxx...
//	nfasim analyze|dot|mermaid|html [-f automaton.yaml] [nfa|dfa]
//	nfasim expect suite.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC)
}

func Usage() {
	fmt.Fprintf(os.Stderr, `Usage: nfasim COMMAND [OPTIONS]

Commands:
  run      run a simulation and write records as JSON lines
  report   run a simulation and write an HTML report
  compare  compare NFA and DFA work on worst-case inputs
  analyze  describe an automaton
  dot      write an automaton in Graphviz DOT
  mermaid  write an automaton as a Mermaid flowchart
  html     write an HTML page documenting an automaton
  expect   check an expectation suite

Use "nfasim COMMAND -h" for a command's options.
`)
}

type command func(ctx context.Context, args []string, out io.Writer) error

var commands = map[string]command{
	"run":     runCmd,
	"report":  reportCmd,
	"compare": compareCmd,
	"analyze": analyzeCmd,
	"dot":     dotCmd,
	"mermaid": mermaidCmd,
	"html":    htmlCmd,
	"expect":  expectCmd,
}

func main() {
	if len(os.Args) < 2 {
		Usage()
		os.Exit(1)
	}

	cmd, have := commands[os.Args[1]]
	if !have {
		Usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := cmd(ctx, os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// flags makes a FlagSet for a command, including the shared -debug
// flag.
func flags(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	debug := fs.Bool("debug", false, "verbose logging")
	return fs, debug
}
