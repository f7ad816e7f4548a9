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

// Package main is an HTTP service that runs NFA/DFA load simulations.
//
// The control plane is plain HTTP (see Service.Handler).  Records and
// lifecycle events stream to WebSocket clients at /ws/api and,
// optionally, to an MQTT broker.  Named configuration presets are
// kept in a BoltDB file or in memory.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/000alen/nfasim/automaton"
	"github.com/000alen/nfasim/cmd/simservice/storage"
	"github.com/000alen/nfasim/cmd/simservice/storage/bolt"
	"github.com/000alen/nfasim/sim"
	"github.com/000alen/nfasim/tools"
	"github.com/000alen/nfasim/util"
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC)
}

func main() {

	var (
		httpPort   = flag.String("h", ":8080", "Control plane (HTTP) service port")
		httpDir    = flag.String("d", "", "optional directory that the HTTP service will serve")
		maxConns   = flag.Int("m", 64, "maximum concurrent HTTP connections (0 for no limit)")
		storeFile  = flag.String("p", "", "optional BoltDB filename for presets")
		configFile = flag.String("c", "", "optional initial config (YAML)")
		nfaFile    = flag.String("nfa", "", "optional NFA spec filename")
		dfaFile    = flag.String("dfa", "", "optional DFA spec filename")
		schedule   = flag.String("cron", "", "optional cron expression for starting runs")
		preset     = flag.String("cron-preset", "", "preset to apply before each scheduled run")
		logEvery   = flag.Int("l", 0, "log every nth record (0 for none)")
		debug      = flag.Bool("debug", false, "verbose logging")
		mqttFlags  = NewMQTTFlags(flag.CommandLine)
	)

	flag.Parse()

	util.Logging = *debug

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	nfa, err := readAutomaton(*nfaFile, automaton.SampleNFA())
	if err != nil {
		log.Fatal(err)
	}
	dfa, err := readAutomaton(*dfaFile, automaton.SampleDFA())
	if err != nil {
		log.Fatal(err)
	}

	var store storage.Storage = storage.NewMemStorage()
	if *storeFile != "" {
		b, err := bolt.NewStorage(*storeFile)
		if err != nil {
			log.Fatal(err)
		}
		b.Debug = *debug
		store = b
	}
	if err = store.Open(ctx); err != nil {
		log.Fatal(err)
	}
	defer store.Close(context.Background())

	s, err := NewService(ctx, nfa, dfa, store)
	if err != nil {
		log.Fatal(err)
	}
	s.Observe(&sim.LogObserver{Every: *logEvery})

	if *configFile != "" {
		bs, err := tools.ReadYAMLWithInlines(*configFile)
		if err != nil {
			log.Fatal(err)
		}
		cfg, err := sim.ParseConfig(bs)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Do(ctx, &Op{Op: "apply", Config: cfg}); err != nil {
			log.Fatal(err)
		}
	}

	if *mqttFlags.Broker != "" {
		p, client, err := mqttFlags.Connect()
		if err != nil {
			log.Fatal(err)
		}
		defer client.Disconnect(100)
		s.Observe(p)
		go p.Run(ctx)
	}

	if *schedule != "" {
		sc, err := NewScheduler(*schedule, s)
		if err != nil {
			log.Fatal(err)
		}
		sc.Preset = *preset
		log.Printf("Scheduler next run at %s", sc.Next(time.Now()).Format(time.RFC3339))
		go func() {
			if err := sc.Run(ctx); err != nil {
				log.Printf("Scheduler: %v", err)
			}
		}()
	}

	s.FileDir = *httpDir

	if err = s.HTTPServer(ctx, *httpPort, *maxConns); err != nil {
		log.Fatal(err)
	}

	s.ctl.Stop()

	log.Printf("main terminating")
}

func readAutomaton(filename string, def *automaton.Automaton) (*automaton.Automaton, error) {
	if filename == "" {
		return def, nil
	}
	spec, err := automaton.ReadSpecFile(filename)
	if err != nil {
		return nil, err
	}
	return spec.Compile()
}
