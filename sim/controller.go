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

package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/000alen/nfasim/automaton"
	"github.com/000alen/nfasim/engine"
	"github.com/000alen/nfasim/ledger"
	"github.com/000alen/nfasim/util"
	"github.com/000alen/nfasim/workload"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Controller runs simulations.
//
// A Controller has at most one run at a time.  Each run processes a
// pre-drawn Workload request by request: both engines evaluate the
// input, each engine's Ledger decides admission, and one MetricRecord
// is appended to the run's Stream.
type Controller struct {
	sync.Mutex

	nfa engine.Engine
	dfa engine.Engine

	cfg   Config
	cache workload.Cache

	state      RunState
	info       RunInfo
	ended      time.Time
	processed  int
	nfaLedger  *ledger.Ledger
	dfaLedger  *ledger.Ledger
	nfaLatency latency
	dfaLatency latency
	stream     *Stream

	cancel context.CancelFunc
	done   chan struct{}

	observers Observers
}

// NewController makes a Controller with the DefaultConfig.
//
// The dfa Automaton must be a DFA.  The nfa Automaton can be anything.
func NewController(nfa, dfa *automaton.Automaton) (*Controller, error) {
	d, err := engine.NewDFA(dfa)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		nfa:    engine.NewNFA(nfa),
		dfa:    d,
		cfg:    DefaultConfig(),
		stream: NewStream(),
	}
	c.nfaLedger, c.dfaLedger = c.ledgers(1)
	return c, nil
}

func (c *Controller) ledgers(seed int64) (*ledger.Ledger, *ledger.Ledger) {
	return ledger.New(c.cfg.Capacity, c.cfg.NFAFailureProbability(), rand.New(rand.NewSource(seed+1))),
		ledger.New(c.cfg.Capacity, c.cfg.DFAFailureProbability(), rand.New(rand.NewSource(seed+2)))
}

// Observe adds an Observer.
func (c *Controller) Observe(o Observer) {
	c.Lock()
	c.observers = append(c.observers, o)
	c.Unlock()
}

// Apply validates and then installs the Config.
//
// The change is all or nothing: if the Config is invalid, the
// previous one stays in effect.  The Workload is regenerated only if
// the Config's workload fingerprint changed.  Apply fails with
// ErrRunActive while a run is in progress.
func (c *Controller) Apply(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.Lock()
	defer c.Unlock()

	if c.state.Active() {
		return ErrRunActive
	}

	w, regenerated, err := c.cache.Get(ctx, cfg.WorkloadSpec())
	if err != nil {
		return &InvalidConfiguration{
			Field:   "workload",
			Problem: err.Error(),
		}
	}
	if regenerated {
		util.Logf("sim: generated workload %s (%d requests, seed %d)", w.Fingerprint, w.Len(), w.Seed)
	}

	c.cfg = cfg

	return nil
}

func (c *Controller) Config() Config {
	c.Lock()
	defer c.Unlock()
	return c.cfg
}

// Workload returns the current Workload, which is nil if neither
// Apply nor Start has been called.
func (c *Controller) Workload() *workload.Workload {
	return c.cache.Current()
}

// run is what a run's goroutine needs.
type run struct {
	info     RunInfo
	cfg      Config
	workload *workload.Workload
	nfa      *ledger.Ledger
	dfa      *ledger.Ledger
	stream   *Stream
	done     chan struct{}
	cancel   context.CancelFunc
}

// Start begins a run in a new goroutine.
//
// The ledgers, counters, latency averages, and Stream all start
// fresh.  The run ends when all requests are processed, when Stop is
// called, or when the given context is done.
//
// If a run is already in progress, Start returns ErrConcurrentStart
// and does nothing else.
func (c *Controller) Start(ctx context.Context) error {
	c.Lock()

	if c.state.Active() {
		c.Unlock()
		return ErrConcurrentStart
	}

	w, _, err := c.cache.Get(ctx, c.cfg.WorkloadSpec())
	if err != nil {
		c.Unlock()
		return err
	}

	seed := c.cfg.Seed
	if seed == 0 {
		seed = w.Seed
	}

	ctx, cancel := context.WithCancel(ctx)

	c.nfaLedger, c.dfaLedger = c.ledgers(seed)
	c.processed = 0
	c.nfaLatency = latency{}
	c.dfaLatency = latency{}
	c.stream = NewStream()
	c.ended = time.Time{}
	c.info = RunInfo{
		ID:          uuid.New().String(),
		Config:      c.cfg,
		Fingerprint: w.Fingerprint,
		Seed:        w.Seed,
		Requests:    w.Len(),
		Started:     time.Now().UTC(),
	}
	c.state = Running
	c.cancel = cancel
	c.done = make(chan struct{})

	r := &run{
		info:     c.info,
		cfg:      c.cfg,
		workload: w,
		nfa:      c.nfaLedger,
		dfa:      c.dfaLedger,
		stream:   c.stream,
		done:     c.done,
		cancel:   cancel,
	}
	observers := c.observers

	c.Unlock()

	observers.RunStarted(r.info)

	go c.run(ctx, r, observers)

	return nil
}

// Run starts a run and waits for it to end.
func (c *Controller) Run(ctx context.Context) (Summary, error) {
	if err := c.Start(ctx); err != nil {
		return Summary{}, err
	}
	if err := c.Wait(ctx); err != nil {
		return c.Summary(), err
	}
	return c.Summary(), nil
}

func (c *Controller) run(ctx context.Context, r *run, observers Observers) {
	defer close(r.done)
	defer r.cancel()

	final := Completed

LOOP:
	for i, input := range r.workload.Inputs {
		if err := c.waitWhilePaused(ctx, r.cfg.PollInterval.Duration); err != nil {
			final = Stopped
			break
		}
		if ctx.Err() != nil {
			final = Stopped
			break
		}

		nx, dx, err := c.evaluate(input, r.cfg.Parallel)
		if err != nil {
			util.Logf("sim: run %s evaluation error %s", r.info.ID, err)
			final = Stopped
			break
		}

		nv := r.nfa.Admit(nx.Steps)
		dv := r.dfa.Admit(dx.Steps)

		c.Lock()
		rec := MetricRecord{
			Seq: i + 1,
			NFA: kindMetrics(r.nfa.Snapshot(), nx, nv, c.nfaLatency.add(nx)),
			DFA: kindMetrics(r.dfa.Snapshot(), dx, dv, c.dfaLatency.add(dx)),
		}
		c.processed++
		r.stream.Append(rec)
		c.Unlock()

		observers.Recorded(r.info, rec)

		if pacing := r.cfg.Pacing.Duration; 0 < pacing {
			select {
			case <-ctx.Done():
				final = Stopped
				break LOOP
			case <-time.After(pacing):
			}
		}
	}

	c.Lock()
	c.state = final
	c.ended = time.Now().UTC()
	s := c.summary()
	c.Unlock()

	r.stream.Close()

	observers.RunEnded(s)
}

func (c *Controller) waitWhilePaused(ctx context.Context, poll time.Duration) error {
	for {
		if c.State() != Paused {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
	}
}

// evaluate runs both engines on the input, concurrently if parallel.
func (c *Controller) evaluate(input string, parallel bool) (nx, dx *engine.Execution, err error) {
	if !parallel {
		return c.nfa.Exec(input), c.dfa.Exec(input), nil
	}
	var g errgroup.Group
	g.Go(func() error {
		nx = c.nfa.Exec(input)
		return nil
	})
	g.Go(func() error {
		dx = c.dfa.Exec(input)
		return nil
	})
	err = g.Wait()
	return
}

// Pause suspends a running run before its next request.
func (c *Controller) Pause() error {
	c.Lock()
	defer c.Unlock()
	if c.state != Running {
		return ErrNotRunning
	}
	c.state = Paused
	return nil
}

// Resume continues a paused run.
func (c *Controller) Resume() error {
	c.Lock()
	defer c.Unlock()
	if c.state != Paused {
		return ErrNotPaused
	}
	c.state = Running
	return nil
}

// Stop cancels the current run, if any.  The run ends in the Stopped
// state shortly afterwards.  Use Wait to wait for that.
func (c *Controller) Stop() {
	c.Lock()
	defer c.Unlock()
	if c.state.Active() && c.cancel != nil {
		c.cancel()
	}
}

// Wait waits for the current run, if any, to end.
func (c *Controller) Wait(ctx context.Context) error {
	c.Lock()
	done := c.done
	c.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) State() RunState {
	c.Lock()
	defer c.Unlock()
	return c.state
}

// Active reports whether a run is in progress.
func (c *Controller) Active() bool {
	return c.State().Active()
}

// Processed is the number of requests processed so far in the
// current (or last) run.
func (c *Controller) Processed() int {
	c.Lock()
	defer c.Unlock()
	return c.processed
}

// RunID is the id of the current (or last) run.  It's empty if
// there's never been a run.
func (c *Controller) RunID() string {
	c.Lock()
	defer c.Unlock()
	return c.info.ID
}

// Stream is the Stream for the current (or last) run.
func (c *Controller) Stream() *Stream {
	c.Lock()
	defer c.Unlock()
	return c.stream
}

// Records returns a copy of the current (or last) run's records.
func (c *Controller) Records() []MetricRecord {
	return c.Stream().Records()
}

// Summary describes the current (or last) run.
func (c *Controller) Summary() Summary {
	c.Lock()
	defer c.Unlock()
	return c.summary()
}

func (c *Controller) summary() Summary {
	return Summary{
		RunInfo:         c.info,
		State:           c.state,
		Processed:       c.processed,
		Ended:           c.ended,
		NFA:             c.nfaLedger.Snapshot(),
		DFA:             c.dfaLedger.Snapshot(),
		NFAAvgLatencyMs: c.nfaLatency.mean(),
		DFAAvgLatencyMs: c.dfaLatency.mean(),
	}
}
