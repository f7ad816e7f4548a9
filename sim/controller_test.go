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
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/000alen/nfasim/automaton"
	"github.com/000alen/nfasim/ledger"
	. "github.com/000alen/nfasim/util/testutil"
)

func newController(t *testing.T) *Controller {
	c, err := NewController(automaton.SampleNFA(), automaton.SampleDFA())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func quickConfig(requests int) Config {
	cfg := DefaultConfig()
	cfg.Requests = requests
	cfg.Pattern = "two-symbol"
	cfg.Pacing = Duration{}
	cfg.PollInterval = Duration{time.Millisecond}
	cfg.Seed = 7
	cfg.Capacity = ledger.Capacity{Compute: 20000, Memory: 10000, IO: 5000}
	return cfg
}

func withoutLatency(rs []MetricRecord) []MetricRecord {
	for i := range rs {
		rs[i].NFA.AvgLatencyMs = 0
		rs[i].DFA.AvgLatencyMs = 0
	}
	return rs
}

func runToEnd(t *testing.T, c *Controller) Summary {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := c.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewControllerWrongKind(t *testing.T) {
	if _, err := NewController(automaton.SampleNFA(), automaton.SampleNFA()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRunCompletes(t *testing.T) {
	c := newController(t)
	if c.State() != Idle {
		t.Fatal(c.State())
	}
	if err := c.Apply(context.Background(), quickConfig(50)); err != nil {
		t.Fatal(err)
	}

	s := runToEnd(t, c)
	if s.State != Completed || c.State() != Completed {
		t.Fatal(s.State)
	}
	if s.Processed != 50 || c.Processed() != 50 {
		t.Fatal(s.Processed)
	}
	if s.ID == "" || s.ID != c.RunID() {
		t.Fatal(s.ID)
	}

	rs := c.Records()
	if len(rs) != 50 {
		t.Fatal(len(rs))
	}

	var prev MetricRecord
	for i, r := range rs {
		if r.Seq != i+1 {
			t.Fatal(JS(r))
		}
		for _, pair := range [][2]KindMetrics{{prev.NFA, r.NFA}, {prev.DFA, r.DFA}} {
			before, after := pair[0], pair[1]
			if after.Compute < before.Compute || after.Memory < before.Memory || after.IO < before.IO {
				t.Fatalf("usage went down at %d", r.Seq)
			}
			if after.Dropped < before.Dropped {
				t.Fatalf("drops went down at %d", r.Seq)
			}
		}
		if r.NFA.Steps <= r.DFA.Steps && 2 < r.NFA.Steps {
			t.Fatal(JS(r))
		}
		prev = r
	}

	for _, l := range []ledger.Snapshot{s.NFA, s.DFA} {
		if l.Accepted+l.Dropped() != s.Processed {
			t.Fatal(JS(l))
		}
	}
	if last, _ := c.Stream().Last(); last.NFA.Dropped != s.NFA.Dropped() {
		t.Fatal(JS(last))
	}
	if s.NFA.Used.Compute <= s.DFA.Used.Compute {
		t.Fatal(JS(s))
	}
	if !c.Stream().Closed() {
		t.Fatal("stream not closed")
	}
}

func TestRepeatedRuns(t *testing.T) {
	c := newController(t)
	if err := c.Apply(context.Background(), quickConfig(40)); err != nil {
		t.Fatal(err)
	}
	w := c.Workload()

	first := runToEnd(t, c)
	a := withoutLatency(c.Records())

	second := runToEnd(t, c)
	b := withoutLatency(c.Records())

	if first.ID == second.ID {
		t.Fatal("same run id")
	}
	if c.Workload() != w {
		t.Fatal("workload regenerated")
	}
	if b[0].Seq != 1 || len(b) != 40 {
		t.Fatal(JS(b[0]))
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("runs differ")
	}
}

func TestRepeatedRunsWithoutSeed(t *testing.T) {
	c := newController(t)
	cfg := quickConfig(30)
	cfg.Seed = 0
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	runToEnd(t, c)
	a := withoutLatency(c.Records())
	runToEnd(t, c)
	b := withoutLatency(c.Records())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("runs differ")
	}
}

func TestParallel(t *testing.T) {
	c := newController(t)
	cfg := quickConfig(30)
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	runToEnd(t, c)
	a := withoutLatency(c.Records())

	cfg.Parallel = true
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	runToEnd(t, c)
	b := withoutLatency(c.Records())

	if !reflect.DeepEqual(a, b) {
		t.Fatal("parallel evaluation changed the results")
	}
}

func TestPauseResume(t *testing.T) {
	c := newController(t)
	cfg := quickConfig(60)
	cfg.Pacing = Duration{time.Millisecond}
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	runToEnd(t, c)
	want := withoutLatency(c.Records())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	WaitFor(t, 5*time.Second, "some records", func() bool {
		return 5 <= c.Processed()
	})
	if err := c.Pause(); err != nil {
		t.Fatal(err)
	}
	if c.State() != Paused || !c.Active() {
		t.Fatal(c.State())
	}
	if err := c.Pause(); err != ErrNotRunning {
		t.Fatal(err)
	}

	// At most one request can be in flight when Pause is called.
	time.Sleep(20 * time.Millisecond)
	n := c.Processed()
	time.Sleep(30 * time.Millisecond)
	if c.Processed() != n {
		t.Fatal("progress while paused")
	}

	if err := c.Resume(); err != nil {
		t.Fatal(err)
	}
	if err := c.Resume(); err != ErrNotPaused {
		t.Fatal(err)
	}
	if err := c.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	if c.State() != Completed {
		t.Fatal(c.State())
	}
	if got := withoutLatency(c.Records()); !reflect.DeepEqual(got, want) {
		t.Fatal("pausing changed the results")
	}
}

func TestConcurrentStart(t *testing.T) {
	c := newController(t)
	cfg := quickConfig(1000)
	cfg.Pacing = Duration{5 * time.Millisecond}
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	id := c.RunID()

	if err := c.Start(ctx); err != ErrConcurrentStart {
		t.Fatal(err)
	}
	if c.RunID() != id {
		t.Fatal("run id changed")
	}
	if err := c.Apply(ctx, cfg); err != ErrRunActive {
		t.Fatal(err)
	}

	c.Stop()
	if err := c.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if c.State() != Stopped {
		t.Fatal(c.State())
	}
	if n := c.Processed(); 1000 <= n || n != len(c.Records()) {
		t.Fatal(n)
	}

	// A new run is fine now.
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	c.Stop()
	c.Wait(ctx)
}

func TestStopWhilePaused(t *testing.T) {
	c := newController(t)
	cfg := quickConfig(1000)
	cfg.Pacing = Duration{time.Millisecond}
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Pause(); err != nil {
		t.Fatal(err)
	}
	c.Stop()
	if err := c.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if c.State() != Stopped {
		t.Fatal(c.State())
	}
}

func TestCancelViaContext(t *testing.T) {
	c := newController(t)
	cfg := quickConfig(1000)
	cfg.Pacing = Duration{time.Millisecond}
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := c.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.State() != Stopped {
		t.Fatal(c.State())
	}
}

func TestApplyInvalid(t *testing.T) {
	c := newController(t)
	good := quickConfig(10)
	if err := c.Apply(context.Background(), good); err != nil {
		t.Fatal(err)
	}

	bad := good
	bad.Capacity.Memory = -1
	err := c.Apply(context.Background(), bad)
	var ic *InvalidConfiguration
	if !errors.As(err, &ic) || ic.Field != "capacity.memory" {
		t.Fatal(err)
	}
	if c.Config() != good {
		t.Fatal(JS(c.Config()))
	}

	bad = good
	bad.Pattern = "script"
	bad.Script = "function render(size) { while (true) {} }"
	if err := c.Apply(context.Background(), bad); !errors.As(err, &ic) {
		t.Fatal(err)
	}
	if c.Config() != good {
		t.Fatal(JS(c.Config()))
	}
}

func TestApplyRegeneratesOnChange(t *testing.T) {
	c := newController(t)
	cfg := quickConfig(10)
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	w := c.Workload()

	cfg.NFAFailurePercent = 50
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	if c.Workload() != w {
		t.Fatal("regenerated for a non-workload change")
	}

	cfg.Pattern = "email"
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	if c.Workload() == w {
		t.Fatal("not regenerated")
	}
}

func TestAllFailures(t *testing.T) {
	c := newController(t)
	cfg := quickConfig(25)
	cfg.NFAFailurePercent = 100
	cfg.DFAFailurePercent = 250
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	s := runToEnd(t, c)
	for _, l := range []ledger.Snapshot{s.NFA, s.DFA} {
		if l.Used != (ledger.Resources{}) || l.FailureDrops != 25 {
			t.Fatal(JS(s))
		}
	}
	last, _ := c.Stream().Last()
	if last.NFA.Compute != 0 || last.DFA.Dropped != 25 {
		t.Fatal(JS(last))
	}
}

func TestZeroCapacity(t *testing.T) {
	c := newController(t)
	cfg := quickConfig(10)
	cfg.Capacity = ledger.Capacity{}
	if err := c.Apply(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	s := runToEnd(t, c)
	if s.NFA.CapacityDrops != 10 || s.DFA.Usage != (ledger.Usage{}) {
		t.Fatal(JS(s))
	}
}

type recorder struct {
	sync.Mutex
	started, recorded int
	ended             []Summary
}

func (r *recorder) RunStarted(info RunInfo) {
	r.Lock()
	r.started++
	r.Unlock()
}

func (r *recorder) Recorded(info RunInfo, m MetricRecord) {
	r.Lock()
	r.recorded++
	r.Unlock()
}

func (r *recorder) RunEnded(s Summary) {
	r.Lock()
	r.ended = append(r.ended, s)
	r.Unlock()
}

func TestObservers(t *testing.T) {
	c := newController(t)
	if err := c.Apply(context.Background(), quickConfig(20)); err != nil {
		t.Fatal(err)
	}
	r := &recorder{}
	c.Observe(r)
	c.Observe(&LogObserver{Every: 10})

	runToEnd(t, c)

	r.Lock()
	defer r.Unlock()
	if r.started != 1 || r.recorded != 20 || len(r.ended) != 1 {
		t.Fatal(r.started, r.recorded, len(r.ended))
	}
	if r.ended[0].State != Completed || r.ended[0].Processed != 20 {
		t.Fatal(JS(r.ended[0]))
	}
}
