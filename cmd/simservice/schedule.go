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
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/000alen/nfasim/sim"

	"github.com/gorhill/cronexpr"
)

var NoMoreTimes = errors.New("cron expression has no more times")

// Scheduler starts runs according to a cron expression.
//
// The expression can have five fields (minute resolution), six (with
// a trailing year), or seven (seconds first and year last).  See
// https://github.com/gorhill/cronexpr.
type Scheduler struct {
	// Preset, if not empty, is applied before each start.
	Preset string

	expr    *cronexpr.Expression
	service *Service
	fired   int64
}

func NewScheduler(expr string, s *Service) (*Scheduler, error) {
	c, err := cronexpr.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		expr:    c,
		service: s,
	}, nil
}

// Next returns the first scheduled time after t.
func (sc *Scheduler) Next(t time.Time) time.Time {
	return sc.expr.Next(t)
}

// Fired is the number of times the Scheduler has tried to start a
// run.
func (sc *Scheduler) Fired() int {
	return int(atomic.LoadInt64(&sc.fired))
}

// Run waits for each scheduled time and starts a run then.  A run
// that's still going at the next scheduled time isn't interrupted.
func (sc *Scheduler) Run(ctx context.Context) error {
	for {
		next := sc.expr.Next(time.Now())
		if next.IsZero() {
			return NoMoreTimes
		}
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			sc.fire(ctx)
		}
	}
}

func (sc *Scheduler) fire(ctx context.Context) {
	atomic.AddInt64(&sc.fired, 1)

	if sc.Preset != "" {
		err := sc.service.Do(ctx, &Op{Op: "preset", Preset: sc.Preset})
		if err != nil && !errors.Is(err, sim.ErrRunActive) {
			log.Printf("Scheduler couldn't apply preset %s: %v", sc.Preset, err)
			return
		}
	}

	switch err := sc.service.Do(ctx, &Op{Op: "start"}); {
	case err == nil:
		log.Printf("Scheduler started run %s", sc.service.ctl.RunID())
	case errors.Is(err, sim.ErrConcurrentStart):
		log.Printf("Scheduler skipping: %v", err)
	default:
		log.Printf("Scheduler start error: %v", err)
	}
}
