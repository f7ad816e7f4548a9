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
	"testing"
	"time"

	"github.com/000alen/nfasim/sim"
)

type published struct {
	topic   string
	payload []byte
}

func TestMQTTPublisher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan published, 8)
	p := NewMQTTPublisher("sim", 16, func(topic string, payload []byte) error {
		got <- published{topic, payload}
		return nil
	})
	p.Every = 2
	go p.Run(ctx)

	info := sim.RunInfo{ID: "r1"}
	p.RunStarted(info)
	for seq := 1; seq <= 3; seq++ {
		p.Recorded(info, sim.MetricRecord{Seq: seq})
	}
	p.RunEnded(sim.Summary{RunInfo: info, State: sim.Completed})

	want := []struct {
		topic string
		typ   string
	}{
		{"sim/runs", "started"},
		{"sim/records", "record"},
		{"sim/runs", "ended"},
	}
	for i, w := range want {
		select {
		case m := <-got:
			var e Event
			if err := json.Unmarshal(m.payload, &e); err != nil {
				t.Fatal(err)
			}
			if m.topic != w.topic || e.Type != w.typ || e.Run != "r1" {
				t.Fatalf("%d: %s %s", i, m.topic, m.payload)
			}
			if e.Record != nil && e.Record.Seq != 2 {
				t.Fatal(e.Record.Seq)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("%d: timeout", i)
		}
	}
}

func TestMQTTPublisherFullQueue(t *testing.T) {
	p := NewMQTTPublisher("sim", 1, func(topic string, payload []byte) error {
		return nil
	})
	info := sim.RunInfo{ID: "r1"}
	p.RunStarted(info)
	p.Recorded(info, sim.MetricRecord{Seq: 1})
	if n := len(p.queue); n != 1 {
		t.Fatal(n)
	}
}
