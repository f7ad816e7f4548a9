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
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/000alen/nfasim/sim"

	"github.com/gorilla/websocket"
)

func TestFirehose(t *testing.T) {
	_, srv := newService(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/api"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	c.SetReadDeadline(time.Now().Add(10 * time.Second))

	send := func(x interface{}) {
		js, err := json.Marshal(x)
		if err != nil {
			t.Fatal(err)
		}
		if err := c.WriteMessage(websocket.TextMessage, js); err != nil {
			t.Fatal(err)
		}
	}
	read := func() *Event {
		var e Event
		if err := c.ReadJSON(&e); err != nil {
			t.Fatal(err)
		}
		return &e
	}

	// A reply means the connection is registered for events.
	send(&Op{Op: "jump"})
	if e := read(); e.Type != "error" || e.Op != "jump" {
		t.Fatal(e)
	}

	var cfg sim.Config
	if err := json.Unmarshal([]byte(quickConfig), &cfg); err != nil {
		t.Fatal(err)
	}
	send(&Op{Op: "apply", Config: &cfg})
	if e := read(); e.Type != "ok" {
		t.Fatal(e)
	}

	send(&Op{Op: "start"})

	var (
		started, ok bool
		records     int
		summary     *sim.Summary
	)
	for summary == nil {
		switch e := read(); e.Type {
		case "started":
			started = true
		case "ok":
			ok = e.Op == "start"
		case "record":
			records++
			if e.Record.Seq != records {
				t.Fatalf("got seq %d; wanted %d", e.Record.Seq, records)
			}
		case "ended":
			summary = e.Summary
		default:
			t.Fatal(e)
		}
	}

	if !started || records != 30 || summary.State != sim.Completed {
		t.Fatal(started, records, summary.State)
	}
	// The reply to start can come after some events.
	for !ok {
		if e := read(); e.Type == "ok" && e.Op == "start" {
			ok = true
		}
	}
}
