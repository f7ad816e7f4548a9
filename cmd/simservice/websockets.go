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
	"html/template"
	"log"
	"net/http"
	"sync"

	"github.com/000alen/nfasim/sim"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event is what the Firehose sends to WebSocket clients.
type Event struct {
	// Type is started, record, ended, ok, or error.
	Type string `json:"type"`

	Run     string            `json:"run,omitempty"`
	Info    *sim.RunInfo      `json:"info,omitempty"`
	Record  *sim.MetricRecord `json:"record,omitempty"`
	Summary *sim.Summary      `json:"summary,omitempty"`

	// Op and Error are for replies to Ops sent by a client.
	Op    string `json:"op,omitempty"`
	Error string `json:"error,omitempty"`
}

// Firehose is a sim.Observer that sends every Event to every
// connected WebSocket client.  Clients can also send Ops.
//
// A client that can't keep up misses Events.  It can catch up with
// /records?since=N.
type Firehose struct {
	// Buffer is the number of Events queued per client.
	Buffer int

	ctx      context.Context
	service  *Service
	upgrader websocket.Upgrader

	// conns maps a connection id to its chan *Event.
	conns sync.Map
}

func NewFirehose(ctx context.Context, s *Service) *Firehose {
	return &Firehose{
		Buffer:  256,
		ctx:     ctx,
		service: s,
	}
}

func (f *Firehose) send(e *Event) {
	f.conns.Range(func(k, v interface{}) bool {
		c := v.(chan *Event)
		select {
		case c <- e:
		default:
			log.Printf("%v firehose blocked", k)
		}
		return true
	})
}

func (f *Firehose) RunStarted(info sim.RunInfo) {
	f.send(&Event{
		Type: "started",
		Run:  info.ID,
		Info: &info,
	})
}

func (f *Firehose) Recorded(info sim.RunInfo, r sim.MetricRecord) {
	f.send(&Event{
		Type:   "record",
		Run:    info.ID,
		Record: &r,
	})
}

func (f *Firehose) RunEnded(s sim.Summary) {
	f.send(&Event{
		Type:    "ended",
		Run:     s.ID,
		Summary: &s,
	})
}

// ServeHTTP upgrades the connection to a WebSocket.
func (f *Firehose) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade error", err)
		return
	}
	defer c.Close()

	events := make(chan *Event, f.Buffer)
	id := uuid.New().String()
	f.conns.Store(id, events)
	defer f.conns.Delete(id)

	ctl := make(chan bool)
	defer close(ctl)

	// All writes happen in this goroutine.
	go func() {
	LOOP:
		for {
			select {
			case <-ctl:
				break LOOP
			case <-f.ctx.Done():
				c.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				break LOOP
			case e := <-events:
				js, err := json.Marshal(e)
				if err != nil {
					log.Printf("firehose Marshal error %v on %#v", err, e)
					continue
				}
				if err = c.WriteMessage(websocket.TextMessage, js); err != nil {
					log.Println("firehose write:", err)
					break LOOP
				}
			}
		}
	}()

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("read error", err)
			}
			break
		}

		reply := &Event{
			Type: "ok",
		}
		var op Op
		if err := json.Unmarshal(message, &op); err != nil {
			reply.Type = "error"
			reply.Error = "can't parse: " + err.Error()
		} else {
			reply.Op = op.Op
			if err = f.service.Do(r.Context(), &op); err != nil {
				reply.Type = "error"
				reply.Error = err.Error()
			}
		}

		select {
		case events <- reply:
		default:
			log.Printf("%v firehose blocked (reply)", id)
		}
	}
}

var uiTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<script>
window.addEventListener("load", function(evt) {

    var output = document.getElementById("output");
    var input = document.getElementById("input");
    var ws;

    var print = function(message) {
        var d = document.createElement("div");
        d.textContent = message;
        output.insertBefore(d, output.firstChild);
    };

    document.getElementById("open").onclick = function(evt) {
        if (ws) {
            return false;
        }
        ws = new WebSocket("ws://{{.}}/ws/api");
        ws.onopen = function(evt) {
            print("OPEN");
        }
        ws.onclose = function(evt) {
            print("CLOSE");
            ws = null;
        }
        ws.onmessage = function(evt) {
            print(evt.data);
        }
        ws.onerror = function(evt) {
            print("ERROR: " + evt.data);
        }
        return false;
    };

    document.getElementById("send").onclick = function(evt) {
        if (!ws) {
            return false;
        }
        print("SEND: " + input.value);
        ws.send(input.value);
        return false;
    };

    document.getElementById("close").onclick = function(evt) {
        if (!ws) {
            return false;
        }
        ws.close();
        return false;
    };

});
</script>
<style>
body { margin: 2em; font-family: monospace }
</style>
</head>
<body>
<form>
<button id="open">Open connection</button>
<button id="close">Close connection</button>
<br><input id="input" size="100" type="text" value='{"op":"start"}'>
<br><button id="send">Send</button>
<hr>
<div id="output"></div>
</body>
</html>
`))

// UI serves a page for watching the firehose and sending Ops.
func (f *Firehose) UI(w http.ResponseWriter, r *http.Request) {
	if err := uiTemplate.Execute(w, r.Host); err != nil {
		log.Printf("firehose UI error %v", err)
	}
}
