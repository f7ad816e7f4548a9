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
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/000alen/nfasim/automaton"
	"github.com/000alen/nfasim/cmd/simservice/storage"
	"github.com/000alen/nfasim/sim"
	"github.com/000alen/nfasim/tools"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"
)

// Service exposes a sim.Controller over HTTP.
type Service struct {
	// ReportRows is the most records shown by /report.
	ReportRows int

	// FileDir, if not empty, is served under /f/.
	FileDir string

	// ctx is the context for runs, which outlive the requests
	// that start them.
	ctx context.Context

	ctl      *sim.Controller
	nfa, dfa *automaton.Automaton
	store    storage.Storage
	registry *prometheus.Registry
	firehose *Firehose
}

// NewService makes a Service for a Controller running the given
// automata.
//
// The Service registers a sim.Collector and its Firehose as
// observers of the Controller.
func NewService(ctx context.Context, nfa, dfa *automaton.Automaton, store storage.Storage) (*Service, error) {
	ctl, err := sim.NewController(nfa, dfa)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collector, err := sim.NewCollector(registry)
	if err != nil {
		return nil, err
	}
	ctl.Observe(collector)

	s := &Service{
		ReportRows: 50,
		ctx:        ctx,
		ctl:        ctl,
		nfa:        nfa,
		dfa:        dfa,
		store:      store,
		registry:   registry,
	}
	s.firehose = NewFirehose(ctx, s)
	ctl.Observe(s.firehose)

	return s, nil
}

// Observe adds another observer of the Service's runs.
func (s *Service) Observe(o sim.Observer) {
	s.ctl.Observe(o)
}

// Op is a control operation, which can arrive by HTTP or over a
// WebSocket.
type Op struct {
	// Op is one of start, pause, resume, stop, apply, or preset.
	Op string `json:"op"`

	// Config is the configuration for apply.
	Config *sim.Config `json:"config,omitempty"`

	// Preset is the name of the preset for preset.
	Preset string `json:"preset,omitempty"`
}

var UnknownOp = errors.New("unknown op")

// Do performs the operation.
func (s *Service) Do(ctx context.Context, op *Op) error {
	switch op.Op {
	case "start":
		return s.ctl.Start(s.ctx)
	case "pause":
		return s.ctl.Pause()
	case "resume":
		return s.ctl.Resume()
	case "stop":
		s.ctl.Stop()
		return nil
	case "apply":
		if op.Config == nil {
			return &sim.InvalidConfiguration{
				Field:   "config",
				Problem: "missing",
			}
		}
		return s.ctl.Apply(ctx, *op.Config)
	case "preset":
		p, err := s.store.GetPreset(ctx, op.Preset)
		if err != nil {
			return err
		}
		return s.ctl.Apply(ctx, p.Config)
	}
	return UnknownOp
}

// status maps an error to an HTTP status code.
func status(err error) int {
	var invalid *sim.InvalidConfiguration
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, storage.BadName),
		errors.Is(err, UnknownOp):
		return http.StatusBadRequest
	case errors.Is(err, sim.ErrConcurrentStart),
		errors.Is(err, sim.ErrRunActive),
		errors.Is(err, sim.ErrNotRunning),
		errors.Is(err, sim.ErrNotPaused):
		return http.StatusConflict
	case errors.Is(err, storage.NotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the body of an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{
		Error: err.Error(),
	}
	var invalid *sim.InvalidConfiguration
	if errors.As(err, &invalid) {
		resp.Field = invalid.Field
	}
	code := status(err)
	if code == http.StatusInternalServerError {
		log.Printf("Service error %v", err)
	}
	writeJSON(w, code, &resp)
}

func writeJSON(w http.ResponseWriter, code int, x interface{}) {
	js, err := json.Marshal(x)
	if err != nil {
		log.Printf("Service Marshal error %v on %#v", err, x)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(js)
	w.Write([]byte("\n"))
}

func only(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// Handler returns the control plane's routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()

	for _, name := range []string{"start", "pause", "resume", "stop"} {
		op := &Op{Op: name}
		mux.HandleFunc("/"+name, only(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
			if err := s.Do(r.Context(), op); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, s.ctl.Summary())
		}))
	}

	mux.HandleFunc("/config", s.handleConfig)
	mux.HandleFunc("/state", only(http.MethodGet, s.handleState))
	mux.HandleFunc("/records", only(http.MethodGet, s.handleRecords))
	mux.HandleFunc("/report", only(http.MethodGet, s.handleReport))
	mux.HandleFunc("/presets", only(http.MethodGet, s.handlePresetList))
	mux.HandleFunc("/presets/", s.handlePreset)
	mux.HandleFunc("/automata/", only(http.MethodGet, s.handleAutomaton))
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.Handle("/ws/api", s.firehose)
	mux.HandleFunc("/ws/ui", s.firehose.UI)

	if s.FileDir != "" {
		fs := http.FileServer(http.Dir(s.FileDir))
		mux.Handle("/f/", http.StripPrefix("/f", fs))
	}

	return mux
}

// handleConfig returns the current configuration for GET.  For PUT
// or POST, the body is laid over the current configuration, and the
// result is applied.
func (s *Service) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ctl.Config())
	case http.MethodPut, http.MethodPost:
		cfg := s.ctl.Config()
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, &sim.InvalidConfiguration{
				Field:   "body",
				Problem: err.Error(),
			})
			return
		}
		if err := s.Do(r.Context(), &Op{Op: "apply", Config: &cfg}); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.ctl.Config())
	default:
		w.Header().Set("Allow", "GET, PUT, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Service) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctl.Summary())
}

// handleRecords returns the current run's records.  With ?since=N,
// only records with Seq greater than N are returned.
func (s *Service) handleRecords(w http.ResponseWriter, r *http.Request) {
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, &sim.InvalidConfiguration{
				Field:   "since",
				Problem: err.Error(),
			})
			return
		}
		since = n
	}
	writeJSON(w, http.StatusOK, s.ctl.Stream().Since(since))
}

func (s *Service) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tools.RenderRunReport(w, s.ctl.Summary(), s.ctl.Records(), s.ReportRows); err != nil {
		log.Printf("Service report error %v", err)
	}
}

func (s *Service) handlePresetList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.ListPresets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// handlePreset serves /presets/NAME and /presets/NAME/apply.
//
// PUT (or POST) /presets/NAME stores the current configuration
// unless the body is a Preset with a configuration.
func (s *Service) handlePreset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/presets/")
	ctx := r.Context()

	if strings.HasSuffix(name, "/apply") {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		name = strings.TrimSuffix(name, "/apply")
		if err := s.Do(ctx, &Op{Op: "preset", Preset: name}); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.ctl.Config())
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.store.GetPreset(ctx, name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodPut, http.MethodPost:
		p := storage.Preset{
			Config: s.ctl.Config(),
		}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				writeError(w, &sim.InvalidConfiguration{
					Field:   "body",
					Problem: err.Error(),
				})
				return
			}
		}
		if err := p.Config.Validate(); err != nil {
			writeError(w, err)
			return
		}
		p.Name = name
		p.Saved = time.Now().UTC()
		if err := s.store.PutPreset(ctx, &p); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &p)

	case http.MethodDelete:
		if err := s.store.RemPreset(ctx, name); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAutomaton serves /automata/nfa and /automata/dfa.  The
// format parameter can be json (the default), analysis, dot,
// mermaid, or html.
func (s *Service) handleAutomaton(w http.ResponseWriter, r *http.Request) {
	var a *automaton.Automaton
	switch strings.TrimPrefix(r.URL.Path, "/automata/") {
	case "nfa":
		a = s.nfa
	case "dfa":
		a = s.dfa
	default:
		http.NotFound(w, r)
		return
	}

	var err error
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, a.Spec())
	case "analysis":
		writeJSON(w, http.StatusOK, tools.Analyze(a))
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		err = tools.Dot(a, nopCloser{w})
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = tools.Mermaid(a, nopCloser{w}, nil)
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = tools.RenderAutomatonPage(a, w, nil, true)
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
	}
	if err != nil {
		log.Printf("Service automaton %s error %v", a.Name(), err)
	}
}

type nopCloser struct {
	http.ResponseWriter
}

func (nopCloser) Close() error {
	return nil
}

// HTTPServer serves the Handler on the given address until the
// context is done.
//
// If maxConns is positive, at most that many connections are
// accepted at once.
func (s *Service) HTTPServer(ctx context.Context, addr string, maxConns int) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if 0 < maxConns {
		l = netutil.LimitListener(l, maxConns)
	}
	return s.serve(ctx, l)
}

func (s *Service) serve(ctx context.Context, l net.Listener) error {
	server := &http.Server{
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil {
			log.Printf("Service.HTTPServer shutdown error %v", err)
		}
	}()

	log.Printf("Service.HTTPServer listening on %s", l.Addr())

	if err := server.Serve(l); err != http.ErrServerClosed {
		return err
	}
	return nil
}
