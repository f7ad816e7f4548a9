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
	"github.com/prometheus/client_golang/prometheus"
)

// Collector is an Observer that maintains Prometheus metrics.
type Collector struct {
	processed *prometheus.CounterVec
	admitted  *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	usage     *prometheus.GaugeVec
	latency   *prometheus.GaugeVec
	runs      *prometheus.CounterVec
	state     prometheus.Gauge
}

// NewCollector makes a Collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		processed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfasim_requests_processed_total",
				Help: "Requests evaluated by each engine",
			},
			[]string{"kind"},
		),
		admitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfasim_requests_admitted_total",
				Help: "Requests admitted by each engine's ledger",
			},
			[]string{"kind"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfasim_requests_dropped_total",
				Help: "Requests dropped by each engine's ledger",
			},
			[]string{"kind"},
		),
		usage: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nfasim_resource_usage_ratio",
				Help: "Fraction of capacity used in the current run",
			},
			[]string{"kind", "dimension"},
		),
		latency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nfasim_latency_avg_milliseconds",
				Help: "Mean engine latency in the current run",
			},
			[]string{"kind"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfasim_runs_total",
				Help: "Runs by final state",
			},
			[]string{"state"},
		),
		state: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "nfasim_run_state",
				Help: "Run state (0 idle, 1 running, 2 paused, 3 completed, 4 stopped)",
			},
		),
	}

	for _, x := range []prometheus.Collector{
		c.processed, c.admitted, c.dropped, c.usage, c.latency, c.runs, c.state,
	} {
		if err := reg.Register(x); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Collector) RunStarted(info RunInfo) {
	c.state.Set(float64(Running))
	c.usage.Reset()
	c.latency.Reset()
}

func (c *Collector) kind(kind string, m KindMetrics) {
	c.processed.WithLabelValues(kind).Inc()
	if m.Admitted {
		c.admitted.WithLabelValues(kind).Inc()
	} else {
		c.dropped.WithLabelValues(kind).Inc()
	}
	c.usage.WithLabelValues(kind, "compute").Set(m.Compute)
	c.usage.WithLabelValues(kind, "memory").Set(m.Memory)
	c.usage.WithLabelValues(kind, "io").Set(m.IO)
	c.latency.WithLabelValues(kind).Set(m.AvgLatencyMs)
}

func (c *Collector) Recorded(info RunInfo, r MetricRecord) {
	c.kind("nfa", r.NFA)
	c.kind("dfa", r.DFA)
}

func (c *Collector) RunEnded(s Summary) {
	c.state.Set(float64(s.State))
	c.runs.WithLabelValues(s.State.String()).Inc()
}
