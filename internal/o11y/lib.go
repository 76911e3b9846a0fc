package o11y

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics pushes per-solve search counters to a Prometheus push-gateway.
type Metrics struct {
	pusher *push.Pusher

	expanded       prometheus.Counter
	generated      prometheus.Counter
	pruned         prometheus.Counter
	heuristicCalls prometheus.Counter
	solveDuration  prometheus.Gauge
}

// NewMetrics builds a metrics set for one solver run. gatewayURL names the
// Pushgateway; labels identify the task and heuristic.
func NewMetrics(gatewayURL, job string, labels map[string]string) *Metrics {
	m := &Metrics{
		expanded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_nodes_expanded", Help: "Nodes expanded by A*", ConstLabels: labels,
		}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_nodes_generated", Help: "Successor nodes generated", ConstLabels: labels,
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_nodes_pruned", Help: "Successors pruned by an infinite estimate", ConstLabels: labels,
		}),
		heuristicCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_heuristic_calls", Help: "Heuristic evaluations", ConstLabels: labels,
		}),
		solveDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_solve_duration_seconds", Help: "Wall-clock solve time", ConstLabels: labels,
		}),
	}
	m.pusher = push.New(gatewayURL, job).
		Collector(m.expanded).
		Collector(m.generated).
		Collector(m.pruned).
		Collector(m.heuristicCalls).
		Collector(m.solveDuration)
	return m
}

// ObserveSearch records one finished search.
func (m *Metrics) ObserveSearch(expanded, generated, pruned, heuristicCalls int64, dur time.Duration) {
	m.expanded.Add(float64(expanded))
	m.generated.Add(float64(generated))
	m.pruned.Add(float64(pruned))
	m.heuristicCalls.Add(float64(heuristicCalls))
	m.solveDuration.Set(dur.Seconds())
}

// Push sends the collected counters to the gateway.
func (m *Metrics) Push() {
	if err := m.pusher.Push(); err != nil {
		log.Warn("pushing metrics to Pushgateway failed", "error", err)
	}
}

// InfluxSink writes one point per solver run to InfluxDB.
type InfluxSink struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Record writes a run point. Failures are logged, never fatal: telemetry
// must not take the planner down.
func (s *InfluxSink) Record(name string, tags map[string]string, fields map[string]interface{}) {
	if s.URL == "" {
		return
	}
	client := influxdb2.NewClient(s.URL, s.Token)
	defer client.Close()

	writeAPI := client.WriteAPIBlocking(s.Org, s.Bucket)
	point := write.NewPoint(name, tags, fields, time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := writeAPI.WritePoint(ctx, point); err != nil {
		log.Warn("writing run point to InfluxDB failed", "error", err)
	}
}
