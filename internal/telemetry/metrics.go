package telemetry

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/j-veylop/uranus/internal/models"
)

// Metrics exports stored records as Prometheus series.
type Metrics struct {
	Requests *prometheus.CounterVec
	Tokens   *prometheus.CounterVec
	CostUSD  *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uranus_inference_requests_total",
				Help: "Completed inferences by model, input type and outcome",
			},
			[]string{"model", "input_type", "success"},
		),
		Tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uranus_inference_tokens_total",
				Help: "Input / output tokens",
			},
			[]string{"model", "type"},
		),
		CostUSD: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uranus_inference_cost_usd_total",
				Help: "Accumulated estimated cost (USD)",
			},
			[]string{"model"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uranus_inference_latency_seconds",
				Help:    "Latency of inference calls by model",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
			},
			[]string{"model"},
		),
	}

	for _, c := range []prometheus.Collector{m.Requests, m.Tokens, m.CostUSD, m.Latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Name implements Sink.
func (m *Metrics) Name() string { return "prometheus" }

// Emit implements Sink.
func (m *Metrics) Emit(_ context.Context, rec models.TelemetryRecord) error {
	res := rec.Result
	m.Requests.WithLabelValues(res.ModelID, string(rec.Input.Type), strconv.FormatBool(res.Success)).Inc()
	m.Tokens.WithLabelValues(res.ModelID, "input").Add(float64(res.Usage.InputTokens))
	m.Tokens.WithLabelValues(res.ModelID, "output").Add(float64(res.Usage.OutputTokens))
	m.CostUSD.WithLabelValues(res.ModelID).Add(res.Usage.EstimatedCostUSD)
	m.Latency.WithLabelValues(res.ModelID).Observe(float64(res.LatencyMs) / 1000)
	return nil
}
