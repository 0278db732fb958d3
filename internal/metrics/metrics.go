// Package metrics exposes Prometheus collectors for the ledger services.
package metrics

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splitledger"

// Metrics groups the collectors the services update.
type Metrics struct {
	Computations      *prometheus.CounterVec
	ComputeDuration   prometheus.Histogram
	UnbalancedLedgers prometheus.Counter
	PlannedTransfers  prometheus.Histogram
	CacheRequests     *prometheus.CounterVec
	RPCRequests       *prometheus.CounterVec
	RPCDuration       *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_computations_total",
			Help:      "Balance and settlement plan computations, by outcome.",
		}, []string{"outcome"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "balance_computation_duration_seconds",
			Help:      "Time spent loading records and computing a group's balances.",
			Buckets:   prometheus.DefBuckets,
		}),
		UnbalancedLedgers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unbalanced_ledgers_total",
			Help:      "Computations whose balances did not sum to zero.",
		}),
		PlannedTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "planned_transfers",
			Help:      "Number of transfers in each computed settlement plan.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_cache_requests_total",
			Help:      "Balance cache lookups, by result.",
		}, []string{"result"}),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls, by procedure and code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency, by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Computations,
			m.ComputeDuration,
			m.UnbalancedLedgers,
			m.PlannedTransfers,
			m.CacheRequests,
			m.RPCRequests,
			m.RPCDuration,
		)
	}
	return m
}

// ObserveComputation records one balance computation.
func (m *Metrics) ObserveComputation(start time.Time, transfers int, err error) {
	m.ComputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.Computations.WithLabelValues("error").Inc()
		return
	}
	m.Computations.WithLabelValues("ok").Inc()
	m.PlannedTransfers.Observe(float64(transfers))
}

// CacheHit counts a balance cache hit.
func (m *Metrics) CacheHit() { m.CacheRequests.WithLabelValues("hit").Inc() }

// CacheMiss counts a balance cache miss.
func (m *Metrics) CacheMiss() { m.CacheRequests.WithLabelValues("miss").Inc() }

// Interceptor returns a Connect interceptor counting calls and their latency.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.RPCRequests.WithLabelValues(procedure, code).Inc()
			m.RPCDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}
