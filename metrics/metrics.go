// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package metrics provides a Prometheus-backed rangecache.Stats
// implementation, the "metrics sink" the core spec treats as an external
// collaborator.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStats implements rangecache.Stats by registering a hit/miss
// counter pair and an in-flight-bytes gauge against a prometheus.Registerer.
type PrometheusStats struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	retainedBytes prometheus.Gauge

	// mirror tracks the same value as retainedBytes; prometheus.Gauge has
	// no read method, and Cache's admission check needs to read the
	// current total on every Put.
	mirror atomic.Int64
}

// NewPrometheusStats registers its metrics against reg, under the given
// namespace, and returns a ready-to-use PrometheusStats.
func NewPrometheusStats(reg prometheus.Registerer, namespace string) *PrometheusStats {
	s := &PrometheusStats{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rangecache_hits_total",
			Help:      "Total number of Get calls served from the local cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rangecache_misses_total",
			Help:      "Total number of Get calls that could not be served locally.",
		}),
		retainedBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rangecache_in_memory_retained_bytes",
			Help:      "Bytes currently held by admitted but not-yet-flushed Put buffers.",
		}),
	}
	reg.MustRegister(s.hits, s.misses, s.retainedBytes)
	return s
}

func (s *PrometheusStats) IncrementHit()  { s.hits.Inc() }
func (s *PrometheusStats) IncrementMiss() { s.misses.Inc() }

func (s *PrometheusStats) AddInMemoryRetainedBytes(delta int64) {
	s.retainedBytes.Add(float64(delta))
	s.mirror.Add(delta)
}

// InMemoryRetainedBytes returns the current total, read from the atomic
// mirror kept alongside the gauge (see the mirror field).
func (s *PrometheusStats) InMemoryRetainedBytes() int64 {
	return s.mirror.Load()
}
