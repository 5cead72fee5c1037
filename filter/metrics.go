// Copyright 2026 The HyperSwitch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package filter

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/uri"
)

// PrometheusMetrics is the default core.MetricsRecorder (SPEC_FULL.md §5),
// a single histogram labelled request_class/path/method/status, grounded on
// the teacher's metrics_providers.go Prometheus wiring but kept to direct
// client_golang usage rather than replicating its full OTel-SDK bridge —
// that bridge exists to let the teacher's generic router swap exporters at
// runtime, a concern HyperSwitch's fixed stock filter doesn't have.
type PrometheusMetrics struct {
	latency *prometheus.HistogramVec
}

// NewPrometheusMetrics registers a latency histogram on reg (pass
// prometheus.DefaultRegisterer for the global registry).
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hyperswitch",
			Name:      "request_duration_seconds",
			Help:      "Request latency in seconds, labelled by request class, path, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"request_class", "path", "method", "status"}),
	}
	reg.MustRegister(m.latency)
	return m
}

// ObserveLatency implements core.MetricsRecorder.
func (m *PrometheusMetrics) ObserveLatency(requestClass core.RequestClass, path, method string, status int, seconds float64) {
	m.latency.WithLabelValues(string(requestClass), path, method, strconv.Itoa(status)).Observe(seconds)
}

// NewMetricsFilter builds the stock "metrics" filter (spec.md §4.7): it
// records latency on both success and failure, against the path with its
// first segment (the domain/apiRoot) stripped. A nil recorder is treated as
// core.NoopMetrics so the filter is always safe to install.
func NewMetricsFilter(recorder core.MetricsRecorder) core.Filter {
	if recorder == nil {
		recorder = core.NoopMetrics()
	}
	return func(ctx *core.Context, req *core.Request, next core.HandlerFunc, options map[string]any, specInfo *core.OperationInfo) (*core.Response, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		status := 0
		switch {
		case err != nil:
			status = 500
		case resp != nil:
			status = resp.Status
		}
		recorder.ObserveLatency(ctx.RequestClass, uri.StripFirstSegment(req.Path), req.Method, status, time.Since(start).Seconds())

		return resp, err
	}
}
