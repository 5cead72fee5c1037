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

package core

import "context"

// Logger is the minimal structured-logging contract handlers, filters and
// the loader depend on. It is satisfied by a wrapped *slog.Logger
// (SPEC_FULL.md §4.1); the zero value of any implementing type should be
// safe to call (no nil Logger is ever dereferenced in the hot path).
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// noopLogger discards everything; it is the Context default so call sites
// never need a nil check, mirroring router.NoopLogger().
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NoopLogger returns the shared no-op Logger.
func NoopLogger() Logger { return noopLogger{} }

// MetricsRecorder is the metrics backend collaborator behind the "metrics"
// stock filter (spec.md §4.7, §1 "external collaborators").
type MetricsRecorder interface {
	// ObserveLatency records one request's latency against the given labels.
	ObserveLatency(requestClass RequestClass, path, method string, status int, seconds float64)
}

// noopMetrics discards everything.
type noopMetrics struct{}

func (noopMetrics) ObserveLatency(RequestClass, string, string, int, float64) {}

// NoopMetrics returns the shared no-op MetricsRecorder.
func NoopMetrics() MetricsRecorder { return noopMetrics{} }

// RateLimiterStore is the rate-limiter backend collaborator behind the
// "ratelimit_route" stock filter (spec.md §4.7).
type RateLimiterStore interface {
	// Allow reports whether one more request under key may proceed.
	Allow(key string) bool
}

// HTTPClient is the outbound HTTP collaborator behind the "http" stock
// filter (spec.md §4.7).
type HTTPClient interface {
	Do(req *Request) (*Response, error)
}

// DocsHandler is the documentation (Swagger-UI) static server collaborator
// (spec.md §4.5 "delegate to the docs collaborator"). It renders a Response
// for a non-listing apiRoot's HTML/?path= request.
type DocsHandler interface {
	ServeDocs(ctx context.Context, req *Request, mergedSpec map[string]any) (*Response, error)
}
