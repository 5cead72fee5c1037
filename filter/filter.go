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

// Package filter implements the filter runtime's stock filters (spec.md
// §4.4, §4.7): validator, metrics, ratelimit_route, http and header-match.
// Each is a core.Filter closed over a small collaborator (Validator,
// core.MetricsRecorder, core.RateLimiterStore, core.HTTPClient); the filter
// runtime itself — the fn(ctx, req, next, options, specInfo) contract,
// method-scoped fall-through, outer-to-inner stacking — already lives in
// core.FilterEntry/core.Chain. This package only supplies the named
// implementations the spec loader's FilterResolver dispatches to.
package filter

import "github.com/hyperswitch/hyperswitch/core"

// Names of the stock filters, as referenced by x-route-filters/
// x-request-filters/x-sub-request-filters entries (spec.md §4.7).
const (
	NameValidator      = "validator"
	NameMetrics        = "metrics"
	NameRateLimitRoute = "ratelimit_route"
	NameHTTP           = "http"
	NameHeaderMatch    = "header-match"
)

// Stock bundles the stock filters' collaborators; NewRegistry binds each
// one's core.Filter under its spec name.
type Stock struct {
	Validator   *Validator
	Metrics     core.MetricsRecorder
	RateLimiter core.RateLimiterStore
	HTTPClient  core.HTTPClient
}

// NewRegistry returns a spec.FilterResolver-shaped lookup over the stock
// filters in s, plus any extra caller-registered filters. Extra entries
// with a name matching a stock filter override the stock implementation.
func NewRegistry(s Stock, extra map[string]core.Filter) func(name string) (core.Filter, bool) {
	stock := map[string]core.Filter{}
	if s.Validator != nil {
		stock[NameValidator] = s.Validator.Filter
	}
	stock[NameMetrics] = NewMetricsFilter(s.Metrics)
	stock[NameRateLimitRoute] = NewRateLimitFilter(s.RateLimiter)
	stock[NameHTTP] = NewHTTPFilter(s.HTTPClient)
	stock[NameHeaderMatch] = HeaderMatchFilter

	for name, fn := range extra {
		stock[name] = fn
	}

	return func(name string) (core.Filter, bool) {
		fn, ok := stock[name]
		return fn, ok
	}
}

// DefaultHeadFilters returns the fixed-order, already-bound filter entries
// every spec carries at the head of its filter stack, before any
// user-declared filter (spec.md §4.4 "Default stock filters... metrics,
// then validator"). The dispatcher prepends these to a route's declared
// filters when it builds the final chain for a request.
func (s Stock) DefaultHeadFilters() []core.FilterEntry {
	return []core.FilterEntry{
		{Name: NameMetrics, Fn: NewMetricsFilter(s.Metrics)},
		{Name: NameValidator, Fn: validatorFilterOrNoop(s.Validator)},
	}
}

func validatorFilterOrNoop(v *Validator) core.Filter {
	if v == nil {
		v = NewValidator()
	}
	return v.Filter
}
