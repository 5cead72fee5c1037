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

// Package hyperswitch implements the request dispatcher described in
// spec.md §4.5: it wires together the route tree (routetree), the spec
// loader (spec), the filter runtime (filter) and the handler-chain
// compiler (handlerchain) into a concrete core.Dispatcher.
package hyperswitch

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/filter"
	"github.com/hyperswitch/hyperswitch/spec"
)

// defaultMaxDepth, defaultPort and defaultUserAgent mirror spec.md §6's
// recognised configuration defaults.
const (
	defaultMaxDepth   = 10
	defaultPort       = 7231
	defaultUserAgent  = "HyperSwitch"
	defaultUIName     = "Swagger UI"
	defaultUIURL      = "https://petstore.swagger.io"
	defaultUITitle    = "API documentation"
)

// Config holds every recognised key from spec.md §6 plus the ambient and
// domain collaborators SPEC_FULL.md §4.3 adds, applied through the
// functional-options pattern the teacher's router.Option/router.New use.
type Config struct {
	Port int
	Host string

	Spec        spec.SpecSource
	Modules     *spec.ModuleRegistry
	AppBasePath string
	RootOptions map[string]any

	UserAgent       string
	UIName          string
	UIURL           string
	UITitle         string
	DefaultErrorURI string
	MaxDepth        int
	SkipResources   bool
	DisableHandlers bool

	Logger      core.Logger
	Metrics     core.MetricsRecorder
	RateLimiter core.RateLimiterStore
	HTTPClient  core.HTTPClient
	Docs        core.DocsHandler
	// Tracer is optional: when set, every externally-originated and
	// recursive request is wrapped in a span (SPEC_FULL.md §5).
	Tracer trace.Tracer

	// RootOperations registers operationId callables available to the root
	// document before any x-modules are entered (spec.md §4.3).
	RootOperations map[string]core.HandlerFunc
	// ExtraFilters registers non-stock filters alongside the built-in five
	// (spec.md §4.7), keyed by the name x-route-filters entries reference.
	ExtraFilters map[string]core.Filter
}

// Option configures a Config, in the style of router.Option.
type Option func(*Config)

// WithSpec sets the root spec source (required).
func WithSpec(source spec.SpecSource) Option {
	return func(c *Config) { c.Spec = source }
}

// WithModules sets the module registry used to resolve x-modules entries.
func WithModules(modules *spec.ModuleRegistry) Option {
	return func(c *Config) { c.Modules = modules }
}

// WithAppBasePath sets the base directory non-absolute module paths are
// resolved against (spec.md §4.3).
func WithAppBasePath(path string) Option {
	return func(c *Config) { c.AppBasePath = path }
}

// WithRootOptions sets the options object exposed to the root document's
// templates as globals.options (spec.md §4.3).
func WithRootOptions(options map[string]any) Option {
	return func(c *Config) { c.RootOptions = options }
}

// WithPort records the listen port on Config (default 7231). Engine opens
// no listener of its own.
func WithPort(port int) Option {
	return func(c *Config) { c.Port = port }
}

// WithHost records the listen host on Config. Engine opens no listener of
// its own.
func WithHost(host string) Option {
	return func(c *Config) { c.Host = host }
}

// WithUserAgent sets EngineSettings.UserAgent (default "HyperSwitch"). The
// stock "http" filter does not add it to outbound requests.
func WithUserAgent(ua string) Option {
	return func(c *Config) { c.UserAgent = ua }
}

// WithUI records the docs UI branding (name, url, title) on Config. The
// listing handler does not pass these fields to the DocsHandler, and
// StaticDocsHandler takes its branding from the document it is handed.
func WithUI(name, url, title string) Option {
	return func(c *Config) {
		c.UIName = name
		c.UIURL = url
		c.UITitle = title
	}
}

// WithDefaultErrorURI overrides the error-type URL prefix.
func WithDefaultErrorURI(uri string) Option {
	return func(c *Config) { c.DefaultErrorURI = uri }
}

// WithMaxDepth overrides the recursion cap (default 10).
func WithMaxDepth(depth int) Option {
	return func(c *Config) { c.MaxDepth = depth }
}

// WithSkipResources skips the startup resource phase.
func WithSkipResources(skip bool) Option {
	return func(c *Config) { c.SkipResources = skip }
}

// WithDisableHandlers dry-runs the loader without binding host-language
// handlers (spec.md §6 "disable_handlers").
func WithDisableHandlers(disable bool) Option {
	return func(c *Config) { c.DisableHandlers = disable }
}

// WithLogger sets the structured logger.
func WithLogger(logger core.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithMetrics sets the metrics recorder behind the "metrics" stock filter.
func WithMetrics(recorder core.MetricsRecorder) Option {
	return func(c *Config) { c.Metrics = recorder }
}

// WithRateLimiter sets the store behind the "ratelimit_route" stock filter.
func WithRateLimiter(store core.RateLimiterStore) Option {
	return func(c *Config) { c.RateLimiter = store }
}

// WithHTTPClient sets the outbound client behind the "http" stock filter.
func WithHTTPClient(client core.HTTPClient) Option {
	return func(c *Config) { c.HTTPClient = client }
}

// WithDocs sets the docs collaborator used by the default listing handler.
func WithDocs(docs core.DocsHandler) Option {
	return func(c *Config) { c.Docs = docs }
}

// WithTracer enables per-request span recording via tracer (SPEC_FULL.md
// §5). Tracing is a no-op when this is never called, matching the
// teacher's "tracing is an injectable recorder, never mandatory" design.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) { c.Tracer = tracer }
}

// WithRootOperation registers one operationId callable for the root
// document's scope.
func WithRootOperation(operationID string, handler core.HandlerFunc) Option {
	return func(c *Config) {
		if c.RootOperations == nil {
			c.RootOperations = map[string]core.HandlerFunc{}
		}
		c.RootOperations[operationID] = handler
	}
}

// WithFilter registers an additional, non-stock filter.
func WithFilter(name string, fn core.Filter) Option {
	return func(c *Config) {
		if c.ExtraFilters == nil {
			c.ExtraFilters = map[string]core.Filter{}
		}
		c.ExtraFilters[name] = fn
	}
}

func defaultConfig() *Config {
	return &Config{
		Port:            defaultPort,
		UserAgent:       defaultUserAgent,
		UIName:          defaultUIName,
		UIURL:           defaultUIURL,
		UITitle:         defaultUITitle,
		DefaultErrorURI: core.DefaultErrorURI,
		MaxDepth:        defaultMaxDepth,
		HTTPClient:      filter.NewNetHTTPClient(nil),
	}
}

// validate mirrors router.Router.validate: configuration errors are caught
// eagerly at New, not at first request.
func (c *Config) validate() error {
	if c.Spec == nil {
		return fmt.Errorf("hyperswitch: Config.Spec is required (use WithSpec)")
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("hyperswitch: Config.MaxDepth must be positive, got %d", c.MaxDepth)
	}
	if c.Port < 0 {
		return fmt.Errorf("hyperswitch: Config.Port must not be negative, got %d", c.Port)
	}
	return nil
}

func (c *Config) stockFilters() filter.Stock {
	return filter.Stock{
		Validator:   filter.NewValidator(),
		Metrics:     c.Metrics,
		RateLimiter: c.RateLimiter,
		HTTPClient:  c.HTTPClient,
	}
}

// ensureContext is a tiny local helper kept here (rather than in dispatch.go)
// since it is only ever used to satisfy core.DocsHandler's context.Context
// parameter, a concern Config owns (spec.md §4.5 "delegate to the docs
// collaborator").
func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
