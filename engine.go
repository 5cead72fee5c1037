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

package hyperswitch

import (
	"context"
	"fmt"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/filter"
	"github.com/hyperswitch/hyperswitch/handlerchain"
	"github.com/hyperswitch/hyperswitch/requestid"
	"github.com/hyperswitch/hyperswitch/routetree"
	"github.com/hyperswitch/hyperswitch/spec"
)

// Engine is the concrete core.Dispatcher (spec.md §4.5): it owns the
// immutable route tree built at startup (spec.md §5 "Resource policy") and
// the ambient/domain collaborators a request needs.
type Engine struct {
	cfg      *Config
	root     *routetree.Node
	doc      *spec.Document
	settings *core.EngineSettings
	reqID    *requestid.Generator

	headFilters       []core.FilterEntry // filter.Stock.DefaultHeadFilters(), cached once
	requestFilters    []core.FilterEntry // doc.RequestFilters, resolved once
	subRequestFilters []core.FilterEntry // doc.SubRequestFilters, resolved once
}

// New builds and loads an Engine, the way router.New applies options then
// validates (spec.md §5 "Startup ordering: spec load -> tree construction
// -> resources traversal -> server begins accepting connections" — the
// first two happen here; resources run in Start).
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Modules == nil {
		cfg.Modules = spec.NewModuleRegistry(cfg.Spec)
	}
	if cfg.Docs == nil {
		cfg.Docs = filter.NewStaticDocsHandler()
	}

	stock := cfg.stockFilters()
	resolver := filter.NewRegistry(stock, cfg.ExtraFilters)

	loader := spec.NewLoader(cfg.Spec, cfg.Modules, resolver, handlerchain.Compile)
	loader.DisableHandlers = cfg.DisableHandlers
	loader.RootOperations = cfg.RootOperations

	root, doc, err := loader.Load(context.Background(), cfg.RootOptions, cfg.AppBasePath)
	if err != nil {
		return nil, fmt.Errorf("hyperswitch: loading spec: %w", err)
	}
	cfg.Modules.Seal()

	// doc.RequestFilters/SubRequestFilters are still raw spec.FilterDef at
	// this point (spec/loader.go only resolves method-level x-route-filters,
	// spec/loader.go:246-252); the engine-level stacks are resolved here,
	// against the same resolver, once at startup.
	requestFilters, err := resolveFilterDefs(resolver, doc.RequestFilters)
	if err != nil {
		return nil, fmt.Errorf("hyperswitch: resolving x-request-filters: %w", err)
	}
	subRequestFilters, err := resolveFilterDefs(resolver, doc.SubRequestFilters)
	if err != nil {
		return nil, fmt.Errorf("hyperswitch: resolving x-sub-request-filters: %w", err)
	}

	e := &Engine{
		cfg:  cfg,
		root: root,
		doc:  doc,
		settings: &core.EngineSettings{
			MaxDepth:        cfg.MaxDepth,
			DefaultErrorURI: cfg.DefaultErrorURI,
			UserAgent:       cfg.UserAgent,
			Logger:          cfg.Logger,
			Metrics:         cfg.Metrics,
			RateLimiter:     cfg.RateLimiter,
			HTTPClient:      cfg.HTTPClient,
		},
		reqID:             requestid.New(),
		headFilters:       stock.DefaultHeadFilters(),
		requestFilters:    requestFilters,
		subRequestFilters: subRequestFilters,
	}
	return e, nil
}

// resolveFilterDefs binds a list of raw spec.FilterDef entries against
// resolver, the same step registerMethod performs per-route
// (spec/loader.go:288-301), applied here to the engine-wide x-request-filters
// / x-sub-request-filters stacks instead of a single method's x-route-filters.
func resolveFilterDefs(resolver func(string) (core.Filter, bool), defs []spec.FilterDef) ([]core.FilterEntry, error) {
	entries := make([]core.FilterEntry, 0, len(defs))
	for _, fd := range defs {
		fn, ok := resolver(fd.Name)
		if !ok {
			return nil, fmt.Errorf("hyperswitch: unknown filter %q", fd.Name)
		}
		entries = append(entries, core.FilterEntry{Fn: fn, Name: fd.Name, Options: fd.Options, Method: fd.Method})
	}
	return entries, nil
}

// MustNew panics on a configuration or load error, the way router.MustNew
// wraps router.New for startup-time failures that should abort the process.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("hyperswitch.MustNew: %v", err))
	}
	return e
}

// Start runs the startup resource phase (spec.md §5 "resources traversal...
// bypasses the direct-/sys protection") unless SkipResources is set. Callers
// invoke Start once, after New, before accepting external traffic.
func (e *Engine) Start(ctx context.Context) error {
	if e.cfg.SkipResources {
		return nil
	}
	return e.runResourcePhase(ctx)
}

// Document returns the merged spec.Document this Engine was built from, for
// embedding applications that want to inspect it (e.g. to render ?spec
// themselves outside the listing handler).
func (e *Engine) Document() *spec.Document {
	return e.doc
}
