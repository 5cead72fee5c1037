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

import "weak"

// EngineSettings is the slice of engine-wide configuration and ambient
// collaborators a Context needs without importing the engine's own
// package (spec.md §3 "config" on the per-request context).
type EngineSettings struct {
	MaxDepth        int
	DefaultErrorURI string
	UserAgent       string

	Logger      Logger
	Metrics     MetricsRecorder
	RateLimiter RateLimiterStore
	HTTPClient  HTTPClient
}

// Context is the per-request child-dispatcher instance described in
// spec.md §3. It is created fresh for every dispatch (including recursive
// sub-requests) and discarded when the response is produced.
//
// Parent is a non-owning back-reference used only for diagnostics
// (spec.md §5 "Resource policy", Design Note §9 "Cyclic parent/child
// contexts"): it is a weak.Pointer so a long recursive chain never keeps
// every ancestor Context alive past the request that produced it.
type Context struct {
	RequestID      string
	RecursionDepth int
	Parent         weak.Pointer[Context]
	RootRequest    *Request
	RequestClass   RequestClass

	Settings   *EngineSettings
	Dispatcher Dispatcher

	// Model is the scratch model used by template expansion while a
	// declarative handler chain executes (spec.md §3). It always carries
	// model["request"] = the inbound Request view; handler-chain steps add
	// model[reqName] = that step's Response.
	Model map[string]any
}

// NewRootContext builds the context for an externally originated request
// (RecursionDepth == 0, RequestClass external unless overridden by the
// caller for e.g. internal_startup resource execution).
func NewRootContext(requestID string, settings *EngineSettings, dispatcher Dispatcher, class RequestClass) *Context {
	ctx := &Context{
		RequestID:      requestID,
		RecursionDepth: 0,
		RequestClass:   class,
		Settings:       settings,
		Dispatcher:     dispatcher,
		Model:          map[string]any{},
	}
	return ctx
}

// Child builds the context for a recursive sub-request issued from within a
// handler (spec.md §3 "Per-request context"). It inherits the
// logger/metrics/rate-limiter (via the shared Settings pointer), increments
// RecursionDepth, and forwards RootRequest.
func (c *Context) Child(class RequestClass) *Context {
	child := &Context{
		RequestID:      c.RequestID,
		RecursionDepth: c.RecursionDepth + 1,
		RequestClass:   class,
		Settings:       c.Settings,
		Dispatcher:     c.Dispatcher,
		RootRequest:    c.RootRequest,
		Model:          map[string]any{},
	}
	child.Parent = weak.Make(c)
	return child
}

// ParentChain walks the still-alive ancestor chain, for diagnostics such as
// the recursion-depth-exceeded error's "chain of parent requests"
// (spec.md §4.5).
func (c *Context) ParentChain() []*Context {
	var chain []*Context
	cur := c.Parent
	for {
		p := cur.Value()
		if p == nil {
			break
		}
		chain = append(chain, p)
		cur = p.Parent
	}
	return chain
}

// Logger returns the configured logger, or a no-op logger if none is set.
func (c *Context) Logger() Logger {
	if c.Settings == nil || c.Settings.Logger == nil {
		return NoopLogger()
	}
	return c.Settings.Logger
}
