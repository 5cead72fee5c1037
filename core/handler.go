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

// HandlerFunc is a bound operation handler: either a host-language callable
// looked up by operationId, or a compiled declarative chain (spec.md §3
// "Compiled handler").
type HandlerFunc func(ctx *Context, req *Request) (*Response, error)

// Filter is the middleware contract every step of the pipeline implements
// (spec.md §4.4): fn(ctx, req, next, options, specInfo) -> Response.
type Filter func(ctx *Context, req *Request, next HandlerFunc, options map[string]any, specInfo *OperationInfo) (*Response, error)

// FilterEntry pairs a Filter with its declared options and an optional
// method scope (spec.md §3 "Filter entry").
//
// If Method is non-empty the filter only participates when the request
// method matches, with the rule that a "get"-scoped filter also applies to
// "head" (spec.md §4.4).
type FilterEntry struct {
	Fn      Filter
	Name    string
	Options map[string]any
	Method  string // empty means "all methods"
}

// Applies reports whether this filter entry participates for the given
// request method, applying the head->get aliasing rule.
func (f FilterEntry) Applies(method string) bool {
	if f.Method == "" {
		return true
	}
	if f.Method == method {
		return true
	}
	return f.Method == "get" && method == "head"
}

// Bind closes a FilterEntry over its specInfo, returning a function that
// wraps a terminal handler the way the filter runtime composes a chain
// (spec.md §4.4 "filters... form a stack where the outermost wraps the
// innermost").
func (f FilterEntry) Bind(specInfo *OperationInfo) func(ctx *Context, req *Request, next HandlerFunc) (*Response, error) {
	return func(ctx *Context, req *Request, next HandlerFunc) (*Response, error) {
		if !f.Applies(req.Method) {
			return next(ctx, req)
		}
		return f.Fn(ctx, req, next, f.Options, specInfo)
	}
}

// Chain composes a stack of filter entries, outermost first, around a
// terminal handler. Method-scoped entries that don't apply to req.Method
// transparently fall through to next without participating (spec.md §4.4).
func Chain(entries []FilterEntry, specInfo *OperationInfo, terminal HandlerFunc) HandlerFunc {
	h := terminal
	for i := len(entries) - 1; i >= 0; i-- {
		bound := entries[i].Bind(specInfo)
		next := h
		h = func(ctx *Context, req *Request) (*Response, error) {
			return bound(ctx, req, next)
		}
	}
	return h
}

// Dispatcher is the recursive entry point handlers call back into
// (spec.md §1 "allowed to recursively issue sub-requests back into the
// same engine"). It is an interface here, rather than a concrete type, so
// core has no dependency on the dispatcher's own package.
type Dispatcher interface {
	Request(ctx *Context, req *Request) (*Response, error)
}
