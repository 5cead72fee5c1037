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
	"errors"
	"strings"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/routetree"
)

// Dispatch is the entry point for an externally originated request
// (spec.md §4.5 "request(req)"): it mints a fresh root Context and runs the
// full request-filters -> routeAndInvoke pipeline.
func (e *Engine) Dispatch(req *core.Request) (*core.Response, error) {
	return e.DispatchAs(req, core.ClassExternal)
}

// DispatchAs is Dispatch generalized to a caller-chosen RequestClass, used
// by Start's resource phase to issue privileged internal_startup requests
// that bypass the direct-/sys protection (spec.md §5 "Startup ordering").
func (e *Engine) DispatchAs(req *core.Request, class core.RequestClass) (*core.Response, error) {
	requestID := e.reqID.Resolve(req)
	ctx := core.NewRootContext(requestID, e.settings, e, class)
	ctx.RootRequest = req
	return e.filteredRequest(ctx, req)
}

// Request implements core.Dispatcher (spec.md §4.5 "filteredRequest(ctx,
// req)"): handlers call back into this for recursive sub-requests. ctx is
// always the caller's own Context; Request builds the child and hands it to
// filteredRequest.
func (e *Engine) Request(ctx *core.Context, req *core.Request) (*core.Response, error) {
	child := ctx.Child(core.ClassInternal)
	return e.filteredRequest(child, req)
}

// filteredRequest enforces the recursion cap, applies the shallow-clone
// rule, runs the depth-appropriate engine-level filter stack, and finally
// normalizes whatever routeAndInvoke (or an engine-level filter short
// circuit) produced (spec.md §4.5).
func (e *Engine) filteredRequest(ctx *core.Context, req *core.Request) (*core.Response, error) {
	if ctx.RecursionDepth > e.cfg.MaxDepth {
		hsErr := core.NewHSError(500, "server_error#request_recursion_depth_exceeded", "Recursion depth exceeded").
			WithRequest(req.Method, req.Path).
			WithExtra("depth", ctx.RecursionDepth)
		return e.finish(ctx, req, nil, hsErr), nil
	}

	cloned := req.Clone()
	cloned.Method = strings.ToLower(cloned.Method)
	e.reqID.Stamp(ctx.RequestID, cloned, nil)

	entries := e.requestFilters
	if ctx.RecursionDepth > 0 {
		entries = e.subRequestFilters
	}

	handler := core.Chain(entries, nil, e.routeAndInvokeTraced)
	resp, err := handler(ctx, cloned)
	return e.finish(ctx, cloned, resp, err), nil
}

// routeAndInvoke is the terminal handler at the bottom of the engine-level
// filter chain: direct-/sys protection, route lookup (with the top-level
// listing fallback), default-params merge, verb selection with the
// head->get fallback, and finally the route's own filter chain wrapping its
// bound handler (spec.md §4.5 "routeAndInvoke(ctx, req)").
func (e *Engine) routeAndInvoke(ctx *core.Context, req *core.Request) (*core.Response, error) {
	if ctx.RecursionDepth == 0 && ctx.RequestClass != core.ClassInternalStartup && req.SecondSegment() == "sys" {
		return core.NewHSError(403, "forbidden#sys", "Forbidden").
			WithRequest(req.Method, req.Path).
			WithDetail("direct access to /sys is forbidden").
			ToResponse(e.settings.DefaultErrorURI), nil
	}

	result := routetree.Lookup(e.root, req.Path)
	endsInSlash := strings.HasSuffix(req.Path, "/")

	if result == nil {
		if !endsInSlash {
			return e.notFoundRoute(req), nil
		}
		// Nothing in the tree matches even the first segment, but the
		// caller asked for a listing: fall back to a listing of the
		// top-level mounts themselves (spec.md §4.1 listing protocol
		// applied at the tree root).
		result = &routetree.LookupResult{Node: e.root, Listing: true, ListingNames: e.root.ChildNames(), Params: map[string]string{}}
	}

	node := result.Node
	value := node.Value

	var mh *routetree.MethodHandler
	if value != nil {
		mh = lookupMethodHandler(value, req.Method)
	}

	if mh == nil {
		if result.Listing || endsInSlash {
			return e.serveListing(ctx, req, node, value, result)
		}
		return e.notFoundRoute(req), nil
	}

	mergedParams := make(map[string]string, len(value.DefaultParams)+len(result.Params))
	for k, v := range value.DefaultParams {
		mergedParams[k] = v
	}
	for k, v := range result.Params {
		mergedParams[k] = v
	}
	req.Params = mergedParams

	entries := make([]core.FilterEntry, 0, len(e.headFilters)+len(value.Filters))
	entries = append(entries, e.headFilters...)
	entries = append(entries, value.Filters...)
	handler := core.Chain(entries, mh.Info, mh.Handler)
	return handler(ctx, req)
}

// lookupMethodHandler applies the head->get fallback (spec.md §4.5 "a HEAD
// request not explicitly registered falls back to the GET handler").
func lookupMethodHandler(value *routetree.Value, method string) *routetree.MethodHandler {
	if mh, ok := value.Methods[method]; ok {
		return mh
	}
	if method == "head" {
		if mh, ok := value.Methods["get"]; ok {
			return mh
		}
	}
	return nil
}

func (e *Engine) notFoundRoute(req *core.Request) *core.Response {
	return core.NewHSError(404, "not_found#route", "Not found").
		WithRequest(req.Method, req.Path).
		ToResponse(e.settings.DefaultErrorURI)
}

// finish implements response normalization (spec.md §4.5 "Response
// normalization"): an error becomes its HSError (or a 500 internal_error
// wrapping it if it isn't one), a nil response is a 500 empty_response, a
// >=400 status not already problem-detail-shaped is wrapped, a HEAD
// request's body is stripped, and the request id is stamped on every path.
func (e *Engine) finish(ctx *core.Context, req *core.Request, resp *core.Response, err error) *core.Response {
	if err != nil {
		var hsErr *core.HSError
		if errors.As(err, &hsErr) {
			resp = hsErr.ToResponse(e.settings.DefaultErrorURI)
		} else {
			resp = core.WrapInternal(err).ToResponse(e.settings.DefaultErrorURI)
		}
	} else if resp == nil {
		resp = core.NewHSError(500, "server_error#empty_response", "Empty response").
			WithRequest(req.Method, req.Path).
			ToResponse(e.settings.DefaultErrorURI)
	} else if resp.Status >= 400 && !resp.IsErrorShaped() {
		resp = core.NewHSError(resp.Status, "internal_error", "Internal error").
			WithRequest(req.Method, req.Path).
			ToResponse(e.settings.DefaultErrorURI)
	}

	if req.Method == "head" {
		resp.Body = core.Body{Kind: core.BodyNone}
	}
	e.reqID.Stamp(ctx.RequestID, nil, resp)
	return resp
}
