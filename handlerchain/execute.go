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

package handlerchain

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/hyperswitch/hyperswitch/core"
)

// handlerFunc returns the core.HandlerFunc that drives c's steps (spec.md
// §4.6 "Execution"): steps run in order; within a step every stanza that
// carries a request dispatches concurrently, but the response-massaging
// that follows (storing ctx.Model[name], evaluating return_if/catch,
// honoring an unconditional return) always runs in declaration order, so a
// step's observable outcome never depends on which sub-request happens to
// finish first.
func (c *compiledChain) handlerFunc() core.HandlerFunc {
	return func(ctx *core.Context, req *core.Request) (*core.Response, error) {
		if ctx.Model == nil {
			ctx.Model = map[string]any{}
		}
		ctx.Model["request"] = requestModelView(req)

		for _, st := range c.steps {
			resp, done, err := c.runStep(ctx, st)
			if err != nil {
				return nil, err
			}
			if done {
				return resp, nil
			}
		}

		return nil, fmt.Errorf("handlerchain: chain completed without a returning stanza")
	}
}

// stanzaOutcome is the result of dispatching one stanza's request,
// collected by the concurrent fan-out before the sequential massaging pass
// reads it back in declaration order.
type stanzaOutcome struct {
	resp *core.Response
	err  error
}

// runStep dispatches every request-carrying stanza in st concurrently, then
// walks the stanzas in declaration order to massage responses into
// ctx.Model and decide whether the chain returns here.
func (c *compiledChain) runStep(ctx *core.Context, st step) (*core.Response, bool, error) {
	outcomes := make([]stanzaOutcome, len(st.stanzas))

	var wg sync.WaitGroup
	for i, sn := range st.stanzas {
		if sn.requestTemplate == nil {
			continue
		}
		wg.Add(1)
		go func(i int, sn *compiledStanza) {
			defer wg.Done()
			resp, err := c.dispatchStanza(ctx, sn)
			outcomes[i] = stanzaOutcome{resp: resp, err: err}
		}(i, sn)
	}
	wg.Wait()

	for i, sn := range st.stanzas {
		var resp *core.Response

		if sn.requestTemplate != nil {
			outcome := outcomes[i]
			if outcome.err != nil {
				return nil, false, fmt.Errorf("handlerchain: request %q: %w", sn.name, outcome.err)
			}
			resp = outcome.resp
			ctx.Model[sn.name] = responseModelView(resp)

			if core.FromResponse(resp) != nil && (sn.catch == nil || !sn.catch.Evaluate(resp)) {
				return resp, true, nil
			}
		}

		if sn.returnIf != nil && sn.returnIf.Evaluate(resp) {
			final, err := c.finalResponse(ctx, sn, resp)
			if err != nil {
				return nil, false, err
			}
			return final, true, nil
		}

		if sn.returns && sn.returnIf == nil {
			final, err := c.finalResponse(ctx, sn, resp)
			if err != nil {
				return nil, false, err
			}
			return final, true, nil
		}
	}

	return nil, false, nil
}

// finalResponse renders the response that ends the chain at sn: either the
// stanza's own dispatched response or, when "return" carries a literal
// template rather than a bare true, the expansion of that template against
// the accumulated model (spec.md §4.6).
func (c *compiledChain) finalResponse(ctx *core.Context, sn *compiledStanza, resp *core.Response) (*core.Response, error) {
	if sn.returnValue == nil {
		if resp == nil {
			return nil, fmt.Errorf("handlerchain: stanza %q returns with no response to return", sn.name)
		}
		return resp, nil
	}

	expanded, errs := sn.returnValue.Expand(ctx.Model)
	if len(errs) > 0 {
		return nil, fmt.Errorf("handlerchain: stanza %q: return template: %w", sn.name, errs[0])
	}

	status := 200
	if resp != nil {
		status = resp.Status
	}
	if m, ok := expanded.(map[string]any); ok {
		if s, ok := m["status"].(int); ok {
			status = s
		} else if f, ok := m["status"].(float64); ok {
			status = int(f)
		}
		if body, ok := m["body"]; ok {
			return core.NewResponse(status, body), nil
		}
	}
	return core.NewResponse(status, expanded), nil
}

// dispatchStanza expands sn's request template against ctx.Model, builds a
// core.Request, and issues it as a recursive sub-request (spec.md §3
// "allowed to recursively issue sub-requests back into the same engine").
func (c *compiledChain) dispatchStanza(ctx *core.Context, sn *compiledStanza) (*core.Response, error) {
	expanded, errs := sn.requestTemplate.Expand(ctx.Model)
	if len(errs) > 0 {
		return nil, errs[0]
	}

	method := c.defaultMethod
	if rm, ok := ctx.Model["request"].(map[string]any); ok {
		if m, ok := rm["method"].(string); ok && m != "" {
			method = m
		}
	}
	req, err := buildRequest(expanded, method)
	if err != nil {
		return nil, err
	}

	// The Dispatcher builds the child Context (one level deeper) itself.
	return ctx.Dispatcher.Request(ctx, req)
}

// buildRequest turns an expanded request-stanza template into a
// core.Request (spec.md §4.6 "request stanza"): "uri" is required, "method"
// defaults to defaultMethod, and "query"/"headers" merge over whatever the
// uri string itself carries.
func buildRequest(expanded any, defaultMethod string) (*core.Request, error) {
	m, ok := expanded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("handlerchain: request stanza must expand to an object, got %T", expanded)
	}

	rawURI, ok := m["uri"].(string)
	if !ok || rawURI == "" {
		return nil, fmt.Errorf("handlerchain: request stanza is missing uri")
	}

	parsed, err := url.Parse(rawURI)
	if err != nil {
		return nil, fmt.Errorf("handlerchain: invalid uri %q: %w", rawURI, err)
	}

	req := core.NewRequest(parsed.Path)

	if method, ok := m["method"].(string); ok && method != "" {
		req.Method = method
	} else if defaultMethod != "" {
		req.Method = defaultMethod
	}

	for k, vals := range parsed.Query() {
		req.Query[k] = queryValueFromStrings(vals)
	}
	if rawQuery, ok := m["query"].(map[string]any); ok {
		for k, v := range rawQuery {
			req.Query[k] = queryValueFromAny(v)
		}
	}

	if rawHeaders, ok := m["headers"].(map[string]any); ok {
		for k, v := range rawHeaders {
			if s, ok := v.(string); ok {
				req.Headers.Set(k, s)
			}
		}
	}

	if body, ok := m["body"]; ok {
		req.Body = core.Body{Kind: core.BodyObject, Object: body}
	}

	return req, nil
}

func queryValueFromStrings(vals []string) core.QueryValue {
	if len(vals) == 1 {
		return core.QueryValue{Single: vals[0]}
	}
	return core.QueryValue{Multi: vals, IsList: true}
}

func queryValueFromAny(v any) core.QueryValue {
	if list, ok := v.([]any); ok {
		vals := make([]string, 0, len(list))
		for _, e := range list {
			vals = append(vals, fmt.Sprint(e))
		}
		return core.QueryValue{Multi: vals, IsList: true}
	}
	return core.QueryValue{Single: fmt.Sprint(v)}
}

// requestModelView exposes the inbound request to template expansion as
// ctx.Model["request"] (spec.md §4.2).
func requestModelView(req *core.Request) map[string]any {
	if req == nil {
		return map[string]any{}
	}
	params := make(map[string]any, len(req.Params))
	for k, v := range req.Params {
		params[k] = v
	}
	query := make(map[string]any, len(req.Query))
	for k, v := range req.Query {
		if v.IsList {
			list := make([]any, len(v.Multi))
			for i, s := range v.Multi {
				list[i] = s
			}
			query[k] = list
		} else {
			query[k] = v.Single
		}
	}
	headers := make(map[string]any, len(req.Headers))
	for k, v := range req.Headers {
		headers[k] = v
	}
	return map[string]any{
		"method":  req.Method,
		"path":    req.Path,
		"params":  params,
		"query":   query,
		"headers": headers,
		"body":    req.Body.Object,
	}
}

// responseModelView exposes a completed sub-request's response to
// template expansion as ctx.Model[requestName] (spec.md §4.6).
func responseModelView(resp *core.Response) map[string]any {
	if resp == nil {
		return map[string]any{}
	}
	headers := make(map[string]any, len(resp.Headers))
	for k, v := range resp.Headers {
		headers[k] = v
	}
	var body any
	switch resp.Body.Kind {
	case core.BodyObject:
		body = resp.Body.Object
	case core.BodyText:
		body = resp.Body.Text
	}
	return map[string]any{
		"status":  resp.Status,
		"headers": headers,
		"body":    body,
	}
}
