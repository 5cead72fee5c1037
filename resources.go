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
	"strings"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/routetree"
	"github.com/hyperswitch/hyperswitch/template"
)

// runResourcePhase walks the whole route tree collecting every node's
// x-setup-handler resources and runs each as a privileged, internal_startup
// request that bypasses the direct-/sys protection (spec.md §5 "Startup
// ordering: spec load -> tree construction -> resources traversal -> server
// begins accepting connections").
func (e *Engine) runResourcePhase(ctx context.Context) error {
	var templates []routetree.ResourceTemplate
	routetree.Walk(e.root, func(n *routetree.Node) {
		if n.Value == nil {
			return
		}
		templates = append(templates, n.Value.Resources...)
	})

	for _, rt := range templates {
		if err := e.runResourceTemplate(rt); err != nil {
			return fmt.Errorf("hyperswitch: startup resource %q: %w", rt.Name, err)
		}
	}
	return nil
}

// runResourceTemplate expands one x-setup-handler entry against an empty
// startup model and dispatches it (spec.md §4.3 "Resource phase", default
// method "put"). A non-success response aborts startup; Start propagates
// the error so the embedding application can decide whether to continue.
func (e *Engine) runResourceTemplate(rt routetree.ResourceTemplate) error {
	expanded, errs := template.New(rt.Raw).Expand(map[string]any{})
	if len(errs) > 0 {
		return errs[0]
	}
	stanza, ok := expanded.(map[string]any)
	if !ok {
		return fmt.Errorf("resource template %q did not expand to an object", rt.Name)
	}

	req, err := requestFromStanza(stanza, rt.Method)
	if err != nil {
		return err
	}

	resp, err := e.DispatchAs(req, core.ClassInternalStartup)
	if err != nil {
		return err
	}
	if resp == nil || !resp.IsSuccess() {
		status := 0
		if resp != nil {
			status = resp.Status
		}
		return fmt.Errorf("resource %q failed: status %d", rt.Name, status)
	}
	return nil
}

// requestFromStanza builds a core.Request from an expanded x-setup-handler
// stanza, the same {uri, method, headers, body} shape a handler-chain step
// compiles (spec.md §4.6).
func requestFromStanza(stanza map[string]any, defaultMethod string) (*core.Request, error) {
	rawURI, _ := stanza["uri"].(string)
	if rawURI == "" {
		return nil, core.ErrResourceMissingURI
	}

	method := defaultMethod
	if m, ok := stanza["method"].(string); ok && m != "" {
		method = m
	}
	if method == "" {
		method = "put"
	}

	req := core.NewRequest(rawURI)
	req.Method = strings.ToLower(method)

	if body, ok := stanza["body"]; ok {
		req.Body = core.Body{Kind: core.BodyObject, Object: body}
	}
	if headers, ok := stanza["headers"].(map[string]any); ok {
		for k, v := range headers {
			if s, ok := v.(string); ok {
				req.Headers.Set(k, s)
			}
		}
	}
	if query, ok := stanza["query"].(map[string]any); ok {
		for k, v := range query {
			if s, ok := v.(string); ok {
				req.Query[k] = core.QueryValue{Single: s}
			}
		}
	}
	return req, nil
}
