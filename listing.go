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
	"html"
	"strings"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/routetree"
	"github.com/hyperswitch/hyperswitch/spec"
	"github.com/hyperswitch/hyperswitch/uri"
)

// serveListing is the default listing handler (spec.md §4.5): the engine
// falls back to it whenever routeAndInvoke reaches a node with no bound
// handler for the request's method. Which of its four branches fires
// depends on the query string, the Accept header, and whether the nearest
// apiRoot is a "listing" one (x-listing) or a plain mount point that
// delegates to the docs collaborator.
func (e *Engine) serveListing(ctx *core.Context, req *core.Request, node *routetree.Node, value *routetree.Value, result *routetree.LookupResult) (*core.Response, error) {
	apiRootValue := value
	if apiRootValue == nil || !apiRootValue.IsAPIRoot {
		if meta, ok := node.MetaChild(uri.MetaAPIRoot); ok {
			apiRootValue = meta.Value
		}
	}

	basePath := req.Path
	if apiRootValue != nil && apiRootValue.Path != "" {
		basePath = apiRootValue.Path
	}
	if basePath != "/" {
		basePath = strings.TrimSuffix(basePath, "/")
	}

	childNames := result.ListingNames
	if childNames == nil {
		childNames = node.ChildNames()
	}
	visible := make([]string, 0, len(childNames))
	for _, name := range childNames {
		if name == "sys" {
			continue
		}
		visible = append(visible, name)
	}

	if _, ok := req.Query["spec"]; ok {
		return core.NewResponse(200, renderDocument(documentOf(apiRootValue), basePath)), nil
	}

	isListingAPIRoot := value != nil && value.IsListing
	_, hasPath := req.Query["path"]
	wantsHTML := strings.Contains(strings.ToLower(req.Headers.Get("Accept")), "text/html")

	if !isListingAPIRoot && (hasPath || wantsHTML) {
		for k := range req.Query {
			if k != "path" {
				// spec.md §4.5 "queries other than path on the docs route
				// yield a redirect to the base path": an unrecognised query
				// parameter means the caller didn't mean to land on docs.
				h := core.NewHeader()
				h.Set("Location", basePath)
				return &core.Response{Status: 301, Headers: h}, nil
			}
		}
		merged := renderDocument(documentOf(apiRootValue), basePath)
		return e.cfg.Docs.ServeDocs(ensureContext(nil), req, merged)
	}

	if isListingAPIRoot && wantsHTML {
		return htmlIndexResponse(basePath, visible), nil
	}

	return core.NewResponse(200, map[string]any{"items": visible}), nil
}

func documentOf(v *routetree.Value) *spec.Document {
	if v == nil {
		return nil
	}
	doc, _ := v.SpecRoot.(*spec.Document)
	return doc
}

// renderDocument flattens a spec.Document into the JSON-able shape ?spec
// serves (spec.md §4.3 step 2 "default servers[0].url"): hidden operations
// and paths are omitted, and the single server entry always reflects the
// caller's own mount point rather than whatever the source document said.
func renderDocument(doc *spec.Document, basePath string) map[string]any {
	out := map[string]any{
		"openapi": "3.0.3",
		"servers": []any{map[string]any{"url": basePath}},
	}
	if doc == nil {
		return out
	}
	if doc.OpenAPI != "" {
		out["openapi"] = doc.OpenAPI
	}
	if doc.Info != nil {
		out["info"] = doc.Info
	}
	if doc.Components != nil {
		out["components"] = doc.Components
	}

	paths := map[string]any{}
	for path, item := range doc.Paths {
		if item == nil || item.Hidden {
			continue
		}
		methods := map[string]any{}
		for verb, op := range item.Methods {
			if op.Hidden {
				continue
			}
			entry := map[string]any{}
			if op.OperationID != "" {
				entry["operationId"] = op.OperationID
			}
			if op.Summary != "" {
				entry["summary"] = op.Summary
			}
			methods[verb] = entry
		}
		if len(methods) > 0 {
			paths[path] = methods
		}
	}
	out["paths"] = paths

	if len(doc.Tags) > 0 {
		tags := make([]any, len(doc.Tags))
		for i, t := range doc.Tags {
			tags[i] = map[string]any{"name": t.Name, "description": t.Description}
		}
		out["tags"] = tags
	}
	return out
}

// htmlIndexResponse renders the plain HTML directory listing a "listing"
// apiRoot serves instead of delegating to the docs collaborator (spec.md
// §4.5 "Accept: text/html on a listing apiRoot").
func htmlIndexResponse(basePath string, names []string) *core.Response {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(basePath))
	b.WriteString("</title></head><body><h1>")
	b.WriteString(html.EscapeString(basePath))
	b.WriteString("</h1><ul>")
	for _, name := range names {
		href := basePath + "/" + name
		b.WriteString(`<li><a href="`)
		b.WriteString(html.EscapeString(href))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(name))
		b.WriteString("</a></li>")
	}
	b.WriteString("</ul></body></html>")

	h := core.NewHeader()
	h.Set("Content-Type", "text/html; charset=utf-8")
	return &core.Response{Status: 200, Headers: h, Body: core.Body{Kind: core.BodyText, Text: b.String()}}
}
