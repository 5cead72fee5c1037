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

package filter

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/hyperswitch/hyperswitch/core"
)

// StaticDocsHandler is the reference core.DocsHandler (SPEC_FULL.md §6
// "Docs collaborator"): it serves an embedded HTML shell that links out to
// a hosted Swagger/OpenAPI UI rather than bundling one, per spec.md §4.5's
// "delegate to the docs collaborator" and the explicit non-goal of shipping
// a UI implementation.
type StaticDocsHandler struct {
	shell *template.Template
}

// NewStaticDocsHandler builds the default docs handler.
func NewStaticDocsHandler() *StaticDocsHandler {
	return &StaticDocsHandler{shell: template.Must(template.New("docs").Parse(docsShellHTML))}
}

type docsShellModel struct {
	UIURL   string
	UIName  string
	UITitle string
}

// ServeDocs implements core.DocsHandler: it renders the HTML shell when the
// request asks for text/html, otherwise it serves mergedSpec as the raw
// OpenAPI document (the ?spec fallback).
func (h *StaticDocsHandler) ServeDocs(ctx context.Context, req *core.Request, mergedSpec map[string]any) (*core.Response, error) {
	if !strings.Contains(strings.ToLower(req.Headers.Get("Accept")), "text/html") {
		return core.NewResponse(200, mergedSpec), nil
	}

	model := docsShellModel{
		UIURL:   stringFieldOr(mergedSpec, "https://petstore.swagger.io", "x-ui-url"),
		UIName:  stringFieldOr(mergedSpec, "Swagger UI", "x-ui-name"),
		UITitle: stringFieldOr(mergedSpec, "API documentation", "info", "title"),
	}

	var buf strings.Builder
	if err := h.shell.Execute(&buf, model); err != nil {
		return nil, fmt.Errorf("filter: docs shell: %w", err)
	}

	headers := core.NewHeader()
	headers.Set("Content-Type", "text/html; charset=utf-8")
	return &core.Response{Status: 200, Headers: headers, Body: core.Body{Kind: core.BodyText, Text: buf.String()}}, nil
}

func stringFieldOr(m map[string]any, fallback string, keys ...string) string {
	cur := any(m)
	for _, k := range keys {
		mm, ok := cur.(map[string]any)
		if !ok {
			return fallback
		}
		cur = mm[k]
	}
	s, ok := cur.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

const docsShellHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.UITitle}}</title></head>
<body>
<p>API documentation is served by {{.UIName}}.</p>
<p><a href="{{.UIURL}}?url=?spec">Open {{.UIName}}</a></p>
</body>
</html>
`
