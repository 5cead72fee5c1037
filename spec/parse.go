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

package spec

import (
	"fmt"

	"github.com/hyperswitch/hyperswitch/handlerchain"
)

// httpVerbs is the whitelist of method keys recognised under a path item;
// everything else starting with "x-" is a dialect extension (spec.md §4.3
// "Method registration": "x-* keys are skipped except a whitelist").
var httpVerbs = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

// parseDocument decodes a raw (YAML/JSON-shaped) root or module spec
// document into a Document plus its PathItems.
func parseDocument(raw map[string]any) (*Document, error) {
	doc := &Document{
		Components: map[string]any{},
	}
	if v, ok := raw["openapi"].(string); ok {
		doc.OpenAPI = v
	}
	if v, ok := raw["info"].(map[string]any); ok {
		doc.Info = v
	}
	if v, ok := raw["components"].(map[string]any); ok {
		doc.Components = v
	}
	if raw["servers"] != nil {
		doc.Servers = parseServers(raw["servers"])
	}
	if raw["tags"] != nil {
		tags, err := parseTags(raw["tags"])
		if err != nil {
			return nil, err
		}
		doc.Tags = tags
	}
	doc.RouteFilters = parseFilterDefs(raw["x-route-filters"])
	doc.RequestFilters = parseFilterDefs(raw["x-request-filters"])
	doc.SubRequestFilters = parseFilterDefs(raw["x-sub-request-filters"])

	if rawPaths, ok := raw["paths"].(map[string]any); ok {
		doc.Paths = make(map[string]*PathItem, len(rawPaths))
		for pattern, rawItem := range rawPaths {
			itemMap, ok := rawItem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("spec: paths[%q] is not an object", pattern)
			}
			item, err := parsePathItem(itemMap)
			if err != nil {
				return nil, fmt.Errorf("spec: paths[%q]: %w", pattern, err)
			}
			doc.Paths[pattern] = item
		}
	}

	return doc, nil
}

func parseServers(raw any) []Server {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Server, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		url, _ := m["url"].(string)
		out = append(out, Server{URL: url})
	}
	return out
}

func parseTags(raw any) ([]Tag, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("spec: \"tags\" must be a list")
	}
	out := make([]Tag, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		desc, _ := m["description"].(string)
		out = append(out, Tag{Name: name, Description: desc})
	}
	return out, nil
}

func parseFilterDefs(raw any) []FilterDef {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]FilterDef, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		method, _ := m["method"].(string)
		options, _ := m["options"].(map[string]any)
		out = append(out, FilterDef{Name: name, Method: method, Options: options})
	}
	return out
}

func parsePathItem(raw map[string]any) (*PathItem, error) {
	item := &PathItem{Methods: map[string]*OperationSpec{}}

	if v, ok := raw["x-hidden"].(bool); ok {
		item.Hidden = v
	}
	if v, ok := raw["x-listing"].(bool); ok {
		item.Listing = v
	}
	if v, ok := raw["x-host-basePath"].(string); ok {
		item.HostBasePath = v
	}
	if v, ok := raw["x-default-params"].(map[string]any); ok {
		item.DefaultParams = make(map[string]string, len(v))
		for k, val := range v {
			if s, ok := val.(string); ok {
				item.DefaultParams[k] = s
			}
		}
	}
	if v, ok := raw["x-modules"].([]any); ok {
		for _, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			def, err := parseModuleDef(m)
			if err != nil {
				return nil, err
			}
			item.Modules = append(item.Modules, def)
		}
	}

	for key, rawOp := range raw {
		if !httpVerbs[key] {
			continue
		}
		opMap, ok := rawOp.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("spec: method %q is not an object", key)
		}
		opSpec, err := parseOperationSpec(opMap)
		if err != nil {
			return nil, fmt.Errorf("spec: method %q: %w", key, err)
		}
		item.Methods[key] = opSpec
	}

	return item, nil
}

func parseModuleDef(m map[string]any) (ModuleDef, error) {
	typ, _ := m["type"].(string)
	def := ModuleDef{Type: typ}
	if v, ok := m["path"].(string); ok {
		def.Path = v
	}
	if v, ok := m["name"].(string); ok {
		def.Name = v
	}
	if v, ok := m["spec"].(map[string]any); ok {
		def.Inline = v
	}
	if v, ok := m["globals"].(map[string]any); ok {
		def.Globals = v
	}
	switch typ {
	case "file", "spec", "npm", "inline":
	default:
		return ModuleDef{}, fmt.Errorf("spec: x-modules entry has unknown type %q", typ)
	}
	return def, nil
}

func parseOperationSpec(m map[string]any) (*OperationSpec, error) {
	op := &OperationSpec{}
	if v, ok := m["operationId"].(string); ok {
		op.OperationID = v
	}
	if v, ok := m["summary"].(string); ok {
		op.Summary = v
	}
	if v, ok := m["x-hidden"].(bool); ok {
		op.Hidden = v
	}
	if v, ok := m["requestBody"].(map[string]any); ok {
		op.RequestBody = v
	}
	if v, ok := m["responses"].(map[string]any); ok {
		op.Responses = v
	}
	if v, ok := m["security"].([]any); ok {
		op.Security = parseSecurity(v)
	}
	if v, ok := m["parameters"].([]any); ok {
		op.Params = parseParams(v)
	}
	op.RouteFilters = parseFilterDefs(m["x-route-filters"])

	if v, ok := m["x-request-handler"].([]any); ok {
		handler, err := parseRequestHandler(v)
		if err != nil {
			return nil, err
		}
		op.RequestHandler = handler
	}
	if v, ok := m["x-setup-handler"].([]any); ok {
		for _, entry := range v {
			rm, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			name, _ := rm["name"].(string)
			method, _ := rm["method"].(string)
			if method == "" {
				method = "put"
			}
			op.SetupHandler = append(op.SetupHandler, ResourceDef{Name: name, Method: method, Raw: rm})
		}
	}

	return op, nil
}

// parseRequestHandler decodes x-request-handler into handlerchain's ordered
// StepSpec/StanzaSpec shape. spec.md §4.6 models a step as "a mapping from
// request-name to request-stanza", but a Go map (and the YAML decoder that
// feeds it) loses key order, and response-massaging order within a step is
// semantically load-bearing (spec.md §5). The dialect is therefore carried
// here as a list-of-lists: each step is itself a list of stanza objects,
// each one carrying its own explicit "name" field, so declaration order
// survives the round trip through map[string]any (see DESIGN.md).
func parseRequestHandler(raw []any) ([]handlerchain.StepSpec, error) {
	steps := make([]handlerchain.StepSpec, 0, len(raw))
	for i, rawStep := range raw {
		stanzaList, ok := rawStep.([]any)
		if !ok {
			return nil, fmt.Errorf("spec: x-request-handler step %d must be a list of named stanzas", i)
		}
		step := make(handlerchain.StepSpec, 0, len(stanzaList))
		for _, rawStanza := range stanzaList {
			sm, ok := rawStanza.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("spec: x-request-handler step %d has a non-object stanza", i)
			}
			name, _ := sm["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("spec: x-request-handler step %d has a stanza with no name", i)
			}
			step = append(step, handlerchain.StanzaSpec{Name: name, Raw: sm})
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseSecurity(raw []any) []map[string][]string {
	out := make([]map[string][]string, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		scheme := make(map[string][]string, len(m))
		for name, scopesRaw := range m {
			scopesList, _ := scopesRaw.([]any)
			scopes := make([]string, 0, len(scopesList))
			for _, s := range scopesList {
				if str, ok := s.(string); ok {
					scopes = append(scopes, str)
				}
			}
			scheme[name] = scopes
		}
		out = append(out, scheme)
	}
	return out
}

func parseParams(raw []any) []ParamDef {
	out := make([]ParamDef, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		p := ParamDef{}
		p.In, _ = m["in"].(string)
		p.Name, _ = m["name"].(string)
		p.Required, _ = m["required"].(bool)
		if schema, ok := m["schema"].(map[string]any); ok {
			p.Type, _ = schema["type"].(string)
			if enumRaw, ok := schema["enum"].([]any); ok {
				for _, e := range enumRaw {
					if s, ok := e.(string); ok {
						p.Enum = append(p.Enum, s)
					}
				}
			}
		}
		if p.Type == "" {
			p.Type = "string"
		}
		out = append(out, p)
	}
	return out
}
