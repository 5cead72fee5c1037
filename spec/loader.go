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
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/handlerchain"
	"github.com/hyperswitch/hyperswitch/routetree"
	"github.com/hyperswitch/hyperswitch/uri"
)

// ApiScope is the accumulator threaded through the recursive path walk
// (spec.md §4.3): the merged specRoot for the current API root, the prefix
// path built up so far, the globals visible to handlers/templates at this
// point in the tree, and the operationId->handler table contributed by the
// modules entered so far.
type ApiScope struct {
	SpecRoot    *Document
	PrefixPath  string
	Globals     map[string]any
	Operations  map[string]core.HandlerFunc
	AppBasePath string
}

// FilterResolver turns a FilterDef's Name into a bound core.Filter. The
// loader never implements filters itself (spec.md §1 keeps the stock
// filters' backends external); it only wires declarations to
// implementations supplied by the filter package.
type FilterResolver func(name string) (core.Filter, bool)

// ChainCompiler compiles an x-request-handler's declarative steps into a
// callable handler (spec.md §4.6), implemented by package handlerchain.
type ChainCompiler func(steps []handlerchain.StepSpec) (core.HandlerFunc, error)

// Loader builds a route tree from a root spec document, recursively
// resolving x-modules (spec.md §4.3).
type Loader struct {
	Source   SpecSource
	Modules  *ModuleRegistry
	Filters  FilterResolver
	Compiler ChainCompiler

	// DisableHandlers dry-runs the loader without binding operationId
	// callables (spec.md §6 "disable_handlers"); unknown operationIds
	// become no-op placeholders instead of fatal errors.
	DisableHandlers bool

	// RootOperations are operationId callables available to the root
	// document itself, before any x-modules are entered (typically
	// registered by the embedding application at startup).
	RootOperations map[string]core.HandlerFunc
}

// NewLoader builds a Loader around the given collaborators.
func NewLoader(source SpecSource, modules *ModuleRegistry, filters FilterResolver, compiler ChainCompiler) *Loader {
	return &Loader{Source: source, Modules: modules, Filters: filters, Compiler: compiler}
}

// Load reads the root document from Source and builds the complete route
// tree plus its merged Document (spec.md §4.3 steps 1-5).
func (l *Loader) Load(ctx context.Context, rootOptions map[string]any, appBasePath string) (*routetree.Node, *Document, error) {
	raw, err := l.Source.Load(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("spec: loading root document: %w", err)
	}

	root := routetree.NewRoot()
	rootDoc := &Document{Components: map[string]any{}}

	ops := make(map[string]core.HandlerFunc, len(l.RootOperations))
	for k, v := range l.RootOperations {
		ops[k] = v
	}

	scope := ApiScope{
		SpecRoot:    rootDoc,
		PrefixPath:  "",
		Globals:     map[string]any{"options": rootOptions},
		Operations:  ops,
		AppBasePath: appBasePath,
	}

	installAPIRoot(root, rootDoc, "")

	if err := l.processDocument(ctx, root, scope, raw); err != nil {
		return nil, nil, err
	}
	return root, rootDoc, nil
}

// installAPIRoot attaches the synthetic apiRoot meta-segment described in
// spec.md §4.3 step 2: a clone of doc with empty paths/components/tags and
// servers[0].url defaulted to prefixPath, used to resolve "GET /" on this
// API root (spec.md §4.1 listing protocol, §4.5 default listing handler).
func installAPIRoot(node *routetree.Node, doc *Document, prefixPath string) {
	meta := node.EnsureMetaChild(uri.MetaAPIRoot)
	v := meta.EnsureValue()
	rootView := &Document{
		Components: map[string]any{},
		Servers:    []Server{{URL: prefixPath}},
	}
	v.SpecRoot = rootView
	v.IsAPIRoot = true
	v.Path = prefixPath
}

// processDocument parses raw into a Document, merges its components/tags
// into scope.SpecRoot, and walks its paths (spec.md §4.3 step 3-4).
func (l *Loader) processDocument(ctx context.Context, node *routetree.Node, scope ApiScope, raw map[string]any) error {
	doc, err := parseDocument(raw)
	if err != nil {
		return err
	}

	if err := mergeComponents(scope.SpecRoot.Components, doc.Components); err != nil {
		return err
	}
	merged, err := mergeTags(scope.SpecRoot.Tags, doc.Tags)
	if err != nil {
		return err
	}
	scope.SpecRoot.Tags = merged
	scope.SpecRoot.RouteFilters = append(scope.SpecRoot.RouteFilters, doc.RouteFilters...)
	scope.SpecRoot.RequestFilters = append(scope.SpecRoot.RequestFilters, doc.RequestFilters...)
	scope.SpecRoot.SubRequestFilters = append(scope.SpecRoot.SubRequestFilters, doc.SubRequestFilters...)
	if scope.SpecRoot.Paths == nil {
		scope.SpecRoot.Paths = map[string]*PathItem{}
	}

	// Paths are processed in sorted order: spec.md §4.3 step 4 requires
	// sequential processing "to avoid race hazards" (shared-subtree
	// lookups and the specRoot.paths merge are not safe to interleave);
	// sorting also makes load-time error messages reproducible.
	patterns := make([]string, 0, len(doc.Paths))
	for pattern := range doc.Paths {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		if err := l.handlePathSpec(ctx, node, scope, pattern, doc.Paths[pattern]); err != nil {
			return fmt.Errorf("spec: path %q: %w", pattern, err)
		}
	}
	return nil
}

// handlePathSpec implements spec.md §4.3 step 4: build/reuse nodes for
// pattern, attach a Value, register its methods, and recurse into any
// x-modules mounted at this path (step 5, "under the same node").
func (l *Loader) handlePathSpec(ctx context.Context, node *routetree.Node, scope ApiScope, pattern string, item *PathItem) error {
	segs, err := uri.ParsePattern(pattern)
	if err != nil {
		return err
	}

	childPath := scope.PrefixPath + simplePattern(pattern)

	last, parent, err := routetree.BuildPath(node, segs)
	if err != nil {
		return err
	}

	if len(segs) > 0 && segs[len(segs)-1].Kind == uri.KindOptional {
		if err := routetree.MirrorOptional(parent, last); err != nil {
			return err
		}
	}

	value := last.EnsureValue()
	if value.Path == "" {
		value.Path = childPath
	}
	value.SpecRoot = scope.SpecRoot
	value.Globals = scope.Globals
	value.Hidden = item.Hidden
	value.IsListing = item.Listing
	value.DefaultParams = item.DefaultParams

	if scope.SpecRoot.Paths[childPath] == nil {
		scope.SpecRoot.Paths[childPath] = item
	}

	for verb, opSpec := range item.Methods {
		if err := l.registerMethod(value, verb, opSpec, scope, childPath); err != nil {
			return fmt.Errorf("method %q: %w", verb, err)
		}
	}

	for _, modDef := range item.Modules {
		if err := l.mountModule(ctx, last, scope, childPath, modDef); err != nil {
			return err
		}
	}

	return nil
}

// registerMethod binds one HTTP verb on value (spec.md §4.3 "Method
// registration").
func (l *Loader) registerMethod(value *routetree.Value, verb string, opSpec *OperationSpec, scope ApiScope, path string) error {
	verb = strings.ToLower(verb)
	if value.Methods == nil {
		value.Methods = map[string]*routetree.MethodHandler{}
	}
	if _, exists := value.Methods[verb]; exists {
		return fmt.Errorf("%w: %s %s", core.ErrMethodAlreadyRegistered, strings.ToUpper(verb), path)
	}

	info := &core.OperationInfo{
		Method:      verb,
		Path:        path,
		OperationID: opSpec.OperationID,
		Security:    opSpec.Security,
		Hidden:      opSpec.Hidden,
		Schema:      buildSchema(opSpec),
	}
	for _, p := range opSpec.Params {
		info.Params = append(info.Params, core.ParamSpec{In: p.In, Name: p.Name, Type: p.Type, Enum: p.Enum, Required: p.Required})
	}

	handler, err := l.bindHandler(opSpec, scope)
	if err != nil {
		return err
	}

	value.Methods[verb] = &routetree.MethodHandler{Handler: handler, Info: info}

	for _, fd := range opSpec.RouteFilters {
		entry, err := l.resolveFilter(fd, verb)
		if err != nil {
			return err
		}
		value.Filters = append(value.Filters, entry)
	}

	for _, rd := range opSpec.SetupHandler {
		value.Resources = append(value.Resources, routetree.ResourceTemplate{Name: rd.Name, Raw: rd.Raw, Method: rd.Method})
	}

	return nil
}

// bindHandler resolves an operation's callable: a compiled declarative
// chain (x-request-handler) takes priority, otherwise the operationId is
// looked up in the modules visible at this scope (spec.md §4.3 "Handler
// binding").
func (l *Loader) bindHandler(opSpec *OperationSpec, scope ApiScope) (core.HandlerFunc, error) {
	if opSpec.RequestHandler != nil {
		if l.Compiler == nil {
			return nil, fmt.Errorf("spec: x-request-handler present but no ChainCompiler configured")
		}
		return l.Compiler(opSpec.RequestHandler)
	}

	if opSpec.OperationID == "" {
		return nil, fmt.Errorf("spec: operation has neither x-request-handler nor operationId")
	}
	handler, ok := scope.Operations[opSpec.OperationID]
	if !ok {
		if l.DisableHandlers {
			return func(ctx *core.Context, req *core.Request) (*core.Response, error) {
				return core.NewHSError(501, "not_implemented", "Handler disabled").WithRequest(req.Method, req.Path).ToResponse(""), nil
			}, nil
		}
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownOperationID, opSpec.OperationID)
	}
	return handler, nil
}

func (l *Loader) resolveFilter(fd FilterDef, verb string) (core.FilterEntry, error) {
	if l.Filters == nil {
		return core.FilterEntry{}, fmt.Errorf("spec: filter %q referenced but no FilterResolver configured", fd.Name)
	}
	fn, ok := l.Filters(fd.Name)
	if !ok {
		return core.FilterEntry{}, fmt.Errorf("spec: unknown filter %q", fd.Name)
	}
	method := fd.Method
	if method == "" {
		method = verb
	}
	return core.FilterEntry{Fn: fn, Name: fd.Name, Options: fd.Options, Method: method}, nil
}

// mountModule resolves def and recursively processes the module's spec (or
// registers its raw operations/resources) under node, carrying forward
// def.Globals merged over the parent scope's (spec.md §4.3 step 5).
func (l *Loader) mountModule(ctx context.Context, node *routetree.Node, scope ApiScope, path string, def ModuleDef) error {
	result, err := l.Modules.Resolve(ctx, def, scope.AppBasePath)
	if err != nil {
		return fmt.Errorf("x-modules: %w", err)
	}

	childGlobals := mergeGlobals(scope.Globals, result.Globals)
	childOps := scope.Operations
	if len(result.Operations) > 0 {
		childOps = make(map[string]core.HandlerFunc, len(scope.Operations)+len(result.Operations))
		for k, v := range scope.Operations {
			childOps[k] = v
		}
		for k, v := range result.Operations {
			childOps[k] = v
		}
	}

	childScope := ApiScope{
		SpecRoot:    scope.SpecRoot,
		PrefixPath:  path,
		Globals:     childGlobals,
		Operations:  childOps,
		AppBasePath: scope.AppBasePath,
	}

	installAPIRoot(node, scope.SpecRoot, path)

	if result.Spec != nil {
		if err := l.processDocument(ctx, node, childScope, result.Spec); err != nil {
			return err
		}
	}

	if len(result.Resources) > 0 {
		v := node.EnsureValue()
		for _, rd := range result.Resources {
			v.Resources = append(v.Resources, routetree.ResourceTemplate{Name: rd.Name, Raw: rd.Raw, Method: rd.Method})
		}
	}

	return nil
}

func mergeGlobals(parent, child map[string]any) map[string]any {
	if len(child) == 0 {
		return parent
	}
	out := make(map[string]any, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}
	return out
}

// simplePattern strips a leading/trailing "/" for clean concatenation when
// building a childScope's prefixPath (spec.md §4.3 step 4).
func simplePattern(pattern string) string {
	if pattern == "" || pattern == "/" {
		return ""
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	return strings.TrimSuffix(pattern, "/")
}

// buildSchema assembles the per-operation JSON Schema the validator stock
// filter compiles and caches (spec.md §4.7): one object schema over
// {params, query, headers, body}.
func buildSchema(opSpec *OperationSpec) map[string]any {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	query := map[string]any{"type": "object", "properties": map[string]any{}}
	headers := map[string]any{"type": "object", "properties": map[string]any{}}

	var paramsRequired, queryRequired, headersRequired []string

	for _, p := range opSpec.Params {
		propSchema := map[string]any{"type": jsonSchemaType(p.Type)}
		if len(p.Enum) > 0 {
			enumVals := make([]any, len(p.Enum))
			for i, e := range p.Enum {
				enumVals[i] = e
			}
			propSchema["enum"] = enumVals
		}
		switch p.In {
		case "path":
			params["properties"].(map[string]any)[p.Name] = propSchema
			if p.Required {
				paramsRequired = append(paramsRequired, p.Name)
			}
		case "header":
			headers["properties"].(map[string]any)[p.Name] = propSchema
			if p.Required {
				headersRequired = append(headersRequired, p.Name)
			}
		default: // "query"
			query["properties"].(map[string]any)[p.Name] = propSchema
			if p.Required {
				queryRequired = append(queryRequired, p.Name)
			}
		}
	}
	if len(paramsRequired) > 0 {
		params["required"] = paramsRequired
	}
	if len(queryRequired) > 0 {
		query["required"] = queryRequired
	}
	if len(headersRequired) > 0 {
		headers["required"] = headersRequired
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"params":  params,
			"query":   query,
			"headers": headers,
		},
	}
	if opSpec.RequestBody != nil {
		schema["properties"].(map[string]any)["body"] = opSpec.RequestBody
	}
	return schema
}

func jsonSchemaType(t string) string {
	switch t {
	case "integer", "number", "boolean", "object", "array":
		return t
	default:
		return "string"
	}
}
