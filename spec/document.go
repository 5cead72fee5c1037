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

// Package spec loads OpenAPI-style documents and x-modules into a merged
// route tree (spec.md §4.3). The loader is the only part of HyperSwitch
// that understands the spec dialect extensions (x-modules, x-route-filters,
// x-request-handler, x-setup-handler, ...); everything downstream only sees
// a built routetree.Node and a core.OperationInfo per method.
package spec

import "github.com/hyperswitch/hyperswitch/handlerchain"

// Document is one merged OpenAPI-style specification, the specRoot a route
// tree Value points back to (spec.md §3 "specRoot").
type Document struct {
	OpenAPI    string
	Info       map[string]any
	Servers    []Server
	Paths      map[string]*PathItem
	Components map[string]any // "schemas", "responses", ... merged by name
	Tags       []Tag

	// RouteFilters are the x-route-filters declared at this document's
	// root scope (spec.md §4.3 step 3 "register route filters").
	RouteFilters []FilterDef
	// RequestFilters / SubRequestFilters are the engine-level filter
	// stacks (spec.md §6): request-level applies only to externally
	// initiated requests, sub-request-level only to recursive calls.
	RequestFilters    []FilterDef
	SubRequestFilters []FilterDef
}

// Server is one OpenAPI "servers[]" entry; only URL is used by HyperSwitch
// (spec.md §4.3 step 2 "default servers[0].url = prefixPath").
type Server struct {
	URL string
}

// Tag is one OpenAPI top-level tag, deduplicated by Name during merge
// (spec.md §4.3 step 3, §8 "Spec merging").
type Tag struct {
	Name        string
	Description string
}

// PathItem is the raw parsed form of one "paths" entry, keyed by lower-cased
// HTTP verb, before handlePathSpec turns it into route tree state.
type PathItem struct {
	Methods map[string]*OperationSpec
	// Modules are x-modules entries declared directly under this path
	// (spec.md §4.3 step 5: "modules... recursively handled under the same
	// node").
	Modules []ModuleDef
	// DefaultParams is x-default-params (SPEC_FULL.md §6): default path
	// parameter bindings, overridden by anything the router itself binds.
	DefaultParams map[string]string
	// Hidden is x-hidden at the path level.
	Hidden bool
	// Listing is x-listing: marks this path's apiRoot as a synthetic
	// listing root (spec.md §6).
	Listing bool
	// HostBasePath is x-host-basePath (SPEC_FULL.md §6).
	HostBasePath string
}

// OperationSpec is one HTTP-verb entry under a path, still in "spec"
// (declarative) form, before compilation.
type OperationSpec struct {
	OperationID string
	Summary     string
	Security    []map[string][]string
	Params      []ParamDef
	RequestBody map[string]any
	Responses   map[string]any

	// RouteFilters is x-route-filters scoped to this one method.
	RouteFilters []FilterDef
	// RequestHandler is x-request-handler: a declarative chain compiled by
	// the handlerchain package (spec.md §4.6). Carried as handlerchain's own
	// ordered StepSpec type rather than []map[string]any so a step's named
	// stanzas keep their declaration order (see DESIGN.md; response-massaging
	// order is semantically load-bearing, spec.md §5).
	RequestHandler []handlerchain.StepSpec
	// SetupHandler is x-setup-handler: resource templates, default method
	// "put" (spec.md §4.3 "Resource phase").
	SetupHandler []ResourceDef

	Hidden bool
}

// ParamDef mirrors an OpenAPI parameter object closely enough for the
// validator filter to build a ParamSpec from it.
type ParamDef struct {
	In       string
	Name     string
	Type     string
	Enum     []string
	Required bool
}

// FilterDef is one x-route-filters/x-request-filters/x-sub-request-filters
// entry as parsed from the spec, before it is resolved to a bound
// core.FilterEntry by the loader (spec.md §3 "Filter entry").
type FilterDef struct {
	Name    string
	Options map[string]any
	Method  string
}

// ResourceDef is one x-setup-handler entry (spec.md §4.3 "Resource phase").
type ResourceDef struct {
	Name   string
	Method string // defaults to "put"
	Raw    map[string]any
}

// ModuleDef is one x-modules entry (spec.md §4.3 "Module loading").
type ModuleDef struct {
	Type string // "file", "spec", "npm", "inline"

	Path   string // for "file"/"spec"
	Name   string // for "npm"
	Inline map[string]any // for "inline", or "spec" with an inline document

	// Globals is configuration exported to the module's templates/handlers
	// (spec.md §4.3 "Module loading": cache key includes hash(exportedGlobals)).
	Globals map[string]any
}
