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

// ParamSpec describes one declared parameter (path/query/header) used by
// the validator stock filter's coercion routine (spec.md §4.7).
type ParamSpec struct {
	In       string // "path", "query" or "header"
	Name     string
	Type     string // "string" (default), "integer", "number", "boolean", "object"
	Enum     []string
	Required bool
}

// OperationInfo is the specInfo argument passed to every Filter: the
// compiled, per-operation metadata a filter may need (spec.md §4.4 filter
// contract "fn(ctx, req, next, options, specInfo)").
type OperationInfo struct {
	Method      string
	Path        string // canonical base+prefix path pattern
	OperationID string
	Security    []map[string][]string
	Params      []ParamSpec
	// Schema is the JSON Schema object validating {params, query, headers,
	// body}, compiled once and cached by filter.Validator.
	Schema map[string]any
	// Hidden marks x-hidden operations, omitted from the merged spec/listings.
	Hidden bool
}
