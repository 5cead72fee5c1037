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
	"os"

	"gopkg.in/yaml.v3"
)

// SpecSource resolves a raw spec document from wherever the application
// stores it: an inline map, a file on disk, or some other registry. It is
// the "YAML parser" collaborator spec.md §1 keeps external to the core;
// the loader only ever calls through this interface.
type SpecSource interface {
	// Load resolves path (empty for the application's root document) to a
	// raw, not-yet-typed specification object.
	Load(ctx context.Context, path string) (map[string]any, error)
}

// YAMLSource is the default SpecSource: it reads a root document plus any
// x-modules {type:spec} references from YAML files or inline bytes,
// grounded on the teacher's codec.YAMLCodec (rivaas.dev/config/codec).
type YAMLSource struct {
	// AppBasePath is the directory non-absolute module paths are resolved
	// against when "as-given" resolution fails (spec.md §4.3 "Module
	// loading" resolution order).
	AppBasePath string
	// Root is the already-parsed root document, when the caller builds it
	// in memory rather than from a file (e.g. tests, embedded specs).
	Root map[string]any
}

// NewYAMLSource builds a YAMLSource rooted at basePath, with root as the
// in-memory root document (may be nil if Load("") will be given a path
// instead).
func NewYAMLSource(basePath string, root map[string]any) *YAMLSource {
	return &YAMLSource{AppBasePath: basePath, Root: root}
}

// Load implements SpecSource.
func (y *YAMLSource) Load(_ context.Context, path string) (map[string]any, error) {
	if path == "" {
		if y.Root == nil {
			return nil, fmt.Errorf("spec: YAMLSource has no in-memory root document and no path was given")
		}
		return y.Root, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spec: failed to read %q: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("spec: failed to decode %q: %w", path, err)
	}
	return doc, nil
}

// LoadInline parses an inline YAML-shaped block (already decoded into a
// map[string]any by the caller's own YAML front-end) into the shape Load
// would have produced; it exists so "x-modules: {type:inline, spec:{...}}"
// entries do not need to round-trip through bytes.
func LoadInline(raw map[string]any) map[string]any { return raw }
