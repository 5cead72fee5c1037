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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperswitch/hyperswitch/core"
)

// ModuleResult is what loading a module (of any ModuleDef.Type) yields:
// spec.md §4.3 "a callable that returns {spec, operations, resources?,
// globals?}".
type ModuleResult struct {
	Spec       map[string]any
	Operations map[string]core.HandlerFunc
	Resources  []ResourceDef
	Globals    map[string]any
}

// ModuleFactory is a host-language module: the Go analogue of spec.md's
// "{type:file,path}" callable. Applications register factories by the path
// they will be referenced under in x-modules.
type ModuleFactory func(globals map[string]any) (*ModuleResult, error)

// ModuleRegistry holds the host-language factories an application exposes
// to "file" and "npm" x-modules entries, plus the content-addressed cache
// described in spec.md §4.3 "Module loading" / Design Note §9 "Module
// sharing": identical (moduleDef, exportedGlobals) pairs are resolved once.
//
// The registry's cache is cleared once the tree is sealed (spec.md §5
// "Startup ordering... The module cache is cleared after startup"); it
// exists only to make loading idempotent while x-modules is processed.
type ModuleRegistry struct {
	Source SpecSource

	// Files and NPM map a module path/name to the factory that produces its
	// ModuleResult. There is no dynamic code loading at runtime in Go; the
	// embedding application registers these ahead of time.
	Files map[string]ModuleFactory
	NPM   map[string]ModuleFactory

	cache map[string]*ModuleResult
}

// NewModuleRegistry builds an empty registry around source.
func NewModuleRegistry(source SpecSource) *ModuleRegistry {
	return &ModuleRegistry{
		Source: source,
		Files:  map[string]ModuleFactory{},
		NPM:    map[string]ModuleFactory{},
		cache:  map[string]*ModuleResult{},
	}
}

// Seal clears the content-addressed cache (spec.md §5).
func (r *ModuleRegistry) Seal() { r.cache = nil }

// Resolve loads def, consulting (and populating) the content-addressed
// cache. appBasePath is the application's base directory (ApiScope.AppBasePath) used
// for "file"/"spec" path resolution (spec.md §4.3 resolution order:
// as-given -> appBasePath+path -> appBasePath+/node_modules/+path).
func (r *ModuleRegistry) Resolve(ctx context.Context, def ModuleDef, appBasePath string) (*ModuleResult, error) {
	key, err := cacheKey(def)
	if err != nil {
		return nil, fmt.Errorf("spec: hashing module definition: %w", err)
	}
	if r.cache != nil {
		if cached, ok := r.cache[key]; ok {
			return cached, nil
		}
	}

	result, err := r.load(ctx, def, appBasePath)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache[key] = result
	}
	return result, nil
}

func (r *ModuleRegistry) load(ctx context.Context, def ModuleDef, appBasePath string) (*ModuleResult, error) {
	switch def.Type {
	case "inline":
		return &ModuleResult{Spec: LoadInline(def.Inline), Globals: def.Globals}, nil

	case "spec":
		var raw map[string]any
		var err error
		if def.Inline != nil {
			raw = LoadInline(def.Inline)
		} else {
			raw, err = r.loadSpecPath(ctx, def.Path, appBasePath)
			if err != nil {
				return nil, err
			}
		}
		return &ModuleResult{Spec: raw, Globals: def.Globals}, nil

	case "file":
		factory, resolvedPath, ok := resolveFactory(r.Files, def.Path, appBasePath)
		if !ok {
			return nil, fmt.Errorf("spec: no file module registered for %q (tried as-given, %s)", def.Path, resolvedPath)
		}
		res, err := factory(def.Globals)
		if err != nil {
			return nil, fmt.Errorf("spec: file module %q failed: %w", def.Path, err)
		}
		return res, nil

	case "npm":
		factory, resolvedPath, ok := resolveFactory(r.NPM, def.Name, appBasePath)
		if !ok {
			return nil, fmt.Errorf("spec: no npm-style module registered for %q (tried as-given, %s)", def.Name, resolvedPath)
		}
		res, err := factory(def.Globals)
		if err != nil {
			return nil, fmt.Errorf("spec: npm module %q failed: %w", def.Name, err)
		}
		return res, nil

	default:
		return nil, fmt.Errorf("spec: unknown x-modules type %q", def.Type)
	}
}

// loadSpecPath resolves a {type:spec,path} entry through Source, trying the
// resolution order: as-given, appBasePath+path, appBasePath+/node_modules/+path.
func (r *ModuleRegistry) loadSpecPath(ctx context.Context, path, appBasePath string) (map[string]any, error) {
	candidates := resolutionCandidates(path, appBasePath)
	var lastErr error
	for _, candidate := range candidates {
		if candidate != path {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
		}
		doc, err := r.Source.Load(ctx, candidate)
		if err == nil {
			return doc, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("spec: no candidate path found for %q under %q", path, appBasePath)
	}
	return nil, lastErr
}

// resolveFactory picks the first candidate path present in registry.
func resolveFactory(registry map[string]ModuleFactory, name, appBasePath string) (ModuleFactory, string, bool) {
	for _, candidate := range resolutionCandidates(name, appBasePath) {
		if factory, ok := registry[candidate]; ok {
			return factory, candidate, true
		}
	}
	return nil, name, false
}

// resolutionCandidates enumerates spec.md §4.3's module path resolution
// order for a non-absolute reference.
func resolutionCandidates(path, appBasePath string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}
	candidates := []string{path}
	if appBasePath != "" {
		candidates = append(candidates, filepath.Join(appBasePath, path))
		candidates = append(candidates, filepath.Join(appBasePath, "node_modules", path))
	}
	return candidates
}

// cacheKey computes the structural hash pair (hash(moduleDef),
// hash(exportedGlobals)) from Design Note §9 "Module sharing": json.Marshal
// sorts map keys, so two structurally identical ModuleDefs always hash
// identically regardless of map iteration order.
func cacheKey(def ModuleDef) (string, error) {
	defBytes, err := json.Marshal(struct {
		Type   string
		Path   string
		Name   string
		Inline map[string]any
	}{def.Type, def.Path, def.Name, def.Inline})
	if err != nil {
		return "", err
	}
	globalsBytes, err := json.Marshal(def.Globals)
	if err != nil {
		return "", err
	}
	defHash := sha256.Sum256(defBytes)
	globalsHash := sha256.Sum256(globalsBytes)
	return hex.EncodeToString(defHash[:]) + ":" + hex.EncodeToString(globalsHash[:]), nil
}
