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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/routetree"
)

func echoHandler(status int) core.HandlerFunc {
	return func(ctx *core.Context, req *core.Request) (*core.Response, error) {
		return core.NewResponse(status, map[string]any{"ok": true}), nil
	}
}

func TestLoader_SimpleGetRoute(t *testing.T) {
	raw := map[string]any{
		"paths": map[string]any{
			"/items/{id}": map[string]any{
				"get": map[string]any{
					"operationId": "getItem",
				},
			},
		},
	}
	source := NewYAMLSource("", raw)
	loader := NewLoader(source, NewModuleRegistry(source), nil, nil)
	loader.RootOperations = map[string]core.HandlerFunc{"getItem": echoHandler(200)}

	root, doc, err := loader.Load(context.Background(), nil, "")
	require.NoError(t, err)
	require.NotNil(t, doc)

	res := routetree.Lookup(root, "/items/42")
	require.NotNil(t, res)
	require.NotNil(t, res.Node.Value)
	mh, ok := res.Node.Value.Methods["get"]
	require.True(t, ok)
	resp, err := mh.Handler(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "42", res.Params["id"])
}

func TestLoader_DuplicateMethodIsError(t *testing.T) {
	raw := map[string]any{
		"paths": map[string]any{
			"/items": map[string]any{
				"get": map[string]any{"operationId": "listItems"},
			},
		},
	}
	source := NewYAMLSource("", raw)
	loader := NewLoader(source, NewModuleRegistry(source), nil, nil)
	loader.RootOperations = map[string]core.HandlerFunc{"listItems": echoHandler(200)}
	root, _, err := loader.Load(context.Background(), nil, "")
	require.NoError(t, err)

	// Manually re-register the same verb on the same value to exercise the
	// hard-error rule independent of a second document merge.
	res := routetree.Lookup(root, "/items")
	require.NotNil(t, res)
	err = loader.registerMethod(res.Node.Value, "get", &OperationSpec{OperationID: "listItems"}, ApiScope{Operations: loader.RootOperations}, "/items")
	assert.ErrorIs(t, err, core.ErrMethodAlreadyRegistered)
}

func TestLoader_UnknownOperationIDFails(t *testing.T) {
	raw := map[string]any{
		"paths": map[string]any{
			"/items": map[string]any{
				"get": map[string]any{"operationId": "missing"},
			},
		},
	}
	source := NewYAMLSource("", raw)
	loader := NewLoader(source, NewModuleRegistry(source), nil, nil)
	_, _, err := loader.Load(context.Background(), nil, "")
	assert.ErrorIs(t, err, core.ErrUnknownOperationID)
}

func TestLoader_DisableHandlersSkipsBinding(t *testing.T) {
	raw := map[string]any{
		"paths": map[string]any{
			"/items": map[string]any{
				"get": map[string]any{"operationId": "missing"},
			},
		},
	}
	source := NewYAMLSource("", raw)
	loader := NewLoader(source, NewModuleRegistry(source), nil, nil)
	loader.DisableHandlers = true
	root, _, err := loader.Load(context.Background(), nil, "")
	require.NoError(t, err)
	res := routetree.Lookup(root, "/items")
	require.NotNil(t, res)
	resp, err := res.Node.Value.Methods["get"].Handler(nil, &core.Request{Method: "get", Path: "/items"})
	require.NoError(t, err)
	assert.Equal(t, 501, resp.Status)
}

func TestLoader_ModuleMountsUnderSameNode(t *testing.T) {
	moduleRaw := map[string]any{
		"paths": map[string]any{
			"/sub": map[string]any{
				"get": map[string]any{"operationId": "subOp"},
			},
		},
	}
	raw := map[string]any{
		"paths": map[string]any{
			"/mount": map[string]any{
				"x-modules": []any{
					map[string]any{"type": "inline", "spec": moduleRaw},
				},
			},
		},
	}
	source := NewYAMLSource("", raw)
	registry := NewModuleRegistry(source)
	loader := NewLoader(source, registry, nil, nil)
	loader.RootOperations = map[string]core.HandlerFunc{"subOp": echoHandler(200)}

	root, _, err := loader.Load(context.Background(), nil, "")
	require.NoError(t, err)

	res := routetree.Lookup(root, "/mount/sub")
	require.NotNil(t, res)
	require.NotNil(t, res.Node.Value)
	_, ok := res.Node.Value.Methods["get"]
	assert.True(t, ok)
}

func TestMergeTags_ConflictingDescriptionIsError(t *testing.T) {
	dst := []Tag{{Name: "a", Description: "one"}}
	_, err := mergeTags(dst, []Tag{{Name: "a", Description: "two"}})
	assert.ErrorIs(t, err, core.ErrTagDescriptionConflict)
}

func TestMergeComponents_ConflictingSchemaIsError(t *testing.T) {
	dst := map[string]any{"schemas": map[string]any{"Item": map[string]any{"type": "object"}}}
	src := map[string]any{"schemas": map[string]any{"Item": map[string]any{"type": "string"}}}
	err := mergeComponents(dst, src)
	assert.Error(t, err)
}

func TestCacheKey_StableAcrossMapOrder(t *testing.T) {
	a := ModuleDef{Type: "inline", Inline: map[string]any{"a": 1, "b": 2}}
	b := ModuleDef{Type: "inline", Inline: map[string]any{"b": 2, "a": 1}}
	ka, err := cacheKey(a)
	require.NoError(t, err)
	kb, err := cacheKey(b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)
}
