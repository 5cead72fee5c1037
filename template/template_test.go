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

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_WholeStringPlaceholderPreservesType(t *testing.T) {
	tmpl := New(map[string]any{
		"title": "{$.request.params.title}",
	})
	model := map[string]any{
		"request": map[string]any{
			"params": map[string]any{"title": "hello"},
		},
	}
	out, errs := tmpl.Expand(model)
	require.Empty(t, errs)
	m := out.(map[string]any)
	assert.Equal(t, "hello", m["title"])
}

func TestExpand_EmbeddedPlaceholderStringifies(t *testing.T) {
	tmpl := New("/users/{$.request.params.id}/posts")
	model := map[string]any{
		"request": map[string]any{"params": map[string]any{"id": "42"}},
	}
	out, errs := tmpl.Expand(model)
	require.Empty(t, errs)
	assert.Equal(t, "/users/42/posts", out)
}

func TestExpand_MissingPathYieldsUndefined(t *testing.T) {
	tmpl := New("{$.request.params.missing}")
	out, errs := tmpl.Expand(map[string]any{"request": map[string]any{"params": map[string]any{}}})
	require.Empty(t, errs)
	_, ok := out.(Undefined)
	assert.True(t, ok)
}

func TestExpand_ProtectedTemplatesKeyIsNotExpanded(t *testing.T) {
	tmpl := New(map[string]any{
		"templates": map[string]any{"raw": "{$.request.params.id}"},
		"title":     "{$.request.params.id}",
	})
	model := map[string]any{"request": map[string]any{"params": map[string]any{"id": "7"}}}
	out, errs := tmpl.Expand(model)
	require.Empty(t, errs)
	m := out.(map[string]any)
	assert.Equal(t, "7", m["title"])
	raw := m["templates"].(map[string]any)
	assert.Equal(t, "{$.request.params.id}", raw["raw"])
}

func TestExpand_ArrayRecursion(t *testing.T) {
	tmpl := New([]any{"{$.a}", "{$.b}"})
	out, errs := tmpl.Expand(map[string]any{"a": 1, "b": 2})
	require.Empty(t, errs)
	arr := out.([]any)
	assert.Equal(t, 1, arr[0])
	assert.Equal(t, 2, arr[1])
}

func TestExpand_IndexedPath(t *testing.T) {
	tmpl := New("{$.items[1].name}")
	model := map[string]any{
		"items": []any{
			map[string]any{"name": "a"},
			map[string]any{"name": "b"},
		},
	}
	out, errs := tmpl.Expand(model)
	require.Empty(t, errs)
	assert.Equal(t, "b", out)
}
