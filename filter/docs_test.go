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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperswitch/hyperswitch/core"
)

func TestStaticDocsHandler_ServesRawSpecByDefault(t *testing.T) {
	h := NewStaticDocsHandler()
	req := core.NewRequest("/sys/docs")
	merged := map[string]any{"openapi": "3.1.0"}

	resp, err := h.ServeDocs(context.Background(), req, merged)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, core.BodyObject, resp.Body.Kind)
	assert.Equal(t, merged, resp.Body.Object)
}

func TestStaticDocsHandler_ServesHTMLShellOnAccept(t *testing.T) {
	h := NewStaticDocsHandler()
	req := core.NewRequest("/sys/docs")
	req.Headers.Set("Accept", "text/html, */*")
	merged := map[string]any{
		"info":     map[string]any{"title": "Widgets API"},
		"x-ui-url": "https://ui.example.test/",
	}

	resp, err := h.ServeDocs(context.Background(), req, merged)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, core.BodyText, resp.Body.Kind)
	assert.Contains(t, resp.Body.Text, "Widgets API")
	assert.Contains(t, resp.Body.Text, "https://ui.example.test/")
	assert.True(t, strings.Contains(resp.Headers.Get("Content-Type"), "text/html"))
}

func TestStringFieldOr_FallsBackOnMissingOrWrongType(t *testing.T) {
	assert.Equal(t, "fallback", stringFieldOr(map[string]any{}, "fallback", "info", "title"))
	assert.Equal(t, "fallback", stringFieldOr(map[string]any{"info": "not-a-map"}, "fallback", "info", "title"))
	assert.Equal(t, "fallback", stringFieldOr(map[string]any{"info": map[string]any{"title": 5}}, "fallback", "info", "title"))
	assert.Equal(t, "Widgets", stringFieldOr(map[string]any{"info": map[string]any{"title": "Widgets"}}, "fallback", "info", "title"))
}
