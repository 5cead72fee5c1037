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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperswitch/hyperswitch/core"
)

func newTestContext(depth int) *core.Context {
	settings := &core.EngineSettings{DefaultErrorURI: core.DefaultErrorURI}
	ctx := core.NewRootContext("req-1", settings, nil, core.ClassExternal)
	ctx.RecursionDepth = depth
	return ctx
}

func okNext(ctx *core.Context, req *core.Request) (*core.Response, error) {
	return core.NewResponse(200, map[string]any{"ok": true}), nil
}

func TestHeaderMatchFilter_AllowsMatchingHeader(t *testing.T) {
	ctx := newTestContext(0)
	req := core.NewRequest("/v1/items")
	req.Headers.Set("X-Api-Key", "abc123")

	options := map[string]any{"header": "X-Api-Key", "pattern": "^abc"}
	resp, err := HeaderMatchFilter(ctx, req, okNext, options, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
}

func TestHeaderMatchFilter_RejectsNonMatchingHeader(t *testing.T) {
	ctx := newTestContext(0)
	req := core.NewRequest("/v1/items")
	req.Headers.Set("X-Api-Key", "nope")

	options := map[string]any{"header": "X-Api-Key", "pattern": "^abc"}
	resp, err := HeaderMatchFilter(ctx, req, okNext, options, nil)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.Status)
}

func TestHeaderMatchFilter_SkipsSubRequests(t *testing.T) {
	ctx := newTestContext(1)
	req := core.NewRequest("/v1/items")

	options := map[string]any{"header": "X-Api-Key", "pattern": "^abc"}
	resp, err := HeaderMatchFilter(ctx, req, okNext, options, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status, "sub-requests bypass header-match entirely")
}

func TestHeaderMatchFilter_PassesThroughWithoutConfiguration(t *testing.T) {
	ctx := newTestContext(0)
	req := core.NewRequest("/v1/items")

	resp, err := HeaderMatchFilter(ctx, req, okNext, map[string]any{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
}

func TestHeaderMatchRegex_CachesByPattern(t *testing.T) {
	re1, err := headerMatchRegex("^abc$")
	require.NoError(t, err)
	re2, err := headerMatchRegex("^abc$")
	require.NoError(t, err)
	assert.Same(t, re1, re2, "identical patterns must hit the cache and share one compiled regexp")
}
