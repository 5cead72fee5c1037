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

package requestid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperswitch/hyperswitch/core"
)

func TestGenerator_ResolveGeneratesWhenAbsent(t *testing.T) {
	g := New()
	req := core.NewRequest("/v1/items")

	id := g.Resolve(req)
	require.NotEmpty(t, id)
	assert.NotEqual(t, id, g.Resolve(req), "each call with no client id generates a fresh one")
}

func TestGenerator_ResolveHonorsClientSuppliedID(t *testing.T) {
	g := New()
	req := core.NewRequest("/v1/items")
	req.Headers.Set(HeaderName, "client-supplied-id")

	assert.Equal(t, "client-supplied-id", g.Resolve(req))
}

func TestGenerator_WithAllowClientIDFalseIgnoresHeader(t *testing.T) {
	g := New(WithAllowClientID(false), WithGenerator(func() string { return "generated" }))
	req := core.NewRequest("/v1/items")
	req.Headers.Set(HeaderName, "client-supplied-id")

	assert.Equal(t, "generated", g.Resolve(req))
}

func TestGenerator_WithHeaderOverridesName(t *testing.T) {
	g := New(WithHeader("X-Trace-Id"))
	assert.Equal(t, "X-Trace-Id", g.Header())

	req := core.NewRequest("/v1/items")
	req.Headers.Set("X-Trace-Id", "abc")
	assert.Equal(t, "abc", g.Resolve(req))
}

func TestGenerator_StampSetsBothRequestAndResponse(t *testing.T) {
	g := New()
	req := core.NewRequest("/v1/items")
	resp := core.NewResponse(200, nil)

	g.Stamp("req-123", req, resp)

	assert.Equal(t, "req-123", req.Headers.Get(HeaderName))
	assert.Equal(t, "req-123", resp.Headers.Get(HeaderName))
}

func TestGenerator_StampToleratesNilArguments(t *testing.T) {
	g := New()
	assert.NotPanics(t, func() { g.Stamp("req-123", nil, nil) })
}

func TestGenerateUUIDv7_LooksLikeUUID(t *testing.T) {
	id := generateUUIDv7()
	assert.Len(t, id, 36)
	assert.Equal(t, byte('7'), id[14], "version nibble must be 7")
}
