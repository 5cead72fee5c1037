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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHSError_BodyPrefixesRelativeType(t *testing.T) {
	e := NewHSError(404, "not_found#route", "Not found").WithRequest("get", "/v1/missing")
	body := e.Body("")
	assert.Equal(t, DefaultErrorURI+"not_found#route", body["type"])
	assert.Equal(t, "Not found", body["title"])
	assert.Equal(t, "get", body["method"])
	assert.Equal(t, "/v1/missing", body["uri"])
}

func TestHSError_BodyLeavesAbsoluteTypeAlone(t *testing.T) {
	e := NewHSError(400, "https://errors.example/bad_request", "Bad request")
	body := e.Body("https://mediawiki.org/wiki/HyperSwitch/errors/")
	assert.Equal(t, "https://errors.example/bad_request", body["type"])
}

func TestHSError_WithExtraMergesIntoBody(t *testing.T) {
	e := NewHSError(500, "server_error#request_recursion_depth_exceeded", "Recursion").WithExtra("depth", 4)
	body := e.Body("")
	assert.Equal(t, 4, body["depth"])
}

func TestHSError_UnwrapExposesCause(t *testing.T) {
	cause := ErrRouteNotFound
	e := NewHSError(404, "not_found", "Not found").WithCause(cause)
	require.ErrorIs(t, e, cause)
}

func TestFromResponse_RoundTrips(t *testing.T) {
	e := NewHSError(403, "forbidden#sys", "Forbidden").WithRequest("get", "/v1/sys/x").WithDetail("direct /sys access is forbidden")
	resp := e.ToResponse("")
	got := FromResponse(resp)
	require.NotNil(t, got)
	assert.Equal(t, 403, got.Status)
	assert.Equal(t, "forbidden#sys", got.Type)
	assert.Equal(t, "direct /sys access is forbidden", got.Detail)
}

func TestFromResponse_NonErrorShapeIsNil(t *testing.T) {
	resp := NewResponse(200, map[string]any{"ok": true})
	assert.Nil(t, FromResponse(resp))
}

func TestWrapInternal(t *testing.T) {
	e := WrapInternal(assertErr{})
	assert.Equal(t, 500, e.Status)
	assert.Equal(t, "internal_error", e.Type)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
