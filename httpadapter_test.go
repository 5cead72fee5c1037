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

package hyperswitch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperswitch/hyperswitch/core"
)

func TestEngine_ServeHTTP_RoundTripsJSONBody(t *testing.T) {
	e := newTestEngine(t, func(ctx *core.Context, req *core.Request) (*core.Response, error) {
		obj := req.Body.Object.(map[string]any)
		return core.NewResponse(200, map[string]any{"got": obj["name"], "id": req.Params["id"]}), nil
	})

	body := strings.NewReader(`{"name":"widget-1"}`)
	r := httptest.NewRequest(http.MethodGet, "/v1/widgets/7", body)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	e.ServeHTTP(w, r)

	require.Equal(t, 200, w.Code)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, "widget-1", decoded["got"])
	assert.Equal(t, "7", decoded["id"])
}

func TestEngine_ServeHTTP_NotFoundRouteYieldsProblemJSON(t *testing.T) {
	e := newTestEngine(t, echoHandler)
	r := httptest.NewRequest(http.MethodGet, "/v1/missing", nil)
	w := httptest.NewRecorder()

	e.ServeHTTP(w, r)

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/problem+json")
}

func TestRequestFromHTTP_ParsesMultiValuedQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/widgets?tag=a&tag=b&name=solo", nil)
	req, err := requestFromHTTP(r)
	require.NoError(t, err)

	assert.True(t, req.Query["tag"].IsList)
	assert.ElementsMatch(t, []string{"a", "b"}, req.Query["tag"].Multi)
	assert.False(t, req.Query["name"].IsList)
	assert.Equal(t, "solo", req.Query["name"].Single)
}

func TestRequestFromHTTP_NonJSONBodyBecomesBytes(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/widgets", strings.NewReader("raw-bytes"))
	r.Header.Set("Content-Type", "text/plain")

	req, err := requestFromHTTP(r)
	require.NoError(t, err)
	assert.Equal(t, core.BodyBytes, req.Body.Kind)
	assert.Equal(t, "raw-bytes", string(req.Body.Bytes))
}

func TestWriteHTTPResponse_WritesTextBody(t *testing.T) {
	w := httptest.NewRecorder()
	resp := &core.Response{Status: 200, Headers: core.NewHeader(), Body: core.Body{Kind: core.BodyText, Text: "hello"}}

	writeHTTPResponse(w, resp)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}
