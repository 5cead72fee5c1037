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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hyperswitch/hyperswitch/core"
)

func TestEngine_RouteAndInvokeTraced_NoopWhenNoTracerConfigured(t *testing.T) {
	e := newTestEngine(t, echoHandler)
	ctx := core.NewRootContext("req-1", e.settings, e, core.ClassExternal)
	req := core.NewRequest("/v1/widgets/1")
	req.Params = map[string]string{"id": "1"}

	resp, err := e.routeAndInvokeTraced(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
}

func TestEngine_RouteAndInvokeTraced_WrapsSpanWhenTracerConfigured(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("hyperswitch-test")
	e := newTestEngine(t, echoHandler, WithTracer(tracer))
	ctx := core.NewRootContext("req-1", e.settings, e, core.ClassExternal)
	req := core.NewRequest("/v1/widgets/1")
	req.Params = map[string]string{"id": "1"}

	resp, err := e.routeAndInvokeTraced(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
}

func TestEngine_RouteAndInvokeTraced_PropagatesErrorResponses(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("hyperswitch-test")
	e := newTestEngine(t, echoHandler, WithTracer(tracer))
	ctx := core.NewRootContext("req-1", e.settings, e, core.ClassExternal)
	req := core.NewRequest("/v1/missing")

	resp, err := e.routeAndInvokeTraced(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.Status)
}
