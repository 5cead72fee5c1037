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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/routetree"
)

func TestRequestFromStanza_MissingURIFails(t *testing.T) {
	_, err := requestFromStanza(map[string]any{}, "put")
	assert.ErrorIs(t, err, core.ErrResourceMissingURI)
}

func TestRequestFromStanza_DefaultsMethodAndCopiesFields(t *testing.T) {
	req, err := requestFromStanza(map[string]any{
		"uri":     "/v1/widgets/seed",
		"body":    map[string]any{"name": "seed"},
		"headers": map[string]any{"X-Seed": "yes"},
		"query":   map[string]any{"force": "true"},
	}, "put")
	require.NoError(t, err)
	assert.Equal(t, "put", req.Method)
	assert.Equal(t, "/v1/widgets/seed", req.Path)
	assert.Equal(t, "yes", req.Headers.Get("X-Seed"))
	assert.Equal(t, "true", req.Query["force"].Single)
	assert.Equal(t, core.BodyObject, req.Body.Kind)
}

func TestRequestFromStanza_ExplicitMethodOverridesDefault(t *testing.T) {
	req, err := requestFromStanza(map[string]any{"uri": "/v1/widgets/seed", "method": "post"}, "put")
	require.NoError(t, err)
	assert.Equal(t, "post", req.Method)
}

func TestEngine_RunResourceTemplate_DispatchesAtStartupClass(t *testing.T) {
	var sawClass core.RequestClass
	e := newTestEngine(t, func(ctx *core.Context, req *core.Request) (*core.Response, error) {
		sawClass = ctx.RequestClass
		return core.NewResponse(200, nil), nil
	})

	rt := routetree.ResourceTemplate{
		Name:   "seed",
		Method: "get",
		Raw:    map[string]any{"uri": "/v1/widgets/1"},
	}
	err := e.runResourceTemplate(rt)
	require.NoError(t, err)
	assert.Equal(t, core.ClassInternalStartup, sawClass)
}

func TestEngine_RunResourceTemplate_FailsOnNonSuccessResponse(t *testing.T) {
	e := newTestEngine(t, func(ctx *core.Context, req *core.Request) (*core.Response, error) {
		return core.NewHSError(500, "server_error#seed_failed", "Seed failed").
			WithRequest(req.Method, req.Path).
			ToResponse(core.DefaultErrorURI), nil
	})

	rt := routetree.ResourceTemplate{Name: "seed", Method: "get", Raw: map[string]any{"uri": "/v1/widgets/1"}}
	err := e.runResourceTemplate(rt)
	require.Error(t, err)
}

func TestEngine_RunResourcePhase_WalksWholeTreeAndRunsEveryResource(t *testing.T) {
	var dispatched []string
	e := newTestEngine(t, func(ctx *core.Context, req *core.Request) (*core.Response, error) {
		dispatched = append(dispatched, req.Path)
		return core.NewResponse(200, nil), nil
	})

	rootValue := e.root.EnsureValue()
	rootValue.Resources = append(rootValue.Resources, routetree.ResourceTemplate{
		Name: "root-seed", Method: "get", Raw: map[string]any{"uri": "/v1/widgets/1"},
	})

	err := e.runResourcePhase(context.Background())
	require.NoError(t, err)
	assert.Contains(t, dispatched, "/v1/widgets/1")
}

func TestEngine_RunResourcePhase_NoResourcesIsANoop(t *testing.T) {
	e := newTestEngine(t, echoHandler)
	err := e.runResourcePhase(context.Background())
	require.NoError(t, err)
}
