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
	"github.com/hyperswitch/hyperswitch/spec"
)

// recordingDocs captures the request it was asked to serve, so tests can
// assert the listing handler delegates rather than rendering itself.
type recordingDocs struct {
	called bool
	merged map[string]any
}

func (r *recordingDocs) ServeDocs(ctx context.Context, req *core.Request, merged map[string]any) (*core.Response, error) {
	r.called = true
	r.merged = merged
	return core.NewResponse(200, map[string]any{"delegated": true}), nil
}

func newListingTestEngine(docs core.DocsHandler) (*Engine, *routetree.Node) {
	root := routetree.NewRoot()
	doc := &spec.Document{
		Paths: map[string]*spec.PathItem{
			"/v1": {Methods: map[string]*spec.OperationSpec{}},
		},
	}
	e := &Engine{
		cfg: &Config{Docs: docs, DefaultErrorURI: core.DefaultErrorURI},
		root: root,
		doc:  doc,
	}
	return e, root
}

func TestServeListing_SpecQueryRendersDocument(t *testing.T) {
	e, root := newListingTestEngine(&recordingDocs{})
	meta := root.EnsureMetaChild("apiRoot")
	v := meta.EnsureValue()
	v.IsAPIRoot = true
	v.Path = ""
	v.SpecRoot = e.doc

	req := core.NewRequest("/")
	req.Query = core.Query{"spec": core.QueryValue{Single: "1"}}
	result := &routetree.LookupResult{Node: root, Listing: true, ListingNames: root.ChildNames()}

	resp, err := e.serveListing(nil, req, root, nil, result)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	body := resp.Body.Object.(map[string]any)
	assert.Equal(t, "3.0.3", body["openapi"])
}

func TestServeListing_DelegatesToDocsOnHTMLAccept(t *testing.T) {
	docs := &recordingDocs{}
	e, root := newListingTestEngine(docs)
	meta := root.EnsureMetaChild("apiRoot")
	v := meta.EnsureValue()
	v.IsAPIRoot = true
	v.Path = "/v1"
	v.SpecRoot = e.doc

	req := core.NewRequest("/v1")
	req.Headers.Set("Accept", "text/html")
	result := &routetree.LookupResult{Node: root, Listing: true, ListingNames: []string{"widgets"}}

	resp, err := e.serveListing(nil, req, root, nil, result)
	require.NoError(t, err)
	assert.True(t, docs.called)
	assert.Equal(t, 200, resp.Status)
}

func TestServeListing_RedirectsOnStrayQueryParam(t *testing.T) {
	docs := &recordingDocs{}
	e, root := newListingTestEngine(docs)
	meta := root.EnsureMetaChild("apiRoot")
	v := meta.EnsureValue()
	v.IsAPIRoot = true
	v.Path = "/v1"

	req := core.NewRequest("/v1")
	req.Query = core.Query{"path": core.QueryValue{Single: "x"}, "unexpected": core.QueryValue{Single: "y"}}
	result := &routetree.LookupResult{Node: root, Listing: true, ListingNames: []string{"widgets"}}

	resp, err := e.serveListing(nil, req, root, nil, result)
	require.NoError(t, err)
	assert.Equal(t, 301, resp.Status)
	assert.Equal(t, "/v1", resp.Headers.Get("Location"))
	assert.False(t, docs.called, "a stray query param redirects instead of reaching docs")
}

func TestServeListing_HTMLIndexOnListingAPIRoot(t *testing.T) {
	e, root := newListingTestEngine(&recordingDocs{})
	v := root.EnsureValue()
	v.IsAPIRoot = true
	v.IsListing = true
	v.Path = "/v1"

	req := core.NewRequest("/v1")
	req.Headers.Set("Accept", "text/html")
	result := &routetree.LookupResult{Node: root, Listing: true, ListingNames: []string{"widgets", "sys"}}

	resp, err := e.serveListing(nil, req, root, v, result)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, core.BodyText, resp.Body.Kind)
	assert.Contains(t, resp.Body.Text, "widgets")
	assert.NotContains(t, resp.Body.Text, `>sys<`, "sys is never a visible listing entry")
}

func TestServeListing_PlainItemsListExcludesSys(t *testing.T) {
	e, root := newListingTestEngine(&recordingDocs{})
	result := &routetree.LookupResult{Node: root, Listing: true, ListingNames: []string{"widgets", "gadgets", "sys"}}

	req := core.NewRequest("/v1")
	resp, err := e.serveListing(nil, req, root, nil, result)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	body := resp.Body.Object.(map[string]any)
	assert.ElementsMatch(t, []string{"widgets", "gadgets"}, body["items"])
}

func TestRenderDocument_OmitsHiddenOperations(t *testing.T) {
	doc := &spec.Document{
		OpenAPI: "3.1.0",
		Paths: map[string]*spec.PathItem{
			"/v1/widgets": {
				Methods: map[string]*spec.OperationSpec{
					"get":  {OperationID: "listWidgets", Summary: "List widgets"},
					"post": {OperationID: "hiddenOp", Hidden: true},
				},
			},
		},
	}
	out := renderDocument(doc, "/v1")
	paths := out["paths"].(map[string]any)
	methods := paths["/v1/widgets"].(map[string]any)
	assert.Contains(t, methods, "get")
	assert.NotContains(t, methods, "post")
}

func TestRenderDocument_NilDocumentStillRendersServerURL(t *testing.T) {
	out := renderDocument(nil, "/v1")
	servers := out["servers"].([]any)
	assert.Equal(t, "/v1", servers[0].(map[string]any)["url"])
}
