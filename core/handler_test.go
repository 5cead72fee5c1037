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

func TestFilterEntry_Applies_HeadAliasesGet(t *testing.T) {
	e := FilterEntry{Method: "get"}
	assert.True(t, e.Applies("get"))
	assert.True(t, e.Applies("head"))
	assert.False(t, e.Applies("post"))
}

func TestChain_OuterWrapsInnerInOrder(t *testing.T) {
	var order []string

	mk := func(name string) Filter {
		return func(ctx *Context, req *Request, next HandlerFunc, options map[string]any, specInfo *OperationInfo) (*Response, error) {
			order = append(order, name+":before")
			resp, err := next(ctx, req)
			order = append(order, name+":after")
			return resp, err
		}
	}

	entries := []FilterEntry{
		{Fn: mk("outer")},
		{Fn: mk("inner")},
	}

	terminal := func(ctx *Context, req *Request) (*Response, error) {
		order = append(order, "handler")
		return NewResponse(200, nil), nil
	}

	chain := Chain(entries, nil, terminal)
	_, err := chain(&Context{}, &Request{Method: "get"})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "handler", "inner:after", "outer:after"}, order)
}

func TestChain_MethodScopedFilterFallsThrough(t *testing.T) {
	called := false
	postOnly := FilterEntry{
		Method: "post",
		Fn: func(ctx *Context, req *Request, next HandlerFunc, options map[string]any, specInfo *OperationInfo) (*Response, error) {
			called = true
			return next(ctx, req)
		},
	}
	terminal := func(ctx *Context, req *Request) (*Response, error) {
		return NewResponse(200, nil), nil
	}
	chain := Chain([]FilterEntry{postOnly}, nil, terminal)
	_, err := chain(&Context{}, &Request{Method: "get"})
	require.NoError(t, err)
	assert.False(t, called, "post-scoped filter must not run for a get request")
}

func TestContext_ChildIncrementsDepthAndLinksParent(t *testing.T) {
	root := NewRootContext("req-1", &EngineSettings{}, nil, ClassExternal)
	child := root.Child(ClassInternal)
	assert.Equal(t, 1, child.RecursionDepth)
	assert.Equal(t, "req-1", child.RequestID)

	chain := child.ParentChain()
	require.Len(t, chain, 1)
	assert.Same(t, root, chain[0])
}
