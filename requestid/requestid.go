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

// Package requestid assigns the x-request-id that is stamped on every root
// request and propagated through every recursive sub-request for the
// lifetime of that request's Context (spec.md §6 "x-request-id"). It is
// grounded on the teacher's middleware/requestid package, adapted from an
// HTTP middleware closing over *http.Request into a plain generator the
// dispatcher calls once per root request.
package requestid

import (
	"github.com/google/uuid"

	"github.com/hyperswitch/hyperswitch/core"
)

// HeaderName is the canonical header a client may supply or that the
// dispatcher stamps on the response.
const HeaderName = "X-Request-Id"

// Option configures a Generator.
type Option func(*Generator)

// Generator resolves the request id for a root request, grounded on the
// teacher's requestid.config: a header name, a generator func and whether a
// client-supplied id is trusted.
type Generator struct {
	headerName    string
	generate      func() string
	allowClientID bool
}

// New builds a Generator. By default it uses UUID v7 (time-ordered,
// lexicographically sortable, RFC 9562) the same way the teacher's
// generateUUIDv7 does, honors a client-supplied X-Request-Id header, and
// stamps under that same header name.
func New(opts ...Option) *Generator {
	g := &Generator{
		headerName:    HeaderName,
		generate:      generateUUIDv7,
		allowClientID: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithHeader overrides the header name used both to read a client-supplied
// id and to stamp the response.
func WithHeader(name string) Option {
	return func(g *Generator) { g.headerName = name }
}

// WithGenerator overrides the id generation function.
func WithGenerator(fn func() string) Option {
	return func(g *Generator) { g.generate = fn }
}

// WithAllowClientID controls whether a client-supplied header value is
// trusted as the request id, or always overwritten with a freshly
// generated one.
func WithAllowClientID(allow bool) Option {
	return func(g *Generator) { g.allowClientID = allow }
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Header reports the configured header name.
func (g *Generator) Header() string {
	return g.headerName
}

// Resolve returns the request id for req: the client-supplied header value
// when present and allowed, otherwise a freshly generated one. It does not
// mutate req; the caller stamps both the inbound and outbound headers.
func (g *Generator) Resolve(req *core.Request) string {
	if g.allowClientID {
		if id := req.Headers.Get(g.headerName); id != "" {
			return id
		}
	}
	return g.generate()
}

// Stamp sets the request id on both the inbound request and an outbound
// response header, the propagation spec.md §6 requires of every response.
func (g *Generator) Stamp(requestID string, req *core.Request, resp *core.Response) {
	if req != nil && req.Headers != nil {
		req.Headers.Set(g.headerName, requestID)
	}
	if resp != nil {
		if resp.Headers == nil {
			resp.Headers = core.NewHeader()
		}
		resp.Headers.Set(g.headerName, requestID)
	}
}
