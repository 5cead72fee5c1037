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
	"net/http"
	"net/url"
	"strings"

	"github.com/hyperswitch/hyperswitch/core"
)

// NetHTTPClient adapts *http.Client to core.HTTPClient, the zero-config
// default outbound collaborator (SPEC_FULL.md §6 "Outbound HTTP client").
type NetHTTPClient struct {
	Client *http.Client
}

// NewNetHTTPClient wraps client (or http.DefaultClient if nil).
func NewNetHTTPClient(client *http.Client) *NetHTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &NetHTTPClient{Client: client}
}

// Do implements core.HTTPClient.
func (c *NetHTTPClient) Do(req *core.Request) (*core.Response, error) {
	var body *strings.Reader
	if req.Body.Kind == core.BodyBytes {
		body = strings.NewReader(string(req.Body.Bytes))
	} else {
		body = strings.NewReader(req.Body.Text)
	}

	outURL := req.Path
	if req.Host != "" {
		outURL = req.Host + req.Path
	}
	httpReq, err := http.NewRequest(strings.ToUpper(req.Method), outURL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	q := httpReq.URL.Query()
	for k, v := range req.Query {
		if v.IsList {
			for _, s := range v.Multi {
				q.Add(k, s)
			}
		} else {
			q.Set(k, v.Single)
		}
	}
	httpReq.URL.RawQuery = q.Encode()

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	headers := core.NewHeader()
	for k := range resp.Header {
		headers.Set(k, resp.Header.Get(k))
	}
	return &core.Response{Status: resp.StatusCode, Headers: headers, Body: core.Body{Kind: core.BodyNone}}, nil
}

// defaultForwardedHeaders is the per-host allow-list default (spec.md §4.7
// "header forwarding is per-host allow-listed"): user-agent and the
// request-id header are always forwarded, matching spec.md §6's "always
// propagated" rule for x-request-id.
var defaultForwardedHeaders = []string{"User-Agent", "X-Request-Id"}

// NewHTTPFilter builds the stock "http" filter (spec.md §4.7): when the
// request's URI is absolute, it bypasses local routing and calls client
// directly instead of invoking next; otherwise it falls through unchanged,
// since only outgoing sub-requests authored with an absolute "uri" are
// meant to leave the process.
//
// options.allow_headers, if present, extends the per-host forwarding
// allow-list beyond User-Agent/X-Request-Id.
func NewHTTPFilter(client core.HTTPClient) core.Filter {
	return func(ctx *core.Context, req *core.Request, next core.HandlerFunc, options map[string]any, specInfo *core.OperationInfo) (*core.Response, error) {
		if !isAbsoluteURL(req.Path) {
			return next(ctx, req)
		}
		if client == nil {
			return core.WrapInternal(errNoHTTPClient).ToResponse(ctx.Settings.DefaultErrorURI), nil
		}

		outbound := req.Clone()
		parsed, err := url.Parse(req.Path)
		if err == nil {
			outbound.Host = parsed.Scheme + "://" + parsed.Host
			outbound.Path = parsed.Path
		}

		allow := append([]string{}, defaultForwardedHeaders...)
		switch extra := options["allow_headers"].(type) {
		case []string:
			allow = append(allow, extra...)
		case []any:
			for _, h := range extra {
				if s, ok := h.(string); ok {
					allow = append(allow, s)
				}
			}
		}
		forwarded := core.NewHeader()
		for _, h := range allow {
			if v := req.Headers.Get(h); v != "" {
				forwarded.Set(h, v)
			}
		}
		forwarded.Set("X-Request-Id", ctx.RequestID)
		outbound.Headers = forwarded

		return client.Do(outbound)
	}
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

var errNoHTTPClient = httpClientError("filter: http filter has no configured HTTPClient")

type httpClientError string

func (e httpClientError) Error() string { return string(e) }
