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
	"io"
	"net/http"
	"strings"

	"github.com/hyperswitch/hyperswitch/core"
)

// ServeHTTP implements http.Handler (spec.md §6 "External interfaces...
// inbound HTTP adaptor"), the way router.Router itself implements
// http.Handler: every inbound request is adapted into a core.Request,
// dispatched, and its core.Response adapted back.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromHTTP(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := e.Dispatch(req)
	if err != nil {
		// Dispatch never actually returns a non-nil error (finish always
		// normalizes into a Response); this is defensive only.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTTPResponse(w, resp)
}

func requestFromHTTP(r *http.Request) (*core.Request, error) {
	req := core.NewRequest(r.URL.Path)
	req.Host = r.Host
	req.Method = strings.ToLower(r.Method)

	req.Headers = core.NewHeader()
	for k := range r.Header {
		req.Headers.Set(k, r.Header.Get(k))
	}

	req.Query = core.Query{}
	for k, vs := range r.URL.Query() {
		if len(vs) > 1 {
			req.Query[k] = core.QueryValue{Multi: vs, IsList: true}
		} else if len(vs) == 1 {
			req.Query[k] = core.QueryValue{Single: vs[0]}
		}
	}

	if r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if len(body) > 0 {
			if strings.Contains(r.Header.Get("Content-Type"), "json") {
				var obj any
				if err := json.Unmarshal(body, &obj); err != nil {
					return nil, err
				}
				req.Body = core.Body{Kind: core.BodyObject, Object: obj}
			} else {
				req.Body = core.Body{Kind: core.BodyBytes, Bytes: body}
			}
		}
	}

	return req, nil
}

func writeHTTPResponse(w http.ResponseWriter, resp *core.Response) {
	header := w.Header()
	for k, v := range resp.Headers {
		header.Set(k, v)
	}

	switch resp.Body.Kind {
	case core.BodyObject:
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", "application/json; charset=utf-8")
		}
		payload, err := json.Marshal(resp.Body.Object)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(resp.Status)
		_, _ = w.Write(payload)
	case core.BodyText:
		w.WriteHeader(resp.Status)
		_, _ = io.WriteString(w, resp.Body.Text)
	case core.BodyBytes:
		w.WriteHeader(resp.Status)
		_, _ = w.Write(resp.Body.Bytes)
	default:
		w.WriteHeader(resp.Status)
	}
}
