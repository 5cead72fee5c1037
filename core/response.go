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

// Response is the record produced by a handler (spec.md §3).
type Response struct {
	Status  int
	Headers Header
	Body    Body
}

// NewResponse builds a Response carrying an object body, the common case for
// handlers returning JSON-shaped values.
func NewResponse(status int, obj any) *Response {
	return &Response{
		Status:  status,
		Headers: NewHeader(),
		Body:    Body{Kind: BodyObject, Object: obj},
	}
}

// NewEmptyResponse builds a status-only Response (used by HEAD fallback and
// 204-style handlers).
func NewEmptyResponse(status int) *Response {
	return &Response{Status: status, Headers: NewHeader()}
}

// IsSuccess reports whether the response is "success-shaped": status < 400
// (spec.md §3).
func (r *Response) IsSuccess() bool {
	return r.Status < 400
}

// IsErrorShaped reports whether the body already carries the problem-detail
// shape {type,title,...}, so the dispatcher should not double-wrap it.
func (r *Response) IsErrorShaped() bool {
	if r.Body.Kind != BodyObject {
		return false
	}
	m, ok := r.Body.Object.(map[string]any)
	if !ok {
		return false
	}
	_, hasType := m["type"]
	_, hasTitle := m["title"]
	return hasType && hasTitle
}
