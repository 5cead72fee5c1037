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
	"errors"
	"fmt"
	"strings"
)

// Static sentinel errors, in the style of router/errors.go: declared at
// package scope so callers can compare with errors.Is instead of string
// matching.
var (
	ErrRouteNotFound           = errors.New("hyperswitch: route not found")
	ErrDirectSysForbidden      = errors.New("hyperswitch: direct /sys access is forbidden")
	ErrRecursionDepthExceeded  = errors.New("hyperswitch: request recursion depth exceeded")
	ErrEmptyResponse           = errors.New("hyperswitch: handler produced no response")
	ErrRateLimitExceeded       = errors.New("hyperswitch: request rate exceeded")
	ErrValidationFailed        = errors.New("hyperswitch: request validation failed")
	ErrHeaderMatchFailed       = errors.New("hyperswitch: header did not match allow-list")
	ErrUnknownOperationID      = errors.New("hyperswitch: unknown operationId")
	ErrMethodAlreadyRegistered = errors.New("hyperswitch: method already registered on this path")
	ErrTagDescriptionConflict  = errors.New("hyperswitch: conflicting descriptions for tag")
	ErrResourceMissingURI      = errors.New("hyperswitch: resource template is missing uri")
)

// DefaultErrorURI is the default error-type prefix (spec.md §6).
const DefaultErrorURI = "https://mediawiki.org/wiki/HyperSwitch/errors/"

// HSError is the problem-detail error shape described in spec.md §3 and §7:
// a Response whose body is {type,title,detail,method,uri,...} with an
// attached cause chain.
type HSError struct {
	Status int
	Type   string // suffix, e.g. "not_found#route"; URL-prefixed on render
	Title  string
	Detail string
	Method string
	URI    string
	Extra  map[string]any // additional fields merged into the body, e.g. "depth"

	cause error
}

// NewHSError builds a problem-detail error. typ is the taxonomy suffix from
// spec.md §7 (e.g. "not_found#route").
func NewHSError(status int, typ, title string) *HSError {
	return &HSError{Status: status, Type: typ, Title: title}
}

func (e *HSError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Detail)
	}
	return e.Type
}

// Unwrap exposes the attached cause chain to errors.Is/errors.As.
func (e *HSError) Unwrap() error { return e.cause }

// WithCause attaches an underlying cause, returning e for chaining.
func (e *HSError) WithCause(cause error) *HSError {
	e.cause = cause
	return e
}

// WithDetail sets the human-readable detail message, returning e for chaining.
func (e *HSError) WithDetail(detail string) *HSError {
	e.Detail = detail
	return e
}

// WithRequest stamps the method/uri fields from the failing request.
func (e *HSError) WithRequest(method, uri string) *HSError {
	e.Method = method
	e.URI = uri
	return e
}

// WithExtra merges an additional field into the rendered body (e.g. "depth"
// on request_recursion_depth_exceeded, spec.md scenario 4).
func (e *HSError) WithExtra(key string, value any) *HSError {
	if e.Extra == nil {
		e.Extra = map[string]any{}
	}
	e.Extra[key] = value
	return e
}

// Body renders the problem-detail JSON object, prefixing Type with baseURI
// unless Type is already absolute (spec.md §3, §7).
func (e *HSError) Body(baseURI string) map[string]any {
	if baseURI == "" {
		baseURI = DefaultErrorURI
	}
	typ := e.Type
	if !isAbsoluteURI(typ) {
		typ = baseURI + typ
	}
	body := map[string]any{
		"type":   typ,
		"title":  e.Title,
		"method": e.Method,
		"uri":    e.URI,
	}
	if e.Detail != "" {
		body["detail"] = e.Detail
	}
	for k, v := range e.Extra {
		body[k] = v
	}
	return body
}

// ToResponse renders the error as a Response (spec.md §3, §7).
func (e *HSError) ToResponse(baseURI string) *Response {
	h := NewHeader()
	h.Set("Content-Type", "application/problem+json")
	return &Response{
		Status:  e.Status,
		Headers: h,
		Body:    Body{Kind: BodyObject, Object: e.Body(baseURI)},
	}
}

func isAbsoluteURI(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ':':
			return i > 0
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.':
			continue
		default:
			return false
		}
	}
	return false
}

// FromResponse converts an error-shaped Response (status >= 400, already
// carrying {type,title,...}) back into an *HSError, or nil if it isn't one.
func FromResponse(resp *Response) *HSError {
	if resp == nil || resp.Status < 400 || resp.Body.Kind != BodyObject {
		return nil
	}
	m, ok := resp.Body.Object.(map[string]any)
	if !ok {
		return nil
	}
	typ, _ := m["type"].(string)
	typ = strings.TrimPrefix(typ, DefaultErrorURI)
	title, _ := m["title"].(string)
	if typ == "" && title == "" {
		return nil
	}
	e := &HSError{Status: resp.Status, Type: typ, Title: title}
	if d, ok := m["detail"].(string); ok {
		e.Detail = d
	}
	if mm, ok := m["method"].(string); ok {
		e.Method = mm
	}
	if u, ok := m["uri"].(string); ok {
		e.URI = u
	}
	return e
}

// WrapInternal wraps an arbitrary non-error-shaped failure into a 500
// internal_error (spec.md §7 "At the dispatcher boundary...").
func WrapInternal(cause error) *HSError {
	return NewHSError(500, "internal_error", "Internal error").WithCause(cause).WithDetail(cause.Error())
}
