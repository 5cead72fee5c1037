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
	"fmt"
	"regexp"
	"sync"

	"github.com/hyperswitch/hyperswitch/core"
)

// headerMatchCache compiles each distinct pattern once, the same
// lazy-compile-then-reuse shape filter.Validator applies to schemas; keyed
// by the pattern string itself since the same pattern always compiles to
// the same regex regardless of which route's filter entry is evaluating it.
var headerMatchCache sync.Map // map[string]*regexp.Regexp

// HeaderMatchFilter is the stock "header-match" filter (spec.md §4.7): on
// the root request only (sub-requests are exempt, since they are
// synthesized internally rather than supplied by an untrusted caller) it
// checks that the configured header's value matches an allow-list regular
// expression, and fails 403 forbidden otherwise.
//
// Configuration: options["header"] names the header, options["pattern"]
// is the allow-list regex.
func HeaderMatchFilter(ctx *core.Context, req *core.Request, next core.HandlerFunc, options map[string]any, specInfo *core.OperationInfo) (*core.Response, error) {
	if ctx.RecursionDepth != 0 {
		return next(ctx, req)
	}

	headerName, _ := options["header"].(string)
	pattern, _ := options["pattern"].(string)
	if headerName == "" || pattern == "" {
		return next(ctx, req)
	}

	re, err := headerMatchRegex(pattern)
	if err != nil {
		return nil, fmt.Errorf("filter: header-match: %w", err)
	}

	if !re.MatchString(req.Headers.Get(headerName)) {
		return core.NewHSError(403, "forbidden", "Forbidden").
			WithRequest(req.Method, req.Path).
			WithDetail(fmt.Sprintf("header %q did not match the allow-list", headerName)).
			ToResponse(ctx.Settings.DefaultErrorURI), nil
	}

	return next(ctx, req)
}

func headerMatchRegex(pattern string) (*regexp.Regexp, error) {
	if cached, ok := headerMatchCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	headerMatchCache.Store(pattern, re)
	return re, nil
}
