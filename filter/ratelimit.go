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
	"sync"

	"golang.org/x/time/rate"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/uri"
)

// TokenBucketStore is the default core.RateLimiterStore (SPEC_FULL.md §5):
// one golang.org/x/time/rate.Limiter per key, grounded on the token-bucket
// algorithm the teacher's own middleware/ratelimit package documents
// (NewInMemoryTokenBucketStore(rps, burst)); that package's implementation
// files are absent from the pack, so only its documented shape (rps, burst,
// Allow(key) -> allowed) is reproduced here, on top of the standard
// library's own token-bucket limiter rather than a hand-rolled one.
type TokenBucketStore struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewTokenBucketStore builds a store refilling at rps tokens/second with
// the given burst capacity.
func NewTokenBucketStore(rps float64, burst int) *TokenBucketStore {
	return &TokenBucketStore{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: map[string]*rate.Limiter{},
	}
}

// Allow implements core.RateLimiterStore.
func (s *TokenBucketStore) Allow(key string) bool {
	s.mu.Lock()
	lim, ok := s.limiters[key]
	if !ok {
		lim = rate.NewLimiter(s.rps, s.burst)
		s.limiters[key] = lim
	}
	s.mu.Unlock()
	return lim.Allow()
}

// NewRateLimitFilter builds the stock "ratelimit_route" filter (spec.md
// §4.7): the limiter key is (service_name, strippedPath, METHOD), falling
// back to the caller's IP address when "options.by_client_ip" is set. On
// exceed it logs a warning and, unless "options.log_only" is true, fails
// 429 request_rate_exceeded. A nil store allows everything.
func NewRateLimitFilter(store core.RateLimiterStore) core.Filter {
	return func(ctx *core.Context, req *core.Request, next core.HandlerFunc, options map[string]any, specInfo *core.OperationInfo) (*core.Response, error) {
		if store == nil {
			return next(ctx, req)
		}

		key := rateLimitKey(req, options)
		if store.Allow(key) {
			return next(ctx, req)
		}

		ctx.Logger().Warn("rate limit exceeded", "key", key, "path", req.Path, "method", req.Method)

		if logOnly, _ := options["log_only"].(bool); logOnly {
			return next(ctx, req)
		}

		return core.NewHSError(429, "request_rate_exceeded", "Too many requests").
			WithRequest(req.Method, req.Path).
			ToResponse(ctx.Settings.DefaultErrorURI), nil
	}
}

func rateLimitKey(req *core.Request, options map[string]any) string {
	if byIP, _ := options["by_client_ip"].(bool); byIP {
		if ip := req.Headers.Get("X-Client-IP"); ip != "" {
			return ip
		}
	}
	service, _ := options["service_name"].(string)
	return service + "|" + uri.StripFirstSegment(req.Path) + "|" + req.Method
}
