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
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyperswitch/hyperswitch/core"
)

// routeAndInvokeTraced wraps routeAndInvoke in a span when a Tracer is
// configured (Config.Tracer, set with the WithTracer Option; SPEC_FULL.md
// §5), grounded on the teacher's
// startTracing/finishTracing pair: span name is "METHOD path", status code
// and error become span attributes/status, and tracing is entirely absent
// from the request path when no Tracer was configured.
func (e *Engine) routeAndInvokeTraced(ctx *core.Context, req *core.Request) (*core.Response, error) {
	if e.cfg.Tracer == nil {
		return e.routeAndInvoke(ctx, req)
	}

	spanName := strings.ToUpper(req.Method) + " " + req.Path
	_, span := e.cfg.Tracer.Start(context.Background(), spanName, trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	span.SetAttributes(
		attribute.String("hyperswitch.request_id", ctx.RequestID),
		attribute.String("hyperswitch.request_class", string(ctx.RequestClass)),
		attribute.Int("hyperswitch.recursion_depth", ctx.RecursionDepth),
	)

	resp, err := e.routeAndInvoke(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.Status))
		if resp.Status >= 400 {
			span.SetStatus(codes.Error, fmt.Sprintf("status %d", resp.Status))
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
	return resp, err
}
