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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/hyperswitch/hyperswitch/core"
)

// Validator is the stock "validator" filter (spec.md §4.7): it compiles and
// caches a JSON Schema per operation, coerces non-string parameters to
// their declared type, and fails 400 bad_request on the first violation.
type Validator struct {
	mu     sync.Mutex
	cached map[*core.OperationInfo]*jsonschema.Schema
}

// NewValidator builds an empty Validator; schemas are compiled lazily and
// cached keyed by the *core.OperationInfo pointer the loader builds once per
// operation (spec.md §4.7 "compiles, once and cached per operation spec").
func NewValidator() *Validator {
	return &Validator{cached: map[*core.OperationInfo]*jsonschema.Schema{}}
}

// Filter implements core.Filter.
func (v *Validator) Filter(ctx *core.Context, req *core.Request, next core.HandlerFunc, options map[string]any, specInfo *core.OperationInfo) (*core.Response, error) {
	if specInfo == nil {
		return next(ctx, req)
	}

	if detail := v.coerceAndCheck(req, specInfo); detail != "" {
		return core.NewHSError(400, "bad_request", "Bad request").
			WithRequest(req.Method, req.Path).
			WithDetail(detail).
			ToResponse(ctx.Settings.DefaultErrorURI), nil
	}

	if len(specInfo.Schema) > 0 {
		schema, err := v.compiled(specInfo)
		if err != nil {
			return nil, fmt.Errorf("filter: validator: %w", err)
		}
		data := map[string]any{
			"params":  stringMapToAny(req.Params),
			"query":   queryToAny(req.Query),
			"headers": stringMapToAny(req.Headers),
		}
		if req.Body.Kind == core.BodyObject {
			data["body"] = req.Body.Object
		}
		if err := schema.Validate(data); err != nil {
			if verr, ok := err.(*jsonschema.ValidationError); ok {
				return core.NewHSError(400, "bad_request", "Bad request").
					WithRequest(req.Method, req.Path).
					WithDetail(formatValidationError(verr)).
					ToResponse(ctx.Settings.DefaultErrorURI), nil
			}
			return core.NewHSError(400, "bad_request", "Bad request").
				WithRequest(req.Method, req.Path).
				WithDetail(err.Error()).
				ToResponse(ctx.Settings.DefaultErrorURI), nil
		}
	}

	return next(ctx, req)
}

func (v *Validator) compiled(specInfo *core.OperationInfo) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.cached[specInfo]; ok {
		return s, nil
	}
	compiler := jsonschema.NewCompiler()
	url := "hyperswitch://" + specInfo.Method + specInfo.Path
	if err := compiler.AddResource(url, specInfo.Schema); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	v.cached[specInfo] = schema
	return schema, nil
}

// coerceAndCheck applies spec.md §4.7's coercion routine in-place on req and
// returns a non-empty detail string on the first failure (exact wording
// required by spec.md §8's testable properties: "data.query.testParam
// should be an integer", enum violations listing the allowed values).
func (v *Validator) coerceAndCheck(req *core.Request, specInfo *core.OperationInfo) string {
	bodyIsJSON := strings.HasPrefix(strings.ToLower(req.Headers.Get("Content-Type")), "application/json")

	for _, p := range specInfo.Params {
		raw, present := paramValue(req, p)
		if !present {
			continue
		}
		if len(p.Enum) > 0 {
			if !containsString(p.Enum, raw) {
				return fmt.Sprintf("data.%s.%s should be equal to one of the allowed values: [%s]",
					schemaGroup(p.In), p.Name, strings.Join(p.Enum, ", "))
			}
			continue
		}
		if p.Type == "" || p.Type == "string" {
			continue
		}
		if bodyIsJSON && p.In == "body" {
			continue
		}
		coerced, ok := coerceScalar(raw, p.Type)
		if !ok {
			return fmt.Sprintf("data.%s.%s should be %s %s",
				schemaGroup(p.In), p.Name, article(p.Type), p.Type)
		}
		setParamValue(req, p, coerced)
	}
	return ""
}

// schemaGroup maps a ParamSpec.In to the data-object key the validator's
// schema groups parameters under (spec.md §4.7: "params", "query", "headers").
func schemaGroup(in string) string {
	switch in {
	case "path":
		return "params"
	case "header":
		return "headers"
	default:
		return "query"
	}
}

func paramValue(req *core.Request, p core.ParamSpec) (string, bool) {
	switch p.In {
	case "path":
		v, ok := req.Params[p.Name]
		return v, ok
	case "header":
		if !req.Headers.Has(p.Name) {
			return "", false
		}
		return req.Headers.Get(p.Name), true
	default: // "query"
		qv, ok := req.Query[p.Name]
		if !ok {
			return "", false
		}
		return qv.First(), true
	}
}

func setParamValue(req *core.Request, p core.ParamSpec, v any) {
	switch p.In {
	case "path":
		req.Params[p.Name] = fmt.Sprint(v)
	case "header":
		req.Headers.Set(p.Name, fmt.Sprint(v))
	default:
		req.Query[p.Name] = core.QueryValue{Single: fmt.Sprint(v)}
	}
}

// coerceScalar converts a raw string to typ, matching spec.md §4.7's
// accepted boolean spellings and §8's "?flag=True -> true" / "?n=27.5 ->
// 27.5" testable properties.
func coerceScalar(raw, typ string) (any, bool) {
	switch typ {
	case "integer":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, false
		}
		return n, true
	case "number":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case "boolean":
		switch strings.ToLower(raw) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			return nil, false
		}
	case "object":
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, false
		}
		return v, true
	default:
		return raw, true
	}
}

func article(typ string) string {
	if typ == "integer" || typ == "object" {
		return "an"
	}
	return "a"
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func stringMapToAny[M ~map[string]string](m M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func queryToAny(q core.Query) map[string]any {
	out := make(map[string]any, len(q))
	for k, v := range q {
		if v.IsList {
			list := make([]any, len(v.Multi))
			for i, s := range v.Multi {
				list[i] = s
			}
			out[k] = list
		} else {
			out[k] = v.Single
		}
	}
	return out
}

// formatValidationError renders a jsonschema.ValidationError as a single
// "data.<path> <message>" detail line in the spirit of spec.md §4.7 ("a
// detail path like data.query.testParam should be an integer"), taking the
// deepest (most specific) leaf cause.
func formatValidationError(verr *jsonschema.ValidationError) string {
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := strings.Join(leaf.InstanceLocation, ".")
	if field == "" {
		return "data " + leaf.Error()
	}
	return "data." + field + " " + leaf.Error()
}
