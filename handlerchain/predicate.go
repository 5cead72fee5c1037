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

// Package handlerchain compiles a declarative list of request/return/
// return_if/catch steps into a single callable core.HandlerFunc (spec.md
// §4.6). It is the "no host code generation" re-implementation called for
// by Design Note §9: predicates are interpreted against an AST rather than
// built by string-concatenating Go source.
package handlerchain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/hyperswitch/hyperswitch/core"
)

// statusPatternRe matches a "5xx"-style status pattern: each "x" stands for
// any single digit (spec.md §4.6 "a pattern like 5xx (each x is any digit)").
var statusPatternRe = regexp.MustCompile(`^[0-9xX]{3}$`)

// Predicate is the compiled form of a catch/return_if mapping: a conjunction
// of field comparisons, each comparison itself a disjunction over the
// mapping's value when it is a list (spec.md §4.6).
type Predicate struct {
	fields []fieldPredicate
}

type fieldPredicate struct {
	field string
	// statusPatterns holds compiled status-pattern matchers when field ==
	// "status"; values holds stable-stringified JSON values to compare
	// against for every other field. Either list is a disjunction.
	statusPatterns []statusMatcher
	values         []string
}

type statusMatcher struct {
	exact   int
	isExact bool
	pattern string // e.g. "5xx", matched digit-by-digit
}

// CompilePredicate compiles a catch/return_if mapping (spec.md §4.6
// "Predicate syntax: a mapping {field: value}. ... Values in arrays form a
// disjunction. All fields form a conjunction.").
func CompilePredicate(raw map[string]any) (*Predicate, error) {
	p := &Predicate{}
	for field, rawValue := range raw {
		values := asList(rawValue)
		fp := fieldPredicate{field: field}
		if field == "status" {
			for _, v := range values {
				m, err := compileStatusMatcher(v)
				if err != nil {
					return nil, err
				}
				fp.statusPatterns = append(fp.statusPatterns, m)
			}
		} else {
			for _, v := range values {
				fp.values = append(fp.values, stableStringify(v))
			}
		}
		p.fields = append(p.fields, fp)
	}
	return p, nil
}

func asList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

func compileStatusMatcher(v any) (statusMatcher, error) {
	switch val := v.(type) {
	case int:
		return statusMatcher{exact: val, isExact: true}, nil
	case float64:
		return statusMatcher{exact: int(val), isExact: true}, nil
	case string:
		if !statusPatternRe.MatchString(val) {
			return statusMatcher{}, fmt.Errorf("handlerchain: invalid status pattern %q", val)
		}
		return statusMatcher{pattern: val}, nil
	default:
		return statusMatcher{}, fmt.Errorf("handlerchain: unsupported status predicate value %v", v)
	}
}

func (m statusMatcher) matches(status int) bool {
	if m.isExact {
		return status == m.exact
	}
	digits := strconv.Itoa(status)
	if len(digits) != len(m.pattern) {
		return false
	}
	for i := range digits {
		c := m.pattern[i]
		if c == 'x' || c == 'X' {
			continue
		}
		if digits[i] != c {
			return false
		}
	}
	return true
}

// Evaluate reports whether resp satisfies every field predicate (a
// conjunction), each field itself satisfied if any of its disjunctive
// values matches (spec.md §4.6).
func (p *Predicate) Evaluate(resp *core.Response) bool {
	if p == nil {
		return false
	}
	for _, fp := range p.fields {
		if !fp.matchesResponse(resp) {
			return false
		}
	}
	return true
}

func (fp fieldPredicate) matchesResponse(resp *core.Response) bool {
	if fp.field == "status" {
		for _, m := range fp.statusPatterns {
			if m.matches(resp.Status) {
				return true
			}
		}
		return false
	}

	actual := fieldValue(resp, fp.field)
	actualStr := stableStringify(actual)
	for _, v := range fp.values {
		if v == actualStr {
			return true
		}
	}
	return false
}

// fieldValue reads a named field off the response for predicate
// comparison. "status" is handled separately; anything else is looked up
// on the (object-shaped) response body, matching the source's habit of
// predicating on response body fields.
func fieldValue(resp *core.Response, field string) any {
	if resp.Body.Kind != core.BodyObject {
		return nil
	}
	m, ok := resp.Body.Object.(map[string]any)
	if !ok {
		return nil
	}
	return m[field]
}

// stableStringify renders v as deterministic JSON for non-status field
// comparison (spec.md §4.6 "Non-status fields compare by stable-stringified
// JSON"); json.Marshal already sorts map keys, which is what makes this
// stable across differently-ordered but equal objects.
func stableStringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
