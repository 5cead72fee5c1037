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

// Package uri parses and represents path patterns with parameters and
// modifiers ({x}, {+rest}, {/opt}) and resolves them against concrete paths.
package uri

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a parsed path segment.
type Kind int

const (
	// KindLiteral is a fixed path component, e.g. "users".
	KindLiteral Kind = iota
	// KindParam is a named parameter capturing exactly one path component, e.g. "{id}".
	KindParam
	// KindGreedy is a named parameter capturing the remainder of the path, e.g. "{+rest}".
	// A greedy segment must be the last segment of a pattern.
	KindGreedy
	// KindOptional is a named parameter whose presence is optional, e.g. "{/rest}".
	KindOptional
	// KindMeta is an internal bookkeeping segment (the apiRoot marker) never present
	// in a user-authored pattern.
	KindMeta
)

// Segment is one path component of a pattern.
type Segment struct {
	Kind    Kind
	Literal string         // set when Kind == KindLiteral
	Name    string         // parameter name, set for Param/Greedy/Optional/Meta
	Pattern *regexp.Regexp // optional constraint on a Param segment value
	Hidden  bool           // x-hidden: omit from merged spec and listings
}

// String renders the segment back to its pattern form, used for canonical paths.
func (s Segment) String() string {
	switch s.Kind {
	case KindLiteral:
		return s.Literal
	case KindParam:
		if s.Pattern != nil {
			return fmt.Sprintf("{%s:%s}", s.Name, s.Pattern.String())
		}
		return "{" + s.Name + "}"
	case KindGreedy:
		return "{+" + s.Name + "}"
	case KindOptional:
		return "{/" + s.Name + "}"
	case KindMeta:
		return "{type:meta,name:" + s.Name + "}"
	}
	return ""
}

// Specificity orders segments for child-selection ties: literal beats a
// constrained parameter beats an unconstrained parameter beats a greedy
// capture. Higher is more specific.
func (s Segment) Specificity() int {
	switch s.Kind {
	case KindLiteral:
		return 4
	case KindParam:
		if s.Pattern != nil {
			return 3
		}
		return 2
	case KindGreedy:
		return 1
	default:
		return 0
	}
}

// MetaAPIRoot is the synthetic segment name used to locate an API root from
// a path ending in "/" (spec.md §4.3, §4.5 and the GLOSSARY "apiRoot meta-segment").
const MetaAPIRoot = "apiRoot"

// NewAPIRootSegment builds the meta segment installed at an API root boundary.
func NewAPIRootSegment() Segment {
	return Segment{Kind: KindMeta, Name: MetaAPIRoot}
}

// ParsePattern tokenises a pattern string like "/test/{+rest}" or
// "/test{/rest}" into an ordered list of Segments.
//
// A "+" segment is terminal: any following segment is a load-time error
// (spec.md §3 URI invariant).
func ParsePattern(pattern string) ([]Segment, error) {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil, nil
	}

	// Split on "/" outside braces only, so "{/rest}" stays inside its token.
	var raw []string
	depth, start := 0, 0
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '/':
			if depth == 0 {
				raw = append(raw, trimmed[start:i])
				start = i + 1
			}
		}
	}
	raw = append(raw, trimmed[start:])
	segments := make([]Segment, 0, len(raw))
	sawGreedy := false

	for _, part := range raw {
		if sawGreedy {
			return nil, fmt.Errorf("uri: segment %q follows a terminal {+...} segment in pattern %q", part, pattern)
		}

		// "/foo{/rest}" arrives as a single raw token "foo{/rest}": split the
		// optional-segment suffix out so it becomes its own Segment.
		if idx := strings.Index(part, "{/"); idx >= 0 && strings.HasSuffix(part, "}") {
			if idx > 0 {
				segments = append(segments, Segment{Kind: KindLiteral, Literal: part[:idx]})
			}
			name := part[idx+2 : len(part)-1]
			segments = append(segments, Segment{Kind: KindOptional, Name: name})
			continue
		}

		if !strings.HasPrefix(part, "{") {
			segments = append(segments, Segment{Kind: KindLiteral, Literal: part})
			continue
		}
		if !strings.HasSuffix(part, "}") {
			return nil, fmt.Errorf("uri: unterminated placeholder %q in pattern %q", part, pattern)
		}

		inner := part[1 : len(part)-1]
		switch {
		case strings.HasPrefix(inner, "+"):
			segments = append(segments, Segment{Kind: KindGreedy, Name: inner[1:]})
			sawGreedy = true
		case strings.HasPrefix(inner, "/"):
			segments = append(segments, Segment{Kind: KindOptional, Name: inner[1:]})
		default:
			name := inner
			var re *regexp.Regexp
			if colon := strings.Index(inner, ":"); colon >= 0 {
				name = inner[:colon]
				compiled, err := regexp.Compile("^(?:" + inner[colon+1:] + ")$")
				if err != nil {
					return nil, fmt.Errorf("uri: invalid constraint on {%s} in pattern %q: %w", name, pattern, err)
				}
				re = compiled
			}
			segments = append(segments, Segment{Kind: KindParam, Name: name, Pattern: re})
		}
	}

	return segments, nil
}

// Tokenize splits a concrete request path on "/", discarding empty leading
// and trailing components (a trailing "/" leaves no trace in the result;
// callers that need it, such as the listing protocol, check the raw path).
func Tokenize(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
