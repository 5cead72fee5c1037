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

package uri

import "strings"

// MatchPattern matches a concrete path against a single parsed pattern,
// without consulting a route tree. It exists as a standalone, testable
// reference for the matching rules the route tree applies segment-by-segment
// (spec.md §4.1); the dispatcher and the startup resource phase do not call
// it.
//
// Returns the captured parameters and whether the pattern matched.
func MatchPattern(pattern []Segment, path string) (map[string]string, bool) {
	concrete := Tokenize(path)
	params := map[string]string{}

	ci := 0
	for pi := 0; pi < len(pattern); pi++ {
		seg := pattern[pi]

		switch seg.Kind {
		case KindLiteral:
			if ci >= len(concrete) || concrete[ci] != seg.Literal {
				return nil, false
			}
			ci++
		case KindParam:
			if ci >= len(concrete) {
				return nil, false
			}
			if seg.Pattern != nil && !seg.Pattern.MatchString(concrete[ci]) {
				return nil, false
			}
			params[seg.Name] = concrete[ci]
			ci++
		case KindGreedy:
			if ci >= len(concrete) {
				return nil, false
			}
			params[seg.Name] = strings.Join(concrete[ci:], "/")
			ci = len(concrete)
		case KindOptional:
			if ci < len(concrete) {
				params[seg.Name] = concrete[ci]
				ci++
			}
			// Optional segment absent: params[seg.Name] stays unset, matching
			// the spec.md invariant "GET /test -> params.rest absent".
		case KindMeta:
			// Meta segments are never matched against a concrete path directly.
			return nil, false
		}
	}

	if ci != len(concrete) {
		return nil, false
	}
	return params, true
}
