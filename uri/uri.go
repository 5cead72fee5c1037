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

// URI is the structured path + optional host carried on a Request (spec.md §3).
type URI struct {
	Host string
	Path string
}

// Parse builds a URI from a raw path string, optionally prefixed with a host
// ("example.org/a/b"). A leading "/" path is the common case.
func Parse(raw string) URI {
	if raw == "" {
		return URI{Path: "/"}
	}
	if strings.HasPrefix(raw, "/") {
		return URI{Path: raw}
	}
	// host/path form, e.g. from x-host-basePath resolution
	if idx := strings.Index(raw, "/"); idx >= 0 {
		return URI{Host: raw[:idx], Path: raw[idx:]}
	}
	return URI{Host: raw, Path: "/"}
}

// String renders the URI back to a path string (host is not re-attached;
// callers that need the host use Host directly).
func (u URI) String() string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// EndsInSlash reports whether the concrete path ends with "/", which
// triggers the listing protocol (spec.md §4.1) when no direct handler matches.
func (u URI) EndsInSlash() bool {
	return strings.HasSuffix(u.Path, "/")
}

// FirstSegment returns the path's first non-empty segment, used by the
// metrics stock filter to strip the leading "/{domain}/" component
// (spec.md §4.7) and to locate the owning API root.
func (u URI) FirstSegment() string {
	segs := Tokenize(u.Path)
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

// StripFirstSegment removes the leading "/{domain}" component from a path,
// returning the remainder with a leading slash preserved. Used by the
// metrics filter to label paths without the per-domain prefix.
func StripFirstSegment(path string) string {
	segs := Tokenize(path)
	if len(segs) <= 1 {
		return "/"
	}
	return "/" + strings.Join(segs[1:], "/")
}
