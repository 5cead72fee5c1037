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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequest_CloneIsIsolatedFromOriginal(t *testing.T) {
	orig := NewRequest("/v1/items")
	orig.Headers.Set("X-Trace", "abc")
	orig.Params["id"] = "should-not-leak"

	clone := orig.Clone()
	clone.Headers.Set("X-Trace", "mutated")
	clone.Params["id"] = "5"

	assert.Equal(t, "abc", orig.Headers.Get("X-Trace"), "mutating the clone must not affect the original")
	assert.Equal(t, "should-not-leak", orig.Params["id"])
	assert.Equal(t, "mutated", clone.Headers.Get("X-Trace"))
}

func TestRequest_CloneDefaultsMethod(t *testing.T) {
	r := &Request{Path: "/x"}
	clone := r.Clone()
	assert.Equal(t, "get", clone.Method)
}

func TestHeader_CaseInsensitive(t *testing.T) {
	h := NewHeader()
	h.Set("Content-Type", "application/json")
	assert.Equal(t, "application/json", h.Get("content-type"))
	assert.True(t, h.Has("CONTENT-TYPE"))
}

func TestRequest_SecondSegment(t *testing.T) {
	r := NewRequest("/v1/sys/foo")
	assert.Equal(t, "sys", r.SecondSegment())

	r2 := NewRequest("/v1")
	assert.Equal(t, "", r2.SecondSegment())
}
