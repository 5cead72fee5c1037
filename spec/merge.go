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

package spec

import (
	"fmt"
	"reflect"

	"github.com/hyperswitch/hyperswitch/core"
)

// mergeComponents unions src's named component groups ("schemas",
// "responses", ...) into dst, failing if two definitions share a group and
// name but differ (spec.md §8 "Spec merging": "their components.schemas
// are union-merged").
func mergeComponents(dst, src map[string]any) error {
	for group, rawEntries := range src {
		entries, ok := rawEntries.(map[string]any)
		if !ok {
			continue
		}
		dstGroup, ok := dst[group].(map[string]any)
		if !ok {
			dstGroup = map[string]any{}
			dst[group] = dstGroup
		}
		for name, def := range entries {
			if existing, present := dstGroup[name]; present {
				if !reflect.DeepEqual(existing, def) {
					return fmt.Errorf("spec: conflicting definitions for components.%s.%s", group, name)
				}
				continue
			}
			dstGroup[name] = def
		}
	}
	return nil
}

// mergeTags appends src's tags into dst, deduplicating by Name and failing
// if two tags share a name with different descriptions (spec.md §4.3 step 3,
// §8 "two tags with identical name but differing description is a
// load-time error").
func mergeTags(dst []Tag, src []Tag) ([]Tag, error) {
	byName := make(map[string]int, len(dst))
	for i, t := range dst {
		byName[t.Name] = i
	}
	for _, t := range src {
		if idx, ok := byName[t.Name]; ok {
			if dst[idx].Description != t.Description {
				return nil, fmt.Errorf("%w: %q", core.ErrTagDescriptionConflict, t.Name)
			}
			continue
		}
		byName[t.Name] = len(dst)
		dst = append(dst, t)
	}
	return dst, nil
}
