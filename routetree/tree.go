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

package routetree

import (
	"fmt"

	"github.com/hyperswitch/hyperswitch/uri"
)

// BuildPath walks/creates nodes for all segments of pattern under root,
// except it always returns the final segment's node (creating intermediate
// nodes as needed). This is spec.md §4.3 step 4's "walk/create nodes via
// buildPath for all segments except the last" generalized to also return
// the last node, since most callers (including module mounting) want it.
//
// When the last segment carries the {/name} optional modifier, the
// invariant from spec.md §3 applies: the child's eventual Value must also be
// mirrored onto the parent node. BuildPath returns both nodes so the caller
// can apply that rule (see MirrorOptional).
func BuildPath(root *Node, segments []uri.Segment) (last *Node, parentOfLast *Node, err error) {
	current := root
	var parent *Node

	for _, seg := range segments {
		parent = current
		switch seg.Kind {
		case uri.KindLiteral:
			current = current.literalChild(seg.Literal)
		case uri.KindParam:
			constraint := ""
			if seg.Pattern != nil {
				constraint = seg.Pattern.String()
			}
			current = current.paramChildFor(seg.Name, constraint, seg.Pattern)
		case uri.KindOptional:
			current = current.paramChildFor(seg.Name, "", nil)
		case uri.KindGreedy:
			// A "+" segment is terminal (uri package enforces this at parse
			// time): Lookup consumes every remaining path component the
			// instant it enters this node, so no self-child is needed.
			current = current.greedyChild(seg.Name)
		case uri.KindMeta:
			current = current.metaChild(seg.Name)
		default:
			return nil, nil, fmt.Errorf("routetree: unknown segment kind %v", seg.Kind)
		}
	}

	return current, parent, nil
}

// MirrorOptional copies child's Value onto parent when child was reached via
// a {/name} modifier, per the open question resolved in SPEC_FULL.md /
// DESIGN.md: any pre-existing, distinct Value on parent is a re-definition
// error rather than being silently overwritten.
func MirrorOptional(parent, child *Node) error {
	if parent == nil || child.Value == nil {
		return nil
	}
	if parent.Value != nil && parent.Value != child.Value {
		return fmt.Errorf("routetree: optional-segment mirroring collides with an existing value at %q", parent.Value.Path)
	}
	parent.Value = child.Value
	return nil
}

// LookupResult carries the outcome of a path lookup.
type LookupResult struct {
	Node   *Node
	Params map[string]string
	// Listing is set when path ended in "/", no direct value matched, but a
	// node was still reached: ListingNames holds that node's visible
	// children (spec.md §4.1 "Listing protocol").
	Listing      bool
	ListingNames []string
}

// Lookup matches a concrete request path against the tree rooted at root.
// It mirrors router/radix.go's manual-parsing traversal loop, generalized
// to the segment modifiers this tree supports.
//
// Tokenize discards a trailing "/" along with any leading one, so the
// listing protocol's trailing-slash signal is read off the raw path before
// tokenizing rather than from the segment count.
func Lookup(root *Node, path string) *LookupResult {
	trailingSlash := len(path) > 0 && path[len(path)-1] == '/'
	segs := uri.Tokenize(path)
	params := map[string]string{}

	current := root
	for i, seg := range segs {
		next, _, ok := matchSegment(current, seg)
		if !ok {
			return nil
		}
		if next.segKind == segKindParam {
			params[next.segName] = seg
		}
		current = next
		if next.segKind == segKindGreedy {
			// Greedy consumes the remainder of the path in one step.
			params[next.segName] = joinSegs(segs[i:])
			return &LookupResult{Node: current, Params: params}
		}
	}

	if current.Value == nil && (trailingSlash || len(segs) == 0) {
		// No handler registered directly at this node: trailing slash (or
		// the bare root) falls back to the listing protocol instead of 404.
		return &LookupResult{Node: current, Params: params, Listing: true, ListingNames: current.ChildNames()}
	}

	return &LookupResult{Node: current, Params: params}
}

func joinSegs(segs []string) string {
	out := segs[0]
	for _, s := range segs[1:] {
		out += "/" + s
	}
	return out
}

// CloneShallow produces a structural copy of subtree suitable for mounting
// the same compiled module under a second prefix (spec.md §4.3 step 4,
// "clone-share the existing subtree" for repeated x-modules references with
// identical globals). Only subtree's own node and its Value are copied, so
// per-mount metadata (Path, Globals) on that Value can be overwritten
// without mutating the original mount; every child node, and every Value
// below the top node, is shared by reference with the original.
func CloneShallow(subtree *Node) *Node {
	if subtree == nil {
		return nil
	}
	clone := &Node{
		literal:  subtree.literal,
		params:   subtree.params,
		greedy:   subtree.greedy,
		greedyOf: subtree.greedyOf,
		segName:  subtree.segName,
		segKind:  subtree.segKind,
	}
	if subtree.Value != nil {
		v := *subtree.Value
		clone.Value = &v
	}
	return clone
}

// Walk visits every node in the subtree rooted at n — literal, param, greedy
// and meta children alike — in an unspecified order. The startup resource
// phase (spec.md §5 "resources traversal") needs it to collect every node's
// Value.Resources regardless of how the tree branches; nothing else in this
// package previously needed whole-tree iteration since Lookup only follows
// one path at a time.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.literal {
		Walk(child, fn)
	}
	for _, pc := range n.params {
		Walk(pc.node, fn)
	}
	if n.greedy != nil {
		Walk(n.greedy, fn)
	}
}

// matchSegment picks the most specific child of current matching seg,
// following the priority literal > constrained param > unconstrained param
// > greedy (spec.md §4.1).
func matchSegment(current *Node, seg string) (next *Node, captured string, ok bool) {
	if current.literal != nil {
		if child, exists := current.literal[seg]; exists {
			return child, "", true
		}
	}
	for _, pc := range current.params {
		if pc.seg.constraint == "" {
			continue
		}
		if pc.pattern != nil && pc.pattern.MatchString(seg) {
			return pc.node, seg, true
		}
	}
	for _, pc := range current.params {
		if pc.seg.constraint != "" {
			continue
		}
		return pc.node, seg, true
	}
	if current.greedy != nil {
		return current.greedy, seg, true
	}
	return nil, "", false
}
