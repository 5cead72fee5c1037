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

// Package routetree implements the prefix tree of path segments described
// in spec.md §3/§4.1: a node has children keyed by segment, and an optional
// Value holding methods, filters, resources and the spec subtree it belongs
// to.
//
// Routes are registered during a single-threaded build phase (the spec
// loader walks paths sequentially, spec.md §4.3 step 4). Once loading has
// finished the tree is treated as immutable and safe for concurrent lookups
// without locking, mirroring router/radix.go's build-then-freeze discipline;
// there is no explicit freeze step and nothing enforces immutability.
package routetree

import (
	"regexp"

	"github.com/hyperswitch/hyperswitch/core"
)

// MethodHandler pairs a bound handler with its compiled operation metadata.
type MethodHandler struct {
	Handler core.HandlerFunc
	Info    *core.OperationInfo
}

// ResourceTemplate is a startup-time request template compiled from an
// x-setup-handler entry (spec.md §4.3 "Resource phase").
type ResourceTemplate struct {
	Name   string
	Raw    any // declarative template object, expanded by the caller via the template package
	Method string
}

// Value is attached to a node once a path pattern registers something there
// (spec.md §3 "Route tree" invariants).
type Value struct {
	Path      string                    // canonical base+prefix path
	Methods   map[string]*MethodHandler // verb -> compiled handler
	Filters   []core.FilterEntry        // method-level x-route-filters only, each scoped to its verb; document- and path-level ones are not added
	Resources []ResourceTemplate
	SpecRoot  any            // the merged spec.Document this subtree belongs to (stored as any to avoid an import cycle)
	Globals   map[string]any // configuration visible to handlers/templates
	Hidden    bool           // x-hidden: omit from merged spec and listings
	IsListing bool           // x-listing: marks a synthetic "listing" apiRoot
	IsAPIRoot bool

	// DefaultParams is x-default-params (SPEC_FULL.md §6): default path
	// parameter bindings applied before the route's own captured params, so
	// an explicit match always wins.
	DefaultParams map[string]string
}

// paramChild is a dynamic segment child. Multiple paramChildren may coexist
// on one node when they carry distinct constraints (spec.md §3 "children
// with distinct modifiers may coexist"); lookup tries them most-specific
// first.
type paramChild struct {
	seg     segmentKey
	node    *Node
	pattern *regexp.Regexp // compiled form of seg.constraint, nil if unconstrained
}

// Node is one node of the route prefix tree.
type Node struct {
	literal  map[string]*Node // exact-segment children
	params   []*paramChild    // dynamic-segment children, most specific first
	greedy   *Node            // {+name} terminal child, at most one
	greedyOf string           // the greedy child's parameter name

	Value *Value

	// segName/segKind identify which segment (and its modifier) this node
	// represents as a child of its parent; used when rendering listings and
	// diagnostics. Root has segKind == segKindRoot.
	segName string
	segKind segKind
}

type segKind int

const (
	segKindRoot segKind = iota
	segKindLiteral
	segKindParam
	segKindGreedy
	segKindMeta
)

// segmentKey identifies a dynamic child for map-free linear lookup;
// kept tiny so the common case (no constraint) allocates nothing extra.
type segmentKey struct {
	name       string
	constraint string // regex source, "" if unconstrained
}

// NewRoot creates an empty root node.
func NewRoot() *Node {
	return &Node{segKind: segKindRoot}
}

// literalChild returns (creating if absent) the literal child named name.
func (n *Node) literalChild(name string) *Node {
	if n.literal == nil {
		n.literal = make(map[string]*Node, 4)
	}
	if child, ok := n.literal[name]; ok {
		return child
	}
	child := &Node{segName: name, segKind: segKindLiteral}
	n.literal[name] = child
	return child
}

// paramChildFor returns (creating if absent) the dynamic child matching the
// given name+constraint pair. pattern is the compiled form of constraint (or
// nil for an unconstrained/optional segment) and is stored for lookup.
func (n *Node) paramChildFor(name, constraint string, pattern *regexp.Regexp) *Node {
	key := segmentKey{name: name, constraint: constraint}
	for _, pc := range n.params {
		if pc.seg == key {
			return pc.node
		}
	}
	child := &Node{segName: name, segKind: segKindParam}
	// Constrained children sort before unconstrained ones so lookup tries
	// the more specific pattern first (spec.md §4.1 specificity rule).
	entry := &paramChild{seg: key, node: child, pattern: pattern}
	if constraint == "" {
		n.params = append(n.params, entry)
		return child
	}
	insertAt := len(n.params)
	for i, pc := range n.params {
		if pc.seg.constraint == "" {
			insertAt = i
			break
		}
	}
	n.params = append(n.params, nil)
	copy(n.params[insertAt+1:], n.params[insertAt:])
	n.params[insertAt] = entry
	return child
}

// greedyChild returns (creating if absent) the {+name} child.
func (n *Node) greedyChild(name string) *Node {
	if n.greedy == nil {
		n.greedy = &Node{segName: name, segKind: segKindGreedy}
		n.greedyOf = name
	}
	return n.greedy
}

// metaChild returns (creating if absent) the synthetic apiRoot meta child.
func (n *Node) metaChild(name string) *Node {
	key := "\x00meta\x00" + name
	if n.literal == nil {
		n.literal = make(map[string]*Node, 4)
	}
	if child, ok := n.literal[key]; ok {
		return child
	}
	child := &Node{segName: name, segKind: segKindMeta}
	n.literal[key] = child
	return child
}

// EnsureMetaChild returns (creating if absent) the meta child named name,
// for collaborators outside this package (e.g. the spec loader installing
// the apiRoot meta-segment, spec.md §4.3 step 2).
func (n *Node) EnsureMetaChild(name string) *Node {
	return n.metaChild(name)
}

// MetaChild looks up an existing apiRoot meta child without creating one.
func (n *Node) MetaChild(name string) (*Node, bool) {
	if n.literal == nil {
		return nil, false
	}
	child, ok := n.literal["\x00meta\x00"+name]
	return child, ok
}

// ChildNames returns the literal child segment names at this node, for the
// listing protocol (spec.md §4.1), excluding hidden children and meta
// children.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, len(n.literal))
	for key, child := range n.literal {
		if child.segKind == segKindMeta {
			continue
		}
		if child.Value != nil && child.Value.Hidden {
			continue
		}
		names = append(names, key)
	}
	return names
}

// EnsureValue returns n's Value, creating an empty one if absent.
func (n *Node) EnsureValue() *Value {
	if n.Value == nil {
		n.Value = &Value{Methods: map[string]*MethodHandler{}}
	}
	if n.Value.Methods == nil {
		n.Value.Methods = map[string]*MethodHandler{}
	}
	return n.Value
}
