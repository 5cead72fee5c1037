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

package handlerchain

import (
	"fmt"

	"github.com/hyperswitch/hyperswitch/core"
	"github.com/hyperswitch/hyperswitch/template"
)

// compiledStanza is the compiled form of one request-name -> stanza entry
// within a step (spec.md §4.6 "Compilation").
type compiledStanza struct {
	name string

	requestTemplate *template.Template // nil if this stanza has no "request"

	// returns/returnValue implement "return (flag or template)": returns is
	// true when this stanza unconditionally sets ctx._doReturn; returnValue
	// is the literal template to substitute for the stored response when
	// "return" carries an object rather than a bare true.
	returns     bool
	returnValue *template.Template

	returnIf *Predicate
	catch    *Predicate
}

// step is one element of the compiled chain's ordered step list: the
// stanzas that are launched concurrently together (spec.md §4.6
// "Execution").
type step struct {
	stanzas []*compiledStanza
}

// compiledChain is the callable declarative handler chain itself.
type compiledChain struct {
	steps []step
	// defaultMethod is used by each request stanza when neither the
	// template nor the calling context supplies one (spec.md §4.6 "request
	// stanza... defaults req.method from ctx.model.request.method or
	// config default (get)").
	defaultMethod string
}

// StanzaSpec is one named stanza within a step, in the order it was
// declared. spec.md §4.6 models a step as "a mapping from request-name to
// request-stanza" — a Go map loses that declaration order, and
// response-massaging order is semantically load-bearing (spec.md §5
// "response-massaging of completed requests runs in declaration order"),
// so the dialect is carried here as an explicit ordered list rather than a
// map[string]any (see DESIGN.md).
type StanzaSpec struct {
	Name string
	Raw  map[string]any
}

// StepSpec is one step: an ordered list of named stanzas.
type StepSpec []StanzaSpec

// Compile validates and compiles an ordered list of steps (spec.md §4.6)
// into a core.HandlerFunc.
func Compile(raw []StepSpec) (core.HandlerFunc, error) {
	chain, err := compileChain(raw)
	if err != nil {
		return nil, err
	}
	return chain.handlerFunc(), nil
}

func compileChain(raw []StepSpec) (*compiledChain, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("Invalid spec. Top-level handler chain must be a non-empty list.")
	}

	chain := &compiledChain{defaultMethod: "get"}

	for i, rawStep := range raw {
		isLast := i == len(raw)-1
		st, err := compileStep(rawStep, isLast)
		if err != nil {
			return nil, err
		}
		chain.steps = append(chain.steps, st)
	}

	return chain, nil
}

func compileStep(rawStep StepSpec, isLast bool) (step, error) {
	var st step
	returning := 0

	for _, entry := range rawStep {
		sn, err := compileStanza(entry.Name, entry.Raw)
		if err != nil {
			return step{}, err
		}
		if sn.returns || sn.returnIf != nil {
			returning++
		}
		st.stanzas = append(st.stanzas, sn)
	}

	if returning > 1 {
		return step{}, fmt.Errorf("Invalid spec. At most one stanza per step may carry a returning decision.")
	}

	if isLast {
		if len(st.stanzas) > 1 {
			if returning == 0 {
				return step{}, fmt.Errorf("Invalid spec. Returning requests cannot be parallel.")
			}
		} else if len(st.stanzas) == 1 && returning == 0 {
			// A single-stanza final step without an explicit return has an
			// implied return (spec.md §4.6).
			st.stanzas[0].returns = true
		}
	}

	return st, nil
}

func compileStanza(name string, raw map[string]any) (*compiledStanza, error) {
	sn := &compiledStanza{name: name}

	hasRequest := raw["request"] != nil
	if hasRequest {
		sn.requestTemplate = template.New(raw["request"])
	}

	if rv, ok := raw["return"]; ok {
		switch v := rv.(type) {
		case bool:
			sn.returns = v
		default:
			sn.returns = true
			sn.returnValue = template.New(v)
		}
	}

	if rawIf, ok := raw["return_if"].(map[string]any); ok {
		if !hasRequest {
			return nil, fmt.Errorf("Invalid spec. return_if on %q requires request.", name)
		}
		p, err := CompilePredicate(rawIf)
		if err != nil {
			return nil, err
		}
		sn.returnIf = p
	}

	if rawCatch, ok := raw["catch"].(map[string]any); ok {
		if !hasRequest {
			return nil, fmt.Errorf("Invalid spec. catch on %q requires request.", name)
		}
		p, err := CompilePredicate(rawCatch)
		if err != nil {
			return nil, err
		}
		sn.catch = p
	}

	if !hasRequest && !sn.returns {
		return nil, fmt.Errorf("Invalid spec. Stanza %q must carry either request or return.", name)
	}

	return sn, nil
}
