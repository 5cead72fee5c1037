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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stanza(name string, fields map[string]any) StanzaSpec {
	return StanzaSpec{Name: name, Raw: fields}
}

func TestCompileChain_EmptyIsError(t *testing.T) {
	_, err := compileChain(nil)
	assert.ErrorContains(t, err, "non-empty list")
}

func TestCompileChain_SingleStanzaFinalStepImpliesReturn(t *testing.T) {
	raw := []StepSpec{
		{stanza("fetch", map[string]any{"request": map[string]any{"uri": "/items"}})},
	}
	chain, err := compileChain(raw)
	require.NoError(t, err)
	require.Len(t, chain.steps, 1)
	require.Len(t, chain.steps[0].stanzas, 1)
	assert.True(t, chain.steps[0].stanzas[0].returns)
}

func TestCompileStep_TwoReturningStanzasIsError(t *testing.T) {
	raw := StepSpec{
		stanza("a", map[string]any{"request": map[string]any{"uri": "/a"}, "return": true}),
		stanza("b", map[string]any{"request": map[string]any{"uri": "/b"}, "return": true}),
	}
	_, err := compileStep(raw, true)
	assert.ErrorContains(t, err, "At most one stanza per step")
}

func TestCompileStep_ParallelWithoutReturnIsError(t *testing.T) {
	raw := StepSpec{
		stanza("a", map[string]any{"request": map[string]any{"uri": "/a"}}),
		stanza("b", map[string]any{"request": map[string]any{"uri": "/b"}}),
	}
	_, err := compileStep(raw, true)
	assert.ErrorContains(t, err, "Returning requests cannot be parallel")
}

func TestCompileStep_NonFinalParallelWithoutReturnIsFine(t *testing.T) {
	raw := StepSpec{
		stanza("a", map[string]any{"request": map[string]any{"uri": "/a"}}),
		stanza("b", map[string]any{"request": map[string]any{"uri": "/b"}}),
	}
	st, err := compileStep(raw, false)
	require.NoError(t, err)
	assert.Len(t, st.stanzas, 2)
}

func TestCompileStanza_RequiresRequestOrReturn(t *testing.T) {
	_, err := compileStanza("nope", map[string]any{})
	assert.ErrorContains(t, err, `must carry either request or return`)
}

func TestCompileStanza_ReturnIfRequiresRequest(t *testing.T) {
	_, err := compileStanza("a", map[string]any{"return_if": map[string]any{"status": 200}})
	assert.ErrorContains(t, err, "return_if on \"a\" requires request")
}

func TestCompileStanza_CatchRequiresRequest(t *testing.T) {
	_, err := compileStanza("a", map[string]any{"catch": map[string]any{"status": "5xx"}})
	assert.ErrorContains(t, err, "catch on \"a\" requires request")
}

func TestCompileStep_OrderPreservedAcrossStep(t *testing.T) {
	raw := StepSpec{
		stanza("zeta", map[string]any{"request": map[string]any{"uri": "/z"}}),
		stanza("alpha", map[string]any{"request": map[string]any{"uri": "/a"}, "return": true}),
	}
	st, err := compileStep(raw, true)
	require.NoError(t, err)
	require.Len(t, st.stanzas, 2)
	assert.Equal(t, "zeta", st.stanzas[0].name)
	assert.Equal(t, "alpha", st.stanzas[1].name)
}
