/*
 * Copyright (C) 2026 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package merge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netobserv/mmdbtree/pkg/mmdbtree"
)

func identityKeyFunc(value any) mmdbtree.DataKey {
	return mmdbtree.DataKey(fmt.Sprintf("%v", value))
}

func TestRuleMergerKeepsNewWhenTrue(t *testing.T) {
	m, err := NewRuleMerger("new > existing", identityKeyFunc)
	require.NoError(t, err)

	key, value, err := m.Merge("e", 1, "n", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
	assert.Equal(t, identityKeyFunc(2), key)
}

func TestRuleMergerKeepsExistingWhenFalse(t *testing.T) {
	m, err := NewRuleMerger("new > existing", identityKeyFunc)
	require.NoError(t, err)

	_, value, err := m.Merge("e", 5, "n", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, value)
}

func TestRuleMergerRejectsNonBoolResult(t *testing.T) {
	m, err := NewRuleMerger("new + existing", identityKeyFunc)
	require.NoError(t, err)

	_, _, err = m.Merge("e", 1, "n", 2)
	assert.Error(t, err)
}

func TestNewRuleMergerRejectsInvalidExpression(t *testing.T) {
	_, err := NewRuleMerger("((", identityKeyFunc)
	assert.Error(t, err)
}

func TestUnionMergerUnionsMaps(t *testing.T) {
	m := UnionMerger{KeyFunc: identityKeyFunc}

	existing := map[string]any{"country": "US", "asn": 1}
	incoming := map[string]any{"asn": 2, "city": "NYC"}

	_, merged, err := m.Merge("e", existing, "n", incoming)
	require.NoError(t, err)

	mergedMap, ok := merged.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "US", mergedMap["country"])
	assert.Equal(t, 2, mergedMap["asn"], "new value should win on key conflict")
	assert.Equal(t, "NYC", mergedMap["city"])
}

func TestUnionMergerFallsBackToNewWhenNotMaps(t *testing.T) {
	m := UnionMerger{KeyFunc: identityKeyFunc}

	_, merged, err := m.Merge("e", "existing-string", "n", "new-string")
	require.NoError(t, err)
	assert.Equal(t, "new-string", merged)
}

func TestMergersImplementMmdbtreeMerger(t *testing.T) {
	var _ mmdbtree.Merger = &RuleMerger{}
	var _ mmdbtree.Merger = UnionMerger{}
}
