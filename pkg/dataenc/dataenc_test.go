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

package dataenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netobserv/mmdbtree/pkg/mmdbtree"
)

func TestStoreDataReturnsGrowingOffsets(t *testing.T) {
	enc := NewEncoder()

	off1, err := enc.StoreData("k1", map[string]any{"country": "US"})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), off1)

	off2, err := enc.StoreData("k2", map[string]any{"country": "CA"})
	require.NoError(t, err)
	assert.Greater(t, off2, off1)

	assert.Len(t, enc.Bytes(), int(off2)+len(enc.Bytes())-int(off2))
}

func TestStoreDataDedupesByKey(t *testing.T) {
	enc := NewEncoder()

	off1, err := enc.StoreData("k1", map[string]any{"country": "US"})
	require.NoError(t, err)

	before := len(enc.Bytes())
	off2, err := enc.StoreData("k1", map[string]any{"country": "US"})
	require.NoError(t, err)

	assert.Equal(t, off1, off2, "a repeated key must return the offset already recorded for it")
	assert.Equal(t, before, len(enc.Bytes()), "a repeated key must not be written twice")
}

func TestStoreDataImplementsSerializer(t *testing.T) {
	var _ mmdbtree.Serializer = NewEncoder()
}
