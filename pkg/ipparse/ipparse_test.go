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

package ipparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIPv4(t *testing.T) {
	version, bytes, err := New().Parse("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 4, version)
	assert.Equal(t, []byte{1, 2, 3, 4}, bytes)
}

func TestParseIPv6(t *testing.T) {
	version, bytes, err := New().Parse("::1")
	require.NoError(t, err)
	assert.Equal(t, 6, version)
	assert.Len(t, bytes, 16)
	assert.Equal(t, byte(1), bytes[15])
}

func TestParseInvalid(t *testing.T) {
	_, _, err := New().Parse("not-an-address")
	assert.Error(t, err)
}
