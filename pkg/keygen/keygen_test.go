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

package keygen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHashIsDeterministic(t *testing.T) {
	a := ContentHash([]byte("US"))
	b := ContentHash([]byte("US"))
	assert.Equal(t, a, b)
}

func TestContentHashDiffersOnDifferentInput(t *testing.T) {
	a := ContentHash([]byte("US"))
	b := ContentHash([]byte("CA"))
	assert.NotEqual(t, a, b)
}

func TestRandomNeverRepeats(t *testing.T) {
	a := Random()
	b := Random()
	assert.NotEqual(t, a, b)
}
