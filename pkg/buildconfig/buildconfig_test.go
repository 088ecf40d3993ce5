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

package buildconfig

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := Default()
	assert.Equal(t, 6, opts.IPVersion)
	assert.Equal(t, 24, opts.RecordSize)
	assert.Equal(t, "8080", opts.Health.Port)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	v := viper.New()
	v.Set("ipVersion", 4)
	v.Set("recordSize", "28") // weakly-typed input: string must coerce to int
	v.Set("deleteReserved", true)
	v.Set("sources", []map[string]any{
		{"path": "in.json", "format": "json"},
	})

	opts, err := Decode(v)
	require.NoError(t, err)

	assert.Equal(t, 4, opts.IPVersion)
	assert.Equal(t, 28, opts.RecordSize)
	assert.True(t, opts.DeleteReserved)
	require.Len(t, opts.Sources, 1)
	assert.Equal(t, "in.json", opts.Sources[0].Path)
	assert.Equal(t, FormatJSON, opts.Sources[0].Format)
}

func TestDecodeLeavesUnsetFieldsAtDefault(t *testing.T) {
	v := viper.New()
	opts, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), opts)
}
