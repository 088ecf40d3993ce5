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

// Package buildconfig decodes a tree-build job's configuration the way
// pkg/config.Options is populated in the teacher repo: viper reads flags,
// env vars and a config file into a map, and mapstructure decodes that
// map into a typed Go struct.
package buildconfig

import (
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// SourceFormat names how a Source file is decoded.
type SourceFormat string

const (
	FormatJSON SourceFormat = "json"
	FormatCSV  SourceFormat = "csv"
)

// Source is one input file of (network, value) pairs to insert.
type Source struct {
	Path        string       `mapstructure:"path"`
	Format      SourceFormat `mapstructure:"format"`
	NetworkKey  string       `mapstructure:"networkKey"`
	NetworkMask int          `mapstructure:"networkMask"`
}

// Health mirrors pkg/config.Options's health server settings.
type Health struct {
	Port string `mapstructure:"port"`
}

// Options is the fully resolved job configuration.
type Options struct {
	IPVersion        int      `mapstructure:"ipVersion"`
	RecordSize       int      `mapstructure:"recordSize"`
	ArenaChunkSize   int      `mapstructure:"arenaChunkSize"`
	Sources          []Source `mapstructure:"sources"`
	DeleteReserved   bool     `mapstructure:"deleteReserved"`
	AliasIPv4        bool     `mapstructure:"aliasIPv4"`
	MergeOnCollision bool     `mapstructure:"mergeOnCollision"`
	MergeRule        string   `mapstructure:"mergeRule"`
	Output           string   `mapstructure:"output"`
	Health           Health   `mapstructure:"health"`
}

// Default returns the options a bare invocation runs with.
func Default() Options {
	return Options{
		IPVersion:      6,
		RecordSize:     24,
		ArenaChunkSize: 1 << 18,
		Health:         Health{Port: "8080"},
	}
}

// Decode reads v's settings (already populated from flags/env/config file
// by the caller) into an Options value, starting from Default().
func Decode(v *viper.Viper) (Options, error) {
	opts := Default()
	if err := v.Unmarshal(&opts, func(c *mapstructure.DecoderConfig) {
		c.ErrorUnused = false
		c.WeaklyTypedInput = true
	}); err != nil {
		return Options{}, errors.Wrap(err, "decoding build config")
	}
	return opts, nil
}
