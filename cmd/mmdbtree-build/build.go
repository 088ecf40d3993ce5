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

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/netobserv/mmdbtree/pkg/buildconfig"
	"github.com/netobserv/mmdbtree/pkg/buildmetrics"
	"github.com/netobserv/mmdbtree/pkg/dataenc"
	"github.com/netobserv/mmdbtree/pkg/ipparse"
	"github.com/netobserv/mmdbtree/pkg/keygen"
	"github.com/netobserv/mmdbtree/pkg/merge"
	"github.com/netobserv/mmdbtree/pkg/mmdbtree"
)

// jsonRecord is one entry of a Source with Format json: an explicit CIDR
// string and an arbitrary value payload.
type jsonRecord struct {
	Network string         `json:"network"`
	Value   map[string]any `json:"value"`
}

type buildJob struct {
	opts   buildconfig.Options
	tree   *mmdbtree.Tree
	parser mmdbtree.IPParser
}

func newBuildJob(opts buildconfig.Options) (*buildJob, error) {
	parser := ipparse.New()
	cfg := mmdbtree.Config{
		IPVersion:      opts.IPVersion,
		RecordSize:     mmdbtree.RecordSize(opts.RecordSize),
		ArenaChunkSize: opts.ArenaChunkSize,
		Parser:         parser,
	}

	if opts.MergeOnCollision && opts.MergeRule != "" {
		merger, err := merge.NewRuleMerger(opts.MergeRule, dataKeyFor)
		if err != nil {
			return nil, err
		}
		cfg.MergeOnCollision = true
		cfg.Merger = merger
	}

	return &buildJob{
		opts:   opts,
		tree:   mmdbtree.New(cfg),
		parser: parser,
	}, nil
}

// dataKeyFor derives a content-hash DataKey from value's CBOR encoding,
// falling back to a random key if value cannot be encoded.
func dataKeyFor(value any) mmdbtree.DataKey {
	encoded, err := cbor.Marshal(value)
	if err != nil {
		return keygen.Random()
	}
	return keygen.ContentHash(encoded)
}

func (j *buildJob) run() error {
	for _, src := range j.opts.Sources {
		if err := j.loadSource(src); err != nil {
			return fmt.Errorf("loading %s: %w", src.Path, err)
		}
	}

	if j.opts.AliasIPv4 {
		if err := j.tree.AliasIPv4(); err != nil {
			return fmt.Errorf("aliasing ipv4 ranges: %w", err)
		}
		buildmetrics.AliasesTotal.Inc()
	}

	if j.opts.DeleteReserved {
		if err := j.tree.DeleteReservedNetworks(); err != nil {
			return fmt.Errorf("deleting reserved networks: %w", err)
		}
		buildmetrics.DeletesTotal.Inc()
	}

	timer := prometheus.NewTimer(buildmetrics.EncodeSeconds)
	defer timer.ObserveDuration()

	j.tree.Finalize()
	buildmetrics.NodeCount.Set(float64(j.tree.NodeCount()))

	out, err := os.Create(j.opts.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	encoder := dataenc.NewEncoder()
	if err := j.tree.WriteTree(out, encoder); err != nil {
		return fmt.Errorf("writing search tree: %w", err)
	}
	if _, err := out.Write(make([]byte, 16)); err != nil { // data section separator
		return err
	}
	if _, err := out.Write(encoder.Bytes()); err != nil {
		return err
	}
	return nil
}

func (j *buildJob) insert(cidr string, value map[string]any) error {
	parts := strings.SplitN(cidr, "/", 2)
	if len(parts) != 2 {
		return fmt.Errorf("network %q is missing a /prefix", cidr)
	}
	prefixLen, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("network %q has an invalid prefix: %w", cidr, err)
	}

	network, err := mmdbtree.ResolveNetwork(j.parser, j.opts.IPVersion, parts[0], prefixLen)
	if err != nil {
		return err
	}

	key := dataKeyFor(value)
	if err := j.tree.InsertNetwork(network, key, value); err != nil {
		return err
	}
	buildmetrics.InsertsTotal.Inc()
	return nil
}

func (j *buildJob) loadSource(src buildconfig.Source) error {
	f, err := os.Open(src.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch src.Format {
	case buildconfig.FormatJSON:
		var records []jsonRecord
		var json = jsoniter.ConfigCompatibleWithStandardLibrary
		dec := json.NewDecoder(f)
		if err := dec.Decode(&records); err != nil {
			return err
		}
		for _, rec := range records {
			if err := j.insert(rec.Network, rec.Value); err != nil {
				log.WithError(err).WithField("network", rec.Network).Warn("skipping record")
			}
		}
		return nil

	case buildconfig.FormatCSV:
		r := csv.NewReader(f)
		header, err := r.Read()
		if err != nil {
			return err
		}
		networkCol := -1
		for i, h := range header {
			if h == "network" {
				networkCol = i
			}
		}
		if networkCol < 0 {
			return fmt.Errorf("%s: csv source has no \"network\" column", src.Path)
		}
		for {
			row, err := r.Read()
			if err != nil {
				break
			}
			value := make(map[string]any, len(header)-1)
			for i, h := range header {
				if i != networkCol {
					value[h] = row[i]
				}
			}
			if err := j.insert(row[networkCol], value); err != nil {
				log.WithError(err).WithField("network", row[networkCol]).Warn("skipping record")
			}
		}
		return nil

	default:
		return fmt.Errorf("%s: unknown source format %q", src.Path, src.Format)
	}
}
