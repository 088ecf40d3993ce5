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

// Package buildmetrics instruments a tree-build job the way
// pkg/operational/metrics instruments the pipeline: promauto-wrapped
// collectors, registered once at package init, plus a GetDocumentation
// helper for generating metrics reference docs.
package buildmetrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mmdbtree_build"

type metricDefinition struct {
	Name string
	Help string
	Type string
}

var defined []metricDefinition

func newCounter(opts prometheus.CounterOpts) prometheus.Counter {
	defined = append(defined, metricDefinition{Name: opts.Name, Help: opts.Help, Type: "counter"})
	return promauto.NewCounter(opts)
}

func newGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	defined = append(defined, metricDefinition{Name: opts.Name, Help: opts.Help, Type: "gauge"})
	return promauto.NewGauge(opts)
}

func newHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	defined = append(defined, metricDefinition{Name: opts.Name, Help: opts.Help, Type: "histogram"})
	return promauto.NewHistogram(opts)
}

var (
	// InsertsTotal counts successful InsertNetwork calls.
	InsertsTotal = newCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inserts_total",
		Help:      "Number of networks inserted into the tree.",
	})

	// DeletesTotal counts successful delete passes run against the tree,
	// such as a DeleteReservedNetworks pass.
	DeletesTotal = newCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deletes_total",
		Help:      "Number of delete passes run against the tree.",
	})

	// AliasesTotal counts AliasIPv4 invocations.
	AliasesTotal = newCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ipv4_aliases_total",
		Help:      "Number of times AliasIPv4 was run.",
	})

	// NodeCount reports the tree's reachable node count after the most
	// recent Finalize.
	NodeCount = newGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "node_count",
		Help:      "Reachable node count after the last Finalize.",
	})

	// EncodeSeconds times Finalize+WriteTree end to end.
	EncodeSeconds = newHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "encode_duration_seconds",
		Help:      "Time spent finalizing and encoding the search tree.",
		Buckets:   prometheus.DefBuckets,
	})
)

// GetDocumentation renders every registered metric as a markdown table,
// matching pkg/operational/metrics.GetDocumentation's format.
func GetDocumentation() string {
	doc := ""
	for _, m := range defined {
		doc += fmt.Sprintf(`
### %s
| **Name** | %s |
|:---|:---|
| **Description** | %s |
| **Type** | %s |

`, m.Name, m.Name, m.Help, m.Type)
	}
	return doc
}
