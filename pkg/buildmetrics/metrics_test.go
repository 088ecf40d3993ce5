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

package buildmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInsertsTotalIncrements(t *testing.T) {
	before := testutil.ToFloat64(InsertsTotal)
	InsertsTotal.Inc()
	after := testutil.ToFloat64(InsertsTotal)
	assert.Equal(t, before+1, after)
}

func TestNodeCountGaugeSet(t *testing.T) {
	NodeCount.Set(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(NodeCount))
}

func TestGetDocumentationListsEveryMetric(t *testing.T) {
	doc := GetDocumentation()
	for _, m := range defined {
		assert.Contains(t, doc, m.Name)
	}
}
