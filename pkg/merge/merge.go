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

// Package merge provides mmdbtree.Merger implementations for
// MergeOnCollision, the way pkg/pipeline/transform/network's AddIf rule
// evaluates a caller-supplied boolean expression with govaluate rather
// than hardcoding the condition.
package merge

import (
	"fmt"

	"github.com/Knetic/govaluate"
	log "github.com/sirupsen/logrus"

	"github.com/netobserv/mmdbtree/pkg/mmdbtree"
)

// KeyFunc derives the DataKey a merged value should be interned under.
type KeyFunc func(value any) mmdbtree.DataKey

// RuleMerger picks between an existing and a new colliding value by
// evaluating a boolean expression against them. The expression sees two
// variables, existing and new; a true result keeps new, false keeps
// existing.
type RuleMerger struct {
	Expression string
	KeyFunc    KeyFunc

	rule *govaluate.EvaluableExpression
}

// NewRuleMerger compiles expression once so Merge does not re-parse it
// on every collision.
func NewRuleMerger(expression string, keyFunc KeyFunc) (*RuleMerger, error) {
	rule, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("merge: invalid rule %q: %w", expression, err)
	}
	return &RuleMerger{Expression: expression, KeyFunc: keyFunc, rule: rule}, nil
}

// Merge implements mmdbtree.Merger.
func (m *RuleMerger) Merge(_ mmdbtree.DataKey, existingValue any, _ mmdbtree.DataKey, newValue any) (mmdbtree.DataKey, any, error) {
	result, err := m.rule.Evaluate(map[string]interface{}{
		"existing": existingValue,
		"new":      newValue,
	})
	if err != nil {
		return "", nil, fmt.Errorf("merge: evaluating rule %q: %w", m.Expression, err)
	}
	keepNew, ok := result.(bool)
	if !ok {
		return "", nil, fmt.Errorf("merge: rule %q must evaluate to a bool, got %T", m.Expression, result)
	}

	merged := existingValue
	if keepNew {
		merged = newValue
	}
	log.WithField("rule", m.Expression).WithField("keptNew", keepNew).Debug("resolved merge collision")
	return m.KeyFunc(merged), merged, nil
}

// UnionMerger merges two map[string]any values by shallow union, with new
// values overwriting existing keys on conflict. Values that are not
// map[string]any fall back to new winning outright.
type UnionMerger struct {
	KeyFunc KeyFunc
}

// Merge implements mmdbtree.Merger.
func (m UnionMerger) Merge(_ mmdbtree.DataKey, existingValue any, _ mmdbtree.DataKey, newValue any) (mmdbtree.DataKey, any, error) {
	existingMap, existingOK := existingValue.(map[string]any)
	newMap, newOK := newValue.(map[string]any)
	if !existingOK || !newOK {
		return m.KeyFunc(newValue), newValue, nil
	}

	merged := make(map[string]any, len(existingMap)+len(newMap))
	for k, v := range existingMap {
		merged[k] = v
	}
	for k, v := range newMap {
		merged[k] = v
	}
	return m.KeyFunc(merged), merged, nil
}
