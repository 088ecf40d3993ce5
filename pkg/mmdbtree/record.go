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

package mmdbtree

// DataKey identifies an interned value in a DataTable. Callers choose how
// keys are derived -- see pkg/keygen for a content-hash and a random-uuid
// generator -- the tree itself only ever compares keys for equality.
type DataKey string

// NodeID is a stable index into a Tree's node arena. It survives arena
// growth, unlike a Go pointer into a slice that might get reallocated.
type NodeID uint32

// RecordKind tags what a Record currently holds.
type RecordKind uint8

const (
	RecordEmpty RecordKind = iota
	RecordNode
	RecordData
)

// Record is the tagged union MaxMind DB search-tree records are built
// from: either empty, a pointer to a child Node, or a key into the data
// table.
type Record struct {
	Kind RecordKind
	Node NodeID
	Key  DataKey
}

func emptyRecord() Record { return Record{Kind: RecordEmpty} }

func nodeRecord(id NodeID) Record { return Record{Kind: RecordNode, Node: id} }

func dataRecord(key DataKey) Record { return Record{Kind: RecordData, Key: key} }

// sameValue reports whether two records would coalesce, i.e. both are
// Data records referencing the same key. Empty/Empty and Node/Node are
// deliberately not considered the same value: coalescence only merges
// identical leaf data, never shares node identity implicitly.
func (r Record) sameValue(o Record) bool {
	return r.Kind == RecordData && o.Kind == RecordData && r.Key == o.Key
}

// Node is one binary trie node: a left (bit=0) and right (bit=1) record,
// plus the dense number assigned to it during Finalize.
type Node struct {
	Left, Right Record
	Number      uint32
}

func (n *Node) record(bitIsSet bool) Record {
	if bitIsSet {
		return n.Right
	}
	return n.Left
}

func (n *Node) setRecord(bitIsSet bool, r Record) {
	if bitIsSet {
		n.Right = r
	} else {
		n.Left = r
	}
}
