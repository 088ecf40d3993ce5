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

import "github.com/bits-and-blooms/bitset"

// seenSet is a dense, arena-sized visited-set for the node DFS. Trees
// with aliases are DAGs, not trees: the same NodeID can be reached
// through more than one path, and traversal must visit it only once.
// tree.c keeps a uthash of node pointers for this; a bitset indexed by
// NodeID is the dense Go equivalent, sized to the arena like
// gaissmai/bart sizes its own prefix/children bitsets to a node's stride.
type seenSet struct {
	bs *bitset.BitSet
}

func newSeenSet(capacity int) *seenSet {
	return &seenSet{bs: bitset.New(uint(capacity))}
}

// testAndSet reports whether id was already seen, marking it seen either
// way.
func (s *seenSet) testAndSet(id NodeID) bool {
	if s.bs.Test(uint(id)) {
		return true
	}
	s.bs.Set(uint(id))
	return false
}

// traverse runs a pre-order DFS over every reachable node exactly once,
// following Left then Right. It is deterministic for an unchanged tree,
// so calling it again after Finalize (e.g. from WriteTree) revisits nodes
// in the same order Finalize numbered them in.
func (t *Tree) traverse(visit func(id NodeID, node *Node)) {
	seen := newSeenSet(t.arena.count())
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if seen.testAndSet(id) {
			return
		}
		node := t.arena.get(id)
		visit(id, node)
		if node.Left.Kind == RecordNode {
			walk(node.Left.Node)
		}
		if node.Right.Kind == RecordNode {
			walk(node.Right.Node)
		}
	}
	walk(t.rootID)
}

// Finalize assigns every reachable node a dense number in DFS order and
// records the total reachable node count. It is idempotent: calling it
// again after further mutation renumbers from scratch; calling it twice
// in a row without mutation in between is a no-op.
func (t *Tree) Finalize() {
	if t.finalized {
		return
	}
	count := 0
	t.traverse(func(_ NodeID, node *Node) {
		node.Number = uint32(count)
		count++
	})
	t.nodeCount = count
	t.finalized = true
}

// NodeVisitor is called once per reachable node, in the deterministic DFS
// order Finalize numbers nodes in, with that node's two records.
type NodeVisitor func(nodeNumber uint32, left, right Record)

// Iterate walks the finalized tree, invoking visit once per reachable
// node. It finalizes the tree first if needed.
func (t *Tree) Iterate(visit NodeVisitor) {
	t.Finalize()
	t.traverse(func(_ NodeID, node *Node) {
		visit(node.Number, node.Left, node.Right)
	})
}

// Direction names which half of a node's prefix a record occupies.
type Direction uint8

const (
	DirLeft Direction = iota
	DirRight
)

func (d Direction) String() string {
	if d == DirRight {
		return "R"
	}
	return "L"
}

// RecordVisitor receives one callback per record position -- left and
// right of every reachable node -- with the prefix the containing node
// covers and the narrower prefix the record itself covers. Exactly one
// method is called per position, matching the record's kind. Return
// values are ignored; implementations must not mutate the tree.
type RecordVisitor interface {
	OnNodeRecord(nodeNumber uint32, dir Direction, currentIP Network, nextIP Network, nextNodeNumber uint32)
	OnEmptyRecord(nodeNumber uint32, dir Direction, currentIP Network, nextIP Network)
	OnDataRecord(nodeNumber uint32, dir Direction, currentIP Network, nextIP Network, value any)
}

// childNetwork extends prefix by one bit in direction dir.
func childNetwork(prefix Network, dir Direction) Network {
	child := prefix
	if dir == DirRight {
		bitIdx := prefix.PrefixLen
		child.Bytes[bitIdx>>3] |= 1 << (7 - uint(bitIdx&7))
	}
	child.PrefixLen++
	return child
}

// IterateRecords finalizes the tree and walks it once, invoking visitor
// for every record position of every reachable node -- 2*NodeCount calls
// in total, each (node number, direction) pair exactly once, even across
// alias edges introduced by AliasIPv4 (the aliased subtree's own record
// positions are only visited the first time that node is reached).
func (t *Tree) IterateRecords(visitor RecordVisitor) {
	t.Finalize()
	seen := newSeenSet(t.arena.count())
	var walk func(id NodeID, prefix Network)
	walk = func(id NodeID, prefix Network) {
		if seen.testAndSet(id) {
			return
		}
		node := t.arena.get(id)
		for _, dir := range [2]Direction{DirLeft, DirRight} {
			rec := node.record(dir == DirRight)
			nextIP := childNetwork(prefix, dir)
			switch rec.Kind {
			case RecordEmpty:
				visitor.OnEmptyRecord(node.Number, dir, prefix, nextIP)
			case RecordData:
				value, _ := t.data.Lookup(rec.Key)
				visitor.OnDataRecord(node.Number, dir, prefix, nextIP, value)
			case RecordNode:
				child := t.arena.get(rec.Node)
				visitor.OnNodeRecord(node.Number, dir, prefix, nextIP, child.Number)
				walk(rec.Node, nextIP)
			}
		}
	}
	walk(t.rootID, Network{})
}
