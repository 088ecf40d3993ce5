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

// Package mmdbtree implements an in-memory binary trie mapping IP
// networks to opaque data values, in the shape a MaxMind-DB-style search
// tree needs before it is bit-packed and written out. The package is a
// single-owner library: no logging, no concurrency, no file I/O. Callers
// supply an IPParser, and optionally a Merger and a Serializer.
package mmdbtree

// Tree is the mutable search tree. Zero value is not usable; build one
// with New.
type Tree struct {
	config Config
	arena  *arena
	data   *DataTable
	rootID NodeID

	finalized bool
	nodeCount int
}

// New creates an empty Tree. cfg.Parser must be non-nil.
func New(cfg Config) *Tree {
	a := newArena(cfg.ArenaChunkSize)
	root := a.newNode()
	return &Tree{
		config: cfg,
		arena:  a,
		data:   NewDataTable(nil),
		rootID: root,
	}
}

// descend walks depth bits from the root, following Node records and
// allocating (or splitting Data records into two children, duplicating
// the value the way tree.c's make_next_node does) when allocate is true.
// It returns the node reached after consuming exactly depth bits.
func (t *Tree) descend(network Network, depth int, allocate bool) (NodeID, bool) {
	cur := t.rootID
	for d := 0; d < depth; d++ {
		node := t.arena.get(cur)
		bit := network.BitAt(d)
		rec := node.record(bit)
		switch rec.Kind {
		case RecordNode:
			cur = rec.Node
		case RecordEmpty:
			if !allocate {
				return 0, false
			}
			newID := t.arena.newNode()
			node.setRecord(bit, nodeRecord(newID))
			cur = newID
		case RecordData:
			if !allocate {
				return 0, false
			}
			newID := t.arena.newNode()
			child := t.arena.get(newID)
			child.Left = rec
			child.Right = rec
			t.data.Retain(rec.Key)
			node.setRecord(bit, nodeRecord(newID))
			cur = newID
		}
	}
	return cur, true
}

// hasNode reports whether network's exact position in the tree currently
// holds a non-empty record, without allocating -- tree.c's
// tree_has_network, used to short-circuit deletes of networks that were
// never present.
func (t *Tree) hasNode(network Network) bool {
	if network.PrefixLen == 0 {
		root := t.arena.get(t.rootID)
		return root.Left.Kind != RecordEmpty || root.Right.Kind != RecordEmpty
	}
	nodeID, ok := t.descend(network, network.PrefixLen-1, false)
	if !ok {
		return false
	}
	bit := network.BitAt(network.PrefixLen - 1)
	return t.arena.get(nodeID).record(bit).Kind != RecordEmpty
}

// insertRec sets the record for network's final bit to newRecord,
// recursively coalescing the parent record upward whenever both of a
// node's children end up as identical Data records -- tree.c's
// insert_record_for_network.
func (t *Tree) insertRec(network Network, depth int, newRecord Record) {
	parentID, _ := t.descend(network, depth-1, true)
	parent := t.arena.get(parentID)
	bit := network.BitAt(depth - 1)
	old := parent.record(bit)

	// Same-key reinsertion skips the refcount churn, but must still fall
	// through to the coalescence check below: descend can have just split
	// a coalesced Data ancestor into two fresh children carrying that same
	// key (both copied from the ancestor it replaced), in which case this
	// node is already eligible to coalesce right back. Returning early
	// here, as tree.c's insert_record_for_network never does, would leave
	// that freshly split node reachable with identical Data on both
	// sides.
	sameValue := old.Kind == RecordData && newRecord.Kind == RecordData && old.Key == newRecord.Key
	if !sameValue {
		if old.Kind == RecordData {
			t.data.Release(old.Key)
		}
		if newRecord.Kind == RecordData {
			t.data.Retain(newRecord.Key)
		}
		parent.setRecord(bit, newRecord)
	}

	if newRecord.Kind != RecordData || depth-1 == 0 {
		return
	}
	sibling := parent.record(!bit)
	if !sibling.sameValue(newRecord) {
		return
	}

	// Both halves of this node are now the same Data value: bubble the
	// value up to the parent's own record and abandon this node. The
	// recursive call below retains newRecord.Key at the grandparent
	// before these two leaf references are released, so the key's
	// refcount never passes through zero while it is still reachable --
	// releasing first would let it hit zero and evict the value out from
	// under the coalesced record that is about to replace these leaves.
	coalesced := network
	coalesced.PrefixLen = depth - 1
	coalesced.mask()
	t.insertRec(coalesced, depth-1, dataRecord(newRecord.Key))
	t.data.Release(newRecord.Key)
	t.data.Release(sibling.Key)
}

// InsertNetwork maps network to value, interned under key. A later insert
// of a network that overlaps an existing one overrides it outright unless
// the tree is configured with MergeOnCollision and a Merger, in which case
// the Merger's result replaces both. The Merger is consulted only when
// network's own position holds a Data record (directly, or by splitting a
// broader Data record above it); when that position holds a node for
// narrower networks, the insert replaces that whole subtree without
// calling the Merger. InsertNetwork clears the finalized state, so
// NodeCount panics until Finalize is called again.
func (t *Tree) InsertNetwork(network Network, key DataKey, value any) error {
	t.finalized = false

	if network.PrefixLen == 0 {
		return t.insertWholeTree(key, value)
	}

	t.data.Intern(key, value)
	finalKey := key

	if t.config.MergeOnCollision && t.config.Merger != nil {
		parentID, _ := t.descend(network, network.PrefixLen-1, true)
		bit := network.BitAt(network.PrefixLen - 1)
		existing := t.arena.get(parentID).record(bit)
		if existing.Kind == RecordData && existing.Key != key {
			existingValue, _ := t.data.Lookup(existing.Key)
			mergedKey, mergedValue, err := t.config.Merger.Merge(existing.Key, existingValue, key, value)
			if err != nil {
				return err
			}
			t.data.Intern(mergedKey, mergedValue)
			finalKey = mergedKey
		}
	}

	t.insertRec(network, network.PrefixLen, dataRecord(finalKey))
	return nil
}

func (t *Tree) insertWholeTree(key DataKey, value any) error {
	t.data.Intern(key, value)
	root := t.arena.get(t.rootID)
	for _, old := range [2]Record{root.Left, root.Right} {
		if old.Kind == RecordData {
			t.data.Release(old.Key)
		}
	}
	root.Left, root.Right = dataRecord(key), dataRecord(key)
	t.data.Retain(key)
	t.data.Retain(key)
	return nil
}

// DeleteNetwork removes whatever value is mapped at network's exact
// position, if any. Deleting a network that was never inserted (or that
// only falls within a broader network's value) is a no-op.
func (t *Tree) DeleteNetwork(network Network) error {
	t.finalized = false

	if network.PrefixLen == 0 {
		root := t.arena.get(t.rootID)
		for _, old := range [2]Record{root.Left, root.Right} {
			if old.Kind == RecordData {
				t.data.Release(old.Key)
			}
		}
		root.Left, root.Right = emptyRecord(), emptyRecord()
		return nil
	}

	if !t.hasNode(network) {
		return nil
	}
	nodeID, _ := t.descend(network, network.PrefixLen-1, false)
	node := t.arena.get(nodeID)
	bit := network.BitAt(network.PrefixLen - 1)
	old := node.record(bit)
	if old.Kind == RecordData {
		t.data.Release(old.Key)
	}
	node.setRecord(bit, emptyRecord())
	return nil
}

// LookupIP returns the DataKey mapped to addr's most specific matching
// network, following the same record it would be encoded with. It returns
// the key the value is interned under, not the value itself.
func (t *Tree) LookupIP(addr Network) (DataKey, bool, error) {
	maxDepth := t.config.maxDepth()
	cur := t.rootID
	for d := 0; d < maxDepth; d++ {
		node := t.arena.get(cur)
		rec := node.record(addr.BitAt(d))
		switch rec.Kind {
		case RecordData:
			return rec.Key, true, nil
		case RecordEmpty:
			return "", false, nil
		case RecordNode:
			if d == maxDepth-1 {
				return "", false, &ErrUnexpectedNode{Depth: d}
			}
			cur = rec.Node
		}
	}
	return "", false, nil
}

// AliasIPv4 wires the IPv4-mapped (::ffff:0:0/96) and 6to4 (2002::/16)
// address ranges to share node identity with the canonical IPv4 subtree
// (the networks inserted under the plain, unmapped ::<v4-bits>/96 form).
// It is a no-op on a v4 tree, and a no-op if nothing was ever inserted at
// the canonical location.
//
// The canonical root is read as a record, not required to be a node: if
// every IPv4 network ever inserted collapsed (by coalescence, or because
// only a single ::0.0.0.0/96 was ever inserted) into one Data record
// sitting directly at that position, aliasing copies that Data record
// into each alias target instead of needing a child node to point at.
func (t *Tree) AliasIPv4() error {
	t.finalized = false

	if t.config.IPVersion != 6 {
		return nil
	}

	var zeroRoot Network
	zeroRoot.PrefixLen = ipv4RootDepth
	parentID, ok := t.descend(zeroRoot, ipv4RootDepth-1, false)
	if !ok {
		return nil
	}
	canonical := t.arena.get(parentID).record(zeroRoot.BitAt(ipv4RootDepth - 1))
	if canonical.Kind == RecordEmpty {
		return nil
	}

	for _, alias := range ipv4AliasTargets {
		aliasNet, err := ResolveNetwork(t.config.Parser, 6, alias.text, alias.bits)
		if err != nil {
			return err
		}
		parentID, _ := t.descend(aliasNet, aliasNet.PrefixLen-1, true)
		parent := t.arena.get(parentID)
		bit := aliasNet.BitAt(aliasNet.PrefixLen - 1)
		if old := parent.record(bit); old.Kind == RecordData {
			t.data.Release(old.Key)
		}
		if canonical.Kind == RecordData {
			t.data.Retain(canonical.Key)
		}
		parent.setRecord(bit, canonical)
	}
	return nil
}

// DeleteReservedNetworks removes the special-use networks (RFC 5735/6890
// for IPv4, plus their IPv6 counterparts) that a public database should
// not resolve. On a v6 tree both the IPv4 table (auto-mapped, +96) and
// the IPv6 table are deleted, matching tree.c's delete_reserved_networks.
func (t *Tree) DeleteReservedNetworks() error {
	t.finalized = false

	for _, rn := range reservedIPv4 {
		net, err := ResolveNetwork(t.config.Parser, t.config.IPVersion, rn.text, rn.bits)
		if err != nil {
			return err
		}
		if err := t.DeleteNetwork(net); err != nil {
			return err
		}
	}
	if t.config.IPVersion != 6 {
		return nil
	}
	for _, rn := range reservedIPv6 {
		net, err := ResolveNetwork(t.config.Parser, 6, rn.text, rn.bits)
		if err != nil {
			return err
		}
		if err := t.DeleteNetwork(net); err != nil {
			return err
		}
	}
	return nil
}

// NodeCount returns the number of distinct reachable nodes, as assigned
// by the last Finalize. It panics if the tree has not been finalized since
// its last mutation.
func (t *Tree) NodeCount() int {
	if !t.finalized {
		panic("mmdbtree: NodeCount called before Finalize")
	}
	return t.nodeCount
}

// Close releases every Data reference still held by the tree's records.
// The tree must not be used afterward.
func (t *Tree) Close() {
	seen := newSeenSet(t.arena.count())
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if seen.testAndSet(id) {
			return
		}
		node := t.arena.get(id)
		for _, rec := range [2]Record{node.Left, node.Right} {
			switch rec.Kind {
			case RecordData:
				t.data.Release(rec.Key)
			case RecordNode:
				walk(rec.Node)
			}
		}
	}
	walk(t.rootID)
}
