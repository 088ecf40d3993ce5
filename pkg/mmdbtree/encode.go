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

import (
	"encoding/binary"
	"io"
)

// dataSectionSeparatorSize is the 16 null bytes MaxMind DB format requires
// between the end of the search tree and the start of the data section.
// WriteTree does not write the separator itself -- that belongs to the
// outer file writer, out of this package's scope -- but a Data record's
// encoded value must already be offset past it.
const dataSectionSeparatorSize = 16

// recordValueAsNumber computes the integer a single record encodes to:
// zero for Empty, the target node's dense number for Node, or a data
// section pointer for Data -- tree.c's record_value_as_number.
func (t *Tree) recordValueAsNumber(rec Record, serializer Serializer) (uint32, error) {
	switch rec.Kind {
	case RecordEmpty:
		return 0, nil
	case RecordNode:
		return t.arena.get(rec.Node).Number, nil
	default:
		if serializer == nil {
			return 0, &ErrSerializerContract{Reason: "tree has data records but no Serializer was supplied"}
		}
		value, _ := t.data.Lookup(rec.Key)
		offset, err := serializer.StoreData(rec.Key, value)
		if err != nil {
			return 0, err
		}
		return offset + uint32(t.nodeCount) + dataSectionSeparatorSize, nil
	}
}

// encodeRecordPair bit-packs one node's left and right record values into
// the tree's configured record width, appending to buf and returning it.
func encodeRecordPair(buf []byte, size RecordSize, left, right uint32) []byte {
	var lb, rb [4]byte
	binary.BigEndian.PutUint32(lb[:], left)
	binary.BigEndian.PutUint32(rb[:], right)

	switch size {
	case RecordSize24:
		return append(buf, lb[1], lb[2], lb[3], rb[1], rb[2], rb[3])
	case RecordSize28:
		return append(buf, lb[1], lb[2], lb[3], (lb[0]<<4)|(rb[0]&0x0f), rb[1], rb[2], rb[3])
	default: // RecordSize32
		return append(buf, lb[0], lb[1], lb[2], lb[3], rb[0], rb[1], rb[2], rb[3])
	}
}

// WriteTree finalizes the tree and writes its bit-packed search tree to
// w, one record pair per reachable node in the same deterministic order
// Finalize numbered them in. Data records are resolved to a byte offset
// via serializer, which this package never calls except from here --
// encoding the data section itself is out of scope, per spec.
func (t *Tree) WriteTree(w io.Writer, serializer Serializer) error {
	t.Finalize()

	size := t.config.recordSize()
	if uint32(t.nodeCount) > size.maxNodeNumber() {
		return &ErrTreeTooLarge{NodeCount: t.nodeCount, RecordSize: size}
	}

	var werr error
	t.traverse(func(_ NodeID, node *Node) {
		if werr != nil {
			return
		}
		left, err := t.recordValueAsNumber(node.Left, serializer)
		if err != nil {
			werr = err
			return
		}
		right, err := t.recordValueAsNumber(node.Right, serializer)
		if err != nil {
			werr = err
			return
		}
		if _, err := w.Write(encodeRecordPair(nil, size, left, right)); err != nil {
			werr = err
		}
	})
	return werr
}
