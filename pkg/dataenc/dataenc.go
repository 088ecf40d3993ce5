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

// Package dataenc is a demo mmdbtree.Serializer: it appends each distinct
// data value to a byte buffer as CBOR and returns its offset, the way the
// MaxMind DB format's own data section stores values. Building and
// writing the real data section (type tags, pointer records, the section
// separator) is outside pkg/mmdbtree's scope; this package is a minimal
// collaborator a caller of WriteTree can pass in, not that writer.
package dataenc

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/netobserv/mmdbtree/pkg/mmdbtree"
)

// Encoder accumulates CBOR-encoded values and hands out their offsets.
// It satisfies mmdbtree.Serializer.
type Encoder struct {
	buf     []byte
	offsets map[mmdbtree.DataKey]uint32
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{offsets: make(map[mmdbtree.DataKey]uint32)}
}

// StoreData implements mmdbtree.Serializer. Repeated calls for the same
// key (a value reachable through more than one alias) return the offset
// already recorded for it rather than writing it twice.
func (e *Encoder) StoreData(key mmdbtree.DataKey, value any) (uint32, error) {
	if offset, ok := e.offsets[key]; ok {
		return offset, nil
	}
	encoded, err := cbor.Marshal(value)
	if err != nil {
		return 0, err
	}
	offset := uint32(len(e.buf))
	e.buf = append(e.buf, encoded...)
	e.offsets[key] = offset
	return offset, nil
}

// Bytes returns the accumulated data section payload, in insertion order.
func (e *Encoder) Bytes() []byte {
	return e.buf
}
