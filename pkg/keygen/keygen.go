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

// Package keygen provides DataKey derivation strategies for
// pkg/mmdbtree. Two networks whose values hash to the same key
// automatically share a single data-table entry and coalesce, which is
// desirable for repeated country/ASN-sized payloads; Random avoids that
// when every insert should stay distinct regardless of value equality.
package keygen

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/netobserv/mmdbtree/pkg/mmdbtree"
)

// ContentHash derives a key from the xxhash64 digest of serialized, the
// byte encoding of whatever value is being inserted (e.g. its CBOR form).
// Identical serialized values always produce the same key.
func ContentHash(serialized []byte) mmdbtree.DataKey {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxhash.Sum64(serialized))
	return mmdbtree.DataKey(hex.EncodeToString(buf[:]))
}

// Random derives a fresh, collision-free key unrelated to the value's
// content, so that equal values inserted separately never coalesce.
func Random() mmdbtree.DataKey {
	return mmdbtree.DataKey(uuid.New().String())
}
