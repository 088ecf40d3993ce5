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

// DataTable interns opaque values under a DataKey and keeps a logical
// reference count of how many live Data records point at each key. It is
// the Go analogue of tree.c's data_hash plus its SvREFCNT_inc/dec pairing
// around Perl SVs: here the counting is explicit rather than tied to a
// host runtime's GC.
type DataTable struct {
	values   map[DataKey]any
	refcount map[DataKey]int
	onEvict  func(DataKey, any)
}

// NewDataTable creates an empty table. onEvict, if non-nil, is called
// exactly once when a key's reference count drops to zero and the value
// is removed; it may be nil if the caller has nothing to free.
func NewDataTable(onEvict func(DataKey, any)) *DataTable {
	return &DataTable{
		values:   make(map[DataKey]any),
		refcount: make(map[DataKey]int),
		onEvict:  onEvict,
	}
}

// Intern stores value under key if it is not already present. It is
// idempotent: re-interning an existing key leaves its reference count
// untouched and does not overwrite the stored value.
func (t *DataTable) Intern(key DataKey, value any) {
	if _, ok := t.values[key]; ok {
		return
	}
	t.values[key] = value
}

// Lookup returns the value stored under key, if any.
func (t *DataTable) Lookup(key DataKey) (any, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Retain increments key's reference count. It must be called exactly
// once for every live Record{Kind: RecordData} that comes to reference
// key -- see insertRec and the coalescence/alias paths in
// tree.go for the call sites.
func (t *DataTable) Retain(key DataKey) {
	t.refcount[key]++
}

// Release decrements key's reference count and evicts the value (and
// invokes onEvict) once the count reaches zero.
func (t *DataTable) Release(key DataKey) {
	t.refcount[key]--
	if t.refcount[key] > 0 {
		return
	}
	v, ok := t.values[key]
	delete(t.refcount, key)
	delete(t.values, key)
	if ok && t.onEvict != nil {
		t.onEvict(key, v)
	}
}

// Len returns the number of distinct keys currently interned.
func (t *DataTable) Len() int {
	return len(t.values)
}
