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

import "net/netip"

// testParser is a minimal net/netip-backed IPParser, kept local to the
// test package so these tests do not depend on pkg/ipparse.
type testParser struct{}

func (testParser) Parse(text string) (int, []byte, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return 0, nil, err
	}
	if addr.Is4() {
		b := addr.As4()
		return 4, b[:], nil
	}
	b := addr.As16()
	return 6, b[:], nil
}

func mustNetwork(t interface {
	Fatalf(format string, args ...any)
}, version int, text string, prefixLen int) Network {
	n, err := ResolveNetwork(testParser{}, version, text, prefixLen)
	if err != nil {
		t.Fatalf("resolving %s/%d: %v", text, prefixLen, err)
	}
	return n
}
