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

// Package ipparse is the default github.com/netobserv/mmdbtree/pkg/mmdbtree.IPParser,
// backed by net/netip rather than a libc resolver -- tree.c leans on
// getaddrinfo for this, which this module has no use for outside a C ABI.
package ipparse

import "net/netip"

// Parser resolves address literals with net/netip.
type Parser struct{}

// New returns a ready-to-use Parser.
func New() *Parser {
	return &Parser{}
}

// Parse implements mmdbtree.IPParser.
func (Parser) Parse(text string) (version int, bytes []byte, err error) {
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
