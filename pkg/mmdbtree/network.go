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

// Network is a parsed CIDR block in the tree's own bit space. A v4 network
// in a v4 tree occupies the first 4 bytes of Bytes, PrefixLen in [0,32]. A
// v6 tree always uses the full 16 bytes, PrefixLen in [0,128] -- including
// v4 addresses auto-mapped into v6 space by ResolveNetwork.
type Network struct {
	Bytes     [16]byte
	PrefixLen int
}

// bitAt reports the value of bit i (0 = most significant bit of Bytes[0]).
func bitAt(bytes [16]byte, i int) bool {
	return bytes[i>>3]&(1<<(7-uint(i&7))) != 0
}

// BitAt reports the value of the i-th bit of the network's address, most
// significant bit first.
func (n Network) BitAt(i int) bool {
	return bitAt(n.Bytes, i)
}

// PrefixParent returns the network one bit shorter than n, i.e. the prefix
// that covers both of n's potential sibling halves. It panics if called on
// a /0 network.
func (n Network) PrefixParent() Network {
	if n.PrefixLen == 0 {
		panic("mmdbtree: PrefixParent of a /0 network")
	}
	parent := n
	parent.PrefixLen--
	parent.mask()
	return parent
}

// mask zeroes every bit beyond PrefixLen, giving a canonical byte
// representation for equality comparisons and as map/log keys.
func (n *Network) mask() {
	for i := n.PrefixLen; i < 128; i++ {
		if bitAt(n.Bytes, i) {
			n.Bytes[i>>3] &^= 1 << (7 - uint(i&7))
		}
	}
}

// Contains reports whether other falls entirely within n, i.e. every bit
// of n's prefix matches the corresponding bit of other, and other is at
// least as specific.
func (n Network) Contains(other Network) bool {
	if other.PrefixLen < n.PrefixLen {
		return false
	}
	for i := 0; i < n.PrefixLen; i++ {
		if bitAt(n.Bytes, i) != bitAt(other.Bytes, i) {
			return false
		}
	}
	return true
}

// IPParser resolves external text (an IP address, optionally with a
// "/prefix" suffix already stripped by the caller) into a raw address.
// Version is 4 or 6; Bytes is 4 bytes for version 4, 16 bytes for
// version 6. Implementations live outside this package -- see
// github.com/netobserv/mmdbtree/pkg/ipparse for the net/netip-backed
// default.
type IPParser interface {
	Parse(text string) (version int, bytes []byte, err error)
}

// ResolveNetwork parses text/prefixLen into a Network in treeVersion's bit
// space, auto-mapping an IPv4 literal into IPv4-mapped IPv6 form
// (::ffff:0:0/96 + prefixLen) when treeVersion is 6. A v6 literal cannot be
// inserted into a v4 tree.
func ResolveNetwork(parser IPParser, treeVersion int, text string, prefixLen int) (Network, error) {
	version, raw, err := parser.Parse(text)
	if err != nil {
		return Network{}, &ErrParse{Input: text, Cause: err}
	}

	switch {
	case version == 4 && treeVersion == 4:
		if prefixLen < 0 || prefixLen > 32 {
			return Network{}, &ErrParse{Input: text, Cause: errInvalidPrefixLen(prefixLen, 32)}
		}
		var n Network
		copy(n.Bytes[0:4], raw)
		n.PrefixLen = prefixLen
		n.mask()
		return n, nil

	case version == 4 && treeVersion == 6:
		if prefixLen < 0 || prefixLen > 32 {
			return Network{}, &ErrParse{Input: text, Cause: errInvalidPrefixLen(prefixLen, 32)}
		}
		var n Network
		n.Bytes[10] = 0xff
		n.Bytes[11] = 0xff
		copy(n.Bytes[12:16], raw)
		n.PrefixLen = 96 + prefixLen
		n.mask()
		return n, nil

	case version == 6 && treeVersion == 6:
		if prefixLen < 0 || prefixLen > 128 {
			return Network{}, &ErrParse{Input: text, Cause: errInvalidPrefixLen(prefixLen, 128)}
		}
		var n Network
		copy(n.Bytes[0:16], raw)
		n.PrefixLen = prefixLen
		n.mask()
		return n, nil

	default: // version == 6 && treeVersion == 4
		return Network{}, &ErrVersionMismatch{TreeVersion: treeVersion, NetworkVersion: version}
	}
}

type invalidPrefixLenError struct {
	got, max int
}

func (e invalidPrefixLenError) Error() string {
	return "mmdbtree: invalid prefix length"
}

func errInvalidPrefixLen(got, max int) error {
	return invalidPrefixLenError{got: got, max: max}
}
