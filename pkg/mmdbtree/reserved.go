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

// reservedNetwork names a network the way tree.c's static tables do: text
// plus mask length, resolved lazily through the configured IPParser
// rather than parsed at init time.
type reservedNetwork struct {
	text string
	bits int
}

// reservedIPv4 is the set of special-use IPv4 networks deleted by
// DeleteReservedNetworks, carried verbatim from tree.c's ipv4_reserved
// table (RFC 5735/6890 special-purpose ranges).
var reservedIPv4 = []reservedNetwork{
	{"0.0.0.0", 8},
	{"10.0.0.0", 8},
	{"100.64.0.0", 10},
	{"127.0.0.0", 8},
	{"169.254.0.0", 16},
	{"172.16.0.0", 12},
	{"192.0.0.0", 29},
	{"192.0.2.0", 24},
	{"192.88.99.0", 24},
	{"192.168.0.0", 16},
	{"198.18.0.0", 15},
	{"198.51.100.0", 24},
	{"224.0.0.0", 4},
	{"240.0.0.0", 4},
}

// reservedIPv6 is the set of special-use IPv6 networks deleted by
// DeleteReservedNetworks on a v6 tree, carried verbatim from tree.c's
// ipv6_reserved table.
var reservedIPv6 = []reservedNetwork{
	{"100::", 64},
	{"2001::", 23},
	{"2001:db8::", 32},
	{"fc00::", 7},
	{"fe80::", 10},
	{"ff00::", 8},
}

// ipv4AliasTargets are the v6 prefixes AliasIPv4 wires to the v4 subtree
// root: the IPv4-mapped range and the 6to4 range. tree.c's ipv4_aliases
// table lists the IPv4-mapped entry as /95, but that figure is tied to a
// descent/index convention built around a canonical ::ffff:0:0-rooted
// subtree. This port's canonical root is the unmapped ::0.0.0.0/96 (see
// ipv4RootDepth), so the terminal record here must land one bit later,
// at the node immediately preceding the v4 subtree's first bit (bit 96)
// -- i.e. /96, not /95.
var ipv4AliasTargets = []reservedNetwork{
	{"::ffff:0:0", 96},
	{"2002::", 16},
}

// ipv4RootDepth is how many leading zero bits of a v6 address space
// identify the canonical IPv4 subtree root that AliasIPv4 looks for,
// carried from tree.c's alias_ipv4_networks resolving "::0.0.0.0/96".
const ipv4RootDepth = 96
