// Copyright 2026 The relation-node Authors
// This file is part of the relation-node library.
//
// The relation-node library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The relation-node library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the relation-node library. If not, see <http://www.gnu.org/licenses/>.

// Package allowlist implements the node-wide subgraph admission policy: a set
// of contract addresses and deployment identifiers the node is willing to
// deploy, index and serve. The active set is loaded from a JSON file or an
// inline list, held as an immutable snapshot and consulted through a Gate on
// every deployment-affecting code path.
package allowlist

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by entry normalization and allowlist loading. Loader errors
// wrap these sentinels; match with errors.Is.
var (
	ErrMalformedEntry    = errors.New("malformed allowlist entry")
	ErrMalformedSource   = errors.New("malformed allowlist source")
	ErrSourceUnavailable = errors.New("allowlist source unavailable")
)

// Entry is an allowlist identifier in normalized form: a lower-cased
// 0x-prefixed hex address, or a lower-cased opaque deployment identifier.
// Entries are only ever compared in this form, so case and prefix variants of
// the same address are equal.
type Entry string

func (e Entry) String() string { return string(e) }

// Normalize canonicalizes a raw allowlist entry. Surrounding whitespace is
// trimmed. Values shaped like a hex address (optional 0x prefix, hex digits)
// become lower-case with a single 0x prefix; anything else is treated as an
// opaque identifier and lower-cased. An entry that is empty after trimming is
// rejected with ErrMalformedEntry.
func Normalize(raw string) (Entry, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty after trimming %q", ErrMalformedEntry, raw)
	}
	if body, ok := hexBody(s); ok {
		return Entry("0x" + strings.ToLower(body)), nil
	}
	return Entry(strings.ToLower(s)), nil
}

// hexBody strips an optional 0x/0X prefix and reports whether the remainder
// is a non-empty run of hex digits.
func hexBody(s string) (string, bool) {
	body := s
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		body = s[2:]
	}
	if len(body) == 0 {
		return "", false
	}
	for _, c := range []byte(body) {
		if !isHexCharacter(c) {
			return "", false
		}
	}
	return body, true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
