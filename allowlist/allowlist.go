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

package allowlist

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// SourceKind tells which configuration surface an allowlist was loaded from.
type SourceKind string

const (
	SourceFile   SourceKind = "file"
	SourceInline SourceKind = "inline"
)

// Source is the provenance of a loaded allowlist: the surface it came from
// and where on that surface (a file path, or a description of the inline
// value).
type Source struct {
	Kind     SourceKind
	Location string
}

// Allowlist is an immutable set of normalized entries plus provenance
// metadata. It is constructed once per successful load and never mutated
// afterwards; the entry set is a thread-unsafe mapset that is only ever read
// after construction, so concurrent membership tests need no locking.
type Allowlist struct {
	entries  mapset.Set[Entry]
	source   Source
	loadedAt time.Time
	version  uint64 // assigned by the Store on publish, zero until then
}

func newAllowlist(entries []Entry, source Source) *Allowlist {
	set := mapset.NewThreadUnsafeSet[Entry]()
	for _, e := range entries {
		set.Add(e)
	}
	return &Allowlist{
		entries:  set,
		source:   source,
		loadedAt: time.Now(),
	}
}

// Contains reports whether the normalized entry is a member of the list.
func (l *Allowlist) Contains(e Entry) bool {
	return l.entries.Contains(e)
}

// Len returns the number of distinct normalized entries.
func (l *Allowlist) Len() int {
	return l.entries.Cardinality()
}

// Entries returns the members in sorted order. The slice is freshly
// allocated; callers may keep it.
func (l *Allowlist) Entries() []Entry {
	out := l.entries.ToSlice()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Source returns the provenance of the list.
func (l *Allowlist) Source() Source { return l.source }

// LoadedAt returns the time the list was loaded.
func (l *Allowlist) LoadedAt() time.Time { return l.loadedAt }

// Version returns the snapshot version assigned when the list was published
// to a Store. It is zero for a list that was never published.
func (l *Allowlist) Version() uint64 { return l.version }
