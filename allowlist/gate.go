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
	"time"

	"github.com/ethereum/go-ethereum/common/lru"
)

// normCacheSize bounds the raw-identifier normalization cache. Normalization
// is pure, so cached results never go stale.
const normCacheSize = 4096

// Decision is the outcome of one admission check: whether the identifier is
// permitted, its normalized form (empty when normalization failed), and the
// version and load time of the snapshot the decision was computed against.
// Callers keep it for audit logging; the gate never mutates a returned value.
type Decision struct {
	Identifier Entry
	Permitted  bool
	Version    uint64
	LoadedAt   time.Time
}

// Gate answers admission queries against the store's current snapshot. Check
// is called from arbitrary request-handling goroutines on every gated code
// path (subgraph deploy, indexing start, query serving) and never performs
// I/O: it reads the in-memory store only.
type Gate struct {
	store *Store
	open  bool
	norm  *lru.Cache[string, normResult]
}

type normResult struct {
	entry Entry
	ok    bool
}

// NewGate creates a gate backed by the given store.
func NewGate(store *Store) *Gate {
	return &Gate{
		store: store,
		norm:  lru.NewCache[string, normResult](normCacheSize),
	}
}

// NewOpenGate creates a gate that permits every identifier. It is used when
// no allowlist surface is configured at all, which leaves the node ungated.
// Note the asymmetry: a configured-but-empty allowlist denies everything.
func NewOpenGate() *Gate {
	return &Gate{open: true}
}

// Check decides whether the identifier is admitted by the current snapshot.
// An identifier that fails normalization is denied; an unparsable value is
// never granted access. For a fixed snapshot the decision is a pure function
// of the identifier.
func (g *Gate) Check(identifier string) Decision {
	if g.open {
		permitMeter.Mark(1)
		entry, err := Normalize(identifier)
		if err != nil {
			entry = ""
		}
		return Decision{Identifier: entry, Permitted: true}
	}
	list := g.store.Current()
	entry, ok := g.normalize(identifier)
	decision := Decision{
		Identifier: entry,
		Permitted:  ok && list.Contains(entry),
		Version:    list.Version(),
		LoadedAt:   list.LoadedAt(),
	}
	if decision.Permitted {
		permitMeter.Mark(1)
	} else {
		denyMeter.Mark(1)
	}
	return decision
}

// Permitted is shorthand for Check(identifier).Permitted.
func (g *Gate) Permitted(identifier string) bool {
	return g.Check(identifier).Permitted
}

// Open reports whether the gate permits everything because no allowlist was
// configured.
func (g *Gate) Open() bool { return g.open }

func (g *Gate) normalize(identifier string) (Entry, bool) {
	if res, ok := g.norm.Get(identifier); ok {
		return res.entry, res.ok
	}
	entry, err := Normalize(identifier)
	res := normResult{entry: entry, ok: err == nil}
	g.norm.Add(identifier, res)
	return res.entry, res.ok
}
