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
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/event"
)

// Store is the process-wide holder of the active allowlist snapshot. The
// snapshot pointer is swapped atomically, so any number of concurrent readers
// observe either the previous complete list or the new complete list, never a
// mixture. The publish path is the only writer.
type Store struct {
	current atomic.Pointer[Allowlist]

	pubMu sync.Mutex // serializes Publish, keeping versions monotonic
	seq   uint64

	feed event.FeedOf[*Allowlist]
}

// NewStore creates a store and publishes the given list as version 1.
func NewStore(initial *Allowlist) *Store {
	s := new(Store)
	s.Publish(initial)
	return s
}

// Current returns the latest published snapshot. It never blocks and never
// returns nil once the store is constructed.
func (s *Store) Current() *Allowlist {
	return s.current.Load()
}

// Publish atomically replaces the active snapshot, assigns the next version
// and notifies subscribers. A Current call issued after Publish returns
// observes this snapshot or a strictly newer one.
func (s *Store) Publish(l *Allowlist) {
	s.pubMu.Lock()
	s.seq++
	l.version = s.seq
	s.current.Store(l)
	s.pubMu.Unlock()

	entriesGauge.Update(int64(l.Len()))
	versionGauge.Update(int64(l.version))
	s.feed.Send(l)
}

// SubscribeUpdates sends every newly published snapshot on the given channel
// until the subscription is cancelled.
func (s *Store) SubscribeUpdates(ch chan<- *Allowlist) event.Subscription {
	return s.feed.Subscribe(ch)
}
