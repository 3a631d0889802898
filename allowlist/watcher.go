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
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long the watcher waits after a filesystem event before
// reloading, batching the event bursts editors and atomic-rename writers
// produce.
const debounceDelay = 100 * time.Millisecond

// DefaultPollInterval is the fallback polling cadence used when no interval
// is configured.
const DefaultPollInterval = 30 * time.Second

var errAlreadyWatching = errors.New("allowlist watcher already started")

// Watcher is the reload trigger for file-backed allowlists. It observes the
// configured path with fsnotify, with modtime+size polling as a fallback for
// filesystems that deliver no events, and drives the Loader on every change.
// A successful load is published to the store; a failed load publishes
// nothing, the previous snapshot stays authoritative and the failure is
// logged and counted.
type Watcher struct {
	path     string
	store    *Store
	logger   log.Logger
	interval time.Duration

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}

	lastMod  time.Time
	lastSize int64
}

// NewWatcher creates a reload trigger for the given file-backed allowlist.
// The poll interval may be zero to use DefaultPollInterval.
func NewWatcher(path string, store *Store, logger log.Logger, pollInterval time.Duration) *Watcher {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Watcher{
		path:     path,
		store:    store,
		logger:   logger.New("path", path),
		interval: pollInterval,
	}
}

// Start launches the watch loop.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errAlreadyWatching
	}
	w.running = true
	w.quit = make(chan struct{})
	w.done = make(chan struct{})
	w.fingerprint()
	go w.loop(w.quit, w.done)
	return nil
}

// Stop terminates the watch loop and waits for it to exit. An in-flight load
// is allowed to finish; its result is published only if it succeeded before
// the loop exits. Stop is idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	quit, done := w.quit, w.done
	w.mu.Unlock()

	close(quit)
	<-done
}

func (w *Watcher) loop(quit chan struct{}, done chan struct{}) {
	defer close(done)

	var events chan fsnotify.Event
	var errs chan error

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("Filesystem notifications unavailable, polling only", "err", err)
	} else {
		defer notifier.Close()
		// Watch the directory, not the file: editors and config managers
		// replace the file by rename, which unlinks a file-level watch.
		if err := notifier.Add(filepath.Dir(w.path)); err != nil {
			w.logger.Warn("Failed to watch allowlist directory, polling only", "err", err)
		} else {
			events, errs = notifier.Events, notifier.Errors
		}
	}

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	poll := time.NewTicker(w.interval)
	defer poll.Stop()

	base := filepath.Base(w.path)
	for {
		select {
		case ev := <-events:
			if filepath.Base(ev.Name) != base {
				continue
			}
			debounce.Reset(debounceDelay)

		case err := <-errs:
			w.logger.Warn("Allowlist watch error", "err", err)

		case <-debounce.C:
			w.fingerprint()
			w.reload()

		case <-poll.C:
			if w.fingerprint() {
				w.reload()
			}

		case <-quit:
			return
		}
	}
}

// fingerprint stats the backing file and reports whether its modtime or size
// changed since the last call. A stat failure counts as a change so the next
// reload surfaces the real error.
func (w *Watcher) fingerprint() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		changed := !w.lastMod.IsZero() || w.lastSize != -1
		w.lastMod, w.lastSize = time.Time{}, -1
		return changed
	}
	changed := !info.ModTime().Equal(w.lastMod) || info.Size() != w.lastSize
	w.lastMod, w.lastSize = info.ModTime(), info.Size()
	return changed
}

// reload loads the backing file and publishes the result. On failure the
// store is left untouched; the gate keeps deciding against the previous
// snapshot rather than failing open.
func (w *Watcher) reload() {
	list, err := Load(FileSource{Path: w.path})
	if err != nil {
		reloadFailureMeter.Mark(1)
		w.logger.Warn("Allowlist reload failed, keeping previous snapshot", "err", err)
		return
	}
	w.store.Publish(list)
	reloadSuccessMeter.Mark(1)
	w.logger.Info("Allowlist reloaded", "entries", list.Len(), "version", list.Version())
}
