package allowlist

import (
	"os"
	"testing"
	"time"

	"github.com/RelationLab/relation-node/internal/testlog"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
)

func newWatchedStore(t *testing.T, content string) (string, *Store, *Watcher) {
	t.Helper()
	path := writeAllowlistFile(t, content)
	list, err := Load(FileSource{Path: path})
	require.NoError(t, err)
	store := NewStore(list)
	watcher := NewWatcher(path, store, testlog.Logger(t, log.LvlInfo), 10*time.Millisecond)
	return path, store, watcher
}

func TestWatcherReloadPublishes(t *testing.T) {
	path, store, watcher := newWatchedStore(t, `{"allowlist":["0xaaa"]}`)

	require.NoError(t, os.WriteFile(path, []byte(`{"allowlist":["0xaaa","0xbbb"]}`), 0644))
	watcher.reload()

	require.Equal(t, 2, store.Current().Len())
	require.True(t, store.Current().Contains("0xbbb"))
	require.Equal(t, uint64(2), store.Current().Version())
}

func TestWatcherReloadMalformedKeepsSnapshot(t *testing.T) {
	path, store, watcher := newWatchedStore(t, `{"allowlist":["0xaaa"]}`)
	prev := store.Current()

	require.NoError(t, os.WriteFile(path, []byte(`{"allowlist":["0xaaa",]}`), 0644))
	watcher.reload()

	require.Same(t, prev, store.Current(), "failed reload must leave the snapshot untouched")
}

func TestWatcherReloadMissingFileKeepsSnapshot(t *testing.T) {
	path, store, watcher := newWatchedStore(t, `{"allowlist":["0xaaa"]}`)
	prev := store.Current()

	require.NoError(t, os.Remove(path))
	watcher.reload()

	require.Same(t, prev, store.Current())
}

func TestWatcherPicksUpRewrite(t *testing.T) {
	path, store, watcher := newWatchedStore(t, `{"allowlist":["0xaaa"]}`)

	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`{"allowlist":["0xaaa","0xbbb","0xccc"]}`), 0644))

	require.Eventually(t, func() bool {
		return store.Current().Contains("0xccc")
	}, 5*time.Second, 10*time.Millisecond, "rewritten allowlist was never installed")
}

func TestWatcherIgnoresMalformedRewrite(t *testing.T) {
	path, store, watcher := newWatchedStore(t, `{"allowlist":["0xaaa"]}`)
	prev := store.Current()

	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`not json at all`), 0644))

	// Give the trigger ample time to react, then check nothing was adopted.
	time.Sleep(500 * time.Millisecond)
	require.Same(t, prev, store.Current())
}

func TestWatcherStartStop(t *testing.T) {
	_, _, watcher := newWatchedStore(t, `{"allowlist":["0xaaa"]}`)

	require.NoError(t, watcher.Start())
	require.ErrorIs(t, watcher.Start(), errAlreadyWatching)

	watcher.Stop()
	watcher.Stop() // idempotent

	require.NoError(t, watcher.Start())
	watcher.Stop()
}
