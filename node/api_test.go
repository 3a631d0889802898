package node

import (
	"testing"

	"github.com/RelationLab/relation-node/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIDeployGated(t *testing.T) {
	idx := new(recordingIndexer)
	n := newTestNode(t, func(cfg *Config) { cfg.Indexer = idx })
	api := &SubgraphAPI{n}

	sg, err := api.Deploy("books", "0xAAA")
	require.NoError(t, err)
	assert.EqualValues(t, "0xaaa", sg.Deployment, "deployment is recorded normalized")
	assert.Equal(t, registry.StatusDeployed, sg.Status)
	assert.Equal(t, "default", sg.Node)
	require.Len(t, idx.started, 1)
	assert.EqualValues(t, "0xaaa", idx.started[0])

	_, err = api.Deploy("evil", "0xCCC")
	require.ErrorIs(t, err, ErrNotAllowed)
	assert.Equal(t, 1, n.Registry().Len(), "denied deploy must not be recorded")
	assert.Len(t, idx.started, 1, "denied deploy must not reach the indexer")
}

func TestAPIDeployMalformedIdentifier(t *testing.T) {
	n := newTestNode(t, nil)
	api := &SubgraphAPI{n}

	_, err := api.Deploy("books", "   ")
	require.ErrorIs(t, err, ErrNotAllowed)
}

func TestAPICreateRemove(t *testing.T) {
	idx := new(recordingIndexer)
	n := newTestNode(t, func(cfg *Config) { cfg.Indexer = idx })
	api := &SubgraphAPI{n}

	_, err := api.Create("books")
	require.NoError(t, err)
	_, err = api.Create("books")
	require.ErrorIs(t, err, registry.ErrNameTaken)

	_, err = api.Deploy("books", "qmfirst")
	require.NoError(t, err)

	require.NoError(t, api.Remove("books"))
	require.Len(t, idx.stopped, 1)
	assert.EqualValues(t, "qmfirst", idx.stopped[0])

	require.ErrorIs(t, api.Remove("books"), registry.ErrNameUnknown)
}

func TestAPIReassignGated(t *testing.T) {
	n := newTestNode(t, nil)
	api := &SubgraphAPI{n}

	_, err := api.Deploy("books", "0xAAA")
	require.NoError(t, err)

	affected, err := api.Reassign("0xaaa", "index-node-2")
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	sg, err := n.Registry().Get("books")
	require.NoError(t, err)
	assert.Equal(t, "index-node-2", sg.Node)

	// Reassigning a non-allowlisted deployment is refused even if it were
	// somehow present.
	_, err = api.Reassign("0xCCC", "index-node-2")
	require.ErrorIs(t, err, ErrNotAllowed)
}

func TestAPICheck(t *testing.T) {
	n := newTestNode(t, nil)
	api := &SubgraphAPI{n}

	dec := api.Check("0xAAA")
	assert.True(t, dec.Permitted)
	assert.EqualValues(t, "0xaaa", dec.Identifier)
	assert.Equal(t, n.Store().Current().Version(), dec.Version)

	assert.False(t, api.Check("0xCCC").Permitted)
}

func TestAPIAllowlistStatus(t *testing.T) {
	n := newTestNode(t, nil)
	api := &SubgraphAPI{n}

	status := api.Allowlist()
	assert.True(t, status.Gated)
	assert.Equal(t, 3, status.Entries)
	assert.Equal(t, "inline", status.Source)
	assert.False(t, status.LoadedAt.IsZero())
}

func TestAPIUngatedNode(t *testing.T) {
	n := newTestNode(t, func(cfg *Config) {
		cfg.AllowlistInline = ""
		cfg.AllowlistInlineSet = false
	})
	api := &SubgraphAPI{n}

	_, err := api.Deploy("anything", "qmwhatever")
	require.NoError(t, err)

	status := api.Allowlist()
	assert.False(t, status.Gated)
}

func TestAPIEmptyInlineDeniesAll(t *testing.T) {
	n := newTestNode(t, func(cfg *Config) {
		cfg.AllowlistInline = ""
		cfg.AllowlistInlineSet = true
	})
	api := &SubgraphAPI{n}

	_, err := api.Deploy("books", "0xAAA")
	require.ErrorIs(t, err, ErrNotAllowed)
}
