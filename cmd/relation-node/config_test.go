package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/RelationLab/relation-node/node"
)

// runMakeConfig runs the flag pipeline the way the real app does and captures
// the resulting node configuration.
func runMakeConfig(t *testing.T, args ...string) (node.Config, error) {
	t.Helper()
	var (
		got  node.Config
		gerr error
	)
	testApp := &cli.App{
		Name:  "relation-node-test",
		Flags: app.Flags,
		Action: func(ctx *cli.Context) error {
			got, gerr = makeConfig(ctx)
			return nil
		},
	}
	require.NoError(t, testApp.Run(append([]string{"relation-node"}, args...)))
	return got, gerr
}

func TestMakeConfigDefaults(t *testing.T) {
	cfg, err := runMakeConfig(t)
	require.NoError(t, err)

	require.Equal(t, node.DefaultConfig.QueryAddr, cfg.QueryAddr)
	require.Equal(t, node.DefaultConfig.AdminAddr, cfg.AdminAddr)
	require.Empty(t, cfg.AllowlistFile)
	require.False(t, cfg.AllowlistInlineSet)
}

func TestMakeConfigAllowlistEnv(t *testing.T) {
	t.Setenv("SUBGRAPH_ALLOWEDLIST", "0xAAA,0xBBB")

	cfg, err := runMakeConfig(t)
	require.NoError(t, err)
	require.True(t, cfg.AllowlistInlineSet)
	require.Equal(t, "0xAAA,0xBBB", cfg.AllowlistInline)
}

func TestMakeConfigEmptyInlineEnvIsSet(t *testing.T) {
	t.Setenv("SUBGRAPH_ALLOWEDLIST", "")

	cfg, err := runMakeConfig(t)
	require.NoError(t, err)
	require.True(t, cfg.AllowlistInlineSet, "explicitly empty inline list is a deny-all policy, not absent configuration")
	require.Empty(t, cfg.AllowlistInline)
}

func TestMakeConfigFilepathEnv(t *testing.T) {
	t.Setenv("SUBGRAPH_ALLOWLIST_FILEPATH", "/etc/relation/allowlist.json")

	cfg, err := runMakeConfig(t)
	require.NoError(t, err)
	require.Equal(t, "/etc/relation/allowlist.json", cfg.AllowlistFile)
}

func TestMakeConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[Node]\nNodeID = \"from-file\"\nQueryAddr = \"127.0.0.1:9000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := runMakeConfig(t, "--config", path, "--node.id", "from-flag")
	require.NoError(t, err)
	require.Equal(t, "from-flag", cfg.NodeID, "flags beat the config file")
	require.Equal(t, "127.0.0.1:9000", cfg.QueryAddr)
}

func TestLoadConfigFileUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Node]\nBogus = 1\n"), 0644))

	var cfg relationConfig
	err := loadConfigFile(path, &cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Bogus")
}
