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

package node

import (
	"net/http"
	"time"

	"github.com/RelationLab/relation-node/allowlist"
	"github.com/ethereum/go-ethereum/log"
)

// QueryHandler executes subgraph queries. It is an external collaborator: the
// node only routes a request to it after the allowlist gate has permitted the
// resolved deployment.
type QueryHandler interface {
	ServeSubgraphQuery(w http.ResponseWriter, r *http.Request, deployment allowlist.Entry)
}

// Indexer syncs subgraph deployments from chain state. It is an external
// collaborator: the node invokes it only for deployments the gate permits.
type Indexer interface {
	StartSubgraph(deployment allowlist.Entry, node string) error
	StopSubgraph(deployment allowlist.Entry) error
}

// Config holds the configuration of the indexing node shell.
type Config struct {
	// Name is the instance name used in logs.
	Name string `toml:"-"`

	// NodeID is the index node identity deployments are assigned to.
	NodeID string

	// AllowlistFile is the path of a JSON allowlist file. When set it takes
	// precedence over AllowlistInline.
	AllowlistFile string `toml:",omitempty"`

	// AllowlistInline is a comma-separated allowlist. AllowlistInlineSet
	// distinguishes an explicitly configured empty value (deny everything)
	// from no configuration at all (gate disabled).
	AllowlistInline    string `toml:",omitempty"`
	AllowlistInlineSet bool   `toml:",omitempty"`

	// WatchAllowlist enables the reload trigger in file-backed mode.
	WatchAllowlist bool

	// AllowlistPollInterval is the polling fallback cadence of the reload
	// trigger. Zero selects the default.
	AllowlistPollInterval time.Duration `toml:",omitempty"`

	// QueryAddr is the listen address of the subgraph query endpoint.
	QueryAddr string

	// AdminAddr is the listen address of the subgraph admin JSON-RPC endpoint.
	AdminAddr string

	// CORSOrigins is the set of origins accepted on the HTTP endpoints.
	CORSOrigins []string `toml:",omitempty"`

	// Logger is a custom logger. Defaults to log.Root().
	Logger log.Logger `toml:"-"`

	// QueryHandler and Indexer attach the external query engine and indexing
	// engine. Either may be nil.
	QueryHandler QueryHandler `toml:"-"`
	Indexer      Indexer      `toml:"-"`
}

// DefaultConfig contains reasonable default settings.
var DefaultConfig = Config{
	Name:           "relation-node",
	NodeID:         "default",
	WatchAllowlist: true,
	QueryAddr:      "localhost:8000",
	AdminAddr:      "localhost:8020",
}

func (c *Config) logger() log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Root()
}

// allowlistSource resolves the two configuration surfaces into a loader
// config. The second return is false when neither surface is configured. When
// both are set, the file wins and the shadowed inline value is reported so
// the operator can see it is ignored.
func (c *Config) allowlistSource() (allowlist.LoaderConfig, bool) {
	if c.AllowlistFile != "" {
		if c.AllowlistInlineSet {
			c.logger().Warn("Both allowlist surfaces configured, file takes precedence", "file", c.AllowlistFile)
		}
		return allowlist.FileSource{Path: c.AllowlistFile}, true
	}
	if c.AllowlistInlineSet {
		return allowlist.InlineSource{List: c.AllowlistInline}, true
	}
	return nil, false
}
