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
	"errors"
	"fmt"
	"time"

	"github.com/RelationLab/relation-node/allowlist"
	"github.com/RelationLab/relation-node/registry"
)

// ErrNotAllowed is returned for operations on deployments the allowlist gate
// denies.
var ErrNotAllowed = errors.New("deployment not permitted by allowlist")

// SubgraphAPI is the admin JSON-RPC service exposed under the "subgraph"
// namespace. Every operation that makes the node accept, index or serve a
// deployment consults the gate first.
type SubgraphAPI struct {
	n *Node
}

// Create reserves a subgraph name.
func (api *SubgraphAPI) Create(name string) (*registry.Subgraph, error) {
	sg, err := api.n.registry.Create(name)
	if err != nil {
		return nil, err
	}
	api.n.log.Info("Subgraph created", "name", name)
	return sg, nil
}

// Deploy assigns a deployment to a subgraph name and starts indexing it. The
// deployment identifier is checked against the allowlist; a denied or
// unparsable identifier is rejected before anything is recorded.
func (api *SubgraphAPI) Deploy(name, deployment string) (*registry.Subgraph, error) {
	dec := api.n.gate.Check(deployment)
	if !dec.Permitted {
		api.n.log.Warn("Subgraph deploy denied", "name", name, "deployment", deployment, "snapshot", dec.Version)
		return nil, fmt.Errorf("%w: %s", ErrNotAllowed, deployment)
	}
	sg, err := api.n.registry.Deploy(name, dec.Identifier, api.n.cfg.NodeID)
	if err != nil {
		return nil, err
	}
	if idx := api.n.cfg.Indexer; idx != nil {
		if err := idx.StartSubgraph(sg.Deployment, sg.Node); err != nil {
			return nil, fmt.Errorf("indexer start: %w", err)
		}
	}
	api.n.log.Info("Subgraph deployed", "name", name, "deployment", sg.Deployment, "node", sg.Node)
	return sg, nil
}

// Remove deletes a subgraph name and stops indexing its deployment.
func (api *SubgraphAPI) Remove(name string) error {
	sg, err := api.n.registry.Get(name)
	if err != nil {
		return err
	}
	if err := api.n.registry.Remove(name); err != nil {
		return err
	}
	if idx := api.n.cfg.Indexer; idx != nil && sg.Status == registry.StatusDeployed {
		if err := idx.StopSubgraph(sg.Deployment); err != nil {
			api.n.log.Warn("Indexer stop failed", "deployment", sg.Deployment, "err", err)
		}
	}
	api.n.log.Info("Subgraph removed", "name", name)
	return nil
}

// Reassign moves a deployment to a different index node. The deployment must
// still be permitted: reassignment restarts indexing.
func (api *SubgraphAPI) Reassign(deployment, nodeID string) (int, error) {
	dec := api.n.gate.Check(deployment)
	if !dec.Permitted {
		return 0, fmt.Errorf("%w: %s", ErrNotAllowed, deployment)
	}
	affected, err := api.n.registry.Reassign(dec.Identifier, nodeID)
	if err != nil {
		return 0, err
	}
	api.n.log.Info("Subgraph reassigned", "deployment", dec.Identifier, "node", nodeID, "affected", affected)
	return affected, nil
}

// List returns all registered subgraphs.
func (api *SubgraphAPI) List() []*registry.Subgraph {
	return api.n.registry.List()
}

// Check runs an admission check without side effects, for operator
// introspection of the active policy.
func (api *SubgraphAPI) Check(identifier string) allowlist.Decision {
	return api.n.gate.Check(identifier)
}

// AllowlistStatus describes the active snapshot.
type AllowlistStatus struct {
	Gated    bool      `json:"gated"`
	Version  uint64    `json:"version,omitempty"`
	Entries  int       `json:"entries,omitempty"`
	Source   string    `json:"source,omitempty"`
	Location string    `json:"location,omitempty"`
	LoadedAt time.Time `json:"loadedAt,omitempty"`
}

// Allowlist reports the provenance and size of the active snapshot.
func (api *SubgraphAPI) Allowlist() AllowlistStatus {
	if api.n.store == nil {
		return AllowlistStatus{Gated: false}
	}
	list := api.n.store.Current()
	return AllowlistStatus{
		Gated:    true,
		Version:  list.Version(),
		Entries:  list.Len(),
		Source:   string(list.Source().Kind),
		Location: list.Source().Location,
		LoadedAt: list.LoadedAt(),
	}
}
