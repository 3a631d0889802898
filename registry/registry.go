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

// Package registry tracks the subgraphs the node knows about: named entries,
// the deployment each name currently points at, and the index node assigned
// to it. The registry is plain bookkeeping; admission policy lives in the
// allowlist gate and is enforced by the callers mutating the registry.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RelationLab/relation-node/allowlist"
)

var (
	ErrNameTaken    = errors.New("subgraph name already exists")
	ErrNameUnknown  = errors.New("subgraph name not found")
	ErrNotDeployed  = errors.New("deployment not found")
	ErrEmptyName    = errors.New("subgraph name is empty")
	ErrNoDeployment = errors.New("deployment identifier is empty")
)

// Status is the lifecycle state of a named subgraph.
type Status string

const (
	StatusCreated  Status = "created"  // name reserved, nothing deployed yet
	StatusDeployed Status = "deployed" // a deployment is assigned and indexable
)

// Subgraph is one named entry in the registry. Deployment is stored in
// normalized form so registry lookups and gate checks agree on identity.
type Subgraph struct {
	Name       string          `json:"name"`
	Deployment allowlist.Entry `json:"deployment,omitempty"`
	Node       string          `json:"node,omitempty"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Registry is an in-memory subgraph registry, safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Subgraph
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*Subgraph)}
}

// Create reserves a subgraph name without assigning a deployment.
func (r *Registry) Create(name string) (*Subgraph, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	now := time.Now()
	sg := &Subgraph{
		Name:      name,
		Status:    StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byName[name] = sg
	return r.copyOf(sg), nil
}

// Deploy assigns a deployment to a name, creating the name if needed. The
// node argument names the index node that will sync the deployment.
func (r *Registry) Deploy(name string, deployment allowlist.Entry, node string) (*Subgraph, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if deployment == "" {
		return nil, ErrNoDeployment
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	sg, ok := r.byName[name]
	if !ok {
		sg = &Subgraph{Name: name, CreatedAt: now}
		r.byName[name] = sg
	}
	sg.Deployment = deployment
	sg.Node = node
	sg.Status = StatusDeployed
	sg.UpdatedAt = now
	return r.copyOf(sg), nil
}

// Remove deletes a named subgraph.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNameUnknown, name)
	}
	delete(r.byName, name)
	return nil
}

// Reassign moves every subgraph currently pointing at the deployment to a
// different index node. It returns the number of affected subgraphs.
func (r *Registry) Reassign(deployment allowlist.Entry, node string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := 0
	for _, sg := range r.byName {
		if sg.Deployment == deployment {
			sg.Node = node
			sg.UpdatedAt = time.Now()
			affected++
		}
	}
	if affected == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotDeployed, deployment)
	}
	return affected, nil
}

// Get returns the named subgraph.
func (r *Registry) Get(name string) (*Subgraph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sg, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNameUnknown, name)
	}
	return r.copyOf(sg), nil
}

// ByDeployment returns any subgraph assigned the given deployment.
func (r *Registry) ByDeployment(deployment allowlist.Entry) (*Subgraph, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sg := range r.byName {
		if sg.Deployment == deployment {
			return r.copyOf(sg), true
		}
	}
	return nil, false
}

// List returns all subgraphs sorted by name.
func (r *Registry) List() []*Subgraph {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Subgraph, 0, len(r.byName))
	for _, sg := range r.byName {
		out = append(out, r.copyOf(sg))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered subgraphs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// copyOf returns a snapshot of the entry so callers never share the mutable
// struct guarded by the registry lock.
func (r *Registry) copyOf(sg *Subgraph) *Subgraph {
	cp := *sg
	return &cp
}
