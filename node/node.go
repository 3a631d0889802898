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

// Package node assembles the indexing-node shell: the allowlist gate, the
// subgraph registry and the admin/query HTTP endpoints that consult the gate.
package node

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RelationLab/relation-node/allowlist"
	"github.com/RelationLab/relation-node/registry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	ErrNodeRunning = errors.New("node already running")
	ErrNodeStopped = errors.New("node not started")
)

// Node is the indexing-node protocol stack container.
type Node struct {
	cfg Config
	log log.Logger

	store    *allowlist.Store
	gate     *allowlist.Gate
	watcher  *allowlist.Watcher
	registry *registry.Registry

	rpcServer *rpc.Server
	adminHTTP *httpServer
	queryHTTP *httpServer

	updates   chan *allowlist.Allowlist
	updateSub event.Subscription

	startedAt time.Time

	lock    sync.Mutex
	running bool
	stop    chan struct{}
}

// New creates an indexing-node shell from the given configuration. The
// initial allowlist load happens here and a failure is fatal: the node
// refuses to assemble in an ambiguous access-control state.
func New(conf *Config) (*Node, error) {
	// Copy the config so callers can't mutate it after the fact.
	cfg := *conf
	if cfg.Name == "" {
		cfg.Name = DefaultConfig.Name
	}
	if cfg.NodeID == "" {
		cfg.NodeID = DefaultConfig.NodeID
	}
	if cfg.QueryAddr == "" {
		cfg.QueryAddr = DefaultConfig.QueryAddr
	}
	if cfg.AdminAddr == "" {
		cfg.AdminAddr = DefaultConfig.AdminAddr
	}
	logger := cfg.logger().New("node", cfg.Name)

	n := &Node{
		cfg:      cfg,
		log:      logger,
		registry: registry.New(),
	}
	if err := n.setupAllowlist(); err != nil {
		return nil, err
	}
	if err := n.setupRPC(); err != nil {
		return nil, err
	}
	return n, nil
}

// setupAllowlist performs the initial load and wires the store, gate and, in
// watched file mode, the reload trigger.
func (n *Node) setupAllowlist() error {
	source, configured := n.cfg.allowlistSource()
	if !configured {
		n.log.Warn("No subgraph allowlist configured, node is ungated")
		n.gate = allowlist.NewOpenGate()
		return nil
	}
	list, err := allowlist.Load(source)
	if err != nil {
		return fmt.Errorf("allowlist bootstrap: %w", err)
	}
	n.store = allowlist.NewStore(list)
	n.gate = allowlist.NewGate(n.store)
	n.log.Info("Subgraph allowlist loaded",
		"source", list.Source().Kind, "location", list.Source().Location, "entries", list.Len())

	if n.cfg.AllowlistFile != "" && n.cfg.WatchAllowlist {
		n.watcher = allowlist.NewWatcher(n.cfg.AllowlistFile, n.store, n.log, n.cfg.AllowlistPollInterval)
	}
	return nil
}

func (n *Node) setupRPC() error {
	n.rpcServer = rpc.NewServer()
	if err := n.rpcServer.RegisterName("subgraph", &SubgraphAPI{n}); err != nil {
		return err
	}
	n.adminHTTP = newHTTPServer(n.log, "admin", n.cfg.AdminAddr,
		newCorsHandler(n.rpcServer, n.cfg.CORSOrigins))
	n.queryHTTP = newHTTPServer(n.log, "query", n.cfg.QueryAddr,
		newCorsHandler(&queryHandler{n}, n.cfg.CORSOrigins))
	return nil
}

// Start brings up the reload trigger and the HTTP endpoints.
func (n *Node) Start() error {
	n.lock.Lock()
	defer n.lock.Unlock()

	if n.running {
		return ErrNodeRunning
	}
	if n.watcher != nil {
		if err := n.watcher.Start(); err != nil {
			return err
		}
	}
	if err := n.adminHTTP.start(); err != nil {
		n.stopWatcher()
		return err
	}
	if err := n.queryHTTP.start(); err != nil {
		n.adminHTTP.stop()
		n.stopWatcher()
		return err
	}
	if n.store != nil {
		n.updates = make(chan *allowlist.Allowlist, 8)
		n.updateSub = n.store.SubscribeUpdates(n.updates)
		go n.updateLoop()
	}
	n.running = true
	n.startedAt = time.Now()
	n.stop = make(chan struct{})
	n.log.Info("Node started", "admin", n.adminHTTP.addr(), "query", n.queryHTTP.addr())
	return nil
}

// Stop tears the node down in reverse start order.
func (n *Node) Stop() error {
	n.lock.Lock()
	defer n.lock.Unlock()

	if !n.running {
		return ErrNodeStopped
	}
	if n.updateSub != nil {
		n.updateSub.Unsubscribe()
	}
	n.queryHTTP.stop()
	n.adminHTTP.stop()
	n.rpcServer.Stop()
	n.stopWatcher()

	n.running = false
	close(n.stop)
	n.log.Info("Node stopped", "uptime", common.PrettyDuration(time.Since(n.startedAt)))
	return nil
}

// Wait blocks until the node is stopped.
func (n *Node) Wait() {
	n.lock.Lock()
	if !n.running {
		n.lock.Unlock()
		return
	}
	stop := n.stop
	n.lock.Unlock()

	<-stop
}

func (n *Node) stopWatcher() {
	if n.watcher != nil {
		n.watcher.Stop()
	}
}

// updateLoop surfaces installed snapshots to the operator log.
func (n *Node) updateLoop() {
	for {
		select {
		case list := <-n.updates:
			n.log.Info("Allowlist snapshot installed", "version", list.Version(), "entries", list.Len())
		case <-n.updateSub.Err():
			return
		}
	}
}

// Gate returns the admission gate consulted on every deployment-affecting
// operation. Embedding programs hand it to their own gated code paths.
func (n *Node) Gate() *allowlist.Gate { return n.gate }

// Store returns the allowlist snapshot store, nil when the node is ungated.
func (n *Node) Store() *allowlist.Store { return n.store }

// Registry returns the subgraph registry.
func (n *Node) Registry() *registry.Registry { return n.registry }

// AdminAddr returns the bound admin endpoint address, empty before Start.
func (n *Node) AdminAddr() string { return n.adminHTTP.addr() }

// QueryAddr returns the bound query endpoint address, empty before Start.
func (n *Node) QueryAddr() string { return n.queryHTTP.addr() }
