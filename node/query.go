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
	"encoding/json"
	"net/http"
	"strings"

	"github.com/RelationLab/relation-node/allowlist"
	"github.com/RelationLab/relation-node/registry"
)

// queryHandler serves the subgraph query endpoint. Requests address a
// deployment directly (/subgraphs/id/<deployment>) or through a registered
// name (/subgraphs/name/<name>). The resolved deployment is checked against
// the gate before the request reaches the query engine.
type queryHandler struct {
	n *Node
}

func (h *queryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeQueryError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	deployment, ok := h.resolve(w, r)
	if !ok {
		return
	}
	dec := h.n.gate.Check(string(deployment))
	if !dec.Permitted {
		h.n.log.Debug("Query denied", "deployment", deployment, "snapshot", dec.Version)
		writeQueryError(w, http.StatusForbidden, "subgraph deployment is not on the allowlist")
		return
	}
	qh := h.n.cfg.QueryHandler
	if qh == nil {
		writeQueryError(w, http.StatusServiceUnavailable, "no query engine attached")
		return
	}
	qh.ServeSubgraphQuery(w, r, dec.Identifier)
}

// resolve extracts the target deployment from the request path, answering the
// request itself when resolution fails.
func (h *queryHandler) resolve(w http.ResponseWriter, r *http.Request) (allowlist.Entry, bool) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case strings.HasPrefix(path, "subgraphs/id/"):
		id := strings.TrimPrefix(path, "subgraphs/id/")
		if id == "" {
			writeQueryError(w, http.StatusNotFound, "missing deployment identifier")
			return "", false
		}
		entry, err := allowlist.Normalize(id)
		if err != nil {
			writeQueryError(w, http.StatusNotFound, "malformed deployment identifier")
			return "", false
		}
		return entry, true

	case strings.HasPrefix(path, "subgraphs/name/"):
		name := strings.TrimPrefix(path, "subgraphs/name/")
		sg, err := h.n.registry.Get(name)
		if err != nil || sg.Status != registry.StatusDeployed {
			writeQueryError(w, http.StatusNotFound, "subgraph not found")
			return "", false
		}
		return sg.Deployment, true

	default:
		writeQueryError(w, http.StatusNotFound, "not found")
		return "", false
	}
}

type queryError struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func writeQueryError(w http.ResponseWriter, status int, msg string) {
	var body queryError
	body.Errors = append(body.Errors, struct {
		Message string `json:"message"`
	}{msg})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
