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
	"context"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/cors"
)

const shutdownTimeout = 5 * time.Second

// httpServer wraps a net/http server serving one node endpoint.
type httpServer struct {
	log      log.Logger
	name     string
	endpoint string
	handler  http.Handler

	listener net.Listener
	server   *http.Server
}

func newHTTPServer(logger log.Logger, name, endpoint string, handler http.Handler) *httpServer {
	return &httpServer{
		log:      logger,
		name:     name,
		endpoint: endpoint,
		handler:  handler,
	}
}

// start opens the listener and begins serving requests.
func (h *httpServer) start() error {
	listener, err := net.Listen("tcp", h.endpoint)
	if err != nil {
		return err
	}
	h.listener = listener
	h.server = &http.Server{Handler: h.handler}
	go h.server.Serve(listener)

	h.log.Info("HTTP endpoint opened", "endpoint", h.name, "url", "http://"+listener.Addr().String())
	return nil
}

// stop shuts the server down, giving in-flight requests a grace period.
func (h *httpServer) stop() {
	if h.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	h.server.Shutdown(ctx)
	h.log.Info("HTTP endpoint closed", "endpoint", h.name, "url", "http://"+h.listener.Addr().String())
}

// addr returns the bound listen address, empty before start.
func (h *httpServer) addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	// disable CORS support if user has not specified a custom CORS configuration
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}
