// MIT License
//
// Copyright (c) 2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package api

import (
	"time"

	"github.com/valyala/fasthttp"

	"github.com/tochemey/silo/log"
)

// ServerConfig carries the fasthttp server settings.
type ServerConfig struct {
	Name         string
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server wraps the fasthttp server serving the REST boundary.
type Server struct {
	server  *fasthttp.Server
	logger  log.Logger
	address string
}

// NewServer creates a Server for the given handler.
func NewServer(config ServerConfig, handler fasthttp.RequestHandler, logger log.Logger) *Server {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Server{
		server: &fasthttp.Server{
			Handler:      handler,
			Name:         config.Name,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger:  logger,
		address: config.Address,
	}
}

// ListenAndServe serves until Shutdown is called. It blocks.
func (s *Server) ListenAndServe() error {
	s.logger.Infof("http server listening on %s", s.address)
	return s.server.ListenAndServe(s.address)
}

// Shutdown gracefully shuts the server down, waiting for in-flight requests
// to finish.
func (s *Server) Shutdown() error {
	s.logger.Info("http server shutting down...")
	return s.server.Shutdown()
}
