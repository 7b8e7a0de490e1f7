// Copyright 2026 yubo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server serves a directory tree over HTTP.
package server

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/yubo/staticserver/config"
)

type Server struct {
	config *config.Config
	root   *os.Root
	server *http.Server

	// Stdout receives the startup line.
	Stdout io.Writer
}

// New opens cf.Root. Files are looked up relative to it for the lifetime
// of the server.
func New(cf *config.Config) (*Server, error) {
	root, err := os.OpenRoot(cf.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open root directory %s", cf.Root)
	}

	s := &Server{
		config: cf,
		root:   root,
		Stdout: os.Stdout,
	}
	s.server = &http.Server{
		Handler:  s.Handler(),
		ErrorLog: klog.NewStandardLogger("WARNING"),
	}

	klog.V(2).Infof("serving %s", cf.Root)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return withAccessLog(newFileHandler(rootFS{s.root.FS()}))
}

func (s *Server) Addr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(s.config.Port))
}

func (s *Server) Listen() (net.Listener, error) {
	addr := s.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to listen on %s", addr)
	}
	klog.V(2).Infof("listening on %s", ln.Addr())
	return ln, nil
}

// Serve accepts connections on ln until it fails. It does not return in
// normal operation.
func (s *Server) Serve(ln net.Listener) error {
	port := s.config.Port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	fmt.Fprintf(s.Stdout, "Server running on http://localhost:%d\n", port)

	return errors.Wrap(s.server.Serve(ln), "unable to serve")
}

func (s *Server) ListenAndServe() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Close stops the listener and releases the root directory.
func (s *Server) Close() error {
	err := s.server.Close()
	if rerr := s.root.Close(); err == nil {
		err = rerr
	}
	return err
}
