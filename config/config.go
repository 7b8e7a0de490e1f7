// Copyright 2026 yubo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config builds the server configuration once at startup.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	DefaultPort = 8000
	PortEnv     = "PORT"

	maxPort = 65535
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Config is immutable after New returns.
type Config struct {
	// Root is the absolute directory that files are served from.
	Root string
	// Port is the TCP port to listen on, in [0, 65535].
	Port int
}

// New reads the listen port through lookup. A missing PORT yields
// DefaultPort; an unusable one is logged and also yields DefaultPort.
func New(root string, lookup LookupFunc) *Config {
	cf := &Config{
		Root: root,
		Port: DefaultPort,
	}

	value, ok := lookup(PortEnv)
	if !ok {
		return cf
	}

	port, err := ParsePort(value)
	if err != nil {
		klog.Warningf("ignoring %s=%q: %s, using %d", PortEnv, value, err, DefaultPort)
		return cf
	}
	cf.Port = port
	return cf
}

// ParsePort parses a base 10 port number.
func ParsePort(value string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.Errorf("invalid port %q", value)
	}
	if port < 0 || port > maxPort {
		return 0, errors.Errorf("port %d out of range [0, %d]", port, maxPort)
	}
	return port, nil
}

// ExecutableDir returns the directory holding the running executable,
// with symlinks resolved.
func ExecutableDir() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "unable to compute current executable's path")
	}
	if path, err = filepath.EvalSymlinks(path); err != nil {
		return "", errors.Wrap(err, "unable to resolve current executable's path")
	}
	return filepath.Dir(path), nil
}

// LoadEnvironment returns a lookup over the process environment layered on
// top of the dotenv file at path. The process environment wins. An empty
// path returns os.LookupEnv.
func LoadEnvironment(path string) (LookupFunc, error) {
	if path == "" {
		return os.LookupEnv, nil
	}

	fileEnvironment, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load environment file (%s)", path)
	}

	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := fileEnvironment[key]
		return value, ok
	}, nil
}
