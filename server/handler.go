// Copyright 2026 yubo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package server

import (
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const indexPage = "/index.html"

// rootFS adjusts the open errors of an os.Root file system for http.FileServer.
// A path running through a regular file is reported as not existing. A refusal
// by os.Root itself, such as a symlink leading out of the tree, carries no
// errno and is reported as a permission error. Any other error is passed on
// and answers 500.
type rootFS struct {
	fs.FS
}

func (r rootFS) Open(name string) (fs.File, error) {
	f, err := r.FS.Open(name)
	if err == nil || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return f, err
	}

	if errors.Is(err, syscall.ENOTDIR) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	klog.Warningf("open %s: %s", name, err)

	var (
		pe    *fs.PathError
		errno syscall.Errno
	)
	if errors.As(err, &pe) && !errors.As(pe.Err, &errno) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return nil, err
}

type fileHandler struct {
	fs   http.FileSystem
	next http.Handler
}

func newFileHandler(fsys fs.FS) *fileHandler {
	hfs := http.FS(fsys)
	return &fileHandler{
		fs:   hfs,
		next: http.FileServer(hfs),
	}
}

func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, fmt.Sprintf("Unsupported method (%q)", r.Method), http.StatusNotImplemented)
		return
	}

	// http.FileServer redirects .../index.html to .../ and file/ to ../file
	switch {
	case strings.HasSuffix(r.URL.Path, indexPage):
		h.serveFile(w, r)
		return
	case r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/") && h.isFile(r.URL.Path):
		writeError(w, fs.ErrNotExist)
		return
	}

	h.next.ServeHTTP(w, r)
}

// serveFile writes the file named by the request path as is, without the
// directory handling of http.FileServer.
func (h *fileHandler) serveFile(w http.ResponseWriter, r *http.Request) {
	f, err := h.fs.Open(path.Clean("/" + r.URL.Path))
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		writeError(w, err)
		return
	}
	if fi.IsDir() {
		h.next.ServeHTTP(w, r)
		return
	}

	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

func (h *fileHandler) isFile(name string) bool {
	f, err := h.fs.Open(path.Clean("/" + name))
	if err != nil {
		return false
	}
	defer f.Close()

	fi, err := f.Stat()
	return err == nil && !fi.IsDir()
}

// writeError answers the way http.FileServer does for the same error.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "404 page not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "403 Forbidden", http.StatusForbidden)
	default:
		klog.Warningf("serve file: %s", err)
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}
