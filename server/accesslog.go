// Copyright 2026 yubo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package server

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

// statusWriter records what was sent to the client.
type statusWriter struct {
	http.ResponseWriter
	status int
	size   uint64
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += uint64(n)
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		klog.Infof("%s - - \"%s %s %s\" %d %s",
			r.RemoteAddr, r.Method, r.RequestURI, r.Proto, sw.status, humanize.Bytes(sw.size))
	})
}
