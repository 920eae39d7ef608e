package httpx

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
)

const gzipMinSize = 1400

var gzipWriterPool = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

// Compression gzips responses for clients that accept it. Small responses
// stay uncompressed; bodies are buffered up to gzipMinSize before the
// decision is made.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsGzip(r) {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.Close()
		next.ServeHTTP(gw, r)
	})
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

// gzipResponseWriter buffers the start of the body so tiny responses skip
// compression entirely.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	buf         []byte
	status      int
	wroteHeader bool
	decided     bool
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
}

func (w *gzipResponseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.decided {
		if w.gz != nil {
			return w.gz.Write(p)
		}
		return w.ResponseWriter.Write(p)
	}

	w.buf = append(w.buf, p...)
	if len(w.buf) >= gzipMinSize {
		if err := w.startGzip(); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (w *gzipResponseWriter) startGzip() error {
	w.decided = true
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Add("Vary", "Accept-Encoding")
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(w.status)

	gz := gzipWriterPool.Get().(*gzip.Writer)
	gz.Reset(w.ResponseWriter)
	w.gz = gz

	if len(w.buf) > 0 {
		if _, err := gz.Write(w.buf); err != nil {
			return err
		}
		w.buf = nil
	}
	return nil
}

// flushPlain sends the buffered body uncompressed.
func (w *gzipResponseWriter) flushPlain() error {
	w.decided = true
	w.ResponseWriter.WriteHeader(w.status)
	if len(w.buf) > 0 {
		if _, err := w.ResponseWriter.Write(w.buf); err != nil {
			return err
		}
		w.buf = nil
	}
	return nil
}

// Close finishes the response, choosing plain output when the body never
// reached the compression threshold.
func (w *gzipResponseWriter) Close() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.decided {
		_ = w.flushPlain()
		return
	}
	if w.gz != nil {
		_ = w.gz.Close()
		gzipWriterPool.Put(w.gz)
		w.gz = nil
	}
}

// Flush supports streaming handlers behind the middleware.
func (w *gzipResponseWriter) Flush() {
	if !w.decided {
		if !w.wroteHeader {
			w.WriteHeader(http.StatusOK)
		}
		_ = w.flushPlain()
	}
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack passes through for websocket-style upgrades.
func (w *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, fmt.Errorf("response writer does not support hijacking")
}
