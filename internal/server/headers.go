package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Kush-Singh-26/devserve/internal/metrics"
)

// responseHeaders are added to every response, in this order.
var responseHeaders = [...][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Cache-Control", "no-cache, no-store, must-revalidate"},
	{"Pragma", "no-cache"},
	{"Expires", "0"},
}

// headerWriter wraps the underlying ResponseWriter to add responseHeaders
// right before the status line goes out.
type headerWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *headerWriter) WriteHeader(code int) {
	if w.wroteHeader {
		// Let net/http report the superfluous call.
		w.ResponseWriter.WriteHeader(code)
		return
	}

	h := w.ResponseWriter.Header()
	for _, kv := range responseHeaders {
		h.Set(kv[0], kv[1])
	}

	// Informational responses are followed by the real one.
	if code >= 200 {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// Flush keeps streaming responses (the reload endpoint) working.
func (w *headerWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the connection.
func (w *headerWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// WithResponseHeaders adds the CORS and no-cache headers to every response
// from next, records it in m and logs it at debug level. m may be nil.
func WithResponseHeaders(next http.Handler, m *metrics.ServeMetrics, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hw := &headerWriter{ResponseWriter: w}

		next.ServeHTTP(hw, r)

		// A handler that writes nothing still gets the headers.
		if !hw.wroteHeader {
			hw.WriteHeader(http.StatusOK)
		}

		if m != nil {
			m.RecordResponse(hw.status, hw.bytes)
		}
		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", hw.status,
			"bytes", hw.bytes,
			"duration", time.Since(start),
		)
	})
}
