package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kush-Singh-26/devserve/internal/metrics"
	"github.com/Kush-Singh-26/devserve/internal/mimetable"
)

var wantResponseHeaders = map[string][]string{
	"Access-Control-Allow-Origin": {"*"},
	"Cache-Control":               {"no-cache, no-store, must-revalidate"},
	"Pragma":                      {"no-cache"},
	"Expires":                     {"0"},
}

// fixedHeaders picks the injected headers out of h with all their values.
func fixedHeaders(h http.Header) map[string][]string {
	got := make(map[string][]string, len(wantResponseHeaders))
	for name := range wantResponseHeaders {
		if v := h.Values(name); len(v) > 0 {
			got[name] = v
		}
	}
	return got
}

func TestResponseHeadersOnEveryResponse(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		method     string
		target     string
		wantStatus int
	}{
		{method: http.MethodGet, target: "/index.mjs", wantStatus: http.StatusOK},
		{method: http.MethodHead, target: "/app.js", wantStatus: http.StatusOK},
		{method: http.MethodGet, target: "/web/", wantStatus: http.StatusOK},
		{method: http.MethodGet, target: "/listing/", wantStatus: http.StatusOK},
		{method: http.MethodGet, target: "/missing.txt", wantStatus: http.StatusNotFound},
		{method: http.MethodHead, target: "/missing.js", wantStatus: http.StatusNotFound},
		{method: http.MethodGet, target: "/web", wantStatus: http.StatusMovedPermanently},
		{method: http.MethodPost, target: "/index.mjs", wantStatus: http.StatusNotImplemented},
		{method: http.MethodOptions, target: "/", wantStatus: http.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			resp := serve(h, tt.method, tt.target)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if diff := cmp.Diff(wantResponseHeaders, fixedHeaders(resp.Header)); diff != "" {
				t.Errorf("response headers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResponseHeadersOnNotModified(t *testing.T) {
	fs := newTestFs(t)
	info, err := fs.Stat("/app.js")
	if err != nil {
		t.Fatal(err)
	}
	h := WithResponseHeaders(NewHandler(fs, mimetable.New(nil)), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
	req.Header.Set("If-Modified-Since", info.ModTime().UTC().Format(http.TimeFormat))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	resp := rec.Result()
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", resp.StatusCode)
	}
	if diff := cmp.Diff(wantResponseHeaders, fixedHeaders(resp.Header)); diff != "" {
		t.Errorf("response headers mismatch (-want +got):\n%s", diff)
	}
}

func TestResponseHeadersReplaceHandlerValues(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Header().Add("Pragma", "cache")
		_, _ = w.Write([]byte("ok"))
	})

	resp := serve(WithResponseHeaders(inner, nil, nil), http.MethodGet, "/")
	if diff := cmp.Diff(wantResponseHeaders, fixedHeaders(resp.Header)); diff != "" {
		t.Errorf("response headers mismatch (-want +got):\n%s", diff)
	}
}

func TestResponseHeadersWithoutWrite(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	resp := serve(WithResponseHeaders(inner, nil, nil), http.MethodGet, "/")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if diff := cmp.Diff(wantResponseHeaders, fixedHeaders(resp.Header)); diff != "" {
		t.Errorf("response headers mismatch (-want +got):\n%s", diff)
	}
}

func TestResponseHeadersRecordMetrics(t *testing.T) {
	m := metrics.NewServeMetrics()
	h := WithResponseHeaders(NewHandler(newTestFs(t), mimetable.New(nil)), m, nil)

	serve(h, http.MethodGet, "/LICENSE")
	serve(h, http.MethodGet, "/missing.txt")
	serve(h, http.MethodGet, "/web")
	serve(h, http.MethodPost, "/")

	if m.Requests() != 4 {
		t.Errorf("Requests = %d, want 4", m.Requests())
	}
	for digit, want := range map[int]int64{2: 1, 3: 1, 4: 1, 5: 1} {
		if got := m.StatusClass(digit); got != want {
			t.Errorf("StatusClass(%d) = %d, want %d", digit, got, want)
		}
	}
	if m.BytesWritten() < int64(len(testFiles["/LICENSE"])) {
		t.Errorf("BytesWritten = %d, want at least the file size", m.BytesWritten())
	}
}

func TestHeaderWriterFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	hw := &headerWriter{ResponseWriter: rec}

	hw.Flush()

	if !rec.Flushed {
		t.Error("Flush should reach the underlying writer")
	}
	if hw.status != http.StatusOK {
		t.Errorf("status = %d, want 200 after implicit WriteHeader", hw.status)
	}
	if got := rec.Header().Get("Expires"); got != "0" {
		t.Errorf("Expires = %q, want 0", got)
	}
	if hw.Unwrap() != rec {
		t.Error("Unwrap should return the wrapped writer")
	}
}
