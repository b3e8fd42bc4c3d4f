package server

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/devserve/internal/mimetable"
)

const indexPage = "/index.html"

// Handler serves files from a filesystem with content types taken from a
// mimetable.Table. Everything else is left to http.FileServer.
type Handler struct {
	fs    afero.Fs
	files http.Handler
	types *mimetable.Table
}

// NewHandler creates a file handler over fsys. Paths are resolved from the
// root of fsys, so fsys is normally a BasePathFs.
func NewHandler(fsys afero.Fs, types *mimetable.Table) *Handler {
	return &Handler{
		fs:    fsys,
		files: http.FileServer(afero.NewHttpFs(fsys)),
		types: types,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, fmt.Sprintf("Unsupported method ('%s')", r.Method), http.StatusNotImplemented)
		return
	}

	if name, ok := h.servedFile(r.URL.Path); ok {
		// http.FileServer keeps a Content-Type that is already set.
		w.Header().Set("Content-Type", h.types.TypeForPath(name))
	}

	h.files.ServeHTTP(w, r)
}

// servedFile reports which file http.FileServer will send for urlPath.
// It returns false when the response will be a redirect, a directory
// listing or an error, which keep the file server's own content type.
func (h *Handler) servedFile(urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	// FileServer redirects .../index.html to .../
	if strings.HasSuffix(urlPath, indexPage) {
		return "", false
	}

	name := normalizeRequestPath(urlPath)
	info, err := h.fs.Stat(name)
	if err != nil {
		return "", false
	}

	trailingSlash := strings.HasSuffix(urlPath, "/")
	if !info.IsDir() {
		if trailingSlash {
			return "", false
		}
		return name, true
	}

	if !trailingSlash {
		return "", false
	}
	index := path.Join(name, indexPage)
	if indexInfo, err := h.fs.Stat(index); err == nil && !indexInfo.IsDir() {
		return index, true
	}
	return "", false
}
