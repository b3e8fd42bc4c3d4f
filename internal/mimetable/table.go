// Package mimetable maps file extensions to the Content-Type the server sends.
package mimetable

import (
	"path"
	"sort"
)

// Fallback is sent for extensions the table does not know.
const Fallback = "application/octet-stream"

// JavaScript is the content type forced for ES modules and classic scripts.
const JavaScript = "application/javascript"

// overrides are applied last so browsers always accept module scripts.
var overrides = map[string]string{
	".mjs": JavaScript,
	".js":  JavaScript,
}

// defaults is the built-in table the overrides are merged over.
var defaults = map[string]string{
	// Documents
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".txt":   "text/plain",
	".md":    "text/markdown",
	".csv":   "text/csv",
	".xml":   "text/xml",
	".json":  "application/json",
	".map":   "application/json",
	".pdf":   "application/pdf",
	".ftl":   "text/plain",
	".xhtml": "application/xhtml+xml",

	// Binaries
	".wasm": "application/wasm",

	// Images
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/vnd.microsoft.icon",
	".webp": "image/webp",
	".avif": "image/avif",
	".bmp":  "image/bmp",

	// Fonts
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",

	// Media
	".mp3":  "audio/mpeg",
	".wav":  "audio/x-wav",
	".ogg":  "audio/ogg",
	".mp4":  "video/mp4",
	".webm": "video/webm",

	// Archives
	".zip": "application/zip",
	".tar": "application/x-tar",
	".gz":  "application/gzip",
	".Z":   "application/octet-stream",
	".bz2": "application/x-bzip2",
	".xz":  "application/x-xz",
}

// Table is an immutable extension -> content type mapping.
// It is safe for concurrent use.
type Table struct {
	types map[string]string
}

// New builds a table from the built-in defaults, then extra, then the
// JavaScript overrides. extra may be nil.
func New(extra map[string]string) *Table {
	types := make(map[string]string, len(defaults)+len(extra)+len(overrides))
	for ext, ctype := range defaults {
		types[ext] = ctype
	}
	for ext, ctype := range extra {
		types[ext] = ctype
	}
	for ext, ctype := range overrides {
		types[ext] = ctype
	}
	return &Table{types: types}
}

// Lookup returns the content type registered for ext (".mjs").
// The match is case-sensitive.
func (t *Table) Lookup(ext string) (string, bool) {
	ctype, ok := t.types[ext]
	return ctype, ok
}

// TypeByExtension is Lookup with the Fallback for unknown extensions.
func (t *Table) TypeByExtension(ext string) string {
	if ctype, ok := t.types[ext]; ok {
		return ctype
	}
	return Fallback
}

// TypeForPath resolves the content type of a slash-separated path using the
// extension of its final segment.
func (t *Table) TypeForPath(p string) string {
	return t.TypeByExtension(path.Ext(p))
}

// Len returns the number of registered extensions.
func (t *Table) Len() int {
	return len(t.types)
}

// Extensions returns the registered extensions in sorted order.
func (t *Table) Extensions() []string {
	exts := make([]string, 0, len(t.types))
	for ext := range t.types {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
