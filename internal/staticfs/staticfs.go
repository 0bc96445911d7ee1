// Package staticfs serves files from a configured root directory over the
// acceptor's shared listener, implementing spec.md §4.10's path-safety
// contract: no URL, however encoded, may cause a file outside the
// configured root to be served.
package staticfs

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Server resolves URL paths against a root directory.
type Server struct {
	root      string
	indexName string
}

// New constructs a Server rooted at root. indexName defaults to
// "index.html" when empty.
func New(root, indexName string) (*Server, error) {
	if indexName == "" {
		indexName = "index.html"
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("staticfs: resolving root: %w", err)
	}
	canonRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("staticfs: canonicalizing root: %w", err)
	}
	return &Server{root: canonRoot, indexName: indexName}, nil
}

// Status is the outcome of resolving a request: the HTTP status to return
// and, on 200, the file's bytes and content type.
type Status int

const (
	StatusOK Status = iota
	StatusForbidden
	StatusNotFound
	StatusMethodNotAllowed
	StatusInternalError
)

// Resolve implements spec.md §4.10 steps (1)-(6): strip the leading
// slash, default to the index name, join+canonicalize against root,
// reject escapes with Forbidden, read the file, and determine its
// content type from the built-in extension table.
func (s *Server) Resolve(method, urlPath string) (Status, []byte, string) {
	if method != http.MethodGet {
		return StatusMethodNotAllowed, nil, ""
	}

	trimmed := strings.TrimPrefix(urlPath, "/")
	if trimmed == "" {
		trimmed = s.indexName
	}

	// filepath.Join cleans ".." segments, but we canonicalize and verify
	// containment explicitly rather than relying on that alone — the
	// invariant spec.md calls correctness-critical.
	target := filepath.Join(s.root, filepath.FromSlash(trimmed))

	canonTarget, err := filepath.EvalSymlinks(target)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusNotFound, nil, ""
		}
		return StatusInternalError, nil, ""
	}

	rel, err := filepath.Rel(s.root, canonTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return StatusForbidden, nil, ""
	}

	f, err := os.Open(canonTarget)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusNotFound, nil, ""
		}
		return StatusInternalError, nil, ""
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return StatusNotFound, nil, ""
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return StatusInternalError, nil, ""
	}

	return StatusOK, data, contentTypeFor(canonTarget)
}

var extensionTable = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".js":    "application/javascript",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".wasm":  "application/wasm",
	".pdf":   "application/pdf",
	".zip":   "application/zip",
	".txt":   "text/plain",
}

func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := extensionTable[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ServeHTTP adapts Resolve to the standard http.Handler interface for use
// as the acceptor's static-file fallback.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, data, contentType := s.Resolve(r.Method, r.URL.Path)
	switch status {
	case StatusOK:
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case StatusForbidden:
		http.Error(w, "Forbidden", http.StatusForbidden)
	case StatusNotFound:
		http.Error(w, "Not Found", http.StatusNotFound)
	case StatusMethodNotAllowed:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
