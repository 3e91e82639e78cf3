package server

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
)

//go:embed uiassets/dist/*
var uiFS embed.FS

var uiDist = sync.OnceValues(func() (fs.FS, error) {
	return fs.Sub(uiFS, "uiassets/dist")
})

func (s *Server) uiAssetHandler() http.Handler {
	dist, err := uiDist()
	if err != nil {
		s.log().Error("ui assets unavailable", "error", err)
		return http.NotFoundHandler()
	}

	fileServer := http.StripPrefix("/ui/", http.FileServerFS(dist))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}

		asset := strings.TrimPrefix(r.URL.Path, "/ui/")
		if isFingerprintAsset(asset) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		fileServer.ServeHTTP(w, r)
	})
}

// handleUIIndex serves the single-page board. Task detail views are client
// routed through the URL fragment.
func (s *Server) handleUIIndex(w http.ResponseWriter, r *http.Request) {
	dist, err := uiDist()
	if err != nil {
		http.NotFound(w, r)
		return
	}

	index, err := fs.ReadFile(dist, "index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(index)
}

func isFingerprintAsset(assetPath string) bool {
	base := path.Base(strings.TrimSpace(assetPath))
	parts := strings.Split(base, ".")
	if len(parts) < 3 {
		return false
	}

	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, ch := range hash {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return false
		}
	}
	return true
}
