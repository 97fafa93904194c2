// Package tileserver serves built ".zan" tiles over HTTP: a directory
// listing and a single-file fetch, mirroring the two-route surface the
// original hex-tile viewer's backend exposed.
package tileserver

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Server serves tiles out of Dir.
type Server struct {
	Dir     string
	Verbose bool
}

// New returns a Server rooted at dir.
func New(dir string) *Server {
	return &Server{Dir: dir}
}

// Handler returns the server's http.Handler: GET /list and GET /get/{file}.
// Routing is done by hand rather than with http.ServeMux, which would
// clean a "/get/../x" path and answer with a redirect before handleGet
// could reject the name.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/list":
			s.handleList(w, r)
		case strings.HasPrefix(r.URL.Path, "/get/"):
			s.handleGet(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		log.Printf("tileserver: listing %s: %v", s.Dir, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zan") {
			continue
		}
		names = append(names, e.Name())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(names); err != nil {
		log.Printf("tileserver: encoding list response: %v", err)
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/get/")

	// A path separator here would let a request escape Dir (e.g.
	// "/get/../../etc/passwd"); reject it outright rather than trying to
	// sanitize it.
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		http.Error(w, "bad tile name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "tile not found", http.StatusNotFound)
			return
		}
		log.Printf("tileserver: reading %s: %v", path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(data); err != nil {
		log.Printf("tileserver: writing response for %s: %v", name, err)
	}
}
