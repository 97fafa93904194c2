package tileserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("writing fixture tile: %v", err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeTile(t, dir, "8a1fb46622dffff.zan", []byte("tile-a"))
	writeTile(t, dir, "8a1fb46622effff.zan", []byte("tile-b"))
	writeTile(t, dir, "not-a-tile.txt", []byte("ignore me"))

	srv := New(dir)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var names []string
	if err := json.Unmarshal(rr.Body.Bytes(), &names); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("names = %v, want 2 .zan entries", names)
	}
}

func TestGetExisting(t *testing.T) {
	dir := t.TempDir()
	writeTile(t, dir, "8a1fb46622dffff.zan", []byte("tile-contents"))

	srv := New(dir)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/get/8a1fb46622dffff.zan", nil)
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "tile-contents" {
		t.Fatalf("body = %q, want %q", rr.Body.String(), "tile-contents")
	}
}

func TestGetMissing(t *testing.T) {
	dir := t.TempDir()
	srv := New(dir)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/get/does-not-exist.zan", nil)
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestGetRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	srv := New(dir)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/get/../../etc/passwd", nil)
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest && rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 400 or 404 for a traversal attempt", rr.Code)
	}
}
