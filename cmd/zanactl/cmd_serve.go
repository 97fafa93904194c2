package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/hyvakartta/zana/internal/tileserver"
)

func runServe(args []string) error {
	fs := newFlagSet("serve")
	dir := fs.String("dir", "tiles", "directory of .zan tiles to serve")
	addr := fs.String("addr", ":8080", "listen address")
	fs.Parse(args)

	srv := tileserver.New(*dir)
	log.Printf("serving %s on %s", *dir, *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
