// Package site serves the embedded character browser page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the browser page and its assets at the root of mux.
// More specific routes registered elsewhere on mux take precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", http.FileServer(FS()))
}
