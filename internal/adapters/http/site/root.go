// Package site serves the embedded flight search page.
package site

import (
	"context"
	"net/http"
)

// Register serves the search page and its assets at the root path. More
// specific routes registered on the same mux take precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", http.FileServer(FS()))
}
