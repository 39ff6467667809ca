package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNilSearcher = errors.New("api: searcher is required")
	ErrNilMux      = errors.New("api: mux is required")
)
