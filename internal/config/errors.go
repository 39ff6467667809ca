package config

import "errors"

// Load and Validate wrap one of these; match them with errors.Is.
var (
	// ErrInvalidConfig marks a value the gateway cannot start with.
	ErrInvalidConfig = errors.New("invalid gateway config")
	// ErrLoadConfig marks an unreadable config file or env source.
	ErrLoadConfig = errors.New("gateway config could not be loaded")
)
