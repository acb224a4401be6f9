package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrStore          = errors.New("character store failed")
	ErrNotInitialized = errors.New("character store not initialized")
)
