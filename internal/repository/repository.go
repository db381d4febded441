package repository

import "errors"

// Sentinel errors shared by all stores. Services translate these into the
// client-facing error taxonomy.
var (
	ErrNotFound = errors.New("item not found")
	ErrConflict = errors.New("item already exists")
)
