// Package services provides repository interfaces and SQLite implementations
// for data access. This layer is the ingestion/storage boundary: it owns the
// persisted listing set and hands immutable in-memory snapshots to the query
// pipeline.
package services

import "errors"

// Sentinel errors returned by repositories.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
