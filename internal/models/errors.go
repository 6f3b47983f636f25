package models

import "errors"

var (
	// ErrNotFound signals a dataset id that is not in the fitted corpus.
	ErrNotFound = errors.New("not found")
	// ErrNotReady signals a query issued before the vector index was built.
	ErrNotReady = errors.New("index not ready")
	// ErrInvalidArgument signals a malformed request, such as a query with no selector.
	ErrInvalidArgument = errors.New("invalid argument")
)
