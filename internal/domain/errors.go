package domain

import "errors"

var (
	// ErrIndexNotFound indicates the persisted index artifacts are missing
	// or unusable. This is the expected cold-start state, handled by
	// building a fresh index from the knowledge base.
	ErrIndexNotFound = errors.New("index not found")
	// ErrNoDocuments indicates ingestion found no usable knowledge base
	// files.
	ErrNoDocuments = errors.New("no knowledge base documents found")
	// ErrInvalidRequest indicates a malformed inbound request.
	ErrInvalidRequest = errors.New("invalid request")
)
