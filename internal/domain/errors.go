package domain

import "errors"

// Error taxonomy. Configuration errors abort startup; load errors are
// logged and skipped; service errors abort the current operation only.
var (
	// ErrMissingAPIKey indicates the embedding/generation API key env var is unset.
	ErrMissingAPIKey = errors.New("api key is not set")

	// ErrMissingDirectory indicates a configured directory does not exist.
	ErrMissingDirectory = errors.New("directory does not exist")

	// ErrUnsupportedFormat indicates a file extension outside .txt/.pdf.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrService wraps failures from an external embedding, vector store,
	// or generation call.
	ErrService = errors.New("external service error")

	// ErrNoDocuments indicates the store or documents directory is empty.
	ErrNoDocuments = errors.New("no documents ingested")
)
