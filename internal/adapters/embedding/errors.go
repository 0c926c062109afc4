package embedding

import "errors"

// Sentinel kinds for embedding errors.
var (
	ErrEmbeddingFailed = errors.New("embedding failed")
	ErrEmptyText       = errors.New("empty text")
)
