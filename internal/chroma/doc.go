package chroma

// Package chroma is a small client for the Chroma HTTP API (v2). It exposes
// exactly what the browser needs: list collections, load a collection's
// documents and metadata, read a collection's item count, delete a collection.
// Failures are reported as typed errors (ConnectionError, NotFoundError,
// RemoteError, ValidationError).
