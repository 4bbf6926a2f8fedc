package browser

// Package browser holds the browsing state machine: the current server
// connection, its collection list, the loaded chunks and the selected chunk.
// The UI and the CLI drive it; it talks to the server through chroma.Store.
