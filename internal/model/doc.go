package model

// Package model defines the domain data used across the browser: the server
// connection, collection references, loaded chunks and the connection state
// enum. Values are plain structs so the UI can render them directly.
