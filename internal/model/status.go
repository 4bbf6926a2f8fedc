package model

// ConnectionState represents where the browser is in its lifecycle
type ConnectionState string

const (
	// StateDisconnected means no server connection is held
	StateDisconnected ConnectionState = "Disconnected"

	// StateConnected means the collection list was fetched but no collection is loaded
	StateConnected ConnectionState = "Connected"

	// StateChunkLoaded means one collection's chunks are loaded
	StateChunkLoaded ConnectionState = "ChunkLoaded"
)

// String returns the string representation of ConnectionState
func (cs ConnectionState) String() string {
	return string(cs)
}

// IsConnected returns true if a server connection is held
func (cs ConnectionState) IsConnected() bool {
	return cs == StateConnected || cs == StateChunkLoaded
}

// HasChunks returns true if a collection's chunks are loaded
func (cs ConnectionState) HasChunks() bool {
	return cs == StateChunkLoaded
}
