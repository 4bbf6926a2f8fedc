package chroma

import (
	"context"

	"github.com/ytget/chroma-browser/internal/model"
)

// Store defines the remote operations the browser performs against a server.
type Store interface {
	ListCollections(ctx context.Context) ([]string, error)
	GetCollectionData(ctx context.Context, name string) (*CollectionData, error)
	GetCollectionInfo(ctx context.Context, name string) (model.CollectionInfo, error)
	DeleteCollection(ctx context.Context, name string) error
}

// Dialer opens a Store for a connection, performing the handshake.
type Dialer func(ctx context.Context, conn model.Connection) (Store, error)

// CollectionData is the full content of a collection in server order.
// Documents and Metadatas are parallel; see model.NewChunkSet for pairing.
type CollectionData struct {
	IDs       []string
	Documents []string
	Metadatas []map[string]any
}
