package model

import (
	"encoding/json"
	"fmt"
)

// MetadataIndent is the indentation used when rendering metadata
const MetadataIndent = "  "

// Chunk is one document and its metadata inside a loaded collection
type Chunk struct {
	ID       string
	Content  string
	Metadata map[string]any // never nil
}

// MetadataJSON returns the chunk metadata as indented JSON
func (c Chunk) MetadataJSON() string {
	return FormatMetadata(c.Metadata)
}

// ChunkSet is the ordered, immutable content of one loaded collection.
// Every chunk pairs exactly one document with exactly one metadata map.
type ChunkSet struct {
	collection CollectionRef
	chunks     []Chunk
}

// NewChunkSet pairs documents with metadata in server order. Metadata missing
// for a document becomes an empty map and surplus metadata is dropped, so the
// result never has mismatched lengths. ids may be shorter than documents.
func NewChunkSet(ref CollectionRef, ids, documents []string, metadatas []map[string]any) ChunkSet {
	chunks := make([]Chunk, len(documents))
	for i, doc := range documents {
		meta := map[string]any{}
		if i < len(metadatas) && metadatas[i] != nil {
			meta = metadatas[i]
		}
		id := ""
		if i < len(ids) {
			id = ids[i]
		}
		chunks[i] = Chunk{ID: id, Content: doc, Metadata: meta}
	}

	return ChunkSet{collection: ref, chunks: chunks}
}

// Collection returns the collection the chunks belong to
func (cs ChunkSet) Collection() CollectionRef {
	return cs.collection
}

// Len returns the number of chunks
func (cs ChunkSet) Len() int {
	return len(cs.chunks)
}

// IsEmpty reports whether no chunk is loaded
func (cs ChunkSet) IsEmpty() bool {
	return len(cs.chunks) == 0
}

// InRange reports whether index addresses a chunk
func (cs ChunkSet) InRange(index int) bool {
	return index >= 0 && index < len(cs.chunks)
}

// At returns the chunk at index, or false when out of range
func (cs ChunkSet) At(index int) (Chunk, bool) {
	if !cs.InRange(index) {
		return Chunk{}, false
	}
	return cs.chunks[index], true
}

// Contents returns the document contents in order
func (cs ChunkSet) Contents() []string {
	out := make([]string, len(cs.chunks))
	for i, c := range cs.chunks {
		out[i] = c.Content
	}
	return out
}

// Metadatas returns the metadata maps in order
func (cs ChunkSet) Metadatas() []map[string]any {
	out := make([]map[string]any, len(cs.chunks))
	for i, c := range cs.chunks {
		out[i] = c.Metadata
	}
	return out
}

// Label returns the display label of the chunk at index ("Chunk 1" for index 0)
func (cs ChunkSet) Label(index int) string {
	return fmt.Sprintf("Chunk %d", index+1)
}

// FormatMetadata renders metadata as JSON indented with two spaces.
// A nil or empty map renders as "{}".
func FormatMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return "{}"
	}

	data, err := json.MarshalIndent(meta, "", MetadataIndent)
	if err != nil {
		// only reachable for values that did not come from JSON
		return fmt.Sprintf("%v", meta)
	}
	return string(data)
}
