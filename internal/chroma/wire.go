package chroma

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Chroma include fields
const (
	IncludeDocuments = "documents"
	IncludeMetadatas = "metadatas"
)

type heartbeatResponse struct {
	Nanos int64 `json:"nanosecond heartbeat"`
}

type collectionResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Metadata json.RawMessage `json:"metadata"`
}

type getRequest struct {
	Include []string `json:"include"`
	Limit   int      `json:"limit,omitempty"`
	Offset  int      `json:"offset,omitempty"`
}

type getResponse struct {
	IDs       []string          `json:"ids"`
	Documents []json.RawMessage `json:"documents"`
	Metadatas []json.RawMessage `json:"metadatas"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// normalizeDocument turns a stored document into a bare string. Chroma stores
// documents as strings, but a document may come back wrapped in a
// single-element array, or as null when the record has no document.
func normalizeDocument(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode document: %w", err)
		}
		return s, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return "", fmt.Errorf("decode document list: %w", err)
		}
		if len(items) == 0 {
			return "", nil
		}
		return normalizeDocument(items[0])
	default:
		// numbers, booleans, objects: show the raw JSON
		return string(raw), nil
	}
}

// normalizeMetadata decodes a metadata object; null becomes an empty map.
// Numbers keep their textual form so large integers display unchanged.
func normalizeMetadata(raw json.RawMessage) (map[string]any, error) {
	meta := map[string]any{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return meta, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, nil
}

// recordCount returns the number of records in a get response
func (r *getResponse) recordCount() int {
	return max(len(r.IDs), len(r.Documents))
}

// decodePage normalizes one get response. Documents and metadata are aligned
// to the page's records so a short list cannot shift later pages.
func decodePage(resp *getResponse) (*CollectionData, error) {
	n := resp.recordCount()
	page := &CollectionData{
		IDs:       make([]string, n),
		Documents: make([]string, n),
		Metadatas: make([]map[string]any, n),
	}

	for i := 0; i < n; i++ {
		var raw json.RawMessage
		if i < len(resp.Documents) {
			raw = resp.Documents[i]
		}
		doc, err := normalizeDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		page.Documents[i] = doc

		if i < len(resp.IDs) {
			page.IDs[i] = resp.IDs[i]
		}

		var metaRaw json.RawMessage
		if i < len(resp.Metadatas) {
			metaRaw = resp.Metadatas[i]
		}
		meta, err := normalizeMetadata(metaRaw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		page.Metadatas[i] = meta
	}

	return page, nil
}
