package model

import "testing"

func TestConnection_Address(t *testing.T) {
	tests := []struct {
		conn    Connection
		address string
		baseURL string
	}{
		{Connection{Host: "127.0.0.1", Port: 8000}, "127.0.0.1:8000", "http://127.0.0.1:8000"},
		{Connection{Host: "chroma.local", Port: 443}, "chroma.local:443", "http://chroma.local:443"},
		{Connection{Host: "::1", Port: 8000}, "[::1]:8000", "http://[::1]:8000"},
	}

	for _, test := range tests {
		if got := test.conn.Address(); got != test.address {
			t.Errorf("Address() = %s, expected %s", got, test.address)
		}
		if got := test.conn.BaseURL(); got != test.baseURL {
			t.Errorf("BaseURL() = %s, expected %s", got, test.baseURL)
		}
	}
}

func TestConnection_String(t *testing.T) {
	var zero Connection
	if zero.String() != "" {
		t.Errorf("Expected empty string for zero connection, got %q", zero.String())
	}

	conn := Connection{Host: "localhost", Port: 8000}
	if conn.String() != "localhost:8000" {
		t.Errorf("Expected localhost:8000, got %s", conn.String())
	}
}

func TestCollectionInfo_Metadata(t *testing.T) {
	info := CollectionInfo{Name: "docs", ItemCount: 3, Metadata: map[string]any{}}
	if info.HasMetadata() {
		t.Error("Expected no metadata")
	}
	if info.MetadataJSON() != "{}" {
		t.Errorf("Expected {}, got %s", info.MetadataJSON())
	}

	info.Metadata = map[string]any{"hnsw:space": "cosine"}
	if !info.HasMetadata() {
		t.Error("Expected metadata")
	}
}
