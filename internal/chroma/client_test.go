package chroma

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ytget/chroma-browser/internal/model"
)

// fakeRecord is one stored record; document is kept as raw JSON so tests can
// store both bare and wrapped documents
type fakeRecord struct {
	id       string
	document string
	metadata string
}

type fakeCollection struct {
	id       string
	name     string
	metadata string
	records  []fakeRecord
}

// fakeChroma implements the subset of the Chroma v2 API used by Client
type fakeChroma struct {
	t *testing.T

	mu          sync.Mutex
	collections []*fakeCollection
	token       string
	requestIDs  []string
	lastGet     []getRequest
	legacy404   bool // report missing collections as 500 "does not exist"
}

func newFakeChroma(t *testing.T) (*fakeChroma, *httptest.Server) {
	f := &fakeChroma{t: t}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeChroma) add(name, metadata string, records ...fakeRecord) *fakeCollection {
	f.mu.Lock()
	defer f.mu.Unlock()
	coll := &fakeCollection{id: uuid.NewString(), name: name, metadata: metadata, records: records}
	f.collections = append(f.collections, coll)
	return coll
}

func (f *fakeChroma) find(key string) (int, *fakeCollection) {
	for i, c := range f.collections {
		if c.name == key || c.id == key {
			return i, c
		}
	}
	return -1, nil
}

func (f *fakeChroma) notFound(w http.ResponseWriter, name string) {
	if f.legacy404 {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"ValueError","message":"Collection ` + name + ` does not exist."}`))
		return
	}
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":"NotFoundError","message":"Collection [` + name + `] does not exists"}`))
}

func (f *fakeChroma) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requestIDs = append(f.requestIDs, r.Header.Get(RequestIDHeader))
	if f.token != "" && r.Header.Get(TokenHeader) != f.token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"AuthError","message":"unauthorized"}`))
		return
	}

	if r.URL.Path == APIPrefix+"/heartbeat" {
		_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1717171717}`))
		return
	}

	prefix := APIPrefix + "/tenants/" + DefaultTenant + "/databases/" + DefaultDatabase + "/collections"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		out := []map[string]any{}
		for i := offset; i < len(f.collections) && (limit == 0 || i < offset+limit); i++ {
			c := f.collections[i]
			out = append(out, map[string]any{"id": c.id, "name": c.name, "metadata": json.RawMessage(c.metadataJSON())})
		}
		_ = json.NewEncoder(w).Encode(out)

	case len(parts) == 1 && r.Method == http.MethodGet:
		_, c := f.find(parts[0])
		if c == nil {
			f.notFound(w, parts[0])
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": c.id, "name": c.name, "metadata": json.RawMessage(c.metadataJSON())})

	case len(parts) == 1 && r.Method == http.MethodDelete:
		i, c := f.find(parts[0])
		if c == nil {
			f.notFound(w, parts[0])
			return
		}
		f.collections = append(f.collections[:i], f.collections[i+1:]...)
		_, _ = w.Write([]byte(`{}`))

	case len(parts) == 2 && parts[1] == "count" && r.Method == http.MethodGet:
		_, c := f.find(parts[0])
		if c == nil {
			f.notFound(w, parts[0])
			return
		}
		_, _ = w.Write([]byte(strconv.Itoa(len(c.records))))

	case len(parts) == 2 && parts[1] == "get" && r.Method == http.MethodPost:
		_, c := f.find(parts[0])
		if c == nil {
			f.notFound(w, parts[0])
			return
		}
		var req getRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		f.lastGet = append(f.lastGet, req)

		end := len(c.records)
		if req.Limit > 0 && req.Offset+req.Limit < end {
			end = req.Offset + req.Limit
		}
		var ids []string
		var docs, metas []json.RawMessage
		for i := req.Offset; i < end; i++ {
			rec := c.records[i]
			ids = append(ids, rec.id)
			docs = append(docs, json.RawMessage(rec.document))
			if rec.metadata != "" {
				metas = append(metas, json.RawMessage(rec.metadata))
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ids":       ids,
			"documents": docs,
			"metadatas": metas,
			"include":   req.Include,
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (c *fakeCollection) metadataJSON() string {
	if c.metadata == "" {
		return "null"
	}
	return c.metadata
}

// connectionFor turns an httptest URL into a model.Connection
func connectionFor(t *testing.T, srv *httptest.Server) model.Connection {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return model.Connection{Host: u.Hostname(), Port: port}
}

func testOptions(t *testing.T) Options {
	return Options{Logger: zaptest.NewLogger(t), Timeout: 5 * time.Second}
}

func TestValidateConnection(t *testing.T) {
	tests := []struct {
		name    string
		conn    model.Connection
		wantErr bool
	}{
		{"valid ipv4", model.Connection{Host: "127.0.0.1", Port: 8000}, false},
		{"valid hostname", model.Connection{Host: "chroma.internal", Port: 1}, false},
		{"valid max port", model.Connection{Host: "localhost", Port: 65535}, false},
		{"empty host", model.Connection{Host: "  ", Port: 8000}, true},
		{"url as host", model.Connection{Host: "http://localhost", Port: 8000}, true},
		{"zero port", model.Connection{Host: "localhost", Port: 0}, true},
		{"port too large", model.Connection{Host: "localhost", Port: 70000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConnection(tt.conn)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestConnect(t *testing.T) {
	_, srv := newFakeChroma(t)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)
	assert.Equal(t, connectionFor(t, srv), c.Connection())

	nanos, err := c.Heartbeat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1717171717), nanos)
}

func TestConnect_Unreachable(t *testing.T) {
	_, srv := newFakeChroma(t)
	conn := connectionFor(t, srv)
	srv.Close()

	_, err := Connect(context.Background(), conn, testOptions(t))
	require.Error(t, err)

	var cerr *ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, conn.Address(), cerr.Address)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestConnect_RejectedHandshake(t *testing.T) {
	f, srv := newFakeChroma(t)
	f.token = "secret"

	_, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.ErrorIs(t, err, ErrConnection)

	opts := testOptions(t)
	opts.Token = "secret"
	_, err = Connect(context.Background(), connectionFor(t, srv), opts)
	require.NoError(t, err)
}

func TestConnect_InvalidInput(t *testing.T) {
	_, err := Connect(context.Background(), model.Connection{Host: "", Port: 8000}, testOptions(t))
	require.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrConnection)
}

func TestListCollections(t *testing.T) {
	f, srv := newFakeChroma(t)
	f.add("docs", "")
	f.add("notes", "")

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	names, err := c.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", "notes"}, names)
}

func TestListCollections_Empty(t *testing.T) {
	_, srv := newFakeChroma(t)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	names, err := c.ListCollections(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestListCollections_Pages(t *testing.T) {
	f, srv := newFakeChroma(t)
	want := []string{"a", "b", "c", "d", "e"}
	for _, name := range want {
		f.add(name, "")
	}

	opts := testOptions(t)
	opts.PageSize = 2
	c, err := Connect(context.Background(), connectionFor(t, srv), opts)
	require.NoError(t, err)

	names, err := c.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, names)
}

func TestGetCollectionData(t *testing.T) {
	f, srv := newFakeChroma(t)
	f.add("notes", "",
		fakeRecord{id: "1", document: `"a"`, metadata: `{"k":1}`},
		fakeRecord{id: "2", document: `"b"`, metadata: `{}`},
	)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	data, err := c.GetCollectionData(context.Background(), "notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, data.IDs)
	assert.Equal(t, []string{"a", "b"}, data.Documents)
	require.Len(t, data.Metadatas, 2)
	assert.Equal(t, json.Number("1"), data.Metadatas[0]["k"])
	assert.Empty(t, data.Metadatas[1])

	require.NotEmpty(t, f.lastGet)
	assert.Equal(t, []string{IncludeDocuments, IncludeMetadatas}, f.lastGet[0].Include)
}

func TestGetCollectionData_NormalizesDocuments(t *testing.T) {
	f, srv := newFakeChroma(t)
	f.add("mixed", "",
		fakeRecord{id: "bare", document: `"hello"`, metadata: `{}`},
		fakeRecord{id: "wrapped", document: `["hello"]`, metadata: `{}`},
		fakeRecord{id: "null", document: `null`, metadata: `null`},
		fakeRecord{id: "empty", document: `[]`, metadata: `{}`},
	)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	data, err := c.GetCollectionData(context.Background(), "mixed")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "hello", "", ""}, data.Documents)
	assert.NotNil(t, data.Metadatas[2], "null metadata should become an empty map")
}

func TestGetCollectionData_ShortMetadata(t *testing.T) {
	f, srv := newFakeChroma(t)
	f.add("short", "",
		fakeRecord{id: "1", document: `"a"`, metadata: `{"x":"y"}`},
		fakeRecord{id: "2", document: `"b"`},
		fakeRecord{id: "3", document: `"c"`},
	)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	data, err := c.GetCollectionData(context.Background(), "short")
	require.NoError(t, err)
	require.Len(t, data.Metadatas, len(data.Documents))
	assert.Equal(t, "y", data.Metadatas[0]["x"])
	assert.Empty(t, data.Metadatas[2])
}

func TestGetCollectionData_Pages(t *testing.T) {
	f, srv := newFakeChroma(t)
	var records []fakeRecord
	for i := 0; i < 5; i++ {
		records = append(records, fakeRecord{
			id:       strconv.Itoa(i),
			document: strconv.Quote("doc-" + strconv.Itoa(i)),
			metadata: `{"i":` + strconv.Itoa(i) + `}`,
		})
	}
	f.add("paged", "", records...)

	opts := testOptions(t)
	opts.PageSize = 2
	c, err := Connect(context.Background(), connectionFor(t, srv), opts)
	require.NoError(t, err)

	data, err := c.GetCollectionData(context.Background(), "paged")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-0", "doc-1", "doc-2", "doc-3", "doc-4"}, data.Documents)
	assert.Equal(t, json.Number("4"), data.Metadatas[4]["i"])
	assert.Len(t, f.lastGet, 3)
}

func TestGetCollectionData_NotFound(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		t.Run("legacy="+strconv.FormatBool(legacy), func(t *testing.T) {
			f, srv := newFakeChroma(t)
			f.legacy404 = legacy

			c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
			require.NoError(t, err)

			_, err = c.GetCollectionData(context.Background(), "missing")
			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, "missing", nf.Collection)
			assert.True(t, IsNotFound(err))
		})
	}
}

func TestGetCollectionInfo(t *testing.T) {
	f, srv := newFakeChroma(t)
	coll := f.add("docs", `{"hnsw:space":"cosine"}`,
		fakeRecord{id: "1", document: `"a"`},
		fakeRecord{id: "2", document: `"b"`},
		fakeRecord{id: "3", document: `"c"`},
	)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	info, err := c.GetCollectionInfo(context.Background(), "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", info.Name)
	assert.Equal(t, coll.id, info.ID)
	assert.Equal(t, 3, info.ItemCount)
	assert.Equal(t, "cosine", info.Metadata["hnsw:space"])
	assert.Empty(t, f.lastGet, "info must not fetch documents")
}

func TestGetCollectionInfo_NoMetadata(t *testing.T) {
	f, srv := newFakeChroma(t)
	f.add("plain", "")

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	info, err := c.GetCollectionInfo(context.Background(), "plain")
	require.NoError(t, err)
	assert.NotNil(t, info.Metadata)
	assert.False(t, info.HasMetadata())
	assert.Equal(t, 0, info.ItemCount)
}

func TestGetCollectionInfo_NotFound(t *testing.T) {
	_, srv := newFakeChroma(t)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	_, err = c.GetCollectionInfo(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCollection(t *testing.T) {
	f, srv := newFakeChroma(t)
	f.add("docs", "")
	f.add("notes", "")

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	require.NoError(t, c.DeleteCollection(context.Background(), "docs"))

	names, err := c.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"notes"}, names)

	err = c.DeleteCollection(context.Background(), "docs")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCollection_EmptyName(t *testing.T) {
	_, srv := newFakeChroma(t)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	err = c.DeleteCollection(context.Background(), " ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRemoteError_ServerFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == APIPrefix+"/heartbeat" {
			_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"InternalError","message":"disk full"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	_, err = c.ListCollections(context.Background())
	var rerr *RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusInternalServerError, rerr.StatusCode)
	assert.Equal(t, "disk full", rerr.Message)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestRemoteError_MalformedCollectionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == APIPrefix+"/heartbeat" {
			_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"not-a-uuid","name":"docs"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)

	_, err = c.GetCollectionInfo(context.Background(), "docs")
	assert.ErrorIs(t, err, ErrRemote)
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == APIPrefix+"/heartbeat" {
			_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1}`))
			return
		}
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	opts := testOptions(t)
	opts.Timeout = 50 * time.Millisecond
	c, err := Connect(context.Background(), connectionFor(t, srv), opts)
	require.NoError(t, err)

	_, err = c.ListCollections(context.Background())
	require.ErrorIs(t, err, ErrRemote)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestIDs(t *testing.T) {
	f, srv := newFakeChroma(t)

	c, err := Connect(context.Background(), connectionFor(t, srv), testOptions(t))
	require.NoError(t, err)
	_, err = c.ListCollections(context.Background())
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.requestIDs, 2)
	for _, id := range f.requestIDs {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, f.requestIDs[0], f.requestIDs[1])
}

func TestNewDialer(t *testing.T) {
	f, srv := newFakeChroma(t)
	f.add("docs", "")

	dial := NewDialer(testOptions(t))
	store, err := dial(context.Background(), connectionFor(t, srv))
	require.NoError(t, err)

	names, err := store.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, names)
}
