package ui

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ytget/chroma-browser/internal/browser"
	"github.com/ytget/chroma-browser/internal/chroma"
	"github.com/ytget/chroma-browser/internal/config"
	"github.com/ytget/chroma-browser/internal/model"
)

// memoryStore is a chroma.Store over fixed collections
type memoryStore struct {
	mu    sync.Mutex
	names []string
	data  map[string]*chroma.CollectionData
	calls []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		names: []string{"docs", "notes"},
		data: map[string]*chroma.CollectionData{
			"notes": {
				Documents: []string{"a", "b"},
				Metadatas: []map[string]any{{"k": 1}, {}},
			},
		},
	}
}

func (s *memoryStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *memoryStore) ListCollections(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "list")
	return append([]string(nil), s.names...), nil
}

func (s *memoryStore) GetCollectionData(_ context.Context, name string) (*chroma.CollectionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "get:"+name)
	data, ok := s.data[name]
	if !ok {
		return nil, &chroma.NotFoundError{Collection: name}
	}
	return data, nil
}

func (s *memoryStore) GetCollectionInfo(_ context.Context, name string) (model.CollectionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "info:"+name)
	return model.CollectionInfo{Name: name, ItemCount: 2, Metadata: map[string]any{"owner": "me"}}, nil
}

func (s *memoryStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "delete:"+name)
	return nil
}

type testUI struct {
	*RootUI
	store  *memoryStore
	window fyne.Window
	dialed []model.Connection
}

func newTestUI(t *testing.T) *testUI {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	tu := &testUI{store: newMemoryStore()}
	dial := func(_ context.Context, conn model.Connection) (chroma.Store, error) {
		tu.dialed = append(tu.dialed, conn)
		return tu.store, nil
	}
	decline := browser.ConfirmFunc(func(context.Context, string) bool { return false })
	controller := browser.NewController(dial, decline, zaptest.NewLogger(t))

	tu.window = test.NewWindow(nil)
	tu.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	tu.RootUI = NewRootUI(tu.window, controller, config.Default(), NewLocalization(), zaptest.NewLogger(t))
	t.Cleanup(func() {
		tu.Close()
	})
	return tu
}

func (tu *testUI) connect(t *testing.T) {
	t.Helper()
	tu.hostEntry.SetText("127.0.0.1")
	tu.portEntry.SetText("8000")
	test.Tap(tu.connectBtn)
	tu.tasks.Wait()
	require.Equal(t, model.StateConnected, tu.controller.Snapshot().State)
}

func TestRootUI_Defaults(t *testing.T) {
	tu := newTestUI(t)

	assert.Equal(t, config.DefaultHost, tu.hostEntry.Text)
	assert.Equal(t, "8000", tu.portEntry.Text)
	assert.Equal(t, "Chroma Browser", tu.window.Title())
	assert.Empty(t, tu.collections.Names())
	assert.Zero(t, tu.chunks.Len())
}

func TestRootUI_ConnectSelectCollectionSelectChunk(t *testing.T) {
	tu := newTestUI(t)
	tu.connect(t)

	assert.Equal(t, []model.Connection{{Host: "127.0.0.1", Port: 8000}}, tu.dialed)
	assert.Equal(t, []string{"docs", "notes"}, tu.collections.Names())
	assert.Contains(t, tu.window.Title(), "127.0.0.1:8000")

	tu.collections.list.Select(1)
	tu.tasks.Wait()
	require.Equal(t, model.StateChunkLoaded, tu.controller.Snapshot().State)
	assert.Equal(t, 2, tu.chunks.Len())
	assert.Empty(t, tu.contentPane.Content())

	tu.chunks.tree.Select("1")
	assert.Equal(t, "b", tu.contentPane.Content())
	assert.Equal(t, "{}", tu.metadataPane.Content())

	tu.chunks.tree.Select("0")
	assert.Equal(t, "a", tu.contentPane.Content())
	assert.Equal(t, "{\n  \"k\": 1\n}", tu.metadataPane.Content())
}

func TestRootUI_ReconnectClearsPanes(t *testing.T) {
	tu := newTestUI(t)
	tu.connect(t)

	tu.collections.list.Select(1)
	tu.tasks.Wait()
	tu.chunks.tree.Select("1")
	require.Equal(t, "b", tu.contentPane.Content())

	tu.connect(t)
	assert.Zero(t, tu.chunks.Len())
	assert.Empty(t, tu.contentPane.Content())
	assert.Empty(t, tu.metadataPane.Content())
}

func TestRootUI_InvalidPort(t *testing.T) {
	tu := newTestUI(t)

	tu.portEntry.SetText("http")
	test.Tap(tu.connectBtn)
	tu.tasks.Wait()

	assert.Empty(t, tu.dialed)
	assert.Equal(t, model.StateDisconnected, tu.controller.Snapshot().State)
}

func TestRootUI_BusyGate(t *testing.T) {
	tu := newTestUI(t)

	tu.busy.Store(true)
	assert.False(t, tu.runTask("x", func(context.Context) {
		t.Error("task must not run while another one is running")
	}))
	tu.busy.Store(false)

	ran := false
	assert.True(t, tu.runTask("x", func(context.Context) { ran = true }))
	tu.tasks.Wait()
	assert.True(t, ran)
	assert.False(t, tu.busy.Load())
}

func TestRootUI_DeclinedDeleteKeepsCollections(t *testing.T) {
	tu := newTestUI(t)
	tu.connect(t)
	callsBefore := len(tu.store.Calls())

	collectionEvents{ui: tu.RootUI}.OnContextAction(0, ActionDelete)
	tu.tasks.Wait()

	assert.Len(t, tu.store.Calls(), callsBefore)
	assert.Equal(t, []string{"docs", "notes"}, tu.collections.Names())
}

func TestRootUI_InfoDialog(t *testing.T) {
	tu := newTestUI(t)
	tu.connect(t)

	collectionEvents{ui: tu.RootUI}.OnContextAction(1, ActionInfo)
	tu.tasks.Wait()

	assert.Contains(t, tu.store.Calls(), "info:notes")
	assert.NotNil(t, tu.window.Canvas().Overlays().Top())
}

func TestRootUI_OutOfRangeEventsIgnored(t *testing.T) {
	tu := newTestUI(t)
	tu.connect(t)
	callsBefore := len(tu.store.Calls())

	events := collectionEvents{ui: tu.RootUI}
	events.OnSelect(5)
	events.OnContextAction(-1, ActionInfo)
	tu.tasks.Wait()

	assert.Len(t, tu.store.Calls(), callsBefore)
}

func TestRootUI_LanguageChange(t *testing.T) {
	tu := newTestUI(t)

	tu.onLanguageChange("de")
	assert.Equal(t, "Verbinden", tu.connectBtn.Text)
	assert.Equal(t, "Metadaten", tu.metadataTab.Text)
	assert.Equal(t, "de", tu.settings.Language)

	tu.onLanguageChange("ru")
	assert.Equal(t, "Подключиться", tu.connectBtn.Text)
}

func TestRootUI_StaleSnapshotIgnored(t *testing.T) {
	tu := newTestUI(t)

	chunks := model.NewChunkSet(model.CollectionRef{Name: "notes"}, nil, []string{"a", "b"}, nil)
	tu.render(browser.Snapshot{
		State:            model.StateChunkLoaded,
		Collections:      []string{"docs", "notes"},
		Chunks:           chunks,
		Selection:        -1,
		Generation:       5,
		ChunksGeneration: 3,
	})
	require.Equal(t, []string{"docs", "notes"}, tu.collections.Names())
	require.Equal(t, 2, tu.chunks.Len())

	tu.render(browser.Snapshot{State: model.StateConnected, Selection: -1, Generation: 4, ChunksGeneration: 2})
	assert.Equal(t, []string{"docs", "notes"}, tu.collections.Names())
	assert.Equal(t, 2, tu.chunks.Len())

	tu.render(browser.Snapshot{State: model.StateConnected, Collections: []string{"docs"}, Selection: -1, Generation: 6, ChunksGeneration: 4})
	assert.Equal(t, []string{"docs"}, tu.collections.Names())
	assert.Zero(t, tu.chunks.Len())
}

func TestRootUI_CloseWaitsForWorkers(t *testing.T) {
	tu := newTestUI(t)

	var finished atomic.Bool
	started := make(chan struct{})
	require.True(t, tu.runTask("working", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		finished.Store(true)
	}))
	<-started

	tu.Close()
	assert.True(t, finished.Load())
	assert.False(t, tu.busy.Load())
}
