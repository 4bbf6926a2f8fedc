package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ytget/chroma-browser/internal/chroma"
	"github.com/ytget/chroma-browser/internal/model"
)

// NoSelection is the Selection value when no chunk is selected
const NoSelection = -1

// ErrNotConnected is returned by operations that need a server connection
var ErrNotConnected = errors.New("not connected to a server")

// Confirmer gates collection deletion behind a yes/no question.
// ConfirmDelete blocks until the user answers or ctx is done; anything but
// an explicit yes counts as no.
type Confirmer interface {
	ConfirmDelete(ctx context.Context, collection string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, collection string) bool

// ConfirmDelete calls f
func (f ConfirmFunc) ConfirmDelete(ctx context.Context, collection string) bool {
	return f(ctx, collection)
}

// Snapshot is an immutable copy of the observable controller state
type Snapshot struct {
	State       model.ConnectionState
	Connection  model.Connection
	Collections []string
	Chunks      model.ChunkSet
	Selection   int

	// Generation changes whenever the collection list is replaced
	Generation uint64

	// ChunksGeneration changes whenever the chunk set is replaced
	ChunksGeneration uint64
}

// SelectedChunk returns the selected chunk, if any
func (s Snapshot) SelectedChunk() (model.Chunk, bool) {
	return s.Chunks.At(s.Selection)
}

// Collection returns the loaded collection, if any
func (s Snapshot) Collection() model.CollectionRef {
	return s.Chunks.Collection()
}

// Controller owns the browsing state and drives the transitions between
// Disconnected, Connected and ChunkLoaded. Remote operations are serialized;
// Snapshot and SelectChunk never wait for a remote call.
type Controller struct {
	dial    chroma.Dialer
	confirm Confirmer
	logger  *zap.Logger

	// op serializes remote transitions
	op sync.Mutex

	mu          sync.RWMutex
	store       chroma.Store
	conn        model.Connection
	state       model.ConnectionState
	collections []string
	chunks      model.ChunkSet
	selection   int
	generation  uint64
	chunksGen   uint64
	onUpdate    func(Snapshot)
}

// NewController creates a disconnected controller
func NewController(dial chroma.Dialer, confirm Confirmer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		dial:      dial,
		confirm:   confirm,
		logger:    logger,
		state:     model.StateDisconnected,
		selection: NoSelection,
	}
}

// SetUpdateCallback sets the function called after every visible state change.
// The callback runs on the goroutine that caused the change.
func (c *Controller) SetUpdateCallback(callback func(Snapshot)) {
	c.mu.Lock()
	c.onUpdate = callback
	c.mu.Unlock()
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	collections := make([]string, len(c.collections))
	copy(collections, c.collections)
	return Snapshot{
		State:       c.state,
		Connection:  c.conn,
		Collections: collections,
		Chunks:      c.chunks,
		Selection:   c.selection,
		Generation:  c.generation,

		ChunksGeneration: c.chunksGen,
	}
}

// update applies fn under the state lock and notifies the observer
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	snap := c.snapshotLocked()
	callback := c.onUpdate
	c.mu.Unlock()

	if callback != nil {
		callback(snap)
	}
}

// Connect replaces the current connection and lists the server's collections.
// Existing state is cleared before dialing, so a failed connect leaves the
// controller Disconnected with nothing displayed.
func (c *Controller) Connect(ctx context.Context, host string, port int) error {
	conn := model.Connection{Host: host, Port: port}
	if err := chroma.ValidateConnection(conn); err != nil {
		return err
	}

	c.op.Lock()
	defer c.op.Unlock()

	return c.connectLocked(ctx, conn)
}

// Refresh re-runs Connect with the current connection
func (c *Controller) Refresh(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn.IsZero() {
		return ErrNotConnected
	}

	return c.connectLocked(ctx, conn)
}

// connectLocked requires c.op
func (c *Controller) connectLocked(ctx context.Context, conn model.Connection) error {
	c.update(func() {
		c.store = nil
		c.conn = model.Connection{}
		c.state = model.StateDisconnected
		c.collections = nil
		c.chunks = model.ChunkSet{}
		c.selection = NoSelection
		c.generation++
		c.chunksGen++
	})

	logger := c.logger.With(zap.String("server", conn.Address()))
	logger.Info("Connecting")

	store, err := c.dial(ctx, conn)
	if err != nil {
		logger.Warn("Connect failed", zap.Error(err))
		return err
	}

	names, err := store.ListCollections(ctx)
	if err != nil {
		logger.Warn("Listing collections failed", zap.Error(err))
		return fmt.Errorf("list collections: %w", err)
	}

	c.update(func() {
		c.store = store
		c.conn = conn
		c.state = model.StateConnected
		c.collections = names
		c.generation++
	})

	logger.Info("Connected", zap.Int("collections", len(names)))
	return nil
}

// SelectCollection loads every chunk of the named collection. The previous
// chunks are cleared first; on failure the controller stays Connected with
// no chunks loaded.
func (c *Controller) SelectCollection(ctx context.Context, name string) error {
	c.op.Lock()
	defer c.op.Unlock()

	store, err := c.connectedStore()
	if err != nil {
		return err
	}

	c.update(func() {
		c.state = model.StateConnected
		c.chunks = model.ChunkSet{}
		c.selection = NoSelection
		c.chunksGen++
	})

	data, err := store.GetCollectionData(ctx, name)
	if err != nil {
		c.logger.Warn("Loading chunks failed", zap.String("collection", name), zap.Error(err))
		return fmt.Errorf("load collection %q: %w", name, err)
	}

	chunks := model.NewChunkSet(model.CollectionRef{Name: name}, data.IDs, data.Documents, data.Metadatas)
	if len(data.Metadatas) < len(data.Documents) {
		c.logger.Warn("Server returned fewer metadata entries than documents",
			zap.String("collection", name),
			zap.Int("documents", len(data.Documents)),
			zap.Int("metadatas", len(data.Metadatas)))
	}

	c.update(func() {
		c.state = model.StateChunkLoaded
		c.chunks = chunks
		c.selection = NoSelection
		c.chunksGen++
	})

	c.logger.Info("Loaded collection", zap.String("collection", name), zap.Int("chunks", chunks.Len()))
	return nil
}

// SelectChunk selects the chunk at index. It returns false, changing
// nothing, when no collection is loaded or index is out of range.
func (c *Controller) SelectChunk(index int) bool {
	c.mu.Lock()
	if c.state != model.StateChunkLoaded || !c.chunks.InRange(index) {
		c.mu.Unlock()
		return false
	}
	c.selection = index
	snap := c.snapshotLocked()
	callback := c.onUpdate
	c.mu.Unlock()

	if callback != nil {
		callback(snap)
	}
	return true
}

// DeleteCollection asks for confirmation, deletes the collection and then
// refreshes the collection list with the current connection. Declining the
// confirmation performs no remote call. It returns whether the delete was
// carried out.
func (c *Controller) DeleteCollection(ctx context.Context, name string) (bool, error) {
	c.op.Lock()
	defer c.op.Unlock()

	store, err := c.connectedStore()
	if err != nil {
		return false, err
	}

	if c.confirm == nil || !c.confirm.ConfirmDelete(ctx, name) {
		c.logger.Info("Delete declined", zap.String("collection", name))
		return false, nil
	}

	if err := store.DeleteCollection(ctx, name); err != nil {
		c.logger.Warn("Delete failed", zap.String("collection", name), zap.Error(err))
		return false, fmt.Errorf("delete collection %q: %w", name, err)
	}
	c.logger.Info("Deleted collection", zap.String("collection", name))

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if err := c.connectLocked(ctx, conn); err != nil {
		return true, fmt.Errorf("refresh after delete: %w", err)
	}
	return true, nil
}

// CollectionInfo reads summary statistics without touching the state
func (c *Controller) CollectionInfo(ctx context.Context, name string) (model.CollectionInfo, error) {
	c.op.Lock()
	defer c.op.Unlock()

	store, err := c.connectedStore()
	if err != nil {
		return model.CollectionInfo{}, err
	}

	info, err := store.GetCollectionInfo(ctx, name)
	if err != nil {
		return model.CollectionInfo{}, fmt.Errorf("collection info %q: %w", name, err)
	}
	return info, nil
}

func (c *Controller) connectedStore() (chroma.Store, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil || !c.state.IsConnected() {
		return nil, ErrNotConnected
	}
	return c.store, nil
}
