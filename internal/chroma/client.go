package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/chroma-browser/internal/model"
)

// API defaults
const (
	DefaultTenant   = "default_tenant"
	DefaultDatabase = "default_database"
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 300

	APIPrefix       = "/api/v2"
	TokenHeader     = "X-Chroma-Token"
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of an error response is read
	maxErrorBody = 64 << 10
)

// Port bounds
const (
	MinPort = 1
	MaxPort = 65535
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	Tenant     string
	Database   string
	Token      string
	Timeout    time.Duration // per request; 0 uses DefaultTimeout, negative disables
	PageSize   int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Tenant == "" {
		o.Tenant = DefaultTenant
	}
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Client talks to one Chroma server. It holds no browsing state.
type Client struct {
	conn   model.Connection
	opts   Options
	logger *zap.Logger
}

var _ Store = (*Client)(nil)

// ValidateConnection rejects an empty host or a port outside 1..65535
func ValidateConnection(conn model.Connection) error {
	host := strings.TrimSpace(conn.Host)
	if host == "" {
		return &ValidationError{Field: "host", Value: conn.Host, Reason: "must not be empty"}
	}
	if strings.ContainsAny(host, "/?#@ ") {
		return &ValidationError{Field: "host", Value: conn.Host, Reason: "must be a host name or IP address"}
	}
	if conn.Port < MinPort || conn.Port > MaxPort {
		return &ValidationError{
			Field:  "port",
			Value:  strconv.Itoa(conn.Port),
			Reason: fmt.Sprintf("must be between %d and %d", MinPort, MaxPort),
		}
	}
	return nil
}

// New creates a client bound to conn without contacting the server
func New(conn model.Connection, opts Options) (*Client, error) {
	if err := ValidateConnection(conn); err != nil {
		return nil, err
	}
	conn.Host = strings.TrimSpace(conn.Host)

	opts = opts.withDefaults()
	return &Client{
		conn:   conn,
		opts:   opts,
		logger: opts.Logger.With(zap.String("server", conn.Address())),
	}, nil
}

// Connect creates a client and performs the heartbeat handshake.
// Any handshake failure is reported as a ConnectionError.
func Connect(ctx context.Context, conn model.Connection, opts Options) (*Client, error) {
	c, err := New(conn, opts)
	if err != nil {
		return nil, err
	}

	if _, err := c.Heartbeat(ctx); err != nil {
		return nil, &ConnectionError{Address: conn.Address(), Err: err}
	}

	c.logger.Info("Connected to Chroma server")
	return c, nil
}

// NewDialer returns a Dialer that connects with the given options
func NewDialer(opts Options) Dialer {
	return func(ctx context.Context, conn model.Connection) (Store, error) {
		return Connect(ctx, conn, opts)
	}
}

// Connection returns the server the client is bound to
func (c *Client) Connection() model.Connection {
	return c.conn
}

// Heartbeat returns the server's nanosecond heartbeat
func (c *Client) Heartbeat(ctx context.Context) (int64, error) {
	var resp heartbeatResponse
	err := c.do(ctx, call{
		op:     "heartbeat",
		method: http.MethodGet,
		path:   APIPrefix + "/heartbeat",
		out:    &resp,
	})
	if err != nil {
		return 0, err
	}
	return resp.Nanos, nil
}

// ListCollections returns collection names in server order
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var names []string
	for offset := 0; ; offset += c.opts.PageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.opts.PageSize))
		query.Set("offset", strconv.Itoa(offset))

		var page []collectionResponse
		err := c.do(ctx, call{
			op:     "list collections",
			method: http.MethodGet,
			path:   c.collectionsPath(),
			query:  query,
			out:    &page,
		})
		if err != nil {
			return nil, err
		}

		for _, coll := range page {
			names = append(names, coll.Name)
		}
		if len(page) < c.opts.PageSize {
			break
		}
	}

	c.logger.Debug("Listed collections", zap.Int("count", len(names)))
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// GetCollectionData fetches every document and its metadata, in server order
func (c *Client) GetCollectionData(ctx context.Context, name string) (*CollectionData, error) {
	coll, err := c.getCollection(ctx, name)
	if err != nil {
		return nil, err
	}

	data := &CollectionData{}
	for offset := 0; ; offset += c.opts.PageSize {
		var resp getResponse
		err := c.do(ctx, call{
			op:         "get collection data",
			method:     http.MethodPost,
			path:       c.collectionsPath() + "/" + url.PathEscape(coll.ID) + "/get",
			collection: name,
			body: getRequest{
				Include: []string{IncludeDocuments, IncludeMetadatas},
				Limit:   c.opts.PageSize,
				Offset:  offset,
			},
			out: &resp,
		})
		if err != nil {
			return nil, err
		}

		page, err := decodePage(&resp)
		if err != nil {
			return nil, &RemoteError{Op: "get collection data", Err: err}
		}
		data.IDs = append(data.IDs, page.IDs...)
		data.Documents = append(data.Documents, page.Documents...)
		data.Metadatas = append(data.Metadatas, page.Metadatas...)

		if resp.recordCount() < c.opts.PageSize {
			break
		}
	}

	c.logger.Debug("Fetched collection data",
		zap.String("collection", name),
		zap.Int("documents", len(data.Documents)))
	return data, nil
}

// GetCollectionInfo returns the item count and metadata without fetching documents
func (c *Client) GetCollectionInfo(ctx context.Context, name string) (model.CollectionInfo, error) {
	coll, err := c.getCollection(ctx, name)
	if err != nil {
		return model.CollectionInfo{}, err
	}

	var count int
	err = c.do(ctx, call{
		op:         "count collection",
		method:     http.MethodGet,
		path:       c.collectionsPath() + "/" + url.PathEscape(coll.ID) + "/count",
		collection: name,
		out:        &count,
	})
	if err != nil {
		return model.CollectionInfo{}, err
	}

	meta, err := normalizeMetadata(coll.Metadata)
	if err != nil {
		return model.CollectionInfo{}, &RemoteError{Op: "get collection", Err: err}
	}

	return model.CollectionInfo{
		Name:      coll.Name,
		ID:        coll.ID,
		ItemCount: count,
		Metadata:  meta,
	}, nil
}

// DeleteCollection permanently deletes the named collection
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	err := c.do(ctx, call{
		op:         "delete collection",
		method:     http.MethodDelete,
		path:       c.collectionsPath() + "/" + url.PathEscape(name),
		collection: name,
	})
	if err != nil {
		return err
	}

	c.logger.Info("Deleted collection", zap.String("collection", name))
	return nil
}

// getCollection resolves a collection by name
func (c *Client) getCollection(ctx context.Context, name string) (*collectionResponse, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var coll collectionResponse
	err := c.do(ctx, call{
		op:         "get collection",
		method:     http.MethodGet,
		path:       c.collectionsPath() + "/" + url.PathEscape(name),
		collection: name,
		out:        &coll,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(coll.ID); err != nil {
		return nil, &RemoteError{Op: "get collection", Err: fmt.Errorf("malformed collection id %q: %w", coll.ID, err)}
	}
	if coll.Name == "" {
		coll.Name = name
	}
	return &coll, nil
}

func (c *Client) collectionsPath() string {
	return fmt.Sprintf("%s/tenants/%s/databases/%s/collections",
		APIPrefix, url.PathEscape(c.opts.Tenant), url.PathEscape(c.opts.Database))
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "collection name", Value: name, Reason: "must not be empty"}
	}
	return nil
}

// call describes one HTTP round trip
type call struct {
	op         string
	method     string
	path       string
	query      url.Values
	collection string // set when a 404 means the collection is missing
	body       any
	out        any
}

// do executes a call, maps failures to typed errors and decodes the response into out
func (c *Client) do(ctx context.Context, cl call) error {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	// cl.path is already escaped segment by segment
	target := c.conn.BaseURL() + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return &RemoteError{Op: cl.op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return &RemoteError{Op: cl.op, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.opts.Token != "" {
		req.Header.Set(TokenHeader, c.opts.Token)
	}

	start := time.Now()
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		c.logger.Warn("Chroma request failed",
			zap.String("op", cl.op),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &RemoteError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Chroma request",
		zap.String("op", cl.op),
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(cl, resp)
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return &RemoteError{Op: cl.op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// statusError maps an error response to NotFoundError or RemoteError
func (c *Client) statusError(cl call, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload errorResponse
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil && (payload.Message != "" || payload.Error != "") {
		message = payload.Message
		if message == "" {
			message = payload.Error
		}
	}

	if cl.collection != "" && isNotFound(resp.StatusCode, payload, message) {
		return &NotFoundError{Collection: cl.collection, Message: message}
	}
	return &RemoteError{Op: cl.op, StatusCode: resp.StatusCode, Message: message}
}

// isNotFound recognizes both the v2 404 response and older servers that
// report a missing collection as a 500 with a "does not exist" message
func isNotFound(status int, payload errorResponse, message string) bool {
	if status == http.StatusNotFound {
		return true
	}
	if strings.Contains(payload.Error, "NotFound") {
		return true
	}
	return strings.Contains(strings.ToLower(message), "does not exist")
}

// IsNotFound reports whether err means a missing collection
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
