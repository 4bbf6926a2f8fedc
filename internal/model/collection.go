package model

import (
	"fmt"
	"net"
	"strconv"
)

// Connection identifies the Chroma server the browser talks to
type Connection struct {
	Host string
	Port int
}

// Address returns host:port, bracketing IPv6 literals
func (c Connection) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BaseURL returns the HTTP root of the server
func (c Connection) BaseURL() string {
	return fmt.Sprintf("http://%s", c.Address())
}

// IsZero reports whether no connection is set
func (c Connection) IsZero() bool {
	return c.Host == "" && c.Port == 0
}

// String returns the address for logs and status lines
func (c Connection) String() string {
	if c.IsZero() {
		return ""
	}
	return c.Address()
}

// CollectionRef names a collection on the connected server
type CollectionRef struct {
	Name string
}

// IsZero reports whether the reference is unset
func (r CollectionRef) IsZero() bool {
	return r.Name == ""
}

// CollectionInfo holds summary statistics of a collection
type CollectionInfo struct {
	Name      string
	ID        string
	ItemCount int
	Metadata  map[string]any // never nil
}

// HasMetadata returns true if the server reported collection metadata
func (ci CollectionInfo) HasMetadata() bool {
	return len(ci.Metadata) > 0
}

// MetadataJSON returns the collection metadata as indented JSON
func (ci CollectionInfo) MetadataJSON() string {
	return FormatMetadata(ci.Metadata)
}
