package storage

import (
	"context"
	"errors"

	"doctoolkit/internal/graph"
)

// ErrNotFound is returned by single-record lookups.
var ErrNotFound = errors.New("not found")

// MemberRecord is one graph node.
type MemberRecord struct {
	CodeRef    string
	Kind       string
	Name       string
	Owner      string
	Assembly   string
	Documented bool
	Extension  bool
}

// DocRecord is a resolved documentation entry.
type DocRecord struct {
	CodeRef string
	Summary string
	XML     string
}

// ExtensionRecord describes one extension member as seen on its extended
// type. Block is the marker type name, empty for classic extension methods.
type ExtensionRecord struct {
	CodeRef      string // declared method, or first accessor of a property
	Kind         string
	Name         string
	ExtendedType string
	Container    string
	Block        string
	Static       bool
}

// Snapshot is everything one build persists.
type Snapshot struct {
	Members    []MemberRecord
	Docs       []DocRecord
	Extensions []ExtensionRecord
	Edges      []graph.Edge
	Unresolved []graph.Unresolved
}

// Store persists build snapshots.
type Store interface {
	SnapshotStore
	Close() error
}

type SnapshotStore interface {
	// SaveSnapshot replaces the stored snapshot.
	SaveSnapshot(ctx context.Context, s *Snapshot) error

	LoadSnapshot(ctx context.Context) (*Snapshot, error)

	// LoadGraph rebuilds the linked graph from members and edges.
	LoadGraph(ctx context.Context) (*graph.Graph, error)

	GetDoc(ctx context.Context, codeRef string) (*DocRecord, error)

	Extensions(ctx context.Context) ([]ExtensionRecord, error)
}
