package store

import "context"

// The persistent store is keyed by three logical namespaces, each holding the
// full serialized collection for that concern. Mutations rewrite the whole
// blob; there is exactly one writer at a time.
const (
	NamespaceListings = "listings"
	NamespaceUsers    = "users"
	NamespaceSession  = "session"
)

// KV persists one opaque blob per namespace. Get returns (nil, nil) for a
// namespace that has never been written.
type KV interface {
	Get(ctx context.Context, namespace string) ([]byte, error)
	Put(ctx context.Context, namespace string, blob []byte) error
}
