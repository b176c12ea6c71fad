package medium

import "context"

// ObjectStore is a flat key/value store of immutable objects.
//
// Get returns ErrNotFound (possibly wrapped) for missing keys. List returns
// the keys that start with prefix, in no particular order.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// ObjectSizer is implemented by stores that can report an object's size
// without downloading it.
type ObjectSizer interface {
	Size(ctx context.Context, key string) (int64, error)
}
