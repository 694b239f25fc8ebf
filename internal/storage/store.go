package storage

import (
	"context"
	"time"
)

// StateKey is the key the snapshot blob is stored under.
const StateKey = "state"

// BlobStore persists one opaque document. Get returns nil, nil when nothing
// has been stored yet. Set replaces the whole document.
type BlobStore interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, blob []byte) error
}

// Revisioner is implemented by stores that count their writes. Revision is 0
// until the first Set.
type Revisioner interface {
	Revision(ctx context.Context) (int64, *time.Time, error)
}
