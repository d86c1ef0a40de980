package ports

import (
	"context"
	"io"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/reveal"
)

// KV is a durable key-value store. Get returns domain.ErrNotFound for a
// missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RNG draws uniform integers in [0, n).
type RNG interface {
	IntN(n int) int
}

// ImageDecoder turns raw image bytes into a descriptor, and recovers the
// descriptor of a previously stored source ref.
type ImageDecoder interface {
	Decode(r io.Reader) (domain.ImageDescriptor, error)
	Describe(ref string) (domain.ImageDescriptor, error)
}

// Presenter receives the user-visible side of transitions.
type Presenter interface {
	Message(text string)
	Revealed(ev domain.RevealEvent)
	Redraw()
}

// Selector picks the next cell for a random reveal.
type Selector interface {
	Select(st *reveal.State) (domain.CellCoord, bool)
}
