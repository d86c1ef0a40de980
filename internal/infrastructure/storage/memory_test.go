package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/picreveal/internal/infrastructure/storage"
)

func TestMemory(t *testing.T) {
	exerciseKV(t, storage.NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()
	v := []byte(`{"a":1}`)
	require.NoError(t, m.Put(ctx, "k", v))
	v[2] = 'b'
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}
