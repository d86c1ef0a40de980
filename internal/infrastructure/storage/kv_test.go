package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/ports"
)

// exerciseKV runs the behaviour every store must share.
func exerciseKV(t *testing.T, kv ports.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		_, err := kv.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, kv.Put(ctx, "slot:a", []byte(`{"imageRef":"x"}`)))
		got, err := kv.Get(ctx, "slot:a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"imageRef":"x"}`, string(got))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, kv.Put(ctx, "slot:a", []byte(`{"imageRef":"y"}`)))
		got, err := kv.Get(ctx, "slot:a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"imageRef":"y"}`, string(got))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		require.NoError(t, kv.Put(ctx, "slot:b", []byte(`{"imageRef":"b"}`)))
		got, err := kv.Get(ctx, "slot:a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"imageRef":"y"}`, string(got))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, kv.Delete(ctx, "slot:a"))
		_, err := kv.Get(ctx, "slot:a")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, kv.Delete(ctx, "slot:a"), domain.ErrNotFound)
	})
}
