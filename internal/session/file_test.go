package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileKV(path)
	ctx := context.Background()

	_, err := store.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, KeyToken, "tok-123"))
	require.NoError(t, store.Set(ctx, KeyIdentity, `{"id":"1"}`))

	value, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", value)

	// A fresh instance over the same path sees the persisted entries.
	reopened := NewFileKV(path)
	value, err = reopened.Get(ctx, KeyIdentity)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, value)

	require.NoError(t, reopened.Delete(ctx, KeyToken))
	_, err = reopened.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, reopened.Delete(ctx, "missing"))
}

func TestFileKVCorruptedFileBehavesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store := NewFileKV(path)
	_, err := store.Get(context.Background(), KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(context.Background(), KeyToken, "tok"))
	value, err := store.Get(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", value)
}
