package badgerkv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/storage"
)

func openTestStore(t *testing.T, namespace string) *Store {
	t.Helper()
	s, err := Open(context.Background(), "", namespace, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, "storefront")

	_, err := s.Get(ctx, storage.KeyCart)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.KeyCart, `{"items":[],"total":"0"}`))
	got, err := s.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[],"total":"0"}`, got)

	require.NoError(t, s.Remove(ctx, storage.KeyCart))
	_, err = s.Get(ctx, storage.KeyCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Remove(ctx, storage.KeyCart), "removing an absent key is not an error")
	require.NoError(t, s.Ping(ctx))
}

func TestStoreNamespacesKeys(t *testing.T) {
	s := openTestStore(t, "tenant")
	assert.Equal(t, "tenant:cart", string(s.key("cart")))

	bare := openTestStore(t, "")
	assert.Equal(t, "cart", string(bare.key("cart")))
}

func TestStoreJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, "storefront")

	require.NoError(t, storage.SaveJSON(ctx, s, storage.KeyAuthUser, map[string]string{"username": "emilys"}))
	var out map[string]string
	found, err := storage.LoadJSON(ctx, s, storage.KeyAuthUser, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "emilys", out["username"])
}
