package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omrozmn/x-ear-sub010/internal/model"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemory()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, model.ErrNoSnapshot)

	require.NoError(t, store.Save(ctx, []byte(`[{"id":"a"}]`)))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(data))

	// Full overwrite, never append.
	require.NoError(t, store.Save(ctx, []byte(`[]`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemory()
	original := []byte(`[1,2,3]`)
	require.NoError(t, store.Save(ctx, original))

	original[0] = 'X'

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2,3]`), data)

	data[0] = 'Y'
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2,3]`), again)
}
