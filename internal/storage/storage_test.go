package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoStore(t *testing.T) {
	memFs := afero.NewMemMapFs()
	store := NewAferoStore(memFs, 64)
	ctx := context.Background()

	filePath := "photos/capture.jpg"
	content := "jpeg bytes"

	t.Run("Save", func(t *testing.T) {
		n, err := store.Save(ctx, filePath, bytes.NewReader([]byte(content)))
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), n)

		data, err := afero.ReadFile(memFs, filePath)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("Open", func(t *testing.T) {
		f, err := store.Open(ctx, filePath)
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, filePath))
		exists, err := afero.Exists(memFs, filePath)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("rejects oversized content", func(t *testing.T) {
		_, err := store.Save(ctx, "photos/big.jpg", strings.NewReader(strings.Repeat("x", 65)))
		assert.ErrorIs(t, err, ErrTooLarge)
		exists, _ := afero.Exists(memFs, "photos/big.jpg")
		assert.False(t, exists, "a rejected file is not kept")
	})
}
