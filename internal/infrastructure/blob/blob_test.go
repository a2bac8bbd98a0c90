package blob

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbook/backend/internal/domain/shared"
)

func TestInlineStoreUpload(t *testing.T) {
	ctx := context.Background()
	store := NewInlineStore()

	t.Run("encodes content as a data URI", func(t *testing.T) {
		ref, err := store.Upload(ctx, "note.txt", []byte("hello receipts"))
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(ref, "data:"), "got %q", ref)

		_, payload, found := strings.Cut(ref, ";base64,")
		require.True(t, found)
		decoded, err := base64.StdEncoding.DecodeString(payload)
		require.NoError(t, err)
		assert.Equal(t, "hello receipts", string(decoded))
	})

	t.Run("detects the content type from the bytes", func(t *testing.T) {
		// PNG magic header
		png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 16)...)
		ref, err := store.Upload(ctx, "whatever.bin", png)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ref, "data:image/png;base64,"), "got %q", ref)
	})

	t.Run("rejects empty files", func(t *testing.T) {
		_, err := store.Upload(ctx, "empty.txt", nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_FILE", domainErr.Code)
	})
}
