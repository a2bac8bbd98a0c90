// Package blob turns raw uploaded file bytes into opaque string references
// stored verbatim on attachments.
package blob

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/shopbook/backend/internal/domain/shared"
)

// FileStore ingests a raw file and returns a self-describing reference. The
// reference is opaque to the rest of the system; callers render it as-is.
type FileStore interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// InlineStore encodes the file into a base64 data URI, a self-contained
// embeddable representation that needs no external blob storage. Used by the
// embedded local backend.
type InlineStore struct{}

// NewInlineStore creates an InlineStore.
func NewInlineStore() *InlineStore {
	return &InlineStore{}
}

// Upload encodes the file content as a data URI.
func (s *InlineStore) Upload(_ context.Context, _ string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", shared.NewDomainError("EMPTY_FILE", "Uploaded file is empty")
	}
	mimeType := http.DetectContentType(data)
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Ensure InlineStore implements FileStore
var _ FileStore = (*InlineStore)(nil)
