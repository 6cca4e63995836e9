package vectorDB

import (
	"context"

	"github.com/akolanti/RAGChat/internal/domain/docModel"
)

// Index abstracts the remote vector index. Implementations embed queries and
// chunk content themselves (via the configured Embedder), so callers only
// ever hand over text.
//
// CreateIndex is idempotent from the caller's perspective: any existing
// index of that name is deleted first, then a fresh empty one is created.
// DeleteIndex on an absent index is a no-op.
type Index interface {
	CreateIndex(ctx context.Context, name string) error
	DeleteIndex(ctx context.Context, name string) error
	Search(ctx context.Context, query string, name string, mode docModel.SearchMode, k int) ([]docModel.Chunk, error)
	Upsert(ctx context.Context, name string, chunks []docModel.Chunk) ([]string, error)
}
