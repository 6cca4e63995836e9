package qdrantDB

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/akolanti/RAGChat/internal/domain/docModel"
)

// Payload field names form the fixed record schema shared with Search.
const (
	fieldChunkId  = "chunk_id"
	fieldContent  = "content"
	fieldMetadata = "metadata"
	fieldSource   = "source"
)

// Upsert embeds one batch of chunks and writes them as points. A vector
// whose dimensionality disagrees with the index schema is a fatal error -
// mixed-dimensionality records would poison every later search.
func (db *Store) Upsert(ctx context.Context, name string, chunks []docModel.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := db.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) != int(dimension) {
			return nil, fmt.Errorf("chunk %s: vector dimension %d, index expects %d", chunk.Id, len(vectors[i]), dimension)
		}

		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: encode metadata: %w", chunk.Id, err)
		}

		ids[i] = chunk.Id
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.Id),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				fieldChunkId:  chunk.Id,
				fieldContent:  chunk.Content,
				fieldMetadata: string(metadata),
				fieldSource:   chunk.Source,
			}),
		}
	}

	_, err = db.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, classify(name, err)
	}

	return ids, nil
}
