package qdrantDB

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
	"github.com/akolanti/RAGChat/internal/rag/embedding"
	"github.com/akolanti/RAGChat/internal/rag/vectorDB"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

// Store implements vectorDB.Index against a Qdrant deployment. Every record
// carries the fixed schema: content, a content vector of the embedding
// model's dimensionality, a serialized metadata string and a filterable
// source field.
type Store struct {
	client   *qdrant.Client
	embedder embedding.Embedder
	logger   *logger_i.Logger
}

func NewStore(ctx context.Context, settings config.Settings, embedder embedding.Embedder) (*Store, error) {
	logger := logger_i.NewLogger("Qdrant")

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     settings.QdrantHost,
		Port:     settings.QdrantPort,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant client: %w", err)
	}

	store := &Store{
		client:   client,
		embedder: embedder,
		logger:   logger,
	}
	go store.closeOnDone(ctx)
	return store, nil
}

func (db *Store) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	db.logger.Info("Shutting down Qdrant")
	if err := db.client.Close(); err != nil {
		db.logger.Error("could not close Qdrant: ", "error:", err)
	}
}

// CreateIndex drops any index of the same name first, so the caller always
// ends up with exactly one fresh empty index.
func (db *Store) CreateIndex(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("empty index name")
	}

	if err := db.DeleteIndex(ctx, name); err != nil {
		return err
	}

	err := db.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return classify(name, err)
	}

	// full-text index on content backs the keyword leg of hybrid search
	_, err = db.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: name,
		FieldName:      fieldContent,
		FieldType:      qdrant.FieldType_FieldTypeText.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return classify(name, err)
	}

	db.logger.Info("Created index", "name", name)
	return nil
}

// DeleteIndex is a no-op when the index does not exist.
func (db *Store) DeleteIndex(ctx context.Context, name string) error {
	exists, err := db.client.CollectionExists(ctx, name)
	if err != nil {
		return classify(name, err)
	}
	if !exists {
		return nil
	}
	if err := db.client.DeleteCollection(ctx, name); err != nil {
		return classify(name, err)
	}
	db.logger.Info("Deleted index", "name", name)
	return nil
}

func (db *Store) Search(ctx context.Context, query string, name string, mode docModel.SearchMode, k int) ([]docModel.Chunk, error) {
	vector, err := db.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	points, err := db.buildQuery(query, name, mode, k, vector)
	if err != nil {
		return nil, err
	}

	result, err := db.client.Query(ctx, points)
	if err != nil {
		return nil, classify(name, err)
	}

	chunks := make([]docModel.Chunk, 0, len(result))
	for _, hit := range result {
		chunks = append(chunks, docModel.Chunk{
			Id:       hit.Payload[fieldChunkId].GetStringValue(),
			Content:  hit.Payload[fieldContent].GetStringValue(),
			Metadata: decodeMetadata(hit.Payload[fieldMetadata].GetStringValue()),
			Source:   hit.Payload[fieldSource].GetStringValue(),
		})
	}
	return chunks, nil
}

// buildQuery maps the search mode onto a Qdrant query: plain dense search
// for similarity, RRF fusion of a dense and a full-text prefetch for hybrid,
// DBSF fusion for semantic_hybrid.
func (db *Store) buildQuery(query string, name string, mode docModel.SearchMode, k int, vector []float32) (*qdrant.QueryPoints, error) {
	limit := uint64(k)

	switch mode {
	case docModel.SearchSimilarity:
		return &qdrant.QueryPoints{
			CollectionName: name,
			Query:          qdrant.NewQuery(vector...),
			Limit:          qdrant.PtrOf(limit),
			WithPayload:    qdrant.NewWithPayload(true),
		}, nil

	case docModel.SearchHybrid, docModel.SearchSemanticHybrid:
		fusion := qdrant.Fusion_RRF
		if mode == docModel.SearchSemanticHybrid {
			fusion = qdrant.Fusion_DBSF
		}
		prefetchLimit := limit * 2
		return &qdrant.QueryPoints{
			CollectionName: name,
			Prefetch: []*qdrant.PrefetchQuery{
				{
					Query: qdrant.NewQuery(vector...),
					Limit: qdrant.PtrOf(prefetchLimit),
				},
				{
					Filter: &qdrant.Filter{
						Must: []*qdrant.Condition{qdrant.NewMatchText(fieldContent, query)},
					},
					Limit: qdrant.PtrOf(prefetchLimit),
				},
			},
			Query:       qdrant.NewQueryFusion(fusion),
			Limit:       qdrant.PtrOf(limit),
			WithPayload: qdrant.NewWithPayload(true),
		}, nil

	default:
		return nil, &ragErrors.ConfigError{Reason: "unknown search mode: " + string(mode)}
	}
}

func decodeMetadata(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var metadata map[string]string
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil
	}
	return metadata
}

// classify maps transport errors onto the shared taxonomy. Qdrant speaks
// grpc, so 429 equivalents arrive as ResourceExhausted, optionally with a
// RetryInfo detail carrying the server-requested backoff.
func classify(index string, err error) error {
	s, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch s.Code() {
	case codes.ResourceExhausted:
		retryAfter := config.DefaultRetryAfter
		for _, detail := range s.Details() {
			if info, ok := detail.(*errdetails.RetryInfo); ok && info.GetRetryDelay() != nil {
				retryAfter = info.GetRetryDelay().AsDuration()
			}
		}
		return &ragErrors.RateLimitError{RetryAfter: retryAfter, Err: err}

	case codes.NotFound:
		return &ragErrors.IndexNotFoundError{Index: index}

	default:
		return err
	}
}

var _ vectorDB.Index = (*Store)(nil)
