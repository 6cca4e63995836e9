package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/rag/embedding"
	"github.com/akolanti/RAGChat/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/RAGChat/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/RAGChat/internal/rag/ingest"
	"github.com/akolanti/RAGChat/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

// One-shot indexer: wipes the target index and loads every supported
// document from the folder into it.
func main() {

	_ = godotenv.Load()

	logger_i.Init()
	var logger = logger_i.NewLogger("ingest")

	settings := config.LoadSettings()

	var folder string
	var index string
	flag.StringVar(&folder, "folder", "./documents", "folder of documents to index")
	flag.StringVar(&index, "index", settings.IndexName, "target index name")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), config.IngestTimeout)
	defer cancel()

	var embedder embedding.Embedder
	if settings.Provider == config.ProviderGemini {
		var err error
		embedder, err = googleEmbedding.NewClient(ctx, settings)
		if err != nil {
			logger.Error("Embedding provider failed to initialize", "error", err)
			return
		}
	} else {
		embedder = openaiEmbedding.NewClient(settings)
	}

	vectorStore, err := qdrantDB.NewStore(ctx, settings, embedder)
	if err != nil {
		logger.Error("Vector store failed to initialize", "error", err)
		return
	}

	pipeline := ingest.NewPipeline(vectorStore)
	summary, err := pipeline.Ingest(ctx, folder, index)
	if err != nil {
		logger.Error("Ingestion aborted", "error", err)
		return
	}
	logger.Info("Done", "ingested", summary.Ingested, "skipped", summary.Skipped, "failed", summary.Failed, "chunks", summary.Chunks)
}
