package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/rag/chunker"
	"github.com/akolanti/RAGChat/internal/rag/source"
	"github.com/akolanti/RAGChat/internal/rag/vectorDB"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

// Summary reports what one Ingest run did with the folder contents.
type Summary struct {
	Ingested int // files fully loaded, chunked and upserted
	Skipped  int // files with an unsupported extension
	Failed   int // files that errored at load, chunk or upsert time
	Chunks   int // total chunks written to the index
}

// Pipeline walks a folder of documents into a vector index. Creation of the
// index wipes any previous contents under the same name.
type Pipeline struct {
	index        vectorDB.Index
	upserter     *vectorDB.BatchUpserter
	chunkSize    int
	chunkOverlap int
	logger       *logger_i.Logger
}

func NewPipeline(index vectorDB.Index) *Pipeline {
	return &Pipeline{
		index:        index,
		upserter:     vectorDB.NewBatchUpserter(index),
		chunkSize:    config.DefaultChunkSize,
		chunkOverlap: config.DefaultChunkOverlap,
		logger:       logger_i.NewLogger("Ingestion Pipeline"),
	}
}

// Ingest recreates indexName and loads every supported file under folderPath
// into it. Files are processed in lexical order so repeated runs over the same
// folder write the same sequence. A file that fails to load or upsert is
// logged and skipped, it never aborts the run.
func (p *Pipeline) Ingest(ctx context.Context, folderPath, indexName string) (Summary, error) {
	var summary Summary

	if err := p.index.CreateIndex(ctx, indexName); err != nil {
		// The collection may already exist in a usable state, keep going.
		p.logger.Error("Index creation failed, continuing with existing index", "index", indexName, "error", err)
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return summary, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(folderPath, entry.Name())

		kind, ok := source.KindForPath(path)
		if !ok {
			p.logger.Warn("Skipping unsupported file", "path", path)
			summary.Skipped++
			continue
		}

		written, err := p.ingestFile(ctx, path, kind, indexName)
		if err != nil {
			p.logger.Error("File ingestion failed", "path", path, "error", err)
			summary.Failed++
			// a mid-file failure still leaves earlier batches in the index
			summary.Chunks += written
			continue
		}
		summary.Ingested++
		summary.Chunks += written
	}

	p.logger.Info("Ingestion run complete",
		"index", indexName,
		"ingested", summary.Ingested,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"chunks", summary.Chunks)
	return summary, nil
}

func (p *Pipeline) ingestFile(ctx context.Context, path string, kind docModel.DocKind, indexName string) (int, error) {
	documents, err := source.Load(path, kind)
	if err != nil {
		return 0, err
	}

	chunks, err := chunker.Split(documents, docModel.MethodToken, p.chunkSize, p.chunkOverlap)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		p.logger.Warn("File produced no chunks", "path", path)
		return 0, nil
	}

	ids, err := p.upserter.UpsertWithRetry(ctx, indexName, chunks)
	if err != nil {
		return len(ids), err
	}
	p.logger.Info("File ingested", "path", path, "chunks", len(ids))
	return len(ids), nil
}
