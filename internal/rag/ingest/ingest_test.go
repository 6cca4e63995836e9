package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
)

type mockIndex struct {
	createErr  error
	upsertErr  error
	upsertFunc func(call int, chunks []docModel.Chunk) error

	created     []string
	upserted    []docModel.Chunk
	upsertCalls int
}

func (m *mockIndex) CreateIndex(ctx context.Context, name string) error {
	m.created = append(m.created, name)
	return m.createErr
}
func (m *mockIndex) DeleteIndex(ctx context.Context, name string) error { return nil }

// Search does naive substring matching over everything upserted so far, so
// round-trip tests can check recall without a live index.
func (m *mockIndex) Search(ctx context.Context, query string, name string, mode docModel.SearchMode, k int) ([]docModel.Chunk, error) {
	var hits []docModel.Chunk
	for _, chunk := range m.upserted {
		if strings.Contains(chunk.Content, query) && len(hits) < k {
			hits = append(hits, chunk)
		}
	}
	return hits, nil
}
func (m *mockIndex) Upsert(ctx context.Context, name string, chunks []docModel.Chunk) ([]string, error) {
	m.upsertCalls++
	if m.upsertFunc != nil {
		if err := m.upsertFunc(m.upsertCalls, chunks); err != nil {
			return nil, err
		}
	}
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.upserted = append(m.upserted, chunks...)
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.Id
	}
	return ids, nil
}

func fastPipeline(index *mockIndex) *Pipeline {
	p := NewPipeline(index)
	p.upserter.InterBatchDelay = 0
	return p
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestIngest_RoundTrip(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"handbook.txt": "Employees accrue vacation monthly. The marker is ZXQ7_MARKER for this test.",
	})

	index := &mockIndex{}
	summary, err := fastPipeline(index).Ingest(context.Background(), dir, "hr-docs")
	if err != nil {
		t.Fatal(err)
	}

	if summary.Ingested != 1 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if len(index.created) != 1 || index.created[0] != "hr-docs" {
		t.Errorf("index creation calls = %v", index.created)
	}
	if len(index.upserted) == 0 {
		t.Fatal("nothing was upserted")
	}

	for _, chunk := range index.upserted {
		if chunk.Metadata[docModel.MetaSource] == "" {
			t.Error("chunk lost its source metadata")
		}
	}

	hits, err := index.Search(context.Background(), "ZXQ7_MARKER", "hr-docs", docModel.SearchHybrid, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 {
		t.Error("an ingested marker must be retrievable from the index")
	}
}

func TestIngest_SkipsUnsupportedExtensions(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"policy.txt": "remote work is allowed two days a week",
		"logo.png":   "not really an image",
		"excel.xlsx": "binary-ish",
	})

	index := &mockIndex{}
	summary, err := fastPipeline(index).Ingest(context.Background(), dir, "hr-docs")
	if err != nil {
		t.Fatal(err)
	}

	if summary.Ingested != 1 {
		t.Errorf("ingested = %d, want 1", summary.Ingested)
	}
	if summary.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", summary.Skipped)
	}
}

func TestIngest_IndexCreateFailureIsNotFatal(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "content survives create failure"})

	index := &mockIndex{createErr: errors.New("collection exists")}
	summary, err := fastPipeline(index).Ingest(context.Background(), dir, "hr-docs")
	if err != nil {
		t.Fatal(err)
	}
	if summary.Ingested != 1 {
		t.Errorf("ingested = %d, want 1", summary.Ingested)
	}
	if len(index.upserted) == 0 {
		t.Error("documents should still be indexed when creation fails")
	}
}

func TestIngest_BadFileIsCountedAndSkipped(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.txt": "fine content",
	})
	// invalid UTF-8 makes the loader fail for this file only
	if err := os.WriteFile(filepath.Join(dir, "bad.txt"), []byte{0xff, 0xfe}, 0644); err != nil {
		t.Fatal(err)
	}

	index := &mockIndex{}
	summary, err := fastPipeline(index).Ingest(context.Background(), dir, "hr-docs")
	if err != nil {
		t.Fatal(err)
	}

	if summary.Failed != 1 {
		t.Errorf("failed = %d, want 1", summary.Failed)
	}
	if summary.Ingested != 1 {
		t.Errorf("ingested = %d, want 1", summary.Ingested)
	}
}

func TestIngest_PartialUpsertStillCountsLandedChunks(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"long.txt": "one two three four five six seven eight nine ten",
	})

	index := &mockIndex{
		upsertFunc: func(call int, chunks []docModel.Chunk) error {
			if call > 1 {
				return &ragErrors.RateLimitError{Err: errors.New("quota exhausted")}
			}
			return nil
		},
	}

	p := fastPipeline(index)
	p.chunkSize = 5
	p.chunkOverlap = 0
	p.upserter.BatchSize = 1
	p.upserter.MaxRetries = 0

	summary, err := p.Ingest(context.Background(), dir, "hr-docs")
	if err != nil {
		t.Fatal(err)
	}

	if summary.Failed != 1 || summary.Ingested != 0 {
		t.Errorf("summary = %+v, want one failed file", summary)
	}
	if summary.Chunks != 1 {
		t.Errorf("chunks = %d, want the one batch that landed before the rate limit", summary.Chunks)
	}
	if len(index.upserted) != 1 {
		t.Errorf("index holds %d chunks, want 1", len(index.upserted))
	}
}

func TestIngest_MissingFolder(t *testing.T) {
	index := &mockIndex{}
	if _, err := fastPipeline(index).Ingest(context.Background(), filepath.Join(t.TempDir(), "absent"), "hr-docs"); err == nil {
		t.Fatal("expected an error for a missing folder")
	}
}

func TestIngest_DeterministicOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.txt": "second SOURCE_B",
		"a.txt": "first SOURCE_A",
	})

	index := &mockIndex{}
	if _, err := fastPipeline(index).Ingest(context.Background(), dir, "hr-docs"); err != nil {
		t.Fatal(err)
	}

	if len(index.upserted) != 2 {
		t.Fatalf("got %d chunks, want 2", len(index.upserted))
	}
	if !strings.Contains(index.upserted[0].Content, "SOURCE_A") {
		t.Errorf("a.txt should be indexed first, got %q", index.upserted[0].Content)
	}
}
