package vectorDB

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
	"github.com/akolanti/RAGChat/internal/metrics"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

// BatchUpserter pushes chunks into an index in fixed-size batches with
// client-side throttling. A rate-limited batch is retried in place after the
// provider-supplied backoff; any other failure skips just that batch, so a
// single bad batch never sinks the whole ingestion.
type BatchUpserter struct {
	Index           Index
	BatchSize       int
	InterBatchDelay time.Duration
	MaxRetries      int

	logger *logger_i.Logger
}

func NewBatchUpserter(index Index) *BatchUpserter {
	return &BatchUpserter{
		Index:           index,
		BatchSize:       config.UpsertBatchSize,
		InterBatchDelay: config.InterBatchDelay,
		MaxRetries:      config.MaxRateLimitRetries,
		logger:          logger_i.NewLogger("Batch Upsert"),
	}
}

// UpsertWithRetry returns the ids of every chunk that made it into the
// index. The only fatal conditions are context cancellation and a batch that
// stays rate limited past MaxRetries - both return the ids collected so far
// together with the error.
func (b *BatchUpserter) UpsertWithRetry(ctx context.Context, name string, chunks []docModel.Chunk) ([]string, error) {
	var ids []string

	for start := 0; start < len(chunks); start += b.BatchSize {
		end := start + b.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		attempts := 0
		for {
			batchIds, err := b.Index.Upsert(ctx, name, batch)
			if err == nil {
				ids = append(ids, batchIds...)
				b.logger.Info("Upserted batch", "index", name, "from", start, "to", end)
				metrics.CountUpsertBatch("ok")
				break
			}

			var rateLimit *ragErrors.RateLimitError
			if errors.As(err, &rateLimit) {
				attempts++
				metrics.CountUpsertBatch("rate_limited")
				if attempts > b.MaxRetries {
					return ids, &ragErrors.RateLimitError{
						RetryAfter: rateLimit.RetryAfter,
						Err:        fmt.Errorf("batch %d-%d still rate limited after %d attempts: %w", start, end, attempts, err),
					}
				}

				retryAfter := rateLimit.RetryAfter
				if retryAfter <= 0 {
					retryAfter = config.DefaultRetryAfter
				}
				b.logger.Warn("Rate limit hit, retrying batch", "index", name, "from", start, "retryAfter", retryAfter, "attempt", attempts)
				if sleepErr := sleepCtx(ctx, retryAfter); sleepErr != nil {
					return ids, sleepErr
				}
				continue //same batch again
			}

			// permanent failure: skip this batch, keep going
			b.logger.Error("Upsert batch failed, skipping", "index", name, "from", start, "to", end, "error", err)
			metrics.CountUpsertBatch("skipped")
			break
		}

		if end < len(chunks) {
			if err := sleepCtx(ctx, b.InterBatchDelay); err != nil {
				return ids, err
			}
		}
	}

	return ids, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
