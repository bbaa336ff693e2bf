package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mkawano/hondana/internal/metadata"
)

// EnrichBookTask enriches a single book's metadata from external sources.
type EnrichBookTask struct {
	BookID string `json:"book_id"`
}

// Config returns the queue configuration for book enrichment tasks.
func (t EnrichBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichBookProcessor creates a processor function for EnrichBookTask.
func EnrichBookProcessor(enricher *metadata.Enricher, logger *zap.Logger) backlite.QueueProcessor[EnrichBookTask] {
	return func(ctx context.Context, task EnrichBookTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.EnrichBook(ctx, task.BookID)
		if err != nil {
			return fmt.Errorf("enrich book %s: %w", task.BookID, err)
		}

		if len(result.FieldsUpdated) > 0 {
			logger.Info("book metadata enriched",
				zap.String("book_id", task.BookID),
				zap.String("title", result.Book.Title),
				zap.Strings("fields", result.FieldsUpdated),
				zap.String("source", result.Source))
		} else {
			logger.Info("book metadata already complete",
				zap.String("book_id", task.BookID),
				zap.String("title", result.Book.Title))
		}

		return nil
	}
}

// NewEnrichBookQueue creates a backlite queue for book enrichment tasks.
func NewEnrichBookQueue(enricher *metadata.Enricher, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(EnrichBookProcessor(enricher, logger))
}
