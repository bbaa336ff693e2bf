// Package metadata fills gaps in library book records from external
// catalog sources.
package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkawano/hondana/internal/catalog"
	"github.com/mkawano/hondana/internal/entities"
	"github.com/mkawano/hondana/internal/library"
)

// SearchProvider is the catalog source queried for candidate matches.
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query string, opts catalog.Options) ([]entities.SearchResult, error)
}

// BookStore is the slice of the library manager the enricher needs.
type BookStore interface {
	GetBook(id string) (entities.Book, bool)
	UpdateBookMetadata(id string, update library.MetadataUpdate) (bool, error)
}

// CoverInvalidator drops a cached cover when its URL changes.
type CoverInvalidator interface {
	InvalidateCover(bookID string) error
}

// EnrichmentResult describes what an enrichment run changed.
type EnrichmentResult struct {
	Book          entities.Book `json:"book"`
	FieldsUpdated []string      `json:"fields_updated"`
	Source        string        `json:"source"`
}

// Enricher handles book metadata enrichment from external sources.
type Enricher struct {
	provider         SearchProvider
	store            BookStore
	coverInvalidator CoverInvalidator
}

func NewEnricher(provider SearchProvider, store BookStore) *Enricher {
	return &Enricher{provider: provider, store: store}
}

// SetCoverInvalidator sets the cover cache invalidator (optional).
func (e *Enricher) SetCoverInvalidator(invalidator CoverInvalidator) {
	e.coverInvalidator = invalidator
}

// EnrichBook searches the provider for the book and fills in missing
// publisher, thumbnail and ISBN fields. Fields already set are left alone.
func (e *Enricher) EnrichBook(ctx context.Context, bookID string) (*EnrichmentResult, error) {
	book, ok := e.store.GetBook(bookID)
	if !ok {
		return nil, fmt.Errorf("book not found: %s", bookID)
	}

	query := book.Title
	if len(book.Authors) > 0 && book.Authors[0] != "Unknown Author" {
		query = book.Title + " " + book.Authors[0]
	}

	opts := catalog.DefaultOptions()
	opts.MaxResults = 5
	opts.FreeOnly = false
	opts.Subject = ""

	candidates, err := e.provider.Search(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("metadata search failed: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no metadata candidates for: %s", book.Title)
	}

	match := findBestMatch(candidates, book.Title, book.Author)

	var update library.MetadataUpdate
	var fields []string

	if book.Publisher == "" && match.Publisher != "" && match.Publisher != "Unknown" {
		update.Publisher = &match.Publisher
		fields = append(fields, "publisher")
	}
	if book.Thumbnail == "" && match.Thumbnail != "" {
		update.Thumbnail = &match.Thumbnail
		fields = append(fields, "thumbnail")
	}
	if _, has := book.Metadata["isbn"]; !has && match.ISBN != "" {
		update.ISBN = &match.ISBN
		fields = append(fields, "isbn")
	}

	if len(fields) > 0 {
		if update.Thumbnail != nil && e.coverInvalidator != nil {
			_ = e.coverInvalidator.InvalidateCover(bookID)
		}
		if _, err := e.store.UpdateBookMetadata(bookID, update); err != nil {
			return nil, fmt.Errorf("update book metadata: %w", err)
		}
		book, _ = e.store.GetBook(bookID)
	}

	return &EnrichmentResult{
		Book:          book,
		FieldsUpdated: fields,
		Source:        e.provider.Name(),
	}, nil
}

// findBestMatch prefers exact title matches, then matching authors, then
// candidates carrying an ISBN or a cover.
func findBestMatch(candidates []entities.SearchResult, title, author string) entities.SearchResult {
	titleLower := strings.ToLower(title)
	authorLower := strings.ToLower(author)

	best := candidates[0]
	bestScore := -1

	for _, c := range candidates {
		score := 0

		candidateTitle := strings.ToLower(c.Title)
		if candidateTitle == titleLower {
			score += 10
		} else if strings.Contains(candidateTitle, titleLower) {
			score += 5
		}

		if author != "" {
			for _, au := range c.Authors {
				if strings.ToLower(au) == authorLower {
					score += 10
					break
				} else if strings.Contains(strings.ToLower(au), authorLower) {
					score += 5
					break
				}
			}
		}

		if c.ISBN != "" {
			score += 2
		}
		if c.Thumbnail != "" {
			score++
		}

		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}
