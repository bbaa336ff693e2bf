package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mkawano/hondana/internal/entities"
)

// GutenbergAdapter searches Project Gutenberg through the gutendex API.
// Everything on Gutenberg is public domain, so results are always free.
type GutenbergAdapter struct {
	httpClient *http.Client
	baseURL    string
}

func NewGutenbergAdapter() *GutenbergAdapter {
	return &GutenbergAdapter{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://gutendex.com/books",
	}
}

func (a *GutenbergAdapter) Name() string {
	return "Project Gutenberg"
}

func (a *GutenbergAdapter) Search(ctx context.Context, query string, opts Options) ([]entities.SearchResult, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("mime_type", "application/pdf")

	var data gutendexResponse
	if err := getJSON(ctx, a.httpClient, a.baseURL+"?"+params.Encode(), &data); err != nil {
		return nil, fmt.Errorf("gutenberg: %w", err)
	}

	items := data.Results
	if opts.MaxResults > 0 && len(items) > opts.MaxResults {
		items = items[:opts.MaxResults]
	}

	results := make([]entities.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, a.mapItem(item))
	}
	return results, nil
}

func (a *GutenbergAdapter) mapItem(item gutendexBook) entities.SearchResult {
	title := item.Title
	if title == "" {
		title = unknownTitle
	}

	authors := make([]string, 0, len(item.Authors))
	for _, au := range item.Authors {
		authors = append(authors, au.Name)
	}
	if len(authors) == 0 {
		authors = []string{unknownAuthor}
	}

	downloadLink := item.Formats["application/pdf"]
	if downloadLink == "" {
		downloadLink = item.Formats["application/x-pdf"]
	}

	categories := item.Subjects
	if len(categories) > 5 {
		categories = categories[:5]
	}

	id := strconv.Itoa(item.ID)
	_, hasEPUB := item.Formats["application/epub+zip"]

	return entities.SearchResult{
		ID:            "gutenberg-" + id,
		Title:         title,
		Authors:       authors,
		Publisher:     "Project Gutenberg",
		Categories:    categories,
		Thumbnail:     item.Formats["image/jpeg"],
		PreviewLink:   "https://www.gutenberg.org/ebooks/" + id,
		InfoLink:      "https://www.gutenberg.org/ebooks/" + id,
		IsFree:        true,
		PDFAvailable:  downloadLink != "",
		EPUBAvailable: hasEPUB,
		DownloadLink:  downloadLink,
	}
}

// gutendex API response types (internal)

type gutendexResponse struct {
	Count   int            `json:"count"`
	Results []gutendexBook `json:"results"`
}

type gutendexBook struct {
	ID       int               `json:"id"`
	Title    string            `json:"title"`
	Authors  []gutendexAuthor  `json:"authors"`
	Subjects []string          `json:"subjects"`
	Formats  map[string]string `json:"formats"`
}

type gutendexAuthor struct {
	Name string `json:"name"`
}
