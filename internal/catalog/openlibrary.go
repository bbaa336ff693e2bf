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

// OpenLibraryAdapter searches the Open Library search API. Open Library is
// polite-crawl only, so requests are rate limited to one per second.
type OpenLibraryAdapter struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

func NewOpenLibraryAdapter() *OpenLibraryAdapter {
	return &OpenLibraryAdapter{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     "https://openlibrary.org/search.json",
		rateLimiter: newRateLimiter(time.Second),
	}
}

func (a *OpenLibraryAdapter) Name() string {
	return "Open Library"
}

func (a *OpenLibraryAdapter) Search(ctx context.Context, query string, opts Options) ([]entities.SearchResult, error) {
	a.rateLimiter.wait()

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(opts.MaxResults))
	params.Set("offset", strconv.Itoa(opts.StartIndex))
	params.Set("fields", "key,title,author_name,first_publish_year,isbn,cover_i,publisher,subject,has_fulltext,public_scan_b,ia")

	var data openLibraryResponse
	if err := getJSON(ctx, a.httpClient, a.baseURL+"?"+params.Encode(), &data); err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}

	results := make([]entities.SearchResult, 0, len(data.Docs))
	for _, doc := range data.Docs {
		r := a.mapDoc(doc)
		if opts.FreeOnly && !r.IsFree {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func (a *OpenLibraryAdapter) mapDoc(doc openLibraryDoc) entities.SearchResult {
	// Open Library has no explicit license flag; a book counts as free when
	// a full text or public scan exists.
	isFree := doc.HasFulltext || doc.PublicScan

	iaID := ""
	if len(doc.IA) > 0 {
		iaID = doc.IA[0]
	}

	// A direct archive.org PDF can only be asserted when a scan identifier
	// exists for a free book.
	downloadLink := ""
	if isFree && iaID != "" {
		downloadLink = fmt.Sprintf("https://archive.org/download/%s/%s.pdf", iaID, iaID)
	}

	title := doc.Title
	if title == "" {
		title = unknownTitle
	}
	authors := doc.AuthorName
	if len(authors) == 0 {
		authors = []string{unknownAuthor}
	}
	publisher := "Unknown"
	if len(doc.Publisher) > 0 {
		publisher = doc.Publisher[0]
	}

	publishedDate := ""
	if doc.FirstPublishYear != 0 {
		publishedDate = strconv.Itoa(doc.FirstPublishYear)
	}

	isbn := ""
	if len(doc.ISBN) > 0 {
		isbn = doc.ISBN[0]
	}

	categories := doc.Subject
	if len(categories) > 5 {
		categories = categories[:5]
	}

	thumbnail := ""
	if doc.CoverI != 0 {
		thumbnail = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverI)
	}

	return entities.SearchResult{
		ID:            doc.Key,
		Title:         title,
		Authors:       authors,
		Publisher:     publisher,
		PublishedDate: publishedDate,
		ISBN:          isbn,
		Categories:    categories,
		Thumbnail:     thumbnail,
		PreviewLink:   "https://openlibrary.org" + doc.Key,
		InfoLink:      "https://openlibrary.org" + doc.Key,
		IsFree:        isFree,
		PDFAvailable:  downloadLink != "",
		DownloadLink:  downloadLink,
		IAID:          iaID,
	}
}

// Open Library API response types (internal)

type openLibraryResponse struct {
	NumFound int              `json:"numFound"`
	Docs     []openLibraryDoc `json:"docs"`
}

type openLibraryDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	CoverI           int      `json:"cover_i"`
	Publisher        []string `json:"publisher"`
	Subject          []string `json:"subject"`
	HasFulltext      bool     `json:"has_fulltext"`
	PublicScan       bool     `json:"public_scan_b"`
	IA               []string `json:"ia"`
}
