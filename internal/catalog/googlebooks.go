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

// GoogleBooksAdapter searches the Google Books volumes API.
type GoogleBooksAdapter struct {
	httpClient *http.Client
	baseURL    string
}

func NewGoogleBooksAdapter() *GoogleBooksAdapter {
	return &GoogleBooksAdapter{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://www.googleapis.com/books/v1/volumes",
	}
}

func (a *GoogleBooksAdapter) Name() string {
	return "Google Books"
}

func (a *GoogleBooksAdapter) Search(ctx context.Context, query string, opts Options) ([]entities.SearchResult, error) {
	q := query
	if opts.Subject != "" {
		q = fmt.Sprintf("%s+subject:%s", query, opts.Subject)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", strconv.Itoa(opts.MaxResults))
	params.Set("startIndex", strconv.Itoa(opts.StartIndex))
	params.Set("printType", "books")
	params.Set("orderBy", "relevance")

	var data googleBooksResponse
	if err := getJSON(ctx, a.httpClient, a.baseURL+"?"+params.Encode(), &data); err != nil {
		return nil, fmt.Errorf("google books: %w", err)
	}

	results := make([]entities.SearchResult, 0, len(data.Items))
	for _, item := range data.Items {
		r := a.mapItem(item)
		if opts.FreeOnly && !r.IsFree {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func (a *GoogleBooksAdapter) mapItem(item googleBooksItem) entities.SearchResult {
	vi := item.VolumeInfo
	si := item.SaleInfo
	ai := item.AccessInfo

	// Free when Google says so outright, or when a full format is available
	// with no list price attached.
	isFree := si.Saleability == "FREE" ||
		si.Saleability == "NOT_FOR_SALE" ||
		ai.AccessViewStatus == "FULL_PUBLIC_DOMAIN" ||
		(ai.PDF.IsAvailable && si.ListPrice == nil) ||
		(ai.EPUB.IsAvailable && si.ListPrice == nil)

	title := vi.Title
	if title == "" {
		title = unknownTitle
	}
	authors := vi.Authors
	if len(authors) == 0 {
		authors = []string{unknownAuthor}
	}
	publisher := vi.Publisher
	if publisher == "" {
		publisher = "Unknown"
	}

	thumbnail := vi.ImageLinks.Thumbnail
	if thumbnail == "" {
		thumbnail = vi.ImageLinks.SmallThumbnail
	}

	// Only a direct PDF link counts as a download link, and only for free
	// volumes; preview pages are not downloads.
	downloadLink := ""
	if isFree && ai.PDF.DownloadLink != "" {
		downloadLink = ai.PDF.DownloadLink
	}

	return entities.SearchResult{
		ID:            item.ID,
		Title:         title,
		Authors:       authors,
		Publisher:     publisher,
		PublishedDate: vi.PublishedDate,
		Description:   vi.Description,
		ISBN:          extractISBN(vi.IndustryIdentifiers),
		PageCount:     vi.PageCount,
		Categories:    vi.Categories,
		Thumbnail:     thumbnail,
		PreviewLink:   vi.PreviewLink,
		InfoLink:      vi.InfoLink,
		Rating:        vi.AverageRating,
		RatingsCount:  vi.RatingsCount,
		IsFree:        isFree,
		PDFAvailable:  ai.PDF.IsAvailable,
		EPUBAvailable: ai.EPUB.IsAvailable,
		DownloadLink:  downloadLink,
	}
}

// extractISBN prefers ISBN-13 over ISBN-10.
func extractISBN(identifiers []industryIdentifier) string {
	for _, id := range identifiers {
		if id.Type == "ISBN_13" {
			return id.Identifier
		}
	}
	for _, id := range identifiers {
		if id.Type == "ISBN_10" {
			return id.Identifier
		}
	}
	return ""
}

// Google Books API response types (internal)

type googleBooksResponse struct {
	TotalItems int               `json:"totalItems"`
	Items      []googleBooksItem `json:"items"`
}

type googleBooksItem struct {
	ID         string           `json:"id"`
	VolumeInfo googleVolumeInfo `json:"volumeInfo"`
	SaleInfo   googleSaleInfo   `json:"saleInfo"`
	AccessInfo googleAccessInfo `json:"accessInfo"`
}

type googleVolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	ImageLinks          googleImageLinks     `json:"imageLinks"`
	PreviewLink         string               `json:"previewLink"`
	InfoLink            string               `json:"infoLink"`
	AverageRating       float64              `json:"averageRating"`
	RatingsCount        int                  `json:"ratingsCount"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type googleImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

type googleSaleInfo struct {
	Saleability string           `json:"saleability"`
	ListPrice   *googleListPrice `json:"listPrice"`
	BuyLink     string           `json:"buyLink"`
}

type googleListPrice struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

type googleAccessInfo struct {
	AccessViewStatus string             `json:"accessViewStatus"`
	PDF              googleFormatAccess `json:"pdf"`
	EPUB             googleFormatAccess `json:"epub"`
}

type googleFormatAccess struct {
	IsAvailable  bool   `json:"isAvailable"`
	DownloadLink string `json:"downloadLink"`
}
