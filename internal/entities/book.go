package entities

import (
	"strings"
	"time"
)

// BookType identifies which reader collaborator handles a library entry.
type BookType string

const (
	BookTypeEPUB BookType = "epub"
	BookTypePDF  BookType = "pdf"
)

// Valid reports whether t is a known book type.
func (t BookType) Valid() bool {
	return t == BookTypeEPUB || t == BookTypePDF
}

// Bookmark is a saved reading position inside a book.
type Bookmark struct {
	ID          string    `json:"id"`
	Position    string    `json:"position"`
	Note        string    `json:"note"`
	CreatedDate time.Time `json:"createdDate"`
}

// Note is a free-form annotation attached to a position in a book.
type Note struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Position    string    `json:"position"`
	CreatedDate time.Time `json:"createdDate"`
}

// Book is a persisted library entry: one imported file plus its reading state.
//
// Authors is the source of truth and is never empty; Author is the joined
// form kept for backward compatibility with older library documents. Both
// are set together at construction time and never re-derived on read.
type Book struct {
	ID             string         `json:"id"`
	FilePath       string         `json:"filePath"`
	FileName       string         `json:"fileName"`
	Type           BookType       `json:"type"`
	Title          string         `json:"title"`
	Author         string         `json:"author"`
	Authors        []string       `json:"authors"`
	Publisher      string         `json:"publisher,omitempty"`
	AddedDate      time.Time      `json:"addedDate"`
	LastReadDate   *time.Time     `json:"lastReadDate,omitempty"`
	Progress       float64        `json:"progress"`
	CurrentChapter *int           `json:"currentChapter"`
	CurrentPage    *int           `json:"currentPage"`
	Bookmarks      []Bookmark     `json:"bookmark"`
	Notes          []Note         `json:"notes"`
	Favorite       bool           `json:"favorite"`
	IsFree         bool           `json:"isFree"`
	PDFAvailable   bool           `json:"pdfAvailable"`
	EPUBAvailable  bool           `json:"epubAvailable"`
	DownloadLink   string         `json:"downloadLink,omitempty"`
	Thumbnail      string         `json:"thumbnail,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Library is the on-disk document: a single JSON file holding every book.
type Library struct {
	Books        []Book    `json:"books"`
	LastModified time.Time `json:"lastModified"`
}

// NormalizeAuthors resolves the authors-list / author-string duplication at
// a single point. Whichever form the caller supplied wins; an empty input
// yields the "Unknown Author" sentinel.
func NormalizeAuthors(authors []string, author string) ([]string, string) {
	switch {
	case len(authors) > 0:
		return authors, strings.Join(authors, ", ")
	case author != "":
		return []string{author}, author
	default:
		return []string{"Unknown Author"}, "Unknown Author"
	}
}
