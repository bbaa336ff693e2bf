package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkawano/hondana/internal/entities"
	"github.com/mkawano/hondana/internal/library"
)

// LibraryStore is the slice of the library manager the controller needs.
type LibraryStore interface {
	Library() entities.Library
	AddBook(in library.AddBookInput) (entities.Book, error)
	RemoveBook(id string) (bool, error)
	GetBook(id string) (entities.Book, bool)
	GetAllBooks() []entities.Book
	GetFavoriteBooks() []entities.Book
	GetCurrentlyReading() []entities.Book
	GetFreeBooks() []entities.Book
	FilterByType(t entities.BookType) []entities.Book
	GetRecentBooks(limit int) []entities.Book
	UpdateProgress(id string, progress float64, pos library.Position) (bool, error)
	ToggleFavorite(id string) (favorite bool, found bool, err error)
	AddBookmark(id, position, note string) (*entities.Bookmark, error)
	RemoveBookmark(id, bookmarkID string) (bool, error)
	AddNote(id, content, position string) (*entities.Note, error)
	RemoveNote(id, noteID string) (bool, error)
	SearchBooks(query string) []entities.Book
	SortBooks(by, order string) []entities.Book
	GetStatistics() library.Statistics
}

// LibraryController exposes library CRUD and reading state over HTTP.
type LibraryController struct {
	store LibraryStore
}

func NewLibraryController(store LibraryStore) *LibraryController {
	return &LibraryController{store: store}
}

// GetBooks lists library books. Supported query parameters:
// filter (favorites|reading|free|recent), type (epub|pdf),
// sort (title|author|addedDate|lastReadDate) with optional order (asc|desc),
// and q for a substring search.
func (controller *LibraryController) GetBooks(c *gin.Context) {
	var books []entities.Book

	switch {
	case c.Query("q") != "":
		books = controller.store.SearchBooks(c.Query("q"))
	case c.Query("sort") != "":
		books = controller.store.SortBooks(c.Query("sort"), c.DefaultQuery("order", "asc"))
	case c.Query("type") != "":
		t := entities.BookType(c.Query("type"))
		if !t.Valid() {
			respondBadRequest(c, "invalid book type: "+c.Query("type"))
			return
		}
		books = controller.store.FilterByType(t)
	default:
		switch c.Query("filter") {
		case "":
			books = controller.store.GetAllBooks()
		case "favorites":
			books = controller.store.GetFavoriteBooks()
		case "reading":
			books = controller.store.GetCurrentlyReading()
		case "free":
			books = controller.store.GetFreeBooks()
		case "recent":
			limit := 10
			if raw := c.Query("limit"); raw != "" {
				parsed, err := strconv.Atoi(raw)
				if err != nil || parsed < 1 {
					respondBadRequest(c, "invalid limit")
					return
				}
				limit = parsed
			}
			books = controller.store.GetRecentBooks(limit)
		default:
			respondBadRequest(c, "unknown filter: "+c.Query("filter"))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// AddBookRequest is the payload for adding a book to the library.
type AddBookRequest struct {
	FilePath      string         `json:"filePath" binding:"required"`
	FileName      string         `json:"fileName"`
	Type          string         `json:"type" binding:"required"`
	Title         string         `json:"title"`
	Authors       []string       `json:"authors"`
	Author        string         `json:"author"`
	Publisher     string         `json:"publisher"`
	Thumbnail     string         `json:"thumbnail"`
	DownloadLink  string         `json:"downloadLink"`
	IsFree        *bool          `json:"isFree"`
	PDFAvailable  bool           `json:"pdfAvailable"`
	EPUBAvailable bool           `json:"epubAvailable"`
	Metadata      map[string]any `json:"metadata"`
}

// AddBook adds a book to the library.
// POST /api/library/books
func (controller *LibraryController) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := controller.store.AddBook(library.AddBookInput{
		FilePath:      req.FilePath,
		FileName:      req.FileName,
		Type:          entities.BookType(req.Type),
		Title:         req.Title,
		Authors:       req.Authors,
		Author:        req.Author,
		Publisher:     req.Publisher,
		Thumbnail:     req.Thumbnail,
		DownloadLink:  req.DownloadLink,
		IsFree:        req.IsFree,
		PDFAvailable:  req.PDFAvailable,
		EPUBAvailable: req.EPUBAvailable,
		Metadata:      req.Metadata,
	})
	if err != nil {
		if errors.Is(err, library.ErrInvalidBookType) || errors.Is(err, library.ErrMissingFilePath) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "add book")
		return
	}

	respondCreated(c, book)
}

// GetBook returns a single book by ID.
// GET /api/library/books/:id
func (controller *LibraryController) GetBook(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	book, found := controller.store.GetBook(id)
	if !found {
		respondNotFound(c, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book from the library.
// DELETE /api/library/books/:id
func (controller *LibraryController) DeleteBook(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	removed, err := controller.store.RemoveBook(id)
	if err != nil {
		respondInternalError(c, err, "remove book")
		return
	}
	if !removed {
		respondNotFound(c, "book")
		return
	}
	respondSuccess(c, "book removed")
}

// UpdateProgressRequest is the payload for a reading progress update.
type UpdateProgressRequest struct {
	Progress float64 `json:"progress"`
	Chapter  *int    `json:"chapter"`
	Page     *int    `json:"page"`
}

// UpdateProgress records reading progress and position for a book.
// PUT /api/library/books/:id/progress
func (controller *LibraryController) UpdateProgress(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	found, err := controller.store.UpdateProgress(id, req.Progress, library.Position{
		Chapter: req.Chapter,
		Page:    req.Page,
	})
	if err != nil {
		respondInternalError(c, err, "update progress")
		return
	}
	if !found {
		respondNotFound(c, "book")
		return
	}

	book, _ := controller.store.GetBook(id)
	c.JSON(http.StatusOK, book)
}

// ToggleFavorite flips the favorite flag on a book.
// POST /api/library/books/:id/favorite
func (controller *LibraryController) ToggleFavorite(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	favorite, found, err := controller.store.ToggleFavorite(id)
	if err != nil {
		respondInternalError(c, err, "toggle favorite")
		return
	}
	if !found {
		respondNotFound(c, "book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "isFavorite": favorite})
}

// BookmarkRequest is the payload for adding a bookmark.
type BookmarkRequest struct {
	Position string `json:"position" binding:"required"`
	Note     string `json:"note"`
}

// AddBookmark adds a bookmark to a book.
// POST /api/library/books/:id/bookmarks
func (controller *LibraryController) AddBookmark(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	var req BookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	bookmark, err := controller.store.AddBookmark(id, req.Position, req.Note)
	if err != nil {
		respondInternalError(c, err, "add bookmark")
		return
	}
	if bookmark == nil {
		respondNotFound(c, "book")
		return
	}
	respondCreated(c, bookmark)
}

// RemoveBookmark removes a bookmark from a book.
// DELETE /api/library/books/:id/bookmarks/:bookmarkId
func (controller *LibraryController) RemoveBookmark(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}
	bookmarkID, ok := requireIDParam(c, "bookmarkId")
	if !ok {
		return
	}

	removed, err := controller.store.RemoveBookmark(id, bookmarkID)
	if err != nil {
		respondInternalError(c, err, "remove bookmark")
		return
	}
	if !removed {
		respondNotFound(c, "bookmark")
		return
	}
	respondSuccess(c, "bookmark removed")
}

// NoteRequest is the payload for adding a note.
type NoteRequest struct {
	Content  string `json:"content" binding:"required"`
	Position string `json:"position"`
}

// AddNote adds a note to a book.
// POST /api/library/books/:id/notes
func (controller *LibraryController) AddNote(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	note, err := controller.store.AddNote(id, req.Content, req.Position)
	if err != nil {
		respondInternalError(c, err, "add note")
		return
	}
	if note == nil {
		respondNotFound(c, "book")
		return
	}
	respondCreated(c, note)
}

// RemoveNote removes a note from a book.
// DELETE /api/library/books/:id/notes/:noteId
func (controller *LibraryController) RemoveNote(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}
	noteID, ok := requireIDParam(c, "noteId")
	if !ok {
		return
	}

	removed, err := controller.store.RemoveNote(id, noteID)
	if err != nil {
		respondInternalError(c, err, "remove note")
		return
	}
	if !removed {
		respondNotFound(c, "note")
		return
	}
	respondSuccess(c, "note removed")
}

// GetLibrary returns the whole library document.
// GET /api/library
func (controller *LibraryController) GetLibrary(c *gin.Context) {
	c.JSON(http.StatusOK, controller.store.Library())
}

// GetStatistics returns aggregate library counts.
// GET /api/library/statistics
func (controller *LibraryController) GetStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, controller.store.GetStatistics())
}
