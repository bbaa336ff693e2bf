package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkawano/hondana/internal/entities"
	"github.com/mkawano/hondana/internal/library"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLibraryManager(t *testing.T) *library.Manager {
	t.Helper()

	store := library.NewStore(filepath.Join(t.TempDir(), "library.json"))
	manager := library.NewManager(store)
	require.NoError(t, manager.Load())
	return manager
}

func newTestRouter(t *testing.T) (*gin.Engine, *library.Manager) {
	t.Helper()

	manager := newLibraryManager(t)
	router := NewRouter(RouterConfig{Library: manager, Version: "test"})
	return router, manager
}

func addTestBook(t *testing.T, manager *library.Manager, title string) entities.Book {
	t.Helper()

	book, err := manager.AddBook(library.AddBookInput{
		FilePath: "/books/" + title + ".epub",
		FileName: title + ".epub",
		Type:     entities.BookTypeEPUB,
		Title:    title,
		Authors:  []string{"Test Author"},
	})
	require.NoError(t, err)
	return book
}

func TestGetLibraryEndpoint(t *testing.T) {
	router, manager := newTestRouter(t)
	addTestBook(t, manager, "whole-document")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/library", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var doc entities.Library
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Books, 1)
	assert.Equal(t, "whole-document", doc.Books[0].Title)
	assert.False(t, doc.LastModified.IsZero())
}

func TestAddBookEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(AddBookRequest{
		FilePath: "/books/go.pdf",
		Type:     "pdf",
		Title:    "The Go Programming Language",
		Authors:  []string{"Alan Donovan", "Brian Kernighan"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/library/books", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "The Go Programming Language", book.Title)
	assert.Equal(t, "Alan Donovan, Brian Kernighan", book.Author)
	assert.True(t, book.IsFree)
}

func TestAddBookEndpoint_InvalidType(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(AddBookRequest{
		FilePath: "/books/odd.mobi",
		Type:     "mobi",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/library/books", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookEndpoint_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/library/books/no-such-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "book not found")
}

func TestDeleteBookEndpoint(t *testing.T) {
	router, manager := newTestRouter(t)
	book := addTestBook(t, manager, "disposable")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/library/books/"+book.ID, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	_, found := manager.GetBook(book.ID)
	assert.False(t, found)
}

func TestUpdateProgressEndpoint_Clamps(t *testing.T) {
	router, manager := newTestRouter(t)
	book := addTestBook(t, manager, "progress")

	body, _ := json.Marshal(UpdateProgressRequest{Progress: 150})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/library/books/"+book.ID+"/progress", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var updated entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, float64(100), updated.Progress)
	assert.NotNil(t, updated.LastReadDate)
}

func TestToggleFavoriteEndpoint(t *testing.T) {
	router, manager := newTestRouter(t)
	book := addTestBook(t, manager, "favorite")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/library/books/"+book.ID+"/favorite", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isFavorite":true`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/library/books/"+book.ID+"/favorite", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isFavorite":false`)
}

func TestBookmarkEndpoints(t *testing.T) {
	router, manager := newTestRouter(t)
	book := addTestBook(t, manager, "bookmarked")

	body, _ := json.Marshal(BookmarkRequest{Position: "chapter-3", Note: "resume here"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/library/books/"+book.ID+"/bookmarks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var bookmark entities.Bookmark
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookmark))
	require.NotEmpty(t, bookmark.ID)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/api/library/books/"+book.ID+"/bookmarks/"+bookmark.ID, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	stored, found := manager.GetBook(book.ID)
	require.True(t, found)
	assert.Empty(t, stored.Bookmarks)
}

func TestGetBooksEndpoint_FilterAndSort(t *testing.T) {
	router, manager := newTestRouter(t)
	addTestBook(t, manager, "beta")
	addTestBook(t, manager, "alpha")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/library/books?sort=title&order=asc", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Books []entities.Book `json:"books"`
		Count int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "alpha", resp.Books[0].Title)
	assert.Equal(t, "beta", resp.Books[1].Title)
}

func TestGetBooksEndpoint_UnknownFilter(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/library/books?filter=bogus", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	router, manager := newTestRouter(t)
	addTestBook(t, manager, "counted")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/library/statistics", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats library.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalBooks)
	assert.Equal(t, 1, stats.EPUBBooks)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status": "healthy"`)
}
