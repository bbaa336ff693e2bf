package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkawano/hondana/internal/covers"
	"github.com/mkawano/hondana/internal/entities"
)

// BookGetter provides read access to single books.
type BookGetter interface {
	GetBook(id string) (entities.Book, bool)
}

// CoversController handles book cover requests.
type CoversController struct {
	cache *covers.Cache
	books BookGetter
}

// NewCoversController creates a new CoversController.
func NewCoversController(cache *covers.Cache, books BookGetter) *CoversController {
	return &CoversController{
		cache: cache,
		books: books,
	}
}

// GetCover serves a cached book cover image.
// GET /api/library/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	book, found := cc.books.GetBook(id)
	if !found {
		c.Status(http.StatusNotFound)
		return
	}

	if book.Thumbnail == "" {
		c.Status(http.StatusNotFound)
		return
	}

	// Get cached cover (will fetch if not cached)
	cachePath, err := cc.cache.GetCover(id, book.Thumbnail)
	if err != nil || cachePath == "" {
		// Fallback: redirect to original URL
		c.Redirect(http.StatusTemporaryRedirect, book.Thumbnail)
		return
	}

	c.File(cachePath)
}
