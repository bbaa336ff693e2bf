package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkawano/hondana/internal/catalog"
	"github.com/mkawano/hondana/internal/entities"
)

// BookSearcher fans a query out to the catalog sources.
type BookSearcher interface {
	SearchAll(ctx context.Context, query string, opts catalog.Options) ([]entities.SearchResult, error)
}

// SearchController exposes aggregated free book search over HTTP.
type SearchController struct {
	searcher BookSearcher
	defaults catalog.Options
}

func NewSearchController(searcher BookSearcher, defaults catalog.Options) *SearchController {
	return &SearchController{searcher: searcher, defaults: defaults}
}

// Search runs an aggregated catalog search.
// GET /api/search?q=...&maxResults=...&subject=...&freeOnly=...
func (controller *SearchController) Search(c *gin.Context) {
	query, ok := requireQueryParam(c, "q")
	if !ok {
		return
	}

	opts := controller.defaults
	if raw := c.Query("maxResults"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondBadRequest(c, "invalid maxResults")
			return
		}
		opts.MaxResults = parsed
	}
	if raw := c.Query("startIndex"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondBadRequest(c, "invalid startIndex")
			return
		}
		opts.StartIndex = parsed
	}
	if subject := c.Query("subject"); subject != "" {
		opts.Subject = subject
	}
	if raw := c.Query("freeOnly"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, "invalid freeOnly")
			return
		}
		opts.FreeOnly = parsed
	}

	results, err := controller.searcher.SearchAll(c.Request.Context(), query, opts)
	if err != nil {
		respondError(c, http.StatusBadGateway, "all catalog sources are unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": results, "count": len(results)})
}

// GetTopics lists the curated search topics.
// GET /api/search/topics
func (controller *SearchController) GetTopics(c *gin.Context) {
	topics := catalog.PopularTopics()
	c.JSON(http.StatusOK, gin.H{"topics": topics, "count": len(topics)})
}

// GetPublishers lists publishers known for free releases.
// GET /api/search/publishers
func (controller *SearchController) GetPublishers(c *gin.Context) {
	publishers := catalog.Publishers()
	c.JSON(http.StatusOK, gin.H{"publishers": publishers, "count": len(publishers)})
}
