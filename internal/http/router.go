package http

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/mkawano/hondana/internal/catalog"
	"github.com/mkawano/hondana/internal/covers"
)

// RouterConfig carries all dependencies the router needs. Optional fields
// may be nil; the corresponding endpoints are simply not registered.
type RouterConfig struct {
	Library        LibraryStore
	Searcher       BookSearcher
	SearchDefaults catalog.Options
	TaskClient     TaskEnqueuer
	Translator     Translator
	SourceLang     string
	TargetLang     string
	CoverCache     *covers.Cache
	TasksDB        *sql.DB
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Library, cfg.TasksDB, cfg.Version)
	libraryController := NewLibraryController(cfg.Library)

	// Health endpoints
	router.GET("/api/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Library endpoints
	router.GET("/api/library", libraryController.GetLibrary)
	router.GET("/api/library/books", libraryController.GetBooks)
	router.POST("/api/library/books", libraryController.AddBook)
	router.GET("/api/library/books/:id", libraryController.GetBook)
	router.DELETE("/api/library/books/:id", libraryController.DeleteBook)
	router.PUT("/api/library/books/:id/progress", libraryController.UpdateProgress)
	router.POST("/api/library/books/:id/favorite", libraryController.ToggleFavorite)
	router.POST("/api/library/books/:id/bookmarks", libraryController.AddBookmark)
	router.DELETE("/api/library/books/:id/bookmarks/:bookmarkId", libraryController.RemoveBookmark)
	router.POST("/api/library/books/:id/notes", libraryController.AddNote)
	router.DELETE("/api/library/books/:id/notes/:noteId", libraryController.RemoveNote)
	router.GET("/api/library/statistics", libraryController.GetStatistics)

	// Aggregated catalog search
	if cfg.Searcher != nil {
		searchController := NewSearchController(cfg.Searcher, cfg.SearchDefaults)
		router.GET("/api/search", searchController.Search)
		router.GET("/api/search/topics", searchController.GetTopics)
		router.GET("/api/search/publishers", searchController.GetPublishers)
	}

	// Background downloads and enrichment
	if cfg.TaskClient != nil {
		downloadsController := NewDownloadsController(cfg.TaskClient)
		router.POST("/api/downloads", downloadsController.QueueDownload)
		router.GET("/api/downloads/:id", downloadsController.GetDownloadStatus)
		router.POST("/api/library/books/:id/enrich", downloadsController.EnrichBook)
	}

	// Reader text translation
	if cfg.Translator != nil {
		translateController := NewTranslateController(cfg.Translator, cfg.SourceLang, cfg.TargetLang)
		router.POST("/api/translate", translateController.Translate)
	}

	// Book cover endpoint
	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.Library)
		router.GET("/api/library/books/:id/cover", coversController.GetCover)
	}

	return router
}
