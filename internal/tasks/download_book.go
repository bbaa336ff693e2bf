package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mkawano/hondana/internal/entities"
	"github.com/mkawano/hondana/internal/library"
	"github.com/mkawano/hondana/internal/utils"
)

// DownloadBookTask downloads a book file from a search result and adds it
// to the library.
type DownloadBookTask struct {
	URL       string   `json:"url"`
	FileName  string   `json:"file_name"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher"`
	Thumbnail string   `json:"thumbnail"`
	Source    string   `json:"source"`
}

// Config returns the queue configuration for book download tasks.
func (t DownloadBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "download_book",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FileDownloader fetches a remote file into the download directory.
type FileDownloader interface {
	DownloadFile(ctx context.Context, fileURL, filename string) (string, error)
	IsFileTypeAllowed(filename string) bool
}

// BookAdder is the slice of the library manager the download task needs.
type BookAdder interface {
	AddBook(input library.AddBookInput) (entities.Book, error)
	GetBookByPath(filePath string) (entities.Book, bool)
}

// DownloadBookProcessor creates a processor function for DownloadBookTask.
func DownloadBookProcessor(dl FileDownloader, books BookAdder, logger *zap.Logger) backlite.QueueProcessor[DownloadBookTask] {
	return func(ctx context.Context, task DownloadBookTask) error {
		if dl == nil || books == nil {
			return fmt.Errorf("download task dependencies not configured")
		}

		filename := task.FileName
		if filename == "" {
			filename = utils.SanitizeFilename(task.Title) + ".pdf"
		}
		if !dl.IsFileTypeAllowed(filename) {
			return fmt.Errorf("file type not allowed: %s", filename)
		}

		filePath, err := dl.DownloadFile(ctx, task.URL, filename)
		if err != nil {
			return fmt.Errorf("download book %q: %w", task.Title, err)
		}

		if existing, ok := books.GetBookByPath(filePath); ok {
			logger.Info("book already in library, skipping add",
				zap.String("path", filePath),
				zap.String("book_id", existing.ID))
			return nil
		}

		bookType := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
		isFree := true
		book, err := books.AddBook(library.AddBookInput{
			Title:     task.Title,
			Authors:   task.Authors,
			FilePath:  filePath,
			FileName:  filepath.Base(filePath),
			Type:      entities.BookType(bookType),
			Publisher: task.Publisher,
			Thumbnail: task.Thumbnail,
			IsFree:    &isFree,
		})
		if err != nil {
			return fmt.Errorf("add downloaded book %q: %w", task.Title, err)
		}

		logger.Info("book downloaded and added to library",
			zap.String("book_id", book.ID),
			zap.String("title", book.Title),
			zap.String("source", task.Source),
			zap.String("path", filePath))
		return nil
	}
}

// NewDownloadBookQueue creates a backlite queue for book download tasks.
func NewDownloadBookQueue(dl FileDownloader, books BookAdder, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(DownloadBookProcessor(dl, books, logger))
}
