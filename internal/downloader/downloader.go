// Package downloader fetches remote book files into the local download
// directory, enforcing extension and size limits.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Downloader struct {
	downloadDir      string
	allowedFileTypes []string
	maxFileSizeMB    int64
	httpClient       *http.Client
	logger           *zap.Logger
}

func New(downloadDir string, allowedFileTypes []string, maxFileSizeMB int64, logger *zap.Logger) *Downloader {
	return &Downloader{
		downloadDir:      downloadDir,
		allowedFileTypes: allowedFileTypes,
		maxFileSizeMB:    maxFileSizeMB,
		httpClient:       &http.Client{Timeout: 5 * time.Minute},
		logger:           logger,
	}
}

func (d *Downloader) DownloadDir() string {
	return d.downloadDir
}

// IsFileTypeAllowed checks the filename extension against the allowlist.
// An empty allowlist permits everything.
func (d *Downloader) IsFileTypeAllowed(filename string) bool {
	if len(d.allowedFileTypes) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range d.allowedFileTypes {
		if ext == allowed {
			return true
		}
	}

	d.logger.Info("file type not allowed",
		zap.String("filename", filename),
		zap.String("extension", ext),
		zap.Strings("allowed_extensions", d.allowedFileTypes))
	return false
}

func (d *Downloader) isFileSizeAllowed(fileSize int64) bool {
	maxSizeBytes := d.maxFileSizeMB * 1024 * 1024
	if fileSize > maxSizeBytes {
		d.logger.Info("file size exceeds limit",
			zap.Int64("file_size", fileSize),
			zap.Int64("max_size", maxSizeBytes))
		return false
	}
	return true
}

// DownloadFile fetches fileURL into the download directory under filename,
// appending a numeric suffix when the name is already taken. It returns
// the final path on disk.
func (d *Downloader) DownloadFile(ctx context.Context, fileURL, filename string) (string, error) {
	if !d.IsFileTypeAllowed(filename) {
		return "", fmt.Errorf("file type not allowed: %s", filename)
	}

	if err := os.MkdirAll(d.downloadDir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Error("failed to download file",
			zap.String("url", fileURL),
			zap.Error(err))
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	if resp.ContentLength > 0 && !d.isFileSizeAllowed(resp.ContentLength) {
		return "", fmt.Errorf("file size %d bytes exceeds maximum allowed size %d MB",
			resp.ContentLength, d.maxFileSizeMB)
	}

	filePath := d.uniqueFilePath(filepath.Join(d.downloadDir, filename))

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	// Bound the copy as well; ContentLength can lie or be absent.
	limit := d.maxFileSizeMB*1024*1024 + 1
	written, err := io.Copy(file, io.LimitReader(resp.Body, limit))
	if err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("save file: %w", err)
	}
	if !d.isFileSizeAllowed(written) {
		os.Remove(filePath)
		return "", fmt.Errorf("downloaded file size %d bytes exceeds maximum allowed size %d MB",
			written, d.maxFileSizeMB)
	}

	d.logger.Info("file downloaded",
		zap.String("filename", filename),
		zap.String("path", filePath),
		zap.Int64("size", written))

	return filePath, nil
}

// uniqueFilePath appends _1, _2, ... until the path does not exist.
func (d *Downloader) uniqueFilePath(filePath string) string {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return filePath
	}

	ext := filepath.Ext(filePath)
	base := strings.TrimSuffix(filePath, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
