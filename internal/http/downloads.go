package http

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mkawano/hondana/internal/tasks"
	"github.com/mkawano/hondana/internal/utils"
)

// TaskEnqueuer enqueues background tasks and reports their status.
type TaskEnqueuer interface {
	Add(t ...backlite.Task) *backlite.TaskAddOp
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// DownloadsController enqueues book downloads as background tasks.
type DownloadsController struct {
	taskClient TaskEnqueuer
}

func NewDownloadsController(taskClient TaskEnqueuer) *DownloadsController {
	return &DownloadsController{taskClient: taskClient}
}

// DownloadRequest is the payload for queueing a book download. It mirrors
// the fields of an aggregated search result.
type DownloadRequest struct {
	URL       string   `json:"url" binding:"required"`
	Title     string   `json:"title" binding:"required"`
	FileName  string   `json:"fileName"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher"`
	Thumbnail string   `json:"thumbnail"`
	Source    string   `json:"source"`
}

// QueueDownload enqueues a download-and-add task for a search result.
// POST /api/downloads
func (controller *DownloadsController) QueueDownload(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	filename := req.FileName
	if filename == "" {
		filename = path.Base(req.URL)
		if filename == "." || filename == "/" || !strings.Contains(filename, ".") {
			filename = utils.SanitizeFilename(req.Title) + ".pdf"
		}
	}

	ids, err := controller.taskClient.Add(tasks.DownloadBookTask{
		URL:       req.URL,
		FileName:  filename,
		Title:     req.Title,
		Authors:   req.Authors,
		Publisher: req.Publisher,
		Thumbnail: req.Thumbnail,
		Source:    req.Source,
	}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue download")
		return
	}

	respondAccepted(c, "download queued", gin.H{"taskId": ids[0]})
}

// GetDownloadStatus reports the status of a queued download task.
// GET /api/downloads/:id
func (controller *DownloadsController) GetDownloadStatus(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	status, err := controller.taskClient.Status(c.Request.Context(), id)
	if err != nil {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"taskId": id, "status": status})
}

// EnrichBook enqueues a metadata enrichment task for a library book.
// POST /api/library/books/:id/enrich
func (controller *DownloadsController) EnrichBook(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	ids, err := controller.taskClient.Add(tasks.EnrichBookTask{BookID: id}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue enrichment")
		return
	}

	respondAccepted(c, "enrichment queued", gin.H{"taskId": ids[0]})
}
