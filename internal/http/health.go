package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkawano/hondana/internal/entities"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// BookLister reports the loaded library contents.
type BookLister interface {
	GetAllBooks() []entities.Book
}

type HealthController struct {
	books   BookLister
	tasksDB *sql.DB
	version string
}

func NewHealthController(books BookLister, tasksDB *sql.DB, version string) *HealthController {
	return &HealthController{
		books:   books,
		tasksDB: tasksDB,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.books != nil {
		checks["library"] = "ok"
	} else {
		checks["library"] = "not configured"
		status = "unhealthy"
	}

	// Check task queue database connectivity
	if h.tasksDB != nil {
		if err := h.tasksDB.Ping(); err != nil {
			checks["tasks"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["tasks"] = "ok"
		}
	} else {
		checks["tasks"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
